package detectors

import (
	"path/filepath"
	"strings"

	"github.com/dejo1307/a11yaudit/internal/findings"
	"github.com/dejo1307/a11yaudit/internal/jsx"
)

// SourceFile is one file under analysis. It is built once and only read by detectors.
type SourceFile struct {
	Path    string // slash-separated, relative to the scan root
	Ext     string
	Content string
	Doc     *jsx.Document
}

// NewSourceFile parses content and returns a SourceFile ready for detection.
func NewSourceFile(path string, content []byte) *SourceFile {
	path = filepath.ToSlash(path)
	return &SourceFile{
		Path:    path,
		Ext:     strings.ToLower(filepath.Ext(path)),
		Content: string(content),
		Doc:     jsx.Parse(path, content),
	}
}

// Result is what one detector (or a whole registry) produced for one file.
type Result struct {
	Findings  []findings.Finding
	Successes []findings.Success
	Notes     []findings.Note
}

// Merge appends other to r. Results compose by concatenation only.
func (r *Result) Merge(other Result) {
	r.Findings = append(r.Findings, other.Findings...)
	r.Successes = append(r.Successes, other.Successes...)
	r.Notes = append(r.Notes, other.Notes...)
}

// Detector checks one file for one family of accessibility problems.
// Implementations must be pure: no I/O, no shared mutable state, and an empty
// Result when nothing matches.
type Detector interface {
	// Name returns the detector identifier (e.g. "touch-target").
	Name() string
	// Detect inspects the file and returns its findings.
	Detect(file *SourceFile) Result
}

// Registry holds registered detectors in a fixed order.
type Registry struct {
	detectors []Detector
}

// NewRegistry creates a new detector registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a detector to the registry.
func (r *Registry) Register(d Detector) {
	r.detectors = append(r.detectors, d)
}

// Get returns the detector with the given name, or nil if not found.
func (r *Registry) Get(name string) Detector {
	for _, d := range r.detectors {
		if d.Name() == name {
			return d
		}
	}
	return nil
}

// All returns all registered detectors.
func (r *Registry) All() []Detector {
	return r.detectors
}

// Names returns detector names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.detectors))
	for _, d := range r.detectors {
		names = append(names, d.Name())
	}
	return names
}

// Run applies every detector to file and concatenates their results.
func (r *Registry) Run(file *SourceFile) Result {
	var out Result
	for _, d := range r.detectors {
		out.Merge(d.Detect(file))
	}
	return out
}

// Default returns the canonical detector set. themePatterns selects the files the
// color-contrast detector treats as theme definitions.
func Default(themePatterns []string) []Detector {
	return []Detector{
		TouchTarget{},
		AccessibilityLabel{},
		AccessibilityRole{},
		FocusHandlers{},
		Motion{},
		ImageDescription{},
		TextInput{},
		NewColorContrast(themePatterns),
		FontSize{},
		Modal{},
	}
}
