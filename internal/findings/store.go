package findings

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Store provides in-memory storage and querying of findings with JSONL persistence.
type Store struct {
	mu       sync.RWMutex
	findings []Finding

	// Indexes for fast lookups
	byType     map[string][]int // type -> indices into findings
	bySeverity map[Severity][]int
	byFile     map[string][]int
	byRule     map[string][]int // wcag rule -> indices
}

// NewStore creates an empty finding store.
func NewStore() *Store {
	return &Store{
		byType:     make(map[string][]int),
		bySeverity: make(map[Severity][]int),
		byFile:     make(map[string][]int),
		byRule:     make(map[string][]int),
	}
}

// Add adds findings to the store.
func (s *Store) Add(ff ...Finding) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range ff {
		idx := len(s.findings)
		s.findings = append(s.findings, f)
		s.byType[f.Type] = append(s.byType[f.Type], idx)
		s.bySeverity[f.Severity] = append(s.bySeverity[f.Severity], idx)
		if f.File != "" {
			s.byFile[f.File] = append(s.byFile[f.File], idx)
		}
		if f.WCAGRule != "" {
			s.byRule[f.WCAGRule] = append(s.byRule[f.WCAGRule], idx)
		}
	}
}

// All returns all findings in the store.
func (s *Store) All() []Finding {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]Finding, len(s.findings))
	copy(result, s.findings)
	return result
}

// Count returns the number of findings in the store.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.findings)
}

// ByType returns all findings of the given type.
func (s *Store) ByType(typ string) []Finding {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collectByIndex(s.byType[typ])
}

// BySeverity returns all findings of the given severity.
func (s *Store) BySeverity(sev Severity) []Finding {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collectByIndex(s.bySeverity[sev])
}

// ByFile returns all findings for the given file.
func (s *Store) ByFile(file string) []Finding {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collectByIndex(s.byFile[file])
}

// ByRule returns all findings mapped to the given WCAG rule.
func (s *Store) ByRule(rule string) []Finding {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collectByIndex(s.byRule[rule])
}

// QueryOpts holds the filters for Query. Empty values match all.
type QueryOpts struct {
	Type       string
	Severity   Severity
	File       string // exact file
	FilePrefix string // e.g. "src/screens"
	Rule       string
	Text       string // case-insensitive substring of message or evidence
	Offset     int
	Limit      int // 0 = default 100, max 500
}

// Query returns findings matching all provided filters along with the total
// count of matches before offset/limit are applied.
func (s *Store) Query(opts QueryOpts) ([]Finding, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	text := strings.ToLower(opts.Text)

	var matched []Finding
	for _, f := range s.findings {
		if opts.Type != "" && f.Type != opts.Type {
			continue
		}
		if opts.Severity != "" && f.Severity != opts.Severity {
			continue
		}
		if opts.File != "" && f.File != opts.File {
			continue
		}
		if opts.FilePrefix != "" && !strings.HasPrefix(f.File, opts.FilePrefix) {
			continue
		}
		if opts.Rule != "" && f.WCAGRule != opts.Rule {
			continue
		}
		if text != "" &&
			!strings.Contains(strings.ToLower(f.Message), text) &&
			!strings.Contains(strings.ToLower(f.Evidence), text) {
			continue
		}
		matched = append(matched, f)
	}

	total := len(matched)

	if opts.Offset > 0 {
		if opts.Offset >= len(matched) {
			return nil, total
		}
		matched = matched[opts.Offset:]
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}
	if len(matched) > limit {
		matched = matched[:limit]
	}

	return matched, total
}

// Clear removes all findings from the store.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.findings = nil
	s.byType = make(map[string][]int)
	s.bySeverity = make(map[Severity][]int)
	s.byFile = make(map[string][]int)
	s.byRule = make(map[string][]int)
}

// WriteJSONL writes all findings as JSONL to the given writer.
func (s *Store) WriteJSONL(w io.Writer) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	enc := json.NewEncoder(w)
	for _, f := range s.findings {
		if err := enc.Encode(f); err != nil {
			return fmt.Errorf("encoding finding %s in %s: %w", f.Type, f.File, err)
		}
	}
	return nil
}

// WriteJSONLFile writes all findings as JSONL to the given file path.
func (s *Store) WriteJSONLFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	bw := bufio.NewWriter(f)
	if err := s.WriteJSONL(bw); err != nil {
		return err
	}
	return bw.Flush()
}

// ReadJSONL reads findings from a JSONL reader and adds them to the store.
func (s *Store) ReadJSONL(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 10*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var f Finding
		if err := json.Unmarshal(line, &f); err != nil {
			return fmt.Errorf("decoding finding: %w", err)
		}
		s.Add(f)
	}
	return scanner.Err()
}

// ReadJSONLFile reads findings from a JSONL file and adds them to the store.
func (s *Store) ReadJSONLFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return s.ReadJSONL(f)
}

func (s *Store) collectByIndex(indices []int) []Finding {
	result := make([]Finding, 0, len(indices))
	for _, idx := range indices {
		if idx < len(s.findings) {
			result = append(result, s.findings[idx])
		}
	}
	return result
}
