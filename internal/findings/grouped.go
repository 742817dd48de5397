package findings

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Group holds all findings of one type.
type Group struct {
	Type     string
	Findings []Finding
}

// Grouped is an ordered type -> findings map. Groups keep first-seen order and
// marshal to a JSON object whose keys appear in that order.
type Grouped []Group

// GroupByType groups findings by Type, preserving first-seen order of types and
// input order within each type.
func GroupByType(ff []Finding) Grouped {
	index := make(map[string]int)
	var out Grouped
	for _, f := range ff {
		i, ok := index[f.Type]
		if !ok {
			i = len(out)
			index[f.Type] = i
			out = append(out, Group{Type: f.Type})
		}
		out[i].Findings = append(out[i].Findings, f)
	}
	return out
}

// Get returns the findings of the given type, or nil.
func (g Grouped) Get(typ string) []Finding {
	for _, grp := range g {
		if grp.Type == typ {
			return grp.Findings
		}
	}
	return nil
}

// Types returns group types in order.
func (g Grouped) Types() []string {
	out := make([]string, 0, len(g))
	for _, grp := range g {
		out = append(out, grp.Type)
	}
	return out
}

// Len returns the total number of findings across all groups.
func (g Grouped) Len() int {
	n := 0
	for _, grp := range g {
		n += len(grp.Findings)
	}
	return n
}

// Flatten returns all findings in group order.
func (g Grouped) Flatten() []Finding {
	out := make([]Finding, 0, g.Len())
	for _, grp := range g {
		out = append(out, grp.Findings...)
	}
	return out
}

// MarshalJSON writes the groups as a JSON object in group order.
func (g Grouped) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, grp := range g {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(grp.Type)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(grp.Findings)
		if err != nil {
			return nil, fmt.Errorf("encoding group %q: %w", grp.Type, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object into groups, keeping key order.
func (g *Grouped) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*g = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("grouped findings: expected object, got %v", tok)
	}
	var out Grouped
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("grouped findings: expected string key, got %v", keyTok)
		}
		var ff []Finding
		if err := dec.Decode(&ff); err != nil {
			return fmt.Errorf("decoding group %q: %w", key, err)
		}
		out = append(out, Group{Type: key, Findings: ff})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*g = out
	return nil
}
