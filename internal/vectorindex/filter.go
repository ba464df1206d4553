package vectorindex

import "fmt"

// FieldMatch is a single equality constraint against a payload field.
type FieldMatch struct {
	Field string
	Value string
}

// Filter is a conjunction of equality constraints over the known payload
// schema. A chunk is eligible only when every constraint matches.
type Filter struct {
	must []FieldMatch
}

// NewFilter builds a filter, rejecting field names outside the payload
// schema at construction time rather than failing silently at query time.
func NewFilter(matches ...FieldMatch) (*Filter, error) {
	if len(matches) == 0 {
		return nil, fmt.Errorf("filter requires at least one condition")
	}
	for _, m := range matches {
		if _, ok := payloadFields[m.Field]; !ok {
			return nil, fmt.Errorf("unknown payload field %q", m.Field)
		}
	}
	return &Filter{must: matches}, nil
}

// FileFilter restricts an operation to the chunks of a single document.
func FileFilter(fileID string) *Filter {
	return &Filter{must: []FieldMatch{{Field: FieldFileID, Value: fileID}}}
}

// Conditions returns the equality constraints in construction order.
func (f *Filter) Conditions() []FieldMatch {
	return f.must
}
