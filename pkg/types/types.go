// Package domain defines the core business types for the listing notifier.
package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
)

// Registration is one configured set of recipients plus the named upstream
// queries polled on their behalf.
type Registration struct {
	Name    string            `yaml:"name"    json:"name"`
	To      []string          `yaml:"to"      json:"to"`
	Queries map[string]string `yaml:"queries" json:"queries"`
}

// QueryNames returns the registration's query names in sorted order.
func (r *Registration) QueryNames() []string {
	return slices.Sorted(maps.Keys(r.Queries))
}

// Image is a single listing photo.
type Image struct {
	Src string `json:"src"`
}

// Listing is a fetched upstream listing. Only its ID outlives a pass.
type Listing struct {
	ID     string           `json:"id"`
	Price  Price            `json:"price"`
	Images map[string]Image `json:"images,omitempty"`
}

// ImageKeys returns the listing's image keys in sorted order.
func (l *Listing) ImageKeys() []string {
	return slices.Sorted(maps.Keys(l.Images))
}

// Price is the upstream price rendered verbatim. The feed sends it either as
// a formatted string or as a bare number.
type Price string

// UnmarshalJSON accepts a JSON string, number, or null.
func (p *Price) UnmarshalJSON(data []byte) error {
	s, err := scalarString(data)
	if err != nil {
		return fmt.Errorf("decoding price: %w", err)
	}
	*p = Price(s)
	return nil
}

// String implements fmt.Stringer.
func (p Price) String() string {
	return string(p)
}

// ParseID converts a raw JSON identifier into its string form. Missing, null,
// empty-string and zero identifiers all yield "".
func ParseID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	s, err := scalarString(raw)
	if err != nil {
		return "", fmt.Errorf("decoding id: %w", err)
	}
	if f, perr := strconv.ParseFloat(s, 64); perr == nil && f == 0 && raw[0] != '"' {
		return "", nil
	}
	return s, nil
}

func scalarString(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		return "", nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", err
		}
		return s, nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return "", err
		}
		return n.String(), nil
	}
}

// SeenSet is the persisted collection of listing identifiers already
// notified. It only ever grows, except through an explicit reset.
type SeenSet struct {
	Data []string `json:"data"`
}

// Contains reports whether id has been seen.
func (s *SeenSet) Contains(id string) bool {
	return slices.Contains(s.Data, id)
}

// Index returns the seen identifiers as a lookup set.
func (s *SeenSet) Index() map[string]struct{} {
	idx := make(map[string]struct{}, len(s.Data))
	for _, id := range s.Data {
		idx[id] = struct{}{}
	}
	return idx
}

// Union returns a new SeenSet holding s's identifiers followed by any ids not
// already present, with duplicates removed.
func (s *SeenSet) Union(ids []string) *SeenSet {
	out := make([]string, 0, len(s.Data)+len(ids))
	seen := make(map[string]struct{}, len(s.Data)+len(ids))
	for _, list := range [][]string{s.Data, ids} {
		for _, id := range list {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return &SeenSet{Data: out}
}

// PassResult is the outcome of one pass for a single registration.
type PassResult struct {
	Registration string `json:"registration"`
	Unseen       int    `json:"unseen"`
	Error        string `json:"error,omitempty"`
}
