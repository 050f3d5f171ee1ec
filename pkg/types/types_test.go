package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/donaldgifford/listing-notifier/pkg/types"
)

func TestPrice_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  domain.Price
	}{
		{name: "formatted string", input: `"2,100,000 ₪"`, want: "2,100,000 ₪"},
		{name: "integer number", input: `2100000`, want: "2100000"},
		{name: "decimal number", input: `3450.5`, want: "3450.5"},
		{name: "null", input: `null`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var p domain.Price
			require.NoError(t, json.Unmarshal([]byte(tt.input), &p))
			assert.Equal(t, tt.want, p)
		})
	}
}

func TestPrice_UnmarshalJSON_Invalid(t *testing.T) {
	t.Parallel()

	var p domain.Price
	err := json.Unmarshal([]byte(`{"value": 1}`), &p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding price")
}

func TestParseID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "missing", raw: ``, want: ""},
		{name: "null", raw: `null`, want: ""},
		{name: "empty string", raw: `""`, want: ""},
		{name: "string id", raw: `"k9x2m1"`, want: "k9x2m1"},
		{name: "numeric id", raw: `73311`, want: "73311"},
		{name: "zero number", raw: `0`, want: ""},
		{name: "zero string is kept", raw: `"0"`, want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := domain.ParseID(json.RawMessage(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSeenSet_Union(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		prior []string
		ids   []string
		want  []string
	}{
		{name: "empty prior", prior: nil, ids: []string{"a", "b"}, want: []string{"a", "b"}},
		{name: "keeps prior order", prior: []string{"c", "a"}, ids: []string{"b"}, want: []string{"c", "a", "b"}},
		{name: "dedupes overlap", prior: []string{"a"}, ids: []string{"a", "b", "b", "c"}, want: []string{"a", "b", "c"}},
		{name: "nothing new", prior: []string{"a"}, ids: nil, want: []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := &domain.SeenSet{Data: tt.prior}
			got := s.Union(tt.ids)
			assert.Equal(t, tt.want, got.Data)
			assert.Equal(t, tt.prior, s.Data, "receiver must not change")
		})
	}
}

func TestSeenSet_ContainsAndIndex(t *testing.T) {
	t.Parallel()

	s := &domain.SeenSet{Data: []string{"a", "b"}}
	assert.True(t, s.Contains("a"))
	assert.False(t, s.Contains("z"))

	idx := s.Index()
	assert.Len(t, idx, 2)
	_, ok := idx["b"]
	assert.True(t, ok)
}

func TestRegistration_QueryNames(t *testing.T) {
	t.Parallel()

	r := &domain.Registration{Queries: map[string]string{
		"rent-2-3": "https://example.com/rent",
		"buy-4-4":  "https://example.com/buy",
	}}
	assert.Equal(t, []string{"buy-4-4", "rent-2-3"}, r.QueryNames())
}

func TestListing_ImageKeys(t *testing.T) {
	t.Parallel()

	l := &domain.Listing{Images: map[string]domain.Image{
		"Image3": {Src: "c"},
		"Image1": {Src: "a"},
		"Image2": {Src: "b"},
	}}
	assert.Equal(t, []string{"Image1", "Image2", "Image3"}, l.ImageKeys())
	assert.Empty(t, (&domain.Listing{}).ImageKeys())
}
