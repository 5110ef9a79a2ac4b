package annotation

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
)

// Morph is a sparse morphological feature map such as {"Case": "Nom"}.
type Morph map[string]string

// ParseMorph parses the Universal Dependencies string form "Case=Nom|Gender=Masc".
// Malformed pairs are skipped.
func ParseMorph(s string) Morph {
	m := Morph{}
	for _, pair := range strings.Split(s, "|") {
		k, v, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || k == "" || v == "" {
			continue
		}
		m[k] = v
	}
	return m
}

// String renders the morph in UD order (sorted by key).
func (m Morph) String() string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+m[k])
	}
	return strings.Join(parts, "|")
}

// UnmarshalJSON accepts both an object and the UD string form.
func (m *Morph) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errors.Wrap(err, "decode morph string")
		}
		*m = ParseMorph(s)
		return nil
	}
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "decode morph object")
	}
	*m = Morph(raw)
	return nil
}
