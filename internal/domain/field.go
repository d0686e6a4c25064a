package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Field holds a raw field value as text. Tokenizers differ in whether they
// emit numeric fields as JSON strings or numbers; both decode to the same
// text, so "5222.3277" and 5222.3277 are equivalent. null decodes to "".
type Field string

func (f *Field) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*f = ""
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("decode field: %w", err)
		}
		*f = Field(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("decode field: %w", err)
	}
	*f = Field(n.String())
	return nil
}

// String returns the raw text.
func (f Field) String() string { return string(f) }
