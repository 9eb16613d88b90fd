package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ID is an opaque remote identifier. The remote API sends ids as JSON numbers,
// older records carry them as strings; both decode to the same canonical text.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || string(b) == "null":
		*id = ""
		return nil
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	case b[0] == '{' || b[0] == '[':
		return fmt.Errorf("id: unexpected %s", string(b[:1]))
	default:
		*id = ID(string(b))
		return nil
	}
}

// MarshalJSON writes canonical integer ids back as numbers so that the remote
// API sees the same type it sent. Anything else, "007" or "+5" included, stays
// a string.
func (id ID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id ID) String() string { return string(id) }

// Empty reports whether the id was never assigned.
func (id ID) Empty() bool { return strings.TrimSpace(string(id)) == "" }
