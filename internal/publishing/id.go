package publishing

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ID identifies a persisted category or tutorial. The zero value stands for
// a null id and encodes as JSON null.
type ID int64

// Persisted reports whether the id was assigned by the server.
func (id ID) Persisted() bool { return id != 0 }

func (id ID) String() string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(int64(id), 10)
}

// ParseID coerces a textual id to its numeric form. Surrounding whitespace is
// ignored; anything that is not a positive integer reports false.
func ParseID(value string) (ID, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return ID(n), true
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id == 0 {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(int64(id), 10)), nil
}

// UnmarshalJSON accepts numbers, numeric strings, and null. Any other shape
// decodes to the zero ID instead of failing.
func (id *ID) UnmarshalJSON(data []byte) error {
	*id = decodeID(data)
	return nil
}

func decodeID(data []byte) ID {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return 0
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return 0
		}
		parsed, _ := ParseID(s)
		return parsed
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return 0
		}
		if f != math.Trunc(f) || f <= 0 || f >= math.MaxInt64 {
			return 0
		}
		return ID(f)
	}
}
