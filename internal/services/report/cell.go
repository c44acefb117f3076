package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type cellState uint8

const (
	cellAbsent cellState = iota
	cellNull
	cellText
)

// Cell is one table value. The zero Cell is absent: the field was never part
// of the row. A null Cell was explicitly cleared.
type Cell struct {
	text  string
	state cellState
}

func Text(s string) Cell { return Cell{text: s, state: cellText} }

func Null() Cell { return Cell{state: cellNull} }

// String returns the text, or "" for null and absent cells.
func (c Cell) String() string { return c.text }

func (c Cell) IsAbsent() bool { return c.state == cellAbsent }

func (c Cell) IsNull() bool { return c.state == cellNull }

// IsBlank reports whether the cell holds no visible text.
func (c Cell) IsBlank() bool { return strings.TrimSpace(c.text) == "" }

// clean maps a cell to its stored form: absent is omitted (ok=false), an
// empty string becomes nil, everything else passes through.
func (c Cell) clean() (v any, ok bool) {
	switch c.state {
	case cellAbsent:
		return nil, false
	case cellNull:
		return nil, true
	}
	if c.text == "" {
		return nil, true
	}
	return c.text, true
}

func (c Cell) MarshalJSON() ([]byte, error) {
	if c.state != cellText {
		return []byte("null"), nil
	}
	return json.Marshal(c.text)
}

func (c *Cell) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*c = Null()
		return nil
	}
	var v any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return err
	}
	switch x := v.(type) {
	case string:
		*c = Text(x)
	case json.Number:
		*c = Text(x.String())
	case bool:
		*c = Text(strconv.FormatBool(x))
	default:
		return fmt.Errorf("cell: unsupported value %s", b)
	}
	return nil
}

// displayText renders a stored JSON value for display. Missing, null, false and
// empty values render as "".
func displayText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	case bool:
		if x {
			return "true"
		}
		return ""
	default:
		return fmt.Sprint(x)
	}
}
