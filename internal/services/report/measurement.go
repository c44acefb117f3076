package report

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"
)

const (
	// ValueSlots is the number of measured points per row: P1..P5 from the
	// supplier followed by C1..C5 from the customer.
	ValueSlots    = 10
	SupplierSlots = 5
)

// MeasurementRow is one row of an FI tolerance table.
type MeasurementRow struct {
	Details        Cell
	Drawing        Cell
	Method         Cell
	ActualValue    Cell
	TolerancePlus  Cell
	ToleranceMinus Cell
	Values         [ValueSlots]Cell

	// Once set, the matching field is never derived from Drawing again.
	ActualValueManuallyEdited    bool
	TolerancePlusManuallyEdited  bool
	ToleranceMinusManuallyEdited bool
}

// NewRow returns an empty row as a freshly opened form shows it.
func NewRow() MeasurementRow {
	r := MeasurementRow{
		Details:        Text(""),
		Drawing:        Text(""),
		Method:         Text(""),
		ActualValue:    Text(""),
		TolerancePlus:  Text(""),
		ToleranceMinus: Text(""),
	}
	for i := range r.Values {
		r.Values[i] = Text("")
	}
	return r
}

// IsEmpty reports whether every data cell of the row is blank.
func (r MeasurementRow) IsEmpty() bool {
	for _, c := range r.characteristics() {
		if !c.IsBlank() {
			return false
		}
	}
	for _, c := range r.Values {
		if !c.IsBlank() {
			return false
		}
	}
	return true
}

func (r MeasurementRow) characteristics() []Cell {
	return []Cell{r.Details, r.Drawing, r.Method, r.ActualValue, r.TolerancePlus, r.ToleranceMinus}
}

var drawingPattern = regexp.MustCompile(`^([\d.]+)\s*±\s*([\d.]+)$`)

// Tolerance is a parsed "<nominal> ± <tolerance>" drawing value.
type Tolerance struct {
	Nominal decimal.Decimal
	Plus    decimal.Decimal
	Minus   decimal.Decimal
}

var leadingNumber = regexp.MustCompile(`^(?:\d+(?:\.\d+)?|\.\d+)`)

// leadingDecimal reads the longest numeric prefix of s, so "1.2.3" is 1.2.
// Input with no digits before or right after the first dot is not a number.
func leadingDecimal(s string) (decimal.Decimal, bool) {
	n := leadingNumber.FindString(s)
	if n == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(n)
	return d, err == nil
}

// ParseDrawing recognizes "<number> ± <number>". Each side is read up to its
// first non-numeric character.
func ParseDrawing(s string) (Tolerance, bool) {
	m := drawingPattern.FindStringSubmatch(s)
	if m == nil {
		return Tolerance{}, false
	}
	nominal, ok := leadingDecimal(m[1])
	if !ok {
		return Tolerance{}, false
	}
	tol, ok := leadingDecimal(m[2])
	if !ok {
		return Tolerance{}, false
	}
	return Tolerance{Nominal: nominal, Plus: nominal.Add(tol), Minus: nominal.Sub(tol)}, true
}

// SetDrawing stores the drawing text and re-derives every field whose
// manual-edit flag is still clear. A drawing that is not a tolerance
// expression is copied into ActualValue and clears both limits.
func (r *MeasurementRow) SetDrawing(s string) {
	r.Drawing = Text(s)
	r.Derive()
}

// Derive recomputes the unlatched fields from the current drawing text.
func (r *MeasurementRow) Derive() {
	s := r.Drawing.String()
	actual, plus, minus := Text(s), Null(), Null()
	if t, ok := ParseDrawing(s); ok {
		actual, plus, minus = Text(t.Nominal.String()), Text(t.Plus.String()), Text(t.Minus.String())
	}
	if !r.ActualValueManuallyEdited {
		r.ActualValue = actual
	}
	if !r.TolerancePlusManuallyEdited {
		r.TolerancePlus = plus
	}
	if !r.ToleranceMinusManuallyEdited {
		r.ToleranceMinus = minus
	}
}

func (r *MeasurementRow) SetActualValue(s string) {
	r.ActualValue = Text(s)
	r.ActualValueManuallyEdited = true
}

func (r *MeasurementRow) SetTolerancePlus(s string) {
	r.TolerancePlus = Text(s)
	r.TolerancePlusManuallyEdited = true
}

func (r *MeasurementRow) SetToleranceMinus(s string) {
	r.ToleranceMinus = Text(s)
	r.ToleranceMinusManuallyEdited = true
}

// deriveTolerances returns a copy of rows in which every row with a
// tolerance drawing has its unlatched fields recomputed. Other rows are kept
// as submitted.
func deriveTolerances(rows []MeasurementRow) []MeasurementRow {
	out := make([]MeasurementRow, len(rows))
	copy(out, rows)
	for i := range out {
		if _, ok := ParseDrawing(out[i].Drawing.String()); ok {
			out[i].Derive()
		}
	}
	return out
}

// AdvanceRow moves from row index to the next one, appending a blank row
// when index is the last row.
func AdvanceRow(rows []MeasurementRow, index int) ([]MeasurementRow, int) {
	next := index + 1
	if next >= len(rows) {
		rows = append(rows, NewRow())
	}
	return rows, next
}

// RemoveRow drops an empty row. The table never shrinks below one row and
// rows holding any data are kept.
func RemoveRow(rows []MeasurementRow, index int) []MeasurementRow {
	if len(rows) <= 1 || index < 0 || index >= len(rows) || !rows[index].IsEmpty() {
		return rows
	}
	out := make([]MeasurementRow, 0, len(rows)-1)
	out = append(out, rows[:index]...)
	return append(out, rows[index+1:]...)
}

// ClearCharacteristics blanks every cell and releases the manual-edit
// latches, keeping the row count.
func ClearCharacteristics(rows []MeasurementRow) []MeasurementRow {
	out := make([]MeasurementRow, len(rows))
	for i := range rows {
		out[i] = NewRow()
	}
	return out
}

// ClearMeasurements nulls the ten measured points and keeps the
// characteristics.
func ClearMeasurements(rows []MeasurementRow) []MeasurementRow {
	out := make([]MeasurementRow, len(rows))
	for i, r := range rows {
		for j := range r.Values {
			r.Values[j] = Null()
		}
		out[i] = r
	}
	return out
}

func valueKey(i int) string { return fmt.Sprintf("value%d", i) }

func (r MeasurementRow) MarshalJSON() ([]byte, error) {
	m := map[string]any{
		"details":                      r.Details,
		"drawing":                      r.Drawing,
		"method":                       r.Method,
		"actualValue":                  r.ActualValue,
		"tolerancePlus":                r.TolerancePlus,
		"toleranceMinus":               r.ToleranceMinus,
		"actualValueManuallyEdited":    r.ActualValueManuallyEdited,
		"tolerancePlusManuallyEdited":  r.TolerancePlusManuallyEdited,
		"toleranceMinusManuallyEdited": r.ToleranceMinusManuallyEdited,
	}
	for i, v := range r.Values {
		m[valueKey(i)] = v
	}
	return json.Marshal(m)
}

// UnmarshalJSON leaves cells absent when their key is missing.
func (r *MeasurementRow) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("measurement row: %w", err)
	}
	var out MeasurementRow
	cells := map[string]*Cell{
		"details":        &out.Details,
		"drawing":        &out.Drawing,
		"method":         &out.Method,
		"actualValue":    &out.ActualValue,
		"tolerancePlus":  &out.TolerancePlus,
		"toleranceMinus": &out.ToleranceMinus,
	}
	for i := range out.Values {
		cells[valueKey(i)] = &out.Values[i]
	}
	for key, dst := range cells {
		if v, ok := raw[key]; ok {
			if err := json.Unmarshal(v, dst); err != nil {
				return fmt.Errorf("measurement row %s: %w", key, err)
			}
		}
	}
	flags := map[string]*bool{
		"actualValueManuallyEdited":    &out.ActualValueManuallyEdited,
		"tolerancePlusManuallyEdited":  &out.TolerancePlusManuallyEdited,
		"toleranceMinusManuallyEdited": &out.ToleranceMinusManuallyEdited,
	}
	for key, dst := range flags {
		if v, ok := raw[key]; ok {
			if err := json.Unmarshal(v, dst); err != nil {
				return fmt.Errorf("measurement row %s: %w", key, err)
			}
		}
	}
	*r = out
	return nil
}
