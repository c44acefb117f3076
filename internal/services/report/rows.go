package report

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"qcreports/internal/models"
)

// Measurement is one entry of a stored dataset. A nil value is a field the
// user cleared; a missing key was never part of the row.
type Measurement map[string]any

// Dataset is the stored shape of one measurement blob.
type Dataset struct {
	Measurements []Measurement `json:"measurements"`
}

var (
	blankKeys    = []string{"details", "drawing", "method", "actualValue", "tolerancePlus", "toleranceMinus"}
	supplierKeys = []string{"P1", "P2", "P3", "P4", "P5"}
	customerKeys = []string{"C1", "C2", "C3", "C4", "C5"}
)

// Datasets are the three positionally aligned blobs extracted from a table.
type Datasets struct {
	Blank    Dataset
	Supplier Dataset
	Customer Dataset
}

// Extract splits rows into the blank, supplier and customer datasets. Every
// row contributes one entry to each dataset, empty or not, so index i keeps
// describing the same row in all three.
func Extract(rows []MeasurementRow) Datasets {
	var d Datasets
	for _, r := range rows {
		blank := Measurement{}
		for i, c := range r.characteristics() {
			if v, ok := c.clean(); ok {
				blank[blankKeys[i]] = v
			}
		}
		supplier := Measurement{}
		customer := Measurement{}
		for i, c := range r.Values {
			v, ok := c.clean()
			if !ok {
				continue
			}
			if i < SupplierSlots {
				supplier[supplierKeys[i]] = v
			} else {
				customer[customerKeys[i-SupplierSlots]] = v
			}
		}
		d.Blank.Measurements = append(d.Blank.Measurements, blank)
		d.Supplier.Measurements = append(d.Supplier.Measurements, supplier)
		d.Customer.Measurements = append(d.Customer.Measurements, customer)
	}
	return d
}

// IsAllNull reports whether a dataset carries no value at all: no entries,
// or only entries that are empty or hold nothing but nulls.
func (d Dataset) IsAllNull() bool {
	for _, m := range d.Measurements {
		for _, v := range m {
			if v != nil {
				return false
			}
		}
	}
	return true
}

// Column encodes the dataset for storage. An all-null dataset encodes to nil
// so the caller omits it from the payload.
func (d Dataset) Column() (datatypes.JSON, error) {
	if d.IsAllNull() {
		return nil, nil
	}
	return models.EncodeJSON(d)
}

// DecodeDataset parses a stored blob. Entries that are not objects decode as
// empty entries so positions stay aligned.
func DecodeDataset(raw []byte) (Dataset, error) {
	obj, err := models.DecodeObject(raw)
	if err != nil {
		return Dataset{}, err
	}
	list, ok := obj["measurements"].([]any)
	if !ok {
		if _, present := obj["measurements"]; present && obj["measurements"] != nil {
			return Dataset{}, fmt.Errorf("measurements: expected array, got %T", obj["measurements"])
		}
		return Dataset{}, nil
	}
	d := Dataset{Measurements: make([]Measurement, len(list))}
	for i, item := range list {
		m, _ := item.(map[string]any)
		if m == nil {
			m = map[string]any{}
		}
		d.Measurements[i] = m
	}
	return d, nil
}

func (d Dataset) at(i int) Measurement {
	if i < len(d.Measurements) && d.Measurements[i] != nil {
		return d.Measurements[i]
	}
	return Measurement{}
}

// Reconstruct joins the three datasets by position into editable rows. The
// result always has at least one row. Restored values are treated as final,
// so every manual-edit flag is set.
func Reconstruct(blank, supplier, customer Dataset) []MeasurementRow {
	n := max(len(blank.Measurements), len(supplier.Measurements), len(customer.Measurements), 1)
	rows := make([]MeasurementRow, n)
	for i := range rows {
		b, s, c := blank.at(i), supplier.at(i), customer.at(i)
		r := MeasurementRow{
			Details:                      Text(displayText(b["details"])),
			Drawing:                      Text(displayText(b["drawing"])),
			Method:                       Text(displayText(b["method"])),
			ActualValue:                  Text(displayText(b["actualValue"])),
			TolerancePlus:                Text(displayText(b["tolerancePlus"])),
			ToleranceMinus:               Text(displayText(b["toleranceMinus"])),
			ActualValueManuallyEdited:    true,
			TolerancePlusManuallyEdited:  true,
			ToleranceMinusManuallyEdited: true,
		}
		for j, key := range supplierKeys {
			r.Values[j] = Text(displayText(s[key]))
		}
		for j, key := range customerKeys {
			r.Values[SupplierSlots+j] = Text(displayText(c[key]))
		}
		rows[i] = r
	}
	return rows
}

// MarshalJSON keeps entries as objects even when empty.
func (m Measurement) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]any(m))
}
