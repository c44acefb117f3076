package report

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cellCmp = cmp.AllowUnexported(Cell{})

func row(details, drawing, method string, values ...string) MeasurementRow {
	r := NewRow()
	r.Details = Text(details)
	r.Drawing = Text(drawing)
	r.Method = Text(method)
	for i, v := range values {
		r.Values[i] = Text(v)
	}
	return r
}

// storeAndLoad pushes datasets through their stored column form.
func storeAndLoad(t *testing.T, d Datasets) []MeasurementRow {
	t.Helper()
	load := func(ds Dataset) Dataset {
		col, err := ds.Column()
		require.NoError(t, err)
		out, err := DecodeDataset(col)
		require.NoError(t, err)
		return out
	}
	return Reconstruct(load(d.Blank), load(d.Supplier), load(d.Customer))
}

func TestExtractReconstructRoundTrip(t *testing.T) {
	rows := []MeasurementRow{
		row("Width", "10", "Caliper", "10.1", "10.0", "", "", "", "9.9"),
		row("Height", "", "Gauge", "", "", "", "", "", "", "", "", "", "4.2"),
		row("Thread", "M8", "", "ok"),
	}

	got := storeAndLoad(t, Extract(rows))

	want := make([]MeasurementRow, len(rows))
	for i, r := range rows {
		r.ActualValueManuallyEdited = true
		r.TolerancePlusManuallyEdited = true
		r.ToleranceMinusManuallyEdited = true
		want[i] = r
	}
	if diff := cmp.Diff(want, got, cellCmp); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
	for _, r := range got {
		assert.True(t, r.ActualValueManuallyEdited)
		assert.True(t, r.TolerancePlusManuallyEdited)
		assert.True(t, r.ToleranceMinusManuallyEdited)
	}
}

func TestExtractKeepsRowsAligned(t *testing.T) {
	rows := []MeasurementRow{
		row("A", "", "", "1"),
		NewRow(),
		row("", "", "", "", "", "", "", "", "7"),
	}
	d := Extract(rows)

	require.Len(t, d.Blank.Measurements, 3)
	require.Len(t, d.Supplier.Measurements, 3)
	require.Len(t, d.Customer.Measurements, 3)

	assert.Equal(t, "1", d.Supplier.Measurements[0]["P1"])
	assert.Contains(t, d.Supplier.Measurements[1], "P1")
	assert.Nil(t, d.Supplier.Measurements[1]["P1"])
	assert.Equal(t, "7", d.Customer.Measurements[2]["C1"])
}

func TestExtractDistinguishesNullFromAbsent(t *testing.T) {
	r := MeasurementRow{Details: Text(""), Drawing: Text("5"), Method: Null()}
	d := Extract([]MeasurementRow{r})

	blank := d.Blank.Measurements[0]
	assert.Contains(t, blank, "details")
	assert.Nil(t, blank["details"])
	assert.Contains(t, blank, "method")
	assert.Nil(t, blank["method"])
	assert.Equal(t, "5", blank["drawing"])
	assert.NotContains(t, blank, "actualValue")
	assert.Empty(t, d.Supplier.Measurements[0])
	assert.Empty(t, d.Customer.Measurements[0])

	col, err := d.Blank.Column()
	require.NoError(t, err)
	assert.JSONEq(t, `{"measurements":[{"details":null,"drawing":"5","method":null}]}`, string(col))
}

func TestAllNullDatasetCollapses(t *testing.T) {
	d := Extract([]MeasurementRow{NewRow(), NewRow()})
	assert.True(t, d.Supplier.IsAllNull())

	col, err := d.Supplier.Column()
	require.NoError(t, err)
	assert.Nil(t, col)
	assert.True(t, Dataset{}.IsAllNull())
}

func TestReconstructEndToEnd(t *testing.T) {
	blank, err := DecodeDataset([]byte(`{"measurements":[{"details":"Width","drawing":"10±1"}]}`))
	require.NoError(t, err)
	supplier, err := DecodeDataset([]byte(`{"measurements":[{"P1":"5"}]}`))
	require.NoError(t, err)
	customer, err := DecodeDataset([]byte(`{"measurements":[{"C1":"7"}]}`))
	require.NoError(t, err)

	rows := Reconstruct(blank, supplier, customer)

	require.Len(t, rows, 1)
	assert.Equal(t, "Width", rows[0].Details.String())
	assert.Equal(t, "10±1", rows[0].Drawing.String())
	assert.Equal(t, "5", rows[0].Values[0].String())
	assert.Equal(t, "7", rows[0].Values[5].String())
	assert.Equal(t, "", rows[0].ActualValue.String())
}

func TestReconstructPadsShorterDatasets(t *testing.T) {
	blank, _ := DecodeDataset([]byte(`{"measurements":[{"details":"a"},{"details":"b"},{"details":"c"}]}`))
	supplier, _ := DecodeDataset([]byte(`{"measurements":[{"P2":0}]}`))

	rows := Reconstruct(blank, supplier, Dataset{})

	require.Len(t, rows, 3)
	assert.Equal(t, "0", rows[0].Values[1].String())
	assert.Equal(t, "c", rows[2].Details.String())
	assert.Equal(t, "", rows[2].Values[0].String())
}

func TestReconstructAlwaysHasOneRow(t *testing.T) {
	rows := Reconstruct(Dataset{}, Dataset{}, Dataset{})
	require.Len(t, rows, 1)
	assert.True(t, rows[0].IsEmpty())
}

func TestDecodeDatasetLenient(t *testing.T) {
	d, err := DecodeDataset([]byte(`"{\"measurements\":[{\"P1\":\"3\"}]}"`))
	require.NoError(t, err)
	assert.Equal(t, "3", d.Measurements[0]["P1"])

	d, err = DecodeDataset(nil)
	require.NoError(t, err)
	assert.Empty(t, d.Measurements)

	d, err = DecodeDataset([]byte(`{"measurements":[null,{"P1":"x"}]}`))
	require.NoError(t, err)
	require.Len(t, d.Measurements, 2)
	assert.Empty(t, d.Measurements[0])

	_, err = DecodeDataset([]byte(`{not json`))
	assert.Error(t, err)
}

func TestDisplayText(t *testing.T) {
	assert.Equal(t, "", displayText(nil))
	assert.Equal(t, "0", displayText(float64(0)))
	assert.Equal(t, "2.5", displayText(2.5))
	assert.Equal(t, "", displayText(false))
	assert.Equal(t, "true", displayText(true))
	assert.Equal(t, "x", displayText("x"))
}
