package report

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/datatypes"

	"qcreports/internal/models"
	"qcreports/internal/util"
)

var saveTime = time.Date(2026, 3, 5, 9, 30, 0, 123_000_000, time.UTC)

func TestGenerateReportNamePriority(t *testing.T) {
	stamp := util.LastDigits(saveTime.UnixMilli(), 6)
	cases := []struct {
		name   string
		inputs map[string]string
		want   string
	}{
		{"drawing number", map[string]string{FieldCustomerDrawingNo: "D-77", FieldSupplierPartSubjectNo: "P-1"}, "D-77"},
		{"supplier drawing first", map[string]string{FieldSupplierDrawingNo: " D-1 ", FieldCustomerDrawingNo: "D-2"}, "D-1"},
		{"part number", map[string]string{FieldSupplierPartSubjectNo: "P-1", FieldSupplierTestReportNo: "T-1"}, "FI-P-1"},
		{"test report", map[string]string{FieldCustomerTestReportNo: "T-9", FieldSupplierName: "Acme"}, "FI-T-9"},
		{"supplier name", map[string]string{FieldSupplierName: "Acme", FieldCustomerName: "Bosch"}, "FI-Acme-" + stamp},
		{"customer name", map[string]string{FieldCustomerName: "Bosch"}, "FI-Bosch-" + stamp},
		{"nothing", map[string]string{FieldSupplierDrawingNo: "   "}, "FI-Report-20260305-" + stamp},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := &FIForm{Inputs: tc.inputs}
			assert.Equal(t, tc.want, GenerateReportName(f, saveTime))
		})
	}
}

func TestSaveFIFormPayload(t *testing.T) {
	f := NewFIForm()
	f.SetInput(FieldSupplierNumber, "42 pcs")
	f.SetInput(FieldSupplierDate, "2026-02-01")
	f.SetInput(FieldSupplierDrawingNo, "DRW-1")
	f.SetInput(FieldCustomerName, " Bosch ")
	f.SetChecked(CheckDimensionReport, true)
	f.Rows[0].Details = Text("Width")
	f.Rows[0].Values[0] = Text("10.1")

	p, err := SaveFIForm(f, saveTime)
	require.NoError(t, err)

	assert.Equal(t, "DRW-1", p["reportName"])
	assert.Equal(t, 42, p["supplierNumber"])
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), p["date"])
	assert.Equal(t, "Bosch", p["clientName"])
	assert.Equal(t, "", p["remarkSupplier"])
	assert.Equal(t, true, p["dimensionReport"])
	assert.False(t, p.Has("materialReport"), "unticked boxes are left out")
	assert.True(t, p.Has("blankReportData"))
	assert.True(t, p.Has("supplierFiledData"))
	assert.False(t, p.Has("customerFiledData"), "all-null dataset is omitted")
	assert.JSONEq(t, `{"measurements":[{"P1":"10.1","P2":null,"P3":null,"P4":null,"P5":null}]}`,
		string(p["supplierFiledData"].(datatypes.JSON)))
}

func TestSaveFIFormCoercionFallsBackToNil(t *testing.T) {
	f := NewFIForm()
	f.SetInput(FieldSupplierNumber, "n/a")
	f.SetInput(FieldSupplierDate, "31.02.2026")

	p, err := SaveFIForm(f, saveTime)
	require.NoError(t, err)
	assert.True(t, p.Has("supplierNumber"))
	assert.Nil(t, p["supplierNumber"])
	assert.True(t, p.Has("date"))
	assert.Nil(t, p["date"])
}

func TestSaveFIFormOmitsFieldsNotOnForm(t *testing.T) {
	f := &FIForm{Inputs: map[string]string{FieldSupplierName: "Acme"}}
	p, err := SaveFIForm(f, saveTime)
	require.NoError(t, err)

	assert.Equal(t, "Acme", p["supplierName"])
	for _, field := range []string{"supplierNumber", "date", "drawingNo", "blankReportData"} {
		assert.False(t, p.Has(field), field)
	}
}

func TestLoadFIForm(t *testing.T) {
	num := 7
	date := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	drawing := "DRW-9"
	yes := true
	rec := &models.FIReport{
		ID:                "rec-1",
		SupplierNumber:    &num,
		Date:              &date,
		DrawingNo:         &drawing,
		HapticsVI:         &yes,
		BlankReportData:   datatypes.JSON(`{"measurements":[{"details":"Width","drawing":"10±1"},{"details":"Depth"}]}`),
		SupplierFiledData: datatypes.JSON(`{"measurements":[{"P1":"5"}]}`),
	}

	f := LoadFIForm(rec, zap.NewNop().Sugar())

	assert.Equal(t, "7", f.Inputs[FieldSupplierNumber])
	assert.Equal(t, "2026-01-02", f.Inputs[FieldSupplierDate])
	assert.Equal(t, "DRW-9", f.Inputs[FieldSupplierDrawingNo])
	assert.Equal(t, "", f.Inputs[FieldCustomerName])
	assert.True(t, f.Checks[CheckHapticsVisual])
	assert.False(t, f.Checks[CheckMaterialReport])
	require.Len(t, f.Rows, 2)
	assert.Equal(t, "5", f.Rows[0].Values[0].String())
	assert.Equal(t, "Depth", f.Rows[1].Details.String())
}

func TestLoadFIFormSurvivesCorruptBlob(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	rec := &models.FIReport{
		ID:                "rec-2",
		BlankReportData:   datatypes.JSON(`{"measurements":[{"details":`),
		SupplierFiledData: datatypes.JSON(`{"measurements":[{"P1":"5"},{"P1":"6"}]}`),
	}

	f := LoadFIForm(rec, zap.New(core).Sugar())

	require.Len(t, f.Rows, 2)
	assert.Equal(t, "6", f.Rows[1].Values[0].String())
	assert.Equal(t, "", f.Rows[0].Details.String())
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "blankReportData", logs.All()[0].ContextMap()["field"])
}

func TestFIFormSaveLoadRoundTrip(t *testing.T) {
	f := NewFIForm()
	f.SetInput(FieldSupplierName, "Acme")
	f.SetInput(FieldSupplierDate, "2026-02-01")
	f.Rows[0].Details = Text("Width")
	f.Rows[0].SetDrawing("12.5 ± 0.3")
	f.Rows, _ = AdvanceRow(f.Rows, 0)
	f.Rows[1].Values[6] = Text("3.3")

	p, err := SaveFIForm(f, saveTime)
	require.NoError(t, err)

	col := func(field string) datatypes.JSON {
		j, _ := p[field].(datatypes.JSON)
		return j
	}
	assert.False(t, p.Has("supplierFiledData"))
	rec := &models.FIReport{
		BlankReportData:   col("blankReportData"),
		SupplierFiledData: col("supplierFiledData"),
		CustomerFiledData: col("customerFiledData"),
	}
	loaded := LoadFIForm(rec, zap.NewNop().Sugar())

	require.Len(t, loaded.Rows, 2)
	assert.Equal(t, "12.8", loaded.Rows[0].TolerancePlus.String())
	assert.Equal(t, "3.3", loaded.Rows[1].Values[6].String())
	assert.True(t, loaded.Rows[0].ActualValueManuallyEdited)
}

func TestSaveFIFormDerivesUnlatchedTolerances(t *testing.T) {
	f := NewFIForm()
	f.Rows[0].Drawing = Text("12.5 ± 0.3")
	f.Rows[0].ActualValue = Null()
	f.Rows[0].TolerancePlus = Null()
	f.Rows[0].ToleranceMinus = Null()

	latched := row("Depth", "4 ± 1", "")
	latched.SetActualValue("4.2")
	plain := row("Finish", "see note", "")
	plain.ActualValue = Text("smooth")
	f.Rows = append(f.Rows, latched, plain)
	before := append([]MeasurementRow(nil), f.Rows...)

	p, err := SaveFIForm(f, saveTime)
	require.NoError(t, err)

	ds, err := DecodeDataset(p["blankReportData"].(datatypes.JSON))
	require.NoError(t, err)
	require.Len(t, ds.Measurements, 3)
	got := ds.Measurements[0]
	assert.Equal(t, "12.5", got["actualValue"])
	assert.Equal(t, "12.8", got["tolerancePlus"])
	assert.Equal(t, "12.2", got["toleranceMinus"])

	assert.Equal(t, "4.2", ds.Measurements[1]["actualValue"], "manual value survives")
	assert.Equal(t, "5", ds.Measurements[1]["tolerancePlus"])
	assert.Equal(t, "smooth", ds.Measurements[2]["actualValue"], "non-tolerance drawings are stored as sent")

	if diff := cmp.Diff(before, f.Rows, cellCmp); diff != "" {
		t.Fatalf("form rows changed (-before +after):\n%s", diff)
	}
}
