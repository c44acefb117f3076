package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"qcreports/internal/models"
	"qcreports/internal/util"
)

// FI form field identifiers. They are the contract between the report page
// and the mapper.
const (
	FieldSupplierNumber         = "supplier-number"
	FieldSupplierName           = "supplier-name"
	FieldSupplierDate           = "supplier-date"
	FieldSupplierTestReportNo   = "supplier-test-report-no"
	FieldSupplierPartSubjectNo  = "supplier-part-subject-no"
	FieldSupplierIdentification = "supplier-identification"
	FieldSupplierDrawingNo      = "supplier-drawing-no"
	FieldSupplierLevelDateIndex = "supplier-level-date-index"
	FieldCustomerName           = "customer-name"
	FieldCustomerTestReportNo   = "customer-test-report-no"
	FieldCustomerPartSubjectNo  = "customer-part-subject-no"
	FieldCustomerIdentification = "customer-identification"
	FieldCustomerDrawingNo      = "customer-drawing-no"
	FieldCustomerLevelDateIndex = "customer-level-date-index"
	FieldRemarksSupplier        = "remarks-supplier"
	CheckFinalInspectionVDA     = "final-inspection-vda"
	CheckDimensionReport        = "dimension-report"
	CheckMaterialReport         = "material-report"
	CheckHapticsVisual          = "haptics-visual"
	CheckMaterialsBoughtParts   = "materials-bought-parts"
)

// fiTextFields maps text inputs to the record field they persist to.
var fiTextFields = []struct{ input, field string }{
	{FieldCustomerName, "clientName"},
	{FieldSupplierName, "supplierName"},
	{FieldSupplierTestReportNo, "testRepNo"},
	{FieldSupplierPartSubjectNo, "partSubNoCavity"},
	{FieldSupplierIdentification, "identification"},
	{FieldSupplierDrawingNo, "drawingNo"},
	{FieldSupplierLevelDateIndex, "levelDateIndex"},
	{FieldCustomerTestReportNo, "customerTestReNo"},
	{FieldCustomerPartSubjectNo, "customerPartSubNoCavity"},
	{FieldCustomerIdentification, "customerIdentification"},
	{FieldCustomerDrawingNo, "customerDrawingNo"},
	{FieldCustomerLevelDateIndex, "customerLevelDateIndex"},
	{FieldRemarksSupplier, "remarkSupplier"},
}

var fiCheckFields = []struct{ input, field string }{
	{CheckFinalInspectionVDA, "finalINSReportVDA"},
	{CheckDimensionReport, "dimensionReport"},
	{CheckMaterialReport, "materialReport"},
	{CheckHapticsVisual, "hapticsVI"},
	{CheckMaterialsBoughtParts, "materialsBoughtParts"},
}

// FIForm is the editable state of an FI report, keyed by field identifier.
// An identifier missing from Inputs means the field is not on the form and
// is left out of the saved payload.
type FIForm struct {
	Inputs map[string]string `json:"inputs"`
	Checks map[string]bool   `json:"checks"`
	Rows   []MeasurementRow  `json:"rows"`
}

// NewFIForm returns a blank form with every field present and one row.
func NewFIForm() *FIForm {
	f := &FIForm{
		Inputs: map[string]string{FieldSupplierNumber: "", FieldSupplierDate: ""},
		Checks: map[string]bool{},
		Rows:   []MeasurementRow{NewRow()},
	}
	for _, t := range fiTextFields {
		f.Inputs[t.input] = ""
	}
	for _, c := range fiCheckFields {
		f.Checks[c.input] = false
	}
	return f
}

// Input returns the trimmed value of a field, and false when the field is
// not on the form.
func (f *FIForm) Input(id string) (string, bool) {
	v, ok := f.Inputs[id]
	if !ok {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func (f *FIForm) SetInput(id, v string) {
	if f.Inputs == nil {
		f.Inputs = map[string]string{}
	}
	f.Inputs[id] = v
}

func (f *FIForm) SetChecked(id string, v bool) {
	if f.Checks == nil {
		f.Checks = map[string]bool{}
	}
	f.Checks[id] = v
}

func (f *FIForm) firstInput(ids ...string) string {
	for _, id := range ids {
		if v, _ := f.Input(id); v != "" {
			return v
		}
	}
	return ""
}

// GenerateReportName derives the report's display identifier. The first
// available of drawing number, part/subject number, test report number,
// supplier name and customer name wins; names get a timestamp suffix.
func GenerateReportName(f *FIForm, now time.Time) string {
	stamp := util.LastDigits(now.UnixMilli(), 6)
	if v := f.firstInput(FieldSupplierDrawingNo, FieldCustomerDrawingNo); v != "" {
		return v
	}
	if v := f.firstInput(FieldSupplierPartSubjectNo, FieldCustomerPartSubjectNo); v != "" {
		return "FI-" + v
	}
	if v := f.firstInput(FieldSupplierTestReportNo, FieldCustomerTestReportNo); v != "" {
		return "FI-" + v
	}
	if v := f.firstInput(FieldSupplierName); v != "" {
		return fmt.Sprintf("FI-%s-%s", v, stamp)
	}
	if v := f.firstInput(FieldCustomerName); v != "" {
		return fmt.Sprintf("FI-%s-%s", v, stamp)
	}
	return fmt.Sprintf("FI-Report-%s-%s", now.UTC().Format("20060102"), stamp)
}

// SaveFIForm builds the record payload for f. Checkboxes are sent only when
// ticked, numbers and dates that do not parse become nil, and measurement
// datasets that hold no value are left out. Rows with a tolerance drawing are
// stored with their unlatched fields derived; f is not modified.
func SaveFIForm(f *FIForm, now time.Time) (Patch, error) {
	p := Patch{"reportName": GenerateReportName(f, now)}
	for _, t := range fiTextFields {
		if v, ok := f.Input(t.input); ok {
			p[t.field] = v
		}
	}
	if v, ok := f.Input(FieldSupplierNumber); ok {
		if n, ok := util.ParseLeadingInt(v); ok {
			p["supplierNumber"] = n
		} else {
			p["supplierNumber"] = nil
		}
	}
	if v, ok := f.Input(FieldSupplierDate); ok {
		if t, ok := util.ParseDate(v); ok {
			p["date"] = t
		} else {
			p["date"] = nil
		}
	}
	for _, c := range fiCheckFields {
		if f.Checks[c.input] {
			p[c.field] = true
		}
	}

	d := Extract(deriveTolerances(f.Rows))
	for field, ds := range map[string]Dataset{
		"blankReportData":   d.Blank,
		"supplierFiledData": d.Supplier,
		"customerFiledData": d.Customer,
	} {
		col, err := ds.Column()
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", field, err)
		}
		if col != nil {
			p[field] = col
		}
	}
	return p, nil
}

// LoadFIForm rebuilds the editable form from a stored record. A corrupt
// measurement blob is logged and read as empty without affecting the other
// two.
func LoadFIForm(r *models.FIReport, lg *zap.SugaredLogger) *FIForm {
	f := NewFIForm()
	if r.SupplierNumber != nil {
		f.SetInput(FieldSupplierNumber, strconv.Itoa(*r.SupplierNumber))
	}
	f.SetInput(FieldSupplierDate, util.FormatDateInput(r.Date))
	for field, val := range map[string]*string{
		FieldSupplierName:           r.SupplierName,
		FieldSupplierTestReportNo:   r.TestRepNo,
		FieldSupplierPartSubjectNo:  r.PartSubNoCavity,
		FieldSupplierIdentification: r.Identification,
		FieldSupplierDrawingNo:      r.DrawingNo,
		FieldSupplierLevelDateIndex: r.LevelDateIndex,
		FieldCustomerName:           r.ClientName,
		FieldCustomerTestReportNo:   r.CustomerTestReNo,
		FieldCustomerPartSubjectNo:  r.CustomerPartSubNoCavity,
		FieldCustomerIdentification: r.CustomerIdentification,
		FieldCustomerDrawingNo:      r.CustomerDrawingNo,
		FieldCustomerLevelDateIndex: r.CustomerLevelDateIndex,
		FieldRemarksSupplier:        r.RemarkSupplier,
	} {
		f.SetInput(field, deref(val))
	}
	for check, val := range map[string]*bool{
		CheckFinalInspectionVDA:   r.FinalINSReportVDA,
		CheckDimensionReport:      r.DimensionReport,
		CheckMaterialReport:       r.MaterialReport,
		CheckHapticsVisual:        r.HapticsVI,
		CheckMaterialsBoughtParts: r.MaterialsBoughtParts,
	} {
		f.SetChecked(check, val != nil && *val)
	}

	decode := func(field string, raw []byte) Dataset {
		d, err := DecodeDataset(raw)
		if err != nil {
			lg.Warnw("unreadable measurement data, using empty dataset", "report_id", r.ID, "field", field, "error", err)
			return Dataset{}
		}
		return d
	}
	f.Rows = Reconstruct(
		decode("blankReportData", r.BlankReportData),
		decode("supplierFiledData", r.SupplierFiledData),
		decode("customerFiledData", r.CustomerFiledData),
	)
	return f
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
