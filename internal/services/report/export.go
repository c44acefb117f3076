package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"qcreports/internal/util"
)

const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var summaryHeadings = []any{
	"Name", "Drawing No.", "Client No.", "Client Name", "Deadline", "Status", "Report Type", "Source",
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

// WriteSummariesXLSX writes one dashboard row per summary.
func WriteSummariesXLSX(w io.Writer, items []Summary) error {
	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Reports"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("export summaries: %w", err)
	}
	if err := writeRow(f, sheet, 1, summaryHeadings); err != nil {
		return fmt.Errorf("export summaries: %w", err)
	}
	for i, s := range items {
		values := []any{
			s.Name, deref(s.DrawingNumber), s.ClientNumber, s.ClientName,
			util.FormatDayMonthYear(s.Deadline), string(s.Status), s.ReportType, string(s.DataSource),
		}
		if err := writeRow(f, sheet, i+2, values); err != nil {
			return fmt.Errorf("export summaries row %d: %w", i, err)
		}
	}
	if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("export summaries: %w", err)
	}
	return f.Write(w)
}

// WriteFIReportXLSX writes an FI report's header fields followed by its
// measurement table.
func WriteFIReportXLSX(w io.Writer, form *FIForm) error {
	f := excelize.NewFile()
	defer f.Close()
	const sheet = "FI Report"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("export fi report: %w", err)
	}

	header := [][]any{
		{"Supplier No.", form.Inputs[FieldSupplierNumber], "Customer", form.Inputs[FieldCustomerName]},
		{"Supplier", form.Inputs[FieldSupplierName], "Date", form.Inputs[FieldSupplierDate]},
		{"Test Report No.", form.Inputs[FieldSupplierTestReportNo], "Customer Test Report No.", form.Inputs[FieldCustomerTestReportNo]},
		{"Part/Subject No.", form.Inputs[FieldSupplierPartSubjectNo], "Customer Part/Subject No.", form.Inputs[FieldCustomerPartSubjectNo]},
		{"Identification", form.Inputs[FieldSupplierIdentification], "Customer Identification", form.Inputs[FieldCustomerIdentification]},
		{"Drawing No.", form.Inputs[FieldSupplierDrawingNo], "Customer Drawing No.", form.Inputs[FieldCustomerDrawingNo]},
		{"Level/Date/Index", form.Inputs[FieldSupplierLevelDateIndex], "Customer Level/Date/Index", form.Inputs[FieldCustomerLevelDateIndex]},
		{"Remarks", form.Inputs[FieldRemarksSupplier]},
	}
	row := 1
	for _, values := range header {
		if err := writeRow(f, sheet, row, values); err != nil {
			return fmt.Errorf("export fi report: %w", err)
		}
		row++
	}
	row++

	headings := []any{"#", "Details", "Drawing", "Method", "Actual", "Tol +", "Tol -"}
	for i := 1; i <= SupplierSlots; i++ {
		headings = append(headings, "P"+strconv.Itoa(i))
	}
	for i := 1; i <= ValueSlots-SupplierSlots; i++ {
		headings = append(headings, "C"+strconv.Itoa(i))
	}
	if err := writeRow(f, sheet, row, headings); err != nil {
		return fmt.Errorf("export fi report: %w", err)
	}
	row++
	for i, r := range form.Rows {
		values := []any{i + 1, r.Details.String(), r.Drawing.String(), r.Method.String(),
			r.ActualValue.String(), r.TolerancePlus.String(), r.ToleranceMinus.String()}
		for _, v := range r.Values {
			values = append(values, v.String())
		}
		if err := writeRow(f, sheet, row, values); err != nil {
			return fmt.Errorf("export fi report row %d: %w", i, err)
		}
		row++
	}
	return f.Write(w)
}
