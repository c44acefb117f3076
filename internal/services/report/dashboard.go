package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"qcreports/internal/models"
	"qcreports/internal/util"
)

type Status string

const (
	StatusCompleted Status = "Completed"
	StatusPending   Status = "Pending"
)

// Source names the collection a summary was built from.
type Source string

const (
	SourceFI Source = "FI"
	SourceIS Source = "IS"
)

// ParseSource accepts the short source names in any case.
func ParseSource(s string) (Source, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FI":
		return SourceFI, nil
	case "IS":
		return SourceIS, nil
	}
	return "", Invalid("source", "unknown report source %q", s)
}

// Dashboard report types, as the report type filter sends them.
const (
	ReportTypeFI = "FI Report"
	ReportTypeIS = "IS Report"
)

type Tab string

const (
	TabViewAll     Tab = "View All"
	TabBlankReport Tab = "Blank Report"
	TabFillReport  Tab = "Fill Report"
)

// Summary is the dashboard's normalized view of one FI or IS record.
type Summary struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	ClientNumber       string     `json:"clientNumber"`
	ClientName         string     `json:"clientName"`
	Deadline           *time.Time `json:"deadline"`
	Status             Status     `json:"status"`
	IsComplete         bool       `json:"isComplete"`
	ReportType         string     `json:"reportType"`
	DataSource         Source     `json:"dataSource"`
	DrawingNumber      *string    `json:"drawingNumber"`
	OriginalReportName string     `json:"originalReportName"`
	OriginalData       any        `json:"originalData,omitempty"`
	// DocumentType is the IS record's own report type text, if any.
	DocumentType       string     `json:"documentType,omitempty"`
}

// Query holds the dashboard's tab, free-text search and structured filters.
// Date compares against the deadline rendered as dd-mm-yyyy.
type Query struct {
	Tab        Tab    `json:"tab"`
	Search     string `json:"q"`
	ReportType string `json:"reportType"`
	Client     string `json:"client"`
	Date       string `json:"date"`
}

type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
	FI        int `json:"fi"`
	IS        int `json:"is"`
}

func firstTrimmed(vals ...string) string {
	for _, v := range vals {
		if t := strings.TrimSpace(v); t != "" {
			return t
		}
	}
	return ""
}

func blobString(raw []byte, path ...string) string {
	obj, err := models.DecodeObject(raw)
	if err != nil {
		return ""
	}
	var cur any = obj
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return ""
		}
		cur = m[key]
	}
	switch v := cur.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func fallbackName(kind, id string) string {
	suffix := id
	if len(suffix) > 6 {
		suffix = suffix[len(suffix)-6:]
	}
	return fmt.Sprintf("%s Report #%s", kind, suffix)
}

// FIDrawingNumber resolves the drawing number of an FI record, searching the
// record columns and the measurement blobs in priority order.
func FIDrawingNumber(r *models.FIReport) *string {
	return strPtr(firstTrimmed(
		deref(r.DrawingNo),
		blobString(r.SupplierFiledData, "drawingNo"),
		blobString(r.CustomerFiledData, "customerDrawingNo"),
		blobString(r.BlankReportData, "drawingNo"),
		deref(r.CustomerDrawingNo),
	))
}

// ISDrawingNumber resolves the drawing number of an IS record. Identification
// numbers stand in when no drawing number is recorded.
func ISDrawingNumber(r *models.ISReport) *string {
	return strPtr(firstTrimmed(
		deref(r.DrawingNo),
		deref(r.CustomerDrawingNo),
		blobString(r.BlankReportData, "supplierInfo", "drawingNo"),
		blobString(r.BlankReportData, "customerInfo", "drawingNo"),
		deref(r.Identification),
		deref(r.CustomerIdentification),
	))
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case float64:
		return t != 0
	case bool:
		return t
	}
	return true
}

// FIComplete reports whether an FI record is filled in: it has a drawing
// number and a client name, and every supplier measurement row carries P1.
func FIComplete(r *models.FIReport) bool {
	if FIDrawingNumber(r) == nil || strings.TrimSpace(deref(r.ClientName)) == "" {
		return false
	}
	obj, err := models.DecodeObject(r.SupplierFiledData)
	if err != nil {
		return false
	}
	rows, ok := obj["measurements"].([]any)
	if !ok || len(rows) == 0 {
		return false
	}
	for _, row := range rows {
		m, ok := row.(map[string]any)
		if !ok || !truthy(m["P1"]) {
			return false
		}
	}
	return true
}

func deadline(primary *time.Time, created time.Time) *time.Time {
	if primary != nil && !primary.IsZero() {
		return primary
	}
	if created.IsZero() {
		return nil
	}
	return &created
}

func statusOf(complete bool) Status {
	if complete {
		return StatusCompleted
	}
	return StatusPending
}

func SummarizeFI(r *models.FIReport) Summary {
	drawing := FIDrawingNumber(r)
	name := deref(drawing)
	if name == "" {
		name = firstTrimmed(deref(r.ReportName), deref(r.PartSubNoCavity), deref(r.TestRepNo), deref(r.Identification))
	}
	if name == "" {
		name = fallbackName("FI", r.ID)
	}
	clientNumber := ""
	if r.SupplierNumber != nil {
		clientNumber = strconv.Itoa(*r.SupplierNumber)
	}
	complete := FIComplete(r)
	return Summary{
		ID:                 r.ID,
		Name:               name,
		ClientNumber:       clientNumber,
		ClientName:         deref(r.ClientName),
		Deadline:           deadline(r.Date, r.CreatedAt),
		Status:             statusOf(complete),
		IsComplete:         complete,
		ReportType:         ReportTypeFI,
		DataSource:         SourceFI,
		DrawingNumber:      drawing,
		OriginalReportName: deref(r.ReportName),
		OriginalData:       r,
	}
}

// SummarizeIS builds the dashboard view of an IS record. IS reports have no
// partial-fill rule and are always Completed.
func SummarizeIS(r *models.ISReport) Summary {
	drawing := ISDrawingNumber(r)
	name := deref(drawing)
	if name == "" {
		name = firstTrimmed(deref(r.ReportName), deref(r.PartNo), deref(r.CustomerPartNo), deref(r.TestReportNo))
	}
	if name == "" {
		name = fallbackName("IS", r.ID)
	}
	return Summary{
		ID:                 r.ID,
		Name:               name,
		ClientNumber:       firstTrimmed(deref(r.CustomerNumber), deref(r.SupplierNumber)),
		ClientName:         firstTrimmed(deref(r.ClientName), deref(r.ReceiverCustomer)),
		Deadline:           deadline(r.SupplierDate, r.CreatedAt),
		Status:             StatusCompleted,
		IsComplete:         true,
		ReportType:         ReportTypeIS,
		DataSource:         SourceIS,
		DrawingNumber:      drawing,
		OriginalReportName: deref(r.ReportName),
		DocumentType:       strings.TrimSpace(deref(r.ReportType)),
		OriginalData:       r,
	}
}

// Merge summarizes both collections and orders them by deadline, most recent
// first. Summaries without a deadline sort last.
func Merge(fi []models.FIReport, is []models.ISReport) []Summary {
	out := make([]Summary, 0, len(fi)+len(is))
	for i := range fi {
		out = append(out, SummarizeFI(&fi[i]))
	}
	for i := range is {
		out = append(out, SummarizeIS(&is[i]))
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Deadline, out[j].Deadline
		if a == nil || b == nil {
			return a != nil
		}
		return a.After(*b)
	})
	return out
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}

func (s Summary) matches(search string) bool {
	for _, f := range []string{
		s.Name, s.ClientNumber, s.ClientName,
		util.FormatDayMonthYear(s.Deadline), string(s.Status),
		s.ReportType, deref(s.DrawingNumber), s.OriginalReportName,
	} {
		if containsFold(f, search) {
			return true
		}
	}
	return false
}

// Filter applies the status tab, then the free-text search, then the
// structured filters. Search matches when any field contains the term;
// structured filters must all hold.
func Filter(items []Summary, q Query) []Summary {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	reportType := strings.ToLower(strings.TrimSpace(q.ReportType))
	client := strings.ToLower(strings.TrimSpace(q.Client))
	date := strings.TrimSpace(q.Date)

	out := make([]Summary, 0, len(items))
	for _, s := range items {
		switch q.Tab {
		case TabBlankReport:
			if s.Status != StatusPending {
				continue
			}
		case TabFillReport:
			if s.Status != StatusCompleted {
				continue
			}
		}
		if search != "" && !s.matches(search) {
			continue
		}
		if reportType != "" && !containsFold(s.ReportType, reportType) {
			continue
		}
		if client != "" && !containsFold(s.ClientNumber, client) && !containsFold(s.ClientName, client) {
			continue
		}
		if date != "" && util.FormatDayMonthYear(s.Deadline) != date {
			continue
		}
		out = append(out, s)
	}
	return out
}

func ComputeStats(items []Summary) Stats {
	st := Stats{Total: len(items)}
	for _, s := range items {
		if s.IsComplete {
			st.Completed++
		} else {
			st.Pending++
		}
		switch s.DataSource {
		case SourceFI:
			st.FI++
		case SourceIS:
			st.IS++
		}
	}
	return st
}

// ClientOptions lists the distinct non-empty client numbers in first-seen
// order.
func ClientOptions(items []Summary) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, s := range items {
		if s.ClientNumber == "" || seen[s.ClientNumber] {
			continue
		}
		seen[s.ClientNumber] = true
		out = append(out, s.ClientNumber)
	}
	return out
}
