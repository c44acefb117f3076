package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"qcreports/internal/models"
)

func sp(s string) *string { return &s }

func tp(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func completeFI() models.FIReport {
	return models.FIReport{
		ID:                "4b1e2c10-0000-4000-8000-00000000a1b2",
		DrawingNo:         sp("DRW-1"),
		ClientName:        sp("Bosch"),
		SupplierFiledData: datatypes.JSON(`{"measurements":[{"P1":"1.0"},{"P1":"2.0"}]}`),
	}
}

func TestFICompletenessRule(t *testing.T) {
	rec := completeFI()
	assert.Equal(t, StatusCompleted, SummarizeFI(&rec).Status)

	rec.SupplierFiledData = datatypes.JSON(`{"measurements":[{"P1":"1.0"},{"P1":""}]}`)
	assert.Equal(t, StatusPending, SummarizeFI(&rec).Status)

	rec = completeFI()
	rec.ClientName = sp("  ")
	assert.False(t, FIComplete(&rec), "client name required")

	rec = completeFI()
	rec.SupplierFiledData = datatypes.JSON(`{"measurements":[]}`)
	assert.False(t, FIComplete(&rec), "empty measurements")

	rec = completeFI()
	rec.SupplierFiledData = datatypes.JSON(`{"measurements":[{"P1":0}]}`)
	assert.False(t, FIComplete(&rec), "zero is not a reading")
}

func TestISAlwaysCompleted(t *testing.T) {
	rec := models.ISReport{ID: "abc"}
	s := SummarizeIS(&rec)
	assert.Equal(t, StatusCompleted, s.Status)
	assert.True(t, s.IsComplete)
	assert.Equal(t, "IS Report #abc", s.Name)
}

func TestFIDrawingNumberChain(t *testing.T) {
	rec := models.FIReport{
		DrawingNo:         sp("   "),
		SupplierFiledData: datatypes.JSON(`{"drawingNo":" S-1 ","measurements":[]}`),
		CustomerDrawingNo: sp("C-9"),
	}
	assert.Equal(t, "S-1", *FIDrawingNumber(&rec))

	rec.SupplierFiledData = nil
	rec.CustomerFiledData = datatypes.JSON(`{"customerDrawingNo":"CF-2"}`)
	assert.Equal(t, "CF-2", *FIDrawingNumber(&rec))

	rec.CustomerFiledData = datatypes.JSON(`not json`)
	rec.BlankReportData = datatypes.JSON(`{"drawingNo":"B-3"}`)
	assert.Equal(t, "B-3", *FIDrawingNumber(&rec))

	rec.BlankReportData = nil
	assert.Equal(t, "C-9", *FIDrawingNumber(&rec))

	rec.CustomerDrawingNo = nil
	assert.Nil(t, FIDrawingNumber(&rec))
}

func TestISDrawingNumberChain(t *testing.T) {
	rec := models.ISReport{
		BlankReportData:        datatypes.JSON(`{"customerInfo":{"drawingNo":"CI-1"}}`),
		CustomerIdentification: sp("ID-2"),
	}
	assert.Equal(t, "CI-1", *ISDrawingNumber(&rec))

	rec.BlankReportData = nil
	assert.Equal(t, "ID-2", *ISDrawingNumber(&rec))

	rec.CustomerDrawingNo = sp("CD-3")
	assert.Equal(t, "CD-3", *ISDrawingNumber(&rec))
}

func TestSummarizeFI(t *testing.T) {
	num := 4711
	rec := models.FIReport{
		ID:             "0f0e0d0c-0000-4000-8000-123456789abc",
		ReportName:     sp("FI-Acme-123456"),
		SupplierNumber: &num,
		CreatedAt:      time.Date(2026, 2, 3, 8, 0, 0, 0, time.UTC),
	}
	s := SummarizeFI(&rec)

	assert.Equal(t, "FI-Acme-123456", s.Name, "secondary identifier when no drawing")
	assert.Equal(t, "4711", s.ClientNumber)
	assert.Equal(t, SourceFI, s.DataSource)
	require.NotNil(t, s.Deadline)
	assert.Equal(t, rec.CreatedAt, *s.Deadline)

	rec.ReportName = nil
	assert.Equal(t, "FI Report #789abc", SummarizeFI(&rec).Name)
}

func TestMergeSortsByDeadline(t *testing.T) {
	fi := []models.FIReport{
		{ID: "fi-old", Date: tp(2025, 12, 1)},
		{ID: "fi-none"},
	}
	is := []models.ISReport{
		{ID: "is-new", SupplierDate: tp(2026, 2, 1)},
		{ID: "is-mid", CreatedAt: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)},
	}

	got := Merge(fi, is)

	ids := make([]string, len(got))
	for i, s := range got {
		ids[i] = s.ID
	}
	assert.Equal(t, []string{"is-new", "is-mid", "fi-old", "fi-none"}, ids)
}

func summaries() []Summary {
	return []Summary{
		{ID: "a", Name: "A-100", ClientNumber: "17", ClientName: "Bosch GmbH", Status: StatusPending,
			ReportType: ReportTypeFI, DataSource: SourceFI, Deadline: tp(2026, 3, 5)},
		{ID: "b", Name: "Widget", ClientNumber: "22", ClientName: "Continental", Status: StatusCompleted,
			IsComplete: true, ReportType: ReportTypeIS, DataSource: SourceIS, DrawingNumber: sp("BOS-7"),
			Deadline: tp(2026, 1, 9)},
		{ID: "c", Name: "Gear", ClientNumber: "17", ClientName: "ZF", Status: StatusCompleted,
			IsComplete: true, ReportType: ReportTypeFI, DataSource: SourceFI},
	}
}

func ids(items []Summary) []string {
	out := []string{}
	for _, s := range items {
		out = append(out, s.ID)
	}
	return out
}

func TestFilterSearchIsOrStructuredFiltersAreAnd(t *testing.T) {
	items := summaries()

	assert.Equal(t, []string{"a", "b"}, ids(Filter(items, Query{Search: "BOS"})))
	assert.Equal(t, []string{"b"}, ids(Filter(items, Query{Search: "bos", ReportType: "is report"})))
	assert.Equal(t, []string{"a"}, ids(Filter(items, Query{Client: "17", ReportType: "FI Report", Date: "05-03-2026"})))
	assert.Empty(t, Filter(items, Query{Client: "zf", ReportType: "IS Report"}))
}

func TestFilterTabs(t *testing.T) {
	items := summaries()

	assert.Equal(t, []string{"a", "b", "c"}, ids(Filter(items, Query{Tab: TabViewAll})))
	assert.Equal(t, []string{"a"}, ids(Filter(items, Query{Tab: TabBlankReport})))
	assert.Equal(t, []string{"b", "c"}, ids(Filter(items, Query{Tab: TabFillReport})))
	assert.Equal(t, []string{"c"}, ids(Filter(items, Query{Tab: TabFillReport, Client: "zf"})))
}

func TestFilterSearchesFormattedDeadlineAndStatus(t *testing.T) {
	items := summaries()

	assert.Equal(t, []string{"b"}, ids(Filter(items, Query{Search: "09-01"})))
	assert.Equal(t, []string{"a"}, ids(Filter(items, Query{Search: "pend"})))
}

func TestStatsAndClientOptions(t *testing.T) {
	items := summaries()

	assert.Equal(t, Stats{Total: 3, Completed: 2, Pending: 1, FI: 2, IS: 1}, ComputeStats(items))
	assert.Equal(t, []string{"17", "22"}, ClientOptions(items))
	assert.Equal(t, Stats{}, ComputeStats(nil))
}

func TestReportTypeFilterMatchesMergedSources(t *testing.T) {
	fi := []models.FIReport{{ID: "fi-1", ReportName: sp("F")}}
	is := []models.ISReport{{ID: "is-1", ReportName: sp("I"), ReportType: sp("Erstmusterprüfbericht")}}
	all := Merge(fi, is)

	assert.Equal(t, []string{"fi-1"}, ids(Filter(all, Query{ReportType: "FI Report"})))
	assert.Equal(t, []string{"is-1"}, ids(Filter(all, Query{ReportType: "IS Report"})))
	assert.Equal(t, []string{"is-1"}, ids(Filter(all, Query{ReportType: "is report", Search: "I"})))

	byID := map[string]Summary{}
	for _, s := range all {
		byID[s.ID] = s
	}
	assert.Equal(t, ReportTypeFI, byID["fi-1"].ReportType)
	assert.Equal(t, ReportTypeIS, byID["is-1"].ReportType)
	assert.Equal(t, "Erstmusterprüfbericht", byID["is-1"].DocumentType)
	assert.Empty(t, byID["fi-1"].DocumentType)
}
