package report

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"qcreports/internal/models"
)

// fakeStore keeps records in a map and decodes patches the way a real store
// would, through their JSON form.
type fakeStore[T any] struct {
	recs    map[string]*T
	created []Patch
}

func newFakeStore[T any](seed map[string]*T) *fakeStore[T] {
	return &fakeStore[T]{recs: seed}
}

func (f *fakeStore[T]) Create(_ context.Context, p Patch) (*T, error) {
	f.created = append(f.created, p)
	withID := Patch{"id": fmt.Sprintf("new-%d", len(f.created))}
	for k, v := range p {
		withID[k] = v
	}
	b, err := json.Marshal(withID)
	if err != nil {
		return nil, err
	}
	v := new(T)
	if err := json.Unmarshal(b, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (f *fakeStore[T]) List(context.Context) ([]T, error) { return nil, nil }

func (f *fakeStore[T]) Get(_ context.Context, id string) (*T, error) {
	if r, ok := f.recs[id]; ok {
		return r, nil
	}
	return nil, ErrNotFound
}

func (f *fakeStore[T]) Update(context.Context, string, Patch) (*T, error) { return nil, nil }

func (f *fakeStore[T]) Delete(context.Context, string) error { return nil }

func sourceFI() *models.FIReport {
	return &models.FIReport{
		ID:                "fi-src",
		ReportName:        sp("DRW-1"),
		ClientName:        sp("Bosch"),
		DrawingNo:         sp("DRW-1"),
		TestRepNo:         sp(""),
		BlankReportData:   datatypes.JSON(`{"measurements":[{"details":"Width","drawing":"10±1"}]}`),
		SupplierFiledData: datatypes.JSON(`{"measurements":[{"P1":"5","P2":null},{"P1":"6"}]}`),
		CustomerFiledData: datatypes.JSON(`{"measurements":[{"C1":"7"}]}`),
		CreatedAt:         time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

func snapshot(t *testing.T, v any) Patch {
	t.Helper()
	p, err := PatchOf(v)
	require.NoError(t, err)
	return p
}

func TestCopyFIFilled(t *testing.T) {
	src := sourceFI()
	p, err := CopyFIRecord(src, CopyFilled, saveTime)
	require.NoError(t, err)

	assert.False(t, p.Has("id"))
	assert.Equal(t, saveTime, p["createdAt"])
	assert.Equal(t, "DRW-1 (Copy)", p["reportName"])
	assert.Equal(t, "DRW-1 (Copy)", p["drawingNo"])
	assert.Equal(t, "", p["testRepNo"], "empty values get no marker")
	assert.Nil(t, p["identification"], "missing values are not invented")
	assert.Equal(t, "Bosch", p["clientName"])
	assert.Equal(t, snapshot(t, src)["supplierFiledData"], p["supplierFiledData"])
	assert.Equal(t, snapshot(t, src)["customerFiledData"], p["customerFiledData"])
}

func TestCopyFIBlank(t *testing.T) {
	src := sourceFI()
	p, err := CopyFIRecord(src, CopyBlank, saveTime)
	require.NoError(t, err)

	assert.Equal(t, "DRW-1 (Blank)", p["reportName"])
	assert.Equal(t, "DRW-1 (Blank)", p["drawingNo"])
	assert.Nil(t, p["customerFiledData"])
	assert.True(t, p.Has("customerFiledData"))

	b, err := json.Marshal(p["supplierFiledData"])
	require.NoError(t, err)
	assert.JSONEq(t, `{"measurements":[{"P1":"","P2":""},{"P1":""}]}`, string(b))
	assert.Equal(t, snapshot(t, src)["blankReportData"], p["blankReportData"])
}

func TestCopyDoesNotMutateSource(t *testing.T) {
	src := sourceFI()
	before := snapshot(t, src)
	rawBefore := append([]byte(nil), src.SupplierFiledData...)

	for _, ct := range []CopyType{CopyBlank, CopyFilled} {
		_, err := CopyFIRecord(src, ct, saveTime)
		require.NoError(t, err)
	}

	if diff := cmp.Diff(before, snapshot(t, src)); diff != "" {
		t.Fatalf("source changed (-before +after):\n%s", diff)
	}
	assert.Equal(t, rawBefore, []byte(src.SupplierFiledData))
	assert.Equal(t, "DRW-1", *src.DrawingNo)
}

func TestCopyISBlankMarksNestedTree(t *testing.T) {
	src := &models.ISReport{
		ID:                 "is-src",
		ReportName:         sp("D-1"),
		DrawingNo:          sp("D-1"),
		PartNo:             sp("P-1"),
		BlankReportData:    datatypes.JSON(`{"supplierInfo":{"drawingNo":"D-1","identification":""},"customerInfo":{"drawingNo":"CD-1"},"decisions":{"odour":{"released":"x"}}}`),
		DecisionOfCustomer: datatypes.JSON(`{"odour":{"released":"x"}}`),
	}
	before := snapshot(t, src)

	p, err := CopyISRecord(src, CopyBlank, saveTime)
	require.NoError(t, err)

	assert.Equal(t, "D-1 (Blank)", p["drawingNo"])
	assert.Equal(t, "P-1 (Blank)", p["partNo"])
	assert.Nil(t, p["decisionOfCustomer"])
	tree := p["blankReportData"].(map[string]any)
	assert.Equal(t, "D-1 (Blank)", tree["supplierInfo"].(map[string]any)["drawingNo"])
	assert.Equal(t, "", tree["supplierInfo"].(map[string]any)["identification"])
	assert.Equal(t, "CD-1 (Blank)", tree["customerInfo"].(map[string]any)["drawingNo"])
	assert.NotContains(t, tree, "decisions")
	assert.Empty(t, cmp.Diff(before, snapshot(t, src)))
}

func TestCopierCreatesThroughStore(t *testing.T) {
	fi := newFakeStore(map[string]*models.FIReport{"fi-src": sourceFI()})
	is := newFakeStore(map[string]*models.ISReport{})
	c := &Copier{FI: fi, IS: is, Now: func() time.Time { return saveTime }}

	s, err := c.CopyReport(context.Background(), SourceFI, "fi-src", CopyFilled)
	require.NoError(t, err)

	require.Len(t, fi.created, 1)
	assert.Equal(t, "new-1", s.ID)
	assert.Equal(t, "DRW-1 (Copy)", s.Name)
	assert.Equal(t, StatusCompleted, s.Status, "measurements carried over")
	assert.Equal(t, SourceFI, s.DataSource)

	s, err = c.CopyReport(context.Background(), SourceFI, "fi-src", CopyBlank)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, s.Status)

	_, err = c.CopyReport(context.Background(), SourceIS, "missing", CopyBlank)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.CopyReport(context.Background(), Source("XX"), "fi-src", CopyBlank)
	var invalid *ValidationError
	assert.ErrorAs(t, err, &invalid)
}

func TestParseCopyTypeAndSource(t *testing.T) {
	ct, err := ParseCopyType(" Blank ")
	require.NoError(t, err)
	assert.Equal(t, CopyBlank, ct)
	_, err = ParseCopyType("template")
	assert.Error(t, err)

	src, err := ParseSource("is")
	require.NoError(t, err)
	assert.Equal(t, SourceIS, src)
	_, err = ParseSource("pdf")
	assert.Error(t, err)
}
