package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"qcreports/internal/models"
)

type CopyType string

const (
	CopyBlank  CopyType = "blank"
	CopyFilled CopyType = "filled"
)

func ParseCopyType(s string) (CopyType, error) {
	switch CopyType(strings.ToLower(strings.TrimSpace(s))) {
	case CopyBlank:
		return CopyBlank, nil
	case CopyFilled:
		return CopyFilled, nil
	}
	return "", Invalid("copyType", "must be %q or %q", CopyBlank, CopyFilled)
}

func (t CopyType) marker() string {
	if t == CopyBlank {
		return " (Blank)"
	}
	return " (Copy)"
}

var (
	fiMarkedFields = []string{"drawingNo", "customerDrawingNo", "identification", "customerIdentification", "testRepNo", "partSubNoCavity"}
	isMarkedFields = []string{"drawingNo", "customerDrawingNo", "identification", "customerIdentification", "testReportNo", "partNo"}
)

// basePatch flattens a record into a creatable payload: identity and
// timestamps are replaced, everything else is an independent copy.
func basePatch(rec any, now time.Time) (Patch, error) {
	p, err := PatchOf(rec)
	if err != nil {
		return nil, err
	}
	for _, k := range []string{"id", "_id", "createdAt", "updatedAt"} {
		delete(p, k)
	}
	p["createdAt"] = now
	p["updatedAt"] = now
	return p, nil
}

// mark appends suffix to string fields that already hold a value. Missing,
// null and empty fields stay as they are.
func mark(m map[string]any, suffix string, fields ...string) {
	for _, f := range fields {
		if s, ok := m[f].(string); ok && s != "" {
			m[f] = s + suffix
		}
	}
}

// blankMeasurements keeps the shape of a measurement blob and empties every
// value in it.
func blankMeasurements(v any) any {
	obj, ok := v.(map[string]any)
	if !ok {
		return v
	}
	rows, ok := obj["measurements"].([]any)
	if !ok {
		return v
	}
	for _, row := range rows {
		if m, ok := row.(map[string]any); ok {
			for k := range m {
				m[k] = ""
			}
		}
	}
	return obj
}

// CopyFIRecord builds the payload for a copy of r. The source record is only
// read.
func CopyFIRecord(r *models.FIReport, t CopyType, now time.Time) (Patch, error) {
	p, err := basePatch(r, now)
	if err != nil {
		return nil, fmt.Errorf("copy fi report %s: %w", r.ID, err)
	}
	mark(p, t.marker(), "reportName")
	mark(p, t.marker(), fiMarkedFields...)
	if t == CopyBlank {
		p["supplierFiledData"] = blankMeasurements(p["supplierFiledData"])
		p["customerFiledData"] = nil
	}
	return p, nil
}

// CopyISRecord builds the payload for a copy of r. The nested form tree gets
// the same markers as the flat columns so a reload shows them.
func CopyISRecord(r *models.ISReport, t CopyType, now time.Time) (Patch, error) {
	p, err := basePatch(r, now)
	if err != nil {
		return nil, fmt.Errorf("copy is report %s: %w", r.ID, err)
	}
	mark(p, t.marker(), "reportName")
	mark(p, t.marker(), isMarkedFields...)
	if tree, ok := p["blankReportData"].(map[string]any); ok {
		for _, section := range []string{"supplierInfo", "customerInfo"} {
			if m, ok := tree[section].(map[string]any); ok {
				mark(m, t.marker(), "drawingNo", "identification")
			}
		}
		if t == CopyBlank {
			delete(tree, "decisions")
		}
	}
	if t == CopyBlank {
		p["decisionOfCustomer"] = nil
	}
	return p, nil
}

// Copier duplicates stored reports.
type Copier struct {
	FI  FIStore
	IS  ISStore
	Now func() time.Time
}

func (c *Copier) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// CopyReport reads the record source/id, creates its copy and returns the
// new record's summary.
func (c *Copier) CopyReport(ctx context.Context, source Source, id string, t CopyType) (Summary, error) {
	switch source {
	case SourceFI:
		rec, err := c.FI.Get(ctx, id)
		if err != nil {
			return Summary{}, err
		}
		p, err := CopyFIRecord(rec, t, c.now())
		if err != nil {
			return Summary{}, err
		}
		created, err := c.FI.Create(ctx, p)
		if err != nil {
			return Summary{}, fmt.Errorf("create fi copy: %w", err)
		}
		return SummarizeFI(created), nil
	case SourceIS:
		rec, err := c.IS.Get(ctx, id)
		if err != nil {
			return Summary{}, err
		}
		p, err := CopyISRecord(rec, t, c.now())
		if err != nil {
			return Summary{}, err
		}
		created, err := c.IS.Create(ctx, p)
		if err != nil {
			return Summary{}, fmt.Errorf("create is copy: %w", err)
		}
		return SummarizeIS(created), nil
	}
	return Summary{}, Invalid("source", "unknown report source %q", source)
}
