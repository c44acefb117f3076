package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"qcreports/internal/models"
)

// Audit stores the activity trail.
type Audit interface {
	Record(ctx context.Context, entry *models.AuditLog) error
	// Recent returns the newest entries first; an empty userID lists everyone.
	Recent(ctx context.Context, userID string, limit int) ([]models.AuditLog, error)
}

type GormAudit struct{ db *gorm.DB }

func NewAudit(db *gorm.DB) *GormAudit { return &GormAudit{db: db} }

func (a *GormAudit) Record(ctx context.Context, entry *models.AuditLog) error {
	return a.db.WithContext(ctx).Create(entry).Error
}

func (a *GormAudit) Recent(ctx context.Context, userID string, limit int) ([]models.AuditLog, error) {
	logs := []models.AuditLog{}
	q := a.db.WithContext(ctx).Order("created_at desc").Limit(limit)
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	err := q.Find(&logs).Error
	return logs, err
}

type MemAudit struct {
	mu     sync.Mutex
	nextID int64
	logs   []models.AuditLog
}

func NewMemAudit() *MemAudit { return &MemAudit{} }

func (a *MemAudit) Record(_ context.Context, entry *models.AuditLog) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nextID++
	entry.ID = a.nextID
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	a.logs = append(a.logs, *entry)
	return nil
}

func (a *MemAudit) Recent(_ context.Context, userID string, limit int) ([]models.AuditLog, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := []models.AuditLog{}
	for _, l := range a.logs {
		if userID == "" || (l.UserID != nil && *l.UserID == userID) {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
