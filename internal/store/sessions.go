package store

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"qcreports/internal/models"
)

// Sessions tracks issued tokens so logout can revoke them.
type Sessions interface {
	Create(ctx context.Context, s *models.Session) error
	Get(ctx context.Context, jti string) (*models.Session, error)
	Revoke(ctx context.Context, jti string, at time.Time) error
}

type GormSessions struct{ db *gorm.DB }

func NewSessions(db *gorm.DB) *GormSessions { return &GormSessions{db: db} }

func (s *GormSessions) Create(ctx context.Context, sess *models.Session) error {
	return translate(s.db.WithContext(ctx).Create(sess).Error)
}

func (s *GormSessions) Get(ctx context.Context, jti string) (*models.Session, error) {
	var sess models.Session
	if err := s.db.WithContext(ctx).First(&sess, "jti = ?", jti).Error; err != nil {
		return nil, translate(err)
	}
	return &sess, nil
}

func (s *GormSessions) Revoke(ctx context.Context, jti string, at time.Time) error {
	return s.db.WithContext(ctx).Model(&models.Session{}).
		Where("jti = ? AND revoked_at IS NULL", jti).Update("revoked_at", at).Error
}

type MemSessions struct {
	mu       sync.Mutex
	sessions map[string]models.Session
}

func NewMemSessions() *MemSessions { return &MemSessions{sessions: map[string]models.Session{}} }

func (s *MemSessions) Create(_ context.Context, sess *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sess.JTI]; ok {
		return ErrDuplicate
	}
	sess.CreatedAt = time.Now()
	s.sessions[sess.JTI] = *sess
	return nil
}

func (s *MemSessions) Get(_ context.Context, jti string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[jti]
	if !ok {
		return nil, ErrNotFound
	}
	return &sess, nil
}

func (s *MemSessions) Revoke(_ context.Context, jti string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[jti]
	if !ok || sess.RevokedAt != nil {
		return nil
	}
	sess.RevokedAt = &at
	s.sessions[jti] = sess
	return nil
}
