package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"qcreports/internal/models"
)

// Users persists user accounts. User names are unique, compared
// case-insensitively.
type Users interface {
	Create(ctx context.Context, u *models.UserAccount) error
	List(ctx context.Context) ([]models.UserAccount, error)
	Get(ctx context.Context, id string) (*models.UserAccount, error)
	FindByUserName(ctx context.Context, userName string) (*models.UserAccount, error)
	Save(ctx context.Context, u *models.UserAccount) error
	Delete(ctx context.Context, id string) error
}

type GormUsers struct{ db *gorm.DB }

func NewUsers(db *gorm.DB) *GormUsers { return &GormUsers{db: db} }

func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}

func (s *GormUsers) Create(ctx context.Context, u *models.UserAccount) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.UserAccount{}).Where("LOWER(user_name) = ?", strings.ToLower(u.UserName)).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicate
	}
	return translate(s.db.WithContext(ctx).Create(u).Error)
}

func (s *GormUsers) List(ctx context.Context) ([]models.UserAccount, error) {
	users := []models.UserAccount{}
	err := s.db.WithContext(ctx).Order("created_at desc").Find(&users).Error
	return users, err
}

func (s *GormUsers) Get(ctx context.Context, id string) (*models.UserAccount, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	var u models.UserAccount
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *GormUsers) FindByUserName(ctx context.Context, userName string) (*models.UserAccount, error) {
	var u models.UserAccount
	if err := s.db.WithContext(ctx).First(&u, "LOWER(user_name) = ?", strings.ToLower(userName)).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *GormUsers) Save(ctx context.Context, u *models.UserAccount) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.UserAccount{}).
		Where("LOWER(user_name) = ? AND id <> ?", strings.ToLower(u.UserName), u.ID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicate
	}
	return translate(s.db.WithContext(ctx).Save(u).Error)
}

func (s *GormUsers) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	res := s.db.WithContext(ctx).Delete(&models.UserAccount{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete user %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type MemUsers struct {
	mu    sync.RWMutex
	users map[string]models.UserAccount
}

func NewMemUsers() *MemUsers { return &MemUsers{users: map[string]models.UserAccount{}} }

func (s *MemUsers) taken(userName, exceptID string) bool {
	for id, u := range s.users {
		if id != exceptID && strings.EqualFold(u.UserName, userName) {
			return true
		}
	}
	return false
}

func (s *MemUsers) Create(_ context.Context, u *models.UserAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.taken(u.UserName, "") {
		return ErrDuplicate
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now()
	u.CreatedAt, u.UpdatedAt = now, now
	s.users[u.ID] = *u
	return nil
}

func (s *MemUsers) List(_ context.Context) ([]models.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.UserAccount, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemUsers) Get(_ context.Context, id string) (*models.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemUsers) FindByUserName(_ context.Context, userName string) (*models.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.UserName, userName) {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemUsers) Save(_ context.Context, u *models.UserAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return ErrNotFound
	}
	if s.taken(u.UserName, u.ID) {
		return ErrDuplicate
	}
	u.UpdatedAt = time.Now()
	s.users[u.ID] = *u
	return nil
}

func (s *MemUsers) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}
	delete(s.users, id)
	return nil
}
