package store

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"qcreports/internal/services/report"
)

// Records is a gorm-backed report.Store for one model type.
type Records[T any] struct {
	db     *gorm.DB
	schema *schema.Schema
	fields map[string]*schema.Field // by JSON name
}

func NewRecords[T any](db *gorm.DB) (*Records[T], error) {
	s, err := schema.Parse(new(T), &sync.Map{}, db.NamingStrategy)
	if err != nil {
		return nil, fmt.Errorf("parse schema %T: %w", *new(T), err)
	}
	fields := make(map[string]*schema.Field, len(s.Fields))
	for _, f := range s.Fields {
		name := strings.Split(f.Tag.Get("json"), ",")[0]
		if name == "" || name == "-" || f.DBName == "" {
			continue
		}
		fields[name] = f
	}
	return &Records[T]{db: db, schema: s, fields: fields}, nil
}

func (r *Records[T]) notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (r *Records[T]) Create(ctx context.Context, p report.Patch) (*T, error) {
	if err := r.checkFields(p); err != nil {
		return nil, err
	}
	_, b, err := normalize(p)
	if err != nil {
		return nil, err
	}
	v, err := decode[T](b)
	if err != nil {
		return nil, err
	}
	if pk := r.schema.PrioritizedPrimaryField; pk != nil {
		rv := reflect.ValueOf(v).Elem()
		if _, zero := pk.ValueOf(ctx, rv); zero && pk.FieldType.Kind() == reflect.String {
			if err := pk.Set(ctx, rv, uuid.NewString()); err != nil {
				return nil, err
			}
		}
	}
	if err := r.db.WithContext(ctx).Create(v).Error; err != nil {
		return nil, fmt.Errorf("create %s: %w", r.schema.Table, err)
	}
	return v, nil
}

func (r *Records[T]) List(ctx context.Context) ([]T, error) {
	out := []T{}
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", r.schema.Table, err)
	}
	return out, nil
}

func (r *Records[T]) Get(ctx context.Context, id string) (*T, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	v := new(T)
	if err := r.db.WithContext(ctx).First(v, "id = ?", id).Error; err != nil {
		return nil, r.notFound(err)
	}
	return v, nil
}

// Update writes only the columns named in p. A nil value stores NULL.
func (r *Records[T]) Update(ctx context.Context, id string, p report.Patch) (*T, error) {
	if err := r.checkFields(p); err != nil {
		return nil, err
	}
	_, b, err := normalize(p)
	if err != nil {
		return nil, err
	}
	v, err := decode[T](b)
	if err != nil {
		return nil, err
	}
	rv := reflect.ValueOf(v).Elem()
	cols := map[string]any{}
	for name := range p {
		f := r.fields[name]
		if f.PrimaryKey || name == "createdAt" {
			continue
		}
		if p[name] == nil {
			cols[f.DBName] = nil
			continue
		}
		val, _ := f.ValueOf(ctx, rv)
		cols[f.DBName] = val
	}
	if _, err := r.Get(ctx, id); err != nil {
		return nil, err
	}
	if len(cols) > 0 {
		if err := r.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(cols).Error; err != nil {
			return nil, fmt.Errorf("update %s %s: %w", r.schema.Table, id, err)
		}
	}
	return r.Get(ctx, id)
}

// Delete removes the row permanently.
func (r *Records[T]) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	res := r.db.WithContext(ctx).Delete(new(T), "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete %s %s: %w", r.schema.Table, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Records[T]) checkFields(p report.Patch) error {
	for name := range p {
		if _, ok := r.fields[name]; !ok {
			return report.Invalid(name, "unknown field")
		}
	}
	return nil
}
