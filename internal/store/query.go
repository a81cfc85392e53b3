package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// ======================================================
// Query descriptor sobre o store remoto
// ======================================================

type Op string

const (
	OpEq  Op = "eq"
	OpGte Op = "gte"
	OpLte Op = "lte"
	OpIn  Op = "in"
)

type Filter struct {
	Field string
	Op    Op
	Value any
}

// Query descreve uma leitura: filtros, ordenação e faixa (offset/limit).
type Query struct {
	Filters []Filter
	OrderBy string
	Desc    bool
	Offset  int
	Limit   int
}

func Eq(field string, value any) Filter  { return Filter{Field: field, Op: OpEq, Value: value} }
func Gte(field string, value any) Filter { return Filter{Field: field, Op: OpGte, Value: value} }
func Lte(field string, value any) Filter { return Filter{Field: field, Op: OpLte, Value: value} }
func In(field string, value any) Filter  { return Filter{Field: field, Op: OpIn, Value: value} }

// ======================================================
// Store (gorm)
// ======================================================

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func applyFilters(tx *gorm.DB, filters []Filter) (*gorm.DB, error) {
	for _, f := range filters {
		switch f.Op {
		case OpEq:
			tx = tx.Where(f.Field+" = ?", f.Value)
		case OpGte:
			tx = tx.Where(f.Field+" >= ?", f.Value)
		case OpLte:
			tx = tx.Where(f.Field+" <= ?", f.Value)
		case OpIn:
			tx = tx.Where(f.Field+" IN ?", f.Value)
		default:
			return nil, fmt.Errorf("store: unsupported filter op %q", f.Op)
		}
	}
	return tx, nil
}

// List materializa a query em dest (slice de um model gorm).
func (s *Store) List(ctx context.Context, dest any, q Query) error {
	tx, err := applyFilters(s.db.WithContext(ctx), q.Filters)
	if err != nil {
		return err
	}

	if q.OrderBy != "" {
		dir := "ASC"
		if q.Desc {
			dir = "DESC"
		}
		tx = tx.Order(q.OrderBy + " " + dir)
	}

	if q.Offset > 0 {
		tx = tx.Offset(q.Offset)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	return tx.Find(dest).Error
}

// Count aplica só os filtros da query; ordenação e faixa são ignoradas.
func (s *Store) Count(ctx context.Context, model any, q Query) (int64, error) {
	tx, err := applyFilters(s.db.WithContext(ctx).Model(model), q.Filters)
	if err != nil {
		return 0, err
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
