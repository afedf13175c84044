// Package reconcile keeps the ledger of payments whose subscription was not
// confirmed. Support works through the open rows by hand.
package reconcile

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sochai/sochai-web/app/models"
)

var ErrNotFound = errors.New("reconciliation not found")

type Ledger interface {
	Record(ctx context.Context, r *models.PaymentReconciliation) error
	ListPending(ctx context.Context, limit int) ([]models.PaymentReconciliation, error)
	MarkResolved(ctx context.Context, id uint) error
}

// Store is the gorm backed Ledger.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Record inserts r. A payment already on the ledger is left as it is.
func (s *Store) Record(ctx context.Context, r *models.PaymentReconciliation) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "payment_id"}}, DoNothing: true}).
		Create(r).Error
}

func (s *Store) ListPending(ctx context.Context, limit int) ([]models.PaymentReconciliation, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var rows []models.PaymentReconciliation
	err := s.db.WithContext(ctx).
		Where("resolved = ?", false).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (s *Store) MarkResolved(ctx context.Context, id uint) error {
	now := time.Now()
	res := s.db.WithContext(ctx).
		Model(&models.PaymentReconciliation{}).
		Where("id = ? AND resolved = ?", id, false).
		Updates(map[string]any{"resolved": true, "resolved_at": now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MemoryLedger is an in-process Ledger for tests and for running without a database.
type MemoryLedger struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]*models.PaymentReconciliation
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{rows: make(map[uint]*models.PaymentReconciliation)}
}

func (m *MemoryLedger) Record(_ context.Context, r *models.PaymentReconciliation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.rows {
		if existing.PaymentID == r.PaymentID {
			return nil
		}
	}
	m.nextID++
	row := *r
	row.ID = m.nextID
	row.CreatedAt = time.Now()
	row.UpdatedAt = row.CreatedAt
	m.rows[row.ID] = &row
	r.ID = row.ID
	return nil
}

func (m *MemoryLedger) ListPending(_ context.Context, limit int) ([]models.PaymentReconciliation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.PaymentReconciliation{}
	for _, r := range m.rows {
		if !r.Resolved {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryLedger) MarkResolved(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok || r.Resolved {
		return ErrNotFound
	}
	now := time.Now()
	r.Resolved = true
	r.ResolvedAt = &now
	return nil
}
