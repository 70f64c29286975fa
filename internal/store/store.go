// Package store is the MySQL persistence layer for customers, products and orders.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/01moynul/bizdesk/internal/database"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrDuplicate  = errors.New("duplicate record")
	ErrReferenced = errors.New("record is still referenced")
	ErrOutOfRange = errors.New("value out of column range")
)

// MySQL server error numbers we translate.
const (
	erDupEntry         = 1062
	erRowIsReferenced  = 1451
	erNoReferencedRow  = 1452
	erRowIsReferenced2 = 1217
	erDataOutOfRange   = 1264
)

// queries holds every statement that can run on either the pool or a transaction.
type queries struct {
	q   database.Querier
	now func() time.Time
}

// Store owns the primary pool and, optionally, a read-only pool for reporting.
type Store struct {
	queries
	db  *sql.DB
	ro  queries
	log *slog.Logger
}

// Tx is a serializable transaction. Obtain one through Store.InTx.
type Tx struct {
	queries
	tx *sql.Tx
}

// New builds a Store. readOnly may be nil, in which case reporting reads use db.
func New(log *slog.Logger, db, readOnly *sql.DB) *Store {
	now := func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) }
	s := &Store{
		queries: queries{q: db, now: now},
		db:      db,
		log:     log,
	}
	s.ro = s.queries
	if readOnly != nil {
		s.ro = queries{q: readOnly, now: now}
	}
	return s
}

// SetClock overrides the time source. Used by tests and the seeder.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
	s.ro.now = now
}

// InTx runs fn inside a single serializable transaction. The transaction is
// committed only when fn returns nil; any error rolls everything back.
func (s *Store) InTx(ctx context.Context, fn func(tx *Tx) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() // no-op after Commit

	if err := fn(&Tx{queries: queries{q: tx, now: s.now}, tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", mapErr(err))
	}
	return nil
}

// mapErr translates driver errors into the package sentinels.
func mapErr(err error) error {
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return err
	}
	switch me.Number {
	case erDupEntry:
		return fmt.Errorf("%w: %s", ErrDuplicate, me.Message)
	case erRowIsReferenced, erRowIsReferenced2:
		return fmt.Errorf("%w: %s", ErrReferenced, me.Message)
	case erNoReferencedRow:
		return fmt.Errorf("%w: %s", ErrNotFound, me.Message)
	case erDataOutOfRange:
		return fmt.Errorf("%w: %s", ErrOutOfRange, me.Message)
	}
	return err
}

// notFound maps sql.ErrNoRows to ErrNotFound and everything else through mapErr.
func notFound(err error, what, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", what, id, ErrNotFound)
	}
	return mapErr(err)
}

// placeholders returns "?, ?, ?" for n arguments.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, 0, n*3)
	for i := 0; i < n; i++ {
		if i > 0 {
			b = append(b, ',', ' ')
		}
		b = append(b, '?')
	}
	return string(b)
}
