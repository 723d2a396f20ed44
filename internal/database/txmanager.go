package database

import (
	"context"
	"database/sql"

	"chathub/internal/domain"
)

// maxTxAttempts bounds the transient-fault retry loop.
const maxTxAttempts = 3

// OutboxStore stages domain events into the outbox. The insert must go
// through GetTx so it joins the transaction active on ctx.
type OutboxStore interface {
	StageEvents(ctx context.Context, events []domain.Event) error
}

// TxManager owns the atomic commit boundary.
type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type sqlTxManager struct {
	db     *sql.DB
	outbox OutboxStore
}

// NewTxManager creates a TxManager committing through db. Events raised
// by entities tracked during the unit of work are staged into outbox as
// part of the same commit.
func NewTxManager(db *sql.DB, outbox OutboxStore) TxManager {
	return &sqlTxManager{db: db, outbox: outbox}
}

// WithTx executes fn within a database transaction. If a transaction is
// already active on ctx, fn runs inline on it: nested calls never open a
// second transaction. Transient faults (serialization failure, deadlock)
// are retried with a fresh transaction up to maxTxAttempts.
func (m *sqlTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := TxFromContext(ctx); ok {
		return fn(ctx)
	}

	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = m.runOnce(ctx, fn)
		if err == nil || !IsTransient(err) {
			return err
		}
	}
	return err
}

func (m *sqlTxManager) runOnce(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	scope := &Scope{}
	txCtx := context.WithValue(ctx, txKey{}, tx)
	txCtx = context.WithValue(txCtx, scopeKey{}, scope)

	if err := fn(txCtx); err != nil {
		_ = tx.Rollback()
		return err
	}

	// Serialize pending domain events into the outbox inside the same
	// transaction. A rollback takes both the entity change and the
	// outbox rows with it.
	if m.outbox != nil {
		if events := scope.pending(); len(events) > 0 {
			if err := m.outbox.StageEvents(txCtx, events); err != nil {
				_ = tx.Rollback()
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	scope.clear()
	return nil
}
