// Package storage is the SQLite backed tag store.
//
// A Store wraps one database. Callers talk to it through a Session, which
// owns a context stack and an error sink; sessions may share a Store but
// never their stacks.
//
//	st := storage.New(db, storage.Config{}, logger)
//	s := st.NewSession(nil)
//	err := s.Put(ctx, tagd.NewTag("dog", tagd.HardIsA, "animal"))
package storage

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/musetronstar/tagd/errors"
	"github.com/musetronstar/tagd/tagd"
	"github.com/musetronstar/tagd/tagd/referent"
)

// Config holds engine options fixed at construction.
type Config struct {
	// Trace logs every statement at debug level.
	Trace bool
	// Flags are the default flags of new sessions.
	Flags tagd.Flags
	// MaxContextDepth bounds each session's context stack.
	MaxContextDepth int
}

// querier is satisfied by *sql.DB and *sql.Tx. Helpers take a querier so the
// same code runs inside and outside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Store is the tag engine over one database.
type Store struct {
	db      *sql.DB
	cfg     Config
	logger  *zap.SugaredLogger
	metrics *Metrics
}

// New returns a store over a migrated database.
// A nil logger operates silently.
func New(db *sql.DB, cfg Config, logger *zap.SugaredLogger) *Store {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if cfg.MaxContextDepth <= 0 {
		cfg.MaxContextDepth = referent.DefaultMaxDepth
	}
	return &Store{
		db:     db,
		cfg:    cfg,
		logger: logger.Named("storage"),
	}
}

// WithMetrics attaches operation counters and returns st.
func (st *Store) WithMetrics(m *Metrics) *Store {
	st.metrics = m
	return st
}

// DB exposes the underlying database.
func (st *Store) DB() *sql.DB {
	return st.db
}

// Config returns the store's configuration.
func (st *Store) Config() Config {
	return st.cfg
}

// SetTrace toggles statement tracing.
func (st *Store) SetTrace(on bool) {
	st.cfg.Trace = on
}

func (st *Store) trace(msg string, keysAndValues ...interface{}) {
	if st.cfg.Trace {
		st.logger.Debugw(msg, keysAndValues...)
	}
}

// inTx runs fn in a transaction, committing when fn returns nil.
func (st *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := st.db.BeginTx(ctx, nil)
	if err != nil {
		return tagd.WrapError(tagd.TSInternalErr, err, "begin transaction")
	}
	defer tx.Rollback() // Rollback if not committed

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return tagd.WrapError(tagd.TSInternalErr, err, "commit transaction")
	}
	return nil
}

// internal wraps a backing store failure.
func internal(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	var te *tagd.Error
	if errors.As(err, &te) {
		return err
	}
	return tagd.WrapError(tagd.TSInternalErr, err, format, args...)
}
