package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/musetronstar/tagd/logger"
	"github.com/musetronstar/tagd/tagd"
	"github.com/musetronstar/tagd/tagd/referent"
)

// Session is one caller's view of a Store: a context stack, an error sink
// and a set of flags. A Session is not safe for concurrent use; open one per
// goroutine.
type Session struct {
	ID    uuid.UUID
	Flags tagd.Flags

	store  *Store
	stack  *referent.Stack
	errs   *tagd.Errorable
	logger *zap.SugaredLogger
}

// NewSession opens a session. errs may be shared with other components
// (a parser, a driver) so one request yields one error trail; nil allocates
// a private sink.
func (st *Store) NewSession(errs *tagd.Errorable) *Session {
	if errs == nil {
		errs = &tagd.Errorable{}
	}
	id := uuid.New()
	return &Session{
		ID:     id,
		Flags:  st.cfg.Flags,
		store:  st,
		stack:  referent.NewStack(st.cfg.MaxContextDepth),
		errs:   errs,
		logger: logger.ChildLogger(st.logger, logger.FieldSession, id.String()),
	}
}

// Errors is the session's error sink.
func (s *Session) Errors() *tagd.Errorable {
	return s.errs
}

// Context returns the context stack from outermost to innermost.
func (s *Session) Context() []string {
	return s.stack.IDs()
}

// Push makes id the innermost context. The id must be a stored tag.
func (s *Session) Push(ctx context.Context, id string) error {
	ok, err := exists(ctx, s.store.db, id)
	if err != nil {
		return s.fail("push", err)
	}
	if !ok {
		return s.fail("push", tagd.Errorf(tagd.TSContextUnk, "unknown context: %s", id).
			CausedBy(tagd.HardUnknownTag, id))
	}
	if err := s.stack.Push(id); err != nil {
		return s.fail("push", tagd.WrapError(tagd.TSMisuse, err, "push %s", id))
	}
	s.logger.Debugw("Pushed context", logger.FieldContext, id, "depth", s.stack.Len())
	return nil
}

// Pop removes the innermost context and returns it.
func (s *Session) Pop() (string, error) {
	id, err := s.stack.Pop()
	if err != nil {
		return "", s.fail("pop", tagd.WrapError(tagd.TSMisuse, err, "pop"))
	}
	s.logger.Debugw("Popped context", logger.FieldContext, id, "depth", s.stack.Len())
	return id, nil
}

// Clear empties the context stack.
func (s *Session) Clear() {
	s.stack.Clear()
}

// fail records err in the sink and returns it.
func (s *Session) fail(op string, err error) error {
	if err == nil {
		return nil
	}
	te := tagd.AsError(err)
	s.errs.Add(te)
	if te.Code.Severity() >= tagd.TSInternalErr.Severity() {
		s.logger.Errorw("Operation failed", logger.FieldOperation, op, logger.FieldErrorCode, te.Code.String(), logger.FieldError, err)
	} else {
		s.logger.Debugw("Operation failed", logger.FieldOperation, op, logger.FieldErrorCode, te.Code.String(), logger.FieldError, err)
	}
	return te
}

// observe records the outcome of an operation.
func (s *Session) observe(op string, start time.Time, err error) {
	code := tagd.CodeOf(err)
	s.store.metrics.observe(op, code, time.Since(start))
	s.store.trace("Operation",
		logger.FieldOperation, op,
		logger.FieldErrorCode, code.String(),
		logger.FieldDurationMS, time.Since(start).Milliseconds(),
	)
}

func (s *Session) has(f tagd.Flags) bool {
	return s.Flags.Has(f)
}
