package tagd

import "sync"

// Errorable accumulates errors across cooperating components. Sharing one
// Errorable between the parser, the session and the store gives a single
// ordered trail for a request, summarised by the most severe code.
//
// The zero value is ready to use.
type Errorable struct {
	mu   sync.Mutex
	code Code
	errs []*Error
}

// Add records err and returns it. Nil is ignored.
func (e *Errorable) Add(err error) error {
	if err == nil {
		return nil
	}
	te := AsError(err)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.errs = append(e.errs, te)
	if te.Code.Severity() > e.code.Severity() {
		e.code = te.Code
	}
	return te
}

// Errorf records a new error and returns it.
func (e *Errorable) Errorf(code Code, format string, args ...interface{}) *Error {
	te := Errorf(code, format, args...)
	e.Add(te)
	return te
}

// Code is the most severe code recorded, OK when empty.
func (e *Errorable) Code() Code {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.code
}

// OK reports whether nothing has been recorded.
func (e *Errorable) OK() bool {
	return e.Code() == OK
}

// Has reports whether an error with code was recorded.
func (e *Errorable) Has(code Code) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, err := range e.errs {
		if err.Code == code {
			return true
		}
	}
	return false
}

// Errors returns the recorded errors in order.
func (e *Errorable) Errors() []*Error {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*Error, len(e.errs))
	copy(out, e.errs)
	return out
}

// Last returns the most recent error, or nil.
func (e *Errorable) Last() *Error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.errs) == 0 {
		return nil
	}
	return e.errs[len(e.errs)-1]
}

// Clear forgets every recorded error.
func (e *Errorable) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.code = OK
	e.errs = nil
}
