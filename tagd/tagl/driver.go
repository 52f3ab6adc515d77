package tagl

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/musetronstar/tagd/logger"
	"github.com/musetronstar/tagd/sym"
	"github.com/musetronstar/tagd/tagd"
)

// Engine is the session API statements run against.
type Engine interface {
	Get(ctx context.Context, id string) (*tagd.Tag, error)
	Put(ctx context.Context, t *tagd.Tag) error
	Del(ctx context.Context, t *tagd.Tag) error
	Query(ctx context.Context, q *tagd.Tag) (tagd.TagSet, error)
	Pos(ctx context.Context, id string) (tagd.POS, error)
	Push(ctx context.Context, id string) error
	Clear()
}

// Driver parses TAGL and runs it, writing results and errors to out as TAGL.
type Driver struct {
	engine Engine
	out    io.Writer
	logger *zap.SugaredLogger
}

// NewDriver returns a driver over engine. A nil logger operates silently.
func NewDriver(engine Engine, out io.Writer, log *zap.SugaredLogger) *Driver {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Driver{engine: engine, out: out, logger: log.Named("tagl")}
}

// Exec parses every statement of r and runs them in order. A failing
// statement is reported to out and does not stop the rest; the first
// failure is returned.
func (d *Driver) Exec(ctx context.Context, name string, r io.Reader) (int, error) {
	p := NewParser(func(id string) tagd.POS {
		pos, _ := d.engine.Pos(ctx, id)
		return pos
	})
	stmts, err := p.Parse(name, r)
	if err != nil {
		d.report(err)
		return 0, err
	}

	var first error
	for _, st := range stmts {
		if err := d.Run(ctx, st); err != nil {
			logger.AddStatementSymbol(d.logger, sym.Glyph(st.Kind)).Debugw("Statement failed",
				logger.FieldStatement, st.Kind.String(),
				logger.FieldTag, st.Subject(),
				"line", st.Line,
				logger.FieldError, err)
			d.report(err)
			if first == nil {
				first = err
			}
		}
	}
	return len(stmts), first
}

// Run executes one statement.
func (d *Driver) Run(ctx context.Context, st *Statement) error {
	switch st.Kind {
	case sym.StatementGet:
		t, err := d.engine.Get(ctx, st.Tag.ID)
		if err != nil {
			return err
		}
		return d.write(t)

	case sym.StatementPut:
		return d.engine.Put(ctx, st.Tag)

	case sym.StatementDel:
		return d.engine.Del(ctx, st.Tag)

	case sym.StatementQuery:
		ts, err := d.engine.Query(ctx, st.Tag)
		if err != nil {
			return err
		}
		for _, t := range ts {
			if err := d.write(t); err != nil {
				return err
			}
		}
		return nil

	case sym.StatementPragma:
		d.engine.Clear()
		for _, id := range st.Args {
			if err := d.engine.Push(ctx, id); err != nil {
				return err
			}
		}
		return nil
	}
	return tagd.Errorf(tagd.TSMisuse, "unknown statement kind: %s", st.Kind)
}

func (d *Driver) write(t *tagd.Tag) error {
	if _, err := fmt.Fprintf(d.out, "%s;\n", t); err != nil {
		return tagd.WrapError(tagd.TSInternalErr, err, "write %s", t.ID)
	}
	return nil
}

// report writes err as an error tag.
func (d *Driver) report(err error) {
	fmt.Fprintf(d.out, "%s;\n", tagd.AsError(err).Tag())
}
