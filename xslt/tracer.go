package xslt

import (
	"log/slog"
	"os"
	"time"
)

// Tracer receives per-instruction diagnostics as the engine walks the
// tree. Enter/Leave bracket every instruction's execution; Error
// reports an instruction-local error (the instruction becomes a
// no-op, its siblings still run); Query reports every XPath expression
// evaluated, for debugging stylesheet logic.
type Tracer interface {
	Start()
	Done()
	Enter(ctx *Context)
	Leave(ctx *Context)
	Error(ctx *Context, err error)
	Query(ctx *Context, expr string)
	Message(ctx *Context, text string)
}

// NoopTracer discards every event. It is the zero-cost default used
// when Options.Tracer is left nil.
func NoopTracer() Tracer {
	return discardTracer{}
}

type discardTracer struct{}

func (discardTracer) Start()                    {}
func (discardTracer) Done()                     {}
func (discardTracer) Enter(*Context)             {}
func (discardTracer) Leave(*Context)             {}
func (discardTracer) Error(*Context, error)      {}
func (discardTracer) Query(*Context, string)     {}
func (discardTracer) Message(*Context, string)   {}

// SlogTracer logs through a *slog.Logger: instruction enter/leave and
// query evaluation at Debug, instruction-local errors at Warn. Fatal
// errors returned from Apply are the caller's own to log.
type SlogTracer struct {
	logger *slog.Logger
	start  time.Time

	instructions int
	errs         int
	queries      int
}

func NewSlogTracer(logger *slog.Logger) *SlogTracer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return &SlogTracer{logger: logger}
}

func (t *SlogTracer) Start() {
	t.start = time.Now()
}

func (t *SlogTracer) Done() {
	t.logger.Info("transform done",
		slog.Duration("elapsed", time.Since(t.start)),
		slog.Int("instructions", t.instructions),
		slog.Int("errors", t.errs),
		slog.Int("queries", t.queries),
	)
}

func (t *SlogTracer) Enter(ctx *Context) {
	t.instructions++
	t.logger.Debug("enter", slog.String("instruction", instructionName(ctx)), slog.Int("depth", ctx.Depth))
}

func (t *SlogTracer) Leave(ctx *Context) {
	t.logger.Debug("leave", slog.String("instruction", instructionName(ctx)), slog.Int("depth", ctx.Depth))
}

func (t *SlogTracer) Error(ctx *Context, err error) {
	t.errs++
	t.logger.Warn("instruction error",
		slog.String("instruction", instructionName(ctx)),
		slog.Int("depth", ctx.Depth),
		slog.Any("err", err),
	)
}

func (t *SlogTracer) Query(ctx *Context, expr string) {
	t.queries++
	t.logger.Debug("query", slog.String("instruction", instructionName(ctx)), slog.String("expr", expr))
}

func (t *SlogTracer) Message(ctx *Context, text string) {
	t.logger.Info("xsl:message", slog.String("text", text))
}

func instructionName(ctx *Context) string {
	if ctx == nil || ctx.Instr == nil {
		return ""
	}
	return ctx.Instr.QualifiedName()
}
