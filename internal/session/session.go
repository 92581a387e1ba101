package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tevino/abool/v2"

	"github.com/rfielding/lambda-beta/expr"
	"github.com/rfielding/lambda-beta/lambda"
	"github.com/rfielding/lambda-beta/syntax"
)

var (
	ErrStepLimit   = errors.New("step limit reached")
	ErrTimeout     = errors.New("timed out")
	ErrInterrupted = errors.New("interrupted")
)

// Result describes one evaluation. When Evaluate also returns an error from
// a budget, Output is the partially reduced term.
type Result struct {
	Input     string
	Output    string
	Steps     uint64
	Normal    bool
	Numeral   uint64
	IsNumeral bool
	Cached    bool
	Elapsed   time.Duration
	Metrics   *lambda.Metrics
	// Term is the output converted to the exclusive representation, for
	// rendering.
	Term expr.Boxed
}

// Session evaluates source texts under a Config and keeps running totals.
// Evaluate may be called from several goroutines; Interrupt stops every
// evaluation in progress and does not affect later ones.
type Session struct {
	mu        sync.Mutex
	cfg       Config
	running   map[*abool.AtomicBool]struct{}
	memo      *lambda.Memo[expr.Shared]
	totals    *lambda.Metrics
	runs      uint64
}

func New(cfg Config) *Session {
	s := &Session{
		cfg:       cfg,
		running:   make(map[*abool.AtomicBool]struct{}),
		totals:    lambda.NewMetrics(),
	}
	if cfg.MemoSize > 0 {
		s.memo = lambda.NewMemo[expr.Shared](cfg.MemoSize)
	}
	return s
}

// WithMemo makes the session share memo with other sessions.
func (s *Session) WithMemo(memo *lambda.Memo[expr.Shared]) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.memo = memo
	return s
}

func (s *Session) Memo() *lambda.Memo[expr.Shared] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.memo
}

func (s *Session) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

func (s *Session) SetConfig(cfg Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cfg.MemoSize > 0 && s.memo == nil {
		s.memo = lambda.NewMemo[expr.Shared](cfg.MemoSize)
	}
	s.cfg = cfg
}

// Interrupt asks every evaluation in progress to stop at its next chunk
// boundary.
func (s *Session) Interrupt() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for flag := range s.running {
		flag.Set()
	}
}

// Totals returns a snapshot of the counters summed over every evaluation.
func (s *Session) Totals() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.totals.Snapshot()
	out["runs"] = float64(s.runs)
	return out
}

func (s *Session) MetricsTable() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totals.GenerateMetricsTable()
}

// Evaluate parses src, reduces it under the session's budgets and reports
// the outcome. A parse error returns a nil Result.
func (s *Session) Evaluate(src string) (*Result, error) {
	cfg := s.Config()
	stop := abool.New()
	s.mu.Lock()
	s.running[stop] = struct{}{}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.running, stop)
		s.mu.Unlock()
	}()
	var (
		res *Result
		err error
	)
	switch cfg.Realization {
	case Local:
		res, err = evaluate[expr.Local](stop, cfg, src, nil)
	case Shared:
		res, err = evaluate[expr.Shared](stop, cfg, src, s.Memo())
	default:
		res, err = evaluate[expr.Boxed](stop, cfg, src, nil)
	}
	if res != nil {
		s.mu.Lock()
		s.runs++
		s.totals.Merge(res.Metrics)
		s.mu.Unlock()
	}
	return res, err
}

func evaluate[E expr.Expression[E]](stop *abool.AtomicBool, cfg Config, src string, memo *lambda.Memo[E]) (*Result, error) {
	term, err := syntax.ParseExpr[E](src)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	start := time.Now()
	res := &Result{Input: syntax.Format(term), Metrics: lambda.NewMetrics()}

	if memo != nil {
		if out, steps, ok := memo.Lookup(term); ok {
			term.Release()
			res.Cached = true
			res.Normal = true
			res.Steps = steps
			finish(res, out, start)
			return res, nil
		}
	}

	ip := lambda.NewInterpreter(term.Clone()).WithMetrics(res.Metrics)
	chunk := cfg.ChunkSize
	if chunk == 0 {
		chunk = DefaultConfig().ChunkSize
	}
	for {
		if stop.IsSet() {
			err = ErrInterrupted
			break
		}
		budget := chunk
		if cfg.StepLimit > 0 {
			left := cfg.StepLimit - ip.Steps()
			if left == 0 {
				if lambda.HasRedex(ip.Output()) {
					err = ErrStepLimit
				} else {
					res.Normal = true
				}
				break
			}
			if left < uint64(budget) {
				budget = uint32(left)
			}
		}
		if !ip.RunSteps(budget) {
			res.Normal = true
			break
		}
		if cfg.Timeout > 0 && time.Since(start) > cfg.Timeout {
			err = ErrTimeout
			break
		}
	}

	res.Steps = ip.Steps()
	out := ip.Finish()
	if res.Normal && memo != nil {
		memo.Store(term, out, res.Steps)
	}
	term.Release()
	finish(res, out, start)
	if err != nil {
		return res, fmt.Errorf("after %d steps: %w", res.Steps, err)
	}
	return res, nil
}

func finish[E expr.Expression[E]](res *Result, out E, start time.Time) {
	res.Output = syntax.Format(out)
	res.Numeral, res.IsNumeral = lambda.DecodeChurch(out)
	res.Term = expr.Convert[E, expr.Boxed](out)
	out.Release()
	res.Elapsed = time.Since(start)
}
