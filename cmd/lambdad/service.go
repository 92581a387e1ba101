package main

import (
	"context"
	"encoding/json"
	"errors"
	"expvar"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/expvarhandler"

	"github.com/rfielding/lambda-beta/expr"
	"github.com/rfielding/lambda-beta/internal/session"
	"github.com/rfielding/lambda-beta/lambda"
	"github.com/rfielding/lambda-beta/syntax"
)

// Various counters - see https://pkg.go.dev/expvar for details.
var (
	reduceCalls   = expvar.NewInt("reduceCalls")
	reduceOK      = expvar.NewInt("reduceOK")
	reduceBudget  = expvar.NewInt("reduceBudgetExceeded")
	reduceInvalid = expvar.NewInt("reduceInvalid")
	memoHits      = expvar.NewInt("memoHits")
	betaSteps     = expvar.NewInt("betaSteps")
	memoExpired   = expvar.NewInt("memoExpired")
)

type reduceRequest struct {
	Source string `json:"source"`
	// Steps and TimeoutMS may only tighten the server limits.
	Steps     uint64 `json:"steps,omitempty"`
	TimeoutMS int64  `json:"timeout_ms,omitempty"`
}

type reduceResponse struct {
	Input    string             `json:"input"`
	Output   string             `json:"output"`
	Steps    uint64             `json:"steps"`
	Normal   bool               `json:"normal"`
	Numeral  *uint64            `json:"numeral,omitempty"`
	Cached   bool               `json:"cached"`
	Elapsed  string             `json:"elapsed"`
	Metrics  map[string]float64 `json:"metrics"`
	Error    string             `json:"error,omitempty"`
	Position *errorPosition     `json:"position,omitempty"`
}

type errorPosition struct {
	Line int `json:"line"`
	Col  int `json:"col"`
}

type server struct {
	cfg   session.Config
	memo  *lambda.Memo[expr.Shared]
	age   time.Duration
	http  *fasthttp.Server
	clean *cleaner
}

func (s *server) requestConfig(req *reduceRequest) session.Config {
	cfg := s.cfg
	if req.Steps > 0 && (cfg.StepLimit == 0 || req.Steps < cfg.StepLimit) {
		cfg.StepLimit = req.Steps
	}
	if req.TimeoutMS > 0 {
		d := time.Duration(req.TimeoutMS) * time.Millisecond
		if cfg.Timeout == 0 || d < cfg.Timeout {
			cfg.Timeout = d
		}
	}
	return cfg
}

func (s *server) HandleReduce(ctx *fasthttp.RequestCtx) {
	ctx.Response.Reset()
	reduceCalls.Add(1)
	if !ctx.IsPost() {
		ctx.Error("POST a JSON body", fasthttp.StatusMethodNotAllowed)
		return
	}
	var req reduceRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		reduceInvalid.Add(1)
		ctx.Error(err.Error(), fasthttp.StatusBadRequest)
		return
	}

	sess := session.New(s.requestConfig(&req)).WithMemo(s.memo)
	res, err := sess.Evaluate(req.Source)
	if res == nil {
		reduceInvalid.Add(1)
		resp := reduceResponse{Error: err.Error()}
		var se *syntax.Error
		if errors.As(err, &se) {
			resp.Position = &errorPosition{Line: se.Line, Col: se.Col}
		}
		writeJSON(ctx, fasthttp.StatusUnprocessableEntity, resp)
		return
	}

	resp := reduceResponse{
		Input:   res.Input,
		Output:  res.Output,
		Steps:   res.Steps,
		Normal:  res.Normal,
		Cached:  res.Cached,
		Elapsed: res.Elapsed.String(),
		Metrics: res.Metrics.Snapshot(),
	}
	if res.IsNumeral {
		n := res.Numeral
		resp.Numeral = &n
	}
	if res.Cached {
		memoHits.Add(1)
	}
	betaSteps.Add(int64(res.Metrics.Value("beta_steps")))
	if err != nil {
		reduceBudget.Add(1)
		resp.Error = err.Error()
		log.Printf("reduce: %d steps, %v", res.Steps, err)
	} else {
		reduceOK.Add(1)
		log.Printf("reduce: %d steps in %v (cached=%v)", res.Steps, res.Elapsed, res.Cached)
	}
	writeJSON(ctx, fasthttp.StatusOK, resp)
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v interface{}) {
	buf, err := json.Marshal(v)
	if err != nil {
		ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	ctx.SetBody(buf)
}

func (s *server) Handler() fasthttp.RequestHandler {
	// /stats output may be filtered using regexps, e.g. /stats?r=reduce
	return func(ctx *fasthttp.RequestCtx) {
		switch string(ctx.Path()) {
		case "/stats":
			expvarhandler.ExpvarHandler(ctx)
		case "/reduce":
			s.HandleReduce(ctx)
		default:
			ctx.Error("not found", fasthttp.StatusNotFound)
		}
	}
}

func (s *server) Serve(addr string) {
	log.Printf("Starting HTTP server on %q", addr)
	s.http = &fasthttp.Server{
		Handler:      s.Handler(),
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
	}
	if err := s.http.ListenAndServe(addr); err != nil {
		log.Fatalf("error in ListenAndServe: %v", err)
	}
}

func (s *server) Shutdown(ctx context.Context) {
	s.StopScheduler()
	if s.http == nil {
		return
	}
	if err := s.http.ShutdownWithContext(ctx); err != nil {
		log.Println(err)
	}
}
