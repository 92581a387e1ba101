package main

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/rfielding/lambda-beta/expr"
	"github.com/rfielding/lambda-beta/internal/session"
	"github.com/rfielding/lambda-beta/lambda"
)

func newTestServer() *server {
	cfg := session.DefaultConfig()
	cfg.Realization = session.Shared
	cfg.StepLimit = 1000
	return &server{cfg: cfg, memo: lambda.NewMemo[expr.Shared](16), age: time.Hour}
}

func post(t *testing.T, s *server, path, body string) (int, reduceResponse) {
	t.Helper()
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(fasthttp.MethodPost)
	ctx.Request.SetRequestURI(path)
	ctx.Request.SetBody([]byte(body))
	s.Handler()(&ctx)
	var resp reduceResponse
	if ctx.Response.StatusCode() != fasthttp.StatusBadRequest {
		if err := json.Unmarshal(ctx.Response.Body(), &resp); err != nil {
			t.Fatalf("Expected a JSON body, got %q: %v", ctx.Response.Body(), err)
		}
	}
	return ctx.Response.StatusCode(), resp
}

func TestReduceEndpoint(t *testing.T) {
	s := newTestServer()
	status, resp := post(t, s, "/reduce", `{"source": "(\\x. \\y. x) y"}`)
	if status != fasthttp.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	if resp.Output != `\y_. y` || resp.Steps != 1 || !resp.Normal {
		t.Errorf("Expected \\y_. y in 1 step, got %+v", resp)
	}
	if resp.Metrics["renames"] != 1 {
		t.Errorf("Expected 1 rename, got %v", resp.Metrics)
	}

	_, again := post(t, s, "/reduce", `{"source": "(\\x. \\y. x) y"}`)
	if !again.Cached {
		t.Error("Expected the second request to be served from the memo")
	}
}

func TestReduceNumeral(t *testing.T) {
	s := newTestServer()
	_, resp := post(t, s, "/reduce", `{"source": "3 2"}`)
	if resp.Numeral == nil || *resp.Numeral != 8 {
		t.Errorf("Expected numeral 8, got %+v", resp)
	}
}

func TestReduceBudget(t *testing.T) {
	s := newTestServer()
	status, resp := post(t, s, "/reduce", `{"source": "(\\x. x x) (\\x. x x)", "steps": 7}`)
	if status != fasthttp.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	if resp.Normal || resp.Steps != 7 || resp.Error == "" {
		t.Errorf("Expected a partial result after 7 steps, got %+v", resp)
	}
}

func TestReduceSyntaxError(t *testing.T) {
	s := newTestServer()
	status, resp := post(t, s, "/reduce", `{"source": "let in x"}`)
	if status != fasthttp.StatusUnprocessableEntity {
		t.Fatalf("Expected 422, got %d", status)
	}
	if resp.Position == nil || resp.Position.Line != 1 || resp.Position.Col != 1 {
		t.Errorf("Expected error position 1:1, got %+v", resp.Position)
	}
}

func TestReduceBadRequests(t *testing.T) {
	s := newTestServer()
	if status, _ := post(t, s, "/reduce", `not json`); status != fasthttp.StatusBadRequest {
		t.Errorf("Expected 400, got %d", status)
	}

	var ctx fasthttp.RequestCtx
	ctx.Request.SetRequestURI("/reduce")
	s.Handler()(&ctx)
	if ctx.Response.StatusCode() != fasthttp.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", ctx.Response.StatusCode())
	}
}

func TestRequestConfigOnlyTightens(t *testing.T) {
	s := newTestServer()
	cfg := s.requestConfig(&reduceRequest{Steps: 1000000, TimeoutMS: 1})
	if cfg.StepLimit != 1000 {
		t.Errorf("Expected step limit to stay 1000, got %d", cfg.StepLimit)
	}
	if cfg.Timeout != time.Millisecond {
		t.Errorf("Expected timeout 1ms, got %v", cfg.Timeout)
	}
}

func TestCleanTask(t *testing.T) {
	s := newTestServer()
	s.age = 0
	post(t, s, "/reduce", `{"source": "(\\x. x) y"}`)
	if s.memo.Len() != 1 {
		t.Fatalf("Expected 1 cached entry, got %d", s.memo.Len())
	}
	c := newCleaner(s.memo, -time.Second)
	if n := c.cleanTask(); n != 1 {
		t.Errorf("Expected 1 expired entry, got %d", n)
	}

	c.running.Set()
	post(t, s, "/reduce", `{"source": "(\\x. x) z"}`)
	if n := c.cleanTask(); n != 0 {
		t.Errorf("Expected a busy cleaner to skip the run, got %d", n)
	}
}

func TestNewServer(t *testing.T) {
	srv, err := newServer(100, time.Second, 8, time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("Expected the server to start, got %v", err)
	}
	defer srv.StopScheduler()
	if srv.cfg.StepLimit != 100 || srv.cfg.Realization != session.Shared {
		t.Errorf("Expected a shared config limited to 100 steps, got %v", srv.cfg)
	}
	if srv.clean == nil {
		t.Error("Expected the cleanup job to be scheduled")
	}

	if _, err := newServer(100, time.Second, 8, time.Minute, 0); err == nil {
		t.Error("Expected a zero cleanup interval to be rejected")
	}
}
