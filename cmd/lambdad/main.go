package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/rfielding/lambda-beta/expr"
	"github.com/rfielding/lambda-beta/internal/session"
	"github.com/rfielding/lambda-beta/lambda"
)

var (
	addr      = flag.String("addr", "localhost:8080", "TCP address to listen to")
	stepLimit = flag.Uint64("steps", 1000000, "Maximum beta reductions per request (0 for none)")
	timeout   = flag.Duration("timeout", 5*time.Second, "Maximum reduction time per request (0 for none)")
	memoSize  = flag.Int("memo", 1024, "Number of normal forms kept in the shared cache")
	memoAge   = flag.Duration("memoAge", 30*time.Minute, "Cached normal forms older than this are expired")
	cleanTick = flag.Duration("cleanEvery", 5*time.Minute, "How often expired cache entries are removed")
)

func main() {
	// Parse command-line flags.
	flag.Parse()

	srv, err := newServer(*stepLimit, *timeout, *memoSize, *memoAge, *cleanTick)
	if err != nil {
		log.Fatalf("memo cleanup: %v", err)
	}
	go srv.Serve(*addr)

	// Make a signal channel. Register SIGINT.
	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt)

	// Wait for the signal.
	<-sigch

	fmt.Println("Interrupted. Exiting.")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(ctx)
}

// newServer builds the service and starts its memo cleanup job.
func newServer(steps uint64, timeout time.Duration, memo int, age, every time.Duration) (*server, error) {
	cfg := session.DefaultConfig()
	cfg.Realization = session.Shared
	cfg.StepLimit = steps
	cfg.Timeout = timeout

	srv := &server{
		cfg:  cfg,
		memo: lambda.NewMemo[expr.Shared](memo),
		age:  age,
	}
	if err := srv.StartCleanSchedule(every); err != nil {
		return nil, err
	}
	return srv, nil
}
