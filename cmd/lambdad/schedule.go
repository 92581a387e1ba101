package main

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/tevino/abool/v2"

	"github.com/rfielding/lambda-beta/expr"
	"github.com/rfielding/lambda-beta/lambda"
)

// cleaner expires old memo entries. A run that is still going when the next
// tick fires makes that tick a no-op.
type cleaner struct {
	memo      *lambda.Memo[expr.Shared]
	age       time.Duration
	running   *abool.AtomicBool
	scheduler gocron.Scheduler
}

func newCleaner(memo *lambda.Memo[expr.Shared], age time.Duration) *cleaner {
	return &cleaner{memo: memo, age: age, running: abool.NewBool(false)}
}

func (c *cleaner) cleanTask() int {
	if !c.running.SetToIf(false, true) {
		return 0
	}
	defer c.running.UnSet()
	n := c.memo.Expire(c.age)
	if n > 0 {
		memoExpired.Add(int64(n))
		log.Printf("memo: expired %d entries, %d left", n, c.memo.Len())
	}
	return n
}

func (s *server) StartCleanSchedule(every time.Duration) error {
	c := newCleaner(s.memo, s.age)
	var err error
	c.scheduler, err = gocron.NewScheduler()
	if err != nil {
		return err
	}
	job, err := c.scheduler.NewJob(gocron.DurationJob(every), gocron.NewTask(func() { c.cleanTask() }))
	if err != nil {
		_ = c.scheduler.Shutdown()
		return err
	}
	log.Printf("memo cleanup job %v every %v", job.ID(), every)
	c.scheduler.Start()
	s.clean = c
	return nil
}

func (s *server) StopScheduler() {
	if s.clean == nil || s.clean.scheduler == nil {
		return
	}
	if err := s.clean.scheduler.Shutdown(); err != nil {
		log.Println(err)
	}
}
