package session

import (
	"fmt"
	"strings"
	"time"
)

// Realization selects the term representation used for evaluation.
type Realization int

const (
	Boxed Realization = iota
	Local
	Shared
)

func (r Realization) String() string {
	switch r {
	case Boxed:
		return "boxed"
	case Local:
		return "local"
	case Shared:
		return "shared"
	}
	return fmt.Sprintf("Realization(%d)", int(r))
}

func ParseRealization(s string) (Realization, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "boxed", "box", "b":
		return Boxed, nil
	case "local", "rc", "l":
		return Local, nil
	case "shared", "arc", "s":
		return Shared, nil
	}
	return Boxed, fmt.Errorf("unknown representation %q (want boxed, local or shared)", s)
}

// Config bounds and shapes one evaluation. A zero StepLimit or Timeout means
// no limit.
type Config struct {
	Realization Realization
	StepLimit   uint64
	Timeout     time.Duration
	// ChunkSize is how many steps run between checks of the timeout and the
	// interrupt flag.
	ChunkSize uint32
	// MemoSize is the capacity of the normal-form cache. It only applies to
	// the shared representation; 0 disables it.
	MemoSize int
}

func DefaultConfig() Config {
	return Config{
		Realization: Boxed,
		StepLimit:   1000000,
		Timeout:     10 * time.Second,
		ChunkSize:   256,
	}
}

func (c Config) String() string {
	limit := "none"
	if c.StepLimit > 0 {
		limit = fmt.Sprint(c.StepLimit)
	}
	timeout := "none"
	if c.Timeout > 0 {
		timeout = c.Timeout.String()
	}
	return fmt.Sprintf("repr=%v limit=%s timeout=%s chunk=%d memo=%d",
		c.Realization, limit, timeout, c.ChunkSize, c.MemoSize)
}
