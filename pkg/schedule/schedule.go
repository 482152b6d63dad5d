package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Schedule determines when the job should run next.
// A zero time means it never runs again.
type Schedule interface {
	Next(from time.Time) time.Time
	String() string
}

var parser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// cronSchedule keeps the source expression next to the parsed form.
type cronSchedule struct {
	expr  string
	inner cron.Schedule
}

func (s cronSchedule) Next(from time.Time) time.Time {
	return s.inner.Next(from)
}

func (s cronSchedule) String() string {
	return s.expr
}

// Parse parses a cron expression into a Schedule.
func Parse(expr string) (Schedule, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, errors.Join(ErrInvalidSchedule, errors.New("expression is empty"))
	}

	inner, err := parser.Parse(expr)
	if err != nil {
		return nil, errors.Join(ErrInvalidSchedule, err)
	}

	return cronSchedule{expr: expr, inner: inner}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(expr string) Schedule {
	s, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return s
}

// intervalSchedule runs at fixed intervals
type intervalSchedule struct {
	every time.Duration
}

func (s intervalSchedule) Next(from time.Time) time.Time {
	return from.Add(s.every)
}

func (s intervalSchedule) String() string {
	return fmt.Sprintf("every %v", s.every)
}

// Every creates a schedule that fires at fixed intervals.
// Non-positive durations are treated as one second.
func Every(d time.Duration) Schedule {
	if d <= 0 {
		d = time.Second
	}
	return intervalSchedule{every: d}
}
