package logger

import (
	"log/slog"
	"strconv"
	"time"
)

// Error records err under "error". Nil errors yield an empty attribute.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Errors groups the non-nil errors under "errors".
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Component records the emitting component under "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Topic records a topic under "topic".
func Topic(topic string) slog.Attr {
	return slog.String("topic", topic)
}

// Count records a number of items under "count".
func Count(n int) slog.Attr {
	return slog.Int("count", n)
}

// Size records a queue size under "size".
func Size(n int) slog.Attr {
	return slog.Int("size", n)
}

func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// DispatchID records a dispatch identifier under "dispatch_id".
// Nil ids yield an empty attribute.
func DispatchID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("dispatch_id", id)
}

// Schedule records a schedule description under "schedule".
func Schedule(s string) slog.Attr {
	return slog.String("schedule", s)
}
