package topics

import (
	"context"
	"strings"
)

// Store is the queue of pending topics.
// Implementations must be safe for concurrent use.
type Store interface {
	// Load returns the queued topics, oldest first.
	Load(ctx context.Context) ([]string, error)
	// Append merges topics into the queue and reports how many were added.
	Append(ctx context.Context, topics []string) (int, error)
	// Pop removes and returns the oldest topic. ok is false when the queue is empty.
	Pop(ctx context.Context) (topic string, ok bool, err error)
	// Size returns the number of queued topics.
	Size(ctx context.Context) (int, error)
}

// Normalize turns a candidate into a storable topic. It reports false for
// values that are blank or span more than one line.
func Normalize(candidate string) (string, bool) {
	topic := strings.TrimSpace(candidate)
	if topic == "" || strings.ContainsAny(topic, "\r\n") {
		return "", false
	}
	return topic, true
}

// Merge appends the valid, not yet present candidates to existing and
// returns the result with the number of topics added. Order of existing
// topics and first-seen order of candidates are preserved. existing is
// not modified.
func Merge(existing, candidates []string) ([]string, int) {
	seen := make(map[string]struct{}, len(existing)+len(candidates))
	merged := make([]string, 0, len(existing)+len(candidates))

	for _, topic := range existing {
		if _, dup := seen[topic]; dup {
			continue
		}
		seen[topic] = struct{}{}
		merged = append(merged, topic)
	}

	added := 0
	for _, candidate := range candidates {
		topic, ok := Normalize(candidate)
		if !ok {
			continue
		}
		if _, dup := seen[topic]; dup {
			continue
		}
		seen[topic] = struct{}{}
		merged = append(merged, topic)
		added++
	}

	return merged, added
}

// parseLines splits persisted content into topics. The file may be edited by
// hand, so lines go through the same normalization and dedup as Append.
func parseLines(data string) []string {
	topics, _ := Merge(nil, strings.Split(data, "\n"))
	return topics
}

// formatLines is the inverse of parseLines.
func formatLines(topics []string) []byte {
	if len(topics) == 0 {
		return nil
	}
	return []byte(strings.Join(topics, "\n") + "\n")
}
