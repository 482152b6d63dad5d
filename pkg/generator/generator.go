package generator

import (
	"context"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Generator is the external source of new topics and illustrations.
type Generator interface {
	GenerateTopics(ctx context.Context) ([]string, error)
	GenerateImage(ctx context.Context, prompt string) (ImageRef, error)
}

// ImageRef points at a stored illustration.
type ImageRef struct {
	Name string // object path inside the storage
	URL  string // public URL
}

// DefaultPrompt asks for more topics in the style of recent ones.
const DefaultPrompt = `Our team has daily standups with a twist: every standup starts with a
topic or question that each person answers, for example "Something you learned this week".
Topics often focus on the current week. Some are meant to generate laughter, some are
playfully challenging and some are more serious. Occasionally they touch on technical
subjects the team works with. Here are the most recent topics:
- Your number one goal for this week.
- Your favourite Christmas gift this year.
- Your favourite YouTube channel.
- Your biggest blunder this week.
- Praising someone who helped you this week.
- A new perspective you gained this week.
- One TLA you learned this week.

Suggest new topics in the same format: one topic per line, each line starting with "- ".`

// listMarker matches bullets ("-", "*", "•") and numbering ("1.", "2)").
var listMarker = regexp.MustCompile(`^(?:[-*•]+|\d+[.)])\s*`)

// ParseTopics splits a model answer into candidate topics.
// Blank lines and lines that are only a list marker are dropped.
func ParseTopics(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	topics := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		line = listMarker.ReplaceAllString(line, "")
		line = strings.TrimSpace(norm.NFC.String(line))
		if line == "" {
			continue
		}
		topics = append(topics, line)
	}
	return topics
}
