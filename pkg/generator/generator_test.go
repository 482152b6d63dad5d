package generator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/standup/pkg/generator"
)

func TestParseTopics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "dash list",
			in:   "- Your proudest moment this week.\n- A tool you cannot live without.",
			want: []string{"Your proudest moment this week.", "A tool you cannot live without."},
		},
		{
			name: "numbered and starred list with blanks",
			in:   "\n1. First\r\n2) Second\n\n* Third\n•  Fourth\n",
			want: []string{"First", "Second", "Third", "Fourth"},
		},
		{
			name: "plain lines",
			in:   "Favourite snack\n   Worst meeting ever   ",
			want: []string{"Favourite snack", "Worst meeting ever"},
		},
		{
			name: "marker only lines are dropped",
			in:   "-\n- \n*",
			want: []string{},
		},
		{
			name: "NFC normalised",
			in:   "- Cafe\u0301 you like",
			want: []string{"Caf\u00e9 you like"},
		},
		{
			name: "numbers inside text are kept",
			in:   "- 3 things you learned",
			want: []string{"3 things you learned"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, generator.ParseTopics(tt.in))
		})
	}
}
