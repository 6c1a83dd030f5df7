package moderation

import (
	"log/slog"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

const replacementChar = '*'

// TestModerator_Censor
// The dictionary uses specific words to avoid partial collisions (e.g., "he" inside "The")
func TestModerator_Censor(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	dictionary := []string{"scammer", "idiot", "refund fraud"}
	mod, err := NewModerator(dictionary, replacementChar, log)
	req.NoError(err)

	tests := []struct {
		name     string
		input    string
		expected string
		words    []string
	}{
		{
			name:     "Simple word and space preservation",
			input:    "That scammer took my seat",
			expected: "That ******* took my seat",
			words:    []string{"scammer"},
		},
		{
			name:     "Multiple occurrences and preserved spacing",
			input:    "idiot idiot idiot",
			expected: "***** ***** *****",
			words:    []string{"idiot", "idiot", "idiot"},
		},
		{
			name: "Leet speak and internal punctuation",
			// s (index 7) . c . 4 . m . m . € . r (index 19) -> 13 characters
			input:    "You're s.c.4.m.m.€.r mate",
			expected: "You're ************* mate",
			words:    []string{"scammer"},
		},
		{
			name:     "Uppercase and extreme noise",
			input:    "I-D-I-O-T is a S.C.A.M.M.E.R",
			expected: "********* is a *************",
			words:    []string{"idiot", "scammer"},
		},
		{
			name:     "Accents and special characters (UTF-8)",
			input:    "Un été avec un scammer",
			expected: "Un été avec un *******",
			words:    []string{"scammer"},
		},
		{
			name:     "Word adjacent to trailing punctuation",
			input:    "What an idiot!",
			expected: "What an *****!",
			words:    []string{"idiot"},
		},
		{
			name:     "Multi-word pattern crossing a space",
			input:    "This looks like refund fraud to me",
			expected: "This looks like ************ to me",
			words:    []string{"refundfraud"},
		},
		{
			name:     "Nothing to censor",
			input:    "The screening starts at nine",
			expected: "The screening starts at nine",
			words:    nil,
		},
		{
			name:     "Empty string",
			input:    "",
			expected: "",
			words:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, words := mod.Censor(tt.input)
			req.Equal(tt.expected, content, "test=%s,", tt.name)
			req.Equal(tt.words, words, "expected=%s,words=%s", tt.expected, words)
		})
	}
}

func TestModerator_CornerCases(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	// Given real noise and not Leet Speak associated
	dictionary := []string{"...", ",,,", "", "scammer"}

	mod, err := NewModerator(dictionary, replacementChar, log)
	req.NoError(err)

	// Then the sentence is censored
	input := "The scammer is gone"
	expected := "The ******* is gone"
	content, words := mod.Censor(input)
	req.Equal(expected, content)
	req.Equal([]string{"scammer"}, words)

	// Then real noise is uncensored
	input = "Hello ..."
	expected = "Hello ..."
	content, words = mod.Censor(input)
	req.Equal(expected, content)
	req.Nil(words)
}
