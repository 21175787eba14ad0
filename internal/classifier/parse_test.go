package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFloatOr(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		fallback float64
		expected float64
	}{
		{name: "valid number", input: "1000", fallback: 0, expected: 1000},
		{name: "valid decimal", input: "0.08", fallback: 0, expected: 0.08},
		{name: "empty string", input: "", fallback: 0, expected: 0},
		{name: "null literal", input: "null", fallback: 0, expected: 0},
		{name: "python none literal", input: "None", fallback: 0, expected: 0},
		{name: "garbage", input: "not-a-number", fallback: 0, expected: 0},
		{name: "whitespace only", input: "   ", fallback: 0, expected: 0},
		{name: "fallback is honored", input: "garbage", fallback: -1, expected: -1},
		{name: "negative number", input: "-42.5", fallback: 0, expected: -42.5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ParseFloatOr(tc.input, tc.fallback))
		})
	}
}
