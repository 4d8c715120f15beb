package yo

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCoerceScore(t *testing.T) {
	testCases := []struct {
		text     string
		expected float64
		ok       bool
	}{
		{text: "10", expected: 10, ok: true},
		{text: " 66 \n", expected: 66, ok: true},
		{text: " 12.5", expected: 12.5, ok: true},
		{text: "", expected: 0, ok: true},
		{text: "   ", expected: 0, ok: true},
		{text: "-3", expected: -3, ok: true},
		{text: "1e2", expected: 100, ok: true},
		{text: "0x10", expected: 16, ok: true},
		{text: "0b101", expected: 5, ok: true},
		{text: "Infinity", expected: math.Inf(1), ok: true},
		{text: "-", expected: math.NaN()},
		{text: "1,5", expected: math.NaN()},
		{text: "abc", expected: math.NaN()},
		{text: "inf", expected: math.NaN()},
		{text: "NaN", expected: math.NaN()},
		{text: "1_000", expected: math.NaN()},
		{text: "0xZZ", expected: math.NaN()},
	}

	for _, test := range testCases {
		score, ok := CoerceScore(test.text)
		require.Equal(t, test.ok, ok, test.text)
		if math.IsNaN(test.expected) {
			require.True(t, score.IsNaN(), test.text)
			continue
		}
		require.Equal(t, Score(test.expected), score, test.text)
	}
}

func TestScoreJSON(t *testing.T) {
	encoded, err := json.Marshal([]Score{10, 2.5, Score(math.NaN()), Score(math.Inf(1))})
	require.NoError(t, err)
	require.Equal(t, `[10,2.5,null,null]`, string(encoded))

	var decoded []Score
	err = json.Unmarshal([]byte(`[10, 2.5, null]`), &decoded)
	require.NoError(t, err)
	require.Len(t, decoded, 3)
	require.Equal(t, Score(10), decoded[0])
	require.Equal(t, Score(2.5), decoded[1])
	require.True(t, decoded[2].IsNaN())

	err = json.Unmarshal([]byte(`["10"]`), &decoded)
	require.Error(t, err)
}
