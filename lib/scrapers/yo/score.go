package yo

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Score is a single grade threshold. NaN stands for a cell that held no
// number, it is written to json as null.
type Score float64

func (s Score) IsNaN() bool {
	return math.IsNaN(float64(s))
}

func (s Score) MarshalJSON() ([]byte, error) {
	f := float64(s)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

func (s *Score) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = Score(math.NaN())
		return nil
	}
	var f float64
	err := json.Unmarshal(data, &f)
	if err != nil {
		return err
	}
	*s = Score(f)
	return nil
}

// CoerceScore converts cell text into a Score the way a browser's unary `+`
// does: surrounding whitespace is ignored, empty text is 0, decimal and
// 0x/0o/0b integer literals are numbers and anything else is NaN. The bool is
// false when the text was not a number.
func CoerceScore(text string) (Score, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, true
	}

	switch text {
	case "Infinity", "+Infinity":
		return Score(math.Inf(1)), true
	case "-Infinity":
		return Score(math.Inf(-1)), true
	}

	if len(text) > 2 && text[0] == '0' {
		base := 0
		switch text[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			n, err := strconv.ParseUint(text[2:], base, 64)
			if err != nil {
				return Score(math.NaN()), false
			}
			return Score(n), true
		}
	}

	// strconv accepts "inf", "nan", hex floats and underscores, none of which
	// are numbers here
	for _, r := range text {
		if r == '_' || (unicode.IsLetter(r) && r != 'e' && r != 'E') {
			return Score(math.NaN()), false
		}
	}
	f, err := strconv.ParseFloat(text, 64)
	if errors.Is(err, strconv.ErrRange) {
		return Score(f), true
	}
	if err != nil {
		return Score(math.NaN()), false
	}
	return Score(f), true
}
