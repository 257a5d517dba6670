package scanner

import (
	"math"
	"regexp"
	"strconv"

	"github.com/tidwall/gjson"
)

// numberState records how a numeric-like field was read, so that a value that
// failed to parse can be told apart from a genuine zero.
type numberState int

const (
	numberAbsent numberState = iota
	numberParsed
	numberInvalid
)

var (
	nonNumericRegex = regexp.MustCompile(`[^\d.]`)
	// longest decimal literal at the start of the cleaned text
	leadingFloatRegex = regexp.MustCompile(`^(\d+(\.\d*)?|\.\d+)`)
)

// Coerce converts a loosely-typed numeric field into a finite, non-negative
// number. It never fails: anything unparseable becomes 0.
//
//	Coerce(120)      == 120
//	Coerce("120g")   == 120
//	Coerce("3.5kcal") == 3.5
//	Coerce("abc")    == 0
func Coerce(value gjson.Result) float64 {
	n, _ := coerce(value)
	return n
}

func coerce(value gjson.Result) (float64, numberState) {
	switch value.Type {
	case gjson.Null, gjson.False:
		return 0, numberAbsent
	case gjson.Number:
		if math.IsNaN(value.Num) || math.IsInf(value.Num, 0) || value.Num < 0 {
			return 0, numberInvalid
		}
		if value.Num == 0 {
			// drops the sign of -0
			return 0, numberParsed
		}
		return value.Num, numberParsed
	case gjson.String:
		if value.Str == "" {
			return 0, numberAbsent
		}
		return parseNumericText(value.Str)
	default:
		// true, objects and arrays
		return 0, numberInvalid
	}
}

// parseNumericText strips every character that is not a digit or a decimal
// point and parses what remains.
func parseNumericText(text string) (float64, numberState) {
	cleaned := nonNumericRegex.ReplaceAllString(text, "")
	literal := leadingFloatRegex.FindString(cleaned)
	if literal == "" {
		return 0, numberInvalid
	}
	n, err := strconv.ParseFloat(literal, 64)
	if err != nil || math.IsInf(n, 0) {
		return 0, numberInvalid
	}
	return n, numberParsed
}
