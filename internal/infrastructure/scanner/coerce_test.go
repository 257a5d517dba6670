package scanner

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

func TestCoerce(t *testing.T) {
	tests := []struct {
		name string
		json string
		want float64
	}{
		{"integer", `120`, 120},
		{"float", `3.5`, 3.5},
		{"zero", `0`, 0},
		{"grams suffix", `"120g"`, 120},
		{"kcal suffix", `"3.5kcal"`, 3.5},
		{"spaced unit", `"3.5 kcal"`, 3.5},
		{"prefix text", `"aprox. 450 kcal"`, 450},
		{"plain numeric string", `"42"`, 42},
		{"empty string", `""`, 0},
		{"letters only", `"abc"`, 0},
		{"lone dot", `"."`, 0},
		{"two decimal points keeps leading literal", `"1.2.3"`, 1.2},
		{"leading dot", `".5g"`, 0.5},
		{"null", `null`, 0},
		{"false", `false`, 0},
		{"true", `true`, 0},
		{"object", `{"value": 10}`, 0},
		{"negative number", `-5`, 0},
		{"negative string loses sign", `"-5g"`, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Coerce(gjson.Parse(tt.json)))
		})
	}
}

func TestCoerce_Missing(t *testing.T) {
	assert.Equal(t, 0.0, Coerce(gjson.Result{}))
	assert.Equal(t, 0.0, Coerce(gjson.Get(`{"a":1}`, "b")))
}

func TestCoerce_PassesThroughNonNegativeNumbers(t *testing.T) {
	for _, n := range []string{"0", "1", "0.25", "450", "1e3", "123456.789"} {
		parsed := gjson.Parse(n)
		assert.Equal(t, parsed.Num, Coerce(parsed), "value %s", n)
	}
}

func TestCoerce_NegativeZero(t *testing.T) {
	for _, raw := range []string{"-0", "-0.0", "-0e5"} {
		n, state := coerce(gjson.Parse(raw))
		assert.Equal(t, numberParsed, state, raw)
		assert.False(t, math.Signbit(n), "%s kept its sign", raw)
	}
}

func TestCoerce_States(t *testing.T) {
	tests := []struct {
		json  string
		state numberState
	}{
		{`12`, numberParsed},
		{`"12g"`, numberParsed},
		{`""`, numberAbsent},
		{`null`, numberAbsent},
		{`false`, numberAbsent},
		{`"n/a"`, numberInvalid},
		{`-1`, numberInvalid},
		{`[1]`, numberInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.json, func(t *testing.T) {
			_, state := coerce(gjson.Parse(tt.json))
			assert.Equal(t, tt.state, state)
		})
	}

	_, state := coerce(gjson.Result{})
	assert.Equal(t, numberAbsent, state)
}

func TestParseNumericText_Overflow(t *testing.T) {
	n, state := parseNumericText(strings.Repeat("9", 400) + "kcal")
	assert.Equal(t, 0.0, n)
	assert.Equal(t, numberInvalid, state)
}
