package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

func TestUnwrap(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain object is left alone",
			in:   `{"calorias_totais_kcal": 100}`,
			want: `{"calorias_totais_kcal": 100}`,
		},
		{
			name: "array keeps first element",
			in:   `[{"a": 1}, {"a": 2}]`,
			want: `{"a": 1}`,
		},
		{
			name: "output envelope",
			in:   `{"output": {"a": 1}}`,
			want: `{"a": 1}`,
		},
		{
			name: "body envelope",
			in:   `{"body": {"a": 1}}`,
			want: `{"a": 1}`,
		},
		{
			name: "json envelope",
			in:   `{"json": {"a": 1}}`,
			want: `{"a": 1}`,
		},
		{
			name: "data envelope",
			in:   `{"data": {"a": 1}}`,
			want: `{"a": 1}`,
		},
		{
			name: "output wins over body",
			in:   `{"body": {"from": "body"}, "output": {"from": "output"}}`,
			want: `{"from": "output"}`,
		},
		{
			name: "json wins over data",
			in:   `{"data": {"from": "data"}, "json": {"from": "json"}}`,
			want: `{"from": "json"}`,
		},
		{
			name: "non-object envelope value is skipped",
			in:   `{"output": "text", "body": {"a": 1}}`,
			want: `{"a": 1}`,
		},
		{
			name: "array envelope value is not unwrapped",
			in:   `{"data": [1, 2]}`,
			want: `{"data": [1, 2]}`,
		},
		{
			name: "array then envelope in one pass",
			in:   `[{"body": {"a": 1}}]`,
			want: `{"a": 1}`,
		},
		{
			name: "only one envelope level per pass",
			in:   `{"output": {"body": {"a": 1}}}`,
			want: `{"body": {"a": 1}}`,
		},
		{
			name: "stringified json is decoded",
			in:   `"{\"a\": 1}"`,
			want: `{"a": 1}`,
		},
		{
			name: "array of stringified json",
			in:   `["{\"a\": 1}"]`,
			want: `{"a": 1}`,
		},
		{
			name: "invalid json string is kept",
			in:   `"not json"`,
			want: `"not json"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Unwrap(gjson.Parse(tt.in))
			assert.JSONEq(t, tt.want, got.Raw)
		})
	}
}

func TestUnwrap_EmptyArray(t *testing.T) {
	got := Unwrap(gjson.Parse(`[]`))
	assert.False(t, got.Exists())
}

func TestUnwrap_Idempotent(t *testing.T) {
	inputs := []string{
		`{"calorias_totais_kcal": 300}`,
		`[{"json": {"calorias_totais_kcal": 300}}]`,
		`{"output": {"macro_nutrientes": {"proteinas_g": 1}}}`,
		`"{\"calorias_totais_kcal\": 1}"`,
		`"plain text"`,
		`42`,
	}

	for _, in := range inputs {
		once := Unwrap(gjson.Parse(in))
		twice := Unwrap(once)
		assert.Equal(t, once.Raw, twice.Raw, "input %s", in)
	}
}

func TestUnwrap_TwoPassesForDoubleEnvelope(t *testing.T) {
	in := gjson.Parse(`{"output": {"body": {"a": 1}}}`)
	got := Unwrap(Unwrap(in))
	assert.JSONEq(t, `{"a": 1}`, got.Raw)
}
