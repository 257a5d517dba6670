package scanner

import "github.com/tidwall/gjson"

// EnvelopeKeys are the wrapper keys the workflow tool may nest its payload
// under, in the order they are checked.
var EnvelopeKeys = []string{"output", "body", "json", "data"}

// unwrapStep returns the replacement value and true when it applies.
type unwrapStep func(gjson.Result) (gjson.Result, bool)

// unwrapSteps run in this order on every pass. Each one applies at most once.
var unwrapSteps = []unwrapStep{
	firstElement,
	envelope,
	decodeString,
}

// Unwrap runs a single unwrap pass over value. It does not descend
// recursively: a payload nested two envelopes deep needs two passes.
func Unwrap(value gjson.Result) gjson.Result {
	for _, step := range unwrapSteps {
		if next, ok := step(value); ok {
			value = next
		}
	}
	return value
}

// firstElement keeps only the first item of a batch.
func firstElement(value gjson.Result) (gjson.Result, bool) {
	if !value.IsArray() {
		return value, false
	}
	items := value.Array()
	if len(items) == 0 {
		return gjson.Result{}, true
	}
	return items[0], true
}

// envelope replaces an object with the nested object under the first envelope key present.
func envelope(value gjson.Result) (gjson.Result, bool) {
	if !value.IsObject() {
		return value, false
	}
	for _, key := range EnvelopeKeys {
		if nested := value.Get(key); nested.IsObject() {
			return nested, true
		}
	}
	return value, false
}

// decodeString parses a JSON document embedded in a string. Text that is not
// JSON is kept so validation can report it.
func decodeString(value gjson.Result) (gjson.Result, bool) {
	if value.Type != gjson.String || !gjson.Valid(value.Str) {
		return value, false
	}
	return gjson.Parse(value.Str), true
}
