package scanner

import (
	"encoding/json"
	"fmt"

	"github.com/deds0099/nexaapp/internal/domain"
	"github.com/tidwall/gjson"
)

// Field names used by the workflow tool. The first name is the one it
// currently emits; the English alias is accepted as a fallback.
var (
	descriptionKeys     = []string{"descricao", "description"}
	totalCaloriesKeys   = []string{"calorias_totais_kcal", "totalCalories"}
	macrosKeys          = []string{"macro_nutrientes", "macros"}
	proteinKeys         = []string{"proteinas_g", "protein"}
	carbsKeys           = []string{"carboidratos_g", "carbs"}
	fatsKeys            = []string{"gorduras_totais_g", "fats"}
	detailsKeys         = []string{"detalhes", "details"}
	fiberKeys           = []string{"fibras_g", "fiber"}
	sugarKeys           = []string{"acucares_g", "sugar"}
	sodiumKeys          = []string{"sodio_mg", "sodium"}
	saturatedFatKeys    = []string{"gorduras_saturadas_g", "saturatedFat"}
	ingredientsKeys     = []string{"ingredientes", "ingredients"}
	accuracyWarningKeys = []string{"aviso_precisao", "accuracyWarning"}
)

// Normalizer turns raw scanner webhook bodies into AnalysisResults.
// It holds no state between calls.
type Normalizer struct {
	passes int
}

// NewNormalizer creates a normalizer that runs the given number of unwrap
// passes (at least one).
func NewNormalizer(passes int) *Normalizer {
	if passes < 1 {
		passes = 1
	}
	return &Normalizer{passes: passes}
}

// Normalize runs a single-pass normalizer over raw.
func Normalize(raw []byte) (*domain.AnalysisResult, error) {
	return NewNormalizer(1).Normalize(raw)
}

// Normalize unwraps the payload, checks that it carries nutrition data and
// coerces every numeric field. On failure it returns a
// *domain.MalformedResponseError holding the unwrapped payload.
func (n *Normalizer) Normalize(raw []byte) (*domain.AnalysisResult, error) {
	if !gjson.ValidBytes(raw) {
		quoted, _ := json.Marshal(string(raw))
		return nil, &domain.MalformedResponseError{
			Reason: "response body is not valid JSON",
			Raw:    quoted,
		}
	}

	candidate := gjson.ParseBytes(raw)
	for i := 0; i < n.passes; i++ {
		candidate = Unwrap(candidate)
	}

	if !hasNutritionData(candidate) {
		return nil, &domain.MalformedResponseError{
			Reason: "no calorie total or macro-nutrient data found",
			Raw:    rawPayload(candidate),
		}
	}

	return buildResult(candidate), nil
}

// hasNutritionData reports whether value exposes a calorie total or a macro-nutrient object.
func hasNutritionData(value gjson.Result) bool {
	if !value.IsObject() {
		return false
	}
	// "" and false count as missing, same as null
	if _, state := coerce(lookup(value, totalCaloriesKeys)); state != numberAbsent {
		return true
	}
	return lookup(value, macrosKeys).IsObject()
}

func buildResult(value gjson.Result) *domain.AnalysisResult {
	r := &fieldReader{}

	result := &domain.AnalysisResult{
		Description:     lookup(value, descriptionKeys).String(),
		TotalCalories:   r.number("totalCalories", lookup(value, totalCaloriesKeys)),
		AccuracyWarning: lookup(value, accuracyWarningKeys).String(),
	}

	macros := lookup(value, macrosKeys)
	result.Macros = domain.Macros{
		Protein: r.number("macros.protein", lookup(macros, proteinKeys)),
		Carbs:   r.number("macros.carbs", lookup(macros, carbsKeys)),
		Fats:    r.number("macros.fats", lookup(macros, fatsKeys)),
	}

	if details := lookup(value, detailsKeys); details.IsObject() {
		result.Details = &domain.Details{
			Fiber:        r.number("details.fiber", lookup(details, fiberKeys)),
			Sugar:        r.number("details.sugar", lookup(details, sugarKeys)),
			Sodium:       r.number("details.sodium", lookup(details, sodiumKeys)),
			SaturatedFat: r.number("details.saturatedFat", lookup(details, saturatedFatKeys)),
		}
	}

	if ingredients := lookup(value, ingredientsKeys); ingredients.IsArray() {
		for i, item := range ingredients.Array() {
			if !item.IsObject() {
				continue
			}
			prefix := fmt.Sprintf("ingredients[%d].", i)
			result.Ingredients = append(result.Ingredients, domain.Ingredient{
				Name:     item.Get("name").String(),
				Quantity: item.Get("quantity").String(),
				Calories: r.number(prefix+"calories", item.Get("calories")),
				Protein:  r.optionalNumber(prefix+"protein", item.Get("protein")),
				Carbs:    r.optionalNumber(prefix+"carbs", item.Get("carbs")),
				Fat:      r.optionalNumber(prefix+"fat", item.Get("fat")),
			})
		}
	}

	result.InvalidFields = r.invalid
	return result
}

// fieldReader coerces numbers and remembers which ones were unparseable.
type fieldReader struct {
	invalid []string
}

func (r *fieldReader) number(field string, value gjson.Result) float64 {
	n, state := coerce(value)
	if state == numberInvalid {
		r.invalid = append(r.invalid, field)
	}
	return n
}

func (r *fieldReader) optionalNumber(field string, value gjson.Result) *float64 {
	if !value.Exists() || value.Type == gjson.Null {
		return nil
	}
	n := r.number(field, value)
	return &n
}

// lookup returns the first of keys present on value with a non-null value.
func lookup(value gjson.Result, keys []string) gjson.Result {
	for _, key := range keys {
		if r := value.Get(key); r.Exists() && r.Type != gjson.Null {
			return r
		}
	}
	return gjson.Result{}
}

func rawPayload(value gjson.Result) json.RawMessage {
	if !value.Exists() {
		return json.RawMessage("null")
	}
	return json.RawMessage(value.Raw)
}
