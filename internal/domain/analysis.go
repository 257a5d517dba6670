package domain

// AnalysisResult is the normalized food-photo estimate returned by the scanner.
// Every number is finite and non-negative.
type AnalysisResult struct {
	Description     string       `json:"description"`
	TotalCalories   float64      `json:"totalCalories"`
	Macros          Macros       `json:"macros"`
	Details         *Details     `json:"details,omitempty"`
	Ingredients     []Ingredient `json:"ingredients,omitempty"`
	AccuracyWarning string       `json:"accuracyWarning,omitempty"`

	// InvalidFields lists fields that were present upstream but could not be
	// parsed as numbers; they are reported as zero.
	InvalidFields []string `json:"invalidFields,omitempty"`
}

// Macros contains the macronutrients in grams
type Macros struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fats    float64 `json:"fats"`
}

// Details contains the secondary nutrients
type Details struct {
	Fiber        float64 `json:"fiber"`        // grams
	Sugar        float64 `json:"sugar"`        // grams
	Sodium       float64 `json:"sodium"`       // milligrams
	SaturatedFat float64 `json:"saturatedFat"` // grams
}

// Ingredient is a single identified component of the photographed meal
type Ingredient struct {
	Name     string   `json:"name"`
	Quantity string   `json:"quantity"`
	Calories float64  `json:"calories"`
	Protein  *float64 `json:"protein,omitempty"`
	Carbs    *float64 `json:"carbs,omitempty"`
	Fat      *float64 `json:"fat,omitempty"`
}

// ImageUpload is a food photo submitted for analysis
type ImageUpload struct {
	Filename string
	Data     []byte
}
