package gemini

// Response schema sent with every request so the model answers with a DietPlan document.
var (
	macrosSchema = map[string]any{
		"type": "OBJECT",
		"properties": map[string]any{
			"protein": map[string]any{"type": "NUMBER", "description": "Total protein in grams"},
			"carbs":   map[string]any{"type": "NUMBER", "description": "Total carbs in grams"},
			"fats":    map[string]any{"type": "NUMBER", "description": "Total fats in grams"},
		},
		"required": []string{"protein", "carbs", "fats"},
	}

	mealItemSchema = map[string]any{
		"type": "OBJECT",
		"properties": map[string]any{
			"name":    map[string]any{"type": "STRING", "description": "Name of food item"},
			"portion": map[string]any{"type": "STRING", "description": "Portion size (e.g., 2 ovos, 100g de frango)"},
		},
		"required": []string{"name", "portion"},
	}

	mealSchema = map[string]any{
		"type": "OBJECT",
		"properties": map[string]any{
			"name":     map[string]any{"type": "STRING", "description": "Name of the meal (e.g., Café da Manhã)"},
			"time":     map[string]any{"type": "STRING", "description": "Suggested time (e.g., 08:00)"},
			"calories": map[string]any{"type": "NUMBER", "description": "Calories for this meal"},
			"tips":     map[string]any{"type": "STRING", "description": "Preparation tip or benefit"},
			"macros":   macrosSchema,
			"items":    map[string]any{"type": "ARRAY", "items": mealItemSchema},
		},
		"required": []string{"name", "time", "items", "calories", "macros", "tips"},
	}

	dietPlanSchema = map[string]any{
		"type": "OBJECT",
		"properties": map[string]any{
			"totalCalories": map[string]any{"type": "NUMBER", "description": "Total daily calories target"},
			"waterIntake":   map[string]any{"type": "NUMBER", "description": "Recommended daily water intake in liters"},
			"summary":       map[string]any{"type": "STRING", "description": "A brief motivational summary of the plan (max 2 sentences)"},
			"dailyMacros":   macrosSchema,
			"meals":         map[string]any{"type": "ARRAY", "items": mealSchema},
		},
		"required": []string{"totalCalories", "waterIntake", "summary", "dailyMacros", "meals"},
	}
)
