package domain

import (
	"fmt"
	"strings"
	"time"
)

// Gender of the person the plan is generated for
type Gender string

const (
	GenderMale   Gender = "Masculino"
	GenderFemale Gender = "Feminino"
	GenderOther  Gender = "Outro"
)

// ActivityLevel describes weekly physical activity
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "Sedentário (pouco ou nenhum exercício)"
	ActivityLight      ActivityLevel = "Leve (exercício 1-3 dias/semana)"
	ActivityModerate   ActivityLevel = "Moderado (exercício 3-5 dias/semana)"
	ActivityActive     ActivityLevel = "Ativo (exercício 6-7 dias/semana)"
	ActivityVeryActive ActivityLevel = "Muito Ativo (exercício físico intenso/trabalho físico)"
)

// Goal is the main objective of the diet
type Goal string

const (
	GoalLoseWeight Goal = "Perder Peso"
	GoalMaintain   Goal = "Manter Peso"
	GoalGainMuscle Goal = "Ganhar Massa Muscular"
)

var (
	validGenders    = []Gender{GenderMale, GenderFemale, GenderOther}
	validActivities = []ActivityLevel{ActivitySedentary, ActivityLight, ActivityModerate, ActivityActive, ActivityVeryActive}
	validGoals      = []Goal{GoalLoseWeight, GoalMaintain, GoalGainMuscle}
)

// UserProfile is the data collected by the multi-step form
type UserProfile struct {
	Age                 int           `json:"age" binding:"required,gt=0,lte=120"`
	Gender              Gender        `json:"gender" binding:"required"`
	Height              float64       `json:"height" binding:"required,gt=0"` // cm
	Weight              float64       `json:"weight" binding:"required,gt=0"` // kg
	ActivityLevel       ActivityLevel `json:"activityLevel" binding:"required"`
	Goal                Goal          `json:"goal" binding:"required"`
	DietaryRestrictions string        `json:"dietaryRestrictions"`
	ExcludedFoods       string        `json:"excludedFoods"`
}

// Validate checks ranges and enumerations that binding tags cannot express.
func (p *UserProfile) Validate() error {
	if p.Age <= 0 || p.Age > 120 {
		return fmt.Errorf("%w: age must be between 1 and 120", ErrInvalidRequest)
	}
	if p.Height <= 0 || p.Weight <= 0 {
		return fmt.Errorf("%w: height and weight must be positive", ErrInvalidRequest)
	}
	if !contains(validGenders, p.Gender) {
		return fmt.Errorf("%w: unknown gender %q", ErrInvalidRequest, p.Gender)
	}
	if !contains(validActivities, p.ActivityLevel) {
		return fmt.Errorf("%w: unknown activity level %q", ErrInvalidRequest, p.ActivityLevel)
	}
	if !contains(validGoals, p.Goal) {
		return fmt.Errorf("%w: unknown goal %q", ErrInvalidRequest, p.Goal)
	}
	return nil
}

// Normalized returns a copy with free-text fields trimmed and lowercased.
func (p UserProfile) Normalized() UserProfile {
	p.DietaryRestrictions = strings.ToLower(strings.TrimSpace(p.DietaryRestrictions))
	p.ExcludedFoods = strings.ToLower(strings.TrimSpace(p.ExcludedFoods))
	return p
}

func contains[T comparable](values []T, v T) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// MacroNutrients in grams
type MacroNutrients struct {
	Protein float64 `json:"protein" validate:"gte=0"`
	Carbs   float64 `json:"carbs" validate:"gte=0"`
	Fats    float64 `json:"fats" validate:"gte=0"`
}

// MealItem is a food with its portion
type MealItem struct {
	Name    string `json:"name" validate:"required"`
	Portion string `json:"portion" validate:"required"`
}

// Meal is one meal of the day (breakfast, lunch...)
type Meal struct {
	Name     string         `json:"name" validate:"required"`
	Time     string         `json:"time" validate:"required"`
	Items    []MealItem     `json:"items" validate:"required,min=1,dive"`
	Calories float64        `json:"calories" validate:"gte=0"`
	Macros   MacroNutrients `json:"macros"`
	Tips     string         `json:"tips"`
}

// DietPlan is a generated daily meal plan
type DietPlan struct {
	TotalCalories float64        `json:"totalCalories" validate:"gt=0"`
	DailyMacros   MacroNutrients `json:"dailyMacros"`
	Meals         []Meal         `json:"meals" validate:"required,min=1,dive"`
	WaterIntake   float64        `json:"waterIntake" validate:"gte=0"` // liters
	Summary       string         `json:"summary"`
}

// SavedDiet is a plan stored in the user's history together with the profile it was generated for
type SavedDiet struct {
	ID              string      `json:"id"`
	UserID          string      `json:"userId"`
	Date            time.Time   `json:"date"`
	Plan            DietPlan    `json:"plan"`
	ProfileSnapshot UserProfile `json:"profileSnapshot"`
}
