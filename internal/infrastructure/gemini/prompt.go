package gemini

import (
	"fmt"
	"strings"

	"github.com/deds0099/nexaapp/internal/domain"
)

// BuildPrompt renders the nutritionist prompt for a profile. The plan is
// requested in Brazilian Portuguese.
func BuildPrompt(profile domain.UserProfile) string {
	var b strings.Builder

	b.WriteString("Atue como um nutricionista esportivo e clínico de elite. Crie um plano alimentar diário personalizado.\n\n")

	b.WriteString("Perfil do Paciente:\n")
	fmt.Fprintf(&b, "- Idade: %d anos\n", profile.Age)
	fmt.Fprintf(&b, "- Gênero: %s\n", profile.Gender)
	fmt.Fprintf(&b, "- Altura: %s cm\n", formatMeasure(profile.Height))
	fmt.Fprintf(&b, "- Peso: %s kg\n", formatMeasure(profile.Weight))
	fmt.Fprintf(&b, "- Nível de Atividade: %s\n", profile.ActivityLevel)
	fmt.Fprintf(&b, "- Objetivo Principal: %s\n", profile.Goal)
	fmt.Fprintf(&b, "- Restrições Alimentares: %s\n", orDefault(profile.DietaryRestrictions, "Nenhuma"))
	fmt.Fprintf(&b, "- Alimentos Excluídos/Não gosta: %s\n\n", orDefault(profile.ExcludedFoods, "Nenhum"))

	b.WriteString("Requisitos:\n")
	b.WriteString("1. Calcule as calorias basais e o gasto energético total para atingir o objetivo (déficit para perda, superávit para ganho).\n")
	b.WriteString("2. Distribua os macronutrientes de forma equilibrada.\n")
	b.WriteString("3. Crie refeições variadas e práticas adaptadas ao paladar brasileiro.\n")
	b.WriteString("4. O output deve ser estritamente em Português do Brasil.\n")

	return b.String()
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return strings.TrimSpace(value)
}

// formatMeasure drops a trailing ".0" so 175 renders as "175" and 72.5 as "72.5".
func formatMeasure(v float64) string {
	return strings.TrimSuffix(fmt.Sprintf("%g", v), ".0")
}
