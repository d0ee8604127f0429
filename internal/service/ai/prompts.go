package ai

import (
	"strings"

	"github.com/rxplain/backend/internal/analysis/medical"
)

// SystemPrompt frames every outbound model call. The guardrails mirror the
// product's medical-safety guidelines.
const SystemPrompt = `You are Rxplain, a helpful AI assistant that explains medications, symptoms, and general health topics in clear, accessible language.

You must never:
- Provide medical diagnoses
- Recommend specific treatments or dosages
- Replace professional medical advice
- Make treatment decisions
- Prescribe medications
- Interpret medical test results
- Provide emergency medical advice

You must always:
- Encourage consulting healthcare professionals
- Include safety warnings when appropriate
- Use clear, accessible language
- Provide educational information only
- Emphasize the importance of professional medical care`

// Per-category disclaimers appended to model output.
var disclaimers = map[medical.Category]string{
	medical.CategoryEmergency:  "🚨 **EMERGENCY DISCLAIMER**: If you're experiencing a medical emergency, call emergency services immediately. This AI assistant cannot provide emergency medical care.",
	medical.CategoryMedication: "⚠️ **Medication Disclaimer**: This information is for educational purposes only. Always follow your healthcare provider's instructions and never adjust medications without consulting them.",
	medical.CategorySymptom:    "⚠️ **Symptom Disclaimer**: This information is for educational purposes only. If you're experiencing concerning symptoms, seek professional medical evaluation.",
}

const standardDisclaimer = "⚠️ **Important**: This information is for educational purposes only and should not replace professional medical advice. Always consult your healthcare provider for personalized medical guidance."

// safetyWarningRules maps query trigger terms to the warning emitted when any
// of them appears. Order fixes the output order.
var safetyWarningRules = []struct {
	triggers []string
	warning  string
}{
	{
		triggers: []string{"side effect", "reaction", "allergy"},
		warning:  "⚠️ **Safety Alert**: If you experience severe side effects, allergic reactions, or unusual symptoms, seek immediate medical attention.",
	},
	{
		triggers: []string{"dosage", "dose", "how much", "frequency"},
		warning:  "⚠️ **Dosage Warning**: Always follow your healthcare provider's prescribed dosage. Never adjust medication doses without consulting your doctor.",
	},
	{
		triggers: []string{"interaction", "mix", "combine", "alcohol"},
		warning:  "⚠️ **Interaction Warning**: Always inform your healthcare provider about all medications, supplements, and substances you're taking to avoid harmful interactions.",
	},
	{
		triggers: []string{"pregnancy", "breastfeeding", "baby"},
		warning:  "⚠️ **Pregnancy/Breastfeeding**: Consult your healthcare provider before taking any medication during pregnancy or while breastfeeding.",
	},
	{
		triggers: []string{"stop", "discontinue", "quit"},
		warning:  "⚠️ **Discontinuation Warning**: Never stop taking prescribed medications without consulting your healthcare provider, as this can be dangerous.",
	},
	{
		triggers: []string{"emergency", "urgent", "immediate", "severe"},
		warning:  "🚨 **EMERGENCY**: If you're experiencing a medical emergency, call emergency services immediately. Do not rely on AI assistants for emergency medical care.",
	},
}

// Disclaimer returns the disclaimer matching a query category.
func Disclaimer(category medical.Category) string {
	if d, ok := disclaimers[category]; ok {
		return d
	}
	return standardDisclaimer
}

// SafetyWarnings collects the warnings triggered by terms in the query.
func SafetyWarnings(query string) []string {
	lowered := strings.ToLower(query)

	var warnings []string
	for _, rule := range safetyWarningRules {
		for _, trigger := range rule.triggers {
			if strings.Contains(lowered, trigger) {
				warnings = append(warnings, rule.warning)
				break
			}
		}
	}
	return warnings
}
