package medical

import "strings"

// categoryChecks is the classification dispatch table. Order is the priority
// order; the first bucket with a hit wins.
var categoryChecks = []struct {
	category Category
	keywords []string
}{
	{CategoryEmergency, emergencyKeywords},
	{CategoryMedication, medicationKeywords},
	{CategorySymptom, symptomKeywords},
	{CategoryCondition, conditionKeywords},
}

// medicalChecks drives IsMedical. Condition terms that matter here (diabetes,
// blood pressure, pain) already appear in the medication list.
var medicalChecks = [][]string{
	emergencyKeywords,
	medicationKeywords,
	symptomKeywords,
	generalHealthKeywords,
}

// Classify maps free text to a coarse topic category by case-insensitive
// substring match. Unmatched or blank text falls through to general_health.
func Classify(text string) Category {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return CategoryGeneralHealth
	}

	for _, check := range categoryChecks {
		if containsAny(normalized, check.keywords) {
			return check.category
		}
	}
	return CategoryGeneralHealth
}

// IsMedical reports whether the text mentions any medical-relevant term.
// Blank text is never medical.
func IsMedical(text string) bool {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return false
	}

	for _, keywords := range medicalChecks {
		if containsAny(normalized, keywords) {
			return true
		}
	}
	return false
}

func containsAny(normalized string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(normalized, kw) {
			return true
		}
	}
	return false
}
