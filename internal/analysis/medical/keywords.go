package medical

// Category is the coarse topic label assigned to free text. It routes
// disclaimers and response templates downstream.
type Category string

const (
	CategoryEmergency     Category = "emergency"
	CategoryMedication    Category = "medication"
	CategorySymptom       Category = "symptom"
	CategoryCondition     Category = "condition"
	CategoryGeneralHealth Category = "general_health"
)

var emergencyKeywords = []string{
	"emergency", "urgent", "immediate", "severe", "serious", "dangerous",
	"chest pain", "difficulty breathing", "unconscious", "seizure",
}

var medicationKeywords = []string{
	"medication", "medicine", "drug", "pill", "tablet", "capsule", "injection",
	"prescription", "dosage", "side effect", "interaction", "allergy",
	"metformin", "aspirin", "ibuprofen", "acetaminophen", "antibiotic",
	"blood pressure", "diabetes", "cholesterol", "pain", "fever",
}

var symptomKeywords = []string{
	"symptom", "pain", "fever", "headache", "nausea", "dizziness", "fatigue",
	"cough", "sore throat", "rash", "swelling", "bleeding", "chest pain",
	"shortness of breath", "abdominal pain", "back pain",
}

var conditionKeywords = []string{
	"diabetes", "hypertension", "heart disease", "asthma", "arthritis",
	"depression", "anxiety", "cancer", "stroke", "kidney disease",
}

var generalHealthKeywords = []string{
	"health", "wellness", "nutrition", "exercise", "sleep", "stress",
	"prevention", "lifestyle", "diet", "fitness", "mental health",
}

// Context-extraction buckets. Shorter than the classifier lists on purpose:
// these name concrete things worth carrying between turns, not routing hints.
var (
	contextMedications = []string{
		"medication", "medicine", "drug", "pill", "tablet",
		"metformin", "aspirin", "ibuprofen",
	}
	contextSymptoms = []string{
		"symptom", "pain", "fever", "headache", "nausea", "dizziness",
	}
	contextConditions = []string{
		"diabetes", "hypertension", "heart disease", "asthma", "arthritis",
	}
	contextWarnings = []string{
		"side effect", "allergy", "interaction", "warning", "precaution",
	}
)
