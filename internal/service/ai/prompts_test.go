package ai

import (
	"strings"
	"testing"

	"github.com/rxplain/backend/internal/analysis/medical"
)

func TestSafetyWarningsTriggered(t *testing.T) {
	warnings := SafetyWarnings("can I mix ibuprofen with alcohol during pregnancy?")

	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %d: %v", len(warnings), warnings)
	}
	if !strings.Contains(warnings[0], "Interaction Warning") {
		t.Fatalf("expected interaction warning first, got %q", warnings[0])
	}
	if !strings.Contains(warnings[1], "Pregnancy") {
		t.Fatalf("expected pregnancy warning second, got %q", warnings[1])
	}
}

func TestSafetyWarningsNoneForBenignQuery(t *testing.T) {
	if warnings := SafetyWarnings("what is aspirin?"); len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", warnings)
	}
}

func TestDisclaimerPerCategory(t *testing.T) {
	if d := Disclaimer(medical.CategoryEmergency); !strings.Contains(d, "EMERGENCY") {
		t.Fatalf("unexpected emergency disclaimer: %q", d)
	}
	if d := Disclaimer(medical.CategoryMedication); !strings.Contains(d, "Medication Disclaimer") {
		t.Fatalf("unexpected medication disclaimer: %q", d)
	}
	if d := Disclaimer(medical.CategoryGeneralHealth); d != standardDisclaimer {
		t.Fatalf("expected standard disclaimer for general_health, got %q", d)
	}
	if d := Disclaimer(medical.CategoryCondition); d != standardDisclaimer {
		t.Fatalf("expected standard disclaimer for condition, got %q", d)
	}
}

func TestFormatResponseAddsWarningsAndDisclaimer(t *testing.T) {
	svc := NewService(nil, Config{SafetyWarningsEnabled: true, DisclaimersEnabled: true})

	got := svc.FormatResponse("Take it with food.", "what dosage of metformin?", medical.CategoryMedication)

	if !strings.HasPrefix(got, "⚠️ **Dosage Warning**") {
		t.Fatalf("expected dosage warning prefix, got %q", got)
	}
	if !strings.Contains(got, "Take it with food.") {
		t.Fatalf("original reply lost: %q", got)
	}
	if !strings.HasSuffix(got, Disclaimer(medical.CategoryMedication)) {
		t.Fatalf("expected medication disclaimer suffix, got %q", got)
	}
}

func TestFormatResponseDoesNotDuplicateDisclaimer(t *testing.T) {
	svc := NewService(nil, Config{DisclaimersEnabled: true})

	reply := "Some answer.\n\n" + Disclaimer(medical.CategorySymptom)
	got := svc.FormatResponse(reply, "I have a headache", medical.CategorySymptom)

	if strings.Count(got, Disclaimer(medical.CategorySymptom)) != 1 {
		t.Fatalf("disclaimer duplicated: %q", got)
	}
}

func TestFormatResponseRespectsToggles(t *testing.T) {
	svc := NewService(nil, Config{})

	reply := "Plain answer."
	if got := svc.FormatResponse(reply, "what dosage?", medical.CategoryMedication); got != reply {
		t.Fatalf("expected untouched reply with toggles off, got %q", got)
	}
}
