package medical

import "testing"

func TestClassifyEmergencyWinsOverMedication(t *testing.T) {
	got := Classify("severe reaction after taking aspirin, is this an emergency?")
	if got != CategoryEmergency {
		t.Fatalf("expected emergency, got %s", got)
	}
}

func TestClassifyMedication(t *testing.T) {
	if got := Classify("What is the usual dosage of metformin?"); got != CategoryMedication {
		t.Fatalf("expected medication, got %s", got)
	}
}

func TestClassifySymptom(t *testing.T) {
	if got := Classify("I keep getting a headache in the morning"); got != CategorySymptom {
		t.Fatalf("expected symptom, got %s", got)
	}
}

func TestClassifyCondition(t *testing.T) {
	if got := Classify("my mother has asthma"); got != CategoryCondition {
		t.Fatalf("expected condition, got %s", got)
	}
}

func TestClassifyDefaultsToGeneralHealth(t *testing.T) {
	if got := Classify("tell me a story about pirates"); got != CategoryGeneralHealth {
		t.Fatalf("expected general_health, got %s", got)
	}
}

func TestClassifyBlankText(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t"} {
		if got := Classify(text); got != CategoryGeneralHealth {
			t.Fatalf("blank %q: expected general_health, got %s", text, got)
		}
		if IsMedical(text) {
			t.Fatalf("blank %q unexpectedly medical", text)
		}
	}
}

func TestClassifyIsCaseInsensitive(t *testing.T) {
	if got := Classify("IS IBUPROFEN SAFE?"); got != CategoryMedication {
		t.Fatalf("expected medication, got %s", got)
	}
}

func TestIsMedical(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"any side effect of ibuprofen?", true},
		{"I have a fever", true},
		{"tips for better sleep", true},
		{"is this an emergency?", true},
		{"what's the weather like", false},
	}

	for _, tc := range cases {
		if got := IsMedical(tc.text); got != tc.want {
			t.Fatalf("IsMedical(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}
