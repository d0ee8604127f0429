package medical

import (
	"sort"
	"strings"

	"github.com/rxplain/backend/internal/model/chat"
)

// topicPrefixLimit bounds the stored snippet of the last medical message.
const topicPrefixLimit = 100

// Context field names as they appear in conversation medical context and in
// API responses.
const (
	KeyMedications = "medications_mentioned"
	KeySymptoms    = "symptoms_discussed"
	KeyConditions  = "conditions_referenced"
	KeyWarnings    = "safety_warnings_given"
	KeyLastTopic   = "last_medical_topic"
)

// ExtractContext scans messages in order and aggregates mentioned
// medications, symptoms, conditions and warning topics into deduplicated,
// sorted lists. The last message flagged as a medical query contributes a
// bounded snippet as the running topic. Pure: same input, same output.
func ExtractContext(messages []chat.Message) chat.MedicalContext {
	medications := map[string]struct{}{}
	symptoms := map[string]struct{}{}
	conditions := map[string]struct{}{}
	warnings := map[string]struct{}{}
	lastTopic := ""

	for _, msg := range messages {
		content := strings.ToLower(msg.Content)

		collect(content, contextMedications, medications)
		collect(content, contextSymptoms, symptoms)
		collect(content, contextConditions, conditions)
		collect(content, contextWarnings, warnings)

		if msg.IsMedicalQuery {
			lastTopic = topicPrefix(msg.Content)
		}
	}

	return chat.MedicalContext{
		KeyMedications: sorted(medications),
		KeySymptoms:    sorted(symptoms),
		KeyConditions:  sorted(conditions),
		KeyWarnings:    sorted(warnings),
		KeyLastTopic:   lastTopic,
	}
}

func collect(content string, keywords []string, into map[string]struct{}) {
	for _, kw := range keywords {
		if strings.Contains(content, kw) {
			into[kw] = struct{}{}
		}
	}
}

func sorted(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for kw := range set {
		out = append(out, kw)
	}
	sort.Strings(out)
	return out
}

func topicPrefix(content string) string {
	runes := []rune(content)
	if len(runes) <= topicPrefixLimit {
		return content
	}
	return string(runes[:topicPrefixLimit])
}
