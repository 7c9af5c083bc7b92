package scenario

import "regexp"

// Domains used for item metadata. NREMT groups everything that is not
// trauma under the medical umbrella.
const (
	DomainMedical = "Medical"
	DomainTrauma  = "Trauma"
)

var (
	medicalPattern = regexp.MustCompile(`(?i)(airway|respiratory|cardio|endocrine|neuro|sepsis|obstetric|toxic)`)
	traumaPattern  = regexp.MustCompile(`(?i)(trauma|burn|spine|ortho|head|chest|abdominal)`)
)

// DomainForTopic classifies a free-form topic into an NREMT domain.
// Medical wins over Trauma when both match, and is the fallback.
func DomainForTopic(topic string) string {
	if medicalPattern.MatchString(topic) {
		return DomainMedical
	}
	if traumaPattern.MatchString(topic) {
		return DomainTrauma
	}
	return DomainMedical
}
