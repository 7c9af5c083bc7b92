package scenario

import "testing"

func TestDomainForTopic(t *testing.T) {
	tests := []struct {
		topic string
		want  string
	}{
		{"Airway", DomainMedical},
		{"Respiratory", DomainMedical},
		{"Cardiology", DomainMedical},
		{"Toxicology", DomainMedical},
		{"Trauma", DomainTrauma},
		{"Burns", DomainTrauma},
		{"Abdominal injuries", DomainTrauma},
		{"head injury", DomainTrauma},
		{"Something else entirely", DomainMedical},
	}

	for _, tt := range tests {
		if got := DomainForTopic(tt.topic); got != tt.want {
			t.Errorf("DomainForTopic(%q) = %q, want %q", tt.topic, got, tt.want)
		}
	}
}
