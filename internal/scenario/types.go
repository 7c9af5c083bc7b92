package scenario

import "time"

// ChoiceID is the letter identifying an answer choice.
type ChoiceID string

const (
	ChoiceA ChoiceID = "A"
	ChoiceB ChoiceID = "B"
	ChoiceC ChoiceID = "C"
	ChoiceD ChoiceID = "D"
)

// ChoiceIDs is the required set of choice letters, in display order.
var ChoiceIDs = []ChoiceID{ChoiceA, ChoiceB, ChoiceC, ChoiceD}

// Cue is a verbatim excerpt of the vignette paired with the reason it
// matters clinically. The text must appear in the vignette as a
// case-insensitive substring so the UI can highlight it by exact match.
type Cue struct {
	Text      string `json:"text"`
	Rationale string `json:"rationale"`
}

// Choice is one of the four answer options.
type Choice struct {
	ID      ChoiceID `json:"id"`
	Text    string   `json:"text"`
	Correct bool     `json:"correct"`

	// WhyRight is present on the correct choice only.
	WhyRight string `json:"why_right,omitempty"`

	// WhyWrong is present on every incorrect choice.
	WhyWrong string `json:"why_wrong,omitempty"`
}

// ReasoningStep is one step of the worked clinical reasoning shown
// after the learner answers.
type ReasoningStep struct {
	Label  string `json:"label"`
	Detail string `json:"detail"`
}

// Scenario is a single NREMT-style practice item. Immutable once it
// has passed validation.
type Scenario struct {
	ID     string `json:"id"`
	Domain string `json:"domain"`
	Topic  string `json:"topic"`

	// Vignette is the patient narrative presented to the learner.
	Vignette string `json:"vignette"`

	// Cues are 3-5 verbatim excerpts of the vignette with rationales.
	Cues []Cue `json:"cues"`

	Question string `json:"question"`

	// Choices holds exactly 4 options with ids A-D, exactly one correct.
	Choices []Choice `json:"choices"`

	// ReasoningSteps holds at least 3 steps.
	ReasoningSteps []ReasoningStep `json:"reasoning_steps"`

	Tags []string `json:"tags"`

	// CreatedAt is set when the scenario is cached. Zero for items
	// that never went through the cache.
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// CorrectChoice returns the choice flagged correct, or nil if the
// scenario has not been validated.
func (s *Scenario) CorrectChoice() *Choice {
	for i := range s.Choices {
		if s.Choices[i].Correct {
			return &s.Choices[i]
		}
	}
	return nil
}

// ChoiceByID returns the choice with the given id, or nil.
func (s *Scenario) ChoiceByID(id ChoiceID) *Choice {
	for i := range s.Choices {
		if s.Choices[i].ID == id {
			return &s.Choices[i]
		}
	}
	return nil
}
