package scenario

import (
	"fmt"
	"strings"
)

const (
	// MinVignetteLength is the minimum vignette length in characters.
	MinVignetteLength = 40

	// MinCues and MaxCues bound the cue count.
	MinCues = 3
	MaxCues = 5

	// ChoiceCount is the required number of answer choices.
	ChoiceCount = 4

	// MinReasoningSteps is the minimum number of reasoning steps.
	MinReasoningSteps = 3
)

// Validate checks a candidate scenario against the structural contract,
// in a fixed order, stopping at the first violation. It is pure: no
// side effects, and the same input always yields the same result.
//
// The same gate applies to machine-generated items before caching and
// to hand-authored items entering the pipeline.
func Validate(s *Scenario) *ValidationError {
	if err := validatePresence(s); err != nil {
		return err
	}
	if len(s.Vignette) < MinVignetteLength {
		return &ValidationError{
			Field:   "vignette",
			Message: fmt.Sprintf("must be at least %d characters, got %d", MinVignetteLength, len(s.Vignette)),
		}
	}
	if err := validateCues(s.Cues); err != nil {
		return err
	}
	if strings.TrimSpace(s.Question) == "" {
		return &ValidationError{Field: "question", Message: "must be a non-empty string"}
	}
	if err := validateChoiceSet(s.Choices); err != nil {
		return err
	}
	if err := validateCorrectness(s.Choices); err != nil {
		return err
	}
	if err := validateExplanations(s.Choices); err != nil {
		return err
	}
	if err := validateReasoningSteps(s.ReasoningSteps); err != nil {
		return err
	}
	return validateCueAnchoring(s.Vignette, s.Cues)
}

func validatePresence(s *Scenario) *ValidationError {
	switch {
	case s.Vignette == "":
		return &ValidationError{Field: "vignette", Message: "missing"}
	case s.Cues == nil:
		return &ValidationError{Field: "cues", Message: "missing"}
	case s.Question == "":
		return &ValidationError{Field: "question", Message: "missing"}
	case s.Choices == nil:
		return &ValidationError{Field: "choices", Message: "missing"}
	case s.ReasoningSteps == nil:
		return &ValidationError{Field: "reasoning_steps", Message: "missing"}
	}
	return nil
}

func validateCues(cues []Cue) *ValidationError {
	if len(cues) < MinCues || len(cues) > MaxCues {
		return &ValidationError{
			Field:   "cues",
			Message: fmt.Sprintf("need %d-%d cues, got %d", MinCues, MaxCues, len(cues)),
		}
	}
	for i, c := range cues {
		if strings.TrimSpace(c.Text) == "" {
			return &ValidationError{Field: fmt.Sprintf("cues[%d].text", i), Message: "missing"}
		}
		if strings.TrimSpace(c.Rationale) == "" {
			return &ValidationError{Field: fmt.Sprintf("cues[%d].rationale", i), Message: "missing"}
		}
	}
	return nil
}

func validateChoiceSet(choices []Choice) *ValidationError {
	if len(choices) != ChoiceCount {
		return &ValidationError{
			Field:   "choices",
			Message: fmt.Sprintf("need exactly %d choices, got %d", ChoiceCount, len(choices)),
		}
	}
	seen := make(map[ChoiceID]bool, ChoiceCount)
	for _, c := range choices {
		if seen[c.ID] {
			return &ValidationError{Field: "choices", Message: fmt.Sprintf("duplicate choice id %q", c.ID)}
		}
		seen[c.ID] = true
	}
	for _, id := range ChoiceIDs {
		if !seen[id] {
			return &ValidationError{Field: "choices", Message: fmt.Sprintf("missing choice id %q", id)}
		}
	}
	return nil
}

func validateCorrectness(choices []Choice) *ValidationError {
	correct := 0
	for _, c := range choices {
		if c.Correct {
			correct++
		}
	}
	if correct != 1 {
		return &ValidationError{
			Field:   "choices",
			Message: fmt.Sprintf("exactly one choice must be correct, got %d", correct),
		}
	}
	return nil
}

func validateExplanations(choices []Choice) *ValidationError {
	for _, c := range choices {
		if c.Correct && strings.TrimSpace(c.WhyRight) == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("choices[%s].why_right", c.ID),
				Message: "correct choice must explain why it is right",
			}
		}
		if !c.Correct && strings.TrimSpace(c.WhyWrong) == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("choices[%s].why_wrong", c.ID),
				Message: "incorrect choice must explain why it is wrong",
			}
		}
	}
	return nil
}

func validateReasoningSteps(steps []ReasoningStep) *ValidationError {
	if len(steps) < MinReasoningSteps {
		return &ValidationError{
			Field:   "reasoning_steps",
			Message: fmt.Sprintf("need at least %d steps, got %d", MinReasoningSteps, len(steps)),
		}
	}
	for i, st := range steps {
		if strings.TrimSpace(st.Label) == "" {
			return &ValidationError{Field: fmt.Sprintf("reasoning_steps[%d].label", i), Message: "missing"}
		}
		if strings.TrimSpace(st.Detail) == "" {
			return &ValidationError{Field: fmt.Sprintf("reasoning_steps[%d].detail", i), Message: "missing"}
		}
	}
	return nil
}

// validateCueAnchoring enforces the verbatim-quoting contract: every
// cue text must occur in the vignette as a case-insensitive substring,
// otherwise downstream highlighting cannot locate it.
func validateCueAnchoring(vignette string, cues []Cue) *ValidationError {
	lower := strings.ToLower(vignette)
	for i, c := range cues {
		if !strings.Contains(lower, strings.ToLower(c.Text)) {
			return &ValidationError{
				Field:   fmt.Sprintf("cues[%d].text", i),
				Message: fmt.Sprintf("%q does not appear verbatim in the vignette", c.Text),
			}
		}
	}
	return nil
}
