package scenario

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are an EMT exam item writer following NREMT style.

Rules:
- Write ONE realistic patient vignette as a single concise paragraph, 75-140 words.
- Produce 3-5 cues. Each cue text MUST be an exact phrase copied verbatim from your vignette; pick the phrases first, then write the rationale for each.
- Ask one question in exam phrasing ("What is the MOST appropriate..." / "What is the MOST likely...").
- Provide EXACTLY 4 choices with ids "A", "B", "C", "D". Exactly one has "correct": true. The correct choice carries "why_right"; every incorrect choice carries "why_wrong".
- Provide at least 3 reasoning steps, each with a short label and a detail sentence.
- Keep exam tone: assessment and priority decisions, no protocols by brand name.
- Difficulty: hard. Two choices should be close enough to force critical thinking.
- Return JSON only, matching the requested schema.`

// buildUserMessage constructs the generation request for a topic.
func buildUserMessage(topic string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n", topic)
	fmt.Fprintf(&b, "Domain: %s\n", DomainForTopic(topic))
	b.WriteString("\nGenerate one NREMT-style multiple-choice scenario for this topic.\n")
	b.WriteString("Remember: every cue text must appear verbatim in the vignette.\n")
	return b.String()
}
