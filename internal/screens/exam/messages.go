package exam

import (
	"time"

	engine "github.com/pathologix/emtrainer/internal/exam"
)

// examReadyMsg is sent when the session has been built and the first
// question loaded.
type examReadyMsg struct {
	Session *engine.Session
	Err     error
}

// advancedMsg is sent after the orchestrator consumed an attempt and
// loaded the next question (or completed).
type advancedMsg struct {
	Err error
}

// examSavedMsg is sent after the finished session has been persisted.
type examSavedMsg struct {
	Err error
}

// timerTickMsg drives the per-question countdown, one per second.
type timerTickMsg time.Time
