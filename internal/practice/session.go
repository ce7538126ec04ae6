package practice

import (
	"github.com/windfall/lingo_practice/internal/apiclient"
)

// Stage is the position in the practice loop for the current sentence.
type Stage int

const (
	StageSetup Stage = iota
	StageTranslationEntry
	StageTranslationResult
	StagePronunciationEntry
	StagePronunciationResult
	StageCompleted
)

func (s Stage) String() string {
	switch s {
	case StageSetup:
		return "setup"
	case StageTranslationEntry:
		return "translation_entry"
	case StageTranslationResult:
		return "translation_result"
	case StagePronunciationEntry:
		return "pronunciation_entry"
	case StagePronunciationResult:
		return "pronunciation_result"
	case StageCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// CaptureStatus tracks the speech capture for the current pronunciation
// attempt. A capture that produced no usable text is Failed, never Captured
// with empty text.
type CaptureStatus int

const (
	CaptureNotStarted CaptureStatus = iota
	CaptureInProgress
	CaptureCaptured
	CaptureFailed
)

func (c CaptureStatus) String() string {
	switch c {
	case CaptureNotStarted:
		return "not_started"
	case CaptureInProgress:
		return "in_progress"
	case CaptureCaptured:
		return "captured"
	case CaptureFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Attempt holds the per-sentence working state. It is reset whenever the
// session advances to the next sentence.
type Attempt struct {
	Translation   *apiclient.TranslationResult
	Pronunciation *apiclient.PronunciationResult

	// PronunciationTarget is the text the learner is asked to read aloud.
	// May be empty when no translation is available; that never blocks the
	// pronunciation stage.
	PronunciationTarget string

	CaptureStatus CaptureStatus
	CapturedText  string
}

// Session is the state of one practice run over a script's sentences.
// CurrentIndex stays within [0, len(Sentences)]; it equals len(Sentences)
// exactly when the session is completed.
type Session struct {
	ScriptID string
	Mode     string

	Sentences    []apiclient.Sentence
	CurrentIndex int

	Stage   Stage
	Attempt Attempt
}

// Current returns the sentence being practiced, or false when the session
// is completed.
func (s *Session) Current() (*apiclient.Sentence, bool) {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Sentences) {
		return nil, false
	}
	return &s.Sentences[s.CurrentIndex], true
}

// Remaining returns how many sentences are left, the current one included.
func (s *Session) Remaining() int {
	if s.CurrentIndex >= len(s.Sentences) {
		return 0
	}
	return len(s.Sentences) - s.CurrentIndex
}

// Completed reports whether every sentence has been practiced.
func (s *Session) Completed() bool {
	return s.Stage == StageCompleted
}
