package practice

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/windfall/lingo_practice/internal/apiclient"
	"github.com/windfall/lingo_practice/internal/errors"
	"github.com/windfall/lingo_practice/internal/speech"
)

// API is the backend surface the practice flow needs. *apiclient.Client
// satisfies it.
type API interface {
	FetchSentences(ctx context.Context, scriptID, mode string) ([]apiclient.Sentence, error)
	SubmitTranslation(ctx context.Context, sentenceID, userTranslation string) (*apiclient.TranslationResult, error)
	SubmitPronunciation(ctx context.Context, practiceID, pronunciationText string) (*apiclient.PronunciationResult, error)
	SetModelTranslation(ctx context.Context, sentenceID, translation string) (bool, error)
}

// Speech is the capture and playback surface the flow needs.
// *speech.Bridge satisfies it.
type Speech interface {
	CanListen() bool
	CanSpeak() bool
	StartListening(cb speech.CaptureCallbacks) error
	StopListening()
	Speak(text string) error
}

// View renders flow state. Implementations must not call back into the
// controller from these methods.
type View interface {
	// ShowStage renders the session after a state change.
	ShowStage(s *Session)

	// ShowNotice surfaces a transient message, typically an error.
	ShowNotice(message string)

	// ShowInterim renders provisional capture text while listening.
	ShowInterim(text string)
}

// FlowController drives one practice session through its stages. All state
// lives in the session; the controller holds no per-sentence fields of its
// own, so any number of controllers can coexist on one page.
type FlowController struct {
	api    API
	speech Speech
	view   View
	log    zerolog.Logger

	mu       sync.Mutex
	session  *Session
	inFlight bool
}

// NewFlowController creates a controller. The session starts once Start is
// called.
func NewFlowController(api API, sp Speech, view View, log zerolog.Logger) *FlowController {
	return &FlowController{
		api:    api,
		speech: sp,
		view:   view,
		log:    log,
	}
}

// Session returns the active session, or nil before Start.
func (f *FlowController) Session() *Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session
}

// Start loads the script's sentences and opens the first translation stage.
// A blank script selection and an empty script are distinct failures; the
// session is only replaced on success.
func (f *FlowController) Start(ctx context.Context, scriptID, mode string) error {
	if strings.TrimSpace(scriptID) == "" {
		return f.fail(errors.Selection("select a script first"))
	}

	sentences, err := f.api.FetchSentences(ctx, scriptID, mode)
	if err != nil {
		return f.fail(err)
	}
	if len(sentences) == 0 {
		return f.fail(errors.EmptyScript("this script has no sentences to practice"))
	}

	f.mu.Lock()
	f.session = &Session{
		ScriptID:  scriptID,
		Mode:      mode,
		Sentences: sentences,
		Stage:     StageTranslationEntry,
	}
	s := f.session
	f.mu.Unlock()

	f.log.Info().Str("script_id", scriptID).Str("mode", mode).Int("sentences", len(sentences)).Msg("Practice session started")
	f.view.ShowStage(s)
	return nil
}

// SubmitTranslation scores the typed translation for the current sentence.
// Blank input is rejected locally and never reaches the network.
func (f *FlowController) SubmitTranslation(ctx context.Context, userTranslation string) error {
	if strings.TrimSpace(userTranslation) == "" {
		return f.fail(errors.Validation("please enter your translation"))
	}

	f.mu.Lock()
	if err := f.requireStage(StageTranslationEntry); err != nil {
		f.mu.Unlock()
		return f.fail(err)
	}
	if f.inFlight {
		f.mu.Unlock()
		return errors.Validation("a submission is already in progress")
	}
	sentence, _ := f.session.Current()
	sentenceID := sentence.ID
	f.inFlight = true
	f.mu.Unlock()

	result, err := f.api.SubmitTranslation(ctx, sentenceID, userTranslation)

	f.mu.Lock()
	f.inFlight = false
	if err != nil {
		f.mu.Unlock()
		return f.fail(err)
	}
	f.session.Attempt.Translation = result
	f.session.Stage = StageTranslationResult
	s := f.session
	f.mu.Unlock()

	f.view.ShowStage(s)
	return nil
}

// BeginPronunciation moves from the translation result to the pronunciation
// stage. The read-aloud target prefers the learner's own translation, then
// the model translation; an empty target does not block the stage.
func (f *FlowController) BeginPronunciation() error {
	f.mu.Lock()
	if err := f.requireStage(StageTranslationResult); err != nil {
		f.mu.Unlock()
		return f.fail(err)
	}
	attempt := &f.session.Attempt
	target := ""
	if tr := attempt.Translation; tr != nil {
		if strings.TrimSpace(tr.UserTranslation) != "" {
			target = tr.UserTranslation
		} else if strings.TrimSpace(tr.ModelTranslation) != "" {
			target = tr.ModelTranslation
		}
	}
	attempt.PronunciationTarget = target
	attempt.CaptureStatus = CaptureNotStarted
	attempt.CapturedText = ""
	f.session.Stage = StagePronunciationEntry
	s := f.session
	f.mu.Unlock()

	f.view.ShowStage(s)
	return nil
}

// StartCapture begins listening for the pronunciation attempt.
func (f *FlowController) StartCapture() error {
	if !f.speech.CanListen() {
		return f.fail(errors.Unsupported("speech recognition is not available"))
	}

	f.mu.Lock()
	if err := f.requireStage(StagePronunciationEntry); err != nil {
		f.mu.Unlock()
		return f.fail(err)
	}
	f.session.Attempt.CaptureStatus = CaptureInProgress
	f.session.Attempt.CapturedText = ""
	s := f.session
	f.mu.Unlock()

	f.view.ShowStage(s)

	err := f.speech.StartListening(speech.CaptureCallbacks{
		OnInterim: f.view.ShowInterim,
		OnFinal:   f.captureFinished,
		OnError:   f.captureFailed,
	})
	if err != nil {
		f.mu.Lock()
		if f.session != nil && f.session.Stage == StagePronunciationEntry {
			f.session.Attempt.CaptureStatus = CaptureFailed
		}
		f.mu.Unlock()
		return f.fail(err)
	}
	return nil
}

// StopCapture ends the running capture. No-op when nothing is being
// captured.
func (f *FlowController) StopCapture() {
	f.mu.Lock()
	active := f.session != nil &&
		f.session.Stage == StagePronunciationEntry &&
		f.session.Attempt.CaptureStatus == CaptureInProgress
	f.mu.Unlock()

	if active {
		f.speech.StopListening()
	}
}

// PlayTarget reads the pronunciation target aloud. Playback failures are
// surfaced as notices and never change the session state.
func (f *FlowController) PlayTarget() error {
	f.mu.Lock()
	if err := f.requireStage(StagePronunciationEntry); err != nil {
		f.mu.Unlock()
		return f.fail(err)
	}
	target := f.session.Attempt.PronunciationTarget
	f.mu.Unlock()

	if err := f.speech.Speak(target); err != nil {
		return f.fail(err)
	}
	return nil
}

// SubmitPronunciation scores the captured speech. Without a completed
// capture the submission is rejected locally.
func (f *FlowController) SubmitPronunciation(ctx context.Context) error {
	f.mu.Lock()
	if err := f.requireStage(StagePronunciationEntry); err != nil {
		f.mu.Unlock()
		return f.fail(err)
	}
	attempt := &f.session.Attempt
	if attempt.CaptureStatus != CaptureCaptured || strings.TrimSpace(attempt.CapturedText) == "" {
		f.mu.Unlock()
		return f.fail(errors.EmptyCapture("no speech captured yet, record your pronunciation first"))
	}
	if f.inFlight {
		f.mu.Unlock()
		return errors.Validation("a submission is already in progress")
	}
	practiceID := attempt.Translation.PracticeID
	capturedText := attempt.CapturedText
	f.inFlight = true
	f.mu.Unlock()

	result, err := f.api.SubmitPronunciation(ctx, practiceID, capturedText)

	f.mu.Lock()
	f.inFlight = false
	if err != nil {
		f.mu.Unlock()
		return f.fail(err)
	}
	f.session.Attempt.Pronunciation = result
	f.session.Stage = StagePronunciationResult
	s := f.session
	f.mu.Unlock()

	f.view.ShowStage(s)
	return nil
}

// Next advances to the following sentence, or completes the session after
// the last one. The per-sentence attempt state is cleared; the index only
// ever moves forward.
func (f *FlowController) Next() error {
	f.mu.Lock()
	if f.session == nil {
		f.mu.Unlock()
		return f.fail(errors.Selection("no practice session is active"))
	}
	if f.session.Stage == StageCompleted {
		f.mu.Unlock()
		return f.fail(errors.Validation("practice is already complete"))
	}
	if f.session.Stage != StageTranslationResult && f.session.Stage != StagePronunciationResult {
		f.mu.Unlock()
		return f.fail(errors.Validation("finish the current step first"))
	}
	f.session.CurrentIndex++
	f.session.Attempt = Attempt{}
	if f.session.CurrentIndex >= len(f.session.Sentences) {
		f.session.Stage = StageCompleted
	} else {
		f.session.Stage = StageTranslationEntry
	}
	s := f.session
	f.mu.Unlock()

	f.view.ShowStage(s)
	return nil
}

// AddModelTranslation saves a reference translation for the current
// sentence and folds it into the session so later stages see it.
func (f *FlowController) AddModelTranslation(ctx context.Context, translation string) error {
	if strings.TrimSpace(translation) == "" {
		return f.fail(errors.Validation("model translation cannot be empty"))
	}

	f.mu.Lock()
	if f.session == nil {
		f.mu.Unlock()
		return f.fail(errors.Selection("no practice session is active"))
	}
	sentence, ok := f.session.Current()
	if !ok {
		f.mu.Unlock()
		return f.fail(errors.Validation("practice is already complete"))
	}
	sentenceID := sentence.ID
	f.mu.Unlock()

	if _, err := f.api.SetModelTranslation(ctx, sentenceID, translation); err != nil {
		return f.fail(err)
	}

	f.mu.Lock()
	if sentence, ok := f.session.Current(); ok && sentence.ID == sentenceID {
		sentence.ModelTranslation = translation
	}
	if tr := f.session.Attempt.Translation; tr != nil {
		tr.ModelTranslation = translation
	}
	s := f.session
	f.mu.Unlock()

	f.view.ShowNotice("model translation saved")
	f.view.ShowStage(s)
	return nil
}

// captureFinished records a successful capture.
func (f *FlowController) captureFinished(text string) {
	f.mu.Lock()
	if f.session == nil || f.session.Stage != StagePronunciationEntry {
		f.mu.Unlock()
		return
	}
	f.session.Attempt.CapturedText = text
	f.session.Attempt.CaptureStatus = CaptureCaptured
	s := f.session
	f.mu.Unlock()

	f.view.ShowStage(s)
}

// captureFailed marks the capture failed and surfaces the engine error.
func (f *FlowController) captureFailed(err error) {
	f.mu.Lock()
	if f.session != nil && f.session.Stage == StagePronunciationEntry {
		f.session.Attempt.CaptureStatus = CaptureFailed
	}
	f.mu.Unlock()

	f.log.Warn().Err(err).Msg("Speech capture failed")
	f.view.ShowNotice("speech recognition error: " + err.Error())
}

// requireStage validates the session stage. Callers hold the lock.
func (f *FlowController) requireStage(stage Stage) error {
	if f.session == nil {
		return errors.Selection("no practice session is active")
	}
	if f.session.Stage == StageCompleted {
		return errors.Validation("practice is already complete")
	}
	if f.session.Stage != stage {
		return errors.Validation("this action is not available right now")
	}
	return nil
}

// fail surfaces the error to the view and returns it.
func (f *FlowController) fail(err error) error {
	msg := err.Error()
	if appErr, ok := err.(*errors.AppError); ok {
		msg = appErr.Message
	}
	f.view.ShowNotice(msg)
	return err
}
