package speech

// Recognizer is a speech-to-text engine. One capture runs at a time; events
// for a capture are delivered on the listener passed to Start until OnEnd.
type Recognizer interface {
	// Start begins a capture for the given locale.
	Start(locale string, l RecognitionListener) error

	// Stop requests the running capture to finish. The engine may still
	// deliver pending results before OnEnd.
	Stop()
}

// RecognitionListener receives engine events for one capture.
type RecognitionListener interface {
	// OnResult delivers a transcript fragment. Final fragments are part of
	// the captured text; non-final fragments are provisional and may be
	// replaced by later events.
	OnResult(text string, final bool)

	// OnError reports an engine failure. The capture is over.
	OnError(err error)

	// OnEnd reports that the engine stopped delivering events.
	OnEnd()
}

// Synthesizer is a text-to-speech engine.
type Synthesizer interface {
	Speak(text, locale string, rate float64) error
}
