package speech

import (
	"sync"
)

// StubRecognizer is a manually driven recognizer for tests and terminal
// builds without a speech engine. The caller emits events through the Emit
// methods after Start.
type StubRecognizer struct {
	// StartErr, when set, is returned by Start.
	StartErr error

	mu       sync.Mutex
	listener RecognitionListener
	starts   int
	stops    int
}

func (r *StubRecognizer) Start(locale string, l RecognitionListener) error {
	if r.StartErr != nil {
		return r.StartErr
	}
	r.mu.Lock()
	r.listener = l
	r.starts++
	r.mu.Unlock()
	return nil
}

// Stop ends the active capture synchronously by emitting OnEnd.
func (r *StubRecognizer) Stop() {
	r.mu.Lock()
	r.stops++
	r.mu.Unlock()
	r.EmitEnd()
}

// EmitResult delivers a transcript fragment to the active capture.
func (r *StubRecognizer) EmitResult(text string, final bool) {
	if l := r.active(); l != nil {
		l.OnResult(text, final)
	}
}

// EmitError delivers an engine failure to the active capture.
func (r *StubRecognizer) EmitError(err error) {
	if l := r.active(); l != nil {
		l.OnError(err)
	}
}

// EmitEnd ends the active capture.
func (r *StubRecognizer) EmitEnd() {
	r.mu.Lock()
	l := r.listener
	r.listener = nil
	r.mu.Unlock()
	if l != nil {
		l.OnEnd()
	}
}

// Starts returns how many captures were started.
func (r *StubRecognizer) Starts() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.starts
}

// Stops returns how many times Stop was called.
func (r *StubRecognizer) Stops() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stops
}

func (r *StubRecognizer) active() RecognitionListener {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listener
}

// StubSynthesizer records spoken texts instead of producing audio.
type StubSynthesizer struct {
	// Err, when set, is returned by Speak.
	Err error

	mu     sync.Mutex
	spoken []string
}

func (s *StubSynthesizer) Speak(text, locale string, rate float64) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	s.spoken = append(s.spoken, text)
	s.mu.Unlock()
	return nil
}

// Spoken returns the texts passed to Speak, in order.
func (s *StubSynthesizer) Spoken() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.spoken))
	copy(out, s.spoken)
	return out
}
