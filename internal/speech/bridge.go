package speech

import (
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/windfall/lingo_practice/internal/errors"
)

// State is the bridge capture state.
type State int

const (
	StateIdle State = iota
	StateListening
)

// CaptureCallbacks receive the outcome of one capture. Any callback may be
// nil.
type CaptureCallbacks struct {
	// OnInterim delivers provisional transcript text while listening.
	OnInterim func(text string)

	// OnFinal delivers the captured text once the capture ends. Not called
	// when nothing was captured.
	OnFinal func(text string)

	// OnError reports an engine failure. OnFinal is not called afterwards.
	OnError func(err error)
}

// Bridge adapts the speech engines to the practice flow. It holds a single
// capture slot: starting a new capture while one is running cancels the old
// one, and events from a cancelled capture are dropped.
type Bridge struct {
	recognizer  Recognizer
	synthesizer Synthesizer
	locale      string
	rate        float64
	log         zerolog.Logger

	mu      sync.Mutex
	state   State
	gen     uint64
	final   string
	interim string
	cb      CaptureCallbacks
}

// NewBridge creates a bridge over the given engines. Either engine may be
// nil; the corresponding capability then reports unavailable.
func NewBridge(recognizer Recognizer, synthesizer Synthesizer, locale string, rate float64, log zerolog.Logger) *Bridge {
	return &Bridge{
		recognizer:  recognizer,
		synthesizer: synthesizer,
		locale:      locale,
		rate:        rate,
		log:         log,
	}
}

// CanListen reports whether speech recognition is available.
func (b *Bridge) CanListen() bool {
	return b.recognizer != nil
}

// CanSpeak reports whether speech synthesis is available.
func (b *Bridge) CanSpeak() bool {
	return b.synthesizer != nil
}

// State returns the current capture state.
func (b *Bridge) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// StartListening begins a capture. If a capture is already running it is
// cancelled first and the new one wins.
func (b *Bridge) StartListening(cb CaptureCallbacks) error {
	if b.recognizer == nil {
		return errors.Unsupported("speech recognition is not available")
	}

	b.mu.Lock()
	if b.state == StateListening {
		// Invalidate the running capture so its pending events are dropped.
		b.gen++
		b.state = StateIdle
		b.mu.Unlock()
		b.recognizer.Stop()
		b.mu.Lock()
	}
	b.gen++
	gen := b.gen
	b.state = StateListening
	b.final = ""
	b.interim = ""
	b.cb = cb
	b.mu.Unlock()

	if err := b.recognizer.Start(b.locale, &captureListener{bridge: b, gen: gen}); err != nil {
		b.mu.Lock()
		if b.gen == gen {
			b.state = StateIdle
		}
		b.mu.Unlock()
		return errors.InternalWrap("failed to start speech capture", err)
	}

	b.log.Debug().Str("locale", b.locale).Msg("Speech capture started")
	return nil
}

// StopListening asks the engine to finish the running capture. Pending
// results are still delivered through OnFinal. No-op when idle.
func (b *Bridge) StopListening() {
	b.mu.Lock()
	if b.state != StateListening {
		b.mu.Unlock()
		return
	}
	b.mu.Unlock()
	b.recognizer.Stop()
}

// Speak reads the text aloud with the configured locale and rate.
func (b *Bridge) Speak(text string) error {
	if b.synthesizer == nil {
		return errors.Unsupported("speech synthesis is not available")
	}
	if strings.TrimSpace(text) == "" {
		return errors.Validation("nothing to speak")
	}
	if err := b.synthesizer.Speak(text, b.locale, b.rate); err != nil {
		b.log.Warn().Err(err).Msg("Speech synthesis failed")
		return errors.InternalWrap("speech synthesis failed", err)
	}
	return nil
}

// captureListener routes engine events for one capture generation back into
// the bridge. Stale generations are dropped.
type captureListener struct {
	bridge *Bridge
	gen    uint64
}

func (l *captureListener) OnResult(text string, final bool) {
	b := l.bridge

	b.mu.Lock()
	if b.gen != l.gen || b.state != StateListening {
		b.mu.Unlock()
		return
	}
	var interimCb func(string)
	if final {
		if b.final != "" {
			b.final += " "
		}
		b.final += text
	} else {
		b.interim = text
		interimCb = b.cb.OnInterim
	}
	b.mu.Unlock()

	if interimCb != nil {
		interimCb(text)
	}
}

func (l *captureListener) OnError(err error) {
	b := l.bridge

	b.mu.Lock()
	if b.gen != l.gen || b.state != StateListening {
		b.mu.Unlock()
		return
	}
	// Invalidate so the engine's trailing OnEnd does not deliver a final.
	b.gen++
	b.state = StateIdle
	errorCb := b.cb.OnError
	b.mu.Unlock()

	b.log.Warn().Err(err).Msg("Speech capture failed")
	if errorCb != nil {
		errorCb(err)
	}
}

func (l *captureListener) OnEnd() {
	b := l.bridge

	b.mu.Lock()
	if b.gen != l.gen {
		b.mu.Unlock()
		return
	}
	b.state = StateIdle
	captured := b.final
	if captured == "" {
		// The engine ended before marking the last fragment final; keep
		// what was heard rather than dropping the attempt.
		captured = b.interim
	}
	finalCb := b.cb.OnFinal
	b.mu.Unlock()

	if captured != "" && finalCb != nil {
		finalCb(captured)
	}
}
