package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/google/uuid"

	"github.com/Vovarama1992/indic_dubber/internal/language"
	"github.com/Vovarama1992/indic_dubber/internal/playback"
	"github.com/Vovarama1992/indic_dubber/internal/speech"
)

const (
	DefaultPrompt = "Hello! Welcome to our multilingual Indian language dubber. Type anything here and translate it."
	DemoNotice    = "Demo mode: audio generation is not wired to a provider yet. The backend returned a placeholder response."

	service = "dubber"
)

// Guard refusals. A refused action makes no network call and leaves the state untouched.
var (
	ErrEmptyText       = errors.New("nothing to translate")
	ErrBusy            = errors.New("another request is in flight")
	ErrNothingToSpeak  = errors.New("nothing to speak, translate first")
	ErrUnknownLanguage = errors.New("unknown language")
)

type Phase string

const (
	PhaseIdle         Phase = "idle"
	PhaseTranslating  Phase = "translating"
	PhaseSynthesizing Phase = "synthesizing"
	PhaseError        Phase = "error"
)

// State is a copy of the session for rendering.
type State struct {
	ID             string    `json:"id"`
	SourceText     string    `json:"text"`
	TargetCode     string    `json:"target_language"`
	TargetName     string    `json:"target_name"`
	TranslatedText string    `json:"translated"`
	Phase          Phase     `json:"phase"`
	Busy           bool      `json:"busy"`
	ErrorMessage   string    `json:"error"`
	Notice         string    `json:"notice"`
	CanTranslate   bool      `json:"can_translate"`
	CanSpeak       bool      `json:"can_speak"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Session owns the state of one user session and runs its actions.
//
// At most one backend call is in flight: the busy check and the transition
// happen under one lock, the call itself runs outside it. Edits are accepted
// while busy; if a result lands after an edit, the result wins.
type Session struct {
	mu        sync.Mutex
	id        string
	client    speech.Client
	player    playback.Player
	log       *logger.ZapLogger
	listeners []func(State)

	text       string
	target     string
	translated string
	phase      Phase
	errMsg     string
	notice     string
	updatedAt  time.Time
}

func New(client speech.Client, player playback.Player, log *logger.ZapLogger) *Session {
	return &Session{
		id:        uuid.New().String(),
		client:    client,
		player:    player,
		log:       log,
		text:      DefaultPrompt,
		target:    language.DefaultCode,
		phase:     PhaseIdle,
		updatedAt: time.Now(),
	}
}

// Subscribe registers fn to be called with a fresh State after every change.
// fn is called without the session lock held.
func (s *Session) Subscribe(fn func(State)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) SetSourceText(text string) {
	s.mu.Lock()
	s.text = text
	s.touchLocked()
	s.mu.Unlock()
	s.emit()
}

func (s *Session) SetTarget(code string) error {
	if !language.Valid(code) {
		return ErrUnknownLanguage
	}

	s.mu.Lock()
	s.target = code
	s.touchLocked()
	s.mu.Unlock()
	s.emit()
	return nil
}

// Translate sends the current text to the backend. It returns an error only
// when a guard refuses to start; backend failures end up in State.ErrorMessage.
func (s *Session) Translate(ctx context.Context) error {
	s.mu.Lock()
	if s.busyLocked() {
		s.mu.Unlock()
		return ErrBusy
	}
	if strings.TrimSpace(s.text) == "" {
		s.mu.Unlock()
		return ErrEmptyText
	}

	text, target := s.text, s.target
	s.phase = PhaseTranslating
	s.errMsg = ""
	s.notice = ""
	s.translated = ""
	s.touchLocked()
	s.mu.Unlock()
	s.emit()

	s.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "translate start session=" + s.id + " lang=" + target,
		Service: service,
	})

	out, err := s.client.Translate(ctx, text, target)

	s.mu.Lock()
	if err != nil {
		s.failLocked(err)
		s.translated = ""
	} else {
		s.translated = out
		s.errMsg = ""
		s.phase = PhaseIdle
	}
	s.touchLocked()
	s.mu.Unlock()
	s.emit()

	if err != nil {
		s.log.Log(logger.LogEntry{
			Level:   "warn",
			Message: "translate failed session=" + s.id,
			Service: service,
			Error:   err,
		})
		return nil
	}

	s.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "translate done session=" + s.id,
		Service: service,
	})
	return nil
}

// Synthesize asks the backend to voice the translated text. A returned url
// goes straight to the player; no url means the backend is in demo mode and
// the user gets DemoNotice instead of an error.
func (s *Session) Synthesize(ctx context.Context) error {
	s.mu.Lock()
	if s.busyLocked() {
		s.mu.Unlock()
		return ErrBusy
	}
	if s.translated == "" {
		s.mu.Unlock()
		return ErrNothingToSpeak
	}

	text, target := s.translated, s.target
	s.phase = PhaseSynthesizing
	s.errMsg = ""
	s.notice = ""
	s.touchLocked()
	s.mu.Unlock()
	s.emit()

	s.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "tts start session=" + s.id + " lang=" + target,
		Service: service,
	})

	url, err := s.client.Synthesize(ctx, text, target)
	if err == nil && url != "" {
		err = s.player.Play(ctx, url)
	}

	s.mu.Lock()
	switch {
	case err != nil:
		s.failLocked(err)
	case url == "":
		s.notice = DemoNotice
		s.phase = PhaseIdle
	default:
		s.phase = PhaseIdle
	}
	s.touchLocked()
	s.mu.Unlock()
	s.emit()

	switch {
	case err != nil:
		s.log.Log(logger.LogEntry{
			Level:   "warn",
			Message: "tts failed session=" + s.id,
			Service: service,
			Error:   err,
		})
	case url == "":
		s.log.Log(logger.LogEntry{
			Level:   "info",
			Message: "tts placeholder session=" + s.id,
			Service: service,
		})
	default:
		s.log.Log(logger.LogEntry{
			Level:   "info",
			Message: "tts playing session=" + s.id + " url=" + url,
			Service: service,
		})
	}
	return nil
}

func (s *Session) busyLocked() bool {
	return s.phase == PhaseTranslating || s.phase == PhaseSynthesizing
}

func (s *Session) failLocked(err error) {
	s.phase = PhaseError
	s.errMsg = err.Error()
}

func (s *Session) touchLocked() {
	s.updatedAt = time.Now()
}

func (s *Session) stateLocked() State {
	busy := s.busyLocked()
	return State{
		ID:             s.id,
		SourceText:     s.text,
		TargetCode:     s.target,
		TargetName:     language.Name(s.target),
		TranslatedText: s.translated,
		Phase:          s.phase,
		Busy:           busy,
		ErrorMessage:   s.errMsg,
		Notice:         s.notice,
		CanTranslate:   !busy && strings.TrimSpace(s.text) != "",
		CanSpeak:       !busy && s.translated != "",
		UpdatedAt:      s.updatedAt,
	}
}

func (s *Session) emit() {
	s.mu.Lock()
	if len(s.listeners) == 0 {
		s.mu.Unlock()
		return
	}
	st := s.stateLocked()
	ls := append([]func(State){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range ls {
		fn(st)
	}
}
