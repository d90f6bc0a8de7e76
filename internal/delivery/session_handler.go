package delivery

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/Vovarama1992/indic_dubber/internal/language"
	"github.com/Vovarama1992/indic_dubber/internal/session"
)

type sessionView struct {
	session.State
	AudioURL string `json:"audio_url,omitempty"`
}

// GET /api/languages
func (h *Handler) Languages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, language.All())
}

// GET /api/session
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.view())
}

// PUT /api/session
func (h *Handler) UpdateSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text           *string `json:"text"`
		TargetLanguage *string `json:"target_language"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	if body.TargetLanguage != nil {
		if err := h.sess.SetTarget(*body.TargetLanguage); err != nil {
			http.Error(w, "unknown target_language", http.StatusBadRequest)
			return
		}
	}
	if body.Text != nil {
		h.sess.SetSourceText(*body.Text)
	}

	writeJSON(w, http.StatusOK, h.view())
}

// POST /api/session/translate
func (h *Handler) Translate(w http.ResponseWriter, r *http.Request) {
	if err := h.sess.Translate(r.Context()); err != nil {
		h.writeRefusal(w, "translate", err)
		return
	}
	writeJSON(w, http.StatusOK, h.view())
}

// POST /api/session/tts
func (h *Handler) Synthesize(w http.ResponseWriter, r *http.Request) {
	if err := h.sess.Synthesize(r.Context()); err != nil {
		h.writeRefusal(w, "tts", err)
		return
	}
	writeJSON(w, http.StatusOK, h.view())
}

func (h *Handler) view() sessionView {
	url, _ := h.player.Current()
	return sessionView{State: h.sess.Snapshot(), AudioURL: url}
}

func (h *Handler) writeRefusal(w http.ResponseWriter, action string, err error) {
	h.logRefusal(action, err)

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrBusy):
		status = http.StatusConflict
	case errors.Is(err, session.ErrEmptyText), errors.Is(err, session.ErrNothingToSpeak):
		status = http.StatusUnprocessableEntity
	}

	writeJSON(w, status, map[string]any{
		"error":   err.Error(),
		"session": h.view(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
