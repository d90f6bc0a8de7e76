package delivery

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"sync"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/dustin/go-humanize"

	"github.com/Vovarama1992/indic_dubber/internal/language"
	"github.com/Vovarama1992/indic_dubber/internal/playback"
	"github.com/Vovarama1992/indic_dubber/internal/session"
)

//go:embed templates/page.html
var templatesFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templatesFS, "templates/page.html"))

type Handler struct {
	sess   *session.Session
	player *playback.Pointer
	log    *logger.ZapLogger

	mu        sync.Mutex
	servedGen uint64
}

func NewHandler(sess *session.Session, player *playback.Pointer, log *logger.ZapLogger) *Handler {
	return &Handler{
		sess:   sess,
		player: player,
		log:    log,
	}
}

type pageData struct {
	State     session.State
	Languages []language.Option
	Updated   string
	AudioURL  string
	Autoplay  bool
}

// GET /
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	st := h.sess.Snapshot()
	url, gen := h.player.Current()

	// автоплей только один раз на каждый новый url
	h.mu.Lock()
	autoplay := gen > h.servedGen
	h.servedGen = gen
	h.mu.Unlock()

	data := pageData{
		State:     st,
		Languages: language.All(),
		Updated:   humanize.Time(st.UpdatedAt),
		AudioURL:  url,
		Autoplay:  autoplay && url != "",
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTmpl.Execute(w, data); err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "render page", Service: "dubber", Error: err})
	}
}

// POST /translate (form)
func (h *Handler) TranslateForm(w http.ResponseWriter, r *http.Request) {
	if !h.applyForm(w, r) {
		return
	}
	h.logRefusal("translate", h.sess.Translate(r.Context()))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// POST /tts (form)
func (h *Handler) SynthesizeForm(w http.ResponseWriter, r *http.Request) {
	if !h.applyForm(w, r) {
		return
	}
	h.logRefusal("tts", h.sess.Synthesize(r.Context()))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) applyForm(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form: "+err.Error(), http.StatusBadRequest)
		return false
	}

	if target := r.PostForm.Get("target_language"); target != "" {
		if err := h.sess.SetTarget(target); err != nil {
			http.Error(w, "unknown target_language", http.StatusBadRequest)
			return false
		}
	}
	if _, ok := r.PostForm["text"]; ok {
		h.sess.SetSourceText(r.PostForm.Get("text"))
	}
	return true
}

func (h *Handler) logRefusal(action string, err error) {
	if err == nil {
		return
	}
	level := "info"
	if !errors.Is(err, session.ErrBusy) && !errors.Is(err, session.ErrEmptyText) && !errors.Is(err, session.ErrNothingToSpeak) {
		level = "error"
	}
	h.log.Log(logger.LogEntry{Level: level, Message: action + " refused", Service: "dubber", Error: err})
}
