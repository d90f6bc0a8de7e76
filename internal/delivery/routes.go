package delivery

import (
	"net/http"
	"time"

	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

func RegisterRoutes(r chi.Router, h *Handler, actionsPerMinute int) {
	limit := httprate.LimitByIP(actionsPerMinute, time.Minute)

	r.Group(func(pr chi.Router) {
		pr.Use(httputil.RecoverMiddleware)

		// --- страница ---
		pr.Get("/", h.Page)
		pr.With(limit).Post("/translate", h.TranslateForm)
		pr.With(limit).Post("/tts", h.SynthesizeForm)

		// --- api ---
		pr.Get("/api/languages", h.Languages)
		pr.Get("/api/session", h.GetSession)
		pr.Put("/api/session", h.UpdateSession)
		pr.With(limit).Post("/api/session/translate", h.Translate)
		pr.With(limit).Post("/api/session/tts", h.Synthesize)

		pr.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("pong"))
		})
	})
}
