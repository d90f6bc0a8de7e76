package delivery

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/Vovarama1992/indic_dubber/internal/playback"
	"github.com/Vovarama1992/indic_dubber/internal/session"
	"github.com/Vovarama1992/indic_dubber/internal/speech"
)

type testApp struct {
	router  http.Handler
	sess    *session.Session
	player  *playback.Pointer
	backend *httptest.Server
}

func newTestApp(t *testing.T, backend http.HandlerFunc) *testApp {
	t.Helper()

	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	log := logger.NewZapLogger(zap.NewNop().Sugar())
	client := speech.NewBackendClient(srv.URL, srv.Client())
	player := playback.NewPointer()
	sess := session.New(speech.NewService(client, client), player, log)

	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(sess, player, log), 1000)

	return &testApp{router: r, sess: sess, player: player, backend: srv}
}

func defaultBackend(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/translate":
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		_, _ = io.WriteString(w, `{"translated":"`+in["target_language"]+`:`+in["text"]+`"}`)
	case "/tts":
		_, _ = io.WriteString(w, `{"url":"http://cdn/a.mp3"}`)
	default:
		http.NotFound(w, r)
	}
}

func (a *testApp) do(t *testing.T, method, path, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

func decodeView(t *testing.T, rr *httptest.ResponseRecorder) sessionView {
	t.Helper()

	var v sessionView
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode view: %v (%s)", err, rr.Body.String())
	}
	return v
}

func TestPageRendersInitialState(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, defaultBackend)
	rr := app.do(t, http.MethodGet, "/", "", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{
		"Result (Hindi)",
		"Your translation will appear here.",
		"Welcome to our multilingual Indian language dubber",
		`<option value="or">Odia</option>`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected page to contain %q", want)
		}
	}
	if strings.Contains(body, "autoplay") {
		t.Error("nothing to autoplay yet")
	}
}

func TestFormTranslateFlow(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, defaultBackend)

	form := url.Values{"text": {"Namaste"}, "target_language": {"bn"}}
	rr := app.do(t, http.MethodPost, "/translate", "application/x-www-form-urlencoded", form.Encode())
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/" {
		t.Fatalf("expected redirect to /, got %d %s", rr.Code, rr.Header().Get("Location"))
	}

	st := app.sess.Snapshot()
	if st.TranslatedText != "bn:Namaste" || st.TargetCode != "bn" {
		t.Fatalf("unexpected state %+v", st)
	}

	page := app.do(t, http.MethodGet, "/", "", "").Body.String()
	if !strings.Contains(page, "Result (Bengali)") || !strings.Contains(page, "bn:Namaste") {
		t.Error("expected page to show the translation")
	}
}

func TestFormUnknownLanguage(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, defaultBackend)

	form := url.Values{"text": {"x"}, "target_language": {"en"}}
	rr := app.do(t, http.MethodPost, "/translate", "application/x-www-form-urlencoded", form.Encode())
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestAPITranslateAndSpeak(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, defaultBackend)

	rr := app.do(t, http.MethodPut, "/api/session", "application/json", `{"text":"Hello","target_language":"ml"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("PUT failed: %d %s", rr.Code, rr.Body.String())
	}

	rr = app.do(t, http.MethodPost, "/api/session/translate", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("translate failed: %d", rr.Code)
	}
	v := decodeView(t, rr)
	if v.TranslatedText != "ml:Hello" || v.Phase != session.PhaseIdle || !v.CanSpeak {
		t.Fatalf("unexpected view %+v", v)
	}

	rr = app.do(t, http.MethodPost, "/api/session/tts", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("tts failed: %d", rr.Code)
	}
	v = decodeView(t, rr)
	if v.AudioURL != "http://cdn/a.mp3" {
		t.Fatalf("expected audio url, got %q", v.AudioURL)
	}

	first := app.do(t, http.MethodGet, "/", "", "").Body.String()
	if !strings.Contains(first, `src="http://cdn/a.mp3"`) || !strings.Contains(first, "autoplay") {
		t.Error("expected first render after tts to autoplay the new audio")
	}
	second := app.do(t, http.MethodGet, "/", "", "").Body.String()
	if strings.Contains(second, "autoplay") {
		t.Error("expected autoplay only once per new audio")
	}
}

func TestAPIGuards(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, defaultBackend)

	rr := app.do(t, http.MethodPost, "/api/session/tts", "", "")
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for tts without translation, got %d", rr.Code)
	}

	app.do(t, http.MethodPut, "/api/session", "application/json", `{"text":"   "}`)
	rr = app.do(t, http.MethodPost, "/api/session/translate", "", "")
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for blank text, got %d", rr.Code)
	}

	rr = app.do(t, http.MethodPut, "/api/session", "application/json", `{"target_language":"fr"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown language, got %d", rr.Code)
	}

	rr = app.do(t, http.MethodPut, "/api/session", "application/json", `{`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad json, got %d", rr.Code)
	}
}

func TestAPIBusy(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	release := make(chan struct{})
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		_, _ = io.WriteString(w, `{"translated":"ok"}`)
	})

	done := make(chan int, 1)
	go func() {
		done <- app.do(t, http.MethodPost, "/api/session/translate", "", "").Code
	}()
	<-started

	rr := app.do(t, http.MethodPost, "/api/session/translate", "", "")
	if rr.Code != http.StatusConflict {
		t.Errorf("expected 409 while busy, got %d", rr.Code)
	}

	close(release)
	if code := <-done; code != http.StatusOK {
		t.Fatalf("expected first translate to finish with 200, got %d", code)
	}
}

func TestAPIBackendFailureIsState(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	rr := app.do(t, http.MethodPost, "/api/session/translate", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("backend failure is reported in the session, got %d", rr.Code)
	}
	v := decodeView(t, rr)
	if v.Phase != session.PhaseError || v.ErrorMessage != "Translate error: 500" {
		t.Fatalf("unexpected view %+v", v)
	}

	page := app.do(t, http.MethodGet, "/", "", "").Body.String()
	if !strings.Contains(page, "Translate error: 500") {
		t.Error("expected error on the page")
	}
}

func TestLanguagesAndPing(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, defaultBackend)

	rr := app.do(t, http.MethodGet, "/api/languages", "", "")
	var langs []map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &langs); err != nil {
		t.Fatalf("decode languages: %v", err)
	}
	if len(langs) != 11 || langs[9]["code"] != "or" || langs[9]["name"] != "Odia" {
		t.Fatalf("unexpected languages %v", langs)
	}

	rr = app.do(t, http.MethodGet, "/ping", "", "")
	if rr.Body.String() != "pong" {
		t.Fatalf("unexpected ping body %q", rr.Body.String())
	}
}
