package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/rs/xid"
)

// ErrMalformedResponse — бэкенд ответил 2xx, но тело не то, что ждём.
var ErrMalformedResponse = errors.New("malformed response")

// StatusError is returned when the backend answers with a non-2xx status.
// Its message is shown to the user as is.
type StatusError struct {
	Op   string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s error: %d", e.Op, e.Code)
}

// BackendClient talks to the dubber backend: POST /translate and POST /tts.
// No timeout is set here; the transport and the caller's context own it.
type BackendClient struct {
	baseURL string
	httpCli *http.Client
}

func NewBackendClient(baseURL string, httpCli *http.Client) *BackendClient {
	if httpCli == nil {
		httpCli = http.DefaultClient
	}
	return &BackendClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCli: httpCli,
	}
}

type translateRequest struct {
	Text           string `json:"text"`
	TargetLanguage string `json:"target_language"`
}

type translateResponse struct {
	Translated *string `json:"translated"`
}

type ttsRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

type ttsResponse struct {
	URL string `json:"url"`
}

// TEXT → TRANSLATION
func (c *BackendClient) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	body, err := c.post(ctx, "/translate", "Translate", translateRequest{
		Text:           text,
		TargetLanguage: targetLanguage,
	})
	if err != nil {
		return "", err
	}

	var out translateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("Translate error: %w: %v", ErrMalformedResponse, err)
	}
	if out.Translated == nil {
		return "", fmt.Errorf("Translate error: %w: no translated field", ErrMalformedResponse)
	}

	return *out.Translated, nil
}

// TEXT → SPEECH. Пустой url без ошибки — это демо-режим бэкенда.
func (c *BackendClient) Synthesize(ctx context.Context, text, language string) (string, error) {
	body, err := c.post(ctx, "/tts", "TTS", ttsRequest{
		Text:     text,
		Language: language,
	})
	if err != nil {
		return "", err
	}

	var out ttsResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("TTS error: %w: %v", ErrMalformedResponse, err)
	}

	return out.URL, nil
}

func (c *BackendClient) post(ctx context.Context, path, op string, payload any) ([]byte, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", xid.New().String())

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{Op: op, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", path, err)
	}
	return body, nil
}
