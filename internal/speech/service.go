package speech

import (
	"context"
)

// === Интерфейсы ===

type Translator interface {
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
}

type TTSClient interface {
	Synthesize(ctx context.Context, text, language string) (string, error)
}

// === Единый сервис (перевод + озвучка) ===

type Service struct {
	tr  Translator
	tts TTSClient
}

func NewService(tr Translator, tts TTSClient) *Service {
	return &Service{
		tr:  tr,
		tts: tts,
	}
}

func (s *Service) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	return s.tr.Translate(ctx, text, targetLanguage)
}

func (s *Service) Synthesize(ctx context.Context, text, language string) (string, error) {
	return s.tts.Synthesize(ctx, text, language)
}
