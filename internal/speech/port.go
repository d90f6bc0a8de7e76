package speech

import "context"

type Client interface {
	Translate(ctx context.Context, text, targetLanguage string) (string, error) // текст → перевод
	Synthesize(ctx context.Context, text, language string) (string, error)      // текст → url аудио ("" = демо-режим)
}
