package playback

import (
	"context"
	"sync"
)

// Pointer — "плеер" для веб-страницы: просто запоминает последний url,
// а играет его <audio> в браузере.
type Pointer struct {
	mu  sync.RWMutex
	url string
	gen uint64
}

func NewPointer() *Pointer {
	return &Pointer{}
}

func (p *Pointer) Play(_ context.Context, url string) error {
	p.mu.Lock()
	p.url = url
	p.gen++
	p.mu.Unlock()
	return nil
}

// Current returns the latest url and its generation. Generation 0 means
// nothing was played yet.
func (p *Pointer) Current() (string, uint64) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.url, p.gen
}
