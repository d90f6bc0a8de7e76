package playback

import "context"

// Player is the single audio output of the process. A new Play replaces
// whatever was playing before.
type Player interface {
	Play(ctx context.Context, url string) error
}
