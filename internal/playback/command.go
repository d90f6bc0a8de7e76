package playback

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
)

var ErrNoPlayer = errors.New("player command is empty")

// Command plays audio with an external program, e.g. "ffplay -nodisp -autoexit".
// The url is appended as the last argument.
type Command struct {
	name string
	args []string

	mu  sync.Mutex
	cmd *exec.Cmd
}

func NewCommand(line string) (*Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, ErrNoPlayer
	}
	return &Command{
		name: fields[0],
		args: fields[1:],
	}, nil
}

// Play kills the running player, if any, and starts a new one in the background.
// The process outlives ctx.
func (c *Command) Play(_ context.Context, url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()

	args := append(append([]string{}, c.args...), url)
	cmd := exec.Command(c.name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start player: %w", err)
	}
	c.cmd = cmd

	// забираем зомби
	go func() {
		_ = cmd.Wait()
		c.mu.Lock()
		if c.cmd == cmd {
			c.cmd = nil
		}
		c.mu.Unlock()
	}()

	return nil
}

func (c *Command) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

// Playing reports whether a player process is still running.
func (c *Command) Playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cmd != nil
}

func (c *Command) stopLocked() {
	if c.cmd == nil || c.cmd.Process == nil {
		return
	}
	_ = c.cmd.Process.Kill()
	c.cmd = nil
}
