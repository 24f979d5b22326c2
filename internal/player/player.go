package player

//go:generate $MOCKGEN -source=player.go -destination=mocks/player_mock.go

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/np1/pms/internal/logger"
)

// Player plays an audio stream.
type Player interface {
	// Play blocks until the stream has been played or ctx is canceled.
	Play(ctx context.Context, streamURL, title string) error
	// Name returns the player name shown to the user.
	Name() string
}

// Static error definitions for better error handling.
var (
	// ErrPlayerFailed indicates that the player process exited with an error.
	ErrPlayerFailed = errors.New("player failed")
	// ErrPlayerNotFound indicates that the player executable could not be started.
	ErrPlayerNotFound = errors.New("player not found")
	// ErrEmptyStreamURL indicates that there is nothing to play.
	ErrEmptyStreamURL = errors.New("stream URL cannot be empty")
)

// waitDelay bounds the wait for the player's output after the process has exited.
const waitDelay = 2 * time.Second

// ExternalPlayer runs a media player executable with the stream URL as its last argument.
// The process shares the terminal so the player's own keyboard controls keep working.
type ExternalPlayer struct {
	// command is the executable name or path.
	command string
	// args are placed before the stream URL.
	args []string
	// stdin, stdout and stderr are attached to the process.
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// Option customizes an ExternalPlayer.
type Option func(*ExternalPlayer)

// WithStdio attaches the given streams to the player process instead of the terminal.
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(p *ExternalPlayer) {
		p.stdin = stdin
		p.stdout = stdout
		p.stderr = stderr
	}
}

// NewExternalPlayer creates a player running command with args.
func NewExternalPlayer(command string, args []string, opts ...Option) *ExternalPlayer {
	p := &ExternalPlayer{
		command: command,
		args:    append([]string(nil), args...),
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the executable name.
func (p *ExternalPlayer) Name() string {
	return filepath.Base(p.command)
}

// Play starts the player and waits for it to exit. Canceling ctx kills the process.
func (p *ExternalPlayer) Play(ctx context.Context, streamURL, title string) error {
	if streamURL == "" {
		return ErrEmptyStreamURL
	}

	//nolint:gosec // The player command comes from the user's own configuration.
	cmd := exec.Command(p.command, append(append([]string(nil), p.args...), streamURL)...)
	cmd.Stdin = p.stdin
	cmd.Stdout = p.stdout
	cmd.Stderr = p.stderr
	// Children of the player may keep its output open after it is killed.
	cmd.WaitDelay = waitDelay

	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrPlayerNotFound, p.command)
		}

		return fmt.Errorf("failed to start %s: %w", p.Name(), err)
	}

	logger.Debugf(ctx, "%s started for '%s' (PID: %d)", p.Name(), title, cmd.Process.Pid)

	done := make(chan error, 1)

	go func() { done <- cmd.Wait() }()

	select {
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		<-done

		logger.Debugf(ctx, "%s stopped for '%s'", p.Name(), title)

		return ctx.Err()
	case err := <-done:
		if err == nil {
			return nil
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%w: %s exited with code %d", ErrPlayerFailed, p.Name(), exitErr.ExitCode())
		}

		return fmt.Errorf("%w: %w", ErrPlayerFailed, err)
	}
}
