package player

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requireShell skips the test when no POSIX shell is available.
func requireShell(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh is not available")
	}
}

// TestExternalPlayer_Play tests that the stream URL is passed after the configured arguments.
func TestExternalPlayer_Play(t *testing.T) {
	t.Parallel()
	requireShell(t)

	var stdout bytes.Buffer

	p := NewExternalPlayer("sh", []string{"-c", `echo "playing $0"`},
		WithStdio(strings.NewReader(""), &stdout, &bytes.Buffer{}))

	err := p.Play(context.Background(), "https://cdn.example/t1.mp3", "Beethoven - Symphony No. 5")
	require.NoError(t, err)
	assert.Equal(t, "playing https://cdn.example/t1.mp3\n", stdout.String())
	assert.Equal(t, "sh", p.Name())
}

// TestExternalPlayer_Play_NonZeroExit tests that a failing player is reported with its exit code.
func TestExternalPlayer_Play_NonZeroExit(t *testing.T) {
	t.Parallel()
	requireShell(t)

	p := NewExternalPlayer("sh", []string{"-c", "exit 3"},
		WithStdio(strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{}))

	err := p.Play(context.Background(), "https://cdn.example/t1.mp3", "t1")
	require.ErrorIs(t, err, ErrPlayerFailed)
	assert.Contains(t, err.Error(), "exited with code 3")
}

// TestExternalPlayer_Play_Canceled tests that canceling the context kills the player.
func TestExternalPlayer_Play_Canceled(t *testing.T) {
	t.Parallel()
	requireShell(t)

	p := NewExternalPlayer("sh", []string{"-c", "exec sleep 30"},
		WithStdio(strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{}))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := p.Play(ctx, "https://cdn.example/t1.mp3", "t1")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 10*time.Second)
}

// TestExternalPlayer_Play_Errors tests the argument and startup errors.
func TestExternalPlayer_Play_Errors(t *testing.T) {
	t.Parallel()

	p := NewExternalPlayer("pms-no-such-player", nil)

	err := p.Play(context.Background(), "", "t1")
	require.ErrorIs(t, err, ErrEmptyStreamURL)

	err = p.Play(context.Background(), "https://cdn.example/t1.mp3", "t1")
	require.ErrorIs(t, err, ErrPlayerNotFound)
}

// TestNewExternalPlayer_CopiesArgs tests that later changes to the caller's slice are not seen.
func TestNewExternalPlayer_CopiesArgs(t *testing.T) {
	t.Parallel()

	args := []string{"-really-quiet"}
	p := NewExternalPlayer("/usr/bin/mplayer", args)
	args[0] = "changed"

	assert.Equal(t, []string{"-really-quiet"}, p.args)
	assert.Equal(t, "mplayer", p.Name())
}

// TestChecker tests the dependency checker.
func TestChecker(t *testing.T) {
	t.Parallel()
	requireShell(t)

	require.NoError(t, NewChecker("sh").CheckAll())

	err := NewChecker("sh", "pms-missing-a", "pms-missing-b").CheckAll()
	require.Error(t, err)

	var missingErr *MissingDependenciesError
	require.ErrorAs(t, err, &missingErr)
	assert.Equal(t, []string{"pms-missing-a", "pms-missing-b"}, missingErr.Dependencies)
	assert.Contains(t, err.Error(), "pms-missing-a, pms-missing-b")
}
