package torrents

import (
	"context"
	"errors"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Transmission drives a Transmission daemon through the
// transmission-remote command. The configured command may carry extra
// arguments, e.g. "transmission-remote -n user:pass".
type Transmission struct {
	command string
	args    []string
	logger  zerolog.Logger
}

// NewTransmission creates a Transmission-backed torrent client.
func NewTransmission(command string, logger zerolog.Logger) *Transmission {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		fields = []string{"transmission-remote"}
	}

	return &Transmission{
		command: fields[0],
		args:    fields[1:],
		logger:  logger.With().Str("component", "transmission").Logger(),
	}
}

// Register adds a torrent file with dir as its download directory.
func (t *Transmission) Register(ctx context.Context, torrentPath, dir string) error {
	_, err := t.run(ctx, registerArgs(torrentPath, dir)...)
	return err
}

// List returns transmission-remote's own torrent listing.
func (t *Transmission) List(ctx context.Context) (string, error) {
	return t.run(ctx, "-l")
}

// Remove removes a torrent by the id transmission-remote shows.
func (t *Transmission) Remove(ctx context.Context, id int) error {
	_, err := t.run(ctx, removeArgs(id)...)
	return err
}

func (t *Transmission) run(ctx context.Context, args ...string) (string, error) {
	full := append(append([]string{}, t.args...), args...)
	t.logger.Debug().Str("command", t.command).Strs("args", full).Msg("Running torrent client command")

	out, err := exec.CommandContext(ctx, t.command, full...).Output()
	if err != nil {
		cmdErr := &CommandError{Command: t.command, Args: full, Err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			cmdErr.Stderr = strings.TrimSpace(string(exitErr.Stderr))
		}
		return "", cmdErr
	}
	return string(out), nil
}

func registerArgs(torrentPath, dir string) []string {
	return []string{"-a", torrentPath, "-w", dir}
}

func removeArgs(id int) []string {
	return []string{"-t", strconv.Itoa(id), "-r"}
}
