package byrbt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
)

// CaptchaSolver turns a captcha image into the text it shows.
type CaptchaSolver interface {
	Solve(ctx context.Context, image []byte) (string, error)
}

// CommandSolver solves captchas by running an external recognizer
// command. The image is written to a temporary file and the command is
// invoked as `<command> [model] <image-file>`; the recognized text is
// read from stdout.
type CommandSolver struct {
	command string
	model   string
	logger  zerolog.Logger
}

// NewCommandSolver creates a solver backed by an external command. The
// model path is optional; recognizers with an embedded model take only
// the image file argument.
func NewCommandSolver(command, model string, logger zerolog.Logger) *CommandSolver {
	return &CommandSolver{
		command: command,
		model:   model,
		logger:  logger.With().Str("component", "captcha").Logger(),
	}
}

// Solve runs the recognizer on the given image.
func (s *CommandSolver) Solve(ctx context.Context, image []byte) (string, error) {
	tmp, err := os.CreateTemp("", "captcha-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to create captcha temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(image); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write captcha image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write captcha image: %w", err)
	}

	args := solverArgs(s.model, tmp.Name())
	s.logger.Debug().Str("command", s.command).Strs("args", args).Msg("Running captcha recognizer")

	out, err := exec.CommandContext(ctx, s.command, args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("captcha recognizer failed: %w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("captcha recognizer failed: %w", err)
	}

	text := strings.TrimSpace(string(out))
	if text == "" {
		return "", fmt.Errorf("captcha recognizer returned no text")
	}
	return text, nil
}

// solverArgs builds the recognizer argument list.
func solverArgs(model, imagePath string) []string {
	if model == "" {
		return []string{imagePath}
	}
	return []string{model, imagePath}
}
