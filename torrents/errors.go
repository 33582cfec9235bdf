package torrents

import (
	"fmt"
	"strings"
)

// CommandError is a failed invocation of the external torrent client.
// It fails the current command only; the command loop keeps running.
type CommandError struct {
	Command string
	Args    []string
	Stderr  string
	Err     error
}

// Error implements the error interface
func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s %s: %v", e.Command, strings.Join(e.Args, " "), e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// Unwrap returns the underlying error
func (e *CommandError) Unwrap() error {
	return e.Err
}
