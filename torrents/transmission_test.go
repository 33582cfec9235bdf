package torrents

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byrlab/byrbt-bot/config"
)

func TestRegisterArgs(t *testing.T) {
	want := []string{"-a", "/tmp/seeds/file.torrent", "-w", "/data/movies"}
	assert.Equal(t, want, registerArgs("/tmp/seeds/file.torrent", "/data/movies"))
}

func TestRemoveArgs(t *testing.T) {
	assert.Equal(t, []string{"-t", "42", "-r"}, removeArgs(42))
}

func TestTransmissionCommandWithArguments(t *testing.T) {
	tr := NewTransmission("transmission-remote -n admin:secret", zerolog.Nop())

	assert.Equal(t, "transmission-remote", tr.command)
	assert.Equal(t, []string{"-n", "admin:secret"}, tr.args)
}

func TestTransmissionList(t *testing.T) {
	// echo prints its arguments, so the configured extra argument and
	// the list flag come back as output.
	tr := NewTransmission("echo hello", zerolog.Nop())

	out, err := tr.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hello -l\n", out)
}

func TestTransmissionRegister(t *testing.T) {
	tr := NewTransmission("echo", zerolog.Nop())

	err := tr.Register(context.Background(), "/tmp/file.torrent", "/data/movies")
	require.NoError(t, err)
}

func TestTransmissionExitError(t *testing.T) {
	tr := NewTransmission("false", zerolog.Nop())

	_, err := tr.List(context.Background())
	require.Error(t, err)

	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, "false", cmdErr.Command)
	assert.Equal(t, []string{"-l"}, cmdErr.Args)
}

func TestTransmissionMissingBinary(t *testing.T) {
	tr := NewTransmission("/nonexistent/transmission-remote", zerolog.Nop())

	err := tr.Remove(context.Background(), 1)
	require.Error(t, err)

	var cmdErr *CommandError
	assert.ErrorAs(t, err, &cmdErr)
}

func TestNew(t *testing.T) {
	client, err := New(config.ClientConfig{
		Type:         "transmission",
		Transmission: config.TransmissionConfig{Command: "transmission-remote"},
	}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &Transmission{}, client)

	_, err = New(config.ClientConfig{Type: "deluge"}, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown torrent client type")
}
