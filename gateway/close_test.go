package gateway

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloseIdempotent(t *testing.T) {
	cmd := exec.Command("cat")
	stdin, err := cmd.StdinPipe()
	require.NoError(t, err)
	require.NoError(t, cmd.Start())

	g := &Gateway{cmd: cmd, stdin: stdin}

	require.NoError(t, g.Close())
	require.NotNil(t, cmd.ProcessState, "child must be reaped")

	_, err = stdin.Write([]byte("x"))
	assert.Error(t, err, "stdin must be closed")

	// the second close does no work and reports the first result
	assert.NoError(t, g.Close())
	assert.NoError(t, g.Close())
}
