//go:build unix

package ui

import (
	"bytes"
	"os"
	"os/signal"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPrinter_SpinnerLeavesSIGTERMToTheProcess(t *testing.T) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGTERM)
	defer signal.Stop(sigs)

	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.interactive = true

	delivered := false
	final, err := p.runSpinner("Looking for devices...", func() {
		if err := syscall.Kill(os.Getpid(), syscall.SIGTERM); err != nil {
			return
		}
		select {
		case <-sigs:
			delivered = true
		case <-time.After(5 * time.Second):
		}
		// give a signal-handling program time to quit early
		time.Sleep(200 * time.Millisecond)
	})

	require.NoError(t, err)
	require.True(t, delivered)
	require.True(t, final.done, "spinner quit before discovery finished")
}
