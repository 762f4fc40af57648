//go:build !windows

package menu

import (
	"errors"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/creack/pty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/term"
)

// runFormInPTY builds a huh form with the same key components as
// HuhUI.runForm (menuKeyMap, formFilter, hintField), attaches it to the
// slave side of a real pseudo-terminal, writes raw key bytes to the master,
// and returns the classified result.
//
// This validates the full chain: raw byte, bubbletea input parsing,
// formFilter, the huh Quit binding, and the ctrlCAbort classification.
func runFormInPTY(t *testing.T, keyBytes []byte) error {
	t.Helper()

	ptmx, tty, err := pty.Open()
	require.NoError(t, err)
	t.Cleanup(func() { _ = ptmx.Close() })
	t.Cleanup(func() { _ = tty.Close() })

	// Raw mode on the slave so the kernel passes Ctrl+C through as a byte
	// (ISIG cleared) instead of raising SIGINT.
	if _, err := term.MakeRaw(int(tty.Fd())); err != nil {
		t.Skipf("cannot set raw mode on pty: %v", err)
	}

	ui := &HuhUI{isTerminal: func() bool { return true }}

	var val string
	form := huh.NewForm(
		huh.NewGroup(
			newHintField(huh.NewInput().Title("PTY Test").Value(&val)),
		),
	)
	form.WithAccessible(false)
	form.WithKeyMap(menuKeyMap())
	form.WithProgramOptions(
		tea.WithInput(tty),
		tea.WithOutput(io.Discard),
		tea.WithFilter(ui.formFilter()),
	)

	go func() {
		// Allow Bubble Tea to finish program startup so the first key byte
		// is consumed by the input parser instead of racing with
		// initialization.
		time.Sleep(50 * time.Millisecond)
		_, _ = ptmx.Write(keyBytes)
	}()

	// Run the form; classify the result the same way runForm does.
	type result struct{ err error }
	ch := make(chan result, 1)
	go func() {
		runErr := form.Run()
		if errors.Is(runErr, huh.ErrUserAborted) {
			if ui.ctrlCAbort {
				ch <- result{ErrInputCancelled}
			} else {
				ch <- result{errBack}
			}
			return
		}
		ch <- result{runErr}
	}()

	select {
	case r := <-ch:
		return r.err
	case <-time.After(5 * time.Second):
		t.Fatal("form did not exit within timeout")
		return nil
	}
}

func TestPTY_EscProducesBack(t *testing.T) {
	// Esc = 0x1b. bubbletea's input parser waits ~100ms for follow-up
	// bytes; with none, the lone byte is a standalone Esc (KeyEscape).
	err := runFormInPTY(t, []byte{0x1b})
	assert.ErrorIs(t, err, errBack)
}

func TestPTY_CtrlCProducesCancelled(t *testing.T) {
	// Ctrl+C = 0x03, read as KeyCtrlC in raw mode.
	err := runFormInPTY(t, []byte{0x03})
	assert.ErrorIs(t, err, ErrInputCancelled)
}
