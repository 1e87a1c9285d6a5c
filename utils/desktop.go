package utils

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/atotto/clipboard"
	"github.com/micmonay/keybd_event"
)

var ErrNothingToType = errors.New("nothing to type")

// Desktop abstracts the host clipboard and keyboard so handlers can be
// tested without a display.
type Desktop interface {
	Copy(text string) error
	Type(text string) error
}

// HostDesktop uses the real clipboard and synthesizes key presses.
type HostDesktop struct{}

func (HostDesktop) Copy(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	return nil
}

// Type pastes text into the focused window and presses Enter: the text goes
// through the clipboard, then Ctrl+V (Cmd+V on macOS).
func (d HostDesktop) Type(text string) error {
	if text == "" {
		return ErrNothingToType
	}
	if err := d.Copy(text); err != nil {
		return err
	}

	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return fmt.Errorf("keyboard: %w", err)
	}
	if runtime.GOOS == "darwin" {
		kb.HasSuper(true)
	} else {
		kb.HasCTRL(true)
	}
	kb.SetKeys(keybd_event.VK_V)

	// Linux uinput needs a moment before the virtual device accepts events.
	time.Sleep(200 * time.Millisecond)

	if err := kb.Launching(); err != nil {
		return fmt.Errorf("paste keystroke: %w", err)
	}

	enter, err := keybd_event.NewKeyBonding()
	if err != nil {
		return fmt.Errorf("keyboard: %w", err)
	}
	time.Sleep(100 * time.Millisecond)
	enter.SetKeys(keybd_event.VK_ENTER)
	if err := enter.Launching(); err != nil {
		return fmt.Errorf("enter keystroke: %w", err)
	}
	return nil
}
