package screen

import (
	"errors"
	"fmt"
)

// DialogState is the state of a delete confirmation dialog.
type DialogState int

const (
	DialogClosed DialogState = iota
	DialogConfirming
	DialogSubmitting
)

func (s DialogState) String() string {
	switch s {
	case DialogClosed:
		return "closed"
	case DialogConfirming:
		return "confirming"
	case DialogSubmitting:
		return "submitting"
	default:
		return fmt.Sprintf("DialogState(%d)", int(s))
	}
}

// ErrInvalidTransition is returned when a dialog event does not apply to the
// current state.
var ErrInvalidTransition = errors.New("invalid delete dialog transition")

// DeleteDialog is the two-step delete confirmation:
//
//	closed -> confirming(id) -> closed            (cancel)
//	closed -> confirming(id) -> submitting -> closed
type DeleteDialog struct {
	state  DialogState
	target uint
}

// State returns the current state.
func (d *DeleteDialog) State() DialogState { return d.state }

// Target returns the id awaiting confirmation, or 0 when closed.
func (d *DeleteDialog) Target() uint { return d.target }

// Open asks for confirmation to delete id.
func (d *DeleteDialog) Open(id uint) error {
	if d.state != DialogClosed {
		return fmt.Errorf("%w: open from %s", ErrInvalidTransition, d.state)
	}
	if id == 0 {
		return fmt.Errorf("%w: open without target", ErrInvalidTransition)
	}
	d.state = DialogConfirming
	d.target = id
	return nil
}

// Cancel closes a confirming dialog without side effects.
func (d *DeleteDialog) Cancel() error {
	if d.state != DialogConfirming {
		return fmt.Errorf("%w: cancel from %s", ErrInvalidTransition, d.state)
	}
	d.state = DialogClosed
	d.target = 0
	return nil
}

// Submit moves a confirming dialog to submitting and returns the target id.
func (d *DeleteDialog) Submit() (uint, error) {
	if d.state != DialogConfirming {
		return 0, fmt.Errorf("%w: submit from %s", ErrInvalidTransition, d.state)
	}
	d.state = DialogSubmitting
	return d.target, nil
}

// Finish closes a submitting dialog, whatever the delete outcome was.
func (d *DeleteDialog) Finish() error {
	if d.state != DialogSubmitting {
		return fmt.Errorf("%w: finish from %s", ErrInvalidTransition, d.state)
	}
	d.state = DialogClosed
	d.target = 0
	return nil
}

// reset force-closes the dialog on teardown.
func (d *DeleteDialog) reset() {
	d.state = DialogClosed
	d.target = 0
}
