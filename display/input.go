package display

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"territory-client/protocol"
)

// Direction is a one-cell step request.
type Direction struct {
	DX, DY int
}

var (
	Up    = Direction{0, -1}
	Down  = Direction{0, 1}
	Left  = Direction{-1, 0}
	Right = Direction{1, 0}
)

// DirectionForRune maps the WASD keys. Arrow keys are mapped by each frontend.
func DirectionForRune(r rune) (Direction, bool) {
	switch unicode.ToLower(r) {
	case 'w':
		return Up, true
	case 's':
		return Down, true
	case 'a':
		return Left, true
	case 'd':
		return Right, true
	}
	return Direction{}, false
}

// ErrOffline is returned when an intent is produced while the transport is down.
var ErrOffline = errors.New("not connected")

// Sender is the outbound half of the transport.
type Sender interface {
	Send(raw []byte) bool
}

// Controller turns input into encoded intents. It does not validate against game state
// or predict the result.
type Controller struct {
	sender Sender
}

func NewController(sender Sender) *Controller {
	return &Controller{sender: sender}
}

func (c *Controller) Move(d Direction) error {
	raw, err := protocol.EncodeMove(d.DX, d.DY)
	if err != nil {
		return err
	}
	return c.send(raw)
}

func (c *Controller) Rename(name string) error {
	raw, err := protocol.EncodeRename(name)
	if err != nil {
		return err
	}
	return c.send(raw)
}

func (c *Controller) send(raw []byte) error {
	if c == nil || c.sender == nil || !c.sender.Send(raw) {
		return fmt.Errorf("send intent: %w", ErrOffline)
	}
	return nil
}

const maxNameLen = 24

// NameEditor holds the rename prompt while the user types.
type NameEditor struct {
	active bool
	buf    []rune
}

func (e *NameEditor) Active() bool { return e.active }

func (e *NameEditor) Begin() {
	e.active = true
	e.buf = e.buf[:0]
}

func (e *NameEditor) Type(rs ...rune) {
	for _, r := range rs {
		if len(e.buf) >= maxNameLen || !unicode.IsPrint(r) {
			continue
		}
		e.buf = append(e.buf, r)
	}
}

func (e *NameEditor) Backspace() {
	if len(e.buf) > 0 {
		e.buf = e.buf[:len(e.buf)-1]
	}
}

func (e *NameEditor) Cancel() {
	e.active = false
	e.buf = e.buf[:0]
}

// Submit closes the prompt and returns the trimmed name.
func (e *NameEditor) Submit() string {
	name := strings.TrimSpace(string(e.buf))
	e.Cancel()
	return name
}

// Prompt is the text shown while editing, empty otherwise.
func (e *NameEditor) Prompt() string {
	if !e.active {
		return ""
	}
	return "Name: " + string(e.buf) + "_"
}
