package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidIntent is returned when an outbound intent falls outside the accepted shapes.
var ErrInvalidIntent = errors.New("invalid intent")

type header struct {
	Type string `json:"type"`
}

// Decode classifies one inbound frame. Unrecognized kinds decode to Unknown without error;
// frames that cannot be parsed as their declared kind return an error and no message.
func Decode(raw []byte) (Message, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("decode: empty frame")
	}
	var h header
	if err := json.Unmarshal(raw, &h); err != nil {
		return nil, fmt.Errorf("decode header: %w", err)
	}

	switch h.Type {
	case MsgWelcome:
		return decodeAs[Welcome](h.Type, raw)
	case MsgState:
		return decodeAs[State](h.Type, raw)
	case MsgCells:
		return decodeAs[Cells](h.Type, raw)
	case MsgPlayers:
		return decodeAs[Players](h.Type, raw)
	case MsgTrail:
		msg, err := decodeAs[Trail](h.Type, raw)
		if err != nil {
			return nil, err
		}
		if msg.(Trail).PID == "" {
			return nil, fmt.Errorf("decode %s: missing pid", h.Type)
		}
		return msg, nil
	case MsgAlert:
		return decodeAs[Alert](h.Type, raw)
	default:
		return Unknown{Type: h.Type}, nil
	}
}

func decodeAs[T Message](kind string, raw []byte) (Message, error) {
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind, err)
	}
	return out, nil
}

// EncodeMove serializes a one-cell step. Both components must be in {-1,0,1} and not both zero.
func EncodeMove(dx, dy int) ([]byte, error) {
	if dx < -1 || dx > 1 || dy < -1 || dy > 1 || (dx == 0 && dy == 0) {
		return nil, fmt.Errorf("move (%d,%d): %w", dx, dy, ErrInvalidIntent)
	}
	return json.Marshal(Move{Type: MsgMove, DX: dx, DY: dy})
}

// EncodeRename serializes a rename request with the name trimmed.
func EncodeRename(name string) ([]byte, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("rename: empty name: %w", ErrInvalidIntent)
	}
	return json.Marshal(Rename{Type: MsgRename, Name: name})
}

// EncodeAlert builds an inbound alert frame for notices raised on the client itself.
func EncodeAlert(msg string) ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		Alert
	}{Type: MsgAlert, Alert: Alert{Msg: msg}})
}
