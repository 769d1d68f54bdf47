package protocol

import (
	"errors"
	"fmt"

	"github.com/mcoot/connectfour/internal/model"
)

var (
	ErrUnknownMessage = errors.New("unknown message")
	ErrShortMessage   = errors.New("message too short")
	ErrInvalidPayload = errors.New("message payload out of range")
	ErrClosed         = errors.New("connection closed by peer")
)

// Kind identifies a message type
type Kind uint8

const (
	KindHello Kind = iota
	KindPlay
	KindAction
	KindValidAction
	KindInvalidAction
	KindLose
	KindDraw
	KindWin
)

func (k Kind) String() string {
	switch k {
	case KindHello:
		return "hello"
	case KindPlay:
		return "play"
	case KindAction:
		return "action"
	case KindValidAction:
		return "valid_action"
	case KindInvalidAction:
		return "invalid_action"
	case KindLose:
		return "lose"
	case KindDraw:
		return "draw"
	case KindWin:
		return "win"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// header is the two leading bytes of each message on the wire
type header [2]byte

var (
	headerHelloRed      = header{0, 0}
	headerHelloYellow   = header{0, 1}
	headerPlay          = header{1, 0}
	headerAction        = header{1, 1}
	headerValidAction   = header{1, 2}
	headerInvalidAction = header{1, 3}
	headerLose          = header{2, 0}
	headerDraw          = header{2, 1}
	headerWin           = header{2, 2}
)

// MaxMessageSize is the longest encoded message
const MaxMessageSize = 3

// Message is one exchange between the match server and a participant
type Message struct {
	Kind   Kind
	Player model.Player // Hello only
	Column int          // Action and ValidAction only
}

func Hello(p model.Player) Message   { return Message{Kind: KindHello, Player: p} }
func Play() Message                  { return Message{Kind: KindPlay} }
func Action(column int) Message      { return Message{Kind: KindAction, Column: column} }
func ValidAction(column int) Message { return Message{Kind: KindValidAction, Column: column} }
func InvalidAction() Message         { return Message{Kind: KindInvalidAction} }
func Lose() Message                  { return Message{Kind: KindLose} }
func Draw() Message                  { return Message{Kind: KindDraw} }
func Win() Message                   { return Message{Kind: KindWin} }

// Result returns the end-of-game message for a participant playing side
func Result(outcome model.Outcome, side model.Player) Message {
	winner, ok := outcome.Winner()
	switch {
	case !ok:
		return Draw()
	case winner == side:
		return Win()
	default:
		return Lose()
	}
}

func (m Message) String() string {
	switch m.Kind {
	case KindHello:
		return fmt.Sprintf("hello(%s)", m.Player)
	case KindAction, KindValidAction:
		return fmt.Sprintf("%s(%d)", m.Kind, m.Column)
	default:
		return m.Kind.String()
	}
}

// Encode returns the wire form of the message
func (m Message) Encode() ([]byte, error) {
	switch m.Kind {
	case KindHello:
		switch m.Player {
		case model.Red:
			return headerHelloRed[:], nil
		case model.Yellow:
			return headerHelloYellow[:], nil
		default:
			return nil, fmt.Errorf("%w: hello for %s", ErrInvalidPayload, m.Player)
		}
	case KindAction, KindValidAction:
		if m.Column < 0 || m.Column > 0xff {
			return nil, fmt.Errorf("%w: column %d", ErrInvalidPayload, m.Column)
		}
		h := headerAction
		if m.Kind == KindValidAction {
			h = headerValidAction
		}
		return []byte{h[0], h[1], byte(m.Column)}, nil
	case KindPlay:
		return headerPlay[:], nil
	case KindInvalidAction:
		return headerInvalidAction[:], nil
	case KindLose:
		return headerLose[:], nil
	case KindDraw:
		return headerDraw[:], nil
	case KindWin:
		return headerWin[:], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMessage, m.Kind)
	}
}

// Decode parses one message from the front of b. Trailing bytes are ignored.
func Decode(b []byte) (Message, error) {
	if len(b) < len(header{}) {
		return Message{}, fmt.Errorf("%w: %d bytes", ErrShortMessage, len(b))
	}
	h := header{b[0], b[1]}
	m, payload, err := decodeHeader(h)
	if err != nil {
		return Message{}, err
	}
	if payload == 0 {
		return m, nil
	}
	if len(b) < len(h)+payload {
		return Message{}, fmt.Errorf("%w: %s needs a column", ErrShortMessage, m.Kind)
	}
	m.Column = int(b[2])
	return m, nil
}

// decodeHeader maps a header to its message and the number of payload bytes
// that follow it
func decodeHeader(h header) (Message, int, error) {
	switch h {
	case headerHelloRed:
		return Hello(model.Red), 0, nil
	case headerHelloYellow:
		return Hello(model.Yellow), 0, nil
	case headerPlay:
		return Play(), 0, nil
	case headerAction:
		return Message{Kind: KindAction}, 1, nil
	case headerValidAction:
		return Message{Kind: KindValidAction}, 1, nil
	case headerInvalidAction:
		return InvalidAction(), 0, nil
	case headerLose:
		return Lose(), 0, nil
	case headerDraw:
		return Draw(), 0, nil
	case headerWin:
		return Win(), 0, nil
	default:
		return Message{}, 0, fmt.Errorf("%w: % x", ErrUnknownMessage, h[:])
	}
}
