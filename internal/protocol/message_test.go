package protocol_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/connectfour/internal/model"
	"github.com/mcoot/connectfour/internal/protocol"
)

func TestEncodeWireFormat(t *testing.T) {
	cases := []struct {
		msg  protocol.Message
		want []byte
	}{
		{protocol.Hello(model.Red), []byte{0, 0}},
		{protocol.Hello(model.Yellow), []byte{0, 1}},
		{protocol.Play(), []byte{1, 0}},
		{protocol.Action(4), []byte{1, 1, 4}},
		{protocol.ValidAction(6), []byte{1, 2, 6}},
		{protocol.InvalidAction(), []byte{1, 3}},
		{protocol.Lose(), []byte{2, 0}},
		{protocol.Draw(), []byte{2, 1}},
		{protocol.Win(), []byte{2, 2}},
	}
	for _, tc := range cases {
		t.Run(tc.msg.String(), func(t *testing.T) {
			got, err := tc.msg.Encode()
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)

			decoded, err := protocol.Decode(tc.want)
			require.NoError(t, err)
			assert.Equal(t, tc.msg, decoded)
		})
	}
}

func TestDecodeIgnoresTrailingBytes(t *testing.T) {
	m, err := protocol.Decode([]byte{1, 1, 3, 9, 9})
	require.NoError(t, err)
	assert.Equal(t, protocol.Action(3), m)

	m, err = protocol.Decode([]byte{2, 2, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, protocol.Win(), m)
}

func TestDecodeErrors(t *testing.T) {
	_, err := protocol.Decode(nil)
	assert.ErrorIs(t, err, protocol.ErrShortMessage)

	_, err = protocol.Decode([]byte{1})
	assert.ErrorIs(t, err, protocol.ErrShortMessage)

	_, err = protocol.Decode([]byte{1, 1})
	assert.ErrorIs(t, err, protocol.ErrShortMessage)

	_, err = protocol.Decode([]byte{3, 0})
	assert.ErrorIs(t, err, protocol.ErrUnknownMessage)

	_, err = protocol.Decode([]byte{0, 2})
	assert.ErrorIs(t, err, protocol.ErrUnknownMessage)
}

func TestEncodeRejectsBadPayload(t *testing.T) {
	_, err := protocol.Action(-1).Encode()
	assert.ErrorIs(t, err, protocol.ErrInvalidPayload)

	_, err = protocol.ValidAction(256).Encode()
	assert.ErrorIs(t, err, protocol.ErrInvalidPayload)

	_, err = protocol.Hello(model.Player(0)).Encode()
	assert.ErrorIs(t, err, protocol.ErrInvalidPayload)

	_, err = protocol.Message{Kind: protocol.Kind(42)}.Encode()
	assert.ErrorIs(t, err, protocol.ErrUnknownMessage)
}

func TestResult(t *testing.T) {
	assert.Equal(t, protocol.Win(), protocol.Result(model.RedWins, model.Red))
	assert.Equal(t, protocol.Lose(), protocol.Result(model.RedWins, model.Yellow))
	assert.Equal(t, protocol.Win(), protocol.Result(model.YellowWins, model.Yellow))
	assert.Equal(t, protocol.Draw(), protocol.Result(model.Draw, model.Red))
	assert.Equal(t, protocol.Draw(), protocol.Result(model.Draw, model.Yellow))
}
