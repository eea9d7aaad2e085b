package bus_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/pmkowal/chatsnap"
	"github.com/pmkowal/chatsnap/bus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemory_SendDelivers(t *testing.T) {
	t.Parallel()

	b := bus.New()
	var got chatsnap.Message
	b.Register(chatsnap.ContextBackground, func(_ context.Context, msg chatsnap.Message) (chatsnap.Message, error) {
		got = msg
		return chatsnap.Message{Action: "ack"}, nil
	})

	msg, err := chatsnap.NewMessage("keep-alive", map[string]string{"from": "preview"})
	require.NoError(t, err)

	reply, err := b.Send(context.Background(), chatsnap.ContextBackground, msg)

	require.NoError(t, err)
	assert.Equal(t, "ack", reply.Action)
	assert.Equal(t, "keep-alive", got.Action)
}

func TestInMemory_MissingReceiverIsUnavailable(t *testing.T) {
	t.Parallel()

	b := bus.New()

	_, err := b.Send(context.Background(), chatsnap.ContextPreview, chatsnap.Message{Action: "preview-data"})

	assert.Equal(t, chatsnap.EUNAVAILABLE, chatsnap.ErrorCode(err))
}

func TestInMemory_UnregisterStopsListening(t *testing.T) {
	t.Parallel()

	b := bus.New()
	b.Register(chatsnap.ContextPage, func(context.Context, chatsnap.Message) (chatsnap.Message, error) {
		return chatsnap.Message{}, nil
	})
	b.Unregister(chatsnap.ContextPage)

	_, err := b.Send(context.Background(), chatsnap.ContextPage, chatsnap.Message{Action: "extract-chatgpt"})

	assert.Equal(t, chatsnap.EUNAVAILABLE, chatsnap.ErrorCode(err))
}

func TestInMemory_PayloadDoesNotAliasSenderBytes(t *testing.T) {
	t.Parallel()

	b := bus.New()
	var received json.RawMessage
	b.Register(chatsnap.ContextBackground, func(_ context.Context, msg chatsnap.Message) (chatsnap.Message, error) {
		received = msg.Payload
		return chatsnap.Message{}, nil
	})

	payload := []byte(`{"key":"k1"}`)
	_, err := b.Send(context.Background(), chatsnap.ContextBackground, chatsnap.Message{
		Action:  chatsnap.ActionGetConversationData,
		Payload: payload,
	})
	require.NoError(t, err)

	payload[2] = 'X' // mutate the sender's buffer after delivery

	assert.JSONEq(t, `{"key":"k1"}`, string(received))
}

func TestInMemory_ReplyPayloadDoesNotAliasHandlerBytes(t *testing.T) {
	t.Parallel()

	b := bus.New()
	retained := []byte(`{"title":"Maps and sets"}`)
	b.Register(chatsnap.ContextBackground, func(context.Context, chatsnap.Message) (chatsnap.Message, error) {
		return chatsnap.Message{Action: chatsnap.ActionPreviewData, Payload: retained}, nil
	})

	reply, err := b.Send(context.Background(), chatsnap.ContextBackground,
		chatsnap.Message{Action: chatsnap.ActionGetPreviewData})
	require.NoError(t, err)

	retained[2] = 'X' // mutate the handler's buffer after the reply returned

	assert.JSONEq(t, `{"title":"Maps and sets"}`, string(reply.Payload))
}

func TestInMemory_CanceledContext(t *testing.T) {
	t.Parallel()

	b := bus.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.Send(ctx, chatsnap.ContextBackground, chatsnap.Message{Action: "test-connection"})

	assert.Error(t, err)
	assert.NotEqual(t, chatsnap.EUNAVAILABLE, chatsnap.ErrorCode(err))
}
