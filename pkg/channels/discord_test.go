package channels

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vtmroll/vtmroll/pkg/bus"
	"github.com/vtmroll/vtmroll/pkg/config"
)

func newTestDiscord(t *testing.T, allow ...string) (*DiscordChannel, *bus.MessageBus) {
	t.Helper()
	msgBus := bus.NewMessageBus()
	t.Cleanup(msgBus.Close)

	ch, err := NewDiscordChannel(config.DiscordConfig{Token: "test-token", AllowFrom: allow}, msgBus)
	require.NoError(t, err)
	ch.session.State.User = &discordgo.User{ID: "bot-id"}
	return ch, msgBus
}

func discordMessage(authorID, content string) *discordgo.MessageCreate {
	return &discordgo.MessageCreate{Message: &discordgo.Message{
		ID:        "m-1",
		ChannelID: "chan-1",
		GuildID:   "guild-1",
		Content:   content,
		Author:    &discordgo.User{ID: authorID, Username: "nosferatu"},
	}}
}

func TestNewDiscordChannel_Intents(t *testing.T) {
	ch, _ := newTestDiscord(t)

	assert.Equal(t, "discord", ch.Name())
	assert.Equal(t, discordMaxMessageLength, ch.MaxMessageLength())
	assert.NotZero(t, ch.session.Identify.Intents&discordgo.IntentMessageContent)
}

func TestDiscordHandleMessage_Publishes(t *testing.T) {
	ch, msgBus := newTestDiscord(t)

	ch.handleMessage(ch.session, discordMessage("user-1", "/vtm5e 5 2 3"))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	msg, ok := msgBus.ConsumeInbound(ctx)
	require.True(t, ok)

	assert.Equal(t, "discord", msg.Channel)
	assert.Equal(t, "user-1", msg.SenderID)
	assert.Equal(t, "chan-1", msg.ChatID)
	assert.Equal(t, "m-1", msg.MessageID)
	assert.Equal(t, "/vtm5e 5 2 3", msg.Content)
	assert.Equal(t, "false", msg.Metadata["is_dm"])
}

func TestDiscordHandleMessage_IgnoresSelfAndEmpty(t *testing.T) {
	ch, msgBus := newTestDiscord(t)

	ch.handleMessage(ch.session, discordMessage("bot-id", "/vtm5e 5 2 3"))
	ch.handleMessage(ch.session, discordMessage("user-1", ""))
	ch.handleMessage(ch.session, &discordgo.MessageCreate{Message: &discordgo.Message{Content: "no author"}})
	ch.handleMessage(ch.session, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if msg, ok := msgBus.ConsumeInbound(ctx); ok {
		t.Fatalf("expected nothing published, got %+v", msg)
	}
}

func TestDiscordHandleMessage_AllowList(t *testing.T) {
	ch, msgBus := newTestDiscord(t, "user-2")

	ch.handleMessage(ch.session, discordMessage("user-1", "/vtm5e 1 0 1"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, ok := msgBus.ConsumeInbound(ctx)
	assert.False(t, ok)
}

func TestDiscordSend_NotRunning(t *testing.T) {
	ch, _ := newTestDiscord(t)

	err := ch.Send(context.Background(), bus.OutboundMessage{ChatID: "chan-1", Content: "hi"})
	assert.EqualError(t, err, "discord bot not running")
}

func TestDiscordSend_Validation(t *testing.T) {
	ch, _ := newTestDiscord(t)
	ch.setRunning(true)

	assert.EqualError(t, ch.Send(context.Background(), bus.OutboundMessage{Content: "hi"}), "channel ID is empty")
	assert.NoError(t, ch.Send(context.Background(), bus.OutboundMessage{ChatID: "chan-1"}))
}
