package channels

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/vtmroll/vtmroll/pkg/bus"
	"github.com/vtmroll/vtmroll/pkg/config"
	"github.com/vtmroll/vtmroll/pkg/logger"
)

const (
	discordMaxMessageLength = 2000
	sendTimeout             = 10 * time.Second
)

type DiscordChannel struct {
	*BaseChannel
	session *discordgo.Session
	config  config.DiscordConfig
	ctx     context.Context
}

func NewDiscordChannel(cfg config.DiscordConfig, msgBus *bus.MessageBus) (*DiscordChannel, error) {
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentGuildMessages |
		discordgo.IntentDirectMessages |
		discordgo.IntentMessageContent

	return &DiscordChannel{
		BaseChannel: NewBaseChannel("discord", msgBus, cfg.AllowFrom),
		session:     session,
		config:      cfg,
		ctx:         context.Background(),
	}, nil
}

func (c *DiscordChannel) MaxMessageLength() int { return discordMaxMessageLength }

func (c *DiscordChannel) Start(ctx context.Context) error {
	logger.InfoC("discord", "Starting Discord bot")

	c.ctx = ctx
	c.session.AddHandler(c.handleMessage)

	if err := c.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}

	c.setRunning(true)

	botUser, err := c.session.User("@me")
	if err != nil {
		c.setRunning(false)
		_ = c.session.Close()
		return fmt.Errorf("failed to get bot user: %w", err)
	}
	logger.InfoCF("discord", "Discord bot connected", map[string]any{
		"username": botUser.Username,
		"user_id":  botUser.ID,
	})

	return nil
}

func (c *DiscordChannel) Stop(ctx context.Context) error {
	logger.InfoC("discord", "Stopping Discord bot")
	c.setRunning(false)

	if err := c.session.Close(); err != nil {
		return fmt.Errorf("failed to close discord session: %w", err)
	}

	return nil
}

func (c *DiscordChannel) Send(ctx context.Context, msg bus.OutboundMessage) error {
	if !c.IsRunning() {
		return fmt.Errorf("discord bot not running")
	}
	if msg.ChatID == "" {
		return fmt.Errorf("channel ID is empty")
	}
	if msg.Content == "" {
		return nil
	}

	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		var err error
		if msg.ReplyTo != "" {
			_, err = c.session.ChannelMessageSendReply(msg.ChatID, msg.Content, &discordgo.MessageReference{
				MessageID: msg.ReplyTo,
				ChannelID: msg.ChatID,
			})
		} else {
			_, err = c.session.ChannelMessageSend(msg.ChatID, msg.Content)
		}
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send discord message: %w", err)
		}
		return nil
	case <-sendCtx.Done():
		return fmt.Errorf("send message timeout: %w", sendCtx.Err())
	}
}

func (c *DiscordChannel) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m == nil || m.Message == nil || m.Author == nil {
		return
	}

	// Never answer our own replies.
	if s.State != nil && s.State.User != nil && m.Author.ID == s.State.User.ID {
		return
	}

	if m.Content == "" {
		return
	}

	logger.DebugCF("discord", "Received message", map[string]any{
		"sender_id":  m.Author.ID,
		"channel_id": m.ChannelID,
	})

	c.HandleMessage(c.ctx, bus.InboundMessage{
		SenderID:  m.Author.ID,
		ChatID:    m.ChannelID,
		MessageID: m.ID,
		Content:   m.Content,
		Metadata: map[string]string{
			"username": m.Author.Username,
			"guild_id": m.GuildID,
			"is_dm":    fmt.Sprintf("%t", m.GuildID == ""),
		},
	})
}
