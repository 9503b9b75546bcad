package channels

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"github.com/vtmroll/vtmroll/pkg/bus"
	"github.com/vtmroll/vtmroll/pkg/config"
	"github.com/vtmroll/vtmroll/pkg/logger"
)

const telegramMaxMessageLength = 4096

type TelegramChannel struct {
	*BaseChannel
	bot      *telego.Bot
	config   config.TelegramConfig
	username string

	mu          sync.Mutex
	stopPolling context.CancelFunc
}

func NewTelegramChannel(cfg config.TelegramConfig, msgBus *bus.MessageBus) (*TelegramChannel, error) {
	var opts []telego.BotOption

	if cfg.Proxy != "" {
		proxyURL, parseErr := url.Parse(cfg.Proxy)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid proxy URL %q: %w", cfg.Proxy, parseErr)
		}
		opts = append(opts, telego.WithHTTPClient(&http.Client{
			Transport: &http.Transport{
				Proxy: http.ProxyURL(proxyURL),
			},
		}))
	}

	bot, err := telego.NewBot(cfg.Token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return &TelegramChannel{
		BaseChannel: NewBaseChannel("telegram", msgBus, cfg.AllowFrom),
		bot:         bot,
		config:      cfg,
	}, nil
}

func (c *TelegramChannel) MaxMessageLength() int { return telegramMaxMessageLength }

func (c *TelegramChannel) Start(ctx context.Context) error {
	logger.InfoC("telegram", "Starting Telegram bot (polling mode)")

	pollCtx, cancel := context.WithCancel(ctx)
	updates, err := c.bot.UpdatesViaLongPolling(pollCtx, &telego.GetUpdatesParams{
		Timeout: 30,
	})
	if err != nil {
		cancel()
		return fmt.Errorf("failed to start long polling: %w", err)
	}

	c.mu.Lock()
	c.stopPolling = cancel
	c.mu.Unlock()

	c.username = c.bot.Username()
	c.setRunning(true)
	logger.InfoCF("telegram", "Telegram bot connected", map[string]any{
		"username": c.username,
	})

	go func() {
		for {
			select {
			case <-pollCtx.Done():
				return
			case update, ok := <-updates:
				if !ok {
					logger.InfoC("telegram", "Updates channel closed")
					c.setRunning(false)
					return
				}
				c.handleUpdate(pollCtx, update)
			}
		}
	}()

	return nil
}

func (c *TelegramChannel) Stop(ctx context.Context) error {
	logger.InfoC("telegram", "Stopping Telegram bot")
	c.setRunning(false)

	c.mu.Lock()
	if c.stopPolling != nil {
		c.stopPolling()
		c.stopPolling = nil
	}
	c.mu.Unlock()
	return nil
}

func (c *TelegramChannel) Send(ctx context.Context, msg bus.OutboundMessage) error {
	if !c.IsRunning() {
		return fmt.Errorf("telegram bot not running")
	}

	chatID, err := strconv.ParseInt(msg.ChatID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid chat ID: %w", err)
	}
	if msg.Content == "" {
		return nil
	}

	tgMsg := tu.Message(tu.ID(chatID), msg.Content)
	tgMsg.ParseMode = telego.ModeHTML
	if replyTo, err := strconv.Atoi(msg.ReplyTo); err == nil {
		tgMsg.ReplyParameters = &telego.ReplyParameters{MessageID: replyTo, AllowSendingWithoutReply: true}
	}

	if _, err := c.bot.SendMessage(ctx, tgMsg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}

func (c *TelegramChannel) handleUpdate(ctx context.Context, update telego.Update) {
	message := update.Message
	if message == nil || message.From == nil || message.Text == "" {
		return
	}

	user := message.From
	senderID := strconv.FormatInt(user.ID, 10)
	if user.Username != "" {
		senderID += "|" + user.Username
	}

	logger.DebugCF("telegram", "Received message", map[string]any{
		"sender_id": senderID,
		"chat_id":   message.Chat.ID,
	})

	c.HandleMessage(ctx, bus.InboundMessage{
		SenderID:  senderID,
		ChatID:    strconv.FormatInt(message.Chat.ID, 10),
		MessageID: strconv.Itoa(message.MessageID),
		Content:   stripMention(message.Text, c.username),
		Metadata: map[string]string{
			"username":  user.Username,
			"chat_type": message.Chat.Type,
		},
	})
}

// stripMention rewrites a leading "/cmd@username" to "/cmd" so group
// commands addressed to this bot parse like direct ones.
func stripMention(text, username string) string {
	if username == "" {
		return text
	}
	suffix := "@" + username
	end := strings.IndexFunc(text, unicode.IsSpace)
	if end < 0 {
		end = len(text)
	}
	if first := text[:end]; strings.HasSuffix(first, suffix) {
		return strings.TrimSuffix(first, suffix) + text[end:]
	}
	return text
}
