package channels

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/vtmroll/vtmroll/pkg/bus"
	"github.com/vtmroll/vtmroll/pkg/logger"
)

// Channel is a chat transport with an explicit lifecycle.
type Channel interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Send(ctx context.Context, msg bus.OutboundMessage) error
	IsRunning() bool
}

// MessageLengthProvider is implemented by channels that cap message length.
type MessageLengthProvider interface {
	MaxMessageLength() int
}

// BaseChannel carries what every transport shares: its name, the bus, the
// sender allow list and the running flag.
type BaseChannel struct {
	name      string
	bus       *bus.MessageBus
	allowList []string
	running   atomic.Bool
}

func NewBaseChannel(name string, msgBus *bus.MessageBus, allowList []string) *BaseChannel {
	return &BaseChannel{
		name:      name,
		bus:       msgBus,
		allowList: allowList,
	}
}

func (c *BaseChannel) Name() string { return c.name }

func (c *BaseChannel) IsRunning() bool { return c.running.Load() }

func (c *BaseChannel) setRunning(running bool) { c.running.Store(running) }

// IsAllowed matches a sender against the allow list. Senders may be compound
// "id|username"; entries may be an id, "@username" or a compound value.
// An empty list allows everyone.
func (c *BaseChannel) IsAllowed(senderID string) bool {
	if len(c.allowList) == 0 {
		return true
	}

	id, username, _ := strings.Cut(senderID, "|")
	for _, allowed := range c.allowList {
		if allowed == senderID {
			return true
		}
		if name, ok := strings.CutPrefix(allowed, "@"); ok {
			if username != "" && name == username {
				return true
			}
			continue
		}
		allowedID, allowedName, _ := strings.Cut(allowed, "|")
		if allowedID == id {
			return true
		}
		if allowedName != "" && allowedName == username {
			return true
		}
	}
	return false
}

// HandleMessage publishes an inbound message if the sender is allowed.
func (c *BaseChannel) HandleMessage(ctx context.Context, msg bus.InboundMessage) {
	if !c.IsAllowed(msg.SenderID) {
		logger.DebugCF(c.name, "Message rejected by allowlist", map[string]any{
			"sender_id": msg.SenderID,
		})
		return
	}

	msg.Channel = c.name
	if err := c.bus.PublishInbound(ctx, msg); err != nil {
		logger.WarnCF(c.name, "Failed to publish inbound message", map[string]any{
			"sender_id": msg.SenderID,
			"error":     err.Error(),
		})
	}
}

// splitMessage splits long messages into chunks of at most limit runes,
// preferring newline and then space boundaries.
func splitMessage(content string, limit int) []string {
	var messages []string
	runes := []rune(content)

	for len(runes) > 0 {
		if len(runes) <= limit {
			messages = append(messages, string(runes))
			break
		}

		msgEnd := findLastRuneNewline(runes[:limit], 200)
		if msgEnd <= 0 {
			msgEnd = findLastRuneSpace(runes[:limit], 100)
		}
		if msgEnd <= 0 {
			msgEnd = limit
		}

		messages = append(messages, string(runes[:msgEnd]))
		runes = []rune(strings.TrimSpace(string(runes[msgEnd:])))
	}

	return messages
}

// findLastRuneNewline finds the last newline within the last N runes.
func findLastRuneNewline(runes []rune, searchWindow int) int {
	searchStart := max(len(runes)-searchWindow, 0)
	for i := len(runes) - 1; i >= searchStart; i-- {
		if runes[i] == '\n' {
			return i
		}
	}
	return -1
}

// findLastRuneSpace finds the last space within the last N runes.
func findLastRuneSpace(runes []rune, searchWindow int) int {
	searchStart := max(len(runes)-searchWindow, 0)
	for i := len(runes) - 1; i >= searchStart; i-- {
		if runes[i] == ' ' || runes[i] == '\t' {
			return i
		}
	}
	return -1
}
