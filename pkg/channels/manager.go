package channels

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/vtmroll/vtmroll/pkg/bus"
	"github.com/vtmroll/vtmroll/pkg/config"
	"github.com/vtmroll/vtmroll/pkg/logger"
)

const defaultChannelQueueSize = 100

type channelWorker struct {
	ch    Channel
	queue chan bus.OutboundMessage
	done  chan struct{}
}

// Manager owns the channels' lifecycle and routes outbound messages from the
// bus to a per-channel worker.
type Manager struct {
	channels     map[string]Channel
	workers      map[string]*channelWorker
	bus          *bus.MessageBus
	dispatchTask *asyncTask
	mu           sync.RWMutex
}

type asyncTask struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func NewManager(msgBus *bus.MessageBus) *Manager {
	return &Manager{
		channels: make(map[string]Channel),
		workers:  make(map[string]*channelWorker),
		bus:      msgBus,
	}
}

// NewManagerFromConfig creates every channel enabled in cfg.
func NewManagerFromConfig(cfg *config.Config, msgBus *bus.MessageBus) (*Manager, error) {
	m := NewManager(msgBus)
	logger.InfoC("channels", "Initializing channel manager")

	if cfg.Channels.Discord.Enabled && cfg.Channels.Discord.Token != "" {
		ch, err := NewDiscordChannel(cfg.Channels.Discord, msgBus)
		if err != nil {
			return nil, err
		}
		m.RegisterChannel(ch)
	}

	if cfg.Channels.Telegram.Enabled && cfg.Channels.Telegram.Token != "" {
		ch, err := NewTelegramChannel(cfg.Channels.Telegram, msgBus)
		if err != nil {
			return nil, err
		}
		m.RegisterChannel(ch)
	}

	logger.InfoCF("channels", "Channel initialization completed", map[string]any{
		"enabled_channels": len(m.channels),
	})
	return m, nil
}

func (m *Manager) RegisterChannel(channel Channel) {
	m.mu.Lock()
	defer m.mu.Unlock()
	name := channel.Name()
	m.channels[name] = channel
	m.workers[name] = &channelWorker{
		ch:    channel,
		queue: make(chan bus.OutboundMessage, defaultChannelQueueSize),
		done:  make(chan struct{}),
	}
}

// StartAll fails if any channel fails to start. Channels that did start, and
// the failing one, are stopped again.
func (m *Manager) StartAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.channels) == 0 {
		return fmt.Errorf("no channels enabled")
	}

	logger.InfoC("channels", "Starting all channels")

	var started []Channel
	for name, channel := range m.channels {
		logger.InfoCF("channels", "Starting channel", map[string]any{
			"channel": name,
		})
		if err := channel.Start(ctx); err != nil {
			_ = channel.Stop(ctx)
			for _, ch := range started {
				_ = ch.Stop(ctx)
			}
			return fmt.Errorf("start %s: %w", name, err)
		}
		started = append(started, channel)
	}

	dispatchCtx, cancel := context.WithCancel(ctx)
	m.dispatchTask = &asyncTask{cancel: cancel, done: make(chan struct{})}

	for name, w := range m.workers {
		go m.runWorker(dispatchCtx, name, w)
	}
	go m.dispatchOutbound(dispatchCtx, m.dispatchTask.done)

	logger.InfoC("channels", "All channels started")
	return nil
}

func (m *Manager) StopAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	logger.InfoC("channels", "Stopping all channels")

	if m.dispatchTask != nil {
		m.dispatchTask.cancel()
		<-m.dispatchTask.done
		m.dispatchTask = nil

		for _, w := range m.workers {
			close(w.queue)
		}
		for _, w := range m.workers {
			<-w.done
		}
	}

	var firstErr error
	for name, channel := range m.channels {
		logger.InfoCF("channels", "Stopping channel", map[string]any{
			"channel": name,
		})
		if err := channel.Stop(ctx); err != nil {
			logger.ErrorCF("channels", "Error stopping channel", map[string]any{
				"channel": name,
				"error":   err.Error(),
			})
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	logger.InfoC("channels", "All channels stopped")
	return firstErr
}

// runWorker delivers outbound messages for a single channel, splitting
// messages that exceed the channel's maximum message length.
func (m *Manager) runWorker(ctx context.Context, name string, w *channelWorker) {
	defer close(w.done)
	for msg := range w.queue {
		if ctx.Err() != nil {
			continue
		}
		chunks := []string{msg.Content}
		if mlp, ok := w.ch.(MessageLengthProvider); ok && mlp.MaxMessageLength() > 0 {
			chunks = splitMessage(msg.Content, mlp.MaxMessageLength())
		}
		for i, chunk := range chunks {
			chunkMsg := msg
			chunkMsg.Content = chunk
			if i > 0 {
				chunkMsg.ReplyTo = ""
			}
			if err := w.ch.Send(ctx, chunkMsg); err != nil {
				logger.ErrorCF("channels", "Error sending message", map[string]any{
					"channel": name,
					"chat_id": msg.ChatID,
					"error":   err.Error(),
				})
				break
			}
		}
	}
}

func (m *Manager) dispatchOutbound(ctx context.Context, done chan struct{}) {
	defer close(done)
	logger.InfoC("channels", "Outbound dispatcher started")

	for {
		msg, ok := m.bus.SubscribeOutbound(ctx)
		if !ok {
			logger.InfoC("channels", "Outbound dispatcher stopped")
			return
		}

		w, exists := m.workers[msg.Channel]
		if !exists {
			logger.WarnCF("channels", "Unknown channel for outbound message", map[string]any{
				"channel": msg.Channel,
			})
			continue
		}

		select {
		case w.queue <- msg:
		case <-ctx.Done():
			return
		}
	}
}

// GetStatus reports whether each channel is running.
func (m *Manager) GetStatus() map[string]bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	status := make(map[string]bool, len(m.channels))
	for name, channel := range m.channels {
		status[name] = channel.IsRunning()
	}
	return status
}

func (m *Manager) GetEnabledChannels() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.channels))
	for name := range m.channels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
