package bot

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/vtmroll/vtmroll/pkg/bus"
	"github.com/vtmroll/vtmroll/pkg/logger"
	"github.com/vtmroll/vtmroll/pkg/metrics"
	"github.com/vtmroll/vtmroll/pkg/ratelimit"
)

// Loop consumes inbound messages and publishes replies.
type Loop struct {
	bus     *bus.MessageBus
	handler *Handler
	limiter *ratelimit.Limiter
	metrics *metrics.Recorder
	running atomic.Bool
}

// NewLoop accepts a nil limiter or recorder.
func NewLoop(msgBus *bus.MessageBus, handler *Handler, limiter *ratelimit.Limiter, recorder *metrics.Recorder) *Loop {
	return &Loop{
		bus:     msgBus,
		handler: handler,
		limiter: limiter,
		metrics: recorder,
	}
}

// Run blocks until ctx is done, the bus is closed or Stop is called.
func (l *Loop) Run(ctx context.Context) error {
	l.running.Store(true)
	defer l.running.Store(false)

	logger.InfoC("bot", "Roll loop started")
	for l.running.Load() {
		msg, ok := l.bus.ConsumeInbound(ctx)
		if !ok {
			break
		}
		l.process(ctx, msg)
	}
	logger.InfoC("bot", "Roll loop stopped")
	return nil
}

func (l *Loop) Stop() {
	l.running.Store(false)
}

func (l *Loop) IsRunning() bool {
	return l.running.Load()
}

func (l *Loop) process(ctx context.Context, msg bus.InboundMessage) {
	if !l.handler.Triggered(msg.Content) {
		return
	}

	requestID := uuid.NewString()
	fields := map[string]any{
		"request_id": requestID,
		"channel":    msg.Channel,
		"chat_id":    msg.ChatID,
		"sender_id":  msg.SenderID,
	}

	if !l.limiter.Allow(msg.Channel + ":" + msg.SenderID) {
		l.metrics.Throttled(msg.Channel)
		fields["tracked_senders"] = l.limiter.Tracked()
		logger.WarnCF("bot", "Command throttled", fields)
		return
	}

	reply, _ := l.handler.Handle(msg.Channel, msg.Content)
	if reply.Result != nil {
		l.metrics.Roll(msg.Channel, *reply.Result)
		fields["outcome"] = reply.Result.Outcome.String()
		fields["messy"] = reply.Result.Outcome.Messy()
		fields["successes"] = reply.Result.Tally.Successes
		fields["difficulty"] = reply.Result.Request.Difficulty
		logger.InfoCF("bot", "Roll resolved", fields)
	} else {
		l.metrics.Rejected(msg.Channel, reply.Rejection())
		fields["reason"] = reply.Rejection()
		fields["error"] = reply.Err.Error()
		logger.DebugCF("bot", "Command rejected", fields)
	}

	err := l.bus.PublishOutbound(ctx, bus.OutboundMessage{
		Channel: msg.Channel,
		ChatID:  msg.ChatID,
		ReplyTo: msg.MessageID,
		Content: reply.Content,
	})
	if err != nil {
		logger.ErrorCF("bot", "Failed to publish reply", map[string]any{
			"request_id": requestID,
			"error":      err.Error(),
		})
	}
}
