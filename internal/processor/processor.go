// Package processor runs the per-message pipeline: decide eligibility,
// gate the actor, detect the language, store the paste, then swap the
// original message for the paste link through the chat gateway.
package processor

import (
	"context"
	"time"

	"go.uber.org/zap"

	"pastebot/internal/models"
	"pastebot/internal/pastestore"
	"pastebot/internal/ratelimit"
)

const storeTimeout = 15 * time.Second

// Event is one inbound text message.
type Event struct {
	ChatID    int64
	MessageID int
	ActorID   int64
	ActorName string
	Text      string
}

// Decider is the eligibility classifier capability.
type Decider interface {
	ShouldExternalize(sample models.Sample) bool
}

// Detector is the language detection capability.
type Detector interface {
	Detect(sample models.Sample) string
}

// Store accepts content plus an optional language alias and returns a
// reachable paste handle.
type Store interface {
	CreatePaste(ctx context.Context, content, languageAlias string) (*pastestore.Paste, error)
}

// Gateway is the chat side of the pipeline: remove the original message,
// announce the paste link, or report a failure back to the chat.
type Gateway interface {
	Remove(ctx context.Context, event Event) error
	Notify(ctx context.Context, event Event, paste *pastestore.Paste, language string) error
	NotifyFailure(ctx context.Context, event Event) error
}

// Processor handles classifying messages and externalizing eligible ones.
type Processor struct {
	decider  Decider
	detector Detector
	limiter  *ratelimit.Limiter
	store    Store
	gateway  Gateway
	logger   *zap.Logger
}

// NewProcessor creates a new message processor.
func NewProcessor(decider Decider, detector Detector, limiter *ratelimit.Limiter, store Store, gateway Gateway, logger *zap.Logger) *Processor {
	return &Processor{
		decider:  decider,
		detector: detector,
		limiter:  limiter,
		store:    store,
		gateway:  gateway,
		logger:   logger,
	}
}

// HandleText runs the pipeline for one message. Failures are logged and
// contained here so one bad message never affects the next; external calls
// are attempted exactly once.
func (p *Processor) HandleText(ctx context.Context, event Event) {
	sample := models.NewSample(event.Text)

	if !p.decider.ShouldExternalize(sample) {
		p.logger.Debug("Message left inline",
			zap.Int64("chat_id", event.ChatID),
			zap.Int("length", sample.Length))
		return
	}

	// Only paste-worthy messages consume the actor's rate-limit slot. The
	// slot is spent before the store call, so a failed paste still counts.
	if !p.limiter.TryAcquire(event.ActorID) {
		p.logger.Warn("Actor is rate limited", zap.Int64("actor_id", event.ActorID))
		return
	}

	language := p.detector.Detect(sample)

	storeCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	paste, err := p.store.CreatePaste(storeCtx, event.Text, language)
	cancel()
	if err != nil {
		p.logger.Error("Failed to create paste",
			zap.Int64("actor_id", event.ActorID),
			zap.Int64("chat_id", event.ChatID),
			zap.Error(err))
		p.notifyFailure(ctx, event)
		return
	}

	// A delete failure alone does not abort the flow; the link is still
	// posted even when the original message stays.
	if err := p.gateway.Remove(ctx, event); err != nil {
		p.logger.Error("Failed to delete original message",
			zap.Int64("chat_id", event.ChatID),
			zap.Int("message_id", event.MessageID),
			zap.Error(err))
	}

	if err := p.gateway.Notify(ctx, event, paste, language); err != nil {
		p.logger.Error("Failed to send paste link",
			zap.Int64("chat_id", event.ChatID),
			zap.Error(err))
		p.notifyFailure(ctx, event)
		return
	}

	p.logger.Info("Successfully created paste",
		zap.Int64("actor_id", event.ActorID),
		zap.Int64("chat_id", event.ChatID),
		zap.String("paste_id", paste.ID),
		zap.String("language", language))
}

func (p *Processor) notifyFailure(ctx context.Context, event Event) {
	if err := p.gateway.NotifyFailure(ctx, event); err != nil {
		p.logger.Error("Failed to send failure reply",
			zap.Int64("chat_id", event.ChatID),
			zap.Error(err))
	}
}
