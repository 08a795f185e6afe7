package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"chatsafety-server/pkg/alerting"
	"chatsafety-server/pkg/detection"
	"chatsafety-server/pkg/errors"
	"chatsafety-server/pkg/lexicon"
	"chatsafety-server/pkg/metrics"
)

// DefaultConfidenceThreshold is the minimum confidence that triggers a disclaimer
const DefaultConfidenceThreshold = 0.5

// EventPublisher receives detection events for downstream consumers.
// Publishing is fire-and-forget from the pipeline's point of view.
type EventPublisher interface {
	PublishDetection(conversationID, messageID string, flags []string, confidence float64) error
}

// PipelineConfig holds pipeline configuration
type PipelineConfig struct {
	// Language is the conversation locale used for lexicon selection and
	// disclaimer localization
	Language string

	// ConfidenceThreshold is the minimum detection confidence that triggers
	// a disclaimer, exclusive
	ConfidenceThreshold float64
}

// Pipeline orchestrates message ingestion: it appends the message, runs
// detection, and conditionally injects a rate-limited safety disclaimer.
// Detection failures never block message visibility.
type Pipeline struct {
	logger    *logrus.Logger
	store     ConversationStore
	lexicons  *lexicon.Store
	engine    *detection.Engine
	scheduler *DisclaimerScheduler
	notifier  *alerting.Dispatcher
	publisher EventPublisher
	clock     Clock

	language  string
	threshold float64
}

// NewPipeline wires the chat safety pipeline. notifier and publisher may be
// nil; clock defaults to time.Now.
func NewPipeline(
	logger *logrus.Logger,
	config *PipelineConfig,
	store ConversationStore,
	lexicons *lexicon.Store,
	engine *detection.Engine,
	scheduler *DisclaimerScheduler,
	notifier *alerting.Dispatcher,
	publisher EventPublisher,
	clock Clock,
) *Pipeline {
	language := lexicon.DefaultLanguage
	threshold := DefaultConfidenceThreshold
	if config != nil {
		if config.Language != "" {
			language = config.Language
		}
		if config.ConfidenceThreshold > 0 {
			threshold = config.ConfidenceThreshold
		}
	}

	if clock == nil {
		clock = time.Now
	}

	return &Pipeline{
		logger:    logger,
		store:     store,
		lexicons:  lexicons,
		engine:    engine,
		scheduler: scheduler,
		notifier:  notifier,
		publisher: publisher,
		clock:     clock,
		language:  language,
		threshold: threshold,
	}
}

// Submit appends a message to the conversation and runs evasion detection on
// it. The appended user message is returned; a disclaimer, when injected, is
// appended behind it. Only the append itself can fail.
func (p *Pipeline) Submit(ctx context.Context, conversationID, content string, sender Sender) (Message, error) {
	if !sender.Valid() {
		return Message{}, errors.NewInvalidInput(fmt.Sprintf("unknown sender %q", sender))
	}

	msg := Message{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		Sender:         sender,
		Content:        content,
		Timestamp:      p.clock(),
	}

	if err := p.store.Append(ctx, msg); err != nil {
		return Message{}, errors.Wrap(err, "failed to append message", map[string]interface{}{
			"conversation_id": conversationID,
		})
	}
	metrics.MessageSubmitted(string(sender))

	// System messages are never scanned; everything user-authored is.
	if sender != SenderSystem {
		p.inspect(ctx, conversationID, msg)
	}

	return msg, nil
}

// Messages exposes the conversation history for rendering
func (p *Pipeline) Messages(conversationID string) []Message {
	return p.store.Messages(conversationID)
}

// inspect runs detection and, when warranted, injects a disclaimer.
// All errors on this path are absorbed; a failed detection is no signal.
func (p *Pipeline) inspect(ctx context.Context, conversationID string, msg Message) {
	defer func() {
		if r := recover(); r != nil {
			metrics.DetectionFailed()
			p.logger.WithFields(logrus.Fields{
				"conversation_id": conversationID,
				"recover":         r,
			}).Error("Recovered from panic in detection, treating message as unflagged")
		}
	}()

	start := time.Now()
	result := p.detect(ctx, msg.Content)
	metrics.ObserveDetectionDuration(time.Since(start).Seconds())

	if !result.HasFlags() {
		return
	}

	p.logger.WithFields(logrus.Fields{
		"conversation_id": conversationID,
		"flags":           result.Flags,
		"confidence":      result.Confidence,
		"matches":         len(result.Matches),
	}).Debug("Evasion keywords detected")

	if result.Confidence <= p.threshold {
		return
	}

	// Check-then-record is one atomic unit per conversation so concurrent
	// detections inject at most one disclaimer per window.
	now := p.clock()
	if !p.scheduler.TryAcquire(conversationID, now) {
		metrics.DisclaimerSuppressed()
		return
	}

	disclaimer := Message{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		Sender:         SenderSystem,
		Content:        DisclaimerText(p.language),
		Timestamp:      now,
		IsDisclaimer:   true,
		KeywordFlags:   result.Flags,
	}

	if err := p.store.Append(ctx, disclaimer); err != nil {
		p.logger.WithFields(logrus.Fields{
			"conversation_id": conversationID,
			"error":           err,
		}).Error("Failed to append disclaimer message")
		return
	}
	metrics.DisclaimerInjected()

	p.notify(result)
	p.publish(conversationID, msg.ID, result)
}

// detect runs the pure detection chain: normalize, load lexicons, match,
// aggregate. Empty input short-circuits before any lexicon access.
func (p *Pipeline) detect(ctx context.Context, content string) detection.DetectionResult {
	if len(detection.Normalize(content)) == 0 {
		return detection.DetectionResult{}
	}

	primaryLang := p.lexicons.NormalizeLanguage(p.language)
	primary := p.lexicons.GetLexicon(ctx, primaryLang)

	var fallback []lexicon.Entry
	if primaryLang != p.lexicons.DefaultLanguage() {
		fallback = p.lexicons.GetLexicon(ctx, p.lexicons.DefaultLanguage())
	}

	matches := p.engine.Match(content, primary, fallback)
	return detection.Aggregate(matches)
}

// notify raises the user-facing toast via the notification surface
func (p *Pipeline) notify(result detection.DetectionResult) {
	if p.notifier == nil {
		return
	}

	severity := alerting.SeverityWarning
	if result.Confidence >= 0.9 {
		severity = alerting.SeverityCritical
	}

	p.notifier.Send(&alerting.Alert{
		Title:       "Stay safe on the platform",
		Description: DisclaimerText(p.language),
		Severity:    severity,
	})
}

// publish emits a detection event for downstream consumers
func (p *Pipeline) publish(conversationID, messageID string, result detection.DetectionResult) {
	if p.publisher == nil {
		return
	}

	flags := make([]string, 0, len(result.Flags))
	for _, f := range result.Flags {
		flags = append(flags, string(f))
	}

	if err := p.publisher.PublishDetection(conversationID, messageID, flags, result.Confidence); err != nil {
		p.logger.WithFields(logrus.Fields{
			"conversation_id": conversationID,
			"error":           err,
		}).Warn("Failed to publish detection event")
	}
}
