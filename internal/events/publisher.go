// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/tomtom215/grubsync/internal/config"
	"github.com/tomtom215/grubsync/internal/logging"
	"github.com/tomtom215/grubsync/internal/metrics"
	"github.com/tomtom215/grubsync/internal/models"
)

// ErrQueueFull is returned by Store when the publisher cannot keep up.
var ErrQueueFull = errors.New("event queue full")

// Writer is the subset of *kafka.Writer the publisher needs.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewKafkaWriter creates a writer for cfg that hashes keys to partitions.
func NewKafkaWriter(cfg config.KafkaConfig) *kafka.Writer {
	batchTimeout := cfg.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = time.Second
	}
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           batchTimeout,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		Transport:              &kafka.Transport{ClientID: cfg.ClientID},
	}
}

// Publisher queues recommendation events and writes them to Kafka.
type Publisher struct {
	writer       Writer
	queue        chan kafka.Message
	writeTimeout time.Duration
	logger       zerolog.Logger
	name         string
}

// NewPublisher creates a publisher with a queue of queueSize messages.
func NewPublisher(w Writer, queueSize int) *Publisher {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Publisher{
		writer:       w,
		queue:        make(chan kafka.Message, queueSize),
		writeTimeout: 10 * time.Second,
		logger:       logging.WithComponent("events"),
		name:         "event-publisher",
	}
}

// Name identifies the publisher as a result sink.
func (p *Publisher) Name() string { return "kafka" }

// Store encodes the event and enqueues it. It never blocks; a full queue
// drops the event and returns ErrQueueFull.
func (p *Publisher) Store(_ context.Context, r *models.RecommendationResult) error {
	payload, err := json.Marshal(NewRecommendationGenerated(r))
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(r.GroupID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(TypeRecommendationGenerated)},
		},
	}

	select {
	case p.queue <- msg:
		metrics.EventQueueDepth.Set(float64(len(p.queue)))
		return nil
	default:
		metrics.RecordEventPublish("dropped")
		return ErrQueueFull
	}
}

// Serve implements suture.Service. It writes queued events until ctx is
// canceled, then flushes what is left with a bounded deadline.
func (p *Publisher) Serve(ctx context.Context) error {
	p.logger.Info().Int("queue_size", cap(p.queue)).Msg("event publisher starting")

	for {
		select {
		case <-ctx.Done():
			p.flush()
			p.logger.Info().Msg("event publisher shutting down")
			return ctx.Err()
		case msg := <-p.queue:
			metrics.EventQueueDepth.Set(float64(len(p.queue)))
			p.write(ctx, msg)
		}
	}
}

func (p *Publisher) write(ctx context.Context, msg kafka.Message) {
	writeCtx, cancel := context.WithTimeout(ctx, p.writeTimeout)
	defer cancel()

	if err := p.writer.WriteMessages(writeCtx, msg); err != nil {
		metrics.RecordEventPublish("error")
		p.logger.Warn().Err(err).Str("group_id", string(msg.Key)).Msg("Failed to publish event")
		return
	}
	metrics.RecordEventPublish("ok")
}

// flush writes every queued message on a fresh context.
func (p *Publisher) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), p.writeTimeout)
	defer cancel()

	for {
		select {
		case msg := <-p.queue:
			p.write(ctx, msg)
		default:
			metrics.EventQueueDepth.Set(0)
			return
		}
	}
}

// Close closes the underlying writer. Call it after the supervisor stops.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// String returns the service name for logging.
func (p *Publisher) String() string {
	return p.name
}
