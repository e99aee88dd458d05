package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	VideoPublished      = "video.published"
	VideoUpdated        = "video.updated"
	VideoDeleted        = "video.deleted"
	VideoPublishToggled = "video.publish_toggled"
)

type VideoEvent struct {
	Type        string    `json:"type"`
	VideoID     string    `json:"video_id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title,omitempty"`
	IsPublished bool      `json:"is_published"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Publisher struct {
	writer messageWriter
}

// batchTimeout bounds how long a single event waits for a batch to fill.
const batchTimeout = 10 * time.Millisecond

func NewPublisher(brokers []string, topic string) *Publisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: batchTimeout,
	}
	return &Publisher{writer: w}
}

// Publish keys messages by video id so events for one video stay ordered.
// A nil Publisher drops events.
func (p *Publisher) Publish(ctx context.Context, ev VideoEvent) error {
	if p == nil || p.writer == nil {
		return nil
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.VideoID),
		Value: b,
		Time:  ev.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(ev.Type)},
		},
	})
}

func (p *Publisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
