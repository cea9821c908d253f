package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/pk527236/ai-support-assistant/internal/config"
	"github.com/pk527236/ai-support-assistant/internal/model"
)

var ErrPublisherClosed = errors.New("events: publisher closed")

// TicketTriagedEvent is the compact record published for every handled
// ticket. Consumers that need the full report can load it by id.
type TicketTriagedEvent struct {
	TicketID         string    `json:"ticket_id"`
	Redirected       bool      `json:"redirected"`
	RedirectCategory string    `json:"redirect_category,omitempty"`
	Severity         string    `json:"severity,omitempty"`
	SeverityName     string    `json:"severity_name,omitempty"`
	TicketType       string    `json:"ticket_type,omitempty"`
	HasSolution      bool      `json:"has_solution"`
	Timestamp        time.Time `json:"timestamp"`
}

// Publisher writes triage events to a Kafka topic.
type Publisher struct {
	writer *kafka.Writer
	mu     sync.Mutex
	closed bool
}

func NewPublisher(cfg config.KafkaConfig) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Compression:  kafka.Gzip,
		RequiredAcks: kafka.RequireAll,
	}
	return &Publisher{writer: writer}
}

// TicketTriaged publishes the event for one handled ticket, keyed by
// ticket id.
func (p *Publisher) TicketTriaged(ctx context.Context, report model.TicketReport) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPublisherClosed
	}
	p.mu.Unlock()

	b, err := json.Marshal(newEvent(report))
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(report.TicketID),
		Value: b,
	})
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.writer.Close()
}

func newEvent(report model.TicketReport) TicketTriagedEvent {
	ev := TicketTriagedEvent{
		TicketID:    report.TicketID,
		Redirected:  report.Redirected,
		HasSolution: report.Solution != nil,
		Timestamp:   report.CreatedAt,
	}
	if report.Redirect != nil {
		ev.RedirectCategory = report.Redirect.Category
	}
	if report.Classification != nil {
		ev.Severity = string(report.Classification.Severity)
		ev.SeverityName = report.SeverityName
		ev.TicketType = string(report.Classification.Type)
	}
	return ev
}
