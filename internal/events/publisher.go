package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// Publisher hands envelopes to kafka without making the HTTP caller wait.
// Write errors are logged and dropped: notification delivery must never fail
// a committed checkout. A nil *Publisher is a no-op, so the binary runs
// without a broker configured.
type Publisher struct {
	w     *kafkago.Writer
	inbox chan kafkago.Message
	done  chan struct{}
}

func NewPublisher(brokers []string, topic string, buf int) *Publisher {
	return &Publisher{
		w: &kafkago.Writer{
			Addr:         kafkago.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafkago.Hash{},
			RequiredAcks: kafkago.RequireAll,
		},
		inbox: make(chan kafkago.Message, buf),
		done:  make(chan struct{}),
	}
}

// Start drains the inbox on its own goroutine until ctx is cancelled.
func (p *Publisher) Start(ctx context.Context) {
	if p == nil {
		return
	}
	go func() {
		defer close(p.done)
		for {
			select {
			case <-ctx.Done():
				_ = p.w.Close()
				return
			case m := <-p.inbox:
				if err := p.w.WriteMessages(context.Background(), m); err != nil {
					log.Printf("[EVENTS] publish failed: %v", err)
				}
			}
		}
	}()
}

// Publish queues the envelope without blocking. The message is keyed so all
// events of one order keep their order on the topic. When the inbox is full
// the envelope is dropped and logged, never surfaced to the caller.
func (p *Publisher) Publish(key string, env Envelope) {
	if p == nil {
		return
	}
	value, err := json.Marshal(env)
	if err != nil {
		log.Printf("[EVENTS] marshal %s failed: %v", env.EventType, err)
		return
	}
	m := kafkago.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
		Headers: []kafkago.Header{
			{Key: "x-event-type", Value: []byte(env.EventType)},
		},
	}
	select {
	case p.inbox <- m:
	default:
		log.Printf("[EVENTS] inbox full, dropping %s for key %s", env.EventType, key)
	}
}

// WaitClosed blocks until the drain goroutine has exited.
func (p *Publisher) WaitClosed() {
	if p == nil {
		return
	}
	<-p.done
}
