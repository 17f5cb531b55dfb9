// Package publish hands the finalized selection batch to the render
// layer over Kafka. The engine does not render anything itself; this is
// the boundary where its output leaves the process.
package publish

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/IBM/sarama"

	"github.com/rajconnects/rss-to-linkedin/types"
)

// SelectionMessage is the wire payload the render layer consumes.
type SelectionMessage struct {
	RunID       string                  `json:"run_id"`
	Date        string                  `json:"date"`
	GeneratedAt time.Time               `json:"generated_at"`
	Assignments []types.AngleAssignment `json:"assignments"`
}

// Producer publishes selection batches to a Kafka topic.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
}

// ProducerConfig holds Kafka producer configuration.
type ProducerConfig struct {
	Brokers []string
	Topic   string
}

// NewProducer creates a synchronous Kafka producer. Synchronous because
// the run must not claim success before the hand-off is acknowledged.
func NewProducer(cfg ProducerConfig) (*Producer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_6_0_0
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return &Producer{producer: producer, topic: cfg.Topic}, nil
}

// Publish sends one selection batch. The message key is the run date so
// the render layer can compact reruns of the same day.
func (p *Producer) Publish(msg SelectionMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode selection message: %w", err)
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(msg.Date),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		return fmt.Errorf("publish selection batch: %w", err)
	}

	log.Printf("✅ Published selection batch %s to %s (partition %d, offset %d)",
		msg.RunID, p.topic, partition, offset)
	return nil
}

// Close shuts the producer down.
func (p *Producer) Close() error {
	return p.producer.Close()
}
