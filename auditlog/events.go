package auditlog

import (
	"encoding/json"
	"log"
	"os"
	"strings"

	"github.com/IBM/sarama"

	"marketflow/config"
	"marketflow/types"
)

// Publisher emits one Kafka event per completed activation so downstream
// consumers can react without polling the log file. All methods are nil-safe
// so an unconfigured publisher is a silent no-op.
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewPublisherFromEnv connects a sync producer when KAFKA_BROKERS is set
// (comma-separated). Returns nil when unconfigured or unreachable.
func NewPublisherFromEnv() *Publisher {
	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		log.Println("Kafka not configured; skipping activation events")
		return nil
	}
	topic := config.GetEnvOrDefault("KAFKA_ACTIVATION_TOPIC", "marketflow.activations")

	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_6_0_0
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(strings.Split(brokers, ","), saramaConfig)
	if err != nil {
		log.Printf("Warning: Kafka producer connection failed, activation events disabled: %v", err)
		return nil
	}

	log.Printf("✅ Kafka producer started (topic: %s)", topic)
	return &Publisher{producer: producer, topic: topic}
}

// NewPublisher wires an explicit producer, used by tests.
func NewPublisher(producer sarama.SyncProducer, topic string) *Publisher {
	return &Publisher{producer: producer, topic: topic}
}

// Publish sends the record keyed by entry id so per-entry ordering holds.
func (p *Publisher) Publish(result *types.ActivationResult) error {
	if p == nil {
		return nil
	}

	b, err := json.Marshal(result)
	if err != nil {
		return err
	}

	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(result.EntryID),
		Value: sarama.ByteEncoder(b),
	})
	return err
}

func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.producer.Close()
}
