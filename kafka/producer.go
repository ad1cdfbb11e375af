package kafka

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/IBM/sarama"

	"econtent/types"
)

// PublisherConfig holds Kafka publisher configuration
type PublisherConfig struct {
	Brokers []string
	Topic   string
}

// Publisher sends completed post records to a Kafka topic for the Telegram
// posting bot to consume.
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewPublisher creates a synchronous Kafka publisher
func NewPublisher(config PublisherConfig) (*Publisher, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_6_0_0
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForLocal
	saramaConfig.Producer.Retry.Max = 3

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &Publisher{producer: producer, topic: config.Topic}, nil
}

// PublishRecord sends one output record as JSON, keyed by news ID so posts
// for the same story land in the same partition.
func (p *Publisher) PublishRecord(rec *types.OutputRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(rec.Task.NewsID),
		Value: sarama.ByteEncoder(data),
	})
	if err != nil {
		return fmt.Errorf("failed to publish record: %w", err)
	}

	log.Printf("Published post %s to %s (partition=%d offset=%d)", rec.Task.NewsID, p.topic, partition, offset)
	return nil
}

// Close shuts down the underlying producer
func (p *Publisher) Close() error {
	return p.producer.Close()
}
