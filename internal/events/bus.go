// Package events mirrors agent activity records onto a Kafka stream so
// external consumers can tail what the routing pipeline is doing.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/mathroute/pkg/models"
)

// Topic names.
const (
	TopicActivity = "mathroute.activity"
	TopicFeedback = "mathroute.feedback"
)

// KafkaConfig represents Kafka configuration
type KafkaConfig struct {
	Brokers      []string      `json:"brokers"`
	ClientID     string        `json:"client_id"`
	BatchSize    int           `json:"batch_size"`
	BatchTimeout time.Duration `json:"batch_timeout"`
}

// DefaultKafkaConfig returns default Kafka configuration
func DefaultKafkaConfig() KafkaConfig {
	return KafkaConfig{
		Brokers:      []string{"localhost:9092"},
		ClientID:     "mathroute-events",
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
	}
}

// KafkaPublisher writes activity events to Kafka.
type KafkaPublisher struct {
	brokers  []string
	producer *kafka.Writer
}

// NewKafkaPublisher creates a publisher for the activity topic.
func NewKafkaPublisher(config KafkaConfig) *KafkaPublisher {
	producer := &kafka.Writer{
		Addr:         kafka.TCP(config.Brokers...),
		Topic:        TopicActivity,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    config.BatchSize,
		BatchTimeout: config.BatchTimeout,
		Compression:  kafka.Gzip,
		Transport:    &kafka.Transport{ClientID: config.ClientID},
	}

	return &KafkaPublisher{
		brokers:  config.Brokers,
		producer: producer,
	}
}

// Publish sends one activity record. Keyed on the activity ID so
// records for the same activity land in the same partition.
func (p *KafkaPublisher) Publish(ctx context.Context, activity models.Activity) error {
	data, err := json.Marshal(activity)
	if err != nil {
		return fmt.Errorf("failed to marshal activity: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(activity.ID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "action", Value: []byte(activity.Action)},
			{Key: "source", Value: []byte(string(activity.Source))},
			{Key: "timestamp", Value: []byte(activity.CreatedAt.Format(time.RFC3339))},
		},
		Time: time.Now(),
	}

	return p.producer.WriteMessages(ctx, message)
}

// CreateTopic creates the activity topic if the broker allows it.
func (p *KafkaPublisher) CreateTopic(ctx context.Context, partitions int, replicationFactor int) error {
	conn, err := kafka.Dial("tcp", p.brokers[0])
	if err != nil {
		return fmt.Errorf("failed to connect to Kafka: %w", err)
	}
	defer conn.Close()

	topicConfig := kafka.TopicConfig{
		Topic:             TopicActivity,
		NumPartitions:     partitions,
		ReplicationFactor: replicationFactor,
	}

	if err := conn.CreateTopics(topicConfig); err != nil {
		return fmt.Errorf("failed to create topic %s: %w", TopicActivity, err)
	}

	log.Printf("Created topic %s with %d partitions and replication factor %d", TopicActivity, partitions, replicationFactor)
	return nil
}

// Ping checks Kafka connectivity
func (p *KafkaPublisher) Ping(ctx context.Context) error {
	conn, err := kafka.Dial("tcp", p.brokers[0])
	if err != nil {
		return fmt.Errorf("failed to connect to Kafka: %w", err)
	}
	defer conn.Close()

	_, err = conn.Controller()
	return err
}

// Close closes the producer.
func (p *KafkaPublisher) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close producer: %w", err)
	}
	return nil
}
