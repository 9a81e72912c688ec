package events

import (
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKafkaPublisherConfiguresWriter(t *testing.T) {
	publisher := NewKafkaPublisher(DefaultKafkaConfig())
	defer publisher.Close()

	assert.Equal(t, TopicActivity, publisher.producer.Topic)

	transport, ok := publisher.producer.Transport.(*kafka.Transport)
	require.True(t, ok)
	assert.Equal(t, "mathroute-events", transport.ClientID)
}
