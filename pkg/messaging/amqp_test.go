package messaging

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func TestNewAMQPClientDefaults(t *testing.T) {
	client := NewAMQPClient(newTestLogger(), AMQPConfig{
		URL:       "amqp://localhost",
		QueueName: "chatsafety_detections",
	})

	assert.Equal(t, "chatsafety_detections", client.config.RoutingKey, "routing key defaults to queue name")
	assert.True(t, client.config.Durable)
	assert.False(t, client.config.AutoDelete)
	assert.False(t, client.IsConnected())
}

func TestConnectRejectsMissingConfig(t *testing.T) {
	client := NewAMQPClient(newTestLogger(), AMQPConfig{})

	err := client.Connect()
	assert.Error(t, err)
	assert.False(t, client.IsConnected())
}

func TestPublishWhenDisconnected(t *testing.T) {
	client := NewAMQPClient(newTestLogger(), AMQPConfig{
		URL:       "amqp://localhost",
		QueueName: "q",
	})

	err := client.PublishDetection("c1", "m1", []string{"phone"}, 0.8)
	assert.Error(t, err, "publishing without a connection must fail, not panic")
}
