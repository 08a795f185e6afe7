package messaging

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

// DetectionEvent is published when a message is flagged by the detector
type DetectionEvent struct {
	ConversationID string    `json:"conversation_id"`
	MessageID      string    `json:"message_id"`
	Flags          []string  `json:"flags"`
	Confidence     float64   `json:"confidence"`
	Timestamp      time.Time `json:"timestamp"`
}

// AMQPConfig holds AMQP client configuration
type AMQPConfig struct {
	URL          string
	QueueName    string
	ExchangeName string
	RoutingKey   string
	Durable      bool
	AutoDelete   bool
}

// AMQPClient handles AMQP connections and detection event publishing
type AMQPClient struct {
	logger    *logrus.Logger
	config    AMQPConfig
	conn      *amqp.Connection
	channel   *amqp.Channel
	connected bool
	connMutex sync.RWMutex
	stopChan  chan struct{}
}

// NewAMQPClient creates a new AMQP client
func NewAMQPClient(logger *logrus.Logger, config AMQPConfig) *AMQPClient {
	if config.RoutingKey == "" {
		config.RoutingKey = config.QueueName
	}
	config.Durable = true
	config.AutoDelete = false

	return &AMQPClient{
		logger:   logger,
		config:   config,
		stopChan: make(chan struct{}),
	}
}

// Connect establishes a connection to the AMQP server and declares the queue
func (c *AMQPClient) Connect() error {
	c.connMutex.Lock()
	defer c.connMutex.Unlock()

	if c.connected {
		return nil
	}

	if c.config.URL == "" || c.config.QueueName == "" {
		c.logger.Warn("AMQP_URL or AMQP_QUEUE_NAME not set, AMQP functionality will be disabled")
		return fmt.Errorf("AMQP URL or queue name not configured")
	}

	conn, err := amqp.Dial(c.config.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to AMQP server: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open AMQP channel: %w", err)
	}

	_, err = channel.QueueDeclare(
		c.config.QueueName,
		c.config.Durable,
		c.config.AutoDelete,
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return fmt.Errorf("failed to declare AMQP queue: %w", err)
	}

	c.conn = conn
	c.channel = channel
	c.connected = true

	go c.monitorConnection()

	c.logger.WithFields(logrus.Fields{
		"queue":       c.config.QueueName,
		"routing_key": c.config.RoutingKey,
	}).Info("Connected to AMQP server")

	return nil
}

// monitorConnection watches for connection loss and clears connection state.
// Publishing resumes after the caller reconnects; events during an outage are
// dropped, matching the fire-and-forget contract.
func (c *AMQPClient) monitorConnection() {
	c.connMutex.RLock()
	conn := c.conn
	c.connMutex.RUnlock()
	if conn == nil {
		return
	}

	closeChan := conn.NotifyClose(make(chan *amqp.Error, 1))

	select {
	case <-c.stopChan:
		return
	case amqpErr := <-closeChan:
		c.connMutex.Lock()
		c.connected = false
		c.conn = nil
		c.channel = nil
		c.connMutex.Unlock()

		if amqpErr != nil {
			c.logger.WithField("error", amqpErr).Warn("AMQP connection lost")
		}
	}
}

// IsConnected returns the current connection status
func (c *AMQPClient) IsConnected() bool {
	c.connMutex.RLock()
	defer c.connMutex.RUnlock()
	return c.connected
}

// PublishDetection publishes a detection event. Implements chat.EventPublisher.
func (c *AMQPClient) PublishDetection(conversationID, messageID string, flags []string, confidence float64) error {
	// Recover from any panics so AMQP issues never reach the pipeline
	defer func() {
		if r := recover(); r != nil {
			c.logger.WithFields(logrus.Fields{
				"conversation_id": conversationID,
				"recover":         r,
			}).Error("Recovered from panic in AMQP PublishDetection")
		}
	}()

	event := DetectionEvent{
		ConversationID: conversationID,
		MessageID:      messageID,
		Flags:          flags,
		Confidence:     confidence,
		Timestamp:      time.Now(),
	}

	bodyBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal detection event: %w", err)
	}

	c.connMutex.RLock()
	defer c.connMutex.RUnlock()

	if !c.connected || c.channel == nil {
		return fmt.Errorf("not connected to AMQP server")
	}

	err = c.channel.Publish(
		c.config.ExchangeName,
		c.config.RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         bodyBytes,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish detection event: %w", err)
	}

	return nil
}

// Disconnect closes the AMQP connection
func (c *AMQPClient) Disconnect() {
	close(c.stopChan)

	c.connMutex.Lock()
	defer c.connMutex.Unlock()

	if c.channel != nil {
		c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.connected = false

	c.logger.Info("Disconnected from AMQP server")
}
