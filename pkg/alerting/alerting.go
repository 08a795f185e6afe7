package alerting

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"chatsafety-server/pkg/version"
)

// Severity grades an alert for the notification surface
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Alert is the title/description/severity tuple handed to the notification surface
type Alert struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Severity    Severity  `json:"severity"`
	Timestamp   time.Time `json:"timestamp"`
}

// Notifier is a fire-and-forget notification channel
type Notifier interface {
	Send(alert *Alert) error
	GetName() string
	IsEnabled() bool
}

// Dispatcher fans an alert out to all configured channels. Send never blocks
// the caller on channel failures; errors are logged and dropped.
type Dispatcher struct {
	logger   *logrus.Logger
	channels []Notifier
}

// NewDispatcher creates a dispatcher over the given channels
func NewDispatcher(logger *logrus.Logger, channels ...Notifier) *Dispatcher {
	return &Dispatcher{
		logger:   logger,
		channels: channels,
	}
}

// Send delivers the alert to every enabled channel
func (d *Dispatcher) Send(alert *Alert) {
	if alert.Timestamp.IsZero() {
		alert.Timestamp = time.Now()
	}

	for _, ch := range d.channels {
		if !ch.IsEnabled() {
			continue
		}
		if err := ch.Send(alert); err != nil {
			d.logger.WithFields(logrus.Fields{
				"channel": ch.GetName(),
				"error":   err,
			}).Warn("Failed to deliver alert")
		}
	}
}

// LogNotifier writes alerts to the application log
type LogNotifier struct {
	logger *logrus.Logger
}

// NewLogNotifier creates a log-backed notification channel
func NewLogNotifier(logger *logrus.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(alert *Alert) error {
	n.logger.WithFields(logrus.Fields{
		"title":    alert.Title,
		"severity": alert.Severity,
	}).Info(alert.Description)
	return nil
}

func (n *LogNotifier) GetName() string { return "log" }

func (n *LogNotifier) IsEnabled() bool { return true }

// WebhookNotifier posts alerts to an HTTP endpoint as JSON
type WebhookNotifier struct {
	name    string
	url     string
	headers map[string]string
	enabled bool
	client  *http.Client
}

// NewWebhookNotifier creates a webhook-backed notification channel
func NewWebhookNotifier(name, url string, headers map[string]string) *WebhookNotifier {
	return &WebhookNotifier{
		name:    name,
		url:     url,
		headers: headers,
		enabled: url != "",
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (w *WebhookNotifier) Send(alert *Alert) error {
	if !w.enabled || w.url == "" {
		return fmt.Errorf("webhook channel not properly configured")
	}

	payload := map[string]interface{}{
		"alert":     alert,
		"timestamp": time.Now().Unix(),
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, w.url, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	for key, value := range w.headers {
		req.Header.Set(key, value)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}

func (w *WebhookNotifier) GetName() string { return w.name }

func (w *WebhookNotifier) IsEnabled() bool { return w.enabled }
