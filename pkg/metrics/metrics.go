package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

var (
	registry     *prometheus.Registry
	registryOnce sync.Once

	// Pipeline metrics
	MessagesSubmitted     *prometheus.CounterVec
	DetectionMatches      *prometheus.CounterVec
	DetectionDuration     prometheus.Histogram
	DetectionFailures     prometheus.Counter
	DisclaimersInjected   prometheus.Counter
	DisclaimersSuppressed prometheus.Counter

	// Lexicon metrics
	LexiconFetches     *prometheus.CounterVec
	LexiconFetchErrors *prometheus.CounterVec
	LexiconCacheSize   prometheus.Gauge
)

// Init initializes all metrics and registers them with Prometheus
func Init(logger *logrus.Logger) {
	registryOnce.Do(func() {
		registry = prometheus.NewRegistry()

		MessagesSubmitted = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chatsafety_messages_submitted_total",
				Help: "Total number of chat messages submitted to the pipeline",
			},
			[]string{"sender"},
		)

		DetectionMatches = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chatsafety_detection_matches_total",
				Help: "Total number of lexicon matches produced by the match engine",
			},
			[]string{"category", "match_type"},
		)

		DetectionDuration = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "chatsafety_detection_duration_seconds",
				Help:    "Time spent running detection for a single message",
				Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12), // From 0.1ms to ~400ms
			},
		)

		DetectionFailures = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "chatsafety_detection_failures_total",
				Help: "Total number of detection runs that were abandoned due to errors",
			},
		)

		DisclaimersInjected = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "chatsafety_disclaimers_injected_total",
				Help: "Total number of safety disclaimers appended to conversations",
			},
		)

		DisclaimersSuppressed = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "chatsafety_disclaimers_suppressed_total",
				Help: "Total number of disclaimers suppressed by the cooldown window",
			},
		)

		LexiconFetches = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chatsafety_lexicon_fetches_total",
				Help: "Total number of lexicon fetches from persistence",
			},
			[]string{"language"},
		)

		LexiconFetchErrors = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chatsafety_lexicon_fetch_errors_total",
				Help: "Total number of failed lexicon fetches",
			},
			[]string{"language"},
		)

		LexiconCacheSize = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "chatsafety_lexicon_cached_languages",
				Help: "Number of languages currently held in the lexicon cache",
			},
		)

		registry.MustRegister(
			MessagesSubmitted,
			DetectionMatches,
			DetectionDuration,
			DetectionFailures,
			DisclaimersInjected,
			DisclaimersSuppressed,
			LexiconFetches,
			LexiconFetchErrors,
			LexiconCacheSize,
		)

		logger.Info("Prometheus metrics initialized")
	})
}

// GetRegistry returns the Prometheus registry, or nil if Init has not been called
func GetRegistry() *prometheus.Registry {
	return registry
}

// The helpers below are safe to call before Init; components use them so that
// library consumers who never wire metrics do not have to.

// MessageSubmitted records a submitted message
func MessageSubmitted(sender string) {
	if MessagesSubmitted != nil {
		MessagesSubmitted.WithLabelValues(sender).Inc()
	}
}

// MatchRecorded records a single lexicon match
func MatchRecorded(category, matchType string) {
	if DetectionMatches != nil {
		DetectionMatches.WithLabelValues(category, matchType).Inc()
	}
}

// ObserveDetectionDuration records the duration of a detection run in seconds
func ObserveDetectionDuration(seconds float64) {
	if DetectionDuration != nil {
		DetectionDuration.Observe(seconds)
	}
}

// DetectionFailed records an abandoned detection run
func DetectionFailed() {
	if DetectionFailures != nil {
		DetectionFailures.Inc()
	}
}

// DisclaimerInjected records an appended disclaimer
func DisclaimerInjected() {
	if DisclaimersInjected != nil {
		DisclaimersInjected.Inc()
	}
}

// DisclaimerSuppressed records a disclaimer suppressed by the cooldown
func DisclaimerSuppressed() {
	if DisclaimersSuppressed != nil {
		DisclaimersSuppressed.Inc()
	}
}

// LexiconFetched records a lexicon fetch attempt
func LexiconFetched(language string) {
	if LexiconFetches != nil {
		LexiconFetches.WithLabelValues(language).Inc()
	}
}

// LexiconFetchFailed records a failed lexicon fetch
func LexiconFetchFailed(language string) {
	if LexiconFetchErrors != nil {
		LexiconFetchErrors.WithLabelValues(language).Inc()
	}
}

// SetLexiconCacheSize records the number of cached languages
func SetLexiconCacheSize(n int) {
	if LexiconCacheSize != nil {
		LexiconCacheSize.Set(float64(n))
	}
}
