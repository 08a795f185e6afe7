package lexicon

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"chatsafety-server/pkg/metrics"
)

// Store caches lexicon entries per language. A language is fetched from the
// persistence collaborator at most once per process; concurrent callers for the
// same uncached language share a single in-flight fetch. Fetch failures are
// negative-cached as an empty lexicon so the detection path degrades to
// "no matches" instead of surfacing errors.
type Store struct {
	logger          *logrus.Logger
	fetcher         Fetcher
	supported       []string
	defaultLanguage string

	mu       sync.Mutex
	cache    map[string][]Entry
	inflight map[string]chan struct{}
}

// StoreConfig holds lexicon store configuration
type StoreConfig struct {
	SupportedLanguages []string
	DefaultLanguage    string
}

// NewStore creates a lexicon store backed by the given fetcher
func NewStore(logger *logrus.Logger, fetcher Fetcher, config *StoreConfig) *Store {
	supported := DefaultSupportedLanguages
	defaultLanguage := DefaultLanguage
	if config != nil {
		if len(config.SupportedLanguages) > 0 {
			supported = config.SupportedLanguages
		}
		if config.DefaultLanguage != "" {
			defaultLanguage = config.DefaultLanguage
		}
	}

	return &Store{
		logger:          logger,
		fetcher:         fetcher,
		supported:       supported,
		defaultLanguage: defaultLanguage,
		cache:           make(map[string][]Entry),
		inflight:        make(map[string]chan struct{}),
	}
}

// DefaultLanguage returns the store's canonical fallback language
func (s *Store) DefaultLanguage() string {
	return s.defaultLanguage
}

// NormalizeLanguage resolves an arbitrary tag against the store's supported set
func (s *Store) NormalizeLanguage(tag string) string {
	return NormalizeLanguage(tag, s.supported, s.defaultLanguage)
}

// GetLexicon returns the entries for the given language, fetching and caching
// them on first use. The returned slice must not be mutated by callers.
func (s *Store) GetLexicon(ctx context.Context, language string) []Entry {
	lang := s.NormalizeLanguage(language)

	for {
		s.mu.Lock()
		if entries, ok := s.cache[lang]; ok {
			s.mu.Unlock()
			return entries
		}

		if done, ok := s.inflight[lang]; ok {
			s.mu.Unlock()
			select {
			case <-done:
				// Loaded by the other caller; re-read the cache.
				continue
			case <-ctx.Done():
				s.logger.WithFields(logrus.Fields{
					"language": lang,
					"error":    ctx.Err(),
				}).Warn("Context done while waiting for lexicon fetch")
				return nil
			}
		}

		done := make(chan struct{})
		s.inflight[lang] = done
		s.mu.Unlock()

		s.fetch(ctx, lang, done)
	}
}

// fetch performs the single fetch for a language and publishes the result.
// The cache entry is written in one step, fully-applied data only.
func (s *Store) fetch(ctx context.Context, lang string, done chan struct{}) {
	metrics.LexiconFetched(lang)

	entries, err := s.fetcher.FetchEntries(ctx, lang)
	if err != nil {
		metrics.LexiconFetchFailed(lang)
		s.logger.WithFields(logrus.Fields{
			"language": lang,
			"error":    err,
		}).Error("Failed to fetch lexicon, caching empty lexicon for language")
		entries = nil
	}

	sanitized := sanitize(entries)

	s.mu.Lock()
	s.cache[lang] = sanitized
	delete(s.inflight, lang)
	metrics.SetLexiconCacheSize(len(s.cache))
	s.mu.Unlock()
	close(done)

	if err == nil {
		s.logger.WithFields(logrus.Fields{
			"language": lang,
			"entries":  len(sanitized),
		}).Info("Lexicon loaded")
	}
}

// CachedLanguages returns the languages currently held in the cache
func (s *Store) CachedLanguages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	langs := make([]string, 0, len(s.cache))
	for lang := range s.cache {
		langs = append(langs, lang)
	}
	return langs
}
