package lexicon

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

// countingFetcher counts fetches per language and can delay or fail
type countingFetcher struct {
	entries map[string][]Entry
	delay   time.Duration
	err     error
	calls   int64
}

func (f *countingFetcher) FetchEntries(_ context.Context, language string) ([]Entry, error) {
	atomic.AddInt64(&f.calls, 1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.entries[language], nil
}

func TestStore_FetchOncePerLanguage(t *testing.T) {
	fetcher := &countingFetcher{
		entries: map[string][]Entry{
			"en": {{Category: CategoryPhone, Language: "en", Variant: "call me", Pattern: `\bcall\s*me\b`, Severity: 80}},
		},
	}
	store := NewStore(newTestLogger(), fetcher, nil)

	first := store.GetLexicon(context.Background(), "en")
	require.Len(t, first, 1)

	second := store.GetLexicon(context.Background(), "en")
	require.Len(t, second, 1)

	assert.Equal(t, int64(1), atomic.LoadInt64(&fetcher.calls), "second lookup must be served from cache")
}

func TestStore_ConcurrentCallersShareOneFetch(t *testing.T) {
	fetcher := &countingFetcher{
		entries: map[string][]Entry{
			"en": {{Category: CategoryPhone, Language: "en", Variant: "call me", Pattern: `\bcall\s*me\b`, Severity: 80}},
		},
		delay: 50 * time.Millisecond,
	}
	store := NewStore(newTestLogger(), fetcher, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			entries := store.GetLexicon(context.Background(), "en")
			assert.Len(t, entries, 1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), atomic.LoadInt64(&fetcher.calls), "concurrent callers must share a single fetch")
}

func TestStore_NegativeCachesFetchFailure(t *testing.T) {
	fetcher := &countingFetcher{err: errors.New("persistence unreachable")}
	store := NewStore(newTestLogger(), fetcher, nil)

	entries := store.GetLexicon(context.Background(), "en")
	assert.Empty(t, entries, "failed fetch must behave as an empty lexicon")

	entries = store.GetLexicon(context.Background(), "en")
	assert.Empty(t, entries)

	assert.Equal(t, int64(1), atomic.LoadInt64(&fetcher.calls), "failure must be negative-cached, not retried")
}

func TestStore_LanguageTagNormalization(t *testing.T) {
	fetcher := &countingFetcher{
		entries: map[string][]Entry{
			"pt": {{Category: CategoryPhone, Language: "pt", Variant: "me liga", Pattern: `\bme\s*liga\b`, Severity: 80}},
		},
	}
	store := NewStore(newTestLogger(), fetcher, nil)

	// pt-BR, PT and pt all resolve to the same cache slot
	assert.Len(t, store.GetLexicon(context.Background(), "pt-BR"), 1)
	assert.Len(t, store.GetLexicon(context.Background(), "PT"), 1)
	assert.Len(t, store.GetLexicon(context.Background(), "pt"), 1)

	assert.Equal(t, int64(1), atomic.LoadInt64(&fetcher.calls))
	assert.Equal(t, []string{"pt"}, store.CachedLanguages())
}

func TestStore_SeverityClampedAtLoad(t *testing.T) {
	fetcher := StaticFetcher{
		"en": {{Category: CategoryPhone, Language: "en", Variant: "call me", Pattern: `x`, Severity: 400}},
	}
	store := NewStore(newTestLogger(), fetcher, nil)

	entries := store.GetLexicon(context.Background(), "en")
	require.Len(t, entries, 1)
	assert.Equal(t, 100, entries[0].Severity)
}
