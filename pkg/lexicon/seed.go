package lexicon

import "context"

// StaticFetcher serves lexicon entries from an in-memory map. Used as the
// persistence collaborator in tests and when no database is configured.
type StaticFetcher map[string][]Entry

// FetchEntries implements Fetcher
func (f StaticFetcher) FetchEntries(_ context.Context, language string) ([]Entry, error) {
	return f[language], nil
}

// SeedFetcher returns a fetcher backed by the built-in seed lexicon
func SeedFetcher() StaticFetcher {
	return StaticFetcher{
		"en": {
			{Category: CategoryMessaging, Language: "en", Variant: "whatsapp", Pattern: `\bwhats\s*app\b`, Severity: 85},
			{Category: CategoryMessaging, Language: "en", Variant: "telegram", Pattern: `\btele\s*gram\b`, Severity: 85},
			{Category: CategoryMessaging, Language: "en", Variant: "signal", Pattern: `\bsignal\s+(?:me|app)\b`, Severity: 70},
			{Category: CategoryPhone, Language: "en", Variant: "call me", Pattern: `\bcall\s*me\b`, Severity: 80},
			{Category: CategoryPhone, Language: "en", Variant: "text me", Pattern: `\btext\s*me\b`, Severity: 80},
			{Category: CategoryPhone, Language: "en", Variant: "phone number", Pattern: `\b(?:\+?\d[\d\s().-]{7,}\d|phone\s*number)\b`, Severity: 90},
			{Category: CategoryHandle, Language: "en", Variant: "instagram", Pattern: `\b(?:insta(?:gram)?|ig)\b`, FuzzyKey: "instagram", Severity: 75},
			{Category: CategoryHandle, Language: "en", Variant: "snapchat", Pattern: `\bsnap(?:chat)?\b`, FuzzyKey: "snapchat", Severity: 75},
			{Category: CategoryHandle, Language: "en", Variant: "my handle", Pattern: `(?:^|\s)@[a-z0-9_.]{3,}\b`, FuzzyKey: "handle", Severity: 70},
			{Category: CategoryMeeting, Language: "en", Variant: "meet up", Pattern: `\bmeet\s*(?:up|irl)\b`, Severity: 60},
			{Category: CategoryMeeting, Language: "en", Variant: "in person", Pattern: `\bin\s*person\b`, Severity: 60},
		},
		"es": {
			{Category: CategoryMessaging, Language: "es", Variant: "whatsapp", Pattern: `\bwasap?p?\b|\bwhats\s*app\b`, FuzzyKey: "whatsapp", Severity: 85},
			{Category: CategoryPhone, Language: "es", Variant: "llamame", Pattern: `\bll[aá]mame\b`, Severity: 80},
			{Category: CategoryPhone, Language: "es", Variant: "numero de telefono", Pattern: `\bn[uú]mero\s+de\s+tel[eé]fono\b`, Severity: 90},
			{Category: CategoryMeeting, Language: "es", Variant: "en persona", Pattern: `\ben\s*persona\b`, Severity: 60},
		},
		"fr": {
			{Category: CategoryPhone, Language: "fr", Variant: "appelle moi", Pattern: `\bappelle[‑\s-]*moi\b`, Severity: 80},
			{Category: CategoryPhone, Language: "fr", Variant: "numero de telephone", Pattern: `\bnum[eé]ro\s+de\s+t[eé]l[eé]phone\b`, Severity: 90},
		},
		"de": {
			{Category: CategoryPhone, Language: "de", Variant: "ruf mich an", Pattern: `\bruf\s+mich\s+an\b`, Severity: 80},
			{Category: CategoryMeeting, Language: "de", Variant: "treffen", Pattern: `\btreffen\s+wir\s+uns\b`, FuzzyKey: "treffen", Severity: 60},
		},
		"pt": {
			{Category: CategoryPhone, Language: "pt", Variant: "me liga", Pattern: `\bme\s*liga\b`, Severity: 80},
			{Category: CategoryMessaging, Language: "pt", Variant: "whatsapp", Pattern: `\bzap\s*zap\b|\bwhats\s*app\b`, FuzzyKey: "whatsapp", Severity: 85},
		},
	}
}
