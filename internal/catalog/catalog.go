// Package catalog provides a simple, deterministic, concurrency-safe
// in-memory lookup over the guild's craftable item catalog. The catalog is
// parsed from a Markdown file maintained by the guild's officers (see
// parse.go) and is read-only after construction, so it is safe for
// concurrent use by handlers without locking.
//
//   - No logging in the library (callers decide how/what to log)
//   - Functional options (Option pattern)
//   - Unicode-aware tokenization
//   - Deterministic scoring and sorting (stable order for ties)
//
// Scoring uses Jaccard similarity between the query token set and each
// entry's token set: score = |Q ∩ E| / |Q ∪ E|.
package catalog

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Entry is a single craftable item in the catalog.
type Entry struct {
	ItemID     string `json:"itemId"`
	Label      string `json:"label"`
	Profession string `json:"profession"`
	GearSlot   string `json:"gearSlot"`
}

// Match is a ranked catalog entry with its similarity score.
type Match struct {
	Entry Entry   `json:"entry"`
	Score float64 `json:"score"`
}

// Index is the minimal interface implemented by catalog indices.
type Index interface {
	// TopK returns up to k best-matching entries for the query.
	TopK(query string, k int) []Match
	// ByItemID resolves an exact item id.
	ByItemID(id string) (Entry, bool)
	// Len reports the number of indexed entries.
	Len() int
}

// ----------------------------------------------------------------------------
// Options

type Option func(*config)

type config struct {
	maxEntries int
	minScore   float64
}

func defaultConfig() config {
	return config{
		maxEntries: 0,
		minScore:   0,
	}
}

// WithMaxEntries caps how many catalog rows are indexed.
func WithMaxEntries(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxEntries = n
		}
	}
}

// WithMinScore drops matches scoring below the floor.
func WithMinScore(s float64) Option {
	return func(c *config) {
		if s > 0 {
			c.minScore = s
		}
	}
}

// ----------------------------------------------------------------------------
// Implementation

type indexedEntry struct {
	entry  Entry
	tokens map[string]struct{}
	tLen   int
}

type index struct {
	cfg     config
	entries []indexedEntry
	byID    map[string]Entry
}

// titleCaser normalizes display labels; item ids stay lowercase slugs.
var titleCaser = cases.Title(language.English)

// NewIndex builds an Index from parsed entries. Labels are title-cased for
// display; matching is case-insensitive either way.
func NewIndex(entries []Entry, opts ...Option) Index {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}

	idx := &index{
		cfg:     cfg,
		entries: make([]indexedEntry, 0, len(entries)),
		byID:    make(map[string]Entry, len(entries)),
	}
	for _, e := range entries {
		e.ItemID = strings.ToLower(strings.TrimSpace(e.ItemID))
		if e.ItemID == "" {
			continue
		}
		e.Label = strings.TrimSpace(e.Label)
		if e.Label == "" {
			e.Label = titleCaser.String(strings.ReplaceAll(e.ItemID, "-", " "))
		}
		e.Profession = strings.ToLower(strings.TrimSpace(e.Profession))
		e.GearSlot = strings.ToLower(strings.TrimSpace(e.GearSlot))

		if _, dup := idx.byID[e.ItemID]; dup {
			continue
		}

		toks := tokenize(e.ItemID + " " + e.Label + " " + e.Profession + " " + e.GearSlot)
		if len(toks) == 0 {
			continue
		}
		idx.entries = append(idx.entries, indexedEntry{entry: e, tokens: toks, tLen: len(toks)})
		idx.byID[e.ItemID] = e
		if cfg.maxEntries > 0 && len(idx.entries) >= cfg.maxEntries {
			break
		}
	}
	return idx
}

// TopK returns up to k best-matching entries by Jaccard similarity.
func (i *index) TopK(q string, k int) []Match {
	if len(i.entries) == 0 || strings.TrimSpace(q) == "" {
		return nil
	}
	if k <= 0 {
		k = 5
	}
	qTokens := tokenize(q)
	if len(qTokens) == 0 {
		return nil
	}
	qLen := len(qTokens)

	buf := make([]Match, 0, min(k*4, len(i.entries)))
	for _, e := range i.entries {
		over := overlap(qTokens, e.tokens)
		if over == 0 {
			continue
		}
		union := float64(qLen + e.tLen - over)
		if union <= 0 {
			continue
		}
		score := float64(over) / union
		if score < i.cfg.minScore || score <= 0 {
			continue
		}
		buf = append(buf, Match{Entry: e.entry, Score: score})
	}
	if len(buf) == 0 {
		return nil
	}

	sort.SliceStable(buf, func(a, b int) bool {
		if buf[a].Score != buf[b].Score {
			return buf[a].Score > buf[b].Score
		}
		return buf[a].Entry.ItemID < buf[b].Entry.ItemID
	})

	if k > len(buf) {
		k = len(buf)
	}
	return buf[:k]
}

// ByItemID resolves an exact item id (case-insensitive).
func (i *index) ByItemID(id string) (Entry, bool) {
	e, ok := i.byID[strings.ToLower(strings.TrimSpace(id))]
	return e, ok
}

// Len reports the number of indexed entries.
func (i *index) Len() int { return len(i.entries) }

// ----------------------------------------------------------------------------
// Helpers

var wordRE = regexp.MustCompile(`\p{L}+\p{N}*`)

func tokenize(s string) map[string]struct{} {
	words := wordRE.FindAllString(strings.ToLower(s), -1)
	if len(words) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		if w != "" {
			out[w] = struct{}{}
		}
	}
	return out
}

func overlap(a, b map[string]struct{}) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	n := 0
	if len(a) > len(b) {
		a, b = b, a
	}
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
