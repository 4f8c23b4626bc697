// Package query remembers search terms and suggests them back while typing.
package query

import (
	"strings"
	"sync"

	"github.com/listentui/listentui/filesystem"
	"github.com/listentui/listentui/key"
	"github.com/listentui/listentui/where"
	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

type record struct {
	Rank  int    `json:"rank"`
	Query string `json:"query"`
}

var cacher = gache.New[map[string]*record](
	&gache.Options{
		Path:       where.Queries(),
		FileSystem: &filesystem.GacheFs{},
	},
)

var (
	mu          sync.Mutex
	suggestions = make(map[string][]string)
)

func load() map[string]*record {
	cached, expired, err := cacher.Get()
	if expired || err != nil || cached == nil {
		return make(map[string]*record)
	}
	return cached
}

// Remember records a search term or raises its rank by weight.
func Remember(q string, weight int) error {
	q = sanitize(q)
	if q == "" {
		return nil
	}

	mu.Lock()
	defer mu.Unlock()

	cached := load()
	if r, ok := cached[q]; ok {
		r.Rank += weight
	} else {
		cached[q] = &record{Rank: weight, Query: q}
	}

	clear(suggestions)
	return cacher.Set(cached)
}

// Forget drops a remembered term.
func Forget(q string) error {
	mu.Lock()
	defer mu.Unlock()

	cached := load()
	delete(cached, sanitize(q))

	clear(suggestions)
	return cacher.Set(cached)
}

// Suggest returns the best suggestion for a partial term.
func Suggest(q string) mo.Option[string] {
	many := SuggestMany(q)
	if len(many) == 0 {
		return mo.None[string]()
	}
	return mo.Some(many[0])
}

// SuggestMany returns the remembered terms fuzzy matching q, highest rank first.
// Equal ranks are ordered by their edit distance to q.
func SuggestMany(q string) []string {
	if !viper.GetBool(key.SearchShowQuerySuggestions) {
		return []string{}
	}

	q = sanitize(q)

	mu.Lock()
	defer mu.Unlock()

	if prev, ok := suggestions[q]; ok {
		return prev
	}

	records := lo.Filter(lo.Values(load()), func(r *record, _ int) bool {
		return fuzzy.Match(q, r.Query)
	})

	slices.SortFunc(records, func(a, b *record) int {
		if a.Rank != b.Rank {
			return b.Rank - a.Rank
		}
		return lo.CoalesceOrEmpty(
			levenshtein.Distance(q, a.Query)-levenshtein.Distance(q, b.Query),
			strings.Compare(a.Query, b.Query),
		)
	})

	result := lo.Map(records, func(r *record, _ int) string { return r.Query })
	suggestions[q] = result
	return result
}

func sanitize(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}
