// Package countries holds the closed set of proxy countries recognized by
// scrappey.com.
package countries

import (
	_ "embed"

	"scrappey-go/lib/textutil"

	"github.com/antzucaro/matchr"
	"github.com/titanous/json5"
)

//go:embed countries.json5
var countriesFile []byte

// suggestions below this similarity are considered noise
const minSuggestionSimilarity = 0.9

var (
	labels     []string
	registered map[string]struct{}
)

func init() {
	err := json5.Unmarshal(countriesFile, &labels)
	if err != nil {
		panic(err)
	}
	registered = make(map[string]struct{}, len(labels))
	for _, l := range labels {
		registered[l] = struct{}{}
	}
}

// IsRecognized reports whether label is one of the registered proxy
// countries. The match is exact (case-sensitive), the remote service only
// accepts the labels as written.
func IsRecognized(label string) bool {
	_, ok := registered[label]
	return ok
}

// All returns every registered label in registry order.
func All() []string {
	out := make([]string, len(labels))
	copy(out, labels)
	return out
}

// Suggest returns the registered label most similar to the given one, case,
// whitespace and punctuation are ignored.
func Suggest(label string) (string, bool) {
	folded := textutil.Fold(label)
	if folded == "" {
		return "", false
	}

	var best string
	var bestSimilarity float64
	for _, l := range labels {
		similarity := matchr.JaroWinkler(folded, textutil.Fold(l), false)
		if similarity > bestSimilarity {
			bestSimilarity = similarity
			best = l
		}
	}
	if bestSimilarity < minSuggestionSimilarity {
		return "", false
	}
	return best, true
}
