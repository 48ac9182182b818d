// Package similarity implements the bilingual (FR/EN) Jaccard keyword
// similarity used throughout the coordination layer for dedup, pattern
// detection, and contradiction detection. It is the single similarity
// function used at every boundary that needs one — dream and memory-lint
// both call through here rather than rolling their own string comparisons.
package similarity

import (
	"strings"
	"unicode"
)

// stopwords is a fixed bilingual (FR/EN) stopword set. Deliberately small
// and explicit rather than pulled from an external lexicon, per the
// "no external lexicon" contract.
var stopwords = buildStopwords()

func buildStopwords() map[string]struct{} {
	words := []string{
		// English
		"the", "and", "for", "are", "but", "not", "you", "all", "any", "can",
		"had", "her", "was", "one", "our", "out", "day", "get", "has", "him",
		"his", "how", "man", "new", "now", "old", "see", "two", "way", "who",
		"boy", "did", "its", "let", "put", "say", "she", "too", "use", "that",
		"this", "with", "from", "they", "have", "been", "were", "will", "would",
		"there", "their", "what", "about", "which", "when", "make", "like",
		"into", "than", "then", "some", "could", "should", "these", "those",
		"such", "being", "does", "each", "more", "most", "other", "only",
		"over", "same", "very", "just", "also", "where", "while",
		// French
		"les", "des", "une", "est", "dans", "pour", "que", "qui", "avec",
		"sur", "pas", "par", "mais", "ses", "aux", "dont", "ete", "leur",
		"leurs", "nos", "notre", "vos", "votre", "cette", "ces", "cet", "ils",
		"elle", "elles", "son", "sont", "fait", "faire", "plus", "tout",
		"toute", "tous", "toutes", "nous", "vous", "entre", "sans", "sous",
		"donc", "alors", "ainsi", "meme", "comme", "quand", "etre", "avoir",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// tokenize extracts lowercase alphabetic tokens of length >= 3, Unicode
// aware, filters stopwords, then builds the set of unigrams plus bigrams of
// adjacent non-stopword tokens.
func tokenize(s string) map[string]struct{} {
	var words []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() == 0 {
			return
		}
		w := cur.String()
		cur.Reset()
		if len([]rune(w)) < 3 {
			return
		}
		words = append(words, w)
	}
	for _, r := range s {
		if unicode.IsLetter(r) {
			cur.WriteRune(unicode.ToLower(r))
		} else {
			flush()
		}
	}
	flush()

	set := make(map[string]struct{})
	var prevKept string
	havePrev := false
	for _, w := range words {
		_, stop := stopwords[w]
		if stop {
			havePrev = false
			continue
		}
		set[w] = struct{}{}
		if havePrev {
			set[prevKept+" "+w] = struct{}{}
		}
		prevKept = w
		havePrev = true
	}
	return set
}

// Keywords returns the tokenized unigram+bigram keyword set for s, exported
// for callers (e.g. the dream engine's recurring-pattern pass) that need to
// inspect individual keywords rather than a plain similarity score.
func Keywords(s string) map[string]struct{} {
	return tokenize(s)
}

// Jaccard returns the Jaccard similarity of the tokenized keyword sets of a
// and b: |A∩B| / |A∪B|, or 0 if either set is empty. Deterministic,
// symmetric, case-insensitive.
func Jaccard(a, b string) float64 {
	setA := tokenize(a)
	setB := tokenize(b)
	return JaccardSets(setA, setB)
}

// JaccardSets computes Jaccard similarity directly over two precomputed
// keyword sets, avoiding re-tokenization in hot loops (e.g. dream's O(n^2)
// cross-connection pass).
func JaccardSets(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(large) < len(small) {
		small, large = large, small
	}
	intersection := 0
	for k := range small {
		if _, ok := large[k]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
