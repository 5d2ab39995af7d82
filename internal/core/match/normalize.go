package match

import "strings"

// Key canonicalizes free text for identity comparison: lower-cased with
// every rune outside [a-z0-9] removed. Two strings name the same identity
// iff their keys are equal. Lossy on purpose so inconsistent punctuation,
// spacing and case in human-entered titles still compare equal.
func Key(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {},
	"with": {}, "by": {},
}

// TokenSet splits text into its lowercase alphanumeric words and drops the
// stop words that carry no identity. Used by the word-overlap strategy.
func TokenSet(s string) map[string]struct{} {
	out := make(map[string]struct{})
	var word strings.Builder
	flush := func() {
		if word.Len() == 0 {
			return
		}
		w := word.String()
		word.Reset()
		if _, stop := stopWords[w]; !stop {
			out[w] = struct{}{}
		}
	}
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			word.WriteRune(r)
			continue
		}
		flush()
	}
	flush()
	return out
}

// OverlapRatio is |a ∩ b| / min(|a|, |b|); zero when either set is empty.
func OverlapRatio(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	common := 0
	for w := range small {
		if _, ok := large[w]; ok {
			common++
		}
	}
	return float64(common) / float64(len(small))
}
