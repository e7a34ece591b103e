package extractor

import (
	"fmt"
	"regexp"

	lru "github.com/hashicorp/golang-lru/v2"
)

const patternCacheSize = 32

// patterns caches compiled locator expressions keyed by keyword and brackets.
// The set of keywords in practice is tiny (defineProps, defineEmits), so the
// bound only matters for callers that pass arbitrary keywords.
var patterns = mustPatternCache()

func mustPatternCache() *lru.Cache[string, *regexp.Regexp] {
	cache, err := lru.New[string, *regexp.Regexp](patternCacheSize)
	if err != nil {
		panic(fmt.Sprintf("failed to create pattern cache: %v", err))
	}
	return cache
}

// blockPattern returns the expression for `[const name = ]keyword(<open>...<close>)`.
//
// The argument run is non-greedy and stops at the first closing bracket that
// is directly followed by `)`. Nesting is not tracked.
func blockPattern(keyword string, b Brackets) *regexp.Regexp {
	key := keyword + string([]byte{b.Open, b.Close})
	if re, ok := patterns.Get(key); ok {
		return re
	}

	open := regexp.QuoteMeta(string(b.Open))
	closing := regexp.QuoteMeta(string(b.Close))
	re := regexp.MustCompile(
		`(?:const\s+([\w$]+)\s*=\s*)?` + regexp.QuoteMeta(keyword) +
			`\(\s*` + open + `([\s\S]*?)` + closing + `\s*\)`)

	patterns.Add(key, re)
	return re
}

// Locate finds the first `keyword(` call whose argument is wrapped in b.
func Locate(text, keyword string, b Brackets) (BlockSpan, bool) {
	m := blockPattern(keyword, b).FindStringSubmatchIndex(text)
	if m == nil {
		return BlockSpan{}, false
	}

	span := BlockSpan{
		Start:      m[0],
		End:        m[1],
		Inner:      text[m[4]:m[5]],
		InnerStart: m[4],
	}
	if m[2] >= 0 {
		span.Binding = text[m[2]:m[3]]
	}
	return span, true
}
