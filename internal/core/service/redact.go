package service

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/Wyydra/teleguild/internal/core/domain"
)

// ContentFilter masks forbidden phrases and gates media.
//
// Matching is exact and case-sensitive. The input is scanned left to right
// and matches never overlap; where several phrases match at the same
// position the longest one wins, ties going to the lexically smaller phrase.
// Each match is replaced by one mask rune per rune of the match.
type ContentFilter struct {
	pattern    *regexp.Regexp
	mask       string
	allowMedia bool
}

func NewContentFilter(phrases []string, mask rune, allowMedia bool) *ContentFilter {
	if mask == 0 {
		mask = domain.DefaultMaskRune
	}
	f := &ContentFilter{mask: string(mask), allowMedia: allowMedia}

	seen := make(map[string]bool, len(phrases))
	var uniq []string
	for _, p := range phrases {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		uniq = append(uniq, p)
	}
	if len(uniq) == 0 {
		return f
	}

	// regexp alternation is leftmost-first, so order decides the winner
	sort.Slice(uniq, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(uniq[i]), utf8.RuneCountInString(uniq[j])
		if li != lj {
			return li > lj
		}
		return uniq[i] < uniq[j]
	})
	quoted := make([]string, len(uniq))
	for i, p := range uniq {
		quoted[i] = regexp.QuoteMeta(p)
	}
	f.pattern = regexp.MustCompile(strings.Join(quoted, "|"))
	return f
}

func NewContentFilterFromPolicy(p domain.CallPolicy) *ContentFilter {
	return NewContentFilter(p.ForbiddenPhrases, p.MaskRune, p.AllowMedia)
}

func (f *ContentFilter) Redact(s string) string {
	if f.pattern == nil {
		return s
	}
	return f.pattern.ReplaceAllStringFunc(s, func(m string) string {
		return strings.Repeat(f.mask, utf8.RuneCountInString(m))
	})
}

// Admit returns domain.ErrMediaDisallowed for media when media is off.
func (f *ContentFilter) Admit(msg domain.Message) error {
	if !f.allowMedia && msg.HasMedia() {
		return domain.ErrMediaDisallowed
	}
	return nil
}
