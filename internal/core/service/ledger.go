package service

import "github.com/Wyydra/teleguild/internal/core/domain"

// QuoteLedger maps the id of a relayed copy back to the message it was
// copied from, so replies across rooms quote the true origin. It lives as
// long as one call and is not safe for concurrent use.
type QuoteLedger struct {
	origins map[domain.MessageID]domain.MessageID
}

func NewQuoteLedger() *QuoteLedger {
	return &QuoteLedger{origins: make(map[domain.MessageID]domain.MessageID)}
}

func (l *QuoteLedger) Record(relayed, original domain.MessageID) {
	l.origins[relayed] = original
}

func (l *QuoteLedger) Lookup(relayed domain.MessageID) (domain.MessageID, bool) {
	if relayed.IsZero() {
		return domain.MessageID{}, false
	}
	original, ok := l.origins[relayed]
	return original, ok
}

func (l *QuoteLedger) Len() int {
	return len(l.origins)
}
