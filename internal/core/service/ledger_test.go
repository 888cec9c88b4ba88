package service

import (
	"testing"

	"github.com/Wyydra/teleguild/internal/core/domain"
)

func TestQuoteLedger(t *testing.T) {
	l := NewQuoteLedger()
	relayed, original := domain.NewMessageID(), domain.NewMessageID()
	l.Record(relayed, original)

	if got, ok := l.Lookup(relayed); !ok || got != original {
		t.Fatalf("Lookup(relayed) = %v, %v", got, ok)
	}
	if _, ok := l.Lookup(original); ok {
		t.Fatalf("originals are not keys")
	}
	if _, ok := l.Lookup(domain.MessageID{}); ok {
		t.Fatalf("zero id never resolves")
	}
	if l.Len() != 1 {
		t.Fatalf("Len() = %d", l.Len())
	}
}
