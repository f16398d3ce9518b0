package calculator

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSessionsCollectorTracksStore(t *testing.T) {
	store := NewStore(time.Minute, 0)
	collector := NewSessionsCollector(store)

	if got := testutil.ToFloat64(collector); got != 0 {
		t.Fatalf("expected 0 sessions, got %v", got)
	}

	id, _, _ := store.Create()
	_, _, _ = store.Create()

	if got := testutil.ToFloat64(collector); got != 2 {
		t.Fatalf("expected 2 sessions, got %v", got)
	}

	_ = store.Delete(id)

	if got := testutil.ToFloat64(collector); got != 1 {
		t.Fatalf("expected 1 session, got %v", got)
	}
}

func TestInitMetrics(t *testing.T) {
	if err := InitMetrics(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if intentCounter == nil || intentHistogram == nil || errorCounter == nil || resultGauge == nil || historyCounter == nil {
		t.Fatal("expected every instrument to be initialised")
	}
}
