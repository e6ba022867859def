package metrics

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestTally_RecordAndReset(t *testing.T) {
	tally := New()
	tally.Record(EventItemDone)
	tally.Record(EventItemDone)
	tally.Record(EventItemFailed)
	tally.Record(EventPreviewReady)

	if got := tally.Count(EventItemDone); got != 2 {
		t.Fatalf("expected 2 done, got %d", got)
	}
	if got := tally.Count(EventItemFailed); got != 1 {
		t.Fatalf("expected 1 failed, got %d", got)
	}

	tally.ResetBatch()
	if tally.Count(EventItemDone) != 0 || tally.Count(EventItemFailed) != 0 {
		t.Fatalf("expected item counters cleared")
	}
	if tally.Count(EventPreviewReady) != 1 {
		t.Fatalf("expected preview counter kept")
	}
}

func TestTally_LogSummary(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	tally := New()
	tally.Record(EventItemDone)
	tally.Record(EventItemFailed)

	tally.LogSummary(zap.New(core))

	entries := logs.FilterMessage("batch summary").All()
	if len(entries) != 1 {
		t.Fatalf("expected one summary entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["done"] != int64(1) || fields["failed"] != int64(1) {
		t.Fatalf("unexpected summary fields: %v", fields)
	}
}
