package testlog

import "testing"

func TestHookCapturesEntries(t *testing.T) {
	logger, hook := New()

	logger.WithField("at", "bind").Info("listening")
	logger.Warn("slow request")

	if got := len(hook.Entries()); got != 2 {
		t.Fatalf("got %d entries, want 2", got)
	}

	last := hook.LastEntry()
	if last == nil || last.Message != "slow request" {
		t.Fatalf("got last entry %+v, want the warning", last)
	}

	hook.CheckContained(t, "listening")
	hook.CheckNotContained(t, "never logged")

	hook.Reset()
	if got := len(hook.Entries()); got != 0 {
		t.Fatalf("got %d entries after Reset, want 0", got)
	}
}
