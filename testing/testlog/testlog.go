// Package testlog provides a test logger and helpers to check log output.
package testlog

import (
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
)

// Hook is a logrus hook designed for inspecting logs in test scenarios.
type Hook struct {
	sync.Mutex
	entries []*logrus.Entry
}

// New sets up a test logger that produces no output. Use the returned hook
// to observe and make assertions about what was logged.
func New() (*logrus.Logger, *Hook) {
	l := logrus.New()
	l.Out = io.Discard

	hook := new(Hook)
	l.Hooks.Add(hook)

	return l, hook
}

// Entries is a thread safe accessor for all entries.
func (t *Hook) Entries() []*logrus.Entry {
	t.Lock()
	defer t.Unlock()

	res := make([]*logrus.Entry, len(t.entries))
	for idx, e := range t.entries {
		res[idx] = &logrus.Entry{
			Logger:  e.Logger,
			Time:    e.Time,
			Data:    e.Data,
			Message: e.Message,
			Level:   e.Level,
		}
	}
	return res
}

// LastEntry returns the last entry that was logged or nil.
func (t *Hook) LastEntry() *logrus.Entry {
	t.Lock()
	defer t.Unlock()

	if i := len(t.entries) - 1; i >= 0 {
		return t.entries[i]
	}
	return nil
}

// Levels complies to the logrus.Hook interface.
func (t *Hook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire complies to the logrus.Hook interface.
func (t *Hook) Fire(e *logrus.Entry) error {
	t.Lock()
	defer t.Unlock()

	t.entries = append(t.entries, e)
	return nil
}

// String returns the string representation of all the entries cumulatively
// logged in this Hook. If isolation is needed, prefer to make a new hook
// per test case.
func (t *Hook) String() string {
	var res []string
	for _, e := range t.Entries() {
		if s, err := e.String(); err == nil {
			res = append(res, s)
		}
	}
	return strings.Join(res, " ")
}

// Reset removes all entries from this test hook.
func (t *Hook) Reset() {
	t.Lock()
	defer t.Unlock()

	t.entries = nil
}

// CheckContained verifies that at least one of the passed strings has been
// logged.
func (t *Hook) CheckContained(tb testing.TB, strs ...string) {
	tb.Helper()

	if strs == nil {
		return
	}

	for _, str := range strs {
		if strings.Contains(t.String(), str) {
			return
		}
	}

	tb.Fatalf("got entries:\n%v\nexpected to find:\n%v\n", t.String(), strs)
}

// CheckNotContained verifies that none of the passed fragments have been
// logged.
func (t *Hook) CheckNotContained(tb testing.TB, strs ...string) {
	tb.Helper()

	for _, str := range strs {
		if strings.Contains(t.String(), str) {
			tb.Fatalf("got `%s` expected none in %s", str, t.String())
		}
	}
}
