package svclog

import (
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/stephenhillier/promexporter/testing/testlog"
)

func TestLoggerEmitsAppAndDeployData(t *testing.T) {
	cfg := Config{
		AppName: "sushi",
		Deploy:  "production",
	}
	logger := NewLogger(cfg)
	hook := test.NewLocal(logger.(*log.Entry).Logger)
	logger.Info("message")
	entry := hook.LastEntry()

	if got := entry.Data["app"]; got != "sushi" {
		t.Fatalf("want sushi, got: %s", got)
	}
	if got := entry.Data["deploy"]; got != "production" {
		t.Fatalf("want production, got: %s", got)
	}
	if got, ok := entry.Data["instance"]; ok {
		t.Fatalf("want nothing, got instance=%s", got)
	}
}

func TestLoggerEmitsInstanceData(t *testing.T) {
	cfg := Config{
		AppName:  "sushi",
		Deploy:   "production",
		Instance: "web.1",
	}
	logger := NewLogger(cfg)
	hook := test.NewLocal(logger.(*log.Entry).Logger)
	logger.Info("message")
	entry := hook.LastEntry()

	if got := entry.Data["instance"]; got != "web.1" {
		t.Fatalf("want web.1, got: %s", got)
	}
}

func TestSampleLogger(t *testing.T) {
	expectedLimit := 10
	burstWindow := time.Millisecond * 50

	logger, hook := testlog.New()
	sampler := NewSampleLogger(logger, expectedLimit, burstWindow)
	timer := time.NewTimer(burstWindow)

	go func() {
		for i := 0; i < 1000; i++ {
			sampler.Printf("message")
		}
	}()

	<-timer.C
	if len(hook.Entries()) != expectedLimit {
		t.Fatalf("want %d, got %d", expectedLimit, len(hook.Entries()))
	}
}
