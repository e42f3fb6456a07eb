package daemon

import (
	"testing"

	"github.com/modcabinet/cabinetsorter/internal/config"
)

func TestRequestRunCollapsesPendingTriggers(t *testing.T) {
	d := New(&config.Config{}, nil, nil)

	d.requestRun("interval")
	d.requestRun("filesystem")
	d.requestRun("filesystem")

	select {
	case reason := <-d.trigger:
		if reason != "interval" {
			t.Errorf("reason = %q, want first request to win", reason)
		}
	default:
		t.Fatal("no trigger pending")
	}

	select {
	case reason := <-d.trigger:
		t.Fatalf("unexpected second trigger %q", reason)
	default:
	}
}
