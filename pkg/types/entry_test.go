package types

import (
	"testing"
	"time"
)

func TestLogKeyFoldsInDirection(t *testing.T) {
	emit := NewEventEntry("w", "s", time.Now(), "info", "m", "", "tick", EventEmit, nil)
	recv := NewEventEntry("w", "s", time.Now(), "info", "m", "", "tick", EventReceive, nil)
	if emit.LogKey() == recv.LogKey() {
		t.Fatalf("expected emit and receive to have distinct log keys, both got %q", emit.LogKey())
	}
}

func TestLogKeyFoldsInComponentAndLevel(t *testing.T) {
	a := NewCommandEntry("worker-a", "s", time.Now(), "info", "m", "", "rebalance", nil)
	b := NewCommandEntry("worker-b", "s", time.Now(), "info", "m", "", "rebalance", nil)
	if a.LogKey() == b.LogKey() {
		t.Fatalf("expected different components to produce distinct log keys, both got %q", a.LogKey())
	}

	warnLevel := NewCommandEntry("worker-a", "s", time.Now(), "warn", "m", "", "rebalance", nil)
	if a.LogKey() == warnLevel.LogKey() {
		t.Fatalf("expected different levels to produce distinct log keys, both got %q", a.LogKey())
	}
}

func TestDirectionMapping(t *testing.T) {
	send := NewRequestEntry("w", "s", time.Now(), "info", "m", "", "fetch", "id", "", RequestSend, nil, 0, false)
	recv := NewRequestEntry("w", "s", time.Now(), "info", "m", "", "fetch", "id", "", RequestReceive, nil, 0, false)

	d, ok := send.Direction()
	if !ok || d != Outgoing {
		t.Fatalf("expected request send to be Outgoing, got %v ok=%v", d, ok)
	}
	d, ok = recv.Direction()
	if !ok || d != Incoming {
		t.Fatalf("expected request receive to be Incoming, got %v ok=%v", d, ok)
	}
}

func TestEntryTypeDiscriminator(t *testing.T) {
	generic := NewGenericEntry("w", "s", time.Now(), "info", "m", "")
	if generic.EntryType() != "generic" {
		t.Fatalf("expected generic, got %q", generic.EntryType())
	}
	cmd := NewCommandEntry("w", "s", time.Now(), "info", "m", "", "start", nil)
	if cmd.EntryType() != "command" || !cmd.IsCommand("start") {
		t.Fatalf("unexpected command entry: %+v", cmd)
	}
}
