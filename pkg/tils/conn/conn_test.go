package conn

import (
	"testing"
	"time"
)

func TestCheckAliveWithinTTL(t *testing.T) {
	var c Conn
	c.Open(3, "127.0.0.1")

	if !c.CheckAlive(60 * time.Second) {
		t.Fatalf("expected freshly opened connection to be alive")
	}
	if c.State != Alive {
		t.Fatalf("expected state Alive, got %v", c.State)
	}
}

func TestCheckAliveExpiresAfterTTL(t *testing.T) {
	var c Conn
	c.Open(3, "127.0.0.1")
	c.LastAlive = time.Now().Add(-61 * time.Second)

	if c.CheckAlive(60 * time.Second) {
		t.Fatalf("expected connection idle past TTL to be dead")
	}
	if c.State != Dead {
		t.Fatalf("expected state Dead, got %v", c.State)
	}
}

func TestCheckAliveOnDeadOrCleanReturnsFalse(t *testing.T) {
	var c Conn
	c.State = Dead
	if c.CheckAlive(60 * time.Second) {
		t.Fatalf("expected Dead connection to report not alive")
	}

	c.State = Clean
	if c.CheckAlive(60 * time.Second) {
		t.Fatalf("expected Clean connection to report not alive")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	r, w, err := pipeFDs()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	defer closeFD(w)

	var c Conn
	c.Open(r, "127.0.0.1")

	if prior := c.Close(); prior != Alive {
		t.Fatalf("expected prior state Alive, got %v", prior)
	}
	if c.State != Clean {
		t.Fatalf("expected state Clean after close, got %v", c.State)
	}

	if prior := c.Close(); prior != Clean {
		t.Fatalf("expected second close to report prior state Clean, got %v", prior)
	}
}

func TestRevitalizeUpdatesLastAlive(t *testing.T) {
	var c Conn
	c.Open(3, "127.0.0.1")
	c.LastAlive = time.Now().Add(-30 * time.Second)

	before := c.LastAlive
	c.Revitalize()
	if !c.LastAlive.After(before) {
		t.Fatalf("expected Revitalize to advance LastAlive")
	}
}
