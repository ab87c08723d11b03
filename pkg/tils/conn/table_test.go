package conn

import "testing"

func TestTableSizeInvariant(t *testing.T) {
	tbl := NewTable(4)
	if tbl.Size() != 0 {
		t.Fatalf("expected new table to be empty")
	}

	for i := 0; i < 4; i++ {
		r, w, err := pipeFDs()
		if err != nil {
			t.Fatalf("pipe: %v", err)
		}
		defer closeFD(w)
		tbl.Push(r, "127.0.0.1")
		if tbl.Size() != i+1 {
			t.Fatalf("expected size %d, got %d", i+1, tbl.Size())
		}
	}

	if tbl.Size() != tbl.Capacity() {
		t.Fatalf("expected full table, size=%d capacity=%d", tbl.Size(), tbl.Capacity())
	}
}

func TestPushIntoFullTableEvictsOldest(t *testing.T) {
	tbl := NewTable(2)

	r1, w1, _ := pipeFDs()
	defer closeFD(w1)
	r2, w2, _ := pipeFDs()
	defer closeFD(w2)
	r3, w3, _ := pipeFDs()
	defer closeFD(w3)

	tbl.Push(r1, "1.1.1.1")
	tbl.Push(r2, "2.2.2.2")

	// Table is full; this push must evict slot for r1.
	tbl.Push(r3, "3.3.3.3")

	if tbl.Size() != 2 {
		t.Fatalf("expected size to stay at capacity, got %d", tbl.Size())
	}
	if tbl.At(0).PeerAddr != "2.2.2.2" {
		t.Fatalf("expected oldest survivor 2.2.2.2 at head, got %s", tbl.At(0).PeerAddr)
	}
	if tbl.At(1).PeerAddr != "3.3.3.3" {
		t.Fatalf("expected newest push 3.3.3.3 at tail, got %s", tbl.At(1).PeerAddr)
	}
}

func TestPopOnEmptyReturnsNone(t *testing.T) {
	tbl := NewTable(2)
	if state := tbl.Pop(); state != None {
		t.Fatalf("expected None from Pop on empty table, got %v", state)
	}
	if tbl.Size() != 0 {
		t.Fatalf("expected size to remain 0 after Pop on empty table")
	}
}

func TestPopClosesHeadAndAdvances(t *testing.T) {
	tbl := NewTable(2)
	r1, w1, _ := pipeFDs()
	defer closeFD(w1)
	r2, w2, _ := pipeFDs()
	defer closeFD(w2)

	tbl.Push(r1, "1.1.1.1")
	tbl.Push(r2, "2.2.2.2")

	prior := tbl.Pop()
	if prior != Alive {
		t.Fatalf("expected prior state Alive, got %v", prior)
	}
	if tbl.Size() != 1 {
		t.Fatalf("expected size 1 after pop, got %d", tbl.Size())
	}
	if tbl.At(0).PeerAddr != "2.2.2.2" {
		t.Fatalf("expected remaining slot to be 2.2.2.2, got %s", tbl.At(0).PeerAddr)
	}
}

func TestRemoveAtLeavesSlotInPlace(t *testing.T) {
	tbl := NewTable(3)
	for _, addr := range []string{"1.1.1.1", "2.2.2.2", "3.3.3.3"} {
		r, w, _ := pipeFDs()
		defer closeFD(w)
		tbl.Push(r, addr)
	}

	tbl.RemoveAt(1)

	if tbl.Size() != 3 {
		t.Fatalf("expected RemoveAt to leave size unchanged, got %d", tbl.Size())
	}
	if tbl.At(1).State != Clean {
		t.Fatalf("expected removed slot to be Clean, got %v", tbl.At(1).State)
	}
	if tbl.At(0).State != Alive || tbl.At(2).State != Alive {
		t.Fatalf("expected sibling slots to remain Alive")
	}
}
