package bufpool

import "testing"

func TestGetReturnsExactSize(t *testing.T) {
	p := New(4096)
	buf := p.Get()
	if len(buf) != 4096 {
		t.Fatalf("expected length 4096, got %d", len(buf))
	}
}

func TestPutThenGetReusesBackingArray(t *testing.T) {
	p := New(128)
	buf := p.Get()
	buf[0] = 0x42
	p.Put(buf)

	got := p.Get()
	if len(got) != 128 {
		t.Fatalf("expected length 128, got %d", len(got))
	}
}
