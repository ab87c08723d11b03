package conn

// Table is a bounded ring buffer of Conn slots owned exclusively by one
// worker. capacity is fixed at construction (process fd limit / worker
// count). No allocation occurs per connection during steady state: Push and
// Pop only ever touch the preallocated slots slice.
type Table struct {
	slots []Conn
	head  int
	tail  int
	size  int
}

// NewTable allocates a table with room for capacity simultaneous
// connections.
func NewTable(capacity int) *Table {
	return &Table{slots: make([]Conn, capacity)}
}

// Capacity returns the fixed slot count passed to NewTable.
func (t *Table) Capacity() int {
	return len(t.slots)
}

// Size returns the current occupancy: 0 <= Size() <= Capacity().
func (t *Table) Size() int {
	return t.size
}

// Push installs a new Alive record for clientFD/peerAddr at the tail. If the
// table is full, the oldest slot is evicted first: its fd is closed and its
// storage reused.
func (t *Table) Push(clientFD int, peerAddr string) {
	if t.size == len(t.slots) {
		t.Pop()
	}
	t.slots[t.tail].Open(clientFD, peerAddr)
	t.tail = (t.tail + 1) % len(t.slots)
	t.size++
}

// Pop closes the head slot and advances head. It returns the slot's prior
// state, or None if the table was empty.
func (t *Table) Pop() State {
	if t.size == 0 {
		return None
	}
	prior := t.slots[t.head].Close()
	t.head = (t.head + 1) % len(t.slots)
	t.size--
	return prior
}

// At returns the i-th occupied slot, counting from head. i must satisfy
// 0 <= i < Size(); At panics otherwise, matching the invariant that callers
// only ever iterate [0, Size()).
func (t *Table) At(i int) *Conn {
	if i < 0 || i >= t.size {
		panic("conn: Table.At index out of range")
	}
	return &t.slots[(t.head+i)%len(t.slots)]
}

// RemoveAt marks the i-th occupied slot Clean in place without popping it
// from the table — used after a TTL sweep closes a stale connection so the
// head/tail bookkeeping is left untouched. The slot's storage is reused on
// the next Push that wraps around to it.
func (t *Table) RemoveAt(i int) {
	t.At(i).Close()
}
