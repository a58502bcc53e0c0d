package librertos

// ListNode is an intrusive node in an ordered doubly linked list. Every Task
// owns exactly two of these (its delay node and its event node); every
// primitive's Event owns a ListHead that nodes are spliced into.
//
// A node's Owner identifies the value it belongs to — a *Task for every
// list in the scheduler/event/tick subsystem, a *Timer for the software
// timer lists (§4.G), matching the source's void*-owner intrusive list
// generality. List is nil when the node is detached, and points at the
// ListHead it currently lives in otherwise. Key orders the node within its
// list (lower first); the tick engine uses it as an absolute wake tick, the
// event read/write lists use it as the negated task priority (see
// priorityKey, and ListHead.Insert for tie-break rules), and the timer list
// uses it as an absolute run tick.
type ListNode struct {
	next, prev *ListNode
	key        int64
	list       *ListHead
	Owner      any
}

// ListHead is the head of an intrusive doubly linked list, kept in
// non-decreasing Key order by Insert. The sentinel is the head's own
// zero-value node (root): an empty list has root.next == root.prev == &root,
// mirroring the source's "head == tail == &list" self-reference without
// relying on pointer equality between unrelated struct types.
type ListHead struct {
	root   ListNode
	length int
}

// HeadInit (re)initializes L as an empty list. Safe to call on an L that
// already holds nodes only if the caller has otherwise forgotten about them;
// normal use is once, at construction.
func (l *ListHead) HeadInit() {
	l.root.next = &l.root
	l.root.prev = &l.root
	l.root.list = l
	l.length = 0
}

// Len returns the number of nodes currently in the list. Reading Len()
// without holding the owning critical section is permitted only as a hint
// ("probably empty / probably not"), per the shared-resource policy; any
// decision made from it must be re-checked under the critical section.
func (l *ListHead) Len() int {
	return l.length
}

// Front returns the first (lowest-key) node, or nil if the list is empty.
func (l *ListHead) Front() *ListNode {
	if l.root.next == &l.root {
		return nil
	}
	return l.root.next
}

// NodeInit resets n to a detached state owned by owner. Key is left at its
// zero value; callers set it via Insert.
func NodeInit(n *ListNode, owner any) {
	n.next = nil
	n.prev = nil
	n.key = 0
	n.list = nil
	n.Owner = owner
}

// InList reports whether n is currently spliced into some list.
func (n *ListNode) InList() bool {
	return n.list != nil
}

// List returns the list n currently belongs to, or nil if detached.
func (n *ListNode) List() *ListHead {
	return n.list
}

// Key returns n's current ordering key.
func (n *ListNode) Key() int64 {
	return n.key
}

// Insert splices n into l in non-decreasing key order. Equal keys are
// inserted after all existing nodes carrying that key, preserving FIFO
// order among ties (first pended, first served). O(len(l)).
func (l *ListHead) Insert(n *ListNode, key int64) {
	n.key = key
	cur := l.root.next
	for cur != &l.root && cur.key <= key {
		cur = cur.next
	}
	insertBefore(cur, n)
	n.list = l
	l.length++
}

// InsertAfter splices n immediately after ref, ignoring key order entirely.
// Pass nil for ref to insert n at the front of the list (i.e. "after the
// head sentinel"), matching the source's InsertAfter(L, head-sentinel, n).
func (l *ListHead) InsertAfter(ref, n *ListNode) {
	if ref == nil {
		ref = &l.root
	}
	insertBefore(ref.next, n)
	n.list = l
	l.length++
}

// Append splices n onto the tail of l, ignoring key order. Used for
// pending-ready, which is a pure staging FIFO (§4.E drains it in one pass
// regardless of order).
func (l *ListHead) Append(n *ListNode) {
	insertBefore(&l.root, n)
	n.list = l
	l.length++
}

func insertBefore(at, n *ListNode) {
	n.prev = at.prev
	n.next = at
	at.prev.next = n
	at.prev = n
}

// Remove unlinks n from whatever list it is in and clears its List()/InList()
// state. Calling Remove on an already-detached node is a tolerated no-op
// (see Open Questions in DESIGN.md) rather than a precondition violation,
// so call sites such as EventPendTask, TaskResume and the tick engine can
// call it without first checking membership.
func Remove(n *ListNode) {
	if n.list == nil {
		return
	}
	n.prev.next = n.next
	n.next.prev = n.prev
	n.list.length--
	n.list = nil
	n.next = nil
	n.prev = nil
}
