package alloc

import "github.com/joshuapare/arenakit/internal/format"

// Explicit free list. Links are arena offsets stored in the first two payload
// words of each free block; 0 terminates the list. All operations are O(1),
// touch only the link words, and are no-ops for block 0.

func (a *Allocator) pred(b int) int {
	if b == 0 {
		return 0
	}
	return format.ReadOffset(a.mem, b+format.PredOffset)
}

func (a *Allocator) succ(b int) int {
	if b == 0 {
		return 0
	}
	return format.ReadOffset(a.mem, b+format.SuccOffset)
}

func (a *Allocator) setPred(b, p int) {
	if b == 0 {
		return
	}
	format.PutOffset(a.mem, b+format.PredOffset, p)
}

func (a *Allocator) setSucc(b, s int) {
	if b == 0 {
		return
	}
	format.PutOffset(a.mem, b+format.SuccOffset, s)
}

// insertHead makes b the first free block.
func (a *Allocator) insertHead(b int) {
	if b == 0 {
		return
	}
	a.setPred(b, 0)
	a.setSucc(b, a.head)
	a.setPred(a.head, b)
	a.head = b
	if a.tail == 0 {
		a.tail = b
	}
}

// insertTail makes b the last free block, seeding the head of an empty list.
func (a *Allocator) insertTail(b int) {
	if b == 0 {
		return
	}
	a.setPred(b, a.tail)
	a.setSucc(b, 0)
	a.setSucc(a.tail, b)
	a.tail = b
	if a.head == 0 {
		a.head = b
	}
}

// remove unlinks b. Must run before b's size or links are reused.
func (a *Allocator) remove(b int) {
	if b == 0 {
		return
	}
	p, s := a.pred(b), a.succ(b)
	if p != 0 {
		a.setSucc(p, s)
	} else {
		a.head = s
	}
	if s != 0 {
		a.setPred(s, p)
	} else {
		a.tail = p
	}
}

// register adds a newly free block according to the placement policy.
// recycled is true for a block released by Free that merged with nothing.
func (a *Allocator) register(b int, recycled bool) {
	switch a.cfg.Placement {
	case PlaceHead:
		a.insertHead(b)
	case PlaceTail:
		a.insertTail(b)
	default:
		if recycled {
			a.insertHead(b)
			return
		}
		a.insertTail(b)
	}
}
