// Implements the Buffer, a FIFO holding area between a generator and a server.
// Entities are admitted on arrival and pulled by servers; a buffer never pushes work.

package sim

import (
	"fmt"
	"strings"
)

// Consumer is notified when a buffer it is wired to receives an entity.
// The consumer decides whether to pull; the buffer only rings the bell.
type Consumer interface {
	Wake()
}

// Buffer represents an unbounded FIFO queue of entities waiting for a server.
type Buffer struct {
	name      string
	queue     []*Entity
	consumers []Consumer
	admitted  int64
	removed   int64
}

// NewBuffer creates an empty buffer.
func NewBuffer(name string) *Buffer {
	return &Buffer{name: name}
}

// Name returns the buffer name.
func (b *Buffer) Name() string { return b.name }

// Attach wires a consumer to this buffer. Wiring is fixed at construction time.
func (b *Buffer) Attach(c Consumer) {
	if c == nil {
		panic("Buffer.Attach: consumer must not be nil")
	}
	b.consumers = append(b.consumers, c)
}

// Admit adds an entity to the back of the buffer and wakes the attached consumers.
// Always succeeds; the buffer owns the entity until a consumer pulls it.
func (b *Buffer) Admit(e *Entity) {
	if e == nil {
		panic("Buffer.Admit: entity must not be nil")
	}
	b.queue = append(b.queue, e)
	b.admitted++
	for _, c := range b.consumers {
		c.Wake()
	}
}

// RequestNext removes and returns the entity at the front of the buffer.
// Returns (nil, false) when the buffer is empty; no interest is recorded.
func (b *Buffer) RequestNext() (*Entity, bool) {
	if len(b.queue) == 0 {
		return nil, false
	}
	head := b.queue[0]
	b.queue[0] = nil
	b.queue = b.queue[1:]
	b.removed++
	return head, true
}

// Len returns the number of entities in the buffer.
func (b *Buffer) Len() int {
	return len(b.queue)
}

// Admitted returns the total number of entities ever admitted.
func (b *Buffer) Admitted() int64 { return b.admitted }

// Removed returns the total number of entities ever pulled.
func (b *Buffer) Removed() int64 { return b.removed }

func (b *Buffer) String() string {
	var sb strings.Builder
	sb.WriteString(b.name)
	sb.WriteString("[")
	for i, e := range b.queue {
		sb.WriteString(fmt.Sprint(e.ID))
		if i < len(b.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}
