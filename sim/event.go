package sim

// Process is implemented by every component that can receive scheduled events.
// React is invoked synchronously by the Scheduler and must return promptly; it may
// create or consume entities, admit to or pull from buffers, and schedule further events.
// It must not call Scheduler.Run.
type Process interface {
	React(eventType int, now float64)
}

// event is a scheduled (target, type, time) triple.
// seqID records insertion order and breaks ties between equal fire times.
type event struct {
	target    Process
	eventType int
	time      float64
	seqID     int64
}

// eventQueue is a min-heap ordered by (time, seqID).
// Implements heap.Interface.
type eventQueue []event

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	if q[i].time != q[j].time {
		return q[i].time < q[j].time
	}
	return q[i].seqID < q[j].seqID
}

func (q eventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *eventQueue) Push(x any) {
	*q = append(*q, x.(event))
}

func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = event{} // drop the target reference
	*q = old[:n-1]
	return item
}
