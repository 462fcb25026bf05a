package dom

import "sync"

// Element is the slice of a DOM node the reconciler needs.
type Element interface {
	Attr(name string) (string, bool)
	SetAttr(name, value string)
	SetHidden(hidden bool)
	// AppendChild moves child to the end of this element.
	AppendChild(child Element)
	QuerySelectorAll(selector string) []Element
}

type Document interface {
	QuerySelector(selector string) (Element, bool)
}

// FrameScheduler defers work to the next display frame.
type FrameScheduler interface {
	RequestFrame(fn func())
}

type FrameFunc func(fn func())

func (f FrameFunc) RequestFrame(fn func()) {
	f(fn)
}

// FrameQueue buffers frame callbacks until they are flushed. It stands in for
// a display loop during builds and tests.
type FrameQueue struct {
	mu      sync.Mutex
	pending []func()
}

func (q *FrameQueue) RequestFrame(fn func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, fn)
}

func (q *FrameQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Flush runs one frame: every callback queued before the call. Callbacks
// queued while flushing wait for the next frame.
func (q *FrameQueue) Flush() int {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// Drain flushes frames until the queue is empty or maxFrames have run, and
// returns the number of frames run.
func (q *FrameQueue) Drain(maxFrames int) int {
	frames := 0
	for frames < maxFrames && q.Len() > 0 {
		q.Flush()
		frames++
	}
	return frames
}
