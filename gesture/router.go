package gesture

import "sync"

// Listener receives pointer events while it holds a capture
type Listener interface {
	PointerMove(x float64)
	PointerUp()
}

// Capturer hands out pointer captures. The returned release func may be
// called any number of times; only the first call has an effect.
type Capturer interface {
	Capture(l Listener) (release func())
}

// Router is the widest-scope pointer sink: every move and up event the
// host sees goes through it, whichever element the pointer is over.
type Router struct {
	mu        sync.Mutex
	listeners map[int]Listener
	order     []int
	next      int
}

func NewRouter() *Router {
	return &Router{listeners: make(map[int]Listener)}
}

// Capture registers l until the returned func is called
func (r *Router) Capture(l Listener) (release func()) {
	r.mu.Lock()
	id := r.next
	r.next++
	r.listeners[id] = l
	r.order = append(r.order, id)
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { r.remove(id) })
	}
}

func (r *Router) remove(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.listeners, id)
	for i, o := range r.order {
		if o == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			return
		}
	}
}

// Move forwards a pointer position (mouse move or touch move)
func (r *Router) Move(x float64) {
	for _, l := range r.snapshot() {
		l.PointerMove(x)
	}
}

// Up forwards a pointer release (mouse up or touch end)
func (r *Router) Up() {
	for _, l := range r.snapshot() {
		l.PointerUp()
	}
}

// Len is the number of live captures
func (r *Router) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.listeners)
}

// snapshot lets listeners release themselves while being notified
func (r *Router) snapshot() []Listener {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Listener, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.listeners[id])
	}
	return out
}
