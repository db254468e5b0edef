package render

import (
	"fmt"
	"sync"
	"time"

	"github.com/lumen-signage/lumen-player/api/types/v1alpha1"
)

// FakeFactory creates inspectable renderers for tests. Created renderers
// are retained so tests can assert on their call history after the fact.
type FakeFactory struct {
	// LoadDelay postpones the readiness signal of created renderers
	LoadDelay time.Duration
	// NeverLoad suppresses the readiness signal entirely, forcing callers
	// onto their timeout path
	NeverLoad bool
	// FailNew makes New return an error
	FailNew bool
	// FailAssign makes created renderers fail Assign
	FailAssign bool

	mu      sync.Mutex
	created []*FakeRenderer
}

func (f *FakeFactory) New(kind Kind) (Renderer, error) {
	if f.FailNew {
		return nil, fmt.Errorf("fake factory: renderer creation failed")
	}
	r := &FakeRenderer{
		Kind:       kind,
		FailAssign: f.FailAssign,
		loaded:     make(chan struct{}),
	}
	if f.NeverLoad {
		r.holdLoaded = true
	} else if f.LoadDelay > 0 {
		go func(d time.Duration) {
			time.Sleep(d)
			r.SignalLoaded()
		}(f.LoadDelay)
	}
	f.mu.Lock()
	f.created = append(f.created, r)
	f.mu.Unlock()
	return r, nil
}

// Created returns every renderer the factory has handed out, in order.
func (f *FakeFactory) Created() []*FakeRenderer {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*FakeRenderer, len(f.created))
	copy(out, f.created)
	return out
}

// FakeRenderer records every call for later assertion.
type FakeRenderer struct {
	Kind Kind

	// FailAssign makes Assign return an error
	FailAssign bool

	mu         sync.Mutex
	calls      []string
	doc        *v1alpha1.Media
	bounds     v1alpha1.Rect
	loaded     chan struct{}
	signaled   bool
	holdLoaded bool
	released   bool
}

func (r *FakeRenderer) Assign(doc *v1alpha1.Media) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "assign")
	if r.FailAssign {
		return fmt.Errorf("fake renderer: assign failed")
	}
	r.doc = doc
	if !r.holdLoaded {
		r.signalLocked()
	}
	return nil
}

func (r *FakeRenderer) Play() error {
	r.record("play")
	return nil
}

func (r *FakeRenderer) Pause() error {
	r.record("pause")
	return nil
}

func (r *FakeRenderer) Stop() error {
	r.record("stop")
	return nil
}

func (r *FakeRenderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "release")
	r.released = true
}

func (r *FakeRenderer) SetBounds(rect v1alpha1.Rect) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "setBounds")
	r.bounds = rect
}

func (r *FakeRenderer) Loaded() <-chan struct{} {
	return r.loaded
}

// SignalLoaded releases waiters on the readiness channel.
func (r *FakeRenderer) SignalLoaded() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.signalLocked()
}

func (r *FakeRenderer) record(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, name)
}

func (r *FakeRenderer) signalLocked() {
	if !r.signaled {
		r.signaled = true
		close(r.loaded)
	}
}

// Calls returns the recorded call names in order.
func (r *FakeRenderer) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	copy(out, r.calls)
	return out
}

// Document returns the currently assigned document.
func (r *FakeRenderer) Document() *v1alpha1.Media {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.doc
}

// Bounds returns the last bounds set on the renderer.
func (r *FakeRenderer) Bounds() v1alpha1.Rect {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bounds
}

// Released reports whether the handle was detached.
func (r *FakeRenderer) Released() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.released
}
