// Package soft is an in-process implementation of the native ABI. It keeps
// every native object in a table keyed by fake addresses, records each call,
// emulates JavaScriptCore with goja and parses loaded HTML with goquery.
//
// It is the default backend when the module is built without the
// "ultralight" tag and the mock native layer of every test.
package soft

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/19h/ul2/ffi"
	"github.com/19h/ul2/internal/native"
)

// Call is one recorded native call. String arguments are recorded by value.
type Call struct {
	Name string
	Args []any
}

func (c Call) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		if s, ok := a.(string); ok {
			parts[i] = fmt.Sprintf("%q", s)
		} else {
			parts[i] = fmt.Sprint(a)
		}
	}
	return c.Name + "(" + strings.Join(parts, ", ") + ")"
}

// Backend implements native.API. The zero value is not usable; call New.
type Backend struct {
	mu      sync.Mutex
	objects map[ffi.Ptr]any
	next    ffi.Ptr
	calls   []Call

	// Process-wide platform hooks.
	loggerToken    uintptr
	fileSystem     uintptr
	clipboardToken uintptr
	defaultFS      uintptr

	sessionIDs uint64
	app        ffi.Ptr
	log        *zap.Logger
}

var _ native.API = (*Backend)(nil)

// New returns an empty backend.
func New() *Backend {
	return &Backend{
		objects: make(map[ffi.Ptr]any),
		next:    0x1000,
		log:     ffi.Logger().Named("soft"),
	}
}

// Install swaps a fresh backend in for the duration of the test.
func Install(t testing.TB) *Backend {
	t.Helper()
	b := New()
	prev := native.Swap(b)
	t.Cleanup(func() {
		if prev != nil {
			native.Install(prev)
		}
	})
	return b
}

func (b *Backend) Name() string { return "soft" }

// insert stores v under a new address. Addresses are 16-byte aligned and
// never reused.
func (b *Backend) insert(v any) ffi.Ptr {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next += 0x10
	b.objects[b.next] = v
	return b.next
}

func (b *Backend) remove(p ffi.Ptr) (any, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.objects[p]
	if ok {
		delete(b.objects, p)
	}
	return v, ok
}

func get[T any](b *Backend, p ffi.Ptr) T {
	b.mu.Lock()
	v, ok := b.objects[p]
	b.mu.Unlock()
	t, match := v.(T)
	if !ok || !match {
		var zero T
		panic(fmt.Sprintf("soft: %#x is not a live %T", uintptr(p), zero))
	}
	return t
}

func lookup[T any](b *Backend, p ffi.Ptr) (T, bool) {
	b.mu.Lock()
	v, ok := b.objects[p]
	b.mu.Unlock()
	t, match := v.(T)
	return t, ok && match
}

func (b *Backend) record(name string, args ...any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, Call{Name: name, Args: args})
}

// Calls returns a copy of every recorded call in order.
func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Call(nil), b.calls...)
}

// CallsWithPrefix returns the recorded calls whose name starts with prefix.
func (b *Backend) CallsWithPrefix(prefix string) []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []Call
	for _, c := range b.calls {
		if strings.HasPrefix(c.Name, prefix) {
			out = append(out, c)
		}
	}
	return out
}

// CallCount returns how many recorded calls are named exactly name.
func (b *Backend) CallCount(name string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

// CallNames returns the names of the recorded calls with the given prefix.
func (b *Backend) CallNames(prefix string) []string {
	calls := b.CallsWithPrefix(prefix)
	names := make([]string, len(calls))
	for i, c := range calls {
		names[i] = c.Name
	}
	return names
}

// ResetCalls forgets the recorded calls.
func (b *Backend) ResetCalls() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = nil
}

// Live returns the number of native objects that have not been destroyed.
func (b *Backend) Live() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.objects)
}

// LiveOf counts live objects of one kind, such as "view" or "window".
func (b *Backend) LiveOf(kind string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, v := range b.objects {
		if k, ok := v.(interface{ kind() string }); ok && k.kind() == kind {
			n++
		}
	}
	return n
}
