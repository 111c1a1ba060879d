// Package invariant provides contract assertions for the formula engine.
//
// The engine never fails on user input: malformed formulas produce validator
// errors or error nodes. A violated assertion is therefore always a bug in the
// engine itself, and every function here panics on violation. The AST builder
// recovers these panics and turns them into error nodes.
package invariant

import (
	"fmt"
	"reflect"
	"runtime"
)

// Precondition checks an input contract at function entry.
// Panics with PRECONDITION VIOLATION if condition is false.
//
// Example:
//
//	func NewIndex(l *Lookups) *Index {
//	    invariant.Precondition(l != nil, "lookups must not be nil")
//	    // ...
//	}
func Precondition(condition bool, format string, args ...interface{}) {
	if !condition {
		fail("PRECONDITION", format, args...)
	}
}

// Postcondition checks an output contract before function return.
// Panics with POSTCONDITION VIOLATION if condition is false.
func Postcondition(condition bool, format string, args ...interface{}) {
	if !condition {
		fail("POSTCONDITION", format, args...)
	}
}

// Invariant checks an internal invariant during function execution.
// Panics with INVARIANT VIOLATION if condition is false.
func Invariant(condition bool, format string, args ...interface{}) {
	if !condition {
		fail("INVARIANT", format, args...)
	}
}

// Progress asserts that a cursor moved forward during one loop iteration.
// Every scanning loop in the engine calls it so a missed advance surfaces as
// a panic instead of a hang.
//
// Example:
//
//	for p.pos < len(p.tokens) {
//	    before := p.pos
//	    // ... consume ...
//	    invariant.Progress(before, p.pos, "argument list")
//	}
func Progress(before, after int, loop string) {
	if after <= before {
		fail("INVARIANT", "%s: cursor must advance (was %d, now %d)", loop, before, after)
	}
}

// NotNil panics if value is nil, including typed nils such as (*T)(nil).
func NotNil(value interface{}, name string) {
	if value == nil || isNilValue(value) {
		fail("PRECONDITION", "%s must not be nil", name)
	}
}

func isNilValue(value interface{}) bool {
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return v.IsNil()
	default:
		return false
	}
}

// fail panics with a formatted message including the violating call site.
func fail(kind, format string, args ...interface{}) {
	pc := make([]uintptr, 10)
	n := runtime.Callers(3, pc)
	frames := runtime.CallersFrames(pc[:n])

	msg := fmt.Sprintf("%s VIOLATION: "+format, append([]interface{}{kind}, args...)...)

	if frame, ok := frames.Next(); ok {
		msg += fmt.Sprintf("\n  at %s:%d", frame.File, frame.Line)
	}

	panic(msg)
}
