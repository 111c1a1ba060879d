package invariant_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/amaury-medina-tass/spd-frontend-sub001/core/invariant"
)

// expectPanic runs fn and returns the recovered panic message.
func expectPanic(t *testing.T, fn func()) (msg string) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		msg = fmt.Sprintf("%v", r)
	}()
	fn()
	return ""
}

func TestPreconditionPass(t *testing.T) {
	invariant.Precondition(true, "this should pass")
	invariant.Precondition(len("[v1]") > 0, "token not empty")
}

func TestPreconditionFail(t *testing.T) {
	msg := expectPanic(t, func() {
		invariant.Precondition(false, "lookups must not be nil")
	})
	if !strings.Contains(msg, "PRECONDITION VIOLATION") {
		t.Errorf("expected PRECONDITION VIOLATION, got: %s", msg)
	}
	if !strings.Contains(msg, "lookups must not be nil") {
		t.Errorf("expected custom message, got: %s", msg)
	}
	if !strings.Contains(msg, "at ") {
		t.Errorf("expected call site, got: %s", msg)
	}
}

func TestPostconditionFail(t *testing.T) {
	msg := expectPanic(t, func() {
		invariant.Postcondition(false, "steps must not shrink")
	})
	if !strings.Contains(msg, "POSTCONDITION VIOLATION") {
		t.Errorf("expected POSTCONDITION VIOLATION, got: %s", msg)
	}
}

func TestInvariantFormatted(t *testing.T) {
	msg := expectPanic(t, func() {
		invariant.Invariant(false, "balance %d below zero", -1)
	})
	if !strings.Contains(msg, "INVARIANT VIOLATION: balance -1 below zero") {
		t.Errorf("unexpected message: %s", msg)
	}
}

func TestProgress(t *testing.T) {
	invariant.Progress(3, 4, "primary")

	msg := expectPanic(t, func() {
		invariant.Progress(4, 4, "argument list")
	})
	if !strings.Contains(msg, "argument list: cursor must advance (was 4, now 4)") {
		t.Errorf("unexpected message: %s", msg)
	}
}

func TestNotNil(t *testing.T) {
	invariant.NotNil(&struct{}{}, "value")

	var typed *strings.Builder
	msg := expectPanic(t, func() {
		invariant.NotNil(typed, "builder")
	})
	if !strings.Contains(msg, "builder must not be nil") {
		t.Errorf("unexpected message: %s", msg)
	}

	msg = expectPanic(t, func() {
		invariant.NotNil(nil, "index")
	})
	if !strings.Contains(msg, "index must not be nil") {
		t.Errorf("unexpected message: %s", msg)
	}
}
