package imgerr

import (
	"errors"
	"fmt"
	"testing"
)

func TestNewAndError(t *testing.T) {
	err := New(NotFound, "missing %s at %d", "red", 7)
	if err.Kind != NotFound {
		t.Errorf("Kind = %v, want NotFound", err.Kind)
	}
	want := "not-found: missing red at 7"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestAttachmentsAppearInMessage(t *testing.T) {
	err := New(InvalidArgument, "bad option").WithOption("window_size").WithTag("high").WithDate(42).WithType("u8")
	got := err.Error()
	for _, want := range []string{`option "window_size"`, `tag "high"`, "date 42", "type u8"} {
		if !contains(got, want) {
			t.Errorf("Error() = %q, missing %q", got, want)
		}
	}
}

func TestWrapIncludesCause(t *testing.T) {
	cause := errors.New("disk full")
	err := New(FileFormat, "failed to read").Wrap(cause)
	if !contains(err.Error(), "disk full") {
		t.Errorf("Error() = %q, want it to include the wrapped cause", err.Error())
	}
	if errors.Unwrap(err) != cause {
		t.Error("Unwrap should return the wrapped cause")
	}
}

func TestIsMatchesByKindOnly(t *testing.T) {
	a := New(Size, "shape a mismatch")
	b := New(Size, "shape b mismatch")
	c := New(ImageType, "type mismatch")
	if !errors.Is(a, b) {
		t.Error("two errors of the same Kind should satisfy errors.Is")
	}
	if errors.Is(a, c) {
		t.Error("errors of different Kind should not satisfy errors.Is")
	}
}

func TestKindOf(t *testing.T) {
	err := New(Logic, "internal defect")
	k, ok := KindOf(err)
	if !ok || k != Logic {
		t.Errorf("KindOf = (%v, %v), want (Logic, true)", k, ok)
	}
	if _, ok := KindOf(errors.New("plain")); ok {
		t.Error("KindOf on a plain error should report false")
	}
}

func TestKindOfUnwrapsWrappedError(t *testing.T) {
	inner := New(NotFound, "missing")
	outer := fmt.Errorf("while loading: %w", inner)
	k, ok := KindOf(outer)
	if !ok || k != NotFound {
		t.Errorf("KindOf on a wrapped *Error = (%v, %v), want (NotFound, true)", k, ok)
	}
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
