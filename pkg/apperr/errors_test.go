package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOfUnwrapsChains(t *testing.T) {
	base := NotFound("voucher not found")
	wrapped := fmt.Errorf("loading voucher: %w", base)

	if KindOf(wrapped) != KindNotFound {
		t.Errorf("KindOf = %s, want %s", KindOf(wrapped), KindNotFound)
	}
	if !Is(wrapped, KindNotFound) {
		t.Error("Is(wrapped, KindNotFound) = false")
	}
}

func TestKindOfPlainError(t *testing.T) {
	if KindOf(errors.New("boom")) != "" {
		t.Error("plain errors must have no kind")
	}
}

func TestMessageOfHidesInternalErrors(t *testing.T) {
	if got := MessageOf(errors.New("pq: connection refused")); got != "Internal server error" {
		t.Errorf("MessageOf = %q, want generic message", got)
	}
	if got := MessageOf(Exhausted("no sessions remaining")); got != "no sessions remaining" {
		t.Errorf("MessageOf = %q, want business message", got)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("row locked")
	err := Wrap(KindConflict, cause, "request already resolved")

	if !errors.Is(err, cause) {
		t.Error("wrapped cause not reachable via errors.Is")
	}
	if KindOf(err) != KindConflict {
		t.Errorf("KindOf = %s, want conflict", KindOf(err))
	}
}
