package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("insert inventory: connection reset")
	err := Wrap(CodePartialWriteCompensated, cause, "create product rolled back")

	if !stdErrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable via errors.Is")
	}
	if err.Code() != CodePartialWriteCompensated {
		t.Fatalf("unexpected code %s", err.Code())
	}
}

func TestAsFindsTypedErrorThroughWrapping(t *testing.T) {
	inner := New(CodePartialWriteOrphaned, "product row left without inventory")
	outer := fmt.Errorf("create product: %w", inner)

	typed := As(outer)
	if typed == nil {
		t.Fatal("expected typed error")
	}
	if typed.Code() != CodePartialWriteOrphaned {
		t.Fatalf("unexpected code %s", typed.Code())
	}
}

func TestCompensatedAndOrphanedAreDistinct(t *testing.T) {
	compensated := MetadataFor(CodePartialWriteCompensated)
	orphaned := MetadataFor(CodePartialWriteOrphaned)

	if !compensated.Retryable {
		t.Fatal("compensated writes leave net state unchanged and must be retryable")
	}
	if orphaned.Retryable {
		t.Fatal("orphaned writes require manual cleanup and must not be retryable")
	}
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	meta := MetadataFor(Code("SOMETHING_ELSE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unexpected status %d", meta.HTTPStatus)
	}
}

func TestWithDetailsOnNilError(t *testing.T) {
	var err *Error
	if err.WithDetails("x") != nil {
		t.Fatal("expected nil")
	}
	if err.Code() != CodeInternal {
		t.Fatalf("unexpected code %s", err.Code())
	}
}
