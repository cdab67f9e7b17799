package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWrapKeepsChain(t *testing.T) {
	cause := errors.New("no rows")
	err := fmt.Errorf("handler: %w", Wrap(CodeNotFound, cause, "session %s", "abc"))

	if !errors.Is(err, cause) {
		t.Fatal("cause lost from chain")
	}
	if !Is(err, CodeNotFound) {
		t.Fatalf("code = %q, want %q", GetCode(err), CodeNotFound)
	}
	if got := UserMessage(err); got != "session abc" {
		t.Fatalf("UserMessage = %q", got)
	}
	if got := err.Error(); got != "handler: NOT_FOUND: session abc: no rows" {
		t.Fatalf("Error = %q", got)
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{New(CodeInvalidInput, "bad"), http.StatusBadRequest},
		{New(CodeNotFound, "gone"), http.StatusNotFound},
		{New(CodeConflict, "busy"), http.StatusConflict},
		{New(CodeUpstream, "save"), http.StatusBadGateway},
		{New(CodeUnavailable, "closed"), http.StatusServiceUnavailable},
		{New(CodeInternal, "boom"), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestUserMessageHidesInternals(t *testing.T) {
	for _, err := range []error{
		errors.New("pq: password authentication failed"),
		Wrap(CodeInternal, errors.New("nil map"), "layout"),
	} {
		if got := UserMessage(err); got != "internal server error" {
			t.Errorf("UserMessage(%v) = %q", err, got)
		}
	}
}
