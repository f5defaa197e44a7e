package domain

import (
	"errors"
	"io"
	"testing"
)

func TestInvalid_MatchesErrValidation(t *testing.T) {
	err := Invalid("review", "must not be empty")
	if !errors.Is(err, ErrValidation) {
		t.Fatal("ValidationError should match ErrValidation")
	}
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "review" {
		t.Fatalf("unexpected: %#v", err)
	}
	if errors.Is(err, ErrProcessing) || errors.Is(err, ErrNotFound) {
		t.Fatal("validation must not match other kinds")
	}
}

func TestProcessing_KeepsCause(t *testing.T) {
	err := Processing("read transient file", io.ErrUnexpectedEOF)
	if !errors.Is(err, ErrProcessing) || !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("unexpected chain: %v", err)
	}
	if errors.Is(err, ErrValidation) {
		t.Fatal("processing must not match validation")
	}
}
