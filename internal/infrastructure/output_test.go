package infrastructure

import (
	"strings"
	"testing"
)

func TestLimitWriterCapsOutput(t *testing.T) {
	w := newLimitWriter(10)

	n, err := w.Write([]byte("hello "))
	if err != nil || n != 6 {
		t.Fatalf("Write = (%d, %v)", n, err)
	}
	n, err = w.Write([]byte("world and beyond"))
	if err != nil || n != 16 {
		t.Fatalf("Write = (%d, %v), writes past the cap must still report full length", n, err)
	}

	if w.String() != "hello worl" {
		t.Fatalf("unexpected capture %q", w.String())
	}
	if !w.truncated {
		t.Fatal("expected truncated flag")
	}

	// Further writes are discarded entirely.
	if _, err := w.Write([]byte(strings.Repeat("x", 100))); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if len(w.String()) != 10 {
		t.Fatalf("capture grew past cap: %d", len(w.String()))
	}
}

func TestLimitWriterUnderCap(t *testing.T) {
	w := newLimitWriter(64)
	if _, err := w.Write([]byte("short")); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if w.truncated {
		t.Fatal("must not report truncation under the cap")
	}
	if w.String() != "short" {
		t.Fatalf("unexpected capture %q", w.String())
	}
}
