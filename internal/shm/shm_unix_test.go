//go:build unix

package shm

import (
	"context"
	"errors"
	"os"
	"testing"
)

func TestCreateAndOpenNamedRegion(t *testing.T) {
	opts := Options{Name: "af4bridge-test", Dir: t.TempDir(), Capacity: 4096}
	ch, err := Create(opts)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := ch.Publish([]byte(`{"timestamp":0.016000}`)); err != nil {
		t.Fatalf("publish: %v", err)
	}

	r, err := OpenReader(opts)
	if err != nil {
		t.Fatalf("open reader: %v", err)
	}
	got, seq, err := r.Read(context.Background(), nil)
	if err != nil || seq != 2 || string(got) != `{"timestamp":0.016000}` {
		t.Fatalf("unexpected read %q seq=%d err=%v", got, seq, err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("close reader: %v", err)
	}

	if err := ch.Close(); err != nil {
		t.Fatalf("close channel: %v", err)
	}
	if _, err := os.Stat(RegionPath(opts)); !os.IsNotExist(err) {
		t.Fatalf("backing file must be removed on close: %v", err)
	}
	if err := ch.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestCreateUnavailableDirectory(t *testing.T) {
	_, err := Create(Options{Name: "x", Dir: "/nonexistent/af4bridge", Capacity: 4096})
	if !errors.Is(err, ErrChannelUnavailable) {
		t.Fatalf("expected ErrChannelUnavailable, got %v", err)
	}
}

func TestOpenReaderMissingRegion(t *testing.T) {
	_, err := OpenReader(Options{Name: "missing", Dir: t.TempDir(), Capacity: 4096})
	if !errors.Is(err, ErrChannelUnavailable) {
		t.Fatalf("expected ErrChannelUnavailable, got %v", err)
	}
}
