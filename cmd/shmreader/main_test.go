package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/max8938/FinalCallATC/internal/shm"
	"github.com/max8938/FinalCallATC/internal/testutil/testlog"
)

const sample = `{"timestamp":0.016000,"Aircraft.Altitude":123.456789,"Aircraft.Position":[1.000000,2.000000,3.000000]}`

func TestRenderSelectsPath(t *testing.T) {
	out, err := render([]byte(sample), renderOptions{path: `Aircraft\.Altitude`})
	if err != nil || out != "123.456789" {
		t.Fatalf("unexpected render %q: %v", out, err)
	}
	out, err = render([]byte(sample), renderOptions{path: `Aircraft\.Position.2`})
	if err != nil || out != "3.000000" {
		t.Fatalf("unexpected vector component %q: %v", out, err)
	}
	if _, err := render([]byte(sample), renderOptions{path: "Missing"}); err == nil {
		t.Fatalf("expected missing path error")
	}
}

func TestRenderPrettyAndRaw(t *testing.T) {
	out, err := render([]byte(sample), renderOptions{})
	if err != nil || !strings.Contains(out, "\n  \"Aircraft.Altitude\": 123.456789") {
		t.Fatalf("unexpected pretty output %q: %v", out, err)
	}
	out, err = render([]byte(sample), renderOptions{raw: true})
	if err != nil || out != sample {
		t.Fatalf("unexpected raw output %q: %v", out, err)
	}
	if _, err := render([]byte(`{"a":`), renderOptions{}); err == nil {
		t.Fatalf("expected invalid json error")
	}
}

func TestPollOncePrintsLatest(t *testing.T) {
	testlog.Start(t)
	ch, err := shm.NewMemoryChannel(1024)
	if err != nil {
		t.Fatalf("channel: %v", err)
	}
	defer ch.Close()
	r, err := shm.NewReader(ch.Region(), ch.Capacity())
	if err != nil {
		t.Fatalf("reader: %v", err)
	}

	var out bytes.Buffer
	err = poll(context.Background(), r, &out, time.Millisecond, true, renderOptions{raw: true})
	if !errors.Is(err, shm.ErrNoDocument) {
		t.Fatalf("expected ErrNoDocument before publish, got %v", err)
	}

	if err := ch.Publish([]byte(sample)); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := poll(context.Background(), r, &out, time.Millisecond, true, renderOptions{raw: true}); err != nil {
		t.Fatalf("poll: %v", err)
	}
	if strings.TrimSpace(out.String()) != sample {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestPollStopsOnCancel(t *testing.T) {
	ch, err := shm.NewMemoryChannel(1024)
	if err != nil {
		t.Fatalf("channel: %v", err)
	}
	defer ch.Close()
	r, err := shm.NewReader(ch.Region(), ch.Capacity())
	if err != nil {
		t.Fatalf("reader: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	var out bytes.Buffer
	if err := poll(ctx, r, &out, time.Millisecond, false, renderOptions{}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline, got %v", err)
	}
}
