// Command shmreader polls the bridge channel and prints the snapshot.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/max8938/FinalCallATC/internal/config"
	"github.com/max8938/FinalCallATC/internal/shm"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

func main() {
	configPath := flag.String("config", "", "bridge config path (optional)")
	path := flag.String("path", "", "gjson path selecting one value, e.g. Aircraft\\.Altitude")
	interval := flag.Duration("interval", 250*time.Millisecond, "poll interval")
	once := flag.Bool("once", false, "print one snapshot and exit")
	raw := flag.Bool("raw", false, "print the document as published")
	color := flag.Bool("color", false, "colorize pretty output")
	flag.Parse()

	cfg, err := config.LoadBridge(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	r, err := shm.OpenReader(cfg.ChannelOptions(), shm.WithAttempts(cfg.ReaderAttempts))
	if err != nil {
		log.Fatal(err)
	}
	defer r.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := renderOptions{path: *path, raw: *raw, color: *color}
	if err := poll(ctx, r, os.Stdout, *interval, *once, opts); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
}

type renderOptions struct {
	path  string
	raw   bool
	color bool
}

// poll prints each new sequence once.
func poll(ctx context.Context, r *shm.Reader, w io.Writer, interval time.Duration, once bool, opts renderOptions) error {
	var (
		buf     []byte
		lastSeq uint64
	)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		doc, seq, err := r.Read(ctx, buf)
		buf = doc
		switch {
		case err == nil && seq != lastSeq:
			lastSeq = seq
			out, rerr := render(doc, opts)
			if rerr != nil {
				return rerr
			}
			if _, werr := fmt.Fprintln(w, out); werr != nil {
				return werr
			}
			if once {
				return nil
			}
		case errors.Is(err, shm.ErrNoDocument), errors.Is(err, shm.ErrTornRead):
			if once && errors.Is(err, shm.ErrNoDocument) {
				return err
			}
		case err != nil:
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func render(doc []byte, opts renderOptions) (string, error) {
	if !gjson.ValidBytes(doc) {
		return "", fmt.Errorf("channel holds invalid JSON (%d bytes)", len(doc))
	}
	if opts.path != "" {
		res := gjson.GetBytes(doc, opts.path)
		if !res.Exists() {
			return "", fmt.Errorf("path %q not in snapshot", opts.path)
		}
		if res.Type == gjson.String {
			return res.String(), nil
		}
		return res.Raw, nil
	}
	if opts.raw {
		return string(doc), nil
	}
	out := pretty.Pretty(doc)
	if opts.color {
		out = pretty.Color(out, nil)
	}
	return string(out[:len(out)-1]), nil
}
