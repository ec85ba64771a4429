// Command bridgesim drives a bridge with synthetic records at a fixed tick
// rate, standing in for the simulator during local development.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/max8938/FinalCallATC/internal/bridge"
	"github.com/max8938/FinalCallATC/internal/config"
	"github.com/max8938/FinalCallATC/internal/logging"
	"github.com/max8938/FinalCallATC/internal/observability"
)

func main() {
	configPath := flag.String("config", "", "bridge config path (optional)")
	rate := flag.Float64("rate", 60, "ticks per second")
	duration := flag.Duration("duration", 0, "stop after this long (0 runs until interrupted)")
	names := flag.String("names", "", "comma separated message names to feed (defaults to a cockpit set)")
	memory := flag.Bool("memory", false, "publish into an in-process channel instead of the named one")
	adminAddr := flag.String("admin", "", "admin HTTP address, overrides the config")
	flag.Parse()

	logging.ConfigureRuntime()
	cfg, err := config.LoadBridge(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *memory {
		cfg.MemoryChannel = true
	}
	if *adminAddr != "" {
		cfg.AdminAddr = *adminAddr
	}
	logging.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	if err := run(ctx, cfg, *rate, splitNames(*names)); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg config.Bridge, rate float64, names []string) error {
	if rate <= 0 {
		rate = 60
	}
	metrics := observability.NewMetrics()
	b, err := bridge.New(cfg, bridge.WithMetrics(metrics))
	if err != nil {
		return err
	}
	defer b.Close()

	f, err := newFeed(b.Catalog(), names)
	if err != nil {
		return err
	}

	if cfg.AdminAddr != "" {
		admin := observability.NewAdmin(cfg.AdminConfig(b.InstanceID()), b, b.Catalog(), metrics)
		if _, err := admin.Start(); err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = admin.Shutdown(shutdownCtx)
		}()
	}

	interval := time.Duration(float64(time.Second) / rate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	last := time.Now()
	logging.Infof("bridgesim running rate=%.1f records=%d channel=%s", rate, len(f.entries), cfg.ChannelName)

	for {
		select {
		case <-ctx.Done():
			s := b.Stats()
			logging.Infof("bridgesim stopped ticks=%d published=%d dropped=%d", s.Ticks, s.Published, s.Dropped)
			return nil
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			buf, n := f.next(b.Timestamp() + dt)
			b.Update(dt, buf, n, nil)
		}
	}
}

func splitNames(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return strings.Split(raw, ",")
}
