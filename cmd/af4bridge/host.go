package main

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/max8938/FinalCallATC/internal/bridge"
	"github.com/max8938/FinalCallATC/internal/config"
	"github.com/max8938/FinalCallATC/internal/logging"
	"github.com/max8938/FinalCallATC/internal/observability"
)

// InterfaceVersion is reported to the host by GetInterfaceVersion.
const InterfaceVersion = 2

// host is the single bridge handle; the DLL entry points carry no context
// parameter to hang it on.
var host hostState

type hostState struct {
	mu     sync.Mutex
	bridge *bridge.Bridge
	admin  *observability.Admin
	getenv func(string) string
}

func (h *hostState) init() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.bridge != nil {
		return true
	}
	logging.ConfigureRuntime()

	getenv := h.getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg, err := config.LoadBridge(getenv(config.EnvConfigPath))
	if err != nil {
		logging.Errf("af4bridge init: %v", err)
		return false
	}
	if cfg.LogLevel != "" && !logging.SetLevel(cfg.LogLevel) {
		logging.Warnf("af4bridge ignoring log level %q", cfg.LogLevel)
	}

	metrics := observability.NewMetrics()
	b, err := bridge.New(cfg, bridge.WithMetrics(metrics))
	if err != nil {
		logging.Errf("af4bridge init: %v", err)
		return false
	}
	h.bridge = b

	if cfg.AdminAddr != "" {
		admin := observability.NewAdmin(cfg.AdminConfig(b.InstanceID()), b, b.Catalog(), metrics)
		if _, err := admin.Start(); err != nil {
			logging.Warnf("af4bridge admin disabled: %v", err)
		} else {
			h.admin = admin
		}
	}
	return true
}

func (h *hostState) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.admin != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := h.admin.Shutdown(ctx); err != nil {
			logging.Warnf("af4bridge admin shutdown: %v", err)
		}
		cancel()
		h.admin = nil
	}
	if h.bridge != nil {
		if err := h.bridge.Close(); err != nil {
			logging.Warnf("af4bridge close: %v", err)
		}
		h.bridge = nil
	}
}

// update runs on the host's simulation thread. Before init or after
// shutdown it only reports an empty outbound list.
func (h *hostState) update(deltaTime float64, received []byte, receivedCount uint32, sent []byte) bridge.TickResult {
	h.mu.Lock()
	b := h.bridge
	h.mu.Unlock()
	if b == nil {
		return bridge.TickResult{}
	}
	return b.Update(deltaTime, received, receivedCount, sent)
}
