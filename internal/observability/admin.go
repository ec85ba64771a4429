package observability

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/max8938/FinalCallATC/internal/catalog"
	"github.com/max8938/FinalCallATC/internal/logging"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Source is the running bridge as seen by the admin server.
type Source interface {
	Ready() bool
	// LastDocument returns a copy of the last published snapshot, or nil.
	LastDocument() []byte
	// Report returns a JSON-encodable view of the bridge counters.
	Report() any
}

type AdminConfig struct {
	Addr        string
	CorsOrigins []string
	InstanceID  string
}

// Admin serves the read-only HTTP surface. It never runs on
// the tick path.
type Admin struct {
	cfg     AdminConfig
	src     Source
	cat     *catalog.Catalog
	metrics *Metrics
	router  *gin.Engine
	started time.Time

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

func NewAdmin(cfg AdminConfig, src Source, cat *catalog.Catalog, m *Metrics) *Admin {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(ComponentLogger("admin"), cfg.InstanceID))
	r.Use(RequestMetricsMiddleware(m))
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(cfg.CorsOrigins),
		AllowMethods: []string{"GET"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	a := &Admin{
		cfg:     cfg,
		src:     src,
		cat:     cat,
		metrics: m,
		router:  r,
		started: time.Now(),
	}
	a.registerRoutes()
	return a
}

func (a *Admin) Router() *gin.Engine {
	return a.router
}

func (a *Admin) registerRoutes() {
	a.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"uptime":   time.Since(a.started).String(),
			"service":  "af4bridge",
			"instance": a.cfg.InstanceID,
		})
	})

	a.router.GET("/ready", func(c *gin.Context) {
		ready := a.src != nil && a.src.Ready()
		status := http.StatusOK
		if !ready {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"ready":    ready,
			"uptime":   time.Since(a.started).String(),
			"instance": a.cfg.InstanceID,
		})
	})

	if reg := a.metrics.Registry(); reg != nil {
		a.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}

	a.router.GET("/snapshot", func(c *gin.Context) {
		var doc []byte
		if a.src != nil {
			doc = a.src.LastDocument()
		}
		if len(doc) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "no snapshot published yet"})
			return
		}
		c.Data(http.StatusOK, "application/json", doc)
	})

	a.router.GET("/stats", func(c *gin.Context) {
		if a.src == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "bridge not running"})
			return
		}
		c.JSON(http.StatusOK, a.src.Report())
	})

	a.router.GET("/catalog/:name", func(c *gin.Context) {
		key := c.Param("name")
		entries := a.lookup(key)
		if len(entries) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown message", "name": key})
			return
		}
		out := make([]gin.H, 0, len(entries))
		for _, e := range entries {
			out = append(out, entryView(e))
		}
		c.JSON(http.StatusOK, gin.H{"id": fmt.Sprintf("0x%016x", entries[0].ID), "variants": out})
	})
}

// lookup accepts a dotted name or a 0x-prefixed identifier.
func (a *Admin) lookup(key string) []catalog.Entry {
	if strings.HasPrefix(key, "0x") || strings.HasPrefix(key, "0X") {
		id, err := strconv.ParseUint(key[2:], 16, 64)
		if err != nil {
			return nil
		}
		return a.cat.Variants(id)
	}
	e, ok := a.cat.LookupName(key)
	if !ok {
		return nil
	}
	return a.cat.Variants(e.ID)
}

func entryView(e catalog.Entry) gin.H {
	return gin.H{
		"symbol":      e.Symbol,
		"name":        e.Name,
		"kind":        e.Kind.String(),
		"unit":        e.Unit.String(),
		"access":      e.Access.String(),
		"flag":        e.Flag.String(),
		"description": e.Description,
	}
}

// Start listens on the configured address and serves in the background.
// The returned address is the bound one, useful with port 0.
func (a *Admin) Start() (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.server != nil {
		return a.listener.Addr().String(), nil
	}
	ln, err := net.Listen("tcp", a.cfg.Addr)
	if err != nil {
		return "", fmt.Errorf("admin listen %s: %w", a.cfg.Addr, err)
	}
	srv := &http.Server{
		Handler:           a.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	a.server = srv
	a.listener = ln
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Errf("admin server stopped: %v", err)
		}
	}()
	logging.Infof("admin server listening addr=%s", ln.Addr())
	return ln.Addr().String(), nil
}

func (a *Admin) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	srv := a.server
	a.server = nil
	a.listener = nil
	a.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}
