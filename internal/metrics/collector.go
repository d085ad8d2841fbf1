package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sys/unix"

	"github.com/sftpfs/sftpfs/pkg/errors"
	"github.com/sftpfs/sftpfs/pkg/health"
	"github.com/sftpfs/sftpfs/pkg/types"
	"github.com/sftpfs/sftpfs/pkg/utils"
)

// Collector records per-callback metrics and serves them over HTTP
type Collector struct {
	mu       sync.RWMutex
	config   *Config
	registry *prometheus.Registry
	logger   *utils.StructuredLogger

	// Prometheus metrics
	operationCounter  *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	operationBytes    *prometheus.HistogramVec
	errorCounter      *prometheus.CounterVec
	openHandles       prometheus.Gauge

	// Internal tracking
	operations map[string]*OperationMetrics
	started    time.Time

	// HTTP server for metrics endpoint
	server *http.Server

	health *health.Tracker
}

var _ types.MetricsCollector = (*Collector)(nil)

// Config represents metrics configuration
type Config struct {
	Enabled   bool   `yaml:"enabled"`
	Port      int    `yaml:"port"`
	Path      string `yaml:"path"`
	Namespace string `yaml:"namespace"`
}

// OperationMetrics tracks metrics for a specific callback
type OperationMetrics struct {
	Count         int64         `json:"count"`
	TotalDuration time.Duration `json:"total_duration"`
	TotalSize     int64         `json:"total_size"`
	Errors        int64         `json:"errors"`
	LastOperation time.Time     `json:"last_operation"`
	AvgDuration   time.Duration `json:"avg_duration"`
}

// NewCollector creates a new metrics collector
func NewCollector(config *Config, logger *utils.StructuredLogger) (*Collector, error) {
	if config == nil {
		config = &Config{
			Enabled:   true,
			Port:      9090,
			Path:      "/metrics",
			Namespace: "sftpfs",
		}
	}
	if config.Namespace == "" {
		config.Namespace = "sftpfs"
	}
	if logger == nil {
		logger = utils.NopLogger()
	}

	if !config.Enabled {
		return &Collector{config: config, logger: logger}, nil
	}

	collector := &Collector{
		config:     config,
		registry:   prometheus.NewRegistry(),
		logger:     logger.WithComponent("metrics"),
		operations: make(map[string]*OperationMetrics),
		started:    time.Now(),
	}

	collector.initMetrics()

	if err := collector.registerMetrics(); err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	return collector, nil
}

// Start starts the metrics HTTP server
func (c *Collector) Start(ctx context.Context) error {
	if !c.config.Enabled {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle(c.config.Path, promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))
	mux.HandleFunc("/health", c.healthHandler)
	mux.HandleFunc("/debug/operations", c.debugOperationsHandler)

	c.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", c.config.Port),
		Handler:           mux,
		ReadHeaderTimeout: 30 * time.Second, // Prevent Slowloris attacks
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		if err := c.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			c.logger.Error("Metrics server error", map[string]interface{}{"error": err.Error()})
		}
	}()

	c.logger.Info("Metrics endpoint started", map[string]interface{}{
		"port": c.config.Port,
		"path": c.config.Path,
	})
	return nil
}

// Stop stops the metrics HTTP server
func (c *Collector) Stop(ctx context.Context) error {
	if c.server != nil {
		return c.server.Shutdown(ctx)
	}
	return nil
}

// Handler returns the Prometheus handler for the collector's registry
func (c *Collector) Handler() http.Handler {
	if c.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// RecordOperation records one callback invocation
func (c *Collector) RecordOperation(operation string, duration time.Duration, size int64, success bool) {
	if !c.config.Enabled {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	m, exists := c.operations[operation]
	if !exists {
		m = &OperationMetrics{}
		c.operations[operation] = m
	}
	m.Count++
	m.TotalDuration += duration
	m.TotalSize += size
	if !success {
		m.Errors++
	}
	m.LastOperation = time.Now()
	m.AvgDuration = time.Duration(int64(m.TotalDuration) / m.Count)

	status := "success"
	if !success {
		status = "error"
	}
	c.operationCounter.With(prometheus.Labels{
		"operation": operation,
		"status":    status,
	}).Inc()
	c.operationDuration.With(prometheus.Labels{
		"operation": operation,
	}).Observe(duration.Seconds())

	if size > 0 {
		c.operationBytes.With(prometheus.Labels{
			"operation": operation,
		}).Observe(float64(size))
	}
}

// RecordError counts a failed callback by the errno it surfaced
func (c *Collector) RecordError(operation string, err error) {
	if !c.config.Enabled || err == nil {
		return
	}

	c.errorCounter.With(prometheus.Labels{
		"operation": operation,
		"errno":     errnoLabel(err),
	}).Inc()
}

// SetOpenHandles updates the open handle gauge
func (c *Collector) SetOpenHandles(n int) {
	if !c.config.Enabled {
		return
	}
	c.openHandles.Set(float64(n))
}

// GetMetrics returns a snapshot of the internal tracking
func (c *Collector) GetMetrics() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	operations := make(map[string]*OperationMetrics, len(c.operations))
	for k, v := range c.operations {
		cp := *v
		operations[k] = &cp
	}

	return map[string]interface{}{
		"operations": operations,
		"started":    c.started,
		"uptime":     time.Since(c.started),
	}
}


func (c *Collector) initMetrics() {
	c.operationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: c.config.Namespace,
			Name:      "operations_total",
			Help:      "Total number of filesystem callbacks served",
		},
		[]string{"operation", "status"},
	)

	c.operationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: c.config.Namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of filesystem callbacks in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 16), // 0.5ms to ~16s
		},
		[]string{"operation"},
	)

	c.operationBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: c.config.Namespace,
			Name:      "operation_bytes",
			Help:      "Bytes transferred by read and write, entries returned by readdir",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 12), // 1 to 4M
		},
		[]string{"operation"},
	)

	c.errorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: c.config.Namespace,
			Name:      "errors_total",
			Help:      "Total number of failed callbacks by errno",
		},
		[]string{"operation", "errno"},
	)

	c.openHandles = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: c.config.Namespace,
			Name:      "open_handles",
			Help:      "Number of remote files currently open",
		},
	)
}

func (c *Collector) registerMetrics() error {
	metrics := []prometheus.Collector{
		c.operationCounter,
		c.operationDuration,
		c.operationBytes,
		c.errorCounter,
		c.openHandles,
	}

	for _, metric := range metrics {
		if err := c.registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

func errnoLabel(err error) string {
	errno := errors.ToErrno(err)
	if name := unix.ErrnoName(errno); name != "" {
		return name
	}
	return fmt.Sprintf("errno_%d", int(errno))
}

// HTTP handlers

// SetHealthTracker makes /health report the tracked component states
func (c *Collector) SetHealthTracker(tracker *health.Tracker) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.health = tracker
}

type healthResponse struct {
	Status     health.HealthState                 `json:"status"`
	Service    string                             `json:"service"`
	Components map[string]*health.ComponentHealth `json:"components,omitempty"`
}

func (c *Collector) healthHandler(w http.ResponseWriter, r *http.Request) {
	c.mu.RLock()
	tracker := c.health
	c.mu.RUnlock()

	resp := healthResponse{Status: health.StateHealthy, Service: "sftpfs-metrics"}
	if tracker != nil {
		resp.Status = tracker.GetOverallHealth()
		resp.Components = tracker.GetAllComponents()
	}

	status := http.StatusOK
	if resp.Status == health.StateUnavailable {
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		c.logger.Debug("Writing health response failed", map[string]interface{}{"error": err.Error()})
	}
}

func (c *Collector) debugOperationsHandler(w http.ResponseWriter, r *http.Request) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	w.Header().Set("Content-Type", "text/plain")

	writef := func(format string, args ...interface{}) { _, _ = fmt.Fprintf(w, format, args...) }

	writef("sftpfs Operations Summary\n")
	writef("=========================\n\n")
	writef("Uptime: %v\n", time.Since(c.started))
	writef("Started: %v\n\n", c.started)

	if len(c.operations) == 0 {
		writef("No operations recorded.\n")
		return
	}

	names := make([]string, 0, len(c.operations))
	for name := range c.operations {
		names = append(names, name)
	}
	sort.Strings(names)

	writef("%-12s %10s %10s %12s %12s %10s\n",
		"Operation", "Count", "Errors", "Avg Duration", "Bytes", "Last Op")
	writef("%-12s %10s %10s %12s %12s %10s\n",
		"---------", "-----", "------", "------------", "-----", "-------")

	for _, name := range names {
		op := c.operations[name]
		writef("%-12s %10d %10d %12v %12d %10s\n",
			name, op.Count, op.Errors, op.AvgDuration,
			op.TotalSize, op.LastOperation.Format("15:04:05"))
	}
}
