package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rem1niscence/smt/lib"
)

const metricsPattern = "/metrics"

// Metrics exposes Prometheus telemetry for tree, proof, store and batch operations.
type Metrics struct {
	server *http.Server
	config lib.MetricsConfig
	log    lib.LoggerI

	TreeMetrics
	ProofMetrics
	StoreMetrics
	BatchMetrics
}

// TreeMetrics covers Tree.Update and Tree.Get.
type TreeMetrics struct {
	Updates         *prometheus.CounterVec
	UpdateDuration  prometheus.Histogram
	Gets            *prometheus.CounterVec
}

// ProofMetrics covers MerkleProof compilation and Verify.
type ProofMetrics struct {
	Compiled         prometheus.Counter
	CompileDuration  prometheus.Histogram
	ProgramSize      prometheus.Histogram
	Verifications    *prometheus.CounterVec
	VerifyDuration   prometheus.Histogram
}

// StoreMetrics covers Store backend failures.
type StoreMetrics struct {
	IOErrors *prometheus.CounterVec
}

// BatchMetrics covers BatchState.
type BatchMetrics struct {
	Capacity  prometheus.Gauge
	Inserts   *prometheus.CounterVec
}

// NewMetricsServer creates a telemetry server bound to config.PrometheusAddress. Its collectors are
// registered with Prometheus's process-wide default registry, so a second call in the same process
// panics on duplicate registration.
func NewMetricsServer(config lib.MetricsConfig, l lib.LoggerI) *Metrics {
	mux := http.NewServeMux()
	mux.Handle(metricsPattern, promhttp.Handler())
	return &Metrics{
		server: &http.Server{Addr: config.PrometheusAddress, Handler: mux},
		config: config,
		log:    l,
		TreeMetrics: TreeMetrics{
			Updates: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "smt_tree_updates_total",
				Help: "Total number of tree Update calls",
			}, []string{"result"}),
			UpdateDuration: promauto.NewHistogram(prometheus.HistogramOpts{
				Name:    "smt_tree_update_seconds",
				Help:    "Time taken by Tree.Update calls in seconds",
				Buckets: prometheus.DefBuckets,
			}),
			Gets: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "smt_tree_gets_total",
				Help: "Total number of tree Get calls",
			}, []string{"found"}),
		},
		ProofMetrics: ProofMetrics{
			Compiled: promauto.NewCounter(prometheus.CounterOpts{
				Name: "smt_proofs_compiled_total",
				Help: "Total number of MerkleProof compilations",
			}),
			CompileDuration: promauto.NewHistogram(prometheus.HistogramOpts{
				Name:    "smt_proof_compile_seconds",
				Help:    "Time taken to compile a batch Merkle proof in seconds",
				Buckets: prometheus.DefBuckets,
			}),
			ProgramSize: promauto.NewHistogram(prometheus.HistogramOpts{
				Name:    "smt_proof_program_bytes",
				Help:    "Size in bytes of a compiled proof program",
				Buckets: prometheus.ExponentialBuckets(8, 2, 10),
			}),
			Verifications: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "smt_proof_verifications_total",
				Help: "Total number of proof verifications",
			}, []string{"result"}),
			VerifyDuration: promauto.NewHistogram(prometheus.HistogramOpts{
				Name:    "smt_proof_verify_seconds",
				Help:    "Time taken to verify a batch Merkle proof in seconds",
				Buckets: prometheus.DefBuckets,
			}),
		},
		StoreMetrics: StoreMetrics{
			IOErrors: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "smt_store_io_errors_total",
				Help: "Total number of Store backend errors",
			}, []string{"operation"}),
		},
		BatchMetrics: BatchMetrics{
			Capacity: promauto.NewGauge(prometheus.GaugeOpts{
				Name: "smt_batch_state_capacity",
				Help: "Capacity of the most recently constructed batch state",
			}),
			Inserts: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "smt_batch_state_inserts_total",
				Help: "Total number of batch state Insert calls",
			}, []string{"result"}),
		},
	}
}

// Start starts the telemetry server in the background if enabled.
func (m *Metrics) Start() {
	if m == nil || !m.config.Enabled {
		return
	}
	go func() {
		m.log.Infof("starting metrics server on %s", m.config.PrometheusAddress)
		if err := m.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			m.log.Errorf("metrics server failed with err: %s", err.Error())
		}
	}()
}

// Stop gracefully shuts down the telemetry server.
func (m *Metrics) Stop() {
	if m == nil || !m.config.Enabled {
		return
	}
	if err := m.server.Shutdown(context.Background()); err != nil {
		m.log.Error(err.Error())
	}
}
