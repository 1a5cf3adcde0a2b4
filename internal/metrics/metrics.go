// Package metrics instruments the host runtime with Prometheus
// collectors, grounded on core/system_health_logging.go's HealthLogger
// (its own prometheus.Registry, gauge/counter fields set up in a
// constructor, promhttp.HandlerFor exposed over HTTP). The shape here
// swaps HealthLogger's ledger/network gauges for the wasm host's own
// signals: gas consumed, host-function call volume, active instances and
// open iterators. pkg/wasmhost feeds the gas, invocation, active-instance
// and module-rejection series; ObserveHostCall and
// IteratorOpened/IteratorClosed have no callers inside this module, so the
// host-call and open-iterator series stay at zero unless an embedding
// caller records them.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collector bundles every metric the host runtime records. It owns its
// own registry rather than using prometheus.DefaultRegisterer, so a
// process can run more than one independent host (e.g. in tests) without
// collectors colliding.
type Collector struct {
	registry *prometheus.Registry

	gasConsumed       prometheus.Counter
	hostCallsTotal    *prometheus.CounterVec
	invocationSeconds *prometheus.HistogramVec
	activeInstances   prometheus.Gauge
	openIterators     prometheus.Gauge
	moduleRejections  *prometheus.CounterVec
}

// New builds a Collector with a fresh registry and registers every
// collector against it.
func New() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		registry: reg,
		gasConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wasmhost_gas_consumed_total",
			Help: "Total externally-billed gas consumed across all invocations.",
		}),
		hostCallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wasmhost_host_calls_total",
			Help: "Host-function calls by import symbol.",
		}, []string{"symbol"}),
		invocationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wasmhost_invocation_seconds",
			Help:    "Wall-clock duration of a single Instance.Invoke call.",
			Buckets: prometheus.DefBuckets,
		}, []string{"entrypoint", "outcome"}),
		activeInstances: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wasmhost_active_instances",
			Help: "Instances currently between Created and Finished.",
		}),
		openIterators: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wasmhost_open_iterators",
			Help: "Storage iterators registered on a context cell but not yet exhausted.",
		}),
		moduleRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wasmhost_module_rejections_total",
			Help: "Modules rejected by the static checker, by reason.",
		}, []string{"reason"}),
	}

	reg.MustRegister(
		c.gasConsumed,
		c.hostCallsTotal,
		c.invocationSeconds,
		c.activeInstances,
		c.openIterators,
		c.moduleRejections,
	)
	return c
}

// Registry exposes the underlying registry so debugsrv can mount
// promhttp.HandlerFor against it.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// ObserveGas adds used to the running gas-consumed total.
func (c *Collector) ObserveGas(used uint64) {
	c.gasConsumed.Add(float64(used))
}

// ObserveHostCall increments the per-symbol host-call counter.
func (c *Collector) ObserveHostCall(symbol string) {
	c.hostCallsTotal.WithLabelValues(symbol).Inc()
}

// ObserveInvocation records one Invoke call's duration under entrypoint
// and outcome ("ok" or a Kind string from internal/instance).
func (c *Collector) ObserveInvocation(entrypoint, outcome string, seconds float64) {
	c.invocationSeconds.WithLabelValues(entrypoint, outcome).Observe(seconds)
}

// InstanceCreated/InstanceFinished track the active-instance gauge around
// an Instance's lifetime.
func (c *Collector) InstanceCreated()  { c.activeInstances.Inc() }
func (c *Collector) InstanceFinished() { c.activeInstances.Dec() }

// IteratorOpened/IteratorClosed track open storage iterators.
func (c *Collector) IteratorOpened() { c.openIterators.Inc() }
func (c *Collector) IteratorClosed() { c.openIterators.Dec() }

// ObserveModuleRejection increments the rejection counter for reason,
// called whenever instantiation fails with a static-validation fault (a
// compile error or a checker.Check rejection).
func (c *Collector) ObserveModuleRejection(reason string) {
	c.moduleRejections.WithLabelValues(reason).Inc()
}
