package debugsrv

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vortexchain/wasmhost/internal/metrics"
)

// promHandler exposes m's registry in the Prometheus text exposition
// format, mirroring core/system_health_logging.go's promhttp.HandlerFor
// wiring.
func promHandler(m *metrics.Collector) http.Handler {
	return promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{})
}
