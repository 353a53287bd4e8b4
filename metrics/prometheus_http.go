package metrics

import (
	"fmt"
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"go.viam.com/graspexec/logging"
)

// MetricsPath and HealthPath are the routes served by HTTPHandler.
const (
	MetricsPath = "/metrics"
	HealthPath  = "/healthz"
)

// HTTPHandler serves reg on MetricsPath and a liveness check on HealthPath. Scrape errors are logged
// and the remaining metrics are still served.
func HTTPHandler(reg *prom.Registry, logger logging.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(MetricsPath, promhttp.HandlerFor(reg, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorLog:          zap.NewStdLog(logger.AsZap().Desugar()),
		ErrorHandling:     promhttp.ContinueOnError,
	}))
	mux.HandleFunc(HealthPath, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintln(w, "ok")
	})
	return mux
}
