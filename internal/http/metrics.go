// Package http agrupa las piezas HTTP compartidas por el router: métricas
// Prometheus del servidor, del store y del CMS.
package http

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	metricsOnce sync.Once
	metricsErr  error

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpInflight        *prometheus.GaugeVec

	storeConnectsTotal *prometheus.CounterVec
	upstreamTotal      *prometheus.CounterVec
	upstreamDuration   *prometheus.HistogramVec
)

// RegisterMetrics registra los collectors una sola vez y devuelve el handler
// de /metrics.
func RegisterMetrics(reg prometheus.Registerer) (http.Handler, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	metricsOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Número total de requests procesadas",
		}, []string{"method", "path", "status"})

		httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latencia de los requests HTTP",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"})

		httpInflight = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Requests en vuelo por método y ruta",
		}, []string{"method", "path"})

		storeConnectsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "store_connect_attempts_total",
			Help: "Intentos de conexión al store de documentos por resultado",
		}, []string{"result"})

		upstreamTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cms_upstream_requests_total",
			Help: "Requests al CMS por ruta y clase de status",
		}, []string{"path", "class"})

		upstreamDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cms_upstream_duration_seconds",
			Help:    "Latencia de los requests al CMS",
			Buckets: prometheus.DefBuckets,
		}, []string{"path"})

		for _, c := range []prometheus.Collector{
			httpRequestsTotal, httpRequestDuration, httpInflight,
			storeConnectsTotal, upstreamTotal, upstreamDuration,
		} {
			if err := registerCollector(reg, c); err != nil {
				metricsErr = err
				return
			}
		}
	})
	if metricsErr != nil {
		return nil, metricsErr
	}
	return promhttp.Handler(), nil
}

// WithMetrics instrumenta requests: contador, latencia e inflight.
func WithMetrics(next http.Handler) http.Handler {
	if httpRequestsTotal == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method := strings.ToUpper(r.Method)
		path := normalizePath(r.URL.Path)

		httpInflight.WithLabelValues(method, path).Inc()
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		defer func() {
			httpInflight.WithLabelValues(method, path).Dec()
			httpRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
		}()

		next.ServeHTTP(rec, r)
	})
}

// ObserveStoreConnect cuenta un intento de conexión del ConnectionCache.
func ObserveStoreConnect(_ int64, err error) {
	if storeConnectsTotal == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	storeConnectsTotal.WithLabelValues(result).Inc()
}

// ObserveUpstream registra una llamada al CMS (status 0 = falla de transporte).
func ObserveUpstream(path string, status int, elapsed time.Duration) {
	if upstreamTotal == nil {
		return
	}
	class := "transport_error"
	if status > 0 {
		class = strconv.Itoa(status/100) + "xx"
	}
	upstreamTotal.WithLabelValues(path, class).Inc()
	upstreamDuration.WithLabelValues(path).Observe(elapsed.Seconds())
}

func registerCollector(reg prometheus.Registerer, c prometheus.Collector) error {
	if err := reg.Register(c); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return nil
		}
		return err
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.status == 0 {
		s.status = code
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	return s.ResponseWriter.Write(b)
}

func (s *statusRecorder) Unwrap() http.ResponseWriter { return s.ResponseWriter }

var (
	uuidSegmentRE  = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F-]{4}-[0-9a-fA-F-]{4,}$`)
	objectIDRE     = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)
	tokenSegmentRE = regexp.MustCompile(`^[A-Za-z0-9_-]{24,}$`)
)

// staticRoots son los primeros segmentos que no son slugs de tenant.
var staticRoots = map[string]bool{
	"api": true, "dashboard": true, "menu": true, "login": true,
	"unauthorized": true, "healthz": true, "readyz": true, "metrics": true,
}

// normalizePath reemplaza ids y slugs de tenant para acotar la cardinalidad.
func normalizePath(p string) string {
	clean := strings.SplitN(p, "?", 2)[0]
	var out []string
	for _, seg := range strings.Split(clean, "/") {
		if seg == "" {
			continue
		}
		switch {
		case len(out) == 0 && !staticRoots[seg]:
			out = append(out, ":tenant")
		case isDynamicSegment(seg):
			out = append(out, ":param")
		default:
			out = append(out, seg)
		}
	}
	if len(out) == 0 {
		return "/"
	}
	return "/" + strings.Join(out, "/")
}

func isDynamicSegment(seg string) bool {
	if _, err := strconv.ParseInt(seg, 10, 64); err == nil {
		return true
	}
	return uuidSegmentRE.MatchString(seg) || objectIDRE.MatchString(seg) || tokenSegmentRE.MatchString(seg)
}
