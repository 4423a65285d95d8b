package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const namespace = "bookfeed"

var (
	VenuePhase = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace, Name: "venue_phase",
		Help: "Synchronizer lifecycle phase by venue (0 disconnected .. 4 steady)",
	}, []string{"venue"})
	VenueResyncsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "venue_resyncs_total",
		Help: "Venue resynchronizations by fault class",
	}, []string{"venue", "reason"})
	VenueUpdatesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "venue_updates_total",
		Help: "Accepted venue book mutations",
	}, []string{"venue"})
	VenueBookLevels = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace, Name: "venue_book_levels",
		Help: "Levels in the latest published venue book",
	}, []string{"venue", "side"})
	Subscribers = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Name: "subscribers",
		Help: "Active consolidated book streams",
	})
	ConsolidationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace, Name: "consolidation_seconds",
		Help:    "Time spent building one consolidated book",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
	})
	SinkWritesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "sink_writes_total",
		Help: "Consolidated snapshot writes by sink and result",
	}, []string{"sink", "result"})
)

func Init(logger *zap.Logger) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	toRegister := []prometheus.Collector{
		VenuePhase, VenueResyncsTotal, VenueUpdatesTotal, VenueBookLevels,
		Subscribers, ConsolidationSeconds, SinkWritesTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	}
	for _, c := range toRegister {
		if err := reg.Register(c); err != nil {
			logger.Warn("metric registration failed", zap.Error(err))
		}
	}
	logger.Info("prometheus metrics initialized")
	return reg
}

func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
