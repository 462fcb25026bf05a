package build

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	buildsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_builds_total",
		Help: "The total number of site builds by result",
	}, []string{"result"})
	buildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "folio_build_duration_seconds",
		Help:    "Time spent building the site",
		Buckets: prometheus.DefBuckets,
	})
	collectionCards = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "folio_collection_cards",
		Help: "Cards loaded per collection by the last successful build",
	}, []string{"collection"})
	driftPages = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "folio_drift_pages",
		Help: "Collection pages whose markup did not match their cards in the last build",
	})
)

func observe(result *Result, err error) {
	if err != nil {
		buildsTotal.WithLabelValues("error").Inc()
		return
	}

	buildsTotal.WithLabelValues("ok").Inc()
	buildDuration.Observe(result.Duration.Seconds())
	for name, n := range result.Cards {
		collectionCards.WithLabelValues(name).Set(float64(n))
	}
	driftPages.Set(float64(len(result.Drift)))
}
