package dedupe

import "github.com/prometheus/client_golang/prometheus"

var ChangeCount = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "dedupe",
	Subsystem: "index",
	Name:      "changes",
}, []string{"index", "kind", "result"})

var DrainRecords = prometheus.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "dedupe",
	Subsystem: "index",
	Name:      "drain_records",
	Buckets:   []float64{0, 1, 5, 10, 50, 100, 500, 1000, 5000},
}, []string{"index"})

var ItemCount = prometheus.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "dedupe",
	Subsystem: "index",
	Name:      "items",
}, []string{"index"})

var GroupCount = prometheus.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "dedupe",
	Subsystem: "index",
	Name:      "groups",
}, []string{"index"})

var RebuildCount = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "dedupe",
	Subsystem: "index",
	Name:      "rebuilds",
}, []string{"index"})

// Collectors lists the index metrics for registration, e.g.
// prometheus.MustRegister(dedupe.Collectors()...).
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		ChangeCount,
		DrainRecords,
		ItemCount,
		GroupCount,
		RebuildCount,
	}
}

func (ix *Index[ID, S]) count(kind ChangeKind, res result) {
	if !ix.opts.metrics {
		return
	}
	ChangeCount.WithLabelValues(ix.opts.name, kind.String(), string(res)).Inc()
}

func (ix *Index[ID, S]) observe(processed int) {
	if !ix.opts.metrics {
		return
	}
	DrainRecords.WithLabelValues(ix.opts.name).Observe(float64(processed))
	ItemCount.WithLabelValues(ix.opts.name).Set(float64(ix.items.Len()))
	GroupCount.WithLabelValues(ix.opts.name).Set(float64(len(ix.groups)))
}

func (ix *Index[ID, S]) forgetMetrics() {
	if !ix.opts.metrics {
		return
	}
	ItemCount.DeleteLabelValues(ix.opts.name)
	GroupCount.DeleteLabelValues(ix.opts.name)
}
