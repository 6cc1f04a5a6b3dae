package template

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultOK    = "ok"
	resultError = "error"
)

var (
	renderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "liquette",
		Name:      "render_duration_seconds",
		Help:      "Duration of top-level template renders.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"result"})

	tagRenders = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "liquette",
		Name:      "tag_renders_total",
		Help:      "Number of custom tag renders, by tag and result.",
	}, []string{"tag", "result"})
)

func result(err error) string {
	if err != nil {
		return resultError
	}
	return resultOK
}
