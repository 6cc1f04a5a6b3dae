package core

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var jobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "liquette_jobs_total",
	Help: "Render jobs handled, by final status.",
}, []string{"status"})
