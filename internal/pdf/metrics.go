package pdf

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fillsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "brokerdesk",
		Subsystem: "pdf",
		Name:      "fills_total",
		Help:      "Template fills by document type and result.",
	}, []string{"type", "result"})

	overlayFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "brokerdesk",
		Subsystem: "pdf",
		Name:      "overlay_failures_total",
		Help:      "Signature overlays skipped because they could not be decoded or embedded.",
	}, []string{"overlay"})

	templateCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "brokerdesk",
		Subsystem: "pdf",
		Name:      "template_cache_total",
		Help:      "Template byte lookups by cache outcome.",
	}, []string{"outcome"})
)
