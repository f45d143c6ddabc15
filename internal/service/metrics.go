package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	documentsGeneratedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "brokerdesk",
		Name:      "documents_generated_total",
		Help:      "Documents generated from templates, by type and whether it started a new chain.",
	}, []string{"type", "kind"})

	documentsUploadedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "brokerdesk",
		Name:      "documents_uploaded_total",
		Help:      "Files archived by direct upload, by sniffed content type.",
	}, []string{"content_type"})

	storageCleanupFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "brokerdesk",
		Name:      "storage_cleanup_failures_total",
		Help:      "Stored objects that could not be removed after their record was deleted or not created.",
	})
)
