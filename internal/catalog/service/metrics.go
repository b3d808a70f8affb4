package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	reasonStoreError = "store_error"
	reasonEmpty      = "empty"
	reasonDisabled   = "disabled"
)

var (
	// FallbackTotal counts reads answered from the fallback table.
	// Labels: operation, reason (store_error, empty, disabled)
	FallbackTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "portfolio",
			Subsystem: "catalog",
			Name:      "fallback_total",
			Help:      "Reads served from the static fallback table",
		},
		[]string{"operation", "reason"},
	)

	// StoreErrorsTotal counts failed document store calls.
	StoreErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "portfolio",
			Subsystem: "catalog",
			Name:      "store_errors_total",
			Help:      "Document store calls that returned an error",
		},
		[]string{"operation"},
	)

	// WritesTotal counts upsert and delete calls by outcome.
	WritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "portfolio",
			Subsystem: "catalog",
			Name:      "writes_total",
			Help:      "Project write operations by result",
		},
		[]string{"operation", "result"},
	)
)
