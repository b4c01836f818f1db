package indexer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	documentsIndexed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_documents_indexed_total",
			Help: "Total number of product documents written to the search index",
		},
	)

	documentsFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_documents_index_failures_total",
			Help: "Total number of product documents that failed to index",
		},
	)

	documentsDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_documents_deleted_total",
			Help: "Total number of product documents removed from the search index",
		},
	)
)
