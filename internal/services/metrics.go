package services

import "github.com/prometheus/client_golang/prometheus"

var (
	importRowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bistro_import_rows_total",
			Help: "Rows seen by CSV imports, by outcome",
		},
		[]string{"outcome"},
	)

	exportedProductsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bistro_exported_products_total",
			Help: "Products written to CSV exports",
		},
	)

	transfersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bistro_import_export_total",
			Help: "Completed import and export requests",
		},
		[]string{"type"},
	)
)

func init() {
	prometheus.MustRegister(importRowsTotal, exportedProductsTotal, transfersTotal)
}
