package moderation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var decisionsCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "ahri_moderation_decisions_count",
	Help: "Number of moderation decisions on scanned images, by decision",
}, []string{"decision"})

var scanErrorsCount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "ahri_moderation_scan_errors_count",
	Help: "Number of image scans that failed and were skipped",
})

var scansInFlight = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "ahri_moderation_scans_in_flight",
	Help: "Number of classifier calls currently holding a scan slot",
})
