package classifier

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var sightengineAPIDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name: "ahri_sightengine_api_duration_sec",
	Help: "Duration of Sightengine image classification API calls",
})

var sightengineAPICount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "ahri_sightengine_api_count",
	Help: "Number of Sightengine image classification API calls, by outcome",
}, []string{"status"})
