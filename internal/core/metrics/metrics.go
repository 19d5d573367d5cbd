package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 业务指标（HTTP 指标见 middleware.Metrics）
var (
	ScansRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "radar_scans_total", Help: "Nearby scans by record outcome"},
		[]string{"outcome"},
	)
	NearbyResults = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "radar_nearby_results",
		Help:    "Restaurants returned per nearby lookup",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
	})
	ReportsFiled = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "radar_reports_filed_total", Help: "Reports filed by target kind"},
		[]string{"target_kind"},
	)
	ReportsResolved = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "radar_reports_resolved_total", Help: "Reports resolved by disposition"},
		[]string{"disposition"},
	)
	RoleChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "radar_role_changes_total", Help: "Derived role transitions"},
		[]string{"from", "to"},
	)
)

func init() {
	prometheus.MustRegister(ScansRecorded, NearbyResults, ReportsFiled, ReportsResolved, RoleChanges)
}

// Handler 暴露 /metrics
func Handler() gin.HandlerFunc { return gin.WrapH(promhttp.Handler()) }
