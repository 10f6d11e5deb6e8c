package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// UploadsTotal 按结果统计上传：ok / rejected / failed。
	UploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spectra_uploads_total",
		Help: "Image uploads by result.",
	}, []string{"result"})

	// ValidationRejectionsTotal 按原因统计被拒绝的上传。
	ValidationRejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spectra_validation_rejections_total",
		Help: "Rejected uploads by validation reason.",
	}, []string{"reason"})

	// BlobOperationsTotal 按操作与结果统计 blob 读写。
	BlobOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spectra_blob_operations_total",
		Help: "Blob store operations by op and result.",
	}, []string{"op", "result"})

	// FeedEnrichmentSeconds 统计一页结果的富化耗时。
	FeedEnrichmentSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "spectra_feed_enrichment_seconds",
		Help:    "Time spent enriching one page of images.",
		Buckets: prometheus.DefBuckets,
	}, []string{"mode"})
)

// Result 将错误转换为 ok / error 标签。
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Register attaches the Prometheus metrics endpoint to the router.
func Register(router gin.IRoutes, path string) {
	router.GET(path, gin.WrapH(promhttp.Handler()))
}
