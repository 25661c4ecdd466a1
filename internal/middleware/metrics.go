package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis command failures by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campwild_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// ImageUploads counts stored campground images by outcome.
	ImageUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campwild_image_uploads_total",
		Help: "Total number of image upload attempts by outcome",
	}, []string{"outcome"})

	// CampgroundMutations counts create, update and delete operations on campgrounds.
	CampgroundMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campwild_campground_mutations_total",
		Help: "Total number of campground mutations by operation",
	}, []string{"operation"})
)

var (
	promOnce     sync.Once
	promInstance *fiberprometheus.FiberPrometheus
)

// InitMetrics creates the fiberprometheus middleware for the named service.
// The instance is shared; fiberprometheus registers its collectors with the
// default registry and a second registration would panic.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		promInstance = fiberprometheus.New(serviceName)
	})
	return promInstance
}

// MetricsMiddleware returns the handler that records per-route HTTP metrics.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
