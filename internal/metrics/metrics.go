package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
	DonorFetchDuration prometheus.Histogram
	DonorFetchFailures prometheus.Counter
	DonorsCreated      prometheus.Counter
	DonorsDeleted      prometheus.Counter
	PhotosUploaded     prometheus.Counter
	LoginFailures      prometheus.Counter
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "blooddonors_http_requests_total",
			Help: "HTTP requests by method and status code",
		}, []string{"method", "code"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "blooddonors_http_request_duration_seconds",
			Help:    "HTTP request latency by method",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		DonorFetchDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "blooddonors_donor_fetch_duration_seconds",
			Help:    "Duration of paged donor reads from the backing store",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		DonorFetchFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "blooddonors_donor_fetch_failures_total",
			Help: "Paged donor reads that failed",
		}),
		DonorsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "blooddonors_donors_created_total",
			Help: "Donors added through the admin panel",
		}),
		DonorsDeleted: f.NewCounter(prometheus.CounterOpts{
			Name: "blooddonors_donors_deleted_total",
			Help: "Donors removed through the admin panel",
		}),
		PhotosUploaded: f.NewCounter(prometheus.CounterOpts{
			Name: "blooddonors_photos_uploaded_total",
			Help: "Donor photos uploaded",
		}),
		LoginFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "blooddonors_login_failures_total",
			Help: "Rejected admin logins",
		}),
	}
}

// ObserveFetch records a donor page read.
func (m *Metrics) ObserveFetch(start time.Time, err error) {
	m.DonorFetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		m.DonorFetchFailures.Inc()
	}
}

func (m *Metrics) ObserveRequest(method string, status int, start time.Time) {
	m.HTTPRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
}
