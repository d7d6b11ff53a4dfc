package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "proxy_http_requests_total", Help: "Total HTTP requests"},
		[]string{"route", "method", "status"},
	)
	ReqDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "proxy_http_request_duration_seconds",
			Help:    "Request duration seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	SubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "greetings_submissions_total", Help: "Greeting submissions by outcome"},
		[]string{"outcome"},
	)
	CaptchaFailures = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "greetings_captcha_failures_total", Help: "Failed captcha verifications"},
	)
)

func MustRegister() {
	prometheus.MustRegister(RequestsTotal, ReqDuration, SubmissionsTotal, CaptchaFailures)
}
