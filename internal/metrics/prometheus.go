package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder backed by Prometheus collectors.
type PrometheusRecorder struct {
	checkoutsCreated  *prometheus.CounterVec
	checkoutsRejected *prometheus.CounterVec
	webhooksProcessed *prometheus.CounterVec
	minutesCredited   prometheus.Counter
	consumptions      *prometheus.CounterVec
	minutesConsumed   prometheus.Counter
}

// NewPrometheus builds a PrometheusRecorder and registers its collectors
// with the given registerer.
func NewPrometheus(namespace string, reg prometheus.Registerer) *PrometheusRecorder {
	r := &PrometheusRecorder{
		checkoutsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkouts_created_total",
			Help:      "Total checkout sessions created, by package size.",
		}, []string{"minutes"}),
		checkoutsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkouts_rejected_total",
			Help:      "Total checkout requests rejected, by reason.",
		}, []string{"reason"}),
		webhooksProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_events_total",
			Help:      "Total webhook events processed, by outcome.",
		}, []string{"status"}),
		minutesCredited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "minutes_credited_total",
			Help:      "Total minutes credited to user balances.",
		}),
		consumptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "consumptions_total",
			Help:      "Total consumption requests, by outcome.",
		}, []string{"status"}),
		minutesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "minutes_consumed_total",
			Help:      "Total minutes debited from user balances.",
		}),
	}

	reg.MustRegister(
		r.checkoutsCreated,
		r.checkoutsRejected,
		r.webhooksProcessed,
		r.minutesCredited,
		r.consumptions,
		r.minutesConsumed,
	)

	return r
}

// IncCheckoutCreated counts a created checkout session.
func (r *PrometheusRecorder) IncCheckoutCreated(minutes int) {
	r.checkoutsCreated.WithLabelValues(strconv.Itoa(minutes)).Inc()
}

// IncCheckoutRejected counts a rejected checkout request.
func (r *PrometheusRecorder) IncCheckoutRejected(reason string) {
	r.checkoutsRejected.WithLabelValues(reason).Inc()
}

// IncWebhookProcessed counts a webhook event by outcome.
func (r *PrometheusRecorder) IncWebhookProcessed(status string) {
	r.webhooksProcessed.WithLabelValues(status).Inc()
}

// AddMinutesCredited accumulates credited minutes.
func (r *PrometheusRecorder) AddMinutesCredited(minutes int64) {
	r.minutesCredited.Add(float64(minutes))
}

// IncConsumption counts a consumption request by outcome.
func (r *PrometheusRecorder) IncConsumption(status string) {
	r.consumptions.WithLabelValues(status).Inc()
}

// AddMinutesConsumed accumulates consumed minutes.
func (r *PrometheusRecorder) AddMinutesConsumed(minutes int64) {
	r.minutesConsumed.Add(float64(minutes))
}
