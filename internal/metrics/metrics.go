// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Checkout metrics
	IncCheckoutCreated(minutes int)
	IncCheckoutRejected(reason string) // reason: "invalid_package" or "provider_error"

	// Webhook metrics
	IncWebhookProcessed(status string) // status: "success", "duplicate", "unhandled", "rejected", "failed"
	AddMinutesCredited(minutes int64)

	// Consumption metrics
	IncConsumption(status string) // status: "success", "insufficient", "invalid", "failed"
	AddMinutesConsumed(minutes int64)
}
