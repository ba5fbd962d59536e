package metrics

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncCheckoutCreated is a no-op.
func (n *NoopRecorder) IncCheckoutCreated(minutes int) {}

// IncCheckoutRejected is a no-op.
func (n *NoopRecorder) IncCheckoutRejected(reason string) {}

// IncWebhookProcessed is a no-op.
func (n *NoopRecorder) IncWebhookProcessed(status string) {}

// AddMinutesCredited is a no-op.
func (n *NoopRecorder) AddMinutesCredited(minutes int64) {}

// IncConsumption is a no-op.
func (n *NoopRecorder) IncConsumption(status string) {}

// AddMinutesConsumed is a no-op.
func (n *NoopRecorder) AddMinutesConsumed(minutes int64) {}
