package tracing

// Span attribute keys for reorder middleware tracing.
const (
	// Request attributes
	AttrRequestID   = "request.id"
	AttrRequestPath = "request.path"

	// Transform attributes
	AttrContextKey   = "transform.context_key"
	AttrAppsIn       = "transform.apps_in"
	AttrAppsOut      = "transform.apps_out"
	AttrGateDecision = "gate.applicable"

	// Error attributes
	AttrErrorMessage = "error.message"
)

// Span names.
const (
	SpanProcessResponse = "middleware.process_response"
	SpanApplyTransform  = "reorder.apply"
)

// Event names for span events.
const (
	EventContextExtracted = "context.extracted"
	EventConfigParsed     = "config.parsed"
	EventResultInstalled  = "result.installed"
)
