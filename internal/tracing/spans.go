package tracing

// Span attribute keys for API client spans.
const (
	AttrHTTPMethod     = "http.request.method"
	AttrHTTPStatusCode = "http.response.status_code"
	AttrURLPath        = "url.path"
	AttrServerAddress  = "server.address"
	AttrCorrelationID  = "musichub.correlation_id"
	AttrISRC           = "musichub.isrc"
	AttrEnvelopeError  = "musichub.envelope.error"
)

// Span names.
const (
	SpanSubmitRegistration = "client.submit_registration"
	SpanFetchRecent        = "client.fetch_recent"
	SpanPrefixHTTP         = "HTTP "
)
