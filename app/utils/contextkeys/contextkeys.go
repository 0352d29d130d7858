package contextkeys

// RequestId keys the per-request correlation ID in a request context.
type RequestId struct{}
