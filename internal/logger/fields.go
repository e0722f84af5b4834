package logger

const (
	// Request
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldLatency   = "latency_ms"
	FieldClientIP  = "client_ip"

	// Actor
	FieldUserID = "user_id"

	// Live channel
	FieldHandle    = "conn_handle"
	FieldMessageID = "message_id"
	FieldEdgeID    = "edge_id"

	// Service
	FieldService = "service"
)
