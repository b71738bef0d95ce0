package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// Tracing fields, propagated through the call chain via context.
const (
	// FieldRequestID is the HTTP request ID (UUID)
	FieldRequestID = "request_id"

	// FieldGenerationID identifies one generate-and-render run
	FieldGenerationID = "generation_id"

	// FieldTemplate is the selected template file name
	FieldTemplate = "template"

	// FieldComponent is the component/module name
	FieldComponent = "component"

	// FieldModel is the text-generation model identifier
	FieldModel = "model"
)

// Metric fields, attached per entry for aggregation.
const (
	// FieldDurationMs is the execution duration in milliseconds
	FieldDurationMs = "duration_ms"

	// FieldCount is a generic count field
	FieldCount = "count"

	// FieldSize is the data size in bytes
	FieldSize = "size"

	// FieldStatus is the operation status
	FieldStatus = "status"
)
