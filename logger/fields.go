package logger

// Shared field keys so entries from different packages stay queryable
// under one name.
const (
	FieldComponent = "component"
	FieldStage     = "stage"
	FieldStreamID  = "stream_id"
	FieldTopic     = "topic"
	FieldBatchSize = "batch_size"
	FieldAttempt   = "attempt"
	FieldError     = "error"
)

// Fields builds a field map from alternating key-value pairs; non-string
// keys are skipped.
//
//	logger.Info("flushed", logger.Fields(logger.FieldBatchSize, 64))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i+1 < len(kvs); i += 2 {
		if k, ok := kvs[i].(string); ok {
			m[k] = kvs[i+1]
		}
	}
	return m
}
