package errors

// ErrorCode identifies an application error in API responses and logs
type ErrorCode int32

const (
	ErrorCode_HTTP_OK             ErrorCode = 200
	ErrorCode_INTERNAL            ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT    ErrorCode = 1001
	ErrorCode_INVALID_PAYLOAD     ErrorCode = 1003
	ErrorCode_SERVICE_UNAVAILABLE ErrorCode = 1004

	ErrorCode_MEETING_INVALID_CONFIG ErrorCode = 2001

	ErrorCode_AGENT_CONNECT_FAILED ErrorCode = 3000
	ErrorCode_AGENT_STREAM_FAILED  ErrorCode = 3001

	ErrorCode_INTEGRATION_STORAGE_FAILED ErrorCode = 4000
	ErrorCode_INTEGRATION_CACHE_FAILED   ErrorCode = 4001
	ErrorCode_INTEGRATION_EVENTS_FAILED  ErrorCode = 4002

	ErrorCode_DB_CONNECTION_FAILED ErrorCode = 5000
	ErrorCode_DB_QUERY_FAILED      ErrorCode = 5001
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                    "HTTP_OK",
	ErrorCode_INTERNAL:                   "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:           "INVALID_ARGUMENT",
	ErrorCode_INVALID_PAYLOAD:            "INVALID_PAYLOAD",
	ErrorCode_SERVICE_UNAVAILABLE:        "SERVICE_UNAVAILABLE",
	ErrorCode_MEETING_INVALID_CONFIG:     "MEETING_INVALID_CONFIG",
	ErrorCode_AGENT_CONNECT_FAILED:       "AGENT_CONNECT_FAILED",
	ErrorCode_AGENT_STREAM_FAILED:        "AGENT_STREAM_FAILED",
	ErrorCode_INTEGRATION_STORAGE_FAILED: "INTEGRATION_STORAGE_FAILED",
	ErrorCode_INTEGRATION_CACHE_FAILED:   "INTEGRATION_CACHE_FAILED",
	ErrorCode_INTEGRATION_EVENTS_FAILED:  "INTEGRATION_EVENTS_FAILED",
	ErrorCode_DB_CONNECTION_FAILED:       "DB_CONNECTION_FAILED",
	ErrorCode_DB_QUERY_FAILED:            "DB_QUERY_FAILED",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
