package errors

// ErrorCode identifies an application error category in API responses
type ErrorCode int

const (
	ErrorCode_UNKNOWN ErrorCode = iota
	ErrorCode_INTERNAL
	ErrorCode_INVALID_ARGUMENT
	ErrorCode_NOT_FOUND
	ErrorCode_INVALID_PAYLOAD
	ErrorCode_MISSING_RECORDING_SOURCE
	ErrorCode_QUEUE_FULL
	ErrorCode_PROCESSING_FAILED
	ErrorCode_DB_QUERY_FAILED
)

var codeNames = map[ErrorCode]string{
	ErrorCode_UNKNOWN:                  "UNKNOWN",
	ErrorCode_INTERNAL:                 "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:         "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                "NOT_FOUND",
	ErrorCode_INVALID_PAYLOAD:          "INVALID_PAYLOAD",
	ErrorCode_MISSING_RECORDING_SOURCE: "MISSING_RECORDING_SOURCE",
	ErrorCode_QUEUE_FULL:               "QUEUE_FULL",
	ErrorCode_PROCESSING_FAILED:        "PROCESSING_FAILED",
	ErrorCode_DB_QUERY_FAILED:          "DB_QUERY_FAILED",
}

// String returns the stable name for the code
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
