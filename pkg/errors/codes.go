package errors

import "net/http"

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeConflict           ErrorCode = "COMMON_004"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_005"
	ErrCodeTimeout            ErrorCode = "COMMON_006"
	ErrCodeValidation         ErrorCode = "COMMON_007"
	ErrCodeSerialization      ErrorCode = "COMMON_008"
	ErrCodeNotImplemented     ErrorCode = "COMMON_009"
)

// Ingest Module Error Codes
const (
	ErrCodeIngestOpenFailed   ErrorCode = "ING_001"
	ErrCodeIngestReadFailed   ErrorCode = "ING_002"
	ErrCodeIngestEmptySource  ErrorCode = "ING_003"
	ErrCodeIngestMissingField ErrorCode = "ING_004"
)

// Graph Module Error Codes
const (
	ErrCodeGraphVertexOutOfRange ErrorCode = "GRF_001"
	ErrCodeGraphSelfLoop         ErrorCode = "GRF_002"
	ErrCodeGraphWeightInvalid    ErrorCode = "GRF_003"
	ErrCodeGraphExportFailed     ErrorCode = "GRF_004"
)

// Analysis Module Error Codes
const (
	ErrCodeAnalysisConfigInvalid ErrorCode = "ANL_001"
	ErrCodeAnalysisNoEvents      ErrorCode = "ANL_002"
	ErrCodePartitionFailed       ErrorCode = "ANL_003"
	ErrCodeAnalysisRunNotFound   ErrorCode = "ANL_004"
)

// Sentinel codes used when inspecting arbitrary error chains.
const (
	CodeUnknown = ErrorCode("UNKNOWN")
	CodeOK      = ErrorCode("OK")
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes for the API layer.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodeIngestOpenFailed:   http.StatusBadRequest,
	ErrCodeIngestReadFailed:   http.StatusInternalServerError,
	ErrCodeIngestEmptySource:  http.StatusBadRequest,
	ErrCodeIngestMissingField: http.StatusBadRequest,

	ErrCodeGraphVertexOutOfRange: http.StatusInternalServerError,
	ErrCodeGraphSelfLoop:         http.StatusInternalServerError,
	ErrCodeGraphWeightInvalid:    http.StatusInternalServerError,
	ErrCodeGraphExportFailed:     http.StatusInternalServerError,

	ErrCodeAnalysisConfigInvalid: http.StatusUnprocessableEntity,
	ErrCodeAnalysisNoEvents:      http.StatusBadRequest,
	ErrCodePartitionFailed:       http.StatusInternalServerError,
	ErrCodeAnalysisRunNotFound:   http.StatusNotFound,
}

// HTTPStatus returns the HTTP status for a code, defaulting to 500 for codes
// without an explicit mapping.
func HTTPStatus(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
