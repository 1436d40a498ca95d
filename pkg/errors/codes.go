package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeUnauthorized       ErrorCode = "COMMON_003"
	ErrCodeForbidden          ErrorCode = "COMMON_004"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeDatabaseError      ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeExternalService    ErrorCode = "COMMON_014"
	ErrCodeFeatureDisabled    ErrorCode = "COMMON_015"
	ErrCodeNotImplemented     ErrorCode = "COMMON_016"
)

// Aliases
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeConflict     = ErrCodeConflict
	CodeOK           = ErrorCode("OK")
	CodeUnknown      = ErrorCode("UNKNOWN")
)

// Region Module Error Codes
const (
	CodeRegionNotFound  ErrorCode = "REGION_001"
	CodeInvalidRegionID ErrorCode = "REGION_002"
	CodeCatalogInvalid  ErrorCode = "REGION_003"
)

// Geo Module Error Codes
const (
	CodeGeoDocumentInvalid   ErrorCode = "GEO_001"
	CodeGeoSourceUnavailable ErrorCode = "GEO_002"
	CodeInvalidCoordinate    ErrorCode = "GEO_003"
	CodeNoRegionAtPoint      ErrorCode = "GEO_004"
)

// Representative Module Error Codes
const (
	CodeRepresentativeSourceFailed ErrorCode = "REP_001"
	CodeRepresentativeNotFound     ErrorCode = "REP_002"
)

// GeoIP Error Codes
const (
	CodeGeoIPLookupFailed ErrorCode = "GEOIP_001"
	CodeGeoIPDisabled     ErrorCode = "GEOIP_002"
)

// Infrastructure Error Codes
const (
	CodeDatabaseError     = ErrCodeDatabaseError
	CodeCacheError        = ErrCodeCacheError
	CodeMessageQueueError = ErrCodeExternalService
	CodeStorageError      = ErrCodeExternalService
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusBadGateway,
	ErrCodeFeatureDisabled:    http.StatusForbidden,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	CodeRegionNotFound:  http.StatusNotFound,
	CodeInvalidRegionID: http.StatusBadRequest,
	CodeCatalogInvalid:  http.StatusInternalServerError,

	CodeGeoDocumentInvalid:   http.StatusUnprocessableEntity,
	CodeGeoSourceUnavailable: http.StatusServiceUnavailable,
	CodeInvalidCoordinate:    http.StatusBadRequest,
	CodeNoRegionAtPoint:      http.StatusNotFound,

	CodeRepresentativeSourceFailed: http.StatusBadGateway,
	CodeRepresentativeNotFound:     http.StatusNotFound,

	CodeGeoIPLookupFailed: http.StatusUnprocessableEntity,
	CodeGeoIPDisabled:     http.StatusForbidden,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeUnauthorized:       "unauthorized",
	ErrCodeForbidden:          "forbidden",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeExternalService:    "external service error",
	ErrCodeFeatureDisabled:    "feature disabled",
	ErrCodeNotImplemented:     "not implemented",

	CodeRegionNotFound:  "region not found",
	CodeInvalidRegionID: "invalid region id",
	CodeCatalogInvalid:  "region catalog is invalid",

	CodeGeoDocumentInvalid:   "geojson document is invalid",
	CodeGeoSourceUnavailable: "geojson source unavailable",
	CodeInvalidCoordinate:    "invalid coordinate",
	CodeNoRegionAtPoint:      "no region at point",

	CodeRepresentativeSourceFailed: "representative source failed",
	CodeRepresentativeNotFound:     "representative not found",

	CodeGeoIPLookupFailed: "address lookup failed",
	CodeGeoIPDisabled:     "address lookup disabled",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
