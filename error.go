package blesim

import (
	"fmt"

	"github.com/pkg/errors"
)

// Code classifies failures surfaced to the host.
type Code int

const (
	// CodeUnknown is the catch-all for unclassified failures.
	CodeUnknown Code = iota
	// CodeAdapterUnavailable means no usable adapter exists (or it was destroyed).
	CodeAdapterUnavailable
	// CodeAdapterUnauthorized means the host is not permitted to use the adapter.
	CodeAdapterUnauthorized
	// CodeAdapterPoweredOff means the operation needs a powered-on radio.
	CodeAdapterPoweredOff
	// CodeAdvertisingFailed means advertising could not be started or updated.
	CodeAdvertisingFailed
	// CodeAdvertisingUnsupported means the platform cannot advertise.
	CodeAdvertisingUnsupported
	// CodeScanningFailed means scanning could not be started.
	CodeScanningFailed
	// CodeInvalidParameter means a caller-supplied value was rejected.
	CodeInvalidParameter
	// CodePayloadTooLarge means the manufacturer data exceeds the advertising PDU.
	CodePayloadTooLarge
	// CodePlatformError wraps a platform-specific failure.
	CodePlatformError
	// CodeInvalidState means the command is not legal in the current adapter state.
	CodeInvalidState
	// CodeAlreadyActive means the requested activity is already running.
	CodeAlreadyActive
	// CodeSimulated is a test-directed failure, raised only on request.
	CodeSimulated
)

var codeName = map[Code]string{
	CodeUnknown:                "unknown error",
	CodeAdapterUnavailable:     "adapter unavailable",
	CodeAdapterUnauthorized:    "adapter unauthorized",
	CodeAdapterPoweredOff:      "adapter powered off",
	CodeAdvertisingFailed:      "advertising failed",
	CodeAdvertisingUnsupported: "advertising unsupported",
	CodeScanningFailed:         "scanning failed",
	CodeInvalidParameter:       "invalid parameter",
	CodePayloadTooLarge:        "payload too large",
	CodePlatformError:          "platform error",
	CodeInvalidState:           "invalid state",
	CodeAlreadyActive:          "already active",
	CodeSimulated:              "simulated error",
}

func (c Code) String() string {
	if n, ok := codeName[c]; ok {
		return n
	}
	return codeName[CodeUnknown]
}

// Error is a classified adapter failure. Native carries platform-specific
// detail when a backend contributed one.
type Error struct {
	Code    Code
	Message string
	Native  string
}

func (e *Error) Error() string {
	if e.Native == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Native)
}

// NewError builds a classified error.
func NewError(c Code, msg string) *Error {
	return &Error{Code: c, Message: msg}
}

// Errorf builds a classified error with a formatted message.
func Errorf(c Code, format string, args ...interface{}) *Error {
	return &Error{Code: c, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the classification from err, unwrapping any layers added
// with pkg/errors. Unclassified errors report CodeUnknown.
func CodeOf(err error) Code {
	if e, ok := errors.Cause(err).(*Error); ok {
		return e.Code
	}
	return CodeUnknown
}
