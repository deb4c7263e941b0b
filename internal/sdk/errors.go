package sdk

import (
	"errors"
	"fmt"
)

// Error numbers returned by the client library.
const (
	ErrorOK                               uint32 = 0x0000
	ErrorUndefined                        uint32 = 0x0001
	ErrorNotImplemented                   uint32 = 0x0002
	ErrorClientInvalidID                  uint32 = 0x0200
	ErrorChannelInvalidID                 uint32 = 0x0300
	ErrorFailedConnectionInitialisation   uint32 = 0x0700
	ErrorInvalidServerConnectionHandlerID uint32 = 0x0702
)

var errorMessages = map[uint32]string{
	ErrorOK:                               "ok",
	ErrorUndefined:                        "undefined error",
	ErrorNotImplemented:                   "not implemented",
	ErrorClientInvalidID:                  "invalid clientID",
	ErrorChannelInvalidID:                 "invalid channelID",
	ErrorFailedConnectionInitialisation:   "failed connection initialization",
	ErrorInvalidServerConnectionHandlerID: "invalid server connection handler ID",
}

// ErrorMessage returns the library's description of an error number.
func ErrorMessage(code uint32) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return "unknown error"
}

// Error is a non-zero error number returned by a library call.
type Error struct {
	Op   string
	Code uint32
	Err  error
}

// NewError builds an Error for the named library entry point.
func NewError(op string, code uint32, err error) *Error {
	return &Error{Op: op, Code: code, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (0x%04x): %v", e.Op, ErrorMessage(e.Code), e.Code, e.Err)
	}

	return fmt.Sprintf("%s: %s (0x%04x)", e.Op, ErrorMessage(e.Code), e.Code)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Code extracts the library error number from err, or ErrorUndefined when
// err does not carry one.
func Code(err error) uint32 {
	if err == nil {
		return ErrorOK
	}

	var sdkErr *Error
	if errors.As(err, &sdkErr) {
		return sdkErr.Code
	}

	return ErrorUndefined
}
