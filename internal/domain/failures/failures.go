package failures

import (
	"errors"
	"strings"
)

// Kind classifies a failure so the HTTP layer can pick a status code and the
// UI can show a sensible message.
type Kind string

const (
	Configuration      Kind = "ConfigurationError"
	Validation         Kind = "ValidationError"
	GenerationInFlight Kind = "GenerationInFlight"
	UnreadableFile     Kind = "UnreadableFile"
	NotFound           Kind = "NotFound"

	// 生成APIの応答に関するもの
	ContentBlocked    Kind = "ContentBlocked"
	ModelReturnedText Kind = "ModelReturnedText"
	EmptyResponse     Kind = "EmptyResponse"
	NoImageData       Kind = "NoImageData"
	GenerationFailed  Kind = "GenerationFailed"

	// サイズ補正に関するもの
	DecodeFailed       Kind = "DecodeFailed"
	SurfaceUnavailable Kind = "SurfaceUnavailable"

	Unknown Kind = "Unknown"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the outermost *Error in err's chain.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return Unknown
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// IsGeneration reports whether err came back from the image generation call.
func IsGeneration(err error) bool {
	switch KindOf(err) {
	case ContentBlocked, ModelReturnedText, EmptyResponse, NoImageData, GenerationFailed:
		return true
	}
	return false
}

func IsQuota(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "quota exceeded") ||
		strings.Contains(errStr, "resourceexhausted") ||
		strings.Contains(errStr, "resource_exhausted")
}
