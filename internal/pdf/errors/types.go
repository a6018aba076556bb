package errors

import (
	"encoding/json"
	"fmt"
)

// PDFError describes a failure while reading or mutating the PDF object graph.
// It carries the operation and the object identity involved so callers can
// report a useful diagnostic.
type PDFError struct {
	Type      ErrorType `json:"type"`
	Op        string    `json:"operation,omitempty"`
	Message   string    `json:"message"`
	ObjectNum int       `json:"object_num,omitempty"`
	GenNum    int       `json:"generation_num,omitempty"`
	Err       error     `json:"-"`
}

// ErrorType represents the categories of errors raised by the document layer
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeInvalidPageID
	ErrorTypeInvalidAnnotation
	ErrorTypeInvalidEncoding
	ErrorTypeMissingObject
	ErrorTypeMalformedObject
	ErrorTypeInvalidStructure
	ErrorTypeInvalidMetadata
)

// Sentinels for errors.Is. Matching is by Type only.
var (
	ErrInvalidPageID     = &PDFError{Type: ErrorTypeInvalidPageID, Message: "invalid page id found in the document"}
	ErrInvalidAnnotation = &PDFError{Type: ErrorTypeInvalidAnnotation, Message: "invalid annotation found in the document"}
	ErrMissingObject     = &PDFError{Type: ErrorTypeMissingObject, Message: "object not found"}
	ErrMalformedObject   = &PDFError{Type: ErrorTypeMalformedObject, Message: "object has an unexpected type"}
	ErrInvalidStructure  = &PDFError{Type: ErrorTypeInvalidStructure, Message: "invalid document structure"}
	ErrInvalidMetadata   = &PDFError{Type: ErrorTypeInvalidMetadata, Message: "invalid document metadata"}
)

// Error implements the error interface
func (e *PDFError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Type.String(), e.Message)
	if e.Op != "" {
		msg = fmt.Sprintf("%s: %s", e.Op, msg)
	}
	if e.ObjectNum > 0 {
		msg = fmt.Sprintf("%s (object %d %d R)", msg, e.ObjectNum, e.GenNum)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause, if any
func (e *PDFError) Unwrap() error {
	return e.Err
}

// MarshalJSON adds the wrapped error's text as "cause".
func (e *PDFError) MarshalJSON() ([]byte, error) {
	type plain PDFError
	out := struct {
		*plain
		Cause string `json:"cause,omitempty"`
	}{plain: (*plain)(e)}
	if e.Err != nil {
		out.Cause = e.Err.Error()
	}
	return json.Marshal(out)
}

// Is reports whether target is a PDFError of the same type.
func (e *PDFError) Is(target error) bool {
	t, ok := target.(*PDFError)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

// String returns a string representation of the ErrorType
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeInvalidPageID:
		return "INVALID_PAGE_ID"
	case ErrorTypeInvalidAnnotation:
		return "INVALID_ANNOTATION"
	case ErrorTypeInvalidEncoding:
		return "INVALID_ENCODING"
	case ErrorTypeMissingObject:
		return "MISSING_OBJECT"
	case ErrorTypeMalformedObject:
		return "MALFORMED_OBJECT"
	case ErrorTypeInvalidStructure:
		return "INVALID_STRUCTURE"
	case ErrorTypeInvalidMetadata:
		return "INVALID_METADATA"
	default:
		return "UNKNOWN"
	}
}

// NewPDFError creates a new PDFError for the given operation
func NewPDFError(errorType ErrorType, op, message string) *PDFError {
	return &PDFError{
		Type:    errorType,
		Op:      op,
		Message: message,
	}
}

// WrapError wraps a collaborator error as a PDFError
func WrapError(errorType ErrorType, op string, err error) *PDFError {
	return &PDFError{
		Type:    errorType,
		Op:      op,
		Message: errorType.defaultMessage(),
		Err:     err,
	}
}

// WithObject adds the object identity involved in the failure
func (e *PDFError) WithObject(objNum, genNum int) *PDFError {
	e.ObjectNum = objNum
	e.GenNum = genNum
	return e
}

func (et ErrorType) defaultMessage() string {
	switch et {
	case ErrorTypeInvalidPageID:
		return ErrInvalidPageID.Message
	case ErrorTypeInvalidAnnotation:
		return ErrInvalidAnnotation.Message
	case ErrorTypeMissingObject:
		return ErrMissingObject.Message
	case ErrorTypeMalformedObject:
		return ErrMalformedObject.Message
	case ErrorTypeInvalidStructure:
		return ErrInvalidStructure.Message
	case ErrorTypeInvalidMetadata:
		return ErrInvalidMetadata.Message
	case ErrorTypeInvalidEncoding:
		return "invalid text string encoding"
	default:
		return "unknown error"
	}
}

// Encoding names the decoder that rejected a text string.
type Encoding int

const (
	UTF8 Encoding = iota
	UTF16
)

func (enc Encoding) String() string {
	if enc == UTF16 {
		return "UTF-16"
	}
	return "UTF-8"
}

// EncodingError reports an invalid byte sequence in a PDF text string.
type EncodingError struct {
	Encoding Encoding
	Err      error
}

func (e *EncodingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s byte sequence in text string: %v", e.Encoding, e.Err)
	}
	return fmt.Sprintf("invalid %s byte sequence in text string", e.Encoding)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// Collection gathers errors that were tolerated during a best-effort walk.
type Collection struct {
	Errors []*PDFError `json:"errors"`
}

// Add appends err to the collection
func (c *Collection) Add(err *PDFError) {
	c.Errors = append(c.Errors, err)
}

// Len returns the number of collected errors
func (c *Collection) Len() int {
	return len(c.Errors)
}

// Summary returns a text summary of the collected errors
func (c *Collection) Summary() string {
	if len(c.Errors) == 0 {
		return "No errors"
	}
	return fmt.Sprintf("Skipped %d object(s)", len(c.Errors))
}
