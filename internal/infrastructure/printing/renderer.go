package printing

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// PDFRenderer prints receipt HTML onto a continuous paper roll
type PDFRenderer interface {
	Render(ctx context.Context, req *RenderRequest) (*RenderResult, error)
	Close() error
}

// RenderRequest is one receipt document to print.
// The page is PaperWidthMM wide and as tall as the content.
type RenderRequest struct {
	HTML         string
	Title        string
	PaperWidthMM float64 // zero uses the renderer default
	MarginMM     float64
	Timeout      time.Duration // zero uses the renderer default
}

// check rejects requests no renderer can print
func (r *RenderRequest) check() error {
	switch {
	case r == nil:
		return NewRenderError(ErrCodeInvalidHTML, "render request is nil", nil)
	case strings.TrimSpace(r.HTML) == "":
		return NewRenderError(ErrCodeInvalidHTML, "HTML content is empty", nil)
	case r.PaperWidthMM < 0 || r.MarginMM < 0:
		return NewRenderError(ErrCodeInvalidHTML,
			fmt.Sprintf("paper width %.1fmm and margin %.1fmm must not be negative", r.PaperWidthMM, r.MarginMM), nil)
	case r.PaperWidthMM > 0 && 2*r.MarginMM >= r.PaperWidthMM:
		return NewRenderError(ErrCodeInvalidHTML,
			fmt.Sprintf("margins of %.1fmm leave no room on a %.1fmm roll", r.MarginMM, r.PaperWidthMM), nil)
	}
	return nil
}

// RenderResult is a rendered PDF and how long Chrome took
type RenderResult struct {
	PDFData        []byte
	RenderDuration time.Duration
}

// Render failure codes
const (
	ErrCodeRenderTimeout   = "RENDER_TIMEOUT"
	ErrCodeRenderFailed    = "RENDER_FAILED"
	ErrCodeInvalidHTML     = "INVALID_HTML"
	ErrCodeInvalidTemplate = "INVALID_TEMPLATE"
)

// Sentinels for errors.Is; any RenderError with the same code matches.
var (
	ErrRenderTimeout   = &RenderError{Code: ErrCodeRenderTimeout}
	ErrRenderFailed    = &RenderError{Code: ErrCodeRenderFailed}
	ErrInvalidHTML     = &RenderError{Code: ErrCodeInvalidHTML}
	ErrInvalidTemplate = &RenderError{Code: ErrCodeInvalidTemplate}
)

// RenderError is a receipt rendering failure
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

// NewRenderError creates a RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{Code: code, Message: message, Cause: cause}
}

func (e *RenderError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = strings.ToLower(strings.ReplaceAll(e.Code, "_", " "))
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *RenderError) Unwrap() error { return e.Cause }

// Is matches another RenderError by code
func (e *RenderError) Is(target error) bool {
	t, ok := target.(*RenderError)
	return ok && t.Code == e.Code
}

// Transient reports whether printing the same receipt again may succeed
func (e *RenderError) Transient() bool {
	return e.Code == ErrCodeRenderTimeout || e.Code == ErrCodeRenderFailed
}
