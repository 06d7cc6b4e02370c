package handler

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Honest-88/pos-sample/internal/interfaces/http/dto"
)

// APIResponse is dto.Response with a typed data field.
// The swag annotations document endpoints with it and API clients decode into it.
// @Description Response envelope with a typed data field
type APIResponse[T any] struct {
	Success bool           `json:"success" example:"true"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}

// ErrorCode returns the code of a failed response, or "" on success.
func (r APIResponse[T]) ErrorCode() string {
	if r.Error == nil {
		return ""
	}
	return r.Error.Code
}

// ErrorResponse documents failures such as ERR_INSUFFICIENT_STOCK on a sale
// or ERR_CONCURRENCY_CONFLICT on a stale product edit.
// @Description Error response envelope
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error"`
}

// DecodeResponse reads an envelope carrying a T payload.
func DecodeResponse[T any](body io.Reader) (APIResponse[T], error) {
	var resp APIResponse[T]
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return resp, fmt.Errorf("decode response: %w", err)
	}
	return resp, nil
}
