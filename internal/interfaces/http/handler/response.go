package handler

import "github.com/erp/procurement/internal/interfaces/http/dto"

// The envelopes below only exist so swag can describe typed payloads; the
// handlers write dto.Response.

// APIResponse is the success envelope with a typed data field. List
// endpoints fill Meta with the paging totals.
type APIResponse[T any] struct {
	Success bool      `json:"success" example:"true"`
	Data    T         `json:"data,omitempty"`
	Meta    *dto.Meta `json:"meta,omitempty"`
}

// ErrorResponse is the envelope of every 4xx/5xx answer
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error"`
}
