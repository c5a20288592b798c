package dto

import "strings"

// EchoRequest is the body accepted by the echo endpoint.
type EchoRequest struct {
	Name    string   `json:"name"    validate:"required,notempty,min=2,max=64"`
	Email   string   `json:"email"   validate:"required,email"`
	Age     int      `json:"age"     validate:"gte=0,lte=150"`
	Tags    []string `json:"tags"    validate:"max=10,dive,notempty"`
	TraceID string   `json:"traceId" validate:"omitempty,uuid"`
}

// StatusQuery is the query accepted by the status endpoint.
type StatusQuery struct {
	Message string `json:"message" form:"message" validate:"max=256"`
	Title   string `json:"title"   form:"title"   validate:"max=64"`
}

// Validate rejects reserved names.
func (r *EchoRequest) Validate() error {
	if strings.EqualFold(r.Name, "admin") {
		return errReservedName
	}

	return nil
}
