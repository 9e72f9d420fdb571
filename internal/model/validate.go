package model

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Validation error kinds.
const (
	KindInvalidLength = "invalid_length"
	KindInvalidRange  = "invalid_range"
	KindInvalidEnum   = "invalid_enum"
)

// FieldError describes a single failing field.
type FieldError struct {
	Field   string `json:"field"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// ValidationError collects every failing field of an input, not just the first.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return "invalid input: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) add(field, kind, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Kind: kind, Message: message})
}

// minQuantity is the smallest accepted quantity.
var minQuantity = decimal.NewFromFloat(0.01)

// CreateMaterialRequestInput is the validated input for creating a request.
// Status and requested_at are never part of the input; the store stamps them.
type CreateMaterialRequestInput struct {
	MaterialName string          `json:"material_name"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	Priority     string          `json:"priority"`
	ProjectID    string          `json:"project_id,omitempty"`
	Notes        string          `json:"notes,omitempty"`
}

// Validate checks all fields independently and reports every failure.
// Returns nil when the input is valid.
func (in *CreateMaterialRequestInput) Validate() error {
	var ve ValidationError

	if n := utf8.RuneCountInString(in.MaterialName); n < 2 || n > 100 {
		ve.add("material_name", KindInvalidLength, "material name must be between 2 and 100 characters")
	}
	if in.Quantity.LessThan(minQuantity) {
		ve.add("quantity", KindInvalidRange, "quantity must be at least 0.01")
	}
	if !ValidUnit(in.Unit) {
		ve.add("unit", KindInvalidEnum, "unknown unit")
	}
	if !ValidPriority(in.Priority) {
		ve.add("priority", KindInvalidEnum, "unknown priority")
	}
	if utf8.RuneCountInString(in.Notes) > 500 {
		ve.add("notes", KindInvalidLength, "notes must be at most 500 characters")
	}

	if len(ve.Fields) > 0 {
		return &ve
	}
	return nil
}

// UpdateMaterialRequestInput is a partial update: only non-nil fields are
// validated and persisted. The creation triple (requested_by,
// requested_by_name, requested_at) and the ID cannot be named here.
type UpdateMaterialRequestInput struct {
	MaterialName *string          `json:"material_name,omitempty"`
	Quantity     *decimal.Decimal `json:"quantity,omitempty"`
	Unit         *string          `json:"unit,omitempty"`
	Priority     *string          `json:"priority,omitempty"`
	Status       *string          `json:"status,omitempty"`
	ProjectID    *string          `json:"project_id,omitempty"`
	Notes        *string          `json:"notes,omitempty"`
}

// Empty reports whether the update names no fields at all.
func (in *UpdateMaterialRequestInput) Empty() bool {
	return in.MaterialName == nil && in.Quantity == nil && in.Unit == nil &&
		in.Priority == nil && in.Status == nil && in.ProjectID == nil && in.Notes == nil
}

// Validate checks only the fields present in the partial update.
func (in *UpdateMaterialRequestInput) Validate() error {
	var ve ValidationError

	if in.MaterialName != nil {
		if n := utf8.RuneCountInString(*in.MaterialName); n < 2 || n > 100 {
			ve.add("material_name", KindInvalidLength, "material name must be between 2 and 100 characters")
		}
	}
	if in.Quantity != nil && in.Quantity.LessThan(minQuantity) {
		ve.add("quantity", KindInvalidRange, "quantity must be at least 0.01")
	}
	if in.Unit != nil && !ValidUnit(*in.Unit) {
		ve.add("unit", KindInvalidEnum, "unknown unit")
	}
	if in.Priority != nil && !ValidPriority(*in.Priority) {
		ve.add("priority", KindInvalidEnum, "unknown priority")
	}
	if in.Status != nil && !ValidStatus(*in.Status) {
		ve.add("status", KindInvalidEnum, "unknown status")
	}
	if in.Notes != nil && utf8.RuneCountInString(*in.Notes) > 500 {
		ve.add("notes", KindInvalidLength, "notes must be at most 500 characters")
	}

	if len(ve.Fields) > 0 {
		return &ve
	}
	return nil
}
