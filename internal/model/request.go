package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaterialRequest is a requisition for a quantity of a named material,
// optionally tied to a project, scoped to a company.
type MaterialRequest struct {
	ID              string          `json:"id"`
	ProjectID       *string         `json:"project_id"`
	MaterialName    string          `json:"material_name"`
	Quantity        decimal.Decimal `json:"quantity"`
	Unit            string          `json:"unit"`
	Priority        string          `json:"priority"`
	Status          string          `json:"status"`
	RequestedBy     string          `json:"requested_by"`
	RequestedByName string          `json:"requested_by_name"`
	RequestedAt     time.Time       `json:"requested_at"`
	Notes           string          `json:"notes,omitempty"`
	CompanyID       string          `json:"company_id"`
}

// Request statuses.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusFulfilled = "fulfilled"
)

// Priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Units of measure.
const (
	UnitKg     = "kg"
	UnitM      = "m"
	UnitPieces = "pieces"
	UnitLiters = "liters"
	UnitBags   = "bags"
	UnitBoxes  = "boxes"
	UnitSheets = "sheets"
	UnitRolls  = "rolls"
)

// Statuses lists all valid request statuses.
var Statuses = []string{StatusPending, StatusApproved, StatusRejected, StatusFulfilled}

// Priorities lists all valid priorities.
var Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// Units lists all valid units of measure.
var Units = []string{UnitKg, UnitM, UnitPieces, UnitLiters, UnitBags, UnitBoxes, UnitSheets, UnitRolls}

// StatusLabels maps each status to its display label.
var StatusLabels = map[string]string{
	StatusPending:   "Pending",
	StatusApproved:  "Approved",
	StatusRejected:  "Rejected",
	StatusFulfilled: "Fulfilled",
}

// PriorityLabels maps each priority to its display label.
var PriorityLabels = map[string]string{
	PriorityLow:    "Low",
	PriorityMedium: "Medium",
	PriorityHigh:   "High",
	PriorityUrgent: "Urgent",
}

// UnitLabels maps each unit of measure to its display label.
var UnitLabels = map[string]string{
	UnitKg:     "Kilograms (kg)",
	UnitM:      "Meters (m)",
	UnitPieces: "Pieces",
	UnitLiters: "Liters (L)",
	UnitBags:   "Bags",
	UnitBoxes:  "Boxes",
	UnitSheets: "Sheets",
	UnitRolls:  "Rolls",
}

// ValidStatus reports whether s is one of the four request statuses.
func ValidStatus(s string) bool {
	return contains(Statuses, s)
}

// ValidPriority reports whether p is a known priority.
func ValidPriority(p string) bool {
	return contains(Priorities, p)
}

// ValidUnit reports whether u is a known unit of measure.
func ValidUnit(u string) bool {
	return contains(Units, u)
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
