package model

// Project is read-only reference data a request may point to.
type Project struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CompanyID string `json:"company_id"`
}
