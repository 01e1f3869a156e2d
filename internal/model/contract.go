// Package model defines domain types for hburn contracts, time entries, and reports.
package model

import "time"

// Company is the client that owns one or more contracts.
type Company struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	CNPJ         string `json:"cnpj,omitempty"`
	ContactEmail string `json:"email,omitempty"`
}

// Contract is a fixed-hour service agreement with a delivery window.
type Contract struct {
	ID           int64     `json:"id"`
	CompanyID    int64     `json:"companyId"`
	CompanyName  string    `json:"companyName,omitempty"`
	Title        string    `json:"title"`
	ContractType string    `json:"contractType"`
	TotalHours   float64   `json:"totalHours"`
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
	IsActive     bool      `json:"isActive"`
}

// DisplayTitle returns the contract title, falling back to
// "<company> - <type>" when no explicit title was stored.
func (c Contract) DisplayTitle() string {
	if c.Title != "" {
		return c.Title
	}
	switch {
	case c.CompanyName != "" && c.ContractType != "":
		return c.CompanyName + " - " + c.ContractType
	case c.CompanyName != "":
		return c.CompanyName
	default:
		return c.ContractType
	}
}
