package models

import (
	"strings"

	"gorm.io/gorm"
)

// RevenueSource is a named origin of revenue, e.g. one client or product
// line. Revenue transactions reference a source so that forecasts can be
// run per source.
type RevenueSource struct {
	DefaultModel
	Name        string `json:"name" example:"Consulting"`
	Description string `json:"description,omitempty" example:"Hourly consulting engagements"`
	Archived    bool   `json:"archived" example:"false"`
}

// BeforeSave trims whitespace from all strings.
func (s *RevenueSource) BeforeSave(_ *gorm.DB) error {
	s.Name = strings.TrimSpace(s.Name)
	s.Description = strings.TrimSpace(s.Description)

	return nil
}
