package domain

import (
	"fmt"
	"strings"
	"time"
)

// Recipient is the client organization receiving consulting services.
type Recipient struct {
	ID        string
	Name      string
	VATNumber string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r *Recipient) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("recipient name is required")
	}
	return nil
}

// Contract binds a recipient to a validity period. Contracted services
// always hang off a contract, never directly off a recipient.
type Contract struct {
	ID          string
	RecipientID string
	StartDate   time.Time
	EndDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (c *Contract) Validate() error {
	if c.RecipientID == "" {
		return fmt.Errorf("contract recipient is required")
	}
	if c.EndDate != nil && c.EndDate.Before(c.StartDate) {
		return fmt.Errorf("contract end date %s precedes start date %s",
			c.EndDate.Format("2006-01-02"), c.StartDate.Format("2006-01-02"))
	}
	return nil
}

// Service is a catalog entry (e.g. "infrastructure support", "training").
type Service struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (s *Service) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("service name is required")
	}
	return nil
}
