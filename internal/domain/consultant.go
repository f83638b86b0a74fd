package domain

import (
	"fmt"
	"strings"
	"time"
)

type Consultant struct {
	ID        string
	Name      string
	Surname   string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullName returns "Name Surname", trimming whichever part is empty.
func (c *Consultant) FullName() string {
	return strings.TrimSpace(c.Name + " " + c.Surname)
}

func (c *Consultant) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("consultant name is required")
	}
	if strings.TrimSpace(c.Surname) == "" {
		return fmt.Errorf("consultant surname is required")
	}
	return nil
}
