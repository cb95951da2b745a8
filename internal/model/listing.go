// Package model defines the catalog data types.
package model

import "time"

// Listing represents a business entry in the village catalog.
type Listing struct {
	ID        int64     `json:"id" yaml:"id"`
	Ref       string    `json:"ref,omitempty" yaml:"ref,omitempty"`
	Name      string    `json:"name" yaml:"name"`
	Category  string    `json:"category" yaml:"category"`
	Phone     string    `json:"phone" yaml:"phone"`
	Village   string    `json:"village" yaml:"village"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// DefaultVillage is assigned to rows written before villages were tracked.
const DefaultVillage = "Bumala"
