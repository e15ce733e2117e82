package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogBase holds the fields shared by every simple reference catalog.
// Catalog rows are never hard-deleted; they are deactivated instead.
type CatalogBase struct {
	ID          string    `gorm:"type:uuid;primarykey" json:"id"`
	Name        string    `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BeforeCreate hook to generate UUID
func (c *CatalogBase) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// GetName returns the catalog entry name
func (c *CatalogBase) GetName() string {
	return c.Name
}

// SetName sets the catalog entry name
func (c *CatalogBase) SetName(name string) {
	c.Name = name
}

// Subsystem is the Federal/Estatal catalog
type Subsystem struct {
	CatalogBase
}

func (Subsystem) TableName() string { return "subsystems" }

// ProcedureType is the catalog of license/procedure types (Licencia 754, 70 BIS, ...)
type ProcedureType struct {
	CatalogBase
}

func (ProcedureType) TableName() string { return "procedure_types" }

// Union is the catalog of workers' unions
type Union struct {
	CatalogBase
}

func (Union) TableName() string { return "unions" }

// Diagnosis is the catalog of medical diagnoses backing a license request
type Diagnosis struct {
	CatalogBase
}

func (Diagnosis) TableName() string { return "diagnoses" }

// Area is the catalog of offices that issue or receive official letters
type Area struct {
	CatalogBase
}

func (Area) TableName() string { return "areas" }

// Result is the catalog of resolution outcomes
type Result struct {
	CatalogBase
}

func (Result) TableName() string { return "results" }

// ViolenceType is the catalog of violence types tracked on protocol records
type ViolenceType struct {
	CatalogBase
}

func (ViolenceType) TableName() string { return "violence_types" }

// Requester is the catalog of parties that initiate internal cases
type Requester struct {
	CatalogBase
}

func (Requester) TableName() string { return "requesters" }

// Addressee is the catalog of parties internal-case letters are directed to
type Addressee struct {
	CatalogBase
}

func (Addressee) TableName() string { return "addressees" }

// CaseStatus is the catalog of statuses for internal cases
type CaseStatus struct {
	CatalogBase
}

func (CaseStatus) TableName() string { return "case_statuses" }
