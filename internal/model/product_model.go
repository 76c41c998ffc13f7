package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TastingNote is one tasted descriptor tagged with its flavor-wheel category.
type TastingNote struct {
	Note     string `json:"note"`
	Category string `json:"category"`
}

// Product is the denormalized catalog projection the pipeline works with.
// The pipeline never mutates catalog rows, it only filters/reorders what
// the graph queries return.
type Product struct {
	Id           uuid.UUID                        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string                           `gorm:"type:text;not null;index"`
	Brand        string                           `gorm:"type:text;index"`
	Origins      datatypes.JSONSlice[string]      `gorm:"type:jsonb"`
	RoastLevel   string                           `gorm:"type:text;index"`
	Processes    datatypes.JSONSlice[string]      `gorm:"type:jsonb"`
	Price        float64                          `gorm:"type:numeric"`
	Currency     string                           `gorm:"type:text;default:'USD'"`
	TastingNotes datatypes.JSONSlice[TastingNote] `gorm:"type:jsonb"`
	SellerURL    string                           `gorm:"type:text"`

	// Fixed-length profiles scored 0..1 per dimension.
	// FlavorProfile follows the 9 flavor-wheel categories,
	// CharacterProfile follows the 4 character axes.
	FlavorProfile    pgvector.Vector `gorm:"type:vector(9)"`
	CharacterProfile pgvector.Vector `gorm:"type:vector(4)"`

	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Product) TableName() string {
	return "products"
}

// NoteNames returns the bare tasting-note descriptors.
func (p *Product) NoteNames() []string {
	names := make([]string, 0, len(p.TastingNotes))
	for _, n := range p.TastingNotes {
		names = append(names, n.Note)
	}
	return names
}

// NoteCategories returns the distinct flavor-wheel categories of the notes.
func (p *Product) NoteCategories() []string {
	seen := make(map[string]bool)
	categories := make([]string, 0, len(p.TastingNotes))
	for _, n := range p.TastingNotes {
		if n.Category == "" || seen[n.Category] {
			continue
		}
		seen[n.Category] = true
		categories = append(categories, n.Category)
	}
	return categories
}

// HasOrigin reports whether the product lists the given origin.
func (p *Product) HasOrigin(origin string) bool {
	for _, o := range p.Origins {
		if o == origin {
			return true
		}
	}
	return false
}
