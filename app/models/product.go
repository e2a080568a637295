package models

import (
	"encoding/json"
	"time"
)

// Allowed enum values for product attributes.
var (
	Weights     = []string{"250g", "500g", "1kg"}
	Types       = []string{"bean", "ground", "kit", "spice", "merch", "gift"}
	RoastLevels = []string{"Light", "Medium", "Dark"}
)

// Product is a catalogue entry. Soft delete is an explicit flag rather than
// gorm.DeletedAt so that deleted rows can be fetched and restored.
type Product struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string    `gorm:"size:100;not null;index" json:"name"`
	Description   string    `gorm:"size:1000;not null" json:"description"`
	Price         float64   `gorm:"not null" json:"price"`
	DiscountPrice *float64  `json:"discountPrice,omitempty"`
	Stock         int       `gorm:"not null;default:0" json:"stock"`
	Weight        string    `gorm:"size:10;not null" json:"weight"`
	Type          string    `gorm:"size:20;not null" json:"type"`
	BrewGuide     string    `gorm:"size:1000" json:"brewGuide,omitempty"`
	Origin        string    `gorm:"size:100;default:India" json:"origin"`
	RoastLevel    string    `gorm:"size:20" json:"roastLevel,omitempty"`
	Images        string    `gorm:"type:text" json:"-"`
	InStock       bool      `gorm:"default:true" json:"inStock"`
	IsActive      bool      `gorm:"default:false" json:"isActive"`
	IsDeleted     bool      `gorm:"default:false;index" json:"isDeleted"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ImageRefs decodes the serialised image column.
func (p *Product) ImageRefs() []string {
	if p.Images == "" {
		return nil
	}
	var refs []string
	if err := json.Unmarshal([]byte(p.Images), &refs); err != nil {
		return nil
	}
	return refs
}

// SetImageRefs serialises refs into the image column.
func (p *Product) SetImageRefs(refs []string) {
	if len(refs) == 0 {
		p.Images = ""
		return
	}
	b, _ := json.Marshal(refs)
	p.Images = string(b)
}

// MarshalJSON exposes the decoded image refs under "images".
func (p Product) MarshalJSON() ([]byte, error) {
	type alias Product
	return json.Marshal(struct {
		alias
		Images []string `json:"images"`
	}{
		alias:  alias(p),
		Images: p.ImageRefs(),
	})
}
