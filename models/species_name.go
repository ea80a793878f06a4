package models

import "time"

// SpeciesName is a canonical species directory entry. Submissions may
// link to one; approval validates that its species type matches the
// submission's species type.
type SpeciesName struct {
	SpeciesNameID int        `gorm:"primaryKey;column:species_name_id" json:"species_name_id"`
	SpeciesType   string     `gorm:"column:species_type" json:"species_type"`
	SpeciesClass  string     `gorm:"column:species_class" json:"species_class"`
	LatinName     string     `gorm:"column:latin_name" json:"latin_name"`
	CommonName    string     `gorm:"column:common_name" json:"common_name"`
	Genus         *string    `gorm:"column:genus" json:"genus,omitempty"`
	CreateAt      time.Time  `gorm:"column:create_at" json:"create_at"`
	DeleteAt      *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// TableName overrides
func (SpeciesName) TableName() string {
	return "species_names"
}
