package models

import "time"

// Award type enumeration stored in awards.award_type.
const (
	AwardTypeSpecies     = "species"
	AwardTypeMetaSpecies = "meta_species"
	AwardTypeManual      = "manual"
)

// Award represents a granted award in the awards table. Rows are
// created once per (member_id, award_name) pair and never mutated.
type Award struct {
	AwardID   int       `gorm:"primaryKey;column:award_id" json:"award_id"`
	MemberID  int       `gorm:"column:member_id;uniqueIndex:idx_member_award" json:"member_id"`
	AwardName string    `gorm:"column:award_name;uniqueIndex:idx_member_award" json:"award_name"`
	AwardType string    `gorm:"column:award_type" json:"award_type"`
	GrantedOn time.Time `gorm:"column:granted_on" json:"granted_on"`

	Member *User `gorm:"foreignKey:MemberID" json:"member,omitempty"`
}

// TableName overrides
func (Award) TableName() string {
	return "awards"
}
