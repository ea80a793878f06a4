package models

import "time"

// Species type enumeration stored in submissions.species_type.
const (
	SpeciesTypeFish   = "fish"
	SpeciesTypePlant  = "plant"
	SpeciesTypeCoral  = "coral"
	SpeciesTypeInvert = "invert"
)

// Witness status enumeration stored in submissions.witness_status.
const (
	WitnessPending   = "pending"
	WitnessConfirmed = "confirmed"
	WitnessDeclined  = "declined"
)

// Submission represents one breeding/propagation claim in the
// submissions table. Lifecycle timestamps are nullable and each is set
// by exactly one transition.
type Submission struct {
	SubmissionID int    `gorm:"primaryKey;column:submission_id" json:"submission_id"`
	MemberID     int    `gorm:"column:member_id" json:"member_id"`
	Reference    string `gorm:"column:reference" json:"reference"`

	SpeciesType     string    `gorm:"column:species_type" json:"species_type"`
	SpeciesClass    string    `gorm:"column:species_class" json:"species_class"`
	SpeciesNameID   *int      `gorm:"column:species_name_id" json:"species_name_id,omitempty"`
	SpeciesLatin    string    `gorm:"column:species_latin_name" json:"species_latin_name"`
	SpeciesCommon   string    `gorm:"column:species_common_name" json:"species_common_name"`
	CanonicalGenus  *string   `gorm:"column:canonical_genus" json:"canonical_genus,omitempty"`
	WaterType       string    `gorm:"column:water_type" json:"water_type"`
	ReproductionOn  time.Time `gorm:"column:reproduction_date" json:"reproduction_date"`
	TankDetails     *string   `gorm:"column:tank_details" json:"tank_details,omitempty"`
	FoodsDetails    *string   `gorm:"column:foods_details" json:"foods_details,omitempty"`
	LightingDetails *string   `gorm:"column:lighting_details" json:"lighting_details,omitempty"`

	SubmittedOn        *time.Time `gorm:"column:submitted_on" json:"submitted_on,omitempty"`
	WitnessStatus      string     `gorm:"column:witness_status" json:"witness_status"`
	WitnessedBy        *int       `gorm:"column:witnessed_by" json:"witnessed_by,omitempty"`
	WitnessedOn        *time.Time `gorm:"column:witnessed_on" json:"witnessed_on,omitempty"`
	ChangesRequestedOn *time.Time `gorm:"column:changes_requested_on" json:"changes_requested_on,omitempty"`
	ChangesRequestedBy *int       `gorm:"column:changes_requested_by" json:"changes_requested_by,omitempty"`
	ChangeReason       *string    `gorm:"column:change_reason" json:"change_reason,omitempty"`
	ApprovedOn         *time.Time `gorm:"column:approved_on" json:"approved_on,omitempty"`
	ApprovedBy         *int       `gorm:"column:approved_by" json:"approved_by,omitempty"`
	Points             *int       `gorm:"column:points" json:"points,omitempty"`
	ArticlePoints      *int       `gorm:"column:article_points" json:"article_points,omitempty"`

	CreateAt time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at,omitempty"`

	// Relations
	Member      *User        `gorm:"foreignKey:MemberID" json:"member,omitempty"`
	SpeciesName *SpeciesName `gorm:"foreignKey:SpeciesNameID" json:"species_name,omitempty"`
}

// TableName overrides
func (Submission) TableName() string {
	return "submissions"
}

// IsDraft reports whether the submission has never been submitted.
func (s *Submission) IsDraft() bool {
	return s.SubmittedOn == nil
}

// IsApproved reports whether the submission has been approved.
func (s *Submission) IsApproved() bool {
	return s.ApprovedOn != nil
}

// HasChangesRequested reports whether an admin change request is open.
func (s *Submission) HasChangesRequested() bool {
	return s.ChangesRequestedOn != nil
}
