package models

import "time"

// Note type enumeration stored in submission_notes.note_type.
const (
	NoteTypeWitnessDecline = "witness_decline"
	NoteTypeAdmin          = "admin"
)

// SubmissionNote is an audit side note attached to a submission, such
// as the reason recorded when a witness declines. Notes never mutate
// submission lifecycle fields.
type SubmissionNote struct {
	NoteID       int       `gorm:"primaryKey;column:note_id" json:"note_id"`
	SubmissionID int       `gorm:"column:submission_id" json:"submission_id"`
	AuthorID     int       `gorm:"column:author_id" json:"author_id"`
	NoteType     string    `gorm:"column:note_type" json:"note_type"`
	Body         string    `gorm:"column:body" json:"body"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`

	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

// TableName specifies the table for SubmissionNote.
func (SubmissionNote) TableName() string {
	return "submission_notes"
}
