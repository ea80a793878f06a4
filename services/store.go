package services

import (
	"errors"

	"breeder-awards-api/models"

	"gorm.io/gorm"
)

// Store is the persistence surface the lifecycle service depends on.
// The gorm implementation below is the production one; tests use an
// in-memory fake.
type Store interface {
	GetSubmission(id int) (*models.Submission, error)
	CreateSubmission(sub *models.Submission) error
	UpdateSubmission(sub *models.Submission) error
	// MarkApproved writes the approval fields guarded by
	// approved_on IS NULL and reports whether this caller won the
	// write.
	MarkApproved(sub *models.Submission) (bool, error)
	DeleteSubmission(id int) error

	ListApprovedForMember(memberID int, program string) ([]models.Submission, error)
	ListApprovedSubmissions(memberID int) ([]models.Submission, error)

	ListAwardsForMember(memberID int) ([]models.Award, error)
	// InsertAward inserts unless the (member, name) pair already
	// exists and reports whether a row was created.
	InsertAward(award *models.Award) (bool, error)

	InsertNote(note *models.SubmissionNote) error
	GetSpeciesName(id int) (*models.SpeciesName, error)
	GetUser(id int) (*models.User, error)
}

type gormStore struct {
	db *gorm.DB
}

// NewStore wraps a gorm connection in the Store interface.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) GetSubmission(id int) (*models.Submission, error) {
	var sub models.Submission
	if err := s.db.Where("submission_id = ?", id).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (s *gormStore) CreateSubmission(sub *models.Submission) error {
	return s.db.Create(sub).Error
}

func (s *gormStore) UpdateSubmission(sub *models.Submission) error {
	return s.db.Save(sub).Error
}

func (s *gormStore) MarkApproved(sub *models.Submission) (bool, error) {
	res := s.db.Model(&models.Submission{}).
		Where("submission_id = ? AND approved_on IS NULL", sub.SubmissionID).
		Updates(map[string]interface{}{
			"approved_on":     sub.ApprovedOn,
			"approved_by":     sub.ApprovedBy,
			"points":          sub.Points,
			"article_points":  sub.ArticlePoints,
			"species_name_id": sub.SpeciesNameID,
			"update_at":       sub.UpdateAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *gormStore) DeleteSubmission(id int) error {
	return s.db.Where("submission_id = ?", id).Delete(&models.Submission{}).Error
}

func (s *gormStore) ListApprovedForMember(memberID int, program string) ([]models.Submission, error) {
	types := SpeciesTypesForProgram(program)
	var subs []models.Submission
	err := s.db.
		Where("member_id = ? AND approved_on IS NOT NULL AND species_type IN ?", memberID, types).
		Find(&subs).Error
	return subs, err
}

func (s *gormStore) ListApprovedSubmissions(memberID int) ([]models.Submission, error) {
	var subs []models.Submission
	err := s.db.
		Where("member_id = ? AND approved_on IS NOT NULL", memberID).
		Find(&subs).Error
	return subs, err
}

func (s *gormStore) ListAwardsForMember(memberID int) ([]models.Award, error) {
	var awards []models.Award
	err := s.db.Where("member_id = ?", memberID).Find(&awards).Error
	return awards, err
}

func (s *gormStore) InsertAward(award *models.Award) (bool, error) {
	res := s.db.
		Where("member_id = ? AND award_name = ?", award.MemberID, award.AwardName).
		FirstOrCreate(award)
	if res.Error != nil {
		// The unique index backs the insert-if-absent contract
		// under concurrent recomputation.
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *gormStore) InsertNote(note *models.SubmissionNote) error {
	return s.db.Create(note).Error
}

func (s *gormStore) GetSpeciesName(id int) (*models.SpeciesName, error) {
	var name models.SpeciesName
	if err := s.db.Where("species_name_id = ? AND delete_at IS NULL", id).First(&name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &name, nil
}

func (s *gormStore) GetUser(id int) (*models.User, error) {
	var user models.User
	if err := s.db.Where("user_id = ? AND delete_at IS NULL", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
