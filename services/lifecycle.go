package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"breeder-awards-api/models"

	"github.com/google/uuid"
)

// Lifecycle events passed to the notifier after a successful
// transition.
const (
	EventSubmitted        = "submitted"
	EventWitnessConfirmed = "witness_confirmed"
	EventWitnessDeclined  = "witness_declined"
	EventChangesRequested = "changes_requested"
	EventResubmitted      = "resubmitted"
	EventApproved         = "approved"
)

// Notifier is told about every successful state change. Delivery
// failures are the notifier's problem; transitions never roll back on
// them.
type Notifier interface {
	StateChanged(sub *models.Submission, member *models.User, event string)
}

// SubmissionForm carries the member-editable domain fields.
type SubmissionForm struct {
	SpeciesType     string    `json:"species_type" binding:"required"`
	SpeciesClass    string    `json:"species_class" binding:"required"`
	SpeciesLatin    string    `json:"species_latin_name"`
	SpeciesCommon   string    `json:"species_common_name"`
	CanonicalGenus  *string   `json:"canonical_genus"`
	WaterType       string    `json:"water_type" binding:"required"`
	ReproductionOn  time.Time `json:"reproduction_date" binding:"required"`
	TankDetails     *string   `json:"tank_details"`
	FoodsDetails    *string   `json:"foods_details"`
	LightingDetails *string   `json:"lighting_details"`
}

// ApprovalInput carries the admin-assigned scoring for an approval.
type ApprovalInput struct {
	SpeciesNameID *int `json:"species_name_id"`
	Points        int  `json:"points" binding:"required"`
	ArticlePoints *int `json:"article_points"`
}

// SubmissionService is the sole mutator of submission lifecycle fields.
// Every transition validates against the loaded snapshot before any
// field changes, then persists the full record in one write.
type SubmissionService struct {
	store    Store
	notifier Notifier
	now      func() time.Time
}

// NewSubmissionService builds the lifecycle service. notifier may be
// nil.
func NewSubmissionService(store Store, notifier Notifier) *SubmissionService {
	return &SubmissionService{
		store:    store,
		notifier: notifier,
		now:      time.Now,
	}
}

// WithClock overrides the wall clock, for tests and backdated batch
// imports.
func (s *SubmissionService) WithClock(now func() time.Time) *SubmissionService {
	s.now = now
	return s
}

func validSpeciesType(t string) bool {
	switch t {
	case models.SpeciesTypeFish, models.SpeciesTypePlant, models.SpeciesTypeCoral, models.SpeciesTypeInvert:
		return true
	}
	return false
}

func validWaterType(t string) bool {
	switch strings.ToLower(t) {
	case "fresh", "brackish", "salt":
		return true
	}
	return false
}

func validateForm(form *SubmissionForm) error {
	if !validSpeciesType(form.SpeciesType) {
		return newFieldError("species_type", "must be one of fish, plant, coral, invert")
	}
	if strings.TrimSpace(form.SpeciesClass) == "" {
		return newFieldError("species_class", "is required")
	}
	if strings.TrimSpace(form.SpeciesLatin) == "" && strings.TrimSpace(form.SpeciesCommon) == "" {
		return newFieldError("species_latin_name", "a latin or common name is required")
	}
	if !validWaterType(form.WaterType) {
		return newFieldError("water_type", "must be one of fresh, brackish, salt")
	}
	if form.ReproductionOn.IsZero() {
		return newFieldError("reproduction_date", "is required")
	}
	return nil
}

func applyForm(sub *models.Submission, form *SubmissionForm) {
	sub.SpeciesType = form.SpeciesType
	sub.SpeciesClass = form.SpeciesClass
	sub.SpeciesLatin = strings.TrimSpace(form.SpeciesLatin)
	sub.SpeciesCommon = strings.TrimSpace(form.SpeciesCommon)
	sub.CanonicalGenus = form.CanonicalGenus
	sub.WaterType = strings.ToLower(form.WaterType)
	sub.ReproductionOn = form.ReproductionOn
	sub.TankDetails = form.TankDetails
	sub.FoodsDetails = form.FoodsDetails
	sub.LightingDetails = form.LightingDetails
}

// Get loads a submission without permission checks; callers enforce
// visibility.
func (s *SubmissionService) Get(submissionID int) (*models.Submission, error) {
	return s.store.GetSubmission(submissionID)
}

// CreateDraft creates an unsubmitted submission owned by the member.
func (s *SubmissionService) CreateDraft(owner *models.User, form *SubmissionForm) (*models.Submission, error) {
	if err := validateForm(form); err != nil {
		return nil, err
	}

	now := s.now()
	sub := &models.Submission{
		MemberID:      owner.UserID,
		Reference:     generateReference(now),
		WitnessStatus: models.WitnessPending,
		CreateAt:      now,
	}
	applyForm(sub, form)

	if err := s.store.CreateSubmission(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// UpdateDraft lets the owner freely edit an unsubmitted submission.
func (s *SubmissionService) UpdateDraft(submissionID int, actor *models.User, form *SubmissionForm) (*models.Submission, error) {
	sub, err := s.store.GetSubmission(submissionID)
	if err != nil {
		return nil, err
	}
	if sub.MemberID != actor.UserID {
		return nil, ErrPermissionDenied
	}
	if !sub.IsDraft() {
		return nil, ErrWrongState
	}
	if err := validateForm(form); err != nil {
		return nil, err
	}

	applyForm(sub, form)
	now := s.now()
	sub.UpdateAt = &now
	if err := s.store.UpdateSubmission(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Submit moves a draft into the review queue. submitted_on is set once
// and never reset by later transitions.
func (s *SubmissionService) Submit(submissionID int, actor *models.User) (*models.Submission, error) {
	sub, err := s.store.GetSubmission(submissionID)
	if err != nil {
		return nil, err
	}
	if sub.MemberID != actor.UserID {
		return nil, ErrPermissionDenied
	}
	if !sub.IsDraft() {
		return nil, ErrWrongState
	}

	now := s.now()
	sub.SubmittedOn = &now
	sub.UpdateAt = &now
	if err := s.store.UpdateSubmission(sub); err != nil {
		return nil, err
	}
	s.notify(sub, actor, EventSubmitted)
	return sub, nil
}

// ConfirmWitness records a successful witnessing. The actor must not be
// the owner, and a submission already past pending is rejected rather
// than silently re-applied so provenance is never overwritten.
func (s *SubmissionService) ConfirmWitness(submissionID int, actor *models.User) (*models.Submission, error) {
	sub, err := s.store.GetSubmission(submissionID)
	if err != nil {
		return nil, err
	}
	if actor.UserID == sub.MemberID {
		return nil, ErrSelfWitness
	}
	if sub.IsDraft() || sub.WitnessStatus != models.WitnessPending {
		return nil, ErrWrongState
	}

	now := s.now()
	sub.WitnessStatus = models.WitnessConfirmed
	sub.WitnessedBy = &actor.UserID
	sub.WitnessedOn = &now
	sub.UpdateAt = &now
	if err := s.store.UpdateSubmission(sub); err != nil {
		return nil, err
	}
	s.notify(sub, nil, EventWitnessConfirmed)
	return sub, nil
}

// DeclineWitness records a failed witnessing. The reason lands in a
// side note, not on the submission.
func (s *SubmissionService) DeclineWitness(submissionID int, actor *models.User, reason string) (*models.Submission, error) {
	sub, err := s.store.GetSubmission(submissionID)
	if err != nil {
		return nil, err
	}
	if actor.UserID == sub.MemberID {
		return nil, ErrSelfWitness
	}
	if sub.IsDraft() || sub.WitnessStatus != models.WitnessPending {
		return nil, ErrWrongState
	}

	now := s.now()
	sub.WitnessStatus = models.WitnessDeclined
	sub.WitnessedBy = &actor.UserID
	sub.WitnessedOn = &now
	sub.UpdateAt = &now
	if err := s.store.UpdateSubmission(sub); err != nil {
		return nil, err
	}

	if strings.TrimSpace(reason) != "" {
		note := &models.SubmissionNote{
			SubmissionID: sub.SubmissionID,
			AuthorID:     actor.UserID,
			NoteType:     models.NoteTypeWitnessDecline,
			Body:         strings.TrimSpace(reason),
			CreatedAt:    now,
		}
		if err := s.store.InsertNote(note); err != nil {
			return nil, err
		}
	}
	s.notify(sub, nil, EventWitnessDeclined)
	return sub, nil
}

// RequestChanges opens an admin change request on a submitted,
// unapproved submission. Witness fields are left untouched.
func (s *SubmissionService) RequestChanges(submissionID int, actor *models.User, reason string) (*models.Submission, error) {
	if !actor.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	sub, err := s.store.GetSubmission(submissionID)
	if err != nil {
		return nil, err
	}
	if sub.IsDraft() || sub.IsApproved() {
		return nil, ErrWrongState
	}
	if sub.HasChangesRequested() {
		return nil, ErrWrongState
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, newFieldError("reason", "is required")
	}

	now := s.now()
	sub.ChangesRequestedOn = &now
	sub.ChangesRequestedBy = &actor.UserID
	sub.ChangeReason = &reason
	sub.UpdateAt = &now
	if err := s.store.UpdateSubmission(sub); err != nil {
		return nil, err
	}
	s.notify(sub, nil, EventChangesRequested)
	return sub, nil
}

// EditAndResubmit applies the owner's edits to a changes-requested
// submission. When resubmit is true the changes_requested fields are
// cleared atomically with the edit; submitted_on keeps its original
// value and witness fields are never touched either way.
func (s *SubmissionService) EditAndResubmit(submissionID int, actor *models.User, form *SubmissionForm, resubmit bool) (*models.Submission, error) {
	sub, err := s.store.GetSubmission(submissionID)
	if err != nil {
		return nil, err
	}
	if sub.MemberID != actor.UserID {
		return nil, ErrPermissionDenied
	}
	if !sub.HasChangesRequested() || sub.IsApproved() {
		return nil, ErrWrongState
	}
	if err := validateForm(form); err != nil {
		return nil, err
	}

	applyForm(sub, form)
	now := s.now()
	if resubmit {
		sub.ChangesRequestedOn = nil
		sub.ChangesRequestedBy = nil
		sub.ChangeReason = nil
	}
	sub.UpdateAt = &now
	if err := s.store.UpdateSubmission(sub); err != nil {
		return nil, err
	}
	if resubmit {
		s.notify(sub, actor, EventResubmitted)
	}
	return sub, nil
}

// Approve closes the lifecycle: witness must be confirmed, the waiting
// period elapsed, and this must be the first approval. On success the
// member's specialty awards are recomputed from their full approved
// history and any newly earned awards are granted idempotently.
func (s *SubmissionService) Approve(submissionID int, actor *models.User, input *ApprovalInput) ([]string, error) {
	if !actor.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	sub, err := s.store.GetSubmission(submissionID)
	if err != nil {
		return nil, err
	}
	if sub.IsApproved() {
		return nil, ErrAlreadyApproved
	}
	if sub.IsDraft() {
		return nil, ErrWrongState
	}
	if sub.WitnessStatus != models.WitnessConfirmed {
		return nil, ErrWitnessNotConfirmed
	}

	program, err := ProgramForSpeciesType(sub.SpeciesType)
	if err != nil {
		return nil, err
	}

	now := s.now()
	status := EvaluateWaitingPeriod(sub.ReproductionOn, program, sub.WitnessStatus, now)
	if !status.PeriodElapsed {
		return nil, ErrWaitingPeriod
	}

	if !IsValidPointValue(input.Points) {
		return nil, newFieldError("points", fmt.Sprintf("must be one of %v", PointBuckets))
	}
	if input.SpeciesNameID != nil {
		name, err := s.store.GetSpeciesName(*input.SpeciesNameID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, newFieldError("species_name_id", "unknown species name")
			}
			return nil, err
		}
		nameProgram, err := ProgramForSpeciesType(name.SpeciesType)
		if err != nil || nameProgram != program {
			return nil, newFieldError("species_name_id", "species name program does not match submission")
		}
		sub.SpeciesNameID = input.SpeciesNameID
	}

	sub.ApprovedOn = &now
	sub.ApprovedBy = &actor.UserID
	sub.Points = &input.Points
	sub.ArticlePoints = input.ArticlePoints
	sub.UpdateAt = &now

	won, err := s.store.MarkApproved(sub)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, ErrApprovalConflict
	}

	granted, err := s.recomputeAwards(sub.MemberID, now)
	if err != nil {
		return nil, err
	}
	s.notify(sub, nil, EventApproved)
	return granted, nil
}

// Delete removes a submission. Owners may delete drafts and unapproved
// submissions; admins may delete anything.
func (s *SubmissionService) Delete(submissionID int, actor *models.User) error {
	sub, err := s.store.GetSubmission(submissionID)
	if err != nil {
		return err
	}
	if actor.IsAdmin() {
		return s.store.DeleteSubmission(submissionID)
	}
	if sub.MemberID != actor.UserID {
		return ErrPermissionDenied
	}
	if sub.IsApproved() {
		return ErrWrongState
	}
	return s.store.DeleteSubmission(submissionID)
}

// ComputeLevel recomputes the member's rank in a program from their
// full approved history. The read is a single snapshot query so a
// concurrent approval never yields a rank built from a partial view.
func (s *SubmissionService) ComputeLevel(program string, memberID int) (string, error) {
	if !IsValidProgram(program) {
		return "", fmt.Errorf("unknown program %q", program)
	}
	subs, err := s.store.ListApprovedForMember(memberID, program)
	if err != nil {
		return "", err
	}

	amounts := make([]int, 0, len(subs))
	for _, sub := range subs {
		if sub.Points != nil {
			amounts = append(amounts, *sub.Points)
		}
	}
	tally, err := TallyPoints(amounts)
	if err != nil {
		return "", err
	}
	return RankForTally(program, tally)
}

// ComputeTally exposes the bucketed tally for the standing endpoint.
func (s *SubmissionService) ComputeTally(program string, memberID int) (*PointsTally, error) {
	if !IsValidProgram(program) {
		return nil, fmt.Errorf("unknown program %q", program)
	}
	subs, err := s.store.ListApprovedForMember(memberID, program)
	if err != nil {
		return nil, err
	}
	amounts := make([]int, 0, len(subs))
	for _, sub := range subs {
		if sub.Points != nil {
			amounts = append(amounts, *sub.Points)
		}
	}
	return TallyPoints(amounts)
}

// ComputeSpecialtyAwards evaluates the award rules without persisting.
// Running it twice without new approvals returns nothing the second
// time only once the first run's grants were persisted, which Approve
// does.
func (s *SubmissionService) ComputeSpecialtyAwards(memberID int) ([]string, error) {
	subs, err := s.store.ListApprovedSubmissions(memberID)
	if err != nil {
		return nil, err
	}
	held, err := s.heldAwards(memberID)
	if err != nil {
		return nil, err
	}

	snapshots := make([]SubmissionSnapshot, 0, len(subs))
	for i := range subs {
		snapshots = append(snapshots, SnapshotOf(&subs[i]))
	}

	earned := EvaluateSpecialtyAwards(snapshots, held)
	earned = append(earned, EvaluateMetaAwards(held, earned)...)
	return earned, nil
}

func (s *SubmissionService) heldAwards(memberID int) (map[string]bool, error) {
	awards, err := s.store.ListAwardsForMember(memberID)
	if err != nil {
		return nil, err
	}
	held := make(map[string]bool, len(awards))
	for _, a := range awards {
		held[a.AwardName] = true
	}
	return held, nil
}

// recomputeAwards grants newly earned awards. Inserts are
// insert-if-absent so a racing recomputation can never duplicate a
// grant; a name another writer beat us to is dropped from the result.
func (s *SubmissionService) recomputeAwards(memberID int, now time.Time) ([]string, error) {
	earned, err := s.ComputeSpecialtyAwards(memberID)
	if err != nil {
		return nil, err
	}

	granted := make([]string, 0, len(earned))
	for _, name := range earned {
		awardType := models.AwardTypeSpecies
		if IsMetaAward(name) {
			awardType = models.AwardTypeMetaSpecies
		}
		created, err := s.store.InsertAward(&models.Award{
			MemberID:  memberID,
			AwardName: name,
			AwardType: awardType,
			GrantedOn: now,
		})
		if err != nil {
			return nil, err
		}
		if created {
			granted = append(granted, name)
		}
	}
	return granted, nil
}

func (s *SubmissionService) notify(sub *models.Submission, member *models.User, event string) {
	if s.notifier == nil {
		return
	}
	if member == nil || member.UserID != sub.MemberID {
		owner, err := s.store.GetUser(sub.MemberID)
		if err != nil {
			return
		}
		member = owner
	}
	s.notifier.StateChanged(sub, member, event)
}

// generateReference builds a human-facing submission number,
// BAP-YYYYMMDD-XXXXXXXX.
func generateReference(now time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("BAP-%s-%s", now.Format("20060102"), suffix)
}
