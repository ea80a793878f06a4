package services

import (
	"errors"
	"testing"
	"time"

	"breeder-awards-api/models"
)

// memoryStore is an in-memory Store used by lifecycle tests. Reads
// return copies so transitions validate against a snapshot the way the
// gorm store does.
type memoryStore struct {
	submissions map[int]*models.Submission
	awards      []models.Award
	notes       []models.SubmissionNote
	species     map[int]*models.SpeciesName
	users       map[int]*models.User
	nextID      int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		submissions: make(map[int]*models.Submission),
		species:     make(map[int]*models.SpeciesName),
		users:       make(map[int]*models.User),
		nextID:      1,
	}
}

func (m *memoryStore) GetSubmission(id int) (*models.Submission, error) {
	sub, ok := m.submissions[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *sub
	return &copied, nil
}

func (m *memoryStore) CreateSubmission(sub *models.Submission) error {
	sub.SubmissionID = m.nextID
	m.nextID++
	copied := *sub
	m.submissions[sub.SubmissionID] = &copied
	return nil
}

func (m *memoryStore) UpdateSubmission(sub *models.Submission) error {
	if _, ok := m.submissions[sub.SubmissionID]; !ok {
		return ErrNotFound
	}
	copied := *sub
	m.submissions[sub.SubmissionID] = &copied
	return nil
}

func (m *memoryStore) MarkApproved(sub *models.Submission) (bool, error) {
	stored, ok := m.submissions[sub.SubmissionID]
	if !ok {
		return false, ErrNotFound
	}
	if stored.ApprovedOn != nil {
		return false, nil
	}
	stored.ApprovedOn = sub.ApprovedOn
	stored.ApprovedBy = sub.ApprovedBy
	stored.Points = sub.Points
	stored.ArticlePoints = sub.ArticlePoints
	stored.SpeciesNameID = sub.SpeciesNameID
	stored.UpdateAt = sub.UpdateAt
	return true, nil
}

func (m *memoryStore) DeleteSubmission(id int) error {
	delete(m.submissions, id)
	return nil
}

func (m *memoryStore) ListApprovedForMember(memberID int, program string) ([]models.Submission, error) {
	types := make(map[string]bool)
	for _, t := range SpeciesTypesForProgram(program) {
		types[t] = true
	}
	var subs []models.Submission
	for _, sub := range m.submissions {
		if sub.MemberID == memberID && sub.ApprovedOn != nil && types[sub.SpeciesType] {
			subs = append(subs, *sub)
		}
	}
	return subs, nil
}

func (m *memoryStore) ListApprovedSubmissions(memberID int) ([]models.Submission, error) {
	var subs []models.Submission
	for _, sub := range m.submissions {
		if sub.MemberID == memberID && sub.ApprovedOn != nil {
			subs = append(subs, *sub)
		}
	}
	return subs, nil
}

func (m *memoryStore) ListAwardsForMember(memberID int) ([]models.Award, error) {
	var awards []models.Award
	for _, a := range m.awards {
		if a.MemberID == memberID {
			awards = append(awards, a)
		}
	}
	return awards, nil
}

func (m *memoryStore) InsertAward(award *models.Award) (bool, error) {
	for _, a := range m.awards {
		if a.MemberID == award.MemberID && a.AwardName == award.AwardName {
			return false, nil
		}
	}
	award.AwardID = len(m.awards) + 1
	m.awards = append(m.awards, *award)
	return true, nil
}

func (m *memoryStore) InsertNote(note *models.SubmissionNote) error {
	note.NoteID = len(m.notes) + 1
	m.notes = append(m.notes, *note)
	return nil
}

func (m *memoryStore) GetSpeciesName(id int) (*models.SpeciesName, error) {
	name, ok := m.species[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *name
	return &copied, nil
}

func (m *memoryStore) GetUser(id int) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *user
	return &copied, nil
}

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService(store *memoryStore) *SubmissionService {
	return NewSubmissionService(store, nil).WithClock(func() time.Time { return testNow })
}

func testMember() *models.User {
	return &models.User{UserID: 1, UserFname: "Pat", UserLname: "Keeper", Email: "pat@example.org", RoleID: models.RoleMember}
}

func testAdmin() *models.User {
	return &models.User{UserID: 2, UserFname: "Alex", UserLname: "Warden", Email: "alex@example.org", RoleID: models.RoleAdmin}
}

func fishForm(latin string, reproducedDaysAgo int) *SubmissionForm {
	return &SubmissionForm{
		SpeciesType:    models.SpeciesTypeFish,
		SpeciesClass:   "Anabantoids",
		SpeciesLatin:   latin,
		WaterType:      "fresh",
		ReproductionOn: testNow.AddDate(0, 0, -reproducedDaysAgo),
	}
}

func setupSubmitted(t *testing.T, svc *SubmissionService, owner *models.User, form *SubmissionForm) *models.Submission {
	t.Helper()
	sub, err := svc.CreateDraft(owner, form)
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}
	sub, err = svc.Submit(sub.SubmissionID, owner)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	return sub
}

func TestSubmitSetsSubmittedOnOnce(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)
	member := testMember()
	store.users[member.UserID] = member

	sub, err := svc.CreateDraft(member, fishForm("Betta splendens", 70))
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}
	if !sub.IsDraft() {
		t.Fatal("expected new submission to be a draft")
	}

	sub, err = svc.Submit(sub.SubmissionID, member)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if sub.SubmittedOn == nil || !sub.SubmittedOn.Equal(testNow) {
		t.Fatalf("expected submitted_on to be set to now, got %v", sub.SubmittedOn)
	}

	// A second submit is rejected, not silently re-applied.
	if _, err := svc.Submit(sub.SubmissionID, member); !errors.Is(err, ErrWrongState) {
		t.Fatalf("expected ErrWrongState, got %v", err)
	}
}

func TestSelfWitnessForbidden(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)
	member := testMember()
	store.users[member.UserID] = member

	sub := setupSubmitted(t, svc, member, fishForm("Betta splendens", 70))

	if _, err := svc.ConfirmWitness(sub.SubmissionID, member); !errors.Is(err, ErrSelfWitness) {
		t.Fatalf("expected ErrSelfWitness on confirm, got %v", err)
	}
	if _, err := svc.DeclineWitness(sub.SubmissionID, member, "no fry seen"); !errors.Is(err, ErrSelfWitness) {
		t.Fatalf("expected ErrSelfWitness on decline, got %v", err)
	}
}

func TestWitnessTransitionsRejectRepeats(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)
	member, admin := testMember(), testAdmin()
	store.users[member.UserID] = member

	sub := setupSubmitted(t, svc, member, fishForm("Betta splendens", 70))

	sub, err := svc.ConfirmWitness(sub.SubmissionID, admin)
	if err != nil {
		t.Fatalf("confirm witness: %v", err)
	}
	if sub.WitnessStatus != models.WitnessConfirmed || sub.WitnessedBy == nil || *sub.WitnessedBy != admin.UserID {
		t.Fatalf("unexpected witness fields: %+v", sub)
	}

	// Re-confirming or declining a confirmed submission must fail so
	// provenance is never overwritten.
	if _, err := svc.ConfirmWitness(sub.SubmissionID, admin); !errors.Is(err, ErrWrongState) {
		t.Fatalf("expected ErrWrongState on re-confirm, got %v", err)
	}
	if _, err := svc.DeclineWitness(sub.SubmissionID, admin, "changed my mind"); !errors.Is(err, ErrWrongState) {
		t.Fatalf("expected ErrWrongState on decline after confirm, got %v", err)
	}
}

func TestDeclineWitnessRecordsNote(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)
	member, admin := testMember(), testAdmin()
	store.users[member.UserID] = member

	sub := setupSubmitted(t, svc, member, fishForm("Betta splendens", 70))

	sub, err := svc.DeclineWitness(sub.SubmissionID, admin, "no fry present at visit")
	if err != nil {
		t.Fatalf("decline witness: %v", err)
	}
	if sub.WitnessStatus != models.WitnessDeclined {
		t.Fatalf("expected declined status, got %s", sub.WitnessStatus)
	}
	if len(store.notes) != 1 || store.notes[0].NoteType != models.NoteTypeWitnessDecline {
		t.Fatalf("expected one decline note, got %+v", store.notes)
	}
	if sub.ChangeReason != nil {
		t.Fatal("decline reason must not land on the submission itself")
	}
}

func TestWitnessFieldsSurviveEditCycles(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)
	member, admin := testMember(), testAdmin()
	store.users[member.UserID] = member

	sub := setupSubmitted(t, svc, member, fishForm("Betta splendens", 70))
	sub, err := svc.ConfirmWitness(sub.SubmissionID, admin)
	if err != nil {
		t.Fatalf("confirm witness: %v", err)
	}
	witnessedOn := *sub.WitnessedOn
	witnessedBy := *sub.WitnessedBy
	submittedOn := *sub.SubmittedOn

	sub, err = svc.RequestChanges(sub.SubmissionID, admin, "please add tank parameters")
	if err != nil {
		t.Fatalf("request changes: %v", err)
	}
	if sub.ChangesRequestedOn == nil || sub.ChangesRequestedBy == nil || sub.ChangeReason == nil {
		t.Fatal("expected changes_requested fields to be set")
	}

	form := fishForm("Betta splendens", 70)
	details := "20l, 26C"
	form.TankDetails = &details
	sub, err = svc.EditAndResubmit(sub.SubmissionID, member, form, true)
	if err != nil {
		t.Fatalf("edit and resubmit: %v", err)
	}

	if sub.ChangesRequestedOn != nil || sub.ChangesRequestedBy != nil || sub.ChangeReason != nil {
		t.Fatal("expected resubmit to clear all changes_requested fields")
	}
	if sub.WitnessStatus != models.WitnessConfirmed || *sub.WitnessedBy != witnessedBy || !sub.WitnessedOn.Equal(witnessedOn) {
		t.Fatal("expected witness fields to survive the edit cycle")
	}
	if !sub.SubmittedOn.Equal(submittedOn) {
		t.Fatal("expected submitted_on to keep its original value")
	}
	if sub.TankDetails == nil || *sub.TankDetails != details {
		t.Fatal("expected domain edits to be applied")
	}
}

func TestEditWithoutResubmitKeepsChangeRequestOpen(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)
	member, admin := testMember(), testAdmin()
	store.users[member.UserID] = member

	sub := setupSubmitted(t, svc, member, fishForm("Betta splendens", 70))
	if _, err := svc.RequestChanges(sub.SubmissionID, admin, "photos unclear"); err != nil {
		t.Fatalf("request changes: %v", err)
	}

	sub, err := svc.EditAndResubmit(sub.SubmissionID, member, fishForm("Betta splendens", 70), false)
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if sub.ChangesRequestedOn == nil || sub.ChangeReason == nil {
		t.Fatal("expected change request to stay open without resubmit")
	}
}

func TestApproveGates(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)
	member, admin := testMember(), testAdmin()
	store.users[member.UserID] = member

	// Witness still pending.
	sub := setupSubmitted(t, svc, member, fishForm("Betta splendens", 70))
	input := &ApprovalInput{Points: 10}
	if _, err := svc.Approve(sub.SubmissionID, admin, input); !errors.Is(err, ErrWitnessNotConfirmed) {
		t.Fatalf("expected ErrWitnessNotConfirmed, got %v", err)
	}

	// Witness declined is not confirmed either.
	declined := setupSubmitted(t, svc, member, fishForm("Betta imbellis", 70))
	if _, err := svc.DeclineWitness(declined.SubmissionID, admin, "not verified"); err != nil {
		t.Fatalf("decline: %v", err)
	}
	if _, err := svc.Approve(declined.SubmissionID, admin, input); !errors.Is(err, ErrWitnessNotConfirmed) {
		t.Fatalf("expected ErrWitnessNotConfirmed after decline, got %v", err)
	}

	// Waiting period not elapsed.
	young := setupSubmitted(t, svc, member, fishForm("Trichogaster lalius", 30))
	if _, err := svc.ConfirmWitness(young.SubmissionID, admin); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if _, err := svc.Approve(young.SubmissionID, admin, input); !errors.Is(err, ErrWaitingPeriod) {
		t.Fatalf("expected ErrWaitingPeriod, got %v", err)
	}

	// Non-admin actor.
	if _, err := svc.Approve(young.SubmissionID, member, input); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestApproveRejectsInvalidPoints(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)
	member, admin := testMember(), testAdmin()
	store.users[member.UserID] = member

	sub := setupSubmitted(t, svc, member, fishForm("Betta splendens", 70))
	if _, err := svc.ConfirmWitness(sub.SubmissionID, admin); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	var fieldErr *FieldError
	_, err := svc.Approve(sub.SubmissionID, admin, &ApprovalInput{Points: 12})
	if !errors.As(err, &fieldErr) || fieldErr.Field != "points" {
		t.Fatalf("expected points field error, got %v", err)
	}
}

func TestApproveRejectsMismatchedSpeciesName(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)
	member, admin := testMember(), testAdmin()
	store.users[member.UserID] = member
	store.species[9] = &models.SpeciesName{
		SpeciesNameID: 9,
		SpeciesType:   models.SpeciesTypePlant,
		LatinName:     "Cryptocoryne wendtii",
	}

	sub := setupSubmitted(t, svc, member, fishForm("Betta splendens", 70))
	if _, err := svc.ConfirmWitness(sub.SubmissionID, admin); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	nameID := 9
	var fieldErr *FieldError
	_, err := svc.Approve(sub.SubmissionID, admin, &ApprovalInput{Points: 10, SpeciesNameID: &nameID})
	if !errors.As(err, &fieldErr) || fieldErr.Field != "species_name_id" {
		t.Fatalf("expected species_name_id field error, got %v", err)
	}
}

func TestApproveIsSingleWinner(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)
	member, admin := testMember(), testAdmin()
	store.users[member.UserID] = member

	sub := setupSubmitted(t, svc, member, fishForm("Betta splendens", 70))
	if _, err := svc.ConfirmWitness(sub.SubmissionID, admin); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	if _, err := svc.Approve(sub.SubmissionID, admin, &ApprovalInput{Points: 20}); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := svc.Approve(sub.SubmissionID, admin, &ApprovalInput{Points: 20}); !errors.Is(err, ErrAlreadyApproved) {
		t.Fatalf("expected ErrAlreadyApproved, got %v", err)
	}

	stored, _ := store.GetSubmission(sub.SubmissionID)
	if stored.Points == nil || *stored.Points != 20 {
		t.Fatalf("expected points 20, got %v", stored.Points)
	}
}

func TestDeleteRules(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)
	member, admin := testMember(), testAdmin()
	other := &models.User{UserID: 3, RoleID: models.RoleMember}
	store.users[member.UserID] = member

	draft, err := svc.CreateDraft(member, fishForm("Betta splendens", 70))
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}

	if err := svc.Delete(draft.SubmissionID, other); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied for non-owner, got %v", err)
	}
	if err := svc.Delete(draft.SubmissionID, member); err != nil {
		t.Fatalf("owner draft delete: %v", err)
	}

	approved := setupSubmitted(t, svc, member, fishForm("Betta imbellis", 70))
	if _, err := svc.ConfirmWitness(approved.SubmissionID, admin); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if _, err := svc.Approve(approved.SubmissionID, admin, &ApprovalInput{Points: 10}); err != nil {
		t.Fatalf("approve: %v", err)
	}

	if err := svc.Delete(approved.SubmissionID, member); !errors.Is(err, ErrWrongState) {
		t.Fatalf("expected ErrWrongState deleting approved as owner, got %v", err)
	}
	if err := svc.Delete(approved.SubmissionID, admin); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
}

func approvedSubmission(memberID int, latin string, points int) *models.Submission {
	now := testNow.AddDate(0, 0, -100)
	approvedOn := testNow.AddDate(0, 0, -10)
	return &models.Submission{
		MemberID:       memberID,
		SpeciesType:    models.SpeciesTypeFish,
		SpeciesClass:   "Anabantoids",
		SpeciesLatin:   latin,
		WaterType:      "fresh",
		ReproductionOn: now,
		SubmittedOn:    &now,
		WitnessStatus:  models.WitnessConfirmed,
		ApprovedOn:     &approvedOn,
		Points:         &points,
	}
}

func TestComputeSpecialtyAwardsIsIdempotentAfterGrant(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)
	member := testMember()
	store.users[member.UserID] = member

	latins := []string{
		"Betta splendens", "Betta imbellis", "Trichogaster lalius",
		"Trichopodus leerii", "Macropodus opercularis", "Helostoma temminckii",
	}
	for _, latin := range latins {
		if err := store.CreateSubmission(approvedSubmission(member.UserID, latin, 10)); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	earned, err := svc.ComputeSpecialtyAwards(member.UserID)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if !contains(earned, "Anabantoids Specialist") {
		t.Fatalf("expected Anabantoids Specialist, got %v", earned)
	}

	// Persist the grants the way the approval flow does, then verify
	// a recomputation without new approvals earns nothing.
	if _, err := svc.recomputeAwards(member.UserID, testNow); err != nil {
		t.Fatalf("grant: %v", err)
	}
	earned, err = svc.ComputeSpecialtyAwards(member.UserID)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if len(earned) != 0 {
		t.Fatalf("expected no newly earned awards on second pass, got %v", earned)
	}
}

func TestEndToEndLifecycle(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)
	member, admin := testMember(), testAdmin()
	store.users[member.UserID] = member

	// Five prior unique Anabantoids approvals put the member one
	// species away from the specialty award.
	for _, latin := range []string{
		"Betta imbellis", "Trichogaster lalius", "Trichopodus leerii",
		"Macropodus opercularis", "Helostoma temminckii",
	} {
		if err := store.CreateSubmission(approvedSubmission(member.UserID, latin, 10)); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	sub := setupSubmitted(t, svc, member, fishForm("Betta splendens", 70))
	if _, err := svc.ConfirmWitness(sub.SubmissionID, admin); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if _, err := svc.RequestChanges(sub.SubmissionID, admin, "water parameters missing"); err != nil {
		t.Fatalf("request changes: %v", err)
	}
	if _, err := svc.EditAndResubmit(sub.SubmissionID, member, fishForm("Betta splendens", 70), true); err != nil {
		t.Fatalf("resubmit: %v", err)
	}

	granted, err := svc.Approve(sub.SubmissionID, admin, &ApprovalInput{Points: 10})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if !contains(granted, "Anabantoids Specialist") {
		t.Fatalf("expected Anabantoids Specialist granted, got %v", granted)
	}

	// 6 approvals x 10 points: 60 total clears Breeder's 50 and its
	// 10/15/20 diversity rule, but not Advanced Breeder's 100.
	level, err := svc.ComputeLevel(ProgramFish, member.UserID)
	if err != nil {
		t.Fatalf("compute level: %v", err)
	}
	if level != "Breeder" {
		t.Fatalf("expected Breeder, got %q", level)
	}

	// Awards are granted exactly once.
	earned, err := svc.ComputeSpecialtyAwards(member.UserID)
	if err != nil {
		t.Fatalf("recompute awards: %v", err)
	}
	if len(earned) != 0 {
		t.Fatalf("expected no further awards, got %v", earned)
	}
	count := 0
	for _, a := range store.awards {
		if a.AwardName == "Anabantoids Specialist" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one award row, got %d", count)
	}
}
