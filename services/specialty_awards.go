package services

import (
	"strings"

	"breeder-awards-api/models"
	"breeder-awards-api/utils"
)

// SubmissionSnapshot is the slice of an approved submission the award
// rules read. Everything else on the record is opaque to the engine.
type SubmissionSnapshot struct {
	SpeciesType  string
	SpeciesClass string
	LatinName    string
	WaterType    string
	Genus        *string
}

// SnapshotOf extracts the rule-visible fields from a submission.
func SnapshotOf(sub *models.Submission) SubmissionSnapshot {
	return SubmissionSnapshot{
		SpeciesType:  sub.SpeciesType,
		SpeciesClass: sub.SpeciesClass,
		LatinName:    sub.SpeciesLatin,
		WaterType:    sub.WaterType,
		Genus:        sub.CanonicalGenus,
	}
}

// SpecialtyAward is one declarative award rule: an eligibility filter,
// a unique-species quota, and an optional limitation evaluated against
// the filtered (non-deduplicated) submissions.
type SpecialtyAward struct {
	Name           string
	RequiredUnique int
	Eligible       func(SubmissionSnapshot) bool
	Limitation     func([]SubmissionSnapshot) bool
	NotCountable   bool // excluded from Senior/Expert meta counting
}

// Meta-award names and their countable-base-award quotas.
const (
	SeniorSpecialistAward = "Senior Specialist Award"
	ExpertSpecialistAward = "Expert Specialist Award"

	seniorSpecialistQuota = 4
	expertSpecialistQuota = 7
)

// MarineInvertAwardName is the one base award excluded from meta-award
// counting.
const MarineInvertAwardName = "Marine Invertebrates & Corals Specialist"

func classIs(class string) func(SubmissionSnapshot) bool {
	return func(s SubmissionSnapshot) bool {
		return strings.EqualFold(s.SpeciesClass, class)
	}
}

// corydorasLikeGenera gate the Catfish Specialist: at least one eligible
// submission must come from some other genus. A submission with no
// genus recorded cannot satisfy the rule.
var corydorasLikeGenera = map[string]bool{
	"corydoras": true,
	"aspidoras": true,
	"brochis":   true,
}

// SpecialtyAwards is the base award rule table, evaluated in a fixed
// loop by EvaluateSpecialtyAwards.
var SpecialtyAwards = []SpecialtyAward{
	{Name: "Anabantoids Specialist", RequiredUnique: 6, Eligible: classIs("Anabantoids")},
	{Name: "Brackish Water Specialist", RequiredUnique: 3, Eligible: func(s SubmissionSnapshot) bool {
		return s.SpeciesType == models.SpeciesTypeFish && strings.EqualFold(s.WaterType, "brackish")
	}},
	{Name: "Catfish Specialist", RequiredUnique: 5, Eligible: classIs("Catfish"),
		Limitation: func(subs []SubmissionSnapshot) bool {
			for _, s := range subs {
				if s.Genus != nil && !corydorasLikeGenera[strings.ToLower(*s.Genus)] {
					return true
				}
			}
			return false
		}},
	{Name: "Characins Specialist", RequiredUnique: 6, Eligible: classIs("Characins")},
	{Name: "Cichlids Specialist", RequiredUnique: 12, Eligible: classIs("Cichlids")},
	{Name: "Cyprinids Specialist", RequiredUnique: 10, Eligible: classIs("Cyprinids")},
	{Name: "Killifish Specialist", RequiredUnique: 7, Eligible: classIs("Killifish")},
	{Name: "Livebearers Specialist", RequiredUnique: 8, Eligible: classIs("Livebearers")},
	{Name: "Marine Fish Specialist", RequiredUnique: 7, Eligible: func(s SubmissionSnapshot) bool {
		return s.SpeciesType == models.SpeciesTypeFish && strings.EqualFold(s.WaterType, "salt")
	}},
	{Name: MarineInvertAwardName, RequiredUnique: 7, NotCountable: true,
		Eligible: func(s SubmissionSnapshot) bool {
			if s.SpeciesType != models.SpeciesTypeInvert && s.SpeciesType != models.SpeciesTypeCoral {
				return false
			}
			return strings.EqualFold(s.WaterType, "salt")
		}},
	{Name: "Hard Coral Specialist", RequiredUnique: 6, Eligible: func(s SubmissionSnapshot) bool {
		return s.SpeciesType == models.SpeciesTypeCoral && strings.EqualFold(s.SpeciesClass, "Hard")
	}},
	{Name: "Floating Plants Specialist", RequiredUnique: 6, Eligible: func(s SubmissionSnapshot) bool {
		return s.SpeciesType == models.SpeciesTypePlant && strings.EqualFold(s.SpeciesClass, "Floating")
	}},
}

var countableAwardNames = buildCountableNames()

func buildCountableNames() map[string]bool {
	countable := make(map[string]bool, len(SpecialtyAwards))
	for _, def := range SpecialtyAwards {
		if !def.NotCountable {
			countable[def.Name] = true
		}
	}
	return countable
}

// uniqueSpeciesCount deduplicates by case-insensitive latin name.
func uniqueSpeciesCount(subs []SubmissionSnapshot) int {
	seen := make(map[string]struct{}, len(subs))
	for _, s := range subs {
		key := utils.NormalizeLatinName(s.LatinName)
		if key == "" {
			continue
		}
		seen[key] = struct{}{}
	}
	return len(seen)
}

// EvaluateSpecialtyAwards runs every base award rule against the
// member's approved-submission snapshots and returns the names newly
// earned, skipping anything in held. It does not persist; callers
// insert awards with insert-if-absent semantics.
func EvaluateSpecialtyAwards(snapshots []SubmissionSnapshot, held map[string]bool) []string {
	earned := make([]string, 0)
	for _, def := range SpecialtyAwards {
		if held[def.Name] {
			continue
		}

		eligible := make([]SubmissionSnapshot, 0, len(snapshots))
		for _, s := range snapshots {
			if def.Eligible(s) {
				eligible = append(eligible, s)
			}
		}

		if uniqueSpeciesCount(eligible) < def.RequiredUnique {
			continue
		}
		if def.Limitation != nil && !def.Limitation(eligible) {
			continue
		}
		earned = append(earned, def.Name)
	}
	return earned
}

// EvaluateMetaAwards returns Senior/Expert awards newly earned from the
// count of countable base awards the member holds, including base
// awards earned in the same pass. Both quotas are checked independently
// so a member can earn both at once.
func EvaluateMetaAwards(held map[string]bool, newlyEarnedBase []string) []string {
	count := 0
	for name := range held {
		if countableAwardNames[name] {
			count++
		}
	}
	for _, name := range newlyEarnedBase {
		if countableAwardNames[name] && !held[name] {
			count++
		}
	}

	earned := make([]string, 0, 2)
	if count >= seniorSpecialistQuota && !held[SeniorSpecialistAward] {
		earned = append(earned, SeniorSpecialistAward)
	}
	if count >= expertSpecialistQuota && !held[ExpertSpecialistAward] {
		earned = append(earned, ExpertSpecialistAward)
	}
	return earned
}

// IsMetaAward reports whether name is one of the derived awards.
func IsMetaAward(name string) bool {
	return name == SeniorSpecialistAward || name == ExpertSpecialistAward
}
