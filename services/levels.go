package services

import (
	"fmt"

	"breeder-awards-api/models"
)

// Award programs. Invert submissions score into the fish program.
const (
	ProgramFish  = "fish"
	ProgramPlant = "plant"
	ProgramCoral = "coral"
)

// Rank is one rung of a program's level ladder. A rank is achieved when
// the member's total meets Threshold and ExtraRule (if any) holds
// against the bucketed tally.
type Rank struct {
	Name      string
	Threshold int
	ExtraRule func(*PointsTally) bool
}

// Ladders are ordered lowest to highest; thresholds are non-decreasing
// and the first rank failing either condition stops the walk. Extra
// rules require point diversity so a rank cannot be reached purely on
// low-value spawns.
var fishRanks = []Rank{
	{Name: "Participant", Threshold: 0},
	{Name: "Hobbyist", Threshold: 25},
	{Name: "Breeder", Threshold: 50, ExtraRule: func(t *PointsTally) bool {
		return t.BucketPoints(10, 15, 20) >= 20
	}},
	{Name: "Advanced Breeder", Threshold: 100, ExtraRule: func(t *PointsTally) bool {
		return t.BucketPoints(15, 20, 25) >= 40
	}},
	{Name: "Master Breeder", Threshold: 300, ExtraRule: func(t *PointsTally) bool {
		return t.BucketPoints(20, 25) >= 60
	}},
	{Name: "Grand Master Breeder", Threshold: 500},
}

var plantRanks = []Rank{
	{Name: "Participant", Threshold: 0},
	{Name: "Aquatic Gardener", Threshold: 25},
	{Name: "Horticulturist", Threshold: 50, ExtraRule: func(t *PointsTally) bool {
		return t.BucketPoints(10, 15, 20) >= 20
	}},
	{Name: "Advanced Horticulturist", Threshold: 100, ExtraRule: func(t *PointsTally) bool {
		return t.BucketPoints(15, 20, 25) >= 40
	}},
	{Name: "Master Horticulturist", Threshold: 300, ExtraRule: func(t *PointsTally) bool {
		return t.BucketPoints(20, 25) >= 60
	}},
	{Name: "Grand Master Horticulturist", Threshold: 500},
}

var coralRanks = []Rank{
	{Name: "Participant", Threshold: 0},
	{Name: "Propagator", Threshold: 25},
	{Name: "Coral Farmer", Threshold: 50, ExtraRule: func(t *PointsTally) bool {
		return t.BucketPoints(10, 15, 20) >= 20
	}},
	{Name: "Advanced Propagator", Threshold: 100, ExtraRule: func(t *PointsTally) bool {
		return t.BucketPoints(15, 20, 25) >= 40
	}},
	{Name: "Master Propagator", Threshold: 300, ExtraRule: func(t *PointsTally) bool {
		return t.BucketPoints(20, 25) >= 60
	}},
	{Name: "Grand Master Propagator", Threshold: 500},
}

var programRanks = map[string][]Rank{
	ProgramFish:  fishRanks,
	ProgramPlant: plantRanks,
	ProgramCoral: coralRanks,
}

// Programs returns the known program names.
func Programs() []string {
	return []string{ProgramFish, ProgramPlant, ProgramCoral}
}

// IsValidProgram reports whether name is a known award program.
func IsValidProgram(name string) bool {
	_, ok := programRanks[name]
	return ok
}

// ProgramForSpeciesType maps a submission's species type to the program
// its points count toward.
func ProgramForSpeciesType(speciesType string) (string, error) {
	switch speciesType {
	case models.SpeciesTypeFish, models.SpeciesTypeInvert:
		return ProgramFish, nil
	case models.SpeciesTypePlant:
		return ProgramPlant, nil
	case models.SpeciesTypeCoral:
		return ProgramCoral, nil
	}
	return "", fmt.Errorf("unknown species type %q", speciesType)
}

// SpeciesTypesForProgram is the inverse mapping used by approved-history
// queries.
func SpeciesTypesForProgram(program string) []string {
	switch program {
	case ProgramFish:
		return []string{models.SpeciesTypeFish, models.SpeciesTypeInvert}
	case ProgramPlant:
		return []string{models.SpeciesTypePlant}
	case ProgramCoral:
		return []string{models.SpeciesTypeCoral}
	}
	return nil
}

// RankForTally walks a program's ladder from lowest to highest and
// returns the last rank whose threshold and extra rule both passed. The
// base rank has threshold zero, so an empty tally yields it.
func RankForTally(program string, tally *PointsTally) (string, error) {
	ranks, ok := programRanks[program]
	if !ok {
		return "", fmt.Errorf("unknown program %q", program)
	}

	achieved := ranks[0].Name
	for _, rank := range ranks {
		if tally.Total < rank.Threshold {
			break
		}
		if rank.ExtraRule != nil && !rank.ExtraRule(tally) {
			break
		}
		achieved = rank.Name
	}
	return achieved, nil
}
