package services

import (
	"time"

	"breeder-awards-api/models"
)

// Minimum days between the reproduction/propagation date and approval
// eligibility, per program.
var programWaitingDays = map[string]int{
	ProgramFish:  60,
	ProgramPlant: 60,
	ProgramCoral: 90,
}

// WaitingPeriodStatus reports whether a submission can be approved as
// of the injected "now".
type WaitingPeriodStatus struct {
	PeriodDays       int       `json:"period_days"`
	EligibleOn       time.Time `json:"eligible_on"`
	PeriodElapsed    bool      `json:"period_elapsed"`
	WitnessConfirmed bool      `json:"witness_confirmed"`
}

// ApprovalEligible reports whether both approval gates are satisfied.
func (s WaitingPeriodStatus) ApprovalEligible() bool {
	return s.PeriodElapsed && s.WitnessConfirmed
}

// EvaluateWaitingPeriod is a pure function of the stored dates and the
// caller-supplied clock. "now" is injected so the calculation stays
// deterministic under test.
func EvaluateWaitingPeriod(reproducedOn time.Time, program, witnessStatus string, now time.Time) WaitingPeriodStatus {
	days, ok := programWaitingDays[program]
	if !ok {
		days = programWaitingDays[ProgramFish]
	}

	eligibleOn := reproducedOn.AddDate(0, 0, days)
	return WaitingPeriodStatus{
		PeriodDays:       days,
		EligibleOn:       eligibleOn,
		PeriodElapsed:    !now.Before(eligibleOn),
		WitnessConfirmed: witnessStatus == models.WitnessConfirmed,
	}
}
