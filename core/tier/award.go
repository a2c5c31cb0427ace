package tier

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
)

// Reason is what triggers a Pass Points award.
type Reason string

const (
	ReasonSessionCompleted Reason = "session_completed"
	ReasonGoodReview       Reason = "good_review"
	ReasonMilestone        Reason = "milestone"
)

// UnknownReasonError is returned when an award is requested for a reason outside the known set.
type UnknownReasonError struct {
	Reason string
}

func (err *UnknownReasonError) Error() string {
	return fmt.Sprintf("unknown award reason %q", err.Reason)
}

func IsUnknownReason(err error) bool {
	_, ok := errors.Cause(err).(*UnknownReasonError)
	return ok
}

// Awards maps every known Reason to the number of points it is worth.
type Awards struct {
	amounts map[Reason]int
}

var ErrNonPositiveAward = errors.New("award amounts must be positive")

// NewAwards overrides the default amounts with amounts.
// Reasons left out keep their default; reasons outside the known set are rejected.
func NewAwards(amounts map[Reason]int) (Awards, error) {
	aw := DefaultAwards()
	for reason, amount := range amounts {
		if _, ok := aw.amounts[reason]; !ok {
			return Awards{}, &UnknownReasonError{Reason: string(reason)}
		}
		if amount <= 0 {
			return Awards{}, errors.Wrapf(ErrNonPositiveAward, "%s: %d", reason, amount)
		}
		aw.amounts[reason] = amount
	}
	return aw, nil
}

func DefaultAwards() Awards {
	return Awards{amounts: map[Reason]int{
		ReasonSessionCompleted: 30,
		ReasonGoodReview:       20,
		ReasonMilestone:        100,
	}}
}

// Award returns the points reason is worth. Applying them to a balance is up to the caller.
func (aw Awards) Award(reason Reason) (int, error) {
	amount, ok := aw.amounts[reason]
	if !ok {
		return 0, &UnknownReasonError{Reason: string(reason)}
	}
	return amount, nil
}

// ParseReason converts raw input to a known Reason.
func (aw Awards) ParseReason(s string) (Reason, error) {
	if _, ok := aw.amounts[Reason(s)]; !ok {
		return "", &UnknownReasonError{Reason: s}
	}
	return Reason(s), nil
}

// Reasons returns the known reasons, sorted.
func (aw Awards) Reasons() []Reason {
	reasons := make([]Reason, 0, len(aw.amounts))
	for r := range aw.amounts {
		reasons = append(reasons, r)
	}
	sort.Slice(reasons, func(i, j int) bool { return reasons[i] < reasons[j] })
	return reasons
}

// Amounts returns a copy of the reason -> points mapping.
func (aw Awards) Amounts() map[Reason]int {
	cp := make(map[Reason]int, len(aw.amounts))
	for r, a := range aw.amounts {
		cp[r] = a
	}
	return cp
}
