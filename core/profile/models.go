package profile

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/studymate/core"
	"github.com/trezcool/studymate/core/tier"
)

// Orderable fields of QueryProfiles
const (
	OrderPassPoints = "pass_points"
	OrderUsername   = "username"
	OrderCreatedAt  = "created_at"
)

var (
	OrderableFields = []string{OrderPassPoints, OrderUsername, OrderCreatedAt}

	// leaderboard
	DefaultOrdering = []core.DBOrdering{
		{Field: OrderPassPoints, Ascending: false},
		{Field: OrderCreatedAt, Ascending: true},
	}
)

// Profile is a student's public profile. Identity is the connected wallet.
type Profile struct {
	ID            string    `json:"id"`
	WalletAddress string    `json:"wallet_address"`
	Username      string    `json:"username"`
	Email         string    `json:"-"` // only used for notifications
	PassPoints    int       `json:"pass_points"`
	CreatedAt     time.Time `json:"created_at"` // UTC
	UpdatedAt     time.Time `json:"updated_at"` // UTC
}

var _ core.Person = Profile{}

func (p Profile) PersonID() string    { return p.ID }
func (p Profile) PersonName() string  { return p.Username }
func (p Profile) PersonEmail() string { return p.Email }

// Award is a ledger entry of Pass Points granted to a profile.
type Award struct {
	ID           string      `json:"id"`
	ProfileID    string      `json:"profile_id"`
	Reason       tier.Reason `json:"reason"`
	Amount       int         `json:"amount"`
	BalanceAfter int         `json:"balance_after"`
	CreatedAt    time.Time   `json:"created_at"` // UTC
}

// NewProfile contains information needed to create a new Profile.
type NewProfile struct {
	WalletAddress string `json:"wallet_address" validate:"required,eth_addr"`
	Username      string `json:"username" validate:"required,min=3,max=30,alphanum_"`
	Email         string `json:"email" validate:"omitempty,email"`
}

func (np *NewProfile) Validate(ctx context.Context, validate *validator.Validate, svc *Service) error {
	np.WalletAddress = core.CleanString(np.WalletAddress, true /* lower */)
	np.Username = core.CleanString(np.Username, true /* lower */)
	np.Email = core.CleanString(np.Email, true /* lower */)

	if err := validate.Struct(np); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, np.WalletAddress, np.Username)
}

// NewAward is what is needed to award Pass Points to a profile.
type NewAward struct {
	Reason string `json:"reason" validate:"required"`
}

func (na *NewAward) Validate(validate *validator.Validate) error {
	na.Reason = core.CleanString(na.Reason, true /* lower */)
	return validate.Struct(na)
}

type GetFilter struct {
	ID            string
	WalletAddress string
}

// QueryFilter filters the leaderboard. All set fields are AND-ed.
type QueryFilter struct {
	Search    string `query:"search"` // case-insensitive match on username or wallet address
	Tier      string `query:"tier"`   // tier name; translated to a points range by the Service
	MinPoints int    `query:"min_points"`
	MaxPoints int    `query:"-"`     // exclusive; 0 means no upper bound
	Limit     int    `query:"limit"` // 0 means no limit
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search, true /* lower */)
	qf.Tier = core.CleanString(qf.Tier)
	if qf.MinPoints < 0 {
		qf.MinPoints = 0
	}
	if qf.Limit < 0 {
		qf.Limit = 0
	}
}

// Standing is a profile's tier situation, as displayed on its page.
type Standing struct {
	Profile    Profile         `json:"profile"`
	Standing   tier.Standing   `json:"standing"`
	Decoration tier.Decoration `json:"decoration"`
}

// AwardResult is the outcome of awarding Pass Points.
type AwardResult struct {
	Award        Award         `json:"award"`
	Profile      Profile       `json:"profile"`
	PreviousTier tier.Tier     `json:"previous_tier"`
	Tier         tier.Tier     `json:"tier"`
	TierUp       bool          `json:"tier_up"`
	Next         tier.NextTier `json:"next"`
}
