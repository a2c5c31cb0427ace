package profile

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/studymate/core"
	"github.com/trezcool/studymate/core/tier"
)

var (
	// errors
	ErrNotFound       = errors.New("profile not found")
	ErrWalletExists   = errors.New("a profile with this wallet address already exists")
	ErrUsernameExists = errors.New("a profile with this username already exists")
	ErrUnknownTier    = errors.New("unknown tier")
	ErrBadOrdering    = errors.New("invalid ordering")
)

const tierUpTemplate = "tier_up"

type (
	Repository interface {
		// CheckUniqueness returns ErrWalletExists or ErrUsernameExists on conflicts.
		CheckUniqueness(ctx context.Context, walletAddress, username string) error
		// CreateProfile checks uniqueness again on insert, like CheckUniqueness.
		CreateProfile(ctx context.Context, p Profile) (Profile, error)
		GetProfile(ctx context.Context, filter GetFilter) (Profile, error)
		QueryProfiles(ctx context.Context, filter QueryFilter, orderings ...core.DBOrdering) ([]Profile, error)
		// AddPassPoints atomically adds award.Amount to the profile's balance and records award.
		// The returned Award has its ID and BalanceAfter set.
		AddPassPoints(ctx context.Context, award Award) (Profile, Award, error)
		ResetPassPoints(ctx context.Context, id string, at time.Time) (Profile, error)
		// QueryAwards returns a profile's awards, newest first.
		QueryAwards(ctx context.Context, profileID string) ([]Award, error)
	}

	Service struct {
		repo    Repository
		scheme  tier.Scheme
		mailSvc core.EmailService
		logger  core.Logger
	}
)

func NewService(repo Repository, scheme tier.Scheme, mailSvc core.EmailService, logger core.Logger) *Service {
	return &Service{
		repo:    repo,
		scheme:  scheme,
		mailSvc: mailSvc,
		logger:  logger,
	}
}

func (svc *Service) Scheme() tier.Scheme { return svc.scheme }

func (svc *Service) CheckUniqueness(ctx context.Context, walletAddress, username string) error {
	if err := svc.repo.CheckUniqueness(ctx, walletAddress, username); err != nil {
		if vErr := uniquenessError(err); vErr != nil {
			return vErr
		}
		return errors.Wrap(err, "checking uniqueness")
	}
	return nil
}

// uniquenessError turns a uniqueness conflict into a field ValidationError, and returns nil for other errors.
func uniquenessError(err error) error {
	switch cause := errors.Cause(err); cause {
	case ErrWalletExists:
		return core.NewFieldValidationError("wallet_address", cause)
	case ErrUsernameExists:
		return core.NewFieldValidationError("username", cause)
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, np NewProfile) (Profile, error) {
	now := core.Now()
	p := Profile{
		WalletAddress: np.WalletAddress,
		Username:      np.Username,
		Email:         np.Email,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	p, err := svc.repo.CreateProfile(ctx, p)
	if err != nil {
		if vErr := uniquenessError(err); vErr != nil {
			return Profile{}, vErr
		}
		return Profile{}, errors.Wrap(err, "creating profile")
	}
	return p, nil
}

func (svc *Service) Get(ctx context.Context, id string) (Profile, error) {
	return svc.repo.GetProfile(ctx, GetFilter{ID: id})
}

func (svc *Service) GetByWallet(ctx context.Context, address string) (Profile, error) {
	return svc.repo.GetProfile(ctx, GetFilter{WalletAddress: core.CleanString(address, true /* lower */)})
}

// Query returns the leaderboard. Profiles are sorted by DefaultOrdering unless orderings are given.
func (svc *Service) Query(ctx context.Context, filter QueryFilter, orderings ...core.DBOrdering) ([]Profile, error) {
	filter.Clean()
	if filter.Tier != "" {
		t, ok := svc.scheme.Table.ByName(filter.Tier)
		if !ok {
			return nil, core.NewFieldValidationError("tier", ErrUnknownTier)
		}
		if t.MinPoints > filter.MinPoints {
			filter.MinPoints = t.MinPoints
		}
		if !t.IsUnbounded() {
			filter.MaxPoints = t.MaxPoints
		}
	}

	if len(orderings) == 0 {
		orderings = DefaultOrdering
	}
	for _, ord := range orderings {
		if !isOrderable(ord.Field) {
			return nil, core.NewValidationError(
				ErrBadOrdering, core.FieldError{Field: "ordering", Error: fmt.Sprintf("cannot order by %q", ord.Field)},
			)
		}
	}

	profiles, err := svc.repo.QueryProfiles(ctx, filter, orderings...)
	return profiles, errors.Wrap(err, "querying profiles")
}

// Standing returns the tier situation of a profile.
func (svc *Service) Standing(ctx context.Context, id string) (Standing, error) {
	p, err := svc.Get(ctx, id)
	if err != nil {
		return Standing{}, errors.Wrap(err, "getting profile")
	}
	st := svc.scheme.Table.Standing(p.PassPoints)
	return Standing{
		Profile:    p,
		Standing:   st,
		Decoration: svc.scheme.Decorations.Lookup(st.Tier.Name),
	}, nil
}

// AwardPassPoints credits a profile with the points reason is worth.
// A profile reaching a new tier gets notified by email, if it has one.
func (svc *Service) AwardPassPoints(ctx context.Context, id string, reason tier.Reason) (AwardResult, error) {
	amount, err := svc.scheme.Awards.Award(reason)
	if err != nil {
		return AwardResult{}, err
	}

	p, award, err := svc.repo.AddPassPoints(ctx, Award{
		ProfileID: id,
		Reason:    reason,
		Amount:    amount,
		CreatedAt: core.Now(),
	})
	if err != nil {
		return AwardResult{}, errors.Wrap(err, "adding pass points")
	}

	prevTier := svc.scheme.Table.UserTier(p.PassPoints - amount)
	currTier := svc.scheme.Table.UserTier(p.PassPoints)
	res := AwardResult{
		Award:        award,
		Profile:      p,
		PreviousTier: prevTier,
		Tier:         currTier,
		TierUp:       currTier.MinPoints > prevTier.MinPoints,
		Next:         svc.scheme.Table.PassPointsForNextTier(p.PassPoints),
	}

	svc.logger.Info(fmt.Sprintf("awarded %d pass points (%s) to %s", amount, reason, p.Username), p)
	if res.TierUp {
		svc.sendTierUpMail(res)
	}
	return res, nil
}

// Awards returns a profile's award history, newest first.
func (svc *Service) Awards(ctx context.Context, id string) ([]Award, error) {
	if _, err := svc.Get(ctx, id); err != nil {
		return nil, errors.Wrap(err, "getting profile")
	}
	awards, err := svc.repo.QueryAwards(ctx, id)
	return awards, errors.Wrap(err, "querying awards")
}

// ResetPassPoints brings a profile back to 0 points. Reserved to administrators.
func (svc *Service) ResetPassPoints(ctx context.Context, id string) (Profile, error) {
	p, err := svc.repo.ResetPassPoints(ctx, id, core.Now())
	if err != nil {
		return Profile{}, errors.Wrap(err, "resetting pass points")
	}
	svc.logger.Warn(fmt.Sprintf("pass points of %s were reset", p.Username), p)
	return p, nil
}

type tierUpData struct {
	Username   string
	Tier       tier.Tier
	Decoration tier.Decoration
	PassPoints int
	Next       tier.NextTier
}

func (svc *Service) sendTierUpMail(res AwardResult) {
	if res.Profile.Email == "" || svc.mailSvc == nil {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: res.Profile.Username, Address: res.Profile.Email}},
		Subject:      "You reached the " + res.Tier.Name + " tier!",
		TemplateName: tierUpTemplate,
		TemplateData: tierUpData{
			Username:   res.Profile.Username,
			Tier:       res.Tier,
			Decoration: svc.scheme.Decorations.Lookup(res.Tier.Name),
			PassPoints: res.Profile.PassPoints,
			Next:       res.Next,
		},
	})
}

func isOrderable(field string) bool {
	for _, f := range OrderableFields {
		if f == field {
			return true
		}
	}
	return false
}
