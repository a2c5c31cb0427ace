package sqlxrepos

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/studymate/core"
	"github.com/trezcool/studymate/core/profile"
	"github.com/trezcool/studymate/core/tier"
)

const profileColumns = "id, wallet_address, username, email, pass_points, created_at, updated_at"

type (
	profileRow struct {
		ID            string      `db:"id"`
		WalletAddress string      `db:"wallet_address"`
		Username      string      `db:"username"`
		Email         null.String `db:"email"`
		PassPoints    int         `db:"pass_points"`
		CreatedAt     time.Time   `db:"created_at"`
		UpdatedAt     time.Time   `db:"updated_at"`
	}

	awardRow struct {
		ID           string    `db:"id"`
		ProfileID    string    `db:"profile_id"`
		Reason       string    `db:"reason"`
		Amount       int       `db:"amount"`
		BalanceAfter int       `db:"balance_after"`
		CreatedAt    time.Time `db:"created_at"`
	}
)

func newProfileRow(p profile.Profile) profileRow {
	return profileRow{
		ID:            p.ID,
		WalletAddress: p.WalletAddress,
		Username:      p.Username,
		Email:         null.NewString(p.Email, p.Email != ""),
		PassPoints:    p.PassPoints,
		CreatedAt:     p.CreatedAt.UTC(),
		UpdatedAt:     p.UpdatedAt.UTC(),
	}
}

func (r profileRow) toProfile() profile.Profile {
	return profile.Profile{
		ID:            r.ID,
		WalletAddress: r.WalletAddress,
		Username:      r.Username,
		Email:         r.Email.String,
		PassPoints:    r.PassPoints,
		CreatedAt:     r.CreatedAt.UTC(),
		UpdatedAt:     r.UpdatedAt.UTC(),
	}
}

func (r awardRow) toAward() profile.Award {
	return profile.Award{
		ID:           r.ID,
		ProfileID:    r.ProfileID,
		Reason:       tier.Reason(r.Reason),
		Amount:       r.Amount,
		BalanceAfter: r.BalanceAfter,
		CreatedAt:    r.CreatedAt.UTC(),
	}
}

type profileRepository struct {
	db *sqlx.DB
}

var _ profile.Repository = (*profileRepository)(nil)

func NewProfileRepository(db *sqlx.DB) profile.Repository {
	return &profileRepository{db: db}
}

func (repo *profileRepository) CheckUniqueness(ctx context.Context, walletAddress, username string) error {
	var rows []profileRow
	q := `SELECT ` + profileColumns + ` FROM profile WHERE wallet_address = $1 OR username = $2 LIMIT 2`
	if err := repo.db.SelectContext(ctx, &rows, q, walletAddress, username); err != nil {
		return errors.Wrap(err, "selecting conflicting profiles")
	}
	for _, row := range rows {
		if row.WalletAddress == walletAddress {
			return profile.ErrWalletExists
		}
		if row.Username == username {
			return profile.ErrUsernameExists
		}
	}
	return nil
}

func (repo *profileRepository) CreateProfile(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	p.ID = uuid.New().String()
	q := `INSERT INTO profile (` + profileColumns + `)
		VALUES (:id, :wallet_address, :username, :email, :pass_points, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, newProfileRow(p)); err != nil {
		if uErr := uniqueViolation(err); uErr != nil {
			return profile.Profile{}, uErr
		}
		return profile.Profile{}, errors.Wrap(err, "inserting profile")
	}
	return p, nil
}

// unique constraints of fs/migrations/00001_create_profiles.sql
const (
	pqUniqueViolation       = "23505"
	walletAddressConstraint = "profile_wallet_address_key"
	usernameConstraint      = "profile_username_key"
)

// uniqueViolation maps a unique violation on insert to the matching profile error, and returns nil otherwise.
func uniqueViolation(err error) error {
	pqErr, ok := errors.Cause(err).(*pq.Error)
	if !ok || pqErr.Code != pqUniqueViolation {
		return nil
	}
	switch pqErr.Constraint {
	case walletAddressConstraint:
		return profile.ErrWalletExists
	case usernameConstraint:
		return profile.ErrUsernameExists
	}
	return nil
}

func (repo *profileRepository) GetProfile(ctx context.Context, filter profile.GetFilter) (profile.Profile, error) {
	var (
		where string
		arg   interface{}
	)
	switch {
	case filter.ID != "":
		if _, err := uuid.Parse(filter.ID); err != nil {
			return profile.Profile{}, profile.ErrNotFound
		}
		where, arg = "id = $1", filter.ID
	case filter.WalletAddress != "":
		where, arg = "wallet_address = $1", filter.WalletAddress
	default:
		return profile.Profile{}, profile.ErrNotFound
	}

	var row profileRow
	if err := repo.db.GetContext(ctx, &row, `SELECT `+profileColumns+` FROM profile WHERE `+where, arg); err != nil {
		if err == sql.ErrNoRows {
			return profile.Profile{}, profile.ErrNotFound
		}
		return profile.Profile{}, errors.Wrap(err, "selecting profile")
	}
	return row.toProfile(), nil
}

func (repo *profileRepository) QueryProfiles(
	ctx context.Context,
	filter profile.QueryFilter,
	orderings ...core.DBOrdering,
) ([]profile.Profile, error) {
	var (
		conds []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Search != "" {
		p := arg("%" + filter.Search + "%")
		conds = append(conds, "(username ILIKE "+p+" OR wallet_address ILIKE "+p+")")
	}
	if filter.MinPoints > 0 {
		conds = append(conds, "pass_points >= "+arg(filter.MinPoints))
	}
	if filter.MaxPoints > 0 {
		conds = append(conds, "pass_points < "+arg(filter.MaxPoints))
	}

	q := `SELECT ` + profileColumns + ` FROM profile`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	if len(orderings) > 0 {
		ords := make([]string, 0, len(orderings))
		for _, ord := range orderings {
			ords = append(ords, ord.String()) // fields are white-listed by profile.Service
		}
		q += " ORDER BY " + strings.Join(ords, ", ")
	}
	if filter.Limit > 0 {
		q += " LIMIT " + arg(filter.Limit)
	}

	var rows []profileRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting profiles")
	}
	profiles := make([]profile.Profile, 0, len(rows))
	for _, row := range rows {
		profiles = append(profiles, row.toProfile())
	}
	return profiles, nil
}

func (repo *profileRepository) AddPassPoints(ctx context.Context, award profile.Award) (profile.Profile, profile.Award, error) {
	if _, err := uuid.Parse(award.ProfileID); err != nil {
		return profile.Profile{}, profile.Award{}, profile.ErrNotFound
	}

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return profile.Profile{}, profile.Award{}, errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	var row profileRow
	q := `UPDATE profile SET pass_points = pass_points + $1, updated_at = $2 WHERE id = $3 RETURNING ` + profileColumns
	if err = tx.GetContext(ctx, &row, q, award.Amount, award.CreatedAt.UTC(), award.ProfileID); err != nil {
		if err == sql.ErrNoRows {
			return profile.Profile{}, profile.Award{}, profile.ErrNotFound
		}
		return profile.Profile{}, profile.Award{}, errors.Wrap(err, "updating pass points")
	}

	award.ID = uuid.New().String()
	award.BalanceAfter = row.PassPoints
	ar := awardRow{
		ID:           award.ID,
		ProfileID:    award.ProfileID,
		Reason:       string(award.Reason),
		Amount:       award.Amount,
		BalanceAfter: award.BalanceAfter,
		CreatedAt:    award.CreatedAt.UTC(),
	}
	q = `INSERT INTO award (id, profile_id, reason, amount, balance_after, created_at)
		VALUES (:id, :profile_id, :reason, :amount, :balance_after, :created_at)`
	if _, err = tx.NamedExecContext(ctx, q, ar); err != nil {
		return profile.Profile{}, profile.Award{}, errors.Wrap(err, "inserting award")
	}

	if err = tx.Commit(); err != nil {
		return profile.Profile{}, profile.Award{}, errors.Wrap(err, "committing transaction")
	}
	return row.toProfile(), award, nil
}

func (repo *profileRepository) ResetPassPoints(ctx context.Context, id string, at time.Time) (profile.Profile, error) {
	if _, err := uuid.Parse(id); err != nil {
		return profile.Profile{}, profile.ErrNotFound
	}
	var row profileRow
	q := `UPDATE profile SET pass_points = 0, updated_at = $1 WHERE id = $2 RETURNING ` + profileColumns
	if err := repo.db.GetContext(ctx, &row, q, at.UTC(), id); err != nil {
		if err == sql.ErrNoRows {
			return profile.Profile{}, profile.ErrNotFound
		}
		return profile.Profile{}, errors.Wrap(err, "resetting pass points")
	}
	return row.toProfile(), nil
}

func (repo *profileRepository) QueryAwards(ctx context.Context, profileID string) ([]profile.Award, error) {
	if _, err := uuid.Parse(profileID); err != nil {
		return []profile.Award{}, nil
	}
	var rows []awardRow
	q := `SELECT id, profile_id, reason, amount, balance_after, created_at
		FROM award WHERE profile_id = $1 ORDER BY created_at DESC, balance_after DESC`
	if err := repo.db.SelectContext(ctx, &rows, q, profileID); err != nil {
		return nil, errors.Wrap(err, "selecting awards")
	}
	awards := make([]profile.Award, 0, len(rows))
	for _, row := range rows {
		awards = append(awards, row.toAward())
	}
	return awards, nil
}
