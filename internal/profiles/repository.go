package profiles

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"pitchside/marketplace-backend/internal/onboarding"
)

type Repository interface {
	CreateProfile(ctx context.Context, profile *TeamProfile) error
	GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*TeamProfile, error)
	GetProfileByID(ctx context.Context, id uuid.UUID) (*TeamProfile, error)
	UpdateProfile(ctx context.Context, profile *TeamProfile) error
	UpdateStep(ctx context.Context, userID uuid.UUID, step onboarding.PersistedStep) error
	CompleteOnboarding(ctx context.Context, userID uuid.UUID) error
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateProfile(ctx context.Context, profile *TeamProfile) error {
	query := `
		INSERT INTO team_profiles (
			id, user_id, team_name, sport, city, state, zip_code, website_url,
			latitude, longitude, formatted_address, onboarding_completed,
			current_onboarding_step
		) VALUES (
			:id, :user_id, :team_name, :sport, :city, :state, :zip_code, :website_url,
			:latitude, :longitude, :formatted_address, :onboarding_completed,
			:current_onboarding_step
		)`
	_, err := r.db.NamedExecContext(ctx, query, profile)
	return err
}

func (r *postgresRepository) GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*TeamProfile, error) {
	var profile TeamProfile
	err := r.db.GetContext(ctx, &profile, "SELECT * FROM team_profiles WHERE user_id = $1", userID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &profile, err
}

func (r *postgresRepository) GetProfileByID(ctx context.Context, id uuid.UUID) (*TeamProfile, error) {
	var profile TeamProfile
	err := r.db.GetContext(ctx, &profile, "SELECT * FROM team_profiles WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &profile, err
}

func (r *postgresRepository) UpdateProfile(ctx context.Context, profile *TeamProfile) error {
	query := `
		UPDATE team_profiles SET
			team_name = :team_name,
			sport = :sport,
			city = :city,
			state = :state,
			zip_code = :zip_code,
			website_url = :website_url,
			latitude = :latitude,
			longitude = :longitude,
			formatted_address = :formatted_address,
			updated_at = NOW()
		WHERE id = :id`
	_, err := r.db.NamedExecContext(ctx, query, profile)
	return err
}

func (r *postgresRepository) UpdateStep(ctx context.Context, userID uuid.UUID, step onboarding.PersistedStep) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE team_profiles SET current_onboarding_step = $1, updated_at = NOW() WHERE user_id = $2",
		step, userID)
	return err
}

// CompleteOnboarding sets the completed flag and the terminal step in one
// statement so the completion gate can never observe them disagreeing.
func (r *postgresRepository) CompleteOnboarding(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE team_profiles SET onboarding_completed = TRUE, current_onboarding_step = $1, updated_at = NOW() WHERE user_id = $2",
		onboarding.PersistedCompleted, userID)
	return err
}
