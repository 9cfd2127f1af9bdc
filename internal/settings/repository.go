package settings

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Repository interface {
	GetPreferences(ctx context.Context, userID uuid.UUID) (*NotificationPreferences, error)
	UpsertPreferences(ctx context.Context, prefs *NotificationPreferences) error
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetPreferences(ctx context.Context, userID uuid.UUID) (*NotificationPreferences, error) {
	var prefs NotificationPreferences
	err := r.db.GetContext(ctx, &prefs,
		"SELECT * FROM notification_preferences WHERE user_id = $1", userID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &prefs, nil
}

func (r *postgresRepository) UpsertPreferences(ctx context.Context, prefs *NotificationPreferences) error {
	query := `
		INSERT INTO notification_preferences (user_id, email_enabled, updated_at)
		VALUES (:user_id, :email_enabled, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET email_enabled = EXCLUDED.email_enabled, updated_at = NOW()`
	_, err := r.db.NamedExecContext(ctx, query, prefs)
	return err
}
