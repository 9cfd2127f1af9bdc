package offers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type Repository interface {
	CreateOffer(ctx context.Context, offer *Offer) error
	GetOfferByID(ctx context.Context, id uuid.UUID) (*Offer, error)
	ListOffersByUser(ctx context.Context, userID uuid.UUID) ([]Offer, error)
	UpdateOffer(ctx context.Context, offer *Offer) error
	SaveSnapshot(ctx context.Context, id uuid.UUID, snapshot json.RawMessage) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status OfferStatus, publishedAt *time.Time) error

	CreatePackage(ctx context.Context, pkg *Package) error
	ListPackages(ctx context.Context, offerID uuid.UUID) ([]Package, error)
	ListPackagesForOffers(ctx context.Context, offerIDs []uuid.UUID) ([]Package, error)
	DeletePackage(ctx context.Context, id uuid.UUID) error

	ListStaleDrafts(ctx context.Context, userID uuid.UUID, source OfferSource, before time.Time) ([]Offer, error)
	ListUsersWithStaleDrafts(ctx context.Context, source OfferSource, before time.Time) ([]uuid.UUID, error)
	MarkDeleted(ctx context.Context, ids []uuid.UUID) (int64, error)

	ListPublished(ctx context.Context, filters *MarketplaceFilters) ([]Offer, int, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateOffer(ctx context.Context, offer *Offer) error {
	query := `
		INSERT INTO offers (
			id, user_id, profile_id, title, description, status, source, snapshot
		) VALUES (
			:id, :user_id, :profile_id, :title, :description, :status, :source, :snapshot
		)`
	_, err := r.db.NamedExecContext(ctx, query, offer)
	return err
}

func (r *postgresRepository) GetOfferByID(ctx context.Context, id uuid.UUID) (*Offer, error) {
	var offer Offer
	err := r.db.GetContext(ctx, &offer, "SELECT * FROM offers WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &offer, err
}

func (r *postgresRepository) ListOffersByUser(ctx context.Context, userID uuid.UUID) ([]Offer, error) {
	var offers []Offer
	err := r.db.SelectContext(ctx, &offers,
		"SELECT * FROM offers WHERE user_id = $1 AND status <> $2 ORDER BY created_at DESC",
		userID, StatusDeleted)
	return offers, err
}

func (r *postgresRepository) UpdateOffer(ctx context.Context, offer *Offer) error {
	query := `
		UPDATE offers SET
			title = :title,
			description = :description,
			snapshot = :snapshot,
			updated_at = NOW()
		WHERE id = :id`
	_, err := r.db.NamedExecContext(ctx, query, offer)
	return err
}

func (r *postgresRepository) SaveSnapshot(ctx context.Context, id uuid.UUID, snapshot json.RawMessage) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE offers SET snapshot = $1, updated_at = NOW() WHERE id = $2 AND status = $3",
		snapshot, id, StatusDraft)
	return err
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status OfferStatus, publishedAt *time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE offers SET status = $1, published_at = COALESCE($2, published_at), updated_at = NOW() WHERE id = $3",
		status, publishedAt, id)
	return err
}

func (r *postgresRepository) CreatePackage(ctx context.Context, pkg *Package) error {
	query := `
		INSERT INTO packages (id, offer_id, name, price_cents, benefits)
		VALUES (:id, :offer_id, :name, :price_cents, :benefits)`
	_, err := r.db.NamedExecContext(ctx, query, pkg)
	return err
}

func (r *postgresRepository) ListPackages(ctx context.Context, offerID uuid.UUID) ([]Package, error) {
	var packages []Package
	err := r.db.SelectContext(ctx, &packages,
		"SELECT * FROM packages WHERE offer_id = $1 ORDER BY price_cents ASC", offerID)
	return packages, err
}

func (r *postgresRepository) ListPackagesForOffers(ctx context.Context, offerIDs []uuid.UUID) ([]Package, error) {
	if len(offerIDs) == 0 {
		return nil, nil
	}
	ids := make([]string, len(offerIDs))
	for i, id := range offerIDs {
		ids[i] = id.String()
	}

	var packages []Package
	err := r.db.SelectContext(ctx, &packages,
		"SELECT * FROM packages WHERE offer_id = ANY($1)", pq.Array(ids))
	return packages, err
}

func (r *postgresRepository) DeletePackage(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM packages WHERE id = $1", id)
	return err
}

func (r *postgresRepository) ListStaleDrafts(ctx context.Context, userID uuid.UUID, source OfferSource, before time.Time) ([]Offer, error) {
	var offers []Offer
	err := r.db.SelectContext(ctx, &offers,
		"SELECT * FROM offers WHERE user_id = $1 AND status = $2 AND source = $3 AND created_at < $4",
		userID, StatusDraft, source, before)
	return offers, err
}

func (r *postgresRepository) ListUsersWithStaleDrafts(ctx context.Context, source OfferSource, before time.Time) ([]uuid.UUID, error) {
	var userIDs []uuid.UUID
	err := r.db.SelectContext(ctx, &userIDs,
		"SELECT DISTINCT user_id FROM offers WHERE status = $1 AND source = $2 AND created_at < $3",
		StatusDraft, source, before)
	return userIDs, err
}

// MarkDeleted soft-deletes the given offers in a single batched update.
func (r *postgresRepository) MarkDeleted(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = id.String()
	}

	res, err := r.db.ExecContext(ctx,
		"UPDATE offers SET status = $1, updated_at = NOW() WHERE id = ANY($2) AND status = $3",
		StatusDeleted, pq.Array(strs), StatusDraft)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *postgresRepository) ListPublished(ctx context.Context, filters *MarketplaceFilters) ([]Offer, int, error) {
	where := "o.status = $1"
	args := []interface{}{StatusPublished}
	argCount := 2

	if filters.Sport != nil {
		where += fmt.Sprintf(" AND p.sport = $%d", argCount)
		args = append(args, *filters.Sport)
		argCount++
	}
	if filters.State != nil {
		where += fmt.Sprintf(" AND p.state = $%d", argCount)
		args = append(args, *filters.State)
		argCount++
	}
	if filters.Search != nil {
		where += fmt.Sprintf(" AND (o.title ILIKE $%d OR o.description ILIKE $%d)", argCount, argCount)
		args = append(args, "%"+*filters.Search+"%")
		argCount++
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM offers o JOIN team_profiles p ON p.id = o.profile_id WHERE " + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(
		"SELECT o.* FROM offers o JOIN team_profiles p ON p.id = o.profile_id WHERE %s ORDER BY o.published_at DESC LIMIT $%d OFFSET $%d",
		where, argCount, argCount+1)
	args = append(args, filters.PageSize, (filters.Page-1)*filters.PageSize)

	var offers []Offer
	if err := r.db.SelectContext(ctx, &offers, query, args...); err != nil {
		return nil, 0, err
	}
	return offers, total, nil
}
