package documents

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Repository interface {
	CreateDocument(ctx context.Context, doc *Document) error
	GetDocumentByID(ctx context.Context, id uuid.UUID) (*Document, error)
	ListDocumentsByUser(ctx context.Context, userID uuid.UUID, kind *DocumentKind) ([]Document, error)
	DeleteDocument(ctx context.Context, id uuid.UUID) error
	HasPitchDeck(ctx context.Context, userID uuid.UUID) (bool, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateDocument(ctx context.Context, doc *Document) error {
	query := `
		INSERT INTO documents (
			id, user_id, profile_id, kind, file_name, content_type,
			file_size, s3_bucket, s3_key, uploaded_at
		) VALUES (
			:id, :user_id, :profile_id, :kind, :file_name, :content_type,
			:file_size, :s3_bucket, :s3_key, :uploaded_at
		)`
	_, err := r.db.NamedExecContext(ctx, query, doc)
	return err
}

func (r *postgresRepository) GetDocumentByID(ctx context.Context, id uuid.UUID) (*Document, error) {
	var doc Document
	err := r.db.GetContext(ctx, &doc, "SELECT * FROM documents WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *postgresRepository) ListDocumentsByUser(ctx context.Context, userID uuid.UUID, kind *DocumentKind) ([]Document, error) {
	var docs []Document
	if kind != nil {
		err := r.db.SelectContext(ctx, &docs,
			"SELECT * FROM documents WHERE user_id = $1 AND kind = $2 ORDER BY uploaded_at DESC",
			userID, *kind)
		return docs, err
	}
	err := r.db.SelectContext(ctx, &docs,
		"SELECT * FROM documents WHERE user_id = $1 ORDER BY uploaded_at DESC", userID)
	return docs, err
}

func (r *postgresRepository) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM documents WHERE id = $1", id)
	return err
}

func (r *postgresRepository) HasPitchDeck(ctx context.Context, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		"SELECT EXISTS (SELECT 1 FROM documents WHERE user_id = $1 AND kind = $2)",
		userID, KindPitchDeck)
	return exists, err
}
