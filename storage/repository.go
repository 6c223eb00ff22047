package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Attachment is one recorded upload.
type Attachment struct {
	ID          string
	UploadedBy  string
	EntityType  *string
	EntityID    *string
	Bucket      string
	ObjectName  string
	PublicURL   string
	ContentType *string
	SizeBytes   int64
	CreatedAt   time.Time
}

const attachmentColumns = `id, uploaded_by, entity_type, entity_id, bucket, object_name, public_url, content_type, size_bytes, created_at`

// Repository records uploads so orphaned objects can be traced back to
// an owner.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Record inserts one attachment row.
func (r *Repository) Record(ctx context.Context, a Attachment) (Attachment, error) {
	const query = `
		INSERT INTO attachments (uploaded_by, entity_type, entity_id, bucket, object_name, public_url, content_type, size_bytes)
		VALUES ($1, $2, $3::uuid, $4, $5, $6, $7, $8)
		RETURNING ` + attachmentColumns

	row := r.pool.QueryRow(ctx, query,
		a.UploadedBy, a.EntityType, a.EntityID, a.Bucket, a.ObjectName, a.PublicURL, a.ContentType, a.SizeBytes,
	)

	var saved Attachment
	err := row.Scan(&saved.ID, &saved.UploadedBy, &saved.EntityType, &saved.EntityID,
		&saved.Bucket, &saved.ObjectName,
		&saved.PublicURL, &saved.ContentType, &saved.SizeBytes, &saved.CreatedAt)
	if err != nil {
		return Attachment{}, fmt.Errorf("storage: record attachment: %w", err)
	}
	return saved, nil
}

// ListByUploader returns the uploads owned by one user, newest first.
func (r *Repository) ListByUploader(ctx context.Context, userID string) ([]Attachment, error) {
	const query = `SELECT ` + attachmentColumns + ` FROM attachments WHERE uploaded_by = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("storage: query attachments: %w", err)
	}
	defer rows.Close()

	list := []Attachment{}
	for rows.Next() {
		var a Attachment
		if err := rows.Scan(&a.ID, &a.UploadedBy, &a.EntityType, &a.EntityID,
			&a.Bucket, &a.ObjectName,
			&a.PublicURL, &a.ContentType, &a.SizeBytes, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("storage: scan attachment: %w", err)
		}
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: iterate attachments: %w", err)
	}
	return list, nil
}
