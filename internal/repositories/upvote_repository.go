package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"civicBack/internal/models"
)

type UpvoteRepository struct {
	DB *sql.DB
}

// CreateUpvote inserts the (complaint, voter) pair. The unique key on
// the upvotes table is the authority for the one-vote-per-user rule; a
// duplicate-key failure maps to models.ErrAlreadyUpvoted so concurrent
// casts resolve to exactly one success.
func (r *UpvoteRepository) CreateUpvote(ctx context.Context, upvote models.Upvote) (models.Upvote, error) {
	query := `INSERT INTO upvotes (complaint_id, user_email, created_at) VALUES (?, ?, ?)`
	upvote.CreatedAt = time.Now()
	result, err := r.DB.ExecContext(ctx, query, upvote.ComplaintID, upvote.UserEmail, upvote.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return models.Upvote{}, models.ErrAlreadyUpvoted
		}
		log.Printf("CreateUpvote query error: %v", err)
		return models.Upvote{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.Upvote{}, err
	}
	upvote.ID = int(id)
	return upvote, nil
}

func (r *UpvoteRepository) GetUpvoteByID(ctx context.Context, id int) (models.Upvote, error) {
	var upvote models.Upvote
	query := `SELECT id, complaint_id, user_email, created_at FROM upvotes WHERE id = ?`
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&upvote.ID, &upvote.ComplaintID, &upvote.UserEmail, &upvote.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Upvote{}, models.ErrUpvoteNotFound
	}
	if err != nil {
		return models.Upvote{}, err
	}
	return upvote, nil
}

func (r *UpvoteRepository) DeleteUpvoteByID(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM upvotes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrUpvoteNotFound
	}
	return nil
}

// HasUpvoted returns the voter's upvote for the complaint, if any.
func (r *UpvoteRepository) HasUpvoted(ctx context.Context, complaintID int, userEmail string) (models.UpvoteCheck, error) {
	var id int
	query := `SELECT id FROM upvotes WHERE complaint_id = ? AND user_email = ?`
	err := r.DB.QueryRowContext(ctx, query, complaintID, userEmail).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.UpvoteCheck{}, nil
	}
	if err != nil {
		return models.UpvoteCheck{}, err
	}
	return models.UpvoteCheck{HasUpvoted: true, UpvoteID: id}, nil
}

func (r *UpvoteRepository) GetUpvotesByComplaintID(ctx context.Context, complaintID int) ([]models.Upvote, error) {
	query := `SELECT id, complaint_id, user_email, created_at
              FROM upvotes WHERE complaint_id = ? ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, complaintID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var upvotes []models.Upvote
	for rows.Next() {
		var u models.Upvote
		if err := rows.Scan(&u.ID, &u.ComplaintID, &u.UserEmail, &u.CreatedAt); err != nil {
			return nil, err
		}
		upvotes = append(upvotes, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("upvotes rows error: %w", err)
	}
	return upvotes, nil
}

// GetAllUpvotes joins the complaint snippet for the admin listing.
// Complaints removed after voting leave the snippet empty rather than
// hiding the record.
func (r *UpvoteRepository) GetAllUpvotes(ctx context.Context) ([]models.Upvote, error) {
	query := `SELECT uv.id, uv.complaint_id, uv.user_email, uv.created_at,
                     COALESCE(c.title, ''), COALESCE(c.status, '')
              FROM upvotes uv
              LEFT JOIN complaints c ON uv.complaint_id = c.id
              ORDER BY uv.created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var upvotes []models.Upvote
	for rows.Next() {
		var u models.Upvote
		if err := rows.Scan(&u.ID, &u.ComplaintID, &u.UserEmail, &u.CreatedAt, &u.ComplaintTitle, &u.ComplaintStatus); err != nil {
			return nil, err
		}
		upvotes = append(upvotes, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("upvotes rows error: %w", err)
	}
	return upvotes, nil
}
