package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"civicBack/internal/escalation"
	"civicBack/internal/models"
)

type ComplaintRepository struct {
	DB *sql.DB
}

const complaintColumns = `c.id, c.title, c.description, c.photo_url, c.latitude, c.longitude, c.address,
       c.category, c.status, c.priority, c.upvote_count, c.escalation_threshold,
       c.assigned_to, c.resolution_notes, c.estimated_completion,
       c.created_by, c.created_at, c.updated_at,
       u.id, u.full_name, u.email`

func scanComplaint(row interface{ Scan(...interface{}) error }) (models.Complaint, error) {
	var c models.Complaint
	var lat, lon sql.NullFloat64
	var estimated sql.NullTime
	err := row.Scan(
		&c.ID, &c.Title, &c.Description, &c.PhotoURL, &lat, &lon, &c.Address,
		&c.Category, &c.Status, &c.Priority, &c.UpvoteCount, &c.EscalationThreshold,
		&c.AssignedTo, &c.ResolutionNotes, &estimated,
		&c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
		&c.Author.ID, &c.Author.FullName, &c.Author.Email,
	)
	if err != nil {
		return models.Complaint{}, err
	}
	if lat.Valid {
		c.Latitude = &lat.Float64
	}
	if lon.Valid {
		c.Longitude = &lon.Float64
	}
	if estimated.Valid {
		c.EstimatedCompletion = &estimated.Time
	}
	return c, nil
}

func (r *ComplaintRepository) CreateComplaint(ctx context.Context, c models.Complaint) (models.Complaint, error) {
	query := `INSERT INTO complaints (title, description, photo_url, latitude, longitude, address, category,
                                      status, priority, upvote_count, escalation_threshold, created_by, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	result, err := r.DB.ExecContext(ctx, query,
		c.Title, c.Description, c.PhotoURL, c.Latitude, c.Longitude, c.Address, c.Category,
		c.Status, c.Priority, c.UpvoteCount, c.EscalationThreshold, c.CreatedBy, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		log.Printf("CreateComplaint query error: %v", err)
		return models.Complaint{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.Complaint{}, err
	}
	c.ID = int(id)
	return c, nil
}

func (r *ComplaintRepository) GetComplaintByID(ctx context.Context, id int) (models.Complaint, error) {
	query := `SELECT ` + complaintColumns + `
              FROM complaints c
              JOIN users u ON c.created_by = u.id
              WHERE c.id = ?`
	c, err := scanComplaint(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Complaint{}, models.ErrComplaintNotFound
	}
	if err != nil {
		return models.Complaint{}, err
	}
	return c, nil
}

func (r *ComplaintRepository) GetComplaints(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	if filter.Status != "" {
		where += ` AND c.status = ?`
		args = append(args, filter.Status)
	}
	if filter.Category != "" {
		where += ` AND c.category = ?`
		args = append(args, filter.Category)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM complaints c` + where
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + complaintColumns + `
              FROM complaints c
              JOIN users u ON c.created_by = u.id` + where + `
              ORDER BY c.created_at DESC
              LIMIT ? OFFSET ?`
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var complaints []models.Complaint
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, 0, err
		}
		complaints = append(complaints, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("complaints rows error: %w", err)
	}
	return complaints, total, nil
}

// ApplyVoteDelta adjusts the denormalized upvote counter and recomputes
// the status inside a single transaction. The row is locked for the
// read-modify-write so two concurrent votes cannot lose an update.
func (r *ComplaintRepository) ApplyVoteDelta(ctx context.Context, complaintID, delta int) (models.Complaint, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Complaint{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var count, threshold int
	var status string
	err = tx.QueryRowContext(ctx,
		`SELECT upvote_count, status, escalation_threshold FROM complaints WHERE id = ? FOR UPDATE`,
		complaintID,
	).Scan(&count, &status, &threshold)
	if errors.Is(err, sql.ErrNoRows) {
		err = models.ErrComplaintNotFound
		return models.Complaint{}, err
	}
	if err != nil {
		return models.Complaint{}, err
	}

	// Clamp before the rule engine sees the delta: the counter must
	// never go negative even if it is already inconsistent.
	newCount := count + delta
	if newCount < 0 {
		newCount = 0
		delta = -count
	}
	newStatus := escalation.Next(status, count, threshold, delta)

	_, err = tx.ExecContext(ctx,
		`UPDATE complaints SET upvote_count = ?, status = ?, updated_at = ? WHERE id = ?`,
		newCount, newStatus, time.Now(), complaintID,
	)
	if err != nil {
		return models.Complaint{}, err
	}
	if err = tx.Commit(); err != nil {
		return models.Complaint{}, err
	}

	return r.GetComplaintByID(ctx, complaintID)
}

// UpdateComplaintAdmin applies an administrative patch. Only the
// whitelisted fields are touched; upvote_count stays under the vote
// path's control.
func (r *ComplaintRepository) UpdateComplaintAdmin(ctx context.Context, id int, patch models.AdminComplaintPatch) (models.Complaint, error) {
	set := `updated_at = ?`
	args := []interface{}{time.Now()}

	if patch.Title != nil {
		set += `, title = ?`
		args = append(args, *patch.Title)
	}
	if patch.Description != nil {
		set += `, description = ?`
		args = append(args, *patch.Description)
	}
	if patch.Category != nil {
		set += `, category = ?`
		args = append(args, *patch.Category)
	}
	if patch.Status != nil {
		set += `, status = ?`
		args = append(args, *patch.Status)
	}
	if patch.Priority != nil {
		set += `, priority = ?`
		args = append(args, *patch.Priority)
	}
	if patch.AssignedTo != nil {
		set += `, assigned_to = ?`
		args = append(args, *patch.AssignedTo)
	}
	if patch.ResolutionNotes != nil {
		set += `, resolution_notes = ?`
		args = append(args, *patch.ResolutionNotes)
	}
	if patch.EstimatedCompletion != nil {
		set += `, estimated_completion = ?`
		args = append(args, *patch.EstimatedCompletion)
	}
	if patch.EscalationThreshold != nil {
		set += `, escalation_threshold = ?`
		args = append(args, *patch.EscalationThreshold)
	}

	args = append(args, id)
	result, err := r.DB.ExecContext(ctx, `UPDATE complaints SET `+set+` WHERE id = ?`, args...)
	if err != nil {
		log.Printf("UpdateComplaintAdmin query error: %v", err)
		return models.Complaint{}, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return models.Complaint{}, err
	}
	if rows == 0 {
		if _, err := r.GetComplaintByID(ctx, id); err != nil {
			return models.Complaint{}, err
		}
	}
	return r.GetComplaintByID(ctx, id)
}

// DeleteComplaintByID removes the complaint and its upvotes together.
func (r *ComplaintRepository) DeleteComplaintByID(ctx context.Context, id int) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	result, err := tx.ExecContext(ctx, `DELETE FROM complaints WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		err = models.ErrComplaintNotFound
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM upvotes WHERE complaint_id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// GetComplaintStats aggregates totals for the admin dashboard.
func (r *ComplaintRepository) GetComplaintStats(ctx context.Context) (models.ComplaintStats, error) {
	stats := models.ComplaintStats{
		ByStatus:   map[string]int{},
		ByCategory: map[string]int{},
	}

	rows, err := r.DB.QueryContext(ctx, `SELECT status, COUNT(*) FROM complaints GROUP BY status`)
	if err != nil {
		return models.ComplaintStats{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return models.ComplaintStats{}, err
		}
		stats.ByStatus[status] = count
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return models.ComplaintStats{}, err
	}

	catRows, err := r.DB.QueryContext(ctx, `SELECT category, COUNT(*) FROM complaints GROUP BY category`)
	if err != nil {
		return models.ComplaintStats{}, err
	}
	defer catRows.Close()
	for catRows.Next() {
		var category string
		var count int
		if err := catRows.Scan(&category, &count); err != nil {
			return models.ComplaintStats{}, err
		}
		stats.ByCategory[category] = count
	}
	if err := catRows.Err(); err != nil {
		return models.ComplaintStats{}, err
	}
	return stats, nil
}
