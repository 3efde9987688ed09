package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"cultural-map/internal/model"
	"cultural-map/pkg/apierror"
)

const activityColumns = `a.id, a.name, a.description, a.starts_at, a.latitude, a.longitude,
	        a.category, a.producer_id, u.username, a.created_at, a.updated_at`

type ActivityRepository struct {
	pool *pgxpool.Pool
}

func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

func (r *ActivityRepository) Create(ctx context.Context, a model.Activity) (model.Activity, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO cultural_activities
		     (name, description, starts_at, latitude, longitude, category, producer_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		a.Name, a.Description, a.StartsAt, a.Latitude, a.Longitude, a.Category,
		a.ProducerID, a.CreatedAt, a.UpdatedAt).Scan(&a.ID)
	if err != nil {
		return model.Activity{}, fmt.Errorf("create activity: %w", err)
	}
	return a, nil
}

func (r *ActivityRepository) FindByID(ctx context.Context, id int64) (model.Activity, error) {
	var a model.Activity
	err := r.pool.QueryRow(ctx,
		`SELECT `+activityColumns+`
		 FROM cultural_activities a
		 JOIN users u ON u.id = a.producer_id
		 WHERE a.id = $1`, id).
		Scan(&a.ID, &a.Name, &a.Description, &a.StartsAt, &a.Latitude, &a.Longitude,
			&a.Category, &a.ProducerID, &a.ProducerUsername, &a.CreatedAt, &a.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Activity{}, apierror.New("NOT_FOUND", "activity not found", strconv.FormatInt(id, 10), http.StatusNotFound)
	}
	if err != nil {
		return model.Activity{}, fmt.Errorf("find activity by id: %w", err)
	}
	return a, nil
}

func (r *ActivityRepository) List(ctx context.Context, limit int, offset int) ([]model.Activity, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+activityColumns+`
		 FROM cultural_activities a
		 JOIN users u ON u.id = a.producer_id
		 ORDER BY a.starts_at, a.id
		 LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	return scanActivities(rows)
}

func (r *ActivityRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM cultural_activities`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count activities: %w", err)
	}
	return count, nil
}

func (r *ActivityRepository) ListByCategory(ctx context.Context, category string, limit int, offset int) ([]model.Activity, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+activityColumns+`
		 FROM cultural_activities a
		 JOIN users u ON u.id = a.producer_id
		 WHERE a.category = $1
		 ORDER BY a.starts_at, a.id
		 LIMIT $2 OFFSET $3`, category, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list activities by category: %w", err)
	}
	defer rows.Close()

	return scanActivities(rows)
}

func (r *ActivityRepository) CountByCategory(ctx context.Context, category string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM cultural_activities WHERE category = $1`, category).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count activities by category: %w", err)
	}
	return count, nil
}

// ListInBoundingBox returns every activity inside the degree box. The caller
// refines the result with a precise distance check, so no pagination happens
// at this level.
func (r *ActivityRepository) ListInBoundingBox(ctx context.Context, minLat, maxLat, minLon, maxLon float64) ([]model.Activity, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+activityColumns+`
		 FROM cultural_activities a
		 JOIN users u ON u.id = a.producer_id
		 WHERE a.latitude BETWEEN $1 AND $2
		   AND a.longitude BETWEEN $3 AND $4
		 ORDER BY a.starts_at, a.id`, minLat, maxLat, minLon, maxLon)
	if err != nil {
		return nil, fmt.Errorf("list activities in bounding box: %w", err)
	}
	defer rows.Close()

	return scanActivities(rows)
}

func (r *ActivityRepository) Update(ctx context.Context, a model.Activity) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE cultural_activities
		 SET name = $2, description = $3, starts_at = $4, latitude = $5,
		     longitude = $6, category = $7, updated_at = $8
		 WHERE id = $1`,
		a.ID, a.Name, a.Description, a.StartsAt, a.Latitude, a.Longitude, a.Category, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update activity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.New("NOT_FOUND", "activity not found", strconv.FormatInt(a.ID, 10), http.StatusNotFound)
	}
	return nil
}

func (r *ActivityRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cultural_activities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete activity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.New("NOT_FOUND", "activity not found", strconv.FormatInt(id, 10), http.StatusNotFound)
	}
	return nil
}

func scanActivities(rows pgx.Rows) ([]model.Activity, error) {
	activities := make([]model.Activity, 0)
	for rows.Next() {
		var a model.Activity
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.StartsAt, &a.Latitude, &a.Longitude,
			&a.Category, &a.ProducerID, &a.ProducerUsername, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}
