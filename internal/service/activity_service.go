package service

import (
	"context"
	"net/http"
	"strings"
	"time"

	"cultural-map/internal/auth"
	"cultural-map/internal/geo"
	"cultural-map/internal/model"
	"cultural-map/pkg/apierror"
)

type activityStore interface {
	Create(ctx context.Context, a model.Activity) (model.Activity, error)
	FindByID(ctx context.Context, id int64) (model.Activity, error)
	List(ctx context.Context, limit int, offset int) ([]model.Activity, error)
	Count(ctx context.Context) (int, error)
	ListByCategory(ctx context.Context, category string, limit int, offset int) ([]model.Activity, error)
	CountByCategory(ctx context.Context, category string) (int, error)
	ListInBoundingBox(ctx context.Context, minLat, maxLat, minLon, maxLon float64) ([]model.Activity, error)
	Update(ctx context.Context, a model.Activity) error
	Delete(ctx context.Context, id int64) error
}

type producerStore interface {
	FindByUsername(ctx context.Context, username string) (model.User, error)
}

type ActivityService struct {
	activities activityStore
	users      producerStore
}

func NewActivityService(activities activityStore, users producerStore) *ActivityService {
	return &ActivityService{activities: activities, users: users}
}

// Create stores a new activity owned by the authenticated caller.
func (s *ActivityService) Create(ctx context.Context, req model.ActivityRequest, principal auth.Principal) (model.Activity, error) {
	producer, err := s.users.FindByUsername(ctx, principal.Username)
	if err != nil {
		return model.Activity{}, err
	}

	now := time.Now().UTC()
	return s.activities.Create(ctx, model.Activity{
		Name:             strings.TrimSpace(req.Name),
		Description:      req.Description,
		StartsAt:         req.StartsAt,
		Latitude:         *req.Latitude,
		Longitude:        *req.Longitude,
		Category:         strings.TrimSpace(req.Category),
		ProducerID:       producer.ID,
		ProducerUsername: producer.Username,
		CreatedAt:        now,
		UpdatedAt:        now,
	})
}

func (s *ActivityService) Get(ctx context.Context, id int64) (model.Activity, error) {
	return s.activities.FindByID(ctx, id)
}

func (s *ActivityService) List(ctx context.Context, page int, limit int) ([]model.Activity, int, error) {
	total, err := s.activities.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	activities, err := s.activities.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	return activities, total, nil
}

func (s *ActivityService) ListByCategory(ctx context.Context, category string, page int, limit int) ([]model.Activity, int, error) {
	total, err := s.activities.CountByCategory(ctx, category)
	if err != nil {
		return nil, 0, err
	}

	activities, err := s.activities.ListByCategory(ctx, category, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	return activities, total, nil
}

// Near finds activities within radiusKm of a point: a degree bounding box
// prefilters in the database, then each candidate is checked with the precise
// Haversine distance and the surviving list is paginated in memory.
func (s *ActivityService) Near(ctx context.Context, lat, lon, radiusKm float64, page int, limit int) ([]model.Activity, int, error) {
	minLat, maxLat, minLon, maxLon := geo.BoundingBox(lat, lon, radiusKm)

	candidates, err := s.activities.ListInBoundingBox(ctx, minLat, maxLat, minLon, maxLon)
	if err != nil {
		return nil, 0, err
	}

	filtered := make([]model.Activity, 0, len(candidates))
	for _, activity := range candidates {
		if geo.Haversine(lat, lon, activity.Latitude, activity.Longitude) <= radiusKm {
			filtered = append(filtered, activity)
		}
	}

	total := len(filtered)
	start := (page - 1) * limit
	if start >= total {
		return []model.Activity{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return filtered[start:end], total, nil
}

// Update replaces an activity's fields. Only the owning producer or an admin
// may modify it.
func (s *ActivityService) Update(ctx context.Context, id int64, req model.ActivityRequest, principal auth.Principal) (model.Activity, error) {
	activity, err := s.activities.FindByID(ctx, id)
	if err != nil {
		return model.Activity{}, err
	}

	if !auth.AuthorizeOwnerOrRole(principal, activity.ProducerUsername, auth.RoleAdmin) {
		return model.Activity{}, apierror.New("FORBIDDEN", "you are not allowed to modify this activity", "", http.StatusForbidden)
	}

	activity.Name = strings.TrimSpace(req.Name)
	activity.Description = req.Description
	activity.StartsAt = req.StartsAt
	activity.Latitude = *req.Latitude
	activity.Longitude = *req.Longitude
	activity.Category = strings.TrimSpace(req.Category)
	activity.UpdatedAt = time.Now().UTC()

	if err := s.activities.Update(ctx, activity); err != nil {
		return model.Activity{}, err
	}
	return activity, nil
}

// Delete removes an activity under the same ownership rule as Update.
func (s *ActivityService) Delete(ctx context.Context, id int64, principal auth.Principal) error {
	activity, err := s.activities.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !auth.AuthorizeOwnerOrRole(principal, activity.ProducerUsername, auth.RoleAdmin) {
		return apierror.New("FORBIDDEN", "you are not allowed to delete this activity", "", http.StatusForbidden)
	}

	return s.activities.Delete(ctx, id)
}
