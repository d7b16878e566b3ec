package facility

import (
	"context"
	"strings"
)

// CreateRequest carries the fields for creating a facility.
type CreateRequest struct {
	Name     string
	Location string
	Capacity int
}

// UpdateRequest carries optional fields for a facility update.
type UpdateRequest struct {
	Name     *string
	Location *string
	Capacity *int
}

// Service defines business logic for facilities.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Facility, error)
	GetByID(ctx context.Context, id string) (*Facility, error)
	List(ctx context.Context) ([]*Facility, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Facility, error)
	Delete(ctx context.Context, id string) error
	SetPhoto(ctx context.Context, id string, photoID *string) (*Facility, error)
}

type service struct {
	repo Repository
}

// NewService creates a new facility Service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Facility, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	location := strings.TrimSpace(req.Location)
	if location == "" {
		return nil, ErrLocationRequired
	}
	if req.Capacity < 1 {
		return nil, ErrInvalidCapacity
	}

	f := &Facility{
		Name:     name,
		Location: location,
		Capacity: req.Capacity,
	}

	if err := s.repo.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Facility, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]*Facility, error) {
	return s.repo.List(ctx)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Facility, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		f.Name = name
	}
	if req.Location != nil {
		location := strings.TrimSpace(*req.Location)
		if location == "" {
			return nil, ErrLocationRequired
		}
		f.Location = location
	}
	if req.Capacity != nil {
		if *req.Capacity < 1 {
			return nil, ErrInvalidCapacity
		}
		f.Capacity = *req.Capacity
	}

	if err := s.repo.Update(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) SetPhoto(ctx context.Context, id string, photoID *string) (*Facility, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	f.PhotoID = photoID
	if err := s.repo.Update(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}
