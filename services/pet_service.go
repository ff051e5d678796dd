package services

import (
	"context"
	"errors"
	"fmt"

	"petcare-backend/models"
	"petcare-backend/store"

	"github.com/google/uuid"
)

var ErrPetNotFound = errors.New("pet not found")

type PetService struct {
	store store.Store
}

func NewPetService(s store.Store) *PetService {
	return &PetService{store: s}
}

func (s *PetService) Create(ctx context.Context, userID uuid.UUID, p *models.Pet) (*models.Pet, error) {
	p.ID = uuid.Nil
	p.UserID = userID
	if err := s.store.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create pet: %w", err)
	}
	return p, nil
}

func (s *PetService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Pet, error) {
	var found []models.Pet
	if err := s.store.Filter(ctx, &found, map[string]interface{}{"id": id, "user_id": userID}, ""); err != nil {
		return nil, fmt.Errorf("get pet: %w", err)
	}
	if len(found) == 0 {
		return nil, ErrPetNotFound
	}
	return &found[0], nil
}

func (s *PetService) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Pet, error) {
	var pets []models.Pet
	if err := s.store.Filter(ctx, &pets, map[string]interface{}{"user_id": userID}, "name asc"); err != nil {
		return nil, fmt.Errorf("list pets: %w", err)
	}
	return pets, nil
}

// Update writes the given columns of one of the user's pets.
func (s *PetService) Update(ctx context.Context, userID, id uuid.UUID, fields map[string]interface{}) (*models.Pet, error) {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		if err := s.store.Update(ctx, &models.Pet{}, id, fields); err != nil {
			return nil, fmt.Errorf("update pet: %w", err)
		}
	}
	return s.Get(ctx, userID, id)
}

func (s *PetService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, &models.Pet{}, id); err != nil {
		return fmt.Errorf("delete pet: %w", err)
	}
	return nil
}

// ByID indexes the user's pets for notification formatting.
func (s *PetService) ByID(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]models.Pet, error) {
	pets, err := s.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]models.Pet, len(pets))
	for _, p := range pets {
		out[p.ID] = p
	}
	return out, nil
}
