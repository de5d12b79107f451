package services

import (
	"context"
	"errors"
	"fmt"

	"edeng/internal/domain"
	"edeng/internal/repos"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
)

// JewelStore is the slice of the data access shim the catalog needs.
// *repos.JewelRepo satisfies it.
type JewelStore interface {
	Query(ctx context.Context, f domain.JewelFilter) ([]domain.Jewel, error)
	Get(ctx context.Context, id string) (domain.Jewel, error)
	Insert(ctx context.Context, j domain.Jewel) (domain.Jewel, error)
	Update(ctx context.Context, j domain.Jewel) (domain.Jewel, error)
	Delete(ctx context.Context, id string) error
	DecreaseQuantity(ctx context.Context, id string, amount int) (domain.Jewel, error)
}

type CatalogService struct {
	Jewels JewelStore
}

func NewCatalogService(jewels JewelStore) *CatalogService {
	return &CatalogService{Jewels: jewels}
}

func (s *CatalogService) Query(ctx context.Context, f domain.JewelFilter) ([]domain.Jewel, error) {
	return s.Jewels.Query(ctx, f)
}

func (s *CatalogService) Get(ctx context.Context, id string) (domain.Jewel, error) {
	j, err := s.Jewels.Get(ctx, id)
	if errors.Is(err, repos.ErrNoDocument) {
		return domain.Jewel{}, fmt.Errorf("jewel %s: %w", id, ErrNotFound)
	}
	return j, err
}

// Save inserts when the jewel carries no id, otherwise patches the
// existing document. On insert the owner is stamped from the session.
func (s *CatalogService) Save(ctx context.Context, j domain.Jewel, caller *domain.Identity) (domain.Jewel, error) {
	j.IsSoldOut = j.Quantity == 0
	if j.ID.IsZero() {
		if caller != nil {
			j.Owner = caller.ID
		}
		return s.Jewels.Insert(ctx, j)
	}
	saved, err := s.Jewels.Update(ctx, j)
	if errors.Is(err, repos.ErrNoDocument) {
		return domain.Jewel{}, fmt.Errorf("jewel %s: %w", j.ID.Hex(), ErrNotFound)
	}
	return saved, err
}

// Remove deletes a jewel. Non-admin callers may only remove jewels they
// own.
func (s *CatalogService) Remove(ctx context.Context, id string, caller *domain.Identity) error {
	j, err := s.Jewels.Get(ctx, id)
	if errors.Is(err, repos.ErrNoDocument) {
		return fmt.Errorf("jewel %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return err
	}
	if caller == nil || (!caller.IsAdmin && j.Owner != caller.ID) {
		return ErrForbidden
	}
	err = s.Jewels.Delete(ctx, id)
	if errors.Is(err, repos.ErrNoDocument) {
		return fmt.Errorf("jewel %s: %w", id, ErrNotFound)
	}
	return err
}

// DecreaseQuantity is called after a purchase. The store clamps the
// result at zero and recomputes the sold-out flag in the same update.
func (s *CatalogService) DecreaseQuantity(ctx context.Context, id string, amount int) (domain.Jewel, error) {
	if amount < 1 {
		amount = 1
	}
	j, err := s.Jewels.DecreaseQuantity(ctx, id, amount)
	if errors.Is(err, repos.ErrNoDocument) {
		return domain.Jewel{}, fmt.Errorf("jewel %s: %w", id, ErrNotFound)
	}
	return j, err
}
