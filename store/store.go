package store

import (
	"context"

	"github.com/hrygo/venturemind/internal/profile"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	return s.driver.Close()
}

func (s *Store) CreateExperience(ctx context.Context, create *Experience) (*Experience, error) {
	return s.driver.CreateExperience(ctx, create)
}

func (s *Store) ListExperiences(ctx context.Context, find *FindExperience) ([]*Experience, error) {
	return s.driver.ListExperiences(ctx, find)
}

func (s *Store) UpsertPattern(ctx context.Context, fold *FoldPattern) (*Pattern, error) {
	return s.driver.UpsertPattern(ctx, fold)
}

func (s *Store) ListPatterns(ctx context.Context, find *FindPattern) ([]*Pattern, error) {
	return s.driver.ListPatterns(ctx, find)
}

func (s *Store) UpsertMarketInsight(ctx context.Context, upsert *UpsertMarketInsight) (*MarketInsight, error) {
	return s.driver.UpsertMarketInsight(ctx, upsert)
}

func (s *Store) ListMarketInsights(ctx context.Context, find *FindMarketInsight) ([]*MarketInsight, error) {
	return s.driver.ListMarketInsights(ctx, find)
}
