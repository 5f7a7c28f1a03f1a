package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// Experience model related methods. The journal is append-only: there
	// are no update or delete methods on purpose.
	CreateExperience(ctx context.Context, create *Experience) (*Experience, error)
	ListExperiences(ctx context.Context, find *FindExperience) ([]*Experience, error)

	// Pattern model related methods. UpsertPattern folds one successful
	// outcome into the (action_kind, niche) aggregate atomically, so
	// concurrent folds for the same key cannot lose updates.
	UpsertPattern(ctx context.Context, fold *FoldPattern) (*Pattern, error)
	ListPatterns(ctx context.Context, find *FindPattern) ([]*Pattern, error)

	// MarketInsight model related methods (reserved namespace).
	UpsertMarketInsight(ctx context.Context, upsert *UpsertMarketInsight) (*MarketInsight, error)
	ListMarketInsights(ctx context.Context, find *FindMarketInsight) ([]*MarketInsight, error)
}
