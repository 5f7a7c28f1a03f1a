package db

import (
	"github.com/pkg/errors"

	"github.com/hrygo/venturemind/internal/profile"
	"github.com/hrygo/venturemind/store"
	"github.com/hrygo/venturemind/store/db/postgres"
	"github.com/hrygo/venturemind/store/db/sqlite"
)

// NewDBDriver creates new db driver based on profile.
//
// SQLite is the default backend and mirrors the single-file database the
// engine started with; PostgreSQL is the production backend for deployments
// with concurrent writers.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch profile.Driver {
	case "sqlite":
		driver, err = sqlite.NewDB(profile)
	case "postgres":
		driver, err = postgres.NewDB(profile)
	default:
		return nil, errors.New("unknown db driver: only 'sqlite' and 'postgres' are supported")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}
