package store

import (
	"context"
	"fmt"
)

// Options selects and configures a storage backend.
type Options struct {
	Driver   string // sqlite|mongo
	DBPath   string
	MongoURI string
	MongoDB  string
}

// Open returns the Repo for the configured driver.
func Open(ctx context.Context, opts Options) (Repo, error) {
	switch opts.Driver {
	case "", "sqlite":
		return OpenSQLite(ctx, opts.DBPath)
	case "mongo":
		return OpenMongo(ctx, opts.MongoURI, opts.MongoDB)
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}
