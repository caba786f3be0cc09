package storage

import (
	"context"
	"os"

	"github.com/samber/oops"
)

// Pinger reports whether the persistence backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DirPinger checks that the file storage root is still accessible.
type DirPinger string

func (d DirPinger) Ping(_ context.Context) error {
	info, err := os.Stat(string(d))
	if err != nil {
		return oops.With("storage_path", string(d)).Wrap(err)
	}
	if !info.IsDir() {
		return oops.With("storage_path", string(d)).Errorf("storage path is not a directory")
	}
	return nil
}
