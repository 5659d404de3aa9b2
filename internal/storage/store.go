package storage

import (
	"context"
	"errors"

	"github.com/mitchelldurbincs/Evolve2048/internal/nn"
	"github.com/mitchelldurbincs/Evolve2048/internal/population"
)

var (
	ErrStoreNotInitialized = errors.New("store is not initialized")
	ErrInvalidName         = errors.New("invalid record name")
	ErrUnknownBackend      = errors.New("unsupported store backend")
)

// Store persists trained networks and per-generation summaries. Saves are
// all-or-nothing: a failed save never leaves a partially written network.
type Store interface {
	Init(ctx context.Context) error
	SaveNetwork(ctx context.Context, name string, rec nn.Record) error
	LoadNetwork(ctx context.Context, name string) (nn.Record, bool, error)
	SaveGeneration(ctx context.Context, summary population.Summary) error
	Generations(ctx context.Context, runID string) ([]population.Summary, error)
	Close() error
}

// LoadNetwork loads and rebuilds a network by name.
func LoadNetwork(ctx context.Context, s Store, name string) (*nn.Network, bool, error) {
	rec, ok, err := s.LoadNetwork(ctx, name)
	if err != nil || !ok {
		return nil, ok, err
	}
	net, err := nn.FromRecord(rec)
	if err != nil {
		return nil, false, err
	}
	return net, true, nil
}

func validName(name string) error {
	if name == "" || name == "." || name == ".." {
		return ErrInvalidName
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
		default:
			return ErrInvalidName
		}
	}
	return nil
}
