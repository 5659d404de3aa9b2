package storage

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/Evolve2048/internal/nn"
	"github.com/mitchelldurbincs/Evolve2048/internal/population"
)

const (
	networksDir    = "networks"
	generationsDir = "generations"
)

// FileStore writes one JSON file per network and one JSON-lines log of
// generation summaries per run under a base directory.
type FileStore struct {
	baseDir string
	logger  zerolog.Logger

	mu          sync.Mutex
	initialized bool
}

func NewFileStore(baseDir string, logger zerolog.Logger) *FileStore {
	return &FileStore{
		baseDir: baseDir,
		logger:  logger.With().Str("component", "file_store").Logger(),
	}
}

func (s *FileStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.baseDir == "" {
		return errors.New("file store path is required")
	}
	for _, dir := range []string{networksDir, generationsDir} {
		if err := os.MkdirAll(filepath.Join(s.baseDir, dir), 0o755); err != nil {
			return fmt.Errorf("failed to create %s directory: %w", dir, err)
		}
	}
	s.initialized = true
	return nil
}

func (s *FileStore) networkPath(name string) string {
	return filepath.Join(s.baseDir, networksDir, name+".json")
}

func (s *FileStore) generationPath(runID string) string {
	return filepath.Join(s.baseDir, generationsDir, runID+".jsonl")
}

// SaveNetwork writes to a temporary file and renames it into place.
func (s *FileStore) SaveNetwork(_ context.Context, name string, rec nn.Record) error {
	if err := validName(name); err != nil {
		return err
	}
	payload, err := EncodeNetwork(name, rec)
	if err != nil {
		return fmt.Errorf("failed to encode network %s: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return ErrStoreNotInitialized
	}

	dst := s.networkPath(name)
	tmp, err := os.CreateTemp(filepath.Dir(dst), name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("failed to write network %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		s.logger.Warn().Err(err).Str("name", name).Msg("Failed to sync network file")
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("failed to close network %s: %w", name, err)
	}
	if err := os.Rename(tmpName, dst); err != nil {
		cleanup()
		return fmt.Errorf("failed to move network %s into place: %w", name, err)
	}

	s.logger.Debug().Str("name", name).Int("bytes", len(payload)).Msg("Network saved")
	return nil
}

func (s *FileStore) LoadNetwork(_ context.Context, name string) (nn.Record, bool, error) {
	if err := validName(name); err != nil {
		return nn.Record{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return nn.Record{}, false, ErrStoreNotInitialized
	}

	data, err := os.ReadFile(s.networkPath(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nn.Record{}, false, nil
		}
		return nn.Record{}, false, fmt.Errorf("failed to read network %s: %w", name, err)
	}
	rec, err := DecodeNetwork(data)
	if err != nil {
		return nn.Record{}, false, fmt.Errorf("decode network %s: %w", name, err)
	}
	return rec, true, nil
}

// SaveGeneration appends one line to the run's log.
func (s *FileStore) SaveGeneration(_ context.Context, summary population.Summary) error {
	if err := validName(summary.RunID); err != nil {
		return fmt.Errorf("run id %q: %w", summary.RunID, err)
	}
	line, err := EncodeGeneration(summary)
	if err != nil {
		return fmt.Errorf("failed to encode generation: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return ErrStoreNotInitialized
	}

	f, err := os.OpenFile(s.generationPath(summary.RunID), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open generation log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to write generation: %w", err)
	}
	return nil
}

func (s *FileStore) Generations(_ context.Context, runID string) ([]population.Summary, error) {
	if err := validName(runID); err != nil {
		return nil, fmt.Errorf("run id %q: %w", runID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return nil, ErrStoreNotInitialized
	}

	data, err := os.ReadFile(s.generationPath(runID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read generation log: %w", err)
	}

	var out []population.Summary
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		summary, err := DecodeGeneration(line)
		if err != nil {
			return nil, fmt.Errorf("generation log line %d: %w", lineNo, err)
		}
		out = append(out, summary)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan generation log: %w", err)
	}
	return out, nil
}

func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialized = false
	return nil
}
