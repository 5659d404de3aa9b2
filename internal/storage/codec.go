package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mitchelldurbincs/Evolve2048/internal/nn"
	"github.com/mitchelldurbincs/Evolve2048/internal/population"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var (
	ErrVersionMismatch = errors.New("record version mismatch")
	ErrMalformedRecord = errors.New("malformed record")
)

// VersionedRecord tags every persisted payload.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

func currentVersion() VersionedRecord {
	return VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion}
}

type networkEnvelope struct {
	VersionedRecord
	Name    string    `json:"name"`
	SavedAt time.Time `json:"saved_at"`
	Network nn.Record `json:"network"`
}

type generationEnvelope struct {
	VersionedRecord
	population.Summary
}

func EncodeNetwork(name string, rec nn.Record) ([]byte, error) {
	return json.Marshal(networkEnvelope{
		VersionedRecord: currentVersion(),
		Name:            name,
		SavedAt:         time.Now().UTC(),
		Network:         rec,
	})
}

// DecodeNetwork checks the version and topology so a corrupt payload is never
// returned as a usable record.
func DecodeNetwork(data []byte) (nn.Record, error) {
	var env networkEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nn.Record{}, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}
	if err := checkVersion(env.VersionedRecord); err != nil {
		return nn.Record{}, err
	}
	if _, err := nn.FromRecord(env.Network); err != nil {
		return nn.Record{}, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}
	return env.Network, nil
}

func EncodeGeneration(s population.Summary) ([]byte, error) {
	return json.Marshal(generationEnvelope{VersionedRecord: currentVersion(), Summary: s})
}

func DecodeGeneration(data []byte) (population.Summary, error) {
	var env generationEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return population.Summary{}, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}
	if err := checkVersion(env.VersionedRecord); err != nil {
		return population.Summary{}, err
	}
	return env.Summary, nil
}

func checkVersion(v VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return fmt.Errorf("schema %d codec %d: %w", v.SchemaVersion, v.CodecVersion, ErrVersionMismatch)
	}
	return nil
}
