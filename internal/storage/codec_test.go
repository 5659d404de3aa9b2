package storage

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/Evolve2048/internal/nn"
)

func TestNetworkCodec(t *testing.T) {
	rec := testNetwork(t).Record()
	data, err := EncodeNetwork("best", rec)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, float64(CurrentSchemaVersion), raw["schema_version"])
	assert.Equal(t, "best", raw["name"])

	back, err := DecodeNetwork(data)
	require.NoError(t, err)
	assert.Equal(t, rec, back)
}

func TestDecodeNetwork_VersionMismatch(t *testing.T) {
	data, err := json.Marshal(networkEnvelope{
		VersionedRecord: VersionedRecord{SchemaVersion: 99, CodecVersion: CurrentCodecVersion},
		Network:         testNetwork(t).Record(),
	})
	require.NoError(t, err)

	_, err = DecodeNetwork(data)
	assert.ErrorIs(t, err, ErrVersionMismatch)
}

func TestDecodeNetwork_Malformed(t *testing.T) {
	_, err := DecodeNetwork([]byte("[]"))
	assert.ErrorIs(t, err, ErrMalformedRecord)

	ragged := nn.Record{Layers: []nn.LayerRecord{{Neurons: []nn.NeuronRecord{
		{Weights: []float64{1, 2}},
		{Weights: []float64{1}},
	}}}}
	data, err := EncodeNetwork("ragged", ragged)
	require.NoError(t, err)
	_, err = DecodeNetwork(data)
	assert.ErrorIs(t, err, ErrMalformedRecord)
	assert.ErrorIs(t, err, nn.ErrWidthMismatch)
}

func TestGenerationCodec(t *testing.T) {
	s := testSummary("run-x", 7)
	data, err := EncodeGeneration(s)
	require.NoError(t, err)

	back, err := DecodeGeneration(data)
	require.NoError(t, err)
	assert.Equal(t, s, back)

	_, err = DecodeGeneration([]byte(`{"schema_version":2,"codec_version":1}`))
	assert.ErrorIs(t, err, ErrVersionMismatch)
}
