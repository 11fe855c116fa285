package fleetmap_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/fleetmap"
	"github.com/agentstation/fleetmap/pkg/logging"
	"github.com/agentstation/fleetmap/pkg/nodes"
)

// memStore is an in-memory reconcile.Store for facade tests.
type memStore struct {
	records map[string]map[string]any
}

func (s *memStore) PutNode(_ context.Context, node *nodes.Node) error {
	s.records[node.Hostname] = node.Map()
	return nil
}

func (s *memStore) GetNode(_ context.Context, hostname string) (map[string]any, bool, error) {
	stored, ok := s.records[hostname]
	return stored, ok, nil
}

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nodes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFleetmapEndToEnd(t *testing.T) {
	store := &memStore{records: map[string]map[string]any{}}
	fm, err := fleetmap.New(
		fleetmap.WithStore(store),
		fleetmap.WithLogger(&logging.Nop),
	)
	require.NoError(t, err)

	manifest := `nodes:
  - hostname: gpu-01
    ip: 10.0.0.11
    gpu_type: H100
    secure_boot: false
    tags: [prod]
  - hostname: gpu-02
    ip: 10.0.0.12
    gpu_type: A100
`
	records, err := fm.LoadManifest(writeManifest(t, manifest))
	require.NoError(t, err)
	require.Len(t, records, 2)

	ctx := context.Background()

	// Write declared state
	putResult := fm.PutNodes(ctx, records)
	assert.True(t, putResult.Ok())
	assert.Len(t, store.records, 2)

	// Read back one record
	rendered, found, err := fm.GetNodeInfo(ctx, "gpu-01")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Contains(t, rendered, "hostname: gpu-01")

	// Everything matches right after a put
	validation := fm.ValidateNodes(ctx, records)
	assert.True(t, validation.Ok())
	assert.Equal(t, 2, validation.Summary.Match)

	// Introduce drift in the store
	store.records["gpu-01"]["secure_boot"] = true
	validation = fm.ValidateNodes(ctx, records)
	assert.True(t, validation.Drifted())
	assert.Equal(t, 1, validation.Summary.Mismatch)
}

func TestFleetmapGetNodeInfoEmptyStore(t *testing.T) {
	fm, err := fleetmap.New(
		fleetmap.WithStore(&memStore{records: map[string]map[string]any{}}),
		fleetmap.WithLogger(&logging.Nop),
	)
	require.NoError(t, err)

	rendered, found, err := fm.GetNodeInfo(context.Background(), "gpu-03")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, rendered)
}

func TestFleetmapDeclaredFieldsOnly(t *testing.T) {
	store := &memStore{records: map[string]map[string]any{}}
	fm, err := fleetmap.New(
		fleetmap.WithStore(store),
		fleetmap.WithLogger(&logging.Nop),
		fleetmap.WithDeclaredFieldsOnly(),
	)
	require.NoError(t, err)

	manifest := `nodes:
  - hostname: gpu-01
    rack: r12
`
	records, err := fm.LoadManifest(writeManifest(t, manifest))
	require.NoError(t, err)

	fm.PutNodes(context.Background(), records)
	_, present := store.records["gpu-01"]["rack"]
	assert.False(t, present)
}
