package nodes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/fleetmap/pkg/errors"
	"github.com/agentstation/fleetmap/pkg/nodes"
)

func nodeData() map[string]any {
	return map[string]any{
		"hostname":           "gpu-01",
		"ip":                 "10.0.0.11",
		"gpu_type":           "H100",
		"bios_version":       "1.4.2",
		"nvidia_driver":      "550.54.15",
		"cuda_version":       "12.4",
		"os":                 "Ubuntu 22.04",
		"kernel":             "5.15.0-105-generic",
		"secure_boot":        true,
		"monitoring_enabled": true,
		"tags":               []any{"prod", "training"},
	}
}

func TestNew(t *testing.T) {
	t.Run("valid record", func(t *testing.T) {
		node, err := nodes.New(nodeData())
		require.NoError(t, err)
		assert.Equal(t, "gpu-01", node.Hostname)
		assert.Equal(t, "H100", node.GPUType)
		assert.Equal(t, "550.54.15", node.NvidiaDriver)
		assert.True(t, node.SecureBoot)
		assert.ElementsMatch(t, []string{"prod", "training"}, node.Tags)
	})

	t.Run("missing hostname", func(t *testing.T) {
		data := nodeData()
		delete(data, "hostname")
		_, err := nodes.New(data)
		require.Error(t, err)
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("empty hostname", func(t *testing.T) {
		data := nodeData()
		data["hostname"] = ""
		_, err := nodes.New(data)
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("non-boolean secure_boot", func(t *testing.T) {
		data := nodeData()
		data["secure_boot"] = "yes"
		_, err := nodes.New(data)
		require.Error(t, err)

		var verr *errors.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "secure_boot", verr.Field)
		assert.Equal(t, "gpu-01", verr.Hostname)
	})

	t.Run("non-boolean monitoring_enabled", func(t *testing.T) {
		data := nodeData()
		data["monitoring_enabled"] = 1
		_, err := nodes.New(data)
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("tags not a sequence", func(t *testing.T) {
		data := nodeData()
		data["tags"] = "prod"
		_, err := nodes.New(data)
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("tags with non-string element", func(t *testing.T) {
		data := nodeData()
		data["tags"] = []any{"prod", 7}
		_, err := nodes.New(data)
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("arbitrary version strings accepted", func(t *testing.T) {
		// Semantic validation of driver/CUDA versions is deliberately not
		// this system's concern; the store records whatever is supplied.
		data := nodeData()
		data["nvidia_driver"] = "not-a-version"
		data["cuda_version"] = "???"
		_, err := nodes.New(data)
		assert.NoError(t, err)
	})

	t.Run("optional booleans default false", func(t *testing.T) {
		data := nodeData()
		delete(data, "secure_boot")
		delete(data, "monitoring_enabled")
		node, err := nodes.New(data)
		require.NoError(t, err)
		assert.False(t, node.SecureBoot)
		assert.False(t, node.MonitoringEnabled)
	})
}

func TestNodeMap(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		node, err := nodes.New(nodeData())
		require.NoError(t, err)

		again, err := nodes.New(node.Map())
		require.NoError(t, err)
		assert.Equal(t, node.Map(), again.Map())
	})

	t.Run("returned map is a copy", func(t *testing.T) {
		node, err := nodes.New(nodeData())
		require.NoError(t, err)

		m := node.Map()
		m["hostname"] = "tampered"
		assert.Equal(t, "gpu-01", node.Map()["hostname"])
	})

	t.Run("extra fields preserved by default", func(t *testing.T) {
		data := nodeData()
		data["rack"] = "r12"
		node, err := nodes.New(data)
		require.NoError(t, err)
		assert.Equal(t, "r12", node.Map()["rack"])
	})

	t.Run("extra fields dropped with declared-only policy", func(t *testing.T) {
		data := nodeData()
		data["rack"] = "r12"
		node, err := nodes.New(data, nodes.WithDeclaredFieldsOnly())
		require.NoError(t, err)
		_, present := node.Map()["rack"]
		assert.False(t, present)
		assert.Equal(t, "gpu-01", node.Map()["hostname"])
	})
}

func TestNodeYAML(t *testing.T) {
	node, err := nodes.New(nodeData())
	require.NoError(t, err)

	out, err := node.YAML()
	require.NoError(t, err)
	assert.Contains(t, out, "hostname: gpu-01")
	assert.Contains(t, out, "gpu_type: H100")
}

func TestCompare(t *testing.T) {
	t.Run("reflexive", func(t *testing.T) {
		node, err := nodes.New(nodeData())
		require.NoError(t, err)

		diff := node.Compare(node.Map())
		assert.Equal(t, nodes.StatusMatch, diff.Status)
		assert.Empty(t, diff.Fields)
	})

	t.Run("single field sensitivity", func(t *testing.T) {
		node, err := nodes.New(nodeData())
		require.NoError(t, err)

		for field, changed := range map[string]any{
			"ip":            "10.0.0.99",
			"gpu_type":      "A100",
			"bios_version":  "9.9.9",
			"nvidia_driver": "535.104.05",
			"cuda_version":  "12.2",
			"os":            "Debian 12",
			"kernel":        "6.1.0-18-amd64",
			"secure_boot":   false,
		} {
			t.Run(field, func(t *testing.T) {
				stored := node.Map()
				stored[field] = changed

				diff := node.Compare(stored)
				require.Equal(t, nodes.StatusMismatch, diff.Status)
				assert.Equal(t, []string{field}, diff.FieldNames())
				assert.Equal(t, changed, diff.Fields[field].Stored)
			})
		}
	})

	t.Run("secure_boot drift records both values", func(t *testing.T) {
		data := nodeData()
		data["secure_boot"] = false
		node, err := nodes.New(data)
		require.NoError(t, err)

		stored := node.Map()
		stored["secure_boot"] = true

		diff := node.Compare(stored)
		require.Equal(t, nodes.StatusMismatch, diff.Status)
		assert.Equal(t, nodes.FieldDiff{Declared: false, Stored: true}, diff.Fields["secure_boot"])
	})

	t.Run("tags order insensitive", func(t *testing.T) {
		node, err := nodes.New(nodeData())
		require.NoError(t, err)

		stored := node.Map()
		stored["tags"] = []any{"training", "prod"}

		diff := node.Compare(stored)
		assert.Equal(t, nodes.StatusMatch, diff.Status)
	})

	t.Run("tags content mismatch", func(t *testing.T) {
		node, err := nodes.New(nodeData())
		require.NoError(t, err)

		stored := node.Map()
		stored["tags"] = []any{"prod"}

		diff := node.Compare(stored)
		require.Equal(t, nodes.StatusMismatch, diff.Status)
		assert.Equal(t, []string{"tags"}, diff.FieldNames())
	})

	t.Run("field absent from store", func(t *testing.T) {
		node, err := nodes.New(nodeData())
		require.NoError(t, err)

		stored := node.Map()
		delete(stored, "kernel")

		diff := node.Compare(stored)
		require.Equal(t, nodes.StatusMismatch, diff.Status)
		assert.Equal(t, nodes.ValueAbsent, diff.Fields["kernel"].Stored)
	})

	t.Run("extra stored fields ignored", func(t *testing.T) {
		// Comparison is driven by the declared record's fields only.
		node, err := nodes.New(nodeData())
		require.NoError(t, err)

		stored := node.Map()
		stored["last_seen"] = "2026-08-25T10:00:00Z"

		diff := node.Compare(stored)
		assert.Equal(t, nodes.StatusMatch, diff.Status)
	})

	t.Run("numeric values survive the JSON round trip", func(t *testing.T) {
		// The store's JSON decoding turns integers into float64.
		data := nodeData()
		data["gpu_count"] = 8
		node, err := nodes.New(data)
		require.NoError(t, err)

		stored := node.Map()
		stored["gpu_count"] = float64(8)

		diff := node.Compare(stored)
		assert.Equal(t, nodes.StatusMatch, diff.Status)
	})
}
