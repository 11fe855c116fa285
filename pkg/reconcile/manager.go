// Package reconcile drives the user-facing fleet operations: bulk write of
// declared node records, single-record retrieval, and read-only validation
// of declared state against the store.
package reconcile

import (
	"context"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog"

	"github.com/agentstation/fleetmap/pkg/errors"
	"github.com/agentstation/fleetmap/pkg/logging"
	"github.com/agentstation/fleetmap/pkg/nodes"
)

// Store is the key-value access the manager needs. *etcd.Client satisfies
// it; tests substitute fakes.
type Store interface {
	// PutNode writes a node record to the store.
	PutNode(ctx context.Context, node *nodes.Node) error

	// GetNode reads the stored mapping for a hostname. The bool reports
	// presence; a missing key is not an error.
	GetNode(ctx context.Context, hostname string) (map[string]any, bool, error)
}

// Manager composes the record model and the store client. It holds no
// state across operations; the store's contents are the only externally
// observable state, mutated solely by PutNodes.
type Manager struct {
	store  Store
	logger *zerolog.Logger
	node   []nodes.Option
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the manager's logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithNodeOptions sets construction options applied when loading manifests,
// such as nodes.WithDeclaredFieldsOnly.
func WithNodeOptions(opts ...nodes.Option) Option {
	return func(m *Manager) {
		m.node = opts
	}
}

// New creates a Manager backed by the given store.
func New(store Store, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		logger: logging.Default(),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// LoadManifest parses the manifest at path into an ordered sequence of
// node records.
func (m *Manager) LoadManifest(path string) ([]*nodes.Node, error) {
	records, err := nodes.LoadManifest(path, m.node...)
	if err != nil {
		return nil, err
	}

	m.logger.Info().Int("count", len(records)).Str("path", path).Msg("Loaded nodes from manifest")
	return records, nil
}

// PutNodes writes each record to the store in manifest order. The
// operation is best-effort, not atomic: a failure on one record never
// prevents attempting the rest, and the result carries the full
// per-hostname outcome.
func (m *Manager) PutNodes(ctx context.Context, records []*nodes.Node) *PutResult {
	result := &PutResult{}

	for _, node := range records {
		m.logger.Info().Str("hostname", node.Hostname).Msg("Updating node")

		if err := m.store.PutNode(ctx, node); err != nil {
			m.logger.Error().Err(err).Str("hostname", node.Hostname).Msg("Failed to store node")
			result.Failed = append(result.Failed, Outcome{Hostname: node.Hostname, Err: err})
			continue
		}

		m.logger.Info().Str("hostname", node.Hostname).Msg("Stored node")
		result.Succeeded = append(result.Succeeded, node.Hostname)
	}

	m.logger.Info().
		Int("succeeded", len(result.Succeeded)).
		Int("failed", len(result.Failed)).
		Msg("Update operation completed")

	return result
}

// GetNodeInfo reads one hostname from the store and renders the stored
// mapping as YAML. The bool reports presence; absence is not an error.
func (m *Manager) GetNodeInfo(ctx context.Context, hostname string) (string, bool, error) {
	m.logger.Info().Str("hostname", hostname).Msg("Retrieving node info")

	stored, found, err := m.store.GetNode(ctx, hostname)
	if err != nil {
		return "", false, err
	}
	if !found {
		m.logger.Warn().Str("hostname", hostname).Msg("Node not found in store")
		return "", false, nil
	}

	rendered, err := yaml.Marshal(stored)
	if err != nil {
		return "", true, errors.WrapParse("yaml", "", err)
	}

	return string(rendered), true, nil
}

// ValidateNodes compares each declared record against the store and
// aggregates the per-hostname diffs. The operation is read-only by
// contract: it never writes to the store. Read failures are recorded
// per-hostname without aborting the batch.
func (m *Manager) ValidateNodes(ctx context.Context, records []*nodes.Node) *ValidationResult {
	result := &ValidationResult{}

	for _, node := range records {
		m.logger.Info().Str("hostname", node.Hostname).Msg("Validating node")

		stored, found, err := m.store.GetNode(ctx, node.Hostname)
		if err != nil {
			m.logger.Error().Err(err).Str("hostname", node.Hostname).Msg("Failed to read node from store")
			result.Errors = append(result.Errors, Outcome{Hostname: node.Hostname, Err: err})
			continue
		}

		if !found {
			m.logger.Warn().Str("hostname", node.Hostname).Msg("Node missing in store")
			result.Summary.Add(nodes.NewMissingDiff(node.Hostname))
			continue
		}

		diff := node.Compare(stored)
		switch diff.Status {
		case nodes.StatusMatch:
			m.logger.Info().Str("hostname", node.Hostname).Msg("Node matches store")
		default:
			m.logger.Warn().
				Str("hostname", node.Hostname).
				Strs("fields", diff.FieldNames()).
				Msg("Node differs from store")
		}
		result.Summary.Add(diff)
	}

	m.logger.Info().
		Int("match", result.Summary.Match).
		Int("mismatch", result.Summary.Mismatch).
		Int("missing", result.Summary.Missing).
		Int("errors", len(result.Errors)).
		Msg("Validation completed")

	return result
}
