package fleetmap

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/fleetmap/pkg/etcd"
	"github.com/agentstation/fleetmap/pkg/logging"
	"github.com/agentstation/fleetmap/pkg/nodes"
	"github.com/agentstation/fleetmap/pkg/reconcile"
)

// DefaultEndpoint is the etcd gateway used when no endpoint is configured.
const DefaultEndpoint = "http://localhost:2379"

// Option configures a Fleetmap instance.
type Option func(*config) error

// config collects construction options.
type config struct {
	endpoint    string
	timeout     time.Duration
	logger      *zerolog.Logger
	customStore reconcile.Store
	nodeOptions []nodes.Option
}

func newConfig() *config {
	return &config{
		endpoint: DefaultEndpoint,
		logger:   logging.Default(),
	}
}

// store returns the configured store, building the etcd client unless a
// custom store was injected.
func (c *config) store() reconcile.Store {
	if c.customStore != nil {
		return c.customStore
	}

	clientOpts := []etcd.Option{}
	if c.timeout > 0 {
		clientOpts = append(clientOpts, etcd.WithTimeout(c.timeout))
	}
	return etcd.New(c.endpoint, clientOpts...)
}

// WithEndpoint sets the etcd gateway base URL.
func WithEndpoint(endpoint string) Option {
	return func(c *config) error {
		if endpoint != "" {
			c.endpoint = endpoint
		}
		return nil
	}
}

// WithHTTPTimeout sets the per-request timeout on store calls.
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *config) error {
		c.timeout = timeout
		return nil
	}
}

// WithLogger sets the logger used by the manager.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		if logger != nil {
			c.logger = logger
		}
		return nil
	}
}

// WithStore injects a custom store implementation, bypassing the etcd
// client. Used by tests and by callers embedding fleetmap.
func WithStore(store reconcile.Store) Option {
	return func(c *config) error {
		c.customStore = store
		return nil
	}
}

// WithDeclaredFieldsOnly drops manifest fields outside the documented node
// attribute set instead of preserving them through to the stored value.
func WithDeclaredFieldsOnly() Option {
	return func(c *config) error {
		c.nodeOptions = append(c.nodeOptions, nodes.WithDeclaredFieldsOnly())
		return nil
	}
}
