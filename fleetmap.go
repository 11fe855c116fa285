// Package fleetmap tracks the desired and actual configuration of GPU
// compute nodes in a fleet, using an etcd v3 HTTP gateway as the system of
// record. An operator declares desired node state in a YAML manifest;
// fleetmap writes that state into the store, reads it back, and reconciles
// declared state against stored state, reporting discrepancies
// field-by-field.
package fleetmap

import (
	"context"

	"github.com/agentstation/fleetmap/pkg/nodes"
	"github.com/agentstation/fleetmap/pkg/reconcile"
)

// Fleetmap is the library facade over the reconciliation manager. Each
// operation is independent: no state is held across invocations, and the
// store's contents are the only externally observable state.
type Fleetmap interface {
	// LoadManifest parses a manifest file into node records.
	LoadManifest(path string) ([]*nodes.Node, error)

	// PutNodes writes records to the store, best-effort, reporting the
	// full per-hostname outcome.
	PutNodes(ctx context.Context, records []*nodes.Node) *reconcile.PutResult

	// GetNodeInfo reads one hostname from the store and renders it as
	// YAML. The bool reports presence.
	GetNodeInfo(ctx context.Context, hostname string) (string, bool, error)

	// ValidateNodes compares records against the store without writing,
	// aggregating per-hostname diffs into a summary.
	ValidateNodes(ctx context.Context, records []*nodes.Node) *reconcile.ValidationResult
}

// fleetmap is the internal implementation of the Fleetmap interface.
type fleetmap struct {
	config  *config
	manager *reconcile.Manager
}

// New creates a new Fleetmap instance with the given options.
func New(opts ...Option) (Fleetmap, error) {
	fm := &fleetmap{config: newConfig()}

	for _, opt := range opts {
		if err := opt(fm.config); err != nil {
			return nil, err
		}
	}

	managerOpts := []reconcile.Option{
		reconcile.WithLogger(fm.config.logger),
	}
	if len(fm.config.nodeOptions) > 0 {
		managerOpts = append(managerOpts, reconcile.WithNodeOptions(fm.config.nodeOptions...))
	}

	fm.manager = reconcile.New(fm.config.store(), managerOpts...)
	return fm, nil
}

// LoadManifest implements Fleetmap.
func (fm *fleetmap) LoadManifest(path string) ([]*nodes.Node, error) {
	return fm.manager.LoadManifest(path)
}

// PutNodes implements Fleetmap.
func (fm *fleetmap) PutNodes(ctx context.Context, records []*nodes.Node) *reconcile.PutResult {
	return fm.manager.PutNodes(ctx, records)
}

// GetNodeInfo implements Fleetmap.
func (fm *fleetmap) GetNodeInfo(ctx context.Context, hostname string) (string, bool, error) {
	return fm.manager.GetNodeInfo(ctx, hostname)
}

// ValidateNodes implements Fleetmap.
func (fm *fleetmap) ValidateNodes(ctx context.Context, records []*nodes.Node) *reconcile.ValidationResult {
	return fm.manager.ValidateNodes(ctx, records)
}
