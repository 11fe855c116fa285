// Package nodes defines the GPU node record model: the canonical attribute
// set, manifest loading, and field-by-field comparison of a declared record
// against the mapping stored in the key-value store.
package nodes

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/fleetmap/pkg/errors"
)

// Canonical field names for a node record.
const (
	FieldHostname          = "hostname"
	FieldIP                = "ip"
	FieldGPUType           = "gpu_type"
	FieldBIOSVersion       = "bios_version"
	FieldNvidiaDriver      = "nvidia_driver"
	FieldCUDAVersion       = "cuda_version"
	FieldOS                = "os"
	FieldKernel            = "kernel"
	FieldSecureBoot        = "secure_boot"
	FieldMonitoringEnabled = "monitoring_enabled"
	FieldTags              = "tags"
)

// declaredFields is the documented attribute set of a node record.
var declaredFields = map[string]bool{
	FieldHostname:          true,
	FieldIP:                true,
	FieldGPUType:           true,
	FieldBIOSVersion:       true,
	FieldNvidiaDriver:      true,
	FieldCUDAVersion:       true,
	FieldOS:                true,
	FieldKernel:            true,
	FieldSecureBoot:        true,
	FieldMonitoringEnabled: true,
	FieldTags:              true,
}

// Node represents one GPU node's configuration snapshot. A Node is
// immutable after construction; comparisons never mutate it.
type Node struct {
	Hostname          string
	IP                string
	GPUType           string
	BIOSVersion       string
	NvidiaDriver      string
	CUDAVersion       string
	OS                string
	Kernel            string
	SecureBoot        bool
	MonitoringEnabled bool
	Tags              []string

	// fields is the full mapping the node was constructed from. Depending
	// on policy it may carry extra fields beyond the documented set.
	fields map[string]any
}

// Option configures node construction.
type Option func(*config)

type config struct {
	declaredOnly bool
}

// WithDeclaredFieldsOnly drops manifest fields outside the documented
// attribute set instead of preserving them through to the stored value.
func WithDeclaredFieldsOnly() Option {
	return func(c *config) {
		c.declaredOnly = true
	}
}

// New builds a node record from a mapping of named fields. It fails with a
// ValidationError when hostname is absent or empty, a boolean-typed field
// is not a true boolean, or tags is not a sequence of strings. All other
// fields pass through as supplied; driver and CUDA version values are
// recorded verbatim, not validated.
func New(data map[string]any, opts ...Option) (*Node, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	hostname, ok := data[FieldHostname].(string)
	if !ok || hostname == "" {
		return nil, errors.NewValidationError("", FieldHostname, data[FieldHostname], "must be a non-empty string")
	}

	node := &Node{
		Hostname:     hostname,
		IP:           stringField(data, FieldIP),
		GPUType:      stringField(data, FieldGPUType),
		BIOSVersion:  stringField(data, FieldBIOSVersion),
		NvidiaDriver: stringField(data, FieldNvidiaDriver),
		CUDAVersion:  stringField(data, FieldCUDAVersion),
		OS:           stringField(data, FieldOS),
		Kernel:       stringField(data, FieldKernel),
	}

	for _, field := range []string{FieldSecureBoot, FieldMonitoringEnabled} {
		raw, present := data[field]
		if !present {
			continue
		}
		value, isBool := raw.(bool)
		if !isBool {
			return nil, errors.NewValidationError(hostname, field, raw, "must be a boolean")
		}
		if field == FieldSecureBoot {
			node.SecureBoot = value
		} else {
			node.MonitoringEnabled = value
		}
	}

	if raw, present := data[FieldTags]; present {
		tags, isTags := stringSlice(raw)
		if !isTags {
			return nil, errors.NewValidationError(hostname, FieldTags, raw, "must be a sequence of strings")
		}
		node.Tags = tags
	}

	node.fields = copyFields(data, cfg.declaredOnly)
	return node, nil
}

// Map returns the node's flat field mapping, suitable for serialization.
// The returned map is a copy; mutating it does not affect the node.
func (n *Node) Map() map[string]any {
	return copyFields(n.fields, false)
}

// YAML renders the node's mapping as a YAML document. Used for display,
// not for storage.
func (n *Node) YAML() (string, error) {
	out, err := yaml.Marshal(n.fields)
	if err != nil {
		return "", errors.WrapParse("yaml", "", err)
	}
	return string(out), nil
}

// Compare compares this node against another mapping, typically the
// decoded value read back from the store, and returns a Diff. Every field
// present in this node's mapping is compared by exact value equality; tags
// are compared as a set. A field absent from other counts as a mismatch
// with the stored value recorded as ValueAbsent. Callers handle a wholly
// absent record as StatusMissing instead of invoking Compare.
func (n *Node) Compare(other map[string]any) *Diff {
	diff := &Diff{
		Hostname: n.Hostname,
		Status:   StatusMatch,
		Fields:   map[string]FieldDiff{},
	}

	for _, field := range sortedKeys(n.fields) {
		declared := n.fields[field]

		stored, present := other[field]
		if !present {
			diff.record(field, declared, ValueAbsent)
			continue
		}

		if field == FieldTags {
			if !equalTagSets(declared, stored) {
				diff.record(field, declared, stored)
			}
			continue
		}

		if !equalValues(declared, stored) {
			diff.record(field, declared, stored)
		}
	}

	if len(diff.Fields) == 0 {
		diff.Fields = nil
	}
	return diff
}

// String implements fmt.Stringer.
func (n *Node) String() string {
	return fmt.Sprintf("Node(%s, %s)", n.Hostname, n.GPUType)
}

// stringField returns the named field as a string, or "" when absent or
// not a string. The raw mapping remains authoritative either way.
func stringField(data map[string]any, field string) string {
	s, _ := data[field].(string)
	return s
}

// stringSlice converts a tags value to []string, accepting both []string
// and the []any YAML parsers produce.
func stringSlice(raw any) ([]string, bool) {
	switch v := raw.(type) {
	case []string:
		return append([]string(nil), v...), true
	case []any:
		tags := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			tags = append(tags, s)
		}
		return tags, true
	default:
		return nil, false
	}
}

// copyFields shallow-copies a field mapping, optionally restricted to the
// documented attribute set.
func copyFields(data map[string]any, declaredOnly bool) map[string]any {
	fields := make(map[string]any, len(data))
	for k, v := range data {
		if declaredOnly && !declaredFields[k] {
			continue
		}
		fields[k] = v
	}
	return fields
}

// sortedKeys returns the mapping's keys in deterministic order.
func sortedKeys(data map[string]any) []string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// equalValues compares two field values by exact equality. YAML decodes
// integers as int64/uint64 while the store's JSON round trip yields
// float64, so numeric values compare by magnitude.
func equalValues(a, b any) bool {
	if reflect.DeepEqual(a, b) {
		return true
	}
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	return aok && bok && af == bf
}

// equalTagSets compares two tags values order-insensitively.
func equalTagSets(a, b any) bool {
	as, aok := stringSlice(a)
	bs, bok := stringSlice(b)
	if !aok || !bok {
		return false
	}
	set := make(map[string]struct{}, len(as))
	for _, tag := range as {
		set[tag] = struct{}{}
	}
	other := make(map[string]struct{}, len(bs))
	for _, tag := range bs {
		if _, ok := set[tag]; !ok {
			return false
		}
		other[tag] = struct{}{}
	}
	return len(set) == len(other)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
