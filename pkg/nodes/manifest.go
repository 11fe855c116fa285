package nodes

import (
	"os"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/fleetmap/pkg/errors"
)

// manifest mirrors the manifest file layout: a document with a top-level
// nodes sequence.
type manifest struct {
	Nodes []map[string]any `yaml:"nodes"`
}

// LoadManifest parses the document at path into an ordered sequence of
// node records. It fails with a ManifestError when the file is absent,
// unreadable, or malformed, or when any entry fails record construction;
// the error names the offending entry's position and hostname rather than
// silently skipping it.
func LoadManifest(path string, opts ...Option) ([]*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &errors.ManifestError{
			Path:    path,
			Entry:   -1,
			Message: "reading manifest file",
			Err:     errors.WrapIO("read", path, err),
		}
	}

	var doc manifest
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &errors.ManifestError{
			Path:    path,
			Entry:   -1,
			Message: "parsing manifest YAML",
			Err:     errors.WrapParse("yaml", path, err),
		}
	}

	if doc.Nodes == nil {
		return nil, errors.NewManifestError(path, "manifest has no top-level nodes sequence", nil)
	}

	records := make([]*Node, 0, len(doc.Nodes))
	for i, entry := range doc.Nodes {
		node, err := New(entry, opts...)
		if err != nil {
			return nil, &errors.ManifestError{
				Path:     path,
				Entry:    i,
				Hostname: stringField(entry, FieldHostname),
				Message:  err.Error(),
				Err:      err,
			}
		}
		records = append(records, node)
	}

	return records, nil
}
