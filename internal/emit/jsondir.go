package emit

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/kontentsource/internal/foundation/errors"
	"git.home.luguber.info/inful/kontentsource/internal/kontent"
)

// JSONDirSink writes each node to <dir>/<internal type>/<id>.json.
type JSONDirSink struct {
	dir string
}

// NewJSONDirSink creates the output directory and returns a sink writing into it.
func NewJSONDirSink(dir string) (*JSONDirSink, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, errors.WrapError(err, errors.CategoryEmission, "failed to create output directory").
			WithContext("path", dir).
			Build()
	}
	return &JSONDirSink{dir: dir}, nil
}

// CreateNode implements Sink.
func (s *JSONDirSink) CreateNode(_ context.Context, node kontent.Node) error {
	data, err := json.MarshalIndent(node, "", "  ")
	if err != nil {
		return errors.WrapError(err, errors.CategoryEmission, "failed to encode node").
			WithContext("node_id", node.NodeID()).
			Build()
	}

	typeDir := filepath.Join(s.dir, filepath.Base(node.NodeType()))
	if err := os.MkdirAll(typeDir, 0o750); err != nil {
		return errors.WrapError(err, errors.CategoryEmission, "failed to create node directory").
			WithContext("path", typeDir).
			Build()
	}

	path := filepath.Join(typeDir, filepath.Base(node.NodeID())+".json")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryEmission, "failed to write node").
			WithContext("path", path).
			Build()
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.WrapError(err, errors.CategoryEmission, "failed to write node").
			WithContext("path", path).
			Build()
	}
	return nil
}
