package emit

import (
	"context"
	"sync"

	"git.home.luguber.info/inful/kontentsource/internal/kontent"
)

// MemorySink keeps created nodes in memory.
type MemorySink struct {
	mu    sync.Mutex
	nodes []kontent.Node
	// FailOn makes CreateNode fail for the node with this id.
	FailOn string
	Err    error
}

// CreateNode implements Sink.
func (s *MemorySink) CreateNode(_ context.Context, node kontent.Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailOn != "" && node.NodeID() == s.FailOn {
		return s.Err
	}
	s.nodes = append(s.nodes, node)
	return nil
}

// Nodes returns the created nodes in creation order.
func (s *MemorySink) Nodes() []kontent.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]kontent.Node(nil), s.nodes...)
}

// IDs returns the ids of created nodes in creation order.
func (s *MemorySink) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.nodes))
	for _, n := range s.nodes {
		ids = append(ids, n.NodeID())
	}
	return ids
}
