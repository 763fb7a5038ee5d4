package idgen

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
)

// Generator produces unique, monotonically increasing 64-bit IDs.
// The booking service uses these as request-sequence tokens: a refresh
// carrying an older token than the last applied one is discarded, so a
// slow response can never overwrite a newer collection.
type Generator interface {
	GenerateID() int64
}

type SnowflakeGenerator struct {
	node *snowflake.Node
	mu   sync.Mutex
}

// NewSnowflakeGenerator initializes a new ID generator.
// nodeID must be unique per server instance (0-1023) to prevent collisions.
func NewSnowflakeGenerator(nodeID int64) (*SnowflakeGenerator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to create snowflake node: %w", err)
	}

	return &SnowflakeGenerator{
		node: node,
	}, nil
}

// GenerateID returns a new unique 64-bit integer ID
func (g *SnowflakeGenerator) GenerateID() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.node.Generate().Int64()
}
