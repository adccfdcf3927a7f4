package pkguid

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
)

// snowflakeEpoch is 2025-01-01T00:00:00Z.
const snowflakeEpoch int64 = 1735689600000

// RandomNode asks NewSnowflake to pick a node ID itself.
const RandomNode int64 = -1

var setEpoch sync.Once

// Snowflake generates numeric IDs using the Snowflake algorithm.
type Snowflake struct {
	node *snowflake.Node
}

func generateRandomNodeID() (int64, error) {
	var nodeID int64
	if err := binary.Read(rand.Reader, binary.BigEndian, &nodeID); err != nil {
		return 0, err
	}

	return nodeID & (1<<snowflake.NodeBits - 1), nil
}

// NewSnowflake builds a generator for nodeID, or a random node for RandomNode.
func NewSnowflake(nodeID int64) (*Snowflake, error) {
	if nodeID < 0 {
		id, err := generateRandomNodeID()
		if err != nil {
			return nil, fmt.Errorf("random snowflake node: %w", err)
		}
		nodeID = id
	}

	setEpoch.Do(func() {
		snowflake.Epoch = snowflakeEpoch
	})

	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}

	return &Snowflake{node: node}, nil
}

// Generate returns a new unique numeric ID.
func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}

// Time extracts the creation time encoded in id.
func (s *Snowflake) Time(id int64) time.Time {
	return time.UnixMilli(snowflake.ParseInt64(id).Time())
}
