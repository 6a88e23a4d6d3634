package uid

import (
	"crypto/rand"
	"os"

	"github.com/bwmarrin/snowflake"
)

// Snowflake generates time-ordered int64 IDs safe for multi-instance use.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake creates a Snowflake generator.
//
// The node number comes from the SNOWFLAKE_NODE_ID environment variable when
// set; otherwise a random node in [0, 1023] is picked, which is acceptable for
// small deployments where collisions across instances are unlikely.
func NewSnowflake() (*Snowflake, error) {
	var nodeID int64

	if v := os.Getenv("SNOWFLAKE_NODE_ID"); v != "" {
		for _, c := range []byte(v) {
			if c < '0' || c > '9' {
				nodeID = 0
				break
			}
			nodeID = nodeID*10 + int64(c-'0')
		}
	} else {
		var b [2]byte
		if _, err := rand.Read(b[:]); err != nil {
			return nil, err
		}
		nodeID = int64(b[0])<<8 | int64(b[1])
	}

	node, err := snowflake.NewNode(nodeID % 1024)
	if err != nil {
		return nil, err
	}

	return &Snowflake{node: node}, nil
}

// Generate returns a new snowflake ID.
func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}
