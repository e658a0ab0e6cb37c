package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Source namespaces for event IDs. Dataset records and live feed events
// number their sequences independently, so the source tag keeps the two ID
// spaces disjoint: a feed event can never collide with a dataset record
// that happens to share its symbol, direction and sequence number.
const (
	SourceDataset = "dataset"
	SourceFeed    = "feed"
)

// ComputeEventID computes a deterministic event_id using SHA256.
// Formula: SHA256(source|symbol|dir|seq) where seq is the record's position
// within its source. Dataset rows carry no natural key, so the position
// disambiguates otherwise identical records while keeping reloads stable.
// Returns hex-encoded hash (64 characters).
func ComputeEventID(source, symbol, dir string, seq int) string {
	data := fmt.Sprintf("%s|%s|%s|%d", source, symbol, dir, seq)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
