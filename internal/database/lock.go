package database

import (
	"hash/fnv"

	"github.com/google/uuid"
)

// GroupLockKey derives the advisory-lock key that serializes all writes to one
// group: contribution appends, delete votes, and the final unanimous delete
// all take pg_advisory_xact_lock on this key, so the read-modify-write cycles
// never interleave. Groups are independent; different groups hash to
// (practically) distinct keys and proceed in parallel.
func GroupLockKey(groupID uuid.UUID) int64 {
	h := fnv.New64a()
	h.Write([]byte("group"))
	h.Write([]byte{0})
	h.Write(groupID[:])

	return int64(h.Sum64())
}
