package core

import "sync/atomic"

// InvalidResourceID is the zero value of ResourceID and never issued.
const InvalidResourceID ResourceID = 0

// ResourceID identifies one loadable resource instance. IDs are issued
// monotonically and never reused within a process lifetime.
type ResourceID uint64

func (id ResourceID) Valid() bool {
	return id != InvalidResourceID
}

var nextResourceID atomic.Uint64

// NextResourceID issues a fresh ResourceID. Safe to call from any
// goroutine, never blocks, never fails.
func NextResourceID() ResourceID {
	return ResourceID(nextResourceID.Add(1))
}
