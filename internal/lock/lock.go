// Package lock provides mutexes with deadlock detection.
package lock

import (
	"time"

	"github.com/sasha-s/go-deadlock"
)

func init() {
	// a sync attempt can legitimately block on slow remotes for minutes
	deadlock.Opts.DeadlockTimeout = 10 * time.Minute
}

type Mutex = deadlock.Mutex

type RWMutex = deadlock.RWMutex
