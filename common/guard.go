package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const reentrancyGuardKey = "reentrancyGuard"

// ErrReentrantCall appears when a token-moving method is re-entered
// from a nested contract call while the outer invocation is still
// in progress.
const ErrReentrantCall = "reentrant call"

// LockGuard sets the reentrancy flag in contract storage. It panics with
// ErrReentrantCall message if the flag is already set. Transaction rollback
// on panic clears the flag on every failure exit path, so UnlockGuard must
// be called on the success path only.
func LockGuard(ctx storage.Context) {
	if storage.Get(ctx, reentrancyGuardKey) != nil {
		panic(ErrReentrantCall)
	}

	storage.Put(ctx, reentrancyGuardKey, 1)
}

// UnlockGuard drops the reentrancy flag set by LockGuard.
func UnlockGuard(ctx storage.Context) {
	storage.Delete(ctx, reentrancyGuardKey)
}
