package store

import (
	"math"

	"github.com/MixinNetwork/nfr/registry"
	"github.com/dgraph-io/badger/v4"
)

const (
	prefixLockedToken = "REGISTRY:LOCK:TOKEN:"

	keyLockedCount = "REGISTRY:LOCK:COUNT"
)

// LockToken sets the one-way lock flag. Locking an already locked
// token is a no-op, so the counter always equals the number of locked
// tokens.
func (bs *BadgerStore) LockToken(id registry.Id) error {
	return bs.db.Update(func(txn *badger.Txn) error {
		locked, err := bs.isLocked(txn, id)
		if err != nil || locked {
			return err
		}
		count, err := bs.readCounter(txn, keyLockedCount)
		if err != nil {
			return err
		}
		if count == math.MaxUint64 {
			return registry.ErrLockCountOverflow
		}
		err = txn.Set(lockedTokenKey(id), []byte{1})
		if err != nil {
			return err
		}
		return bs.writeCounter(txn, keyLockedCount, count+1)
	})
}

func (bs *BadgerStore) IsLocked(id registry.Id) (bool, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	return bs.isLocked(txn, id)
}

func (bs *BadgerStore) LockedTokenCount() (uint64, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	return bs.readCounter(txn, keyLockedCount)
}

func (bs *BadgerStore) isLocked(txn *badger.Txn, id registry.Id) (bool, error) {
	return bs.hasKey(txn, lockedTokenKey(id))
}

// unlockBurnedToken clears the lock state of a burning token. The
// counter is decremented only when the token was actually locked.
func (bs *BadgerStore) unlockBurnedToken(txn *badger.Txn, id registry.Id) error {
	locked, err := bs.isLocked(txn, id)
	if err != nil || !locked {
		return err
	}
	count, err := bs.readCounter(txn, keyLockedCount)
	if err != nil {
		return err
	}
	if count == 0 {
		return registry.ErrLockCountUnderflow
	}
	err = txn.Delete(lockedTokenKey(id))
	if err != nil {
		return err
	}
	return bs.writeCounter(txn, keyLockedCount, count-1)
}

func lockedTokenKey(id registry.Id) []byte {
	return append([]byte(prefixLockedToken), id.Key()...)
}
