package store_test

import (
	"testing"

	"github.com/MixinNetwork/nfr/registry"
)

func TestLockToken(t *testing.T) {
	bs := newStore(t)
	alice := newAccount(t)
	id := registry.NewU64Id(1)

	_, err := bs.MintToken(alice, id, nil, false)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	locked, err := bs.IsLocked(id)
	if err != nil || locked {
		t.Fatalf("fresh token locked: %t %v", locked, err)
	}

	err = bs.LockToken(id)
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	locked, err = bs.IsLocked(id)
	if err != nil || !locked {
		t.Fatalf("locked: %t %v", locked, err)
	}
	count, err := bs.LockedTokenCount()
	if err != nil || count != 1 {
		t.Fatalf("count: %d %v", count, err)
	}

	// locking twice must not inflate the counter
	err = bs.LockToken(id)
	if err != nil {
		t.Fatalf("relock: %v", err)
	}
	count, err = bs.LockedTokenCount()
	if err != nil || count != 1 {
		t.Fatalf("count after relock: %d %v", count, err)
	}
}

func TestBurnClearsLock(t *testing.T) {
	bs := newStore(t)
	alice := newAccount(t)

	for i := uint64(1); i <= 2; i++ {
		_, err := bs.MintToken(alice, registry.NewU64Id(i), nil, false)
		if err != nil {
			t.Fatalf("mint %d: %v", i, err)
		}
	}
	err := bs.LockToken(registry.NewU64Id(1))
	if err != nil {
		t.Fatalf("lock: %v", err)
	}

	// burning an unlocked token must not touch the counter
	_, err = bs.BurnToken(alice, alice, registry.NewU64Id(2))
	if err != nil {
		t.Fatalf("burn unlocked: %v", err)
	}
	count, err := bs.LockedTokenCount()
	if err != nil || count != 1 {
		t.Fatalf("count after unlocked burn: %d %v", count, err)
	}

	_, err = bs.BurnToken(alice, alice, registry.NewU64Id(1))
	if err != nil {
		t.Fatalf("burn locked: %v", err)
	}
	count, err = bs.LockedTokenCount()
	if err != nil || count != 0 {
		t.Fatalf("count after locked burn: %d %v", count, err)
	}
	locked, err := bs.IsLocked(registry.NewU64Id(1))
	if err != nil || locked {
		t.Fatalf("lock flag after burn: %t %v", locked, err)
	}
}
