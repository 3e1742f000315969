package store_test

import (
	"errors"
	"testing"

	"github.com/MixinNetwork/nfr/registry"
	"github.com/MixinNetwork/nfr/store"
)

func TestMintToken(t *testing.T) {
	bs := newStore(t)
	alice := newAccount(t)

	events, err := bs.MintToken(alice, registry.NewU64Id(1), nil, false)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if len(events) != 1 || events[0].Type != registry.EventTypeTransfer {
		t.Fatalf("mint events: %v", events)
	}
	if events[0].From != "" || events[0].To != alice {
		t.Fatalf("mint transfer sides: %v", events[0])
	}

	owner, err := bs.OwnerOf(registry.NewU64Id(1))
	if err != nil || owner != alice {
		t.Fatalf("owner of: %s %v", owner, err)
	}
	supply, err := bs.TotalSupply()
	if err != nil || supply != 1 {
		t.Fatalf("supply: %d %v", supply, err)
	}
	balance, err := bs.BalanceOf(alice)
	if err != nil || balance != 1 {
		t.Fatalf("balance: %d %v", balance, err)
	}

	_, err = bs.MintToken(alice, registry.NewU64Id(1), nil, false)
	if !errors.Is(err, registry.ErrTokenExists) {
		t.Fatalf("duplicate mint: %v", err)
	}
	_, err = bs.MintToken(alice, registry.NewU64Id(0), nil, false)
	if !errors.Is(err, registry.ErrInvalidInput) {
		t.Fatalf("zero id mint: %v", err)
	}
	_, err = bs.MintToken("", registry.NewU64Id(2), nil, false)
	if !errors.Is(err, registry.ErrInvalidInput) {
		t.Fatalf("empty owner mint: %v", err)
	}
}

func TestMintNextToken(t *testing.T) {
	bs := newStore(t)
	alice := newAccount(t)

	for i := uint64(1); i <= 3; i++ {
		id, _, err := bs.MintNextToken(alice, nil, false)
		if err != nil {
			t.Fatalf("mint next: %v", err)
		}
		if !id.Equal(registry.NewU64Id(i)) {
			t.Fatalf("mint next id: %s", id)
		}
		last, err := bs.LastTokenId()
		if err != nil || last != i {
			t.Fatalf("last token id: %d %v", last, err)
		}
	}

	attrs := []registry.Attribute{
		{Key: []byte("color"), Value: []byte("red")},
		{Key: []byte("size"), Value: []byte("tall")},
	}
	id, events, err := bs.MintNextToken(alice, attrs, false)
	if err != nil {
		t.Fatalf("mint next with attributes: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("mint events: %v", events)
	}
	val, err := bs.GetAttribute(id, []byte("color"))
	if err != nil || string(val) != "red" {
		t.Fatalf("minted attribute: %s %v", val, err)
	}
}

func TestTransferToken(t *testing.T) {
	bs := newStore(t)
	alice, bob, carol := newAccount(t), newAccount(t), newAccount(t)
	id := registry.NewU64Id(1)

	_, err := bs.TransferToken(alice, bob, id, nil)
	if !errors.Is(err, registry.ErrTokenNotExists) {
		t.Fatalf("transfer missing token: %v", err)
	}

	_, err = bs.MintToken(alice, id, nil, false)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	_, err = bs.TransferToken(bob, carol, id, nil)
	if !errors.Is(err, registry.ErrNotApproved) {
		t.Fatalf("unapproved transfer: %v", err)
	}

	events, err := bs.TransferToken(alice, bob, id, []byte("memo"))
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if events[0].From != alice || events[0].To != bob || string(events[0].Data) != "memo" {
		t.Fatalf("transfer event: %v", events[0])
	}

	owner, err := bs.OwnerOf(id)
	if err != nil || owner != bob {
		t.Fatalf("owner after transfer: %s %v", owner, err)
	}
	for owner, want := range map[string]uint64{alice: 0, bob: 1} {
		balance, err := bs.BalanceOf(owner)
		if err != nil || balance != want {
			t.Fatalf("balance %s: %d %v", owner, balance, err)
		}
	}
	supply, err := bs.TotalSupply()
	if err != nil || supply != 1 {
		t.Fatalf("supply after transfer: %d %v", supply, err)
	}
}

func TestBurnToken(t *testing.T) {
	bs := newStore(t)
	alice, bob := newAccount(t), newAccount(t)
	id := registry.NewU64Id(1)

	_, err := bs.BurnToken(alice, alice, id)
	if !errors.Is(err, registry.ErrTokenNotExists) {
		t.Fatalf("burn missing token: %v", err)
	}

	_, err = bs.MintToken(alice, id, nil, false)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	_, err = bs.BurnToken(bob, bob, id)
	if !errors.Is(err, registry.ErrNotOwner) {
		t.Fatalf("burn wrong owner: %v", err)
	}
	_, err = bs.BurnToken(bob, alice, id)
	if !errors.Is(err, registry.ErrNotApproved) {
		t.Fatalf("unapproved burn: %v", err)
	}

	events, err := bs.BurnToken(alice, alice, id)
	if err != nil {
		t.Fatalf("burn: %v", err)
	}
	if events[0].From != alice || events[0].To != "" {
		t.Fatalf("burn event: %v", events[0])
	}
	owner, err := bs.OwnerOf(id)
	if err != nil || owner != "" {
		t.Fatalf("owner after burn: %s %v", owner, err)
	}
	supply, err := bs.TotalSupply()
	if err != nil || supply != 0 {
		t.Fatalf("supply after burn: %d %v", supply, err)
	}
	balance, err := bs.BalanceOf(alice)
	if err != nil || balance != 0 {
		t.Fatalf("balance after burn: %d %v", balance, err)
	}

	_, err = bs.MintToken(alice, id, nil, false)
	if !errors.Is(err, registry.ErrTokenExists) {
		t.Fatalf("remint burned id: %v", err)
	}
	_, err = bs.MintToken(alice, id, nil, true)
	if err != nil {
		t.Fatalf("remint with policy: %v", err)
	}
}

func TestEnumeration(t *testing.T) {
	bs := newStore(t)
	alice, bob := newAccount(t), newAccount(t)

	for i := uint64(1); i <= 5; i++ {
		_, err := bs.MintToken(alice, registry.NewU64Id(i), nil, false)
		if err != nil {
			t.Fatalf("mint %d: %v", i, err)
		}
	}

	_, err := bs.TokenByIndex(5)
	if !errors.Is(err, registry.ErrTokenNotExists) {
		t.Fatalf("global index out of range: %v", err)
	}
	_, err = bs.OwnersTokenByIndex(alice, 5)
	if !errors.Is(err, registry.ErrTokenNotExists) {
		t.Fatalf("owner index out of range: %v", err)
	}

	// burning from the middle must keep the index a bijection
	_, err = bs.BurnToken(alice, alice, registry.NewU64Id(2))
	if err != nil {
		t.Fatalf("burn: %v", err)
	}
	// moving a token only touches the owner scoped index
	_, err = bs.TransferToken(alice, bob, registry.NewU64Id(3), nil)
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}

	checkEnumeration(t, bs, map[string][]uint64{
		alice: {1, 4, 5},
		bob:   {3},
	})
}

// checkEnumeration verifies that every live token appears exactly
// once in the global index and exactly once in its owner's index.
func checkEnumeration(t *testing.T, bs *store.BadgerStore, owned map[string][]uint64) {
	t.Helper()

	live := make(map[uint64]string)
	var total uint64
	for owner, ids := range owned {
		for _, id := range ids {
			live[id] = owner
		}
		total += uint64(len(ids))

		balance, err := bs.BalanceOf(owner)
		if err != nil || balance != uint64(len(ids)) {
			t.Fatalf("balance %s: %d %v", owner, balance, err)
		}
		seen := make(map[uint64]bool)
		for i := uint64(0); i < balance; i++ {
			id, err := bs.OwnersTokenByIndex(owner, i)
			if err != nil {
				t.Fatalf("owner token by index %d: %v", i, err)
			}
			if seen[id.Num] {
				t.Fatalf("owner index duplicate %s", id)
			}
			seen[id.Num] = true
		}
		for _, id := range ids {
			if !seen[id] {
				t.Fatalf("owner index missing %d", id)
			}
		}
	}

	supply, err := bs.TotalSupply()
	if err != nil || supply != total {
		t.Fatalf("supply: %d %v", supply, err)
	}
	seen := make(map[uint64]bool)
	for i := uint64(0); i < supply; i++ {
		id, err := bs.TokenByIndex(i)
		if err != nil {
			t.Fatalf("token by index %d: %v", i, err)
		}
		if seen[id.Num] {
			t.Fatalf("global index duplicate %s", id)
		}
		seen[id.Num] = true
		owner, err := bs.OwnerOf(id)
		if err != nil || owner != live[id.Num] {
			t.Fatalf("owner of %s: %s %v", id, owner, err)
		}
	}
}
