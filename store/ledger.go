package store

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/MixinNetwork/mixin/common"
	"github.com/MixinNetwork/nfr/registry"
	"github.com/dgraph-io/badger/v4"
)

const (
	prefixTokenPayload   = "REGISTRY:TOKEN:PAYLOAD:"
	prefixTokenBurned    = "REGISTRY:TOKEN:BURNED:"
	prefixAccountBalance = "REGISTRY:ACCOUNT:BALANCE:"
	prefixEnumAllToken   = "REGISTRY:ENUM:ALL:TOKEN:"
	prefixEnumAllIndex   = "REGISTRY:ENUM:ALL:INDEX:"
	prefixEnumOwnerToken = "REGISTRY:ENUM:OWNER:TOKEN:"
	prefixEnumOwnerIndex = "REGISTRY:ENUM:OWNER:INDEX:"

	keyTotalSupply = "REGISTRY:TOKEN:SUPPLY"
	keyLastTokenId = "REGISTRY:TOKEN:LAST"
)

type Token struct {
	Id        registry.Id
	Owner     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (bs *BadgerStore) MintToken(owner string, id registry.Id, attrs []registry.Attribute, allowRemint bool) ([]*registry.Event, error) {
	var events []*registry.Event
	err := bs.db.Update(func(txn *badger.Txn) error {
		var err error
		events, err = bs.mintToken(txn, owner, id, attrs, allowRemint, time.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (bs *BadgerStore) MintNextToken(owner string, attrs []registry.Attribute, allowRemint bool) (registry.Id, []*registry.Event, error) {
	var id registry.Id
	var events []*registry.Event
	err := bs.db.Update(func(txn *badger.Txn) error {
		last, err := bs.readCounter(txn, keyLastTokenId)
		if err != nil {
			return err
		}
		if last == math.MaxUint64 {
			return fmt.Errorf("cannot increase last token id %d", last)
		}
		err = bs.writeCounter(txn, keyLastTokenId, last+1)
		if err != nil {
			return err
		}
		id = registry.NewU64Id(last + 1)
		events, err = bs.mintToken(txn, owner, id, attrs, allowRemint, time.Now())
		return err
	})
	if err != nil {
		return registry.Id{}, nil, err
	}
	return id, events, nil
}

func (bs *BadgerStore) TransferToken(caller, to string, id registry.Id, payload []byte) ([]*registry.Event, error) {
	var events []*registry.Event
	err := bs.db.Update(func(txn *badger.Txn) error {
		var err error
		events, err = bs.transferToken(txn, caller, to, id, payload, time.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (bs *BadgerStore) BurnToken(caller, owner string, id registry.Id) ([]*registry.Event, error) {
	var events []*registry.Event
	err := bs.db.Update(func(txn *badger.Txn) error {
		var err error
		events, err = bs.burnToken(txn, caller, owner, id, time.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (bs *BadgerStore) OwnerOf(id registry.Id) (string, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	token, err := bs.readToken(txn, id)
	if err != nil || token == nil {
		return "", err
	}
	return token.Owner, nil
}

func (bs *BadgerStore) BalanceOf(owner string) (uint64, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	return bs.readBalance(txn, owner)
}

func (bs *BadgerStore) TotalSupply() (uint64, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	return bs.readCounter(txn, keyTotalSupply)
}

func (bs *BadgerStore) LastTokenId() (uint64, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	return bs.readCounter(txn, keyLastTokenId)
}

func (bs *BadgerStore) TokenByIndex(index uint64) (registry.Id, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	supply, err := bs.readCounter(txn, keyTotalSupply)
	if err != nil {
		return registry.Id{}, err
	}
	if index >= supply {
		return registry.Id{}, registry.ErrTokenNotExists
	}
	return bs.readIndexedId(txn, globalTokenKey(index))
}

func (bs *BadgerStore) OwnersTokenByIndex(owner string, index uint64) (registry.Id, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	balance, err := bs.readBalance(txn, owner)
	if err != nil {
		return registry.Id{}, err
	}
	if index >= balance {
		return registry.Id{}, registry.ErrTokenNotExists
	}
	return bs.readIndexedId(txn, ownerTokenKey(owner, index))
}

func (bs *BadgerStore) mintToken(txn *badger.Txn, owner string, id registry.Id, attrs []registry.Attribute, allowRemint bool, now time.Time) ([]*registry.Event, error) {
	if owner == "" || id.Validate() != nil || id.IsZeroInteger() {
		return nil, registry.ErrInvalidInput
	}
	old, err := bs.readToken(txn, id)
	if err != nil {
		return nil, err
	}
	if old != nil {
		return nil, registry.ErrTokenExists
	}
	if !allowRemint {
		burned, err := bs.hasKey(txn, burnedKey(id))
		if err != nil {
			return nil, err
		}
		if burned {
			return nil, registry.ErrTokenExists
		}
	}

	err = bs.appendGlobalToken(txn, id)
	if err != nil {
		return nil, err
	}
	err = bs.appendOwnerToken(txn, owner, id)
	if err != nil {
		return nil, err
	}
	err = bs.writeToken(txn, &Token{
		Id:        id,
		Owner:     owner,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	events := []*registry.Event{registry.TransferEvent("", owner, id, nil)}
	for _, attr := range attrs {
		ev, err := bs.setAttribute(txn, id, attr.Key, attr.Value)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	err = bs.appendEvents(txn, events, now)
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (bs *BadgerStore) transferToken(txn *badger.Txn, caller, to string, id registry.Id, payload []byte, now time.Time) ([]*registry.Event, error) {
	token, err := bs.readToken(txn, id)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, registry.ErrTokenNotExists
	}
	owner := token.Owner
	if caller != owner {
		approved, err := bs.allowance(txn, owner, caller, &id)
		if err != nil {
			return nil, err
		}
		if !approved {
			return nil, registry.ErrNotApproved
		}
	}

	// the per-token approvals must not survive the ownership change
	err = bs.clearTokenApprovals(txn, owner, id)
	if err != nil {
		return nil, err
	}
	err = bs.removeOwnerToken(txn, owner, id)
	if err != nil {
		return nil, err
	}
	err = bs.appendOwnerToken(txn, to, id)
	if err != nil {
		return nil, err
	}
	token.Owner = to
	token.UpdatedAt = now
	err = bs.writeToken(txn, token)
	if err != nil {
		return nil, err
	}

	events := []*registry.Event{registry.TransferEvent(owner, to, id, payload)}
	err = bs.appendEvents(txn, events, now)
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (bs *BadgerStore) burnToken(txn *badger.Txn, caller, owner string, id registry.Id, now time.Time) ([]*registry.Event, error) {
	token, err := bs.readToken(txn, id)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, registry.ErrTokenNotExists
	}
	if token.Owner != owner {
		return nil, registry.ErrNotOwner
	}
	if caller != owner {
		approved, err := bs.allowance(txn, owner, caller, &id)
		if err != nil {
			return nil, err
		}
		if !approved {
			return nil, registry.ErrNotApproved
		}
	}

	err = bs.clearTokenApprovals(txn, owner, id)
	if err != nil {
		return nil, err
	}
	err = bs.removeOwnerToken(txn, owner, id)
	if err != nil {
		return nil, err
	}
	err = bs.removeGlobalToken(txn, id)
	if err != nil {
		return nil, err
	}
	err = bs.unlockBurnedToken(txn, id)
	if err != nil {
		return nil, err
	}
	err = txn.Delete(tokenPayloadKey(id))
	if err != nil {
		return nil, err
	}
	err = txn.Set(burnedKey(id), []byte{1})
	if err != nil {
		return nil, err
	}

	events := []*registry.Event{registry.TransferEvent(owner, "", id, nil)}
	err = bs.appendEvents(txn, events, now)
	if err != nil {
		return nil, err
	}
	return events, nil
}

// appendGlobalToken inserts the id at the tail of the global
// enumeration index and bumps the supply, which is by definition the
// length of that index.
func (bs *BadgerStore) appendGlobalToken(txn *badger.Txn, id registry.Id) error {
	supply, err := bs.readCounter(txn, keyTotalSupply)
	if err != nil {
		return err
	}
	if supply == math.MaxUint64 {
		return registry.ErrSupplyOverflow
	}
	err = txn.Set(globalTokenKey(supply), id.Key())
	if err != nil {
		return err
	}
	err = txn.Set(globalIndexKey(id), uint64ToBytes(supply))
	if err != nil {
		return err
	}
	return bs.writeCounter(txn, keyTotalSupply, supply+1)
}

func (bs *BadgerStore) removeGlobalToken(txn *badger.Txn, id registry.Id) error {
	supply, err := bs.readCounter(txn, keyTotalSupply)
	if err != nil {
		return err
	}
	if supply == 0 {
		return registry.ErrTokenNotExists
	}
	index, err := bs.readIndex(txn, globalIndexKey(id))
	if err != nil {
		return err
	}
	last := supply - 1
	if index != last {
		lastId, err := bs.readIndexedId(txn, globalTokenKey(last))
		if err != nil {
			return err
		}
		err = txn.Set(globalTokenKey(index), lastId.Key())
		if err != nil {
			return err
		}
		err = txn.Set(globalIndexKey(lastId), uint64ToBytes(index))
		if err != nil {
			return err
		}
	}
	err = txn.Delete(globalTokenKey(last))
	if err != nil {
		return err
	}
	err = txn.Delete(globalIndexKey(id))
	if err != nil {
		return err
	}
	return bs.writeCounter(txn, keyTotalSupply, last)
}

// appendOwnerToken inserts the id at the tail of the owner enumeration
// index and bumps the owner balance, which is by definition the length
// of that index.
func (bs *BadgerStore) appendOwnerToken(txn *badger.Txn, owner string, id registry.Id) error {
	balance, err := bs.readBalance(txn, owner)
	if err != nil {
		return err
	}
	err = txn.Set(ownerTokenKey(owner, balance), id.Key())
	if err != nil {
		return err
	}
	err = txn.Set(ownerIndexKey(owner, id), uint64ToBytes(balance))
	if err != nil {
		return err
	}
	return txn.Set(balanceKey(owner), uint64ToBytes(balance+1))
}

func (bs *BadgerStore) removeOwnerToken(txn *badger.Txn, owner string, id registry.Id) error {
	balance, err := bs.readBalance(txn, owner)
	if err != nil {
		return err
	}
	if balance == 0 {
		return registry.ErrTokenNotExists
	}
	index, err := bs.readIndex(txn, ownerIndexKey(owner, id))
	if err != nil {
		return err
	}
	last := balance - 1
	if index != last {
		lastId, err := bs.readIndexedId(txn, ownerTokenKey(owner, last))
		if err != nil {
			return err
		}
		err = txn.Set(ownerTokenKey(owner, index), lastId.Key())
		if err != nil {
			return err
		}
		err = txn.Set(ownerIndexKey(owner, lastId), uint64ToBytes(index))
		if err != nil {
			return err
		}
	}
	err = txn.Delete(ownerTokenKey(owner, last))
	if err != nil {
		return err
	}
	err = txn.Delete(ownerIndexKey(owner, id))
	if err != nil {
		return err
	}
	return txn.Set(balanceKey(owner), uint64ToBytes(last))
}

func (bs *BadgerStore) readToken(txn *badger.Txn, id registry.Id) (*Token, error) {
	item, err := txn.Get(tokenPayloadKey(id))
	if err == badger.ErrKeyNotFound {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return nil, err
	}
	var token Token
	err = common.MsgpackUnmarshal(val, &token)
	return &token, err
}

func (bs *BadgerStore) writeToken(txn *badger.Txn, token *Token) error {
	val := common.MsgpackMarshalPanic(token)
	return txn.Set(tokenPayloadKey(token.Id), val)
}

func (bs *BadgerStore) readBalance(txn *badger.Txn, owner string) (uint64, error) {
	return bs.readCounter(txn, prefixAccountBalance+owner)
}

func (bs *BadgerStore) readIndex(txn *badger.Txn, key []byte) (uint64, error) {
	item, err := txn.Get(key)
	if err != nil {
		return 0, err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(val), nil
}

func (bs *BadgerStore) readIndexedId(txn *badger.Txn, key []byte) (registry.Id, error) {
	item, err := txn.Get(key)
	if err != nil {
		return registry.Id{}, err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return registry.Id{}, err
	}
	return registry.IdFromKey(val)
}

func tokenPayloadKey(id registry.Id) []byte {
	return append([]byte(prefixTokenPayload), id.Key()...)
}

func burnedKey(id registry.Id) []byte {
	return append([]byte(prefixTokenBurned), id.Key()...)
}

func balanceKey(owner string) []byte {
	return []byte(prefixAccountBalance + owner)
}

func globalTokenKey(index uint64) []byte {
	return append([]byte(prefixEnumAllToken), uint64ToBytes(index)...)
}

func globalIndexKey(id registry.Id) []byte {
	return append([]byte(prefixEnumAllIndex), id.Key()...)
}

func ownerTokenKey(owner string, index uint64) []byte {
	key := []byte(prefixEnumOwnerToken + owner + ":")
	return append(key, uint64ToBytes(index)...)
}

func ownerIndexKey(owner string, id registry.Id) []byte {
	key := []byte(prefixEnumOwnerIndex + owner + ":")
	return append(key, id.Key()...)
}
