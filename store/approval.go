package store

import (
	"encoding/hex"
	"time"

	"github.com/MixinNetwork/nfr/registry"
	"github.com/dgraph-io/badger/v4"
)

const (
	prefixApprovalAll   = "REGISTRY:APPROVAL:ALL:"
	prefixApprovalToken = "REGISTRY:APPROVAL:TOKEN:"
)

func (bs *BadgerStore) SetApproval(caller, operator string, id *registry.Id, approved bool) ([]*registry.Event, error) {
	var events []*registry.Event
	err := bs.db.Update(func(txn *badger.Txn) error {
		var err error
		events, err = bs.setApproval(txn, caller, operator, id, approved, time.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (bs *BadgerStore) Allowance(owner, operator string, id *registry.Id) (bool, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	return bs.allowance(txn, owner, operator, id)
}

func (bs *BadgerStore) setApproval(txn *badger.Txn, caller, operator string, id *registry.Id, approved bool, now time.Time) ([]*registry.Event, error) {
	if operator == caller {
		return nil, registry.ErrSelfApprove
	}

	if id == nil {
		err := bs.writeApprovalFlag(txn, approvalAllKey(caller, operator), approved)
		if err != nil {
			return nil, err
		}
		events := []*registry.Event{registry.ApprovalEvent(caller, operator, nil, approved)}
		err = bs.appendEvents(txn, events, now)
		if err != nil {
			return nil, err
		}
		return events, nil
	}

	token, err := bs.readToken(txn, *id)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, registry.ErrTokenNotExists
	}
	if token.Owner != caller {
		authorized, err := bs.allowance(txn, token.Owner, caller, nil)
		if err != nil {
			return nil, err
		}
		if !authorized {
			return nil, registry.ErrNotApproved
		}
	}
	err = bs.writeApprovalFlag(txn, approvalTokenKey(token.Owner, *id, operator), approved)
	if err != nil {
		return nil, err
	}
	events := []*registry.Event{registry.ApprovalEvent(caller, operator, id, approved)}
	err = bs.appendEvents(txn, events, now)
	if err != nil {
		return nil, err
	}
	return events, nil
}

// allowance evaluates the authorization relations only; the owner
// itself is checked by the caller where ownership implies authority.
func (bs *BadgerStore) allowance(txn *badger.Txn, owner, operator string, id *registry.Id) (bool, error) {
	all, err := bs.hasKey(txn, approvalAllKey(owner, operator))
	if err != nil || all {
		return all, err
	}
	if id == nil {
		return false, nil
	}
	return bs.hasKey(txn, approvalTokenKey(owner, *id, operator))
}

func (bs *BadgerStore) clearTokenApprovals(txn *badger.Txn, owner string, id registry.Id) error {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = approvalTokenPrefix(owner, id)
	it := txn.NewIterator(opts)

	var keys [][]byte
	for it.Seek(opts.Prefix); it.Valid(); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	it.Close()

	for _, key := range keys {
		err := txn.Delete(key)
		if err != nil {
			return err
		}
	}
	return nil
}

func (bs *BadgerStore) writeApprovalFlag(txn *badger.Txn, key []byte, approved bool) error {
	if approved {
		return txn.Set(key, []byte{1})
	}
	err := txn.Delete(key)
	if err == badger.ErrKeyNotFound {
		return nil
	}
	return err
}

func approvalAllKey(owner, operator string) []byte {
	return []byte(prefixApprovalAll + owner + ":" + operator)
}

// the id is hex encoded so that a Bytes variant can never produce a
// key colliding with another id under the same prefix
func approvalTokenPrefix(owner string, id registry.Id) []byte {
	return []byte(prefixApprovalToken + owner + ":" + hex.EncodeToString(id.Key()) + ":")
}

func approvalTokenKey(owner string, id registry.Id, operator string) []byte {
	return append(approvalTokenPrefix(owner, id), operator...)
}
