package store

import (
	"time"

	"github.com/MixinNetwork/mixin/common"
	"github.com/MixinNetwork/nfr/registry"
	"github.com/dgraph-io/badger/v4"
)

const (
	prefixEventQueue = "REGISTRY:EVENT:QUEUE:"

	keyEventSequence = "REGISTRY:EVENT:SEQUENCE"
)

// UpdateContractOwner replaces the administrator account after
// checking the stored value still matches old. An empty next owner
// renounces the role.
func (bs *BadgerStore) UpdateContractOwner(old, next string) ([]*registry.Event, error) {
	var events []*registry.Event
	err := bs.db.Update(func(txn *badger.Txn) error {
		key := []byte(registry.PropertyContractOwner)
		item, err := txn.Get(key)
		if err != nil && err != badger.ErrKeyNotFound {
			return err
		}
		var current []byte
		if err == nil {
			current, err = item.ValueCopy(nil)
			if err != nil {
				return err
			}
		}
		if string(current) != old {
			return registry.ErrNotContractOwner
		}
		err = txn.Set(key, []byte(next))
		if err != nil {
			return err
		}
		events = []*registry.Event{registry.OwnershipTransferredEvent(old, next)}
		return bs.appendEvents(txn, events, time.Now())
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (bs *BadgerStore) ListEvents(limit int) ([]*registry.Event, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefixEventQueue)
	it := txn.NewIterator(opts)
	defer it.Close()

	var events []*registry.Event
	for it.Seek(opts.Prefix); it.Valid(); it.Next() {
		val, err := it.Item().ValueCopy(nil)
		if err != nil {
			return nil, err
		}
		var ev registry.Event
		err = common.MsgpackUnmarshal(val, &ev)
		if err != nil {
			return nil, err
		}
		events = append(events, &ev)
		if len(events) == limit {
			break
		}
	}
	return events, nil
}

// appendEvents writes the committed events of the enclosing mutation
// to the sequence keyed queue, inside the same transaction.
func (bs *BadgerStore) appendEvents(txn *badger.Txn, events []*registry.Event, now time.Time) error {
	if len(events) == 0 {
		return nil
	}
	seq, err := bs.readCounter(txn, keyEventSequence)
	if err != nil {
		return err
	}
	for _, ev := range events {
		ev.CreatedAt = now
		key := append([]byte(prefixEventQueue), uint64ToBytes(seq)...)
		err = txn.Set(key, common.MsgpackMarshalPanic(ev))
		if err != nil {
			return err
		}
		seq = seq + 1
	}
	return bs.writeCounter(txn, keyEventSequence, seq)
}
