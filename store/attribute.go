package store

import (
	"encoding/hex"
	"math"
	"time"

	"github.com/MixinNetwork/nfr/registry"
	"github.com/dgraph-io/badger/v4"
)

const (
	prefixAttributeValue = "REGISTRY:ATTRIBUTE:VALUE:"
	prefixAttributeName  = "REGISTRY:ATTRIBUTE:NAME:"
	prefixAttributeSeen  = "REGISTRY:ATTRIBUTE:SEEN:"

	keyAttributeCount = "REGISTRY:ATTRIBUTE:COUNT"
)

// SetCollectionAttribute upserts a collection-level attribute on the
// reserved pseudo-token, bypassing the guards of SetTokenAttributes.
func (bs *BadgerStore) SetCollectionAttribute(key, value []byte) ([]*registry.Event, error) {
	if len(key) == 0 {
		return nil, registry.ErrInvalidInput
	}
	var events []*registry.Event
	err := bs.db.Update(func(txn *badger.Txn) error {
		ev, err := bs.setAttribute(txn, registry.CollectionToken(), key, value)
		if err != nil {
			return err
		}
		events = []*registry.Event{ev}
		return bs.appendEvents(txn, events, time.Now())
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

// SetTokenAttributes applies all pairs in one transaction; a failing
// pair discards every prior write of the batch.
func (bs *BadgerStore) SetTokenAttributes(id registry.Id, attrs []registry.Attribute) ([]*registry.Event, error) {
	if id.Validate() != nil || id.IsZeroInteger() {
		return nil, registry.ErrInvalidInput
	}
	var events []*registry.Event
	err := bs.db.Update(func(txn *badger.Txn) error {
		locked, err := bs.isLocked(txn, id)
		if err != nil {
			return err
		}
		if locked {
			return registry.ErrLocked
		}
		events = make([]*registry.Event, 0, len(attrs))
		for _, attr := range attrs {
			if len(attr.Key) == 0 {
				return registry.ErrInvalidInput
			}
			ev, err := bs.setAttribute(txn, id, attr.Key, attr.Value)
			if err != nil {
				return err
			}
			events = append(events, ev)
		}
		return bs.appendEvents(txn, events, time.Now())
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (bs *BadgerStore) GetAttribute(id registry.Id, key []byte) ([]byte, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	item, err := txn.Get(attributeValueKey(id, key))
	if err == badger.ErrKeyNotFound {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

func (bs *BadgerStore) AttributeCount() (uint32, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	return bs.readCounter32(txn, keyAttributeCount)
}

// AttributeName resolves a 1-based interning index, nil if the index
// was never assigned.
func (bs *BadgerStore) AttributeName(index uint32) ([]byte, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	item, err := txn.Get(attributeNameKey(index))
	if err == badger.ErrKeyNotFound {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

// setAttribute upserts one value and interns the name the first time
// it is seen. The interning and the value write commit or fail as one
// unit with the enclosing transaction.
func (bs *BadgerStore) setAttribute(txn *badger.Txn, id registry.Id, key, value []byte) (*registry.Event, error) {
	err := bs.internAttributeName(txn, key)
	if err != nil {
		return nil, err
	}
	err = txn.Set(attributeValueKey(id, key), value)
	if err != nil {
		return nil, err
	}
	return registry.AttributeSetEvent(id, key, value), nil
}

func (bs *BadgerStore) internAttributeName(txn *badger.Txn, name []byte) error {
	seen, err := bs.hasKey(txn, attributeSeenKey(name))
	if err != nil || seen {
		return err
	}
	count, err := bs.readCounter32(txn, keyAttributeCount)
	if err != nil {
		return err
	}
	if count == math.MaxUint32 {
		return registry.ErrAttributeNameOverflow
	}
	err = txn.Set(attributeNameKey(count+1), name)
	if err != nil {
		return err
	}
	err = txn.Set(attributeSeenKey(name), []byte{1})
	if err != nil {
		return err
	}
	return bs.writeCounter32(txn, keyAttributeCount, count+1)
}

func attributeValueKey(id registry.Id, name []byte) []byte {
	key := []byte(prefixAttributeValue + hex.EncodeToString(id.Key()) + ":")
	return append(key, name...)
}

func attributeNameKey(index uint32) []byte {
	return append([]byte(prefixAttributeName), uint32ToBytes(index)...)
}

func attributeSeenKey(name []byte) []byte {
	return append([]byte(prefixAttributeSeen), name...)
}
