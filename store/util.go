package store

import (
	"encoding/binary"

	"github.com/dgraph-io/badger/v4"
)

func uint64ToBytes(d uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, d)
	return buf
}

func uint32ToBytes(d uint32) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, d)
	return buf
}

func (bs *BadgerStore) readCounter(txn *badger.Txn, key string) (uint64, error) {
	item, err := txn.Get([]byte(key))
	if err == badger.ErrKeyNotFound {
		return 0, nil
	} else if err != nil {
		return 0, err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(val), nil
}

func (bs *BadgerStore) writeCounter(txn *badger.Txn, key string, val uint64) error {
	return txn.Set([]byte(key), uint64ToBytes(val))
}

func (bs *BadgerStore) readCounter32(txn *badger.Txn, key string) (uint32, error) {
	item, err := txn.Get([]byte(key))
	if err == badger.ErrKeyNotFound {
		return 0, nil
	} else if err != nil {
		return 0, err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(val), nil
}

func (bs *BadgerStore) writeCounter32(txn *badger.Txn, key string, val uint32) error {
	return txn.Set([]byte(key), uint32ToBytes(val))
}

func (bs *BadgerStore) hasKey(txn *badger.Txn, key []byte) (bool, error) {
	_, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return true, nil
}
