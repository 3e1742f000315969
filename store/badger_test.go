package store_test

import (
	"context"
	"testing"

	"github.com/MixinNetwork/nfr/store"
	"github.com/gofrs/uuid"
)

func newStore(t *testing.T) *store.BadgerStore {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	bs, err := store.OpenBadger(ctx, t.TempDir())
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	t.Cleanup(func() {
		cancel()
		bs.Close()
	})
	return bs
}

func newAccount(t *testing.T) string {
	t.Helper()
	id, err := uuid.NewV4()
	if err != nil {
		t.Fatalf("uuid: %v", err)
	}
	return id.String()
}

func TestProperty(t *testing.T) {
	bs := newStore(t)

	val, err := bs.ReadProperty([]byte("missing"))
	if err != nil || val != nil {
		t.Fatalf("read missing property: %v %v", val, err)
	}
	err = bs.WriteProperty([]byte("key"), []byte("val"))
	if err != nil {
		t.Fatalf("write property: %v", err)
	}
	val, err = bs.ReadProperty([]byte("key"))
	if err != nil || string(val) != "val" {
		t.Fatalf("read property: %s %v", val, err)
	}
}
