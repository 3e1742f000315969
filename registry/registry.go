package registry

import (
	"strconv"
	"unicode/utf8"

	"github.com/gofrs/uuid"
)

// Reserved collection-level attribute names, stored on the
// pseudo-token at bootstrap.
var (
	CollectionName    = []byte("name")
	CollectionSymbol  = []byte("symbol")
	CollectionBaseURI = []byte("baseURI")
)

// Registry is the top-level aggregate exposing the token ledger,
// approvals, enumeration, attributes and locks to the entry layer. It
// delegates every mutation to a single Store transaction and adds the
// contract-owner gating on top.
type Registry struct {
	store       Store
	collection  Id
	allowRemint bool
}

// BuildRegistry opens the registry over an existing store. The first
// boot seeds the contract owner, mints a collection id and writes the
// name, symbol and base URI attributes of the collection pseudo-token.
func BuildRegistry(store Store, conf *Configuration) (*Registry, error) {
	r := &Registry{
		store:       store,
		allowRemint: conf.Registry.AllowRemint,
	}

	cid, err := store.ReadProperty([]byte(PropertyCollectionId))
	if err != nil {
		return nil, err
	}
	if len(cid) > 0 {
		r.collection = NewBytesId(cid)
		return r, nil
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	err = store.WriteProperty([]byte(PropertyContractOwner), []byte(conf.Registry.Owner))
	if err != nil {
		return nil, err
	}
	_, err = store.SetCollectionAttribute(CollectionName, []byte(conf.Registry.Name))
	if err != nil {
		return nil, err
	}
	_, err = store.SetCollectionAttribute(CollectionSymbol, []byte(conf.Registry.Symbol))
	if err != nil {
		return nil, err
	}
	if conf.Registry.BaseURI != "" {
		_, err = store.SetCollectionAttribute(CollectionBaseURI, []byte(conf.Registry.BaseURI))
		if err != nil {
			return nil, err
		}
	}
	err = store.WriteProperty([]byte(PropertyCollectionId), id.Bytes())
	if err != nil {
		return nil, err
	}
	r.collection = NewBytesId(id.Bytes())
	return r, nil
}

// Mint issues the next sequential u64 token to the contract owner.
func (r *Registry) Mint(caller string) ([]*Event, error) {
	if err := r.checkContractOwner(caller); err != nil {
		return nil, err
	}
	_, events, err := r.store.MintNextToken(caller, nil, r.allowRemint)
	return events, err
}

// MintWithAttributes issues the next sequential u64 token and tags it
// with the given attributes, all in one transaction.
func (r *Registry) MintWithAttributes(caller string, attrs []Attribute) ([]*Event, error) {
	if err := r.checkContractOwner(caller); err != nil {
		return nil, err
	}
	for _, a := range attrs {
		if len(a.Key) == 0 {
			return nil, ErrInvalidInput
		}
	}
	_, events, err := r.store.MintNextToken(caller, attrs, r.allowRemint)
	return events, err
}

func (r *Registry) Transfer(caller, to string, id Id, payload []byte) ([]*Event, error) {
	if to == "" {
		return nil, ErrInvalidInput
	}
	if err := id.Validate(); err != nil {
		return nil, ErrInvalidInput
	}
	return r.store.TransferToken(caller, to, id, payload)
}

func (r *Registry) Approve(caller, operator string, id *Id, approved bool) ([]*Event, error) {
	if operator == "" {
		return nil, ErrInvalidInput
	}
	return r.store.SetApproval(caller, operator, id, approved)
}

func (r *Registry) Burn(caller, owner string, id Id) ([]*Event, error) {
	return r.store.BurnToken(caller, owner, id)
}

func (r *Registry) OwnerOf(id Id) (string, error) {
	return r.store.OwnerOf(id)
}

func (r *Registry) BalanceOf(owner string) (uint64, error) {
	return r.store.BalanceOf(owner)
}

func (r *Registry) Allowance(owner, operator string, id *Id) (bool, error) {
	return r.store.Allowance(owner, operator, id)
}

func (r *Registry) TotalSupply() (uint64, error) {
	return r.store.TotalSupply()
}

// CollectionId returns the registry's own identity, minted once at
// bootstrap, as an Identifier.
func (r *Registry) CollectionId() Id {
	return r.collection
}

func (r *Registry) GetLastTokenId() (uint64, error) {
	return r.store.LastTokenId()
}

func (r *Registry) TokenByIndex(index uint64) (Id, error) {
	return r.store.TokenByIndex(index)
}

func (r *Registry) OwnersTokenByIndex(owner string, index uint64) (Id, error) {
	return r.store.OwnersTokenByIndex(owner, index)
}

func (r *Registry) SetBaseURI(caller, uri string) ([]*Event, error) {
	if err := r.checkContractOwner(caller); err != nil {
		return nil, err
	}
	return r.store.SetCollectionAttribute(CollectionBaseURI, []byte(uri))
}

func (r *Registry) SetMultipleAttributes(caller string, id Id, attrs []Attribute) ([]*Event, error) {
	if err := r.checkContractOwner(caller); err != nil {
		return nil, err
	}
	return r.store.SetTokenAttributes(id, attrs)
}

func (r *Registry) GetAttribute(id Id, key []byte) ([]byte, error) {
	return r.store.GetAttribute(id, key)
}

// GetAttributes resolves each requested name to its stored value as
// text, or the empty string when the attribute is unset or not valid
// UTF-8. Missing names never fail the call.
func (r *Registry) GetAttributes(id Id, names []string) ([]string, error) {
	values := make([]string, len(names))
	for i, name := range names {
		val, err := r.store.GetAttribute(id, []byte(name))
		if err != nil {
			return nil, err
		}
		if utf8.Valid(val) {
			values[i] = string(val)
		}
	}
	return values, nil
}

func (r *Registry) GetAttributeCount() (uint32, error) {
	return r.store.AttributeCount()
}

// GetAttributeName returns the interned name at the given 1-based
// index, or the empty string when the index is out of range.
func (r *Registry) GetAttributeName(index uint32) (string, error) {
	name, err := r.store.AttributeName(index)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(name) {
		return "", nil
	}
	return string(name), nil
}

// TokenURI composes the metadata location of a token from the
// collection base URI, the decimal token id and a ".json" suffix.
func (r *Registry) TokenURI(tokenId uint64) (string, error) {
	base, err := r.store.GetAttribute(CollectionToken(), CollectionBaseURI)
	if err != nil {
		return "", err
	}
	uri := ""
	if utf8.Valid(base) {
		uri = string(base)
	}
	return uri + strconv.FormatUint(tokenId, 10) + ".json", nil
}

// Lock freezes the attributes of a token until it is burned. Only the
// current token owner may lock it.
func (r *Registry) Lock(caller string, id Id) error {
	owner, err := r.store.OwnerOf(id)
	if err != nil {
		return err
	}
	if owner == "" {
		return ErrTokenNotExists
	}
	if owner != caller {
		return ErrNotOwner
	}
	return r.store.LockToken(id)
}

func (r *Registry) IsLocked(id Id) (bool, error) {
	return r.store.IsLocked(id)
}

func (r *Registry) GetLockedTokenCount() (uint64, error) {
	return r.store.LockedTokenCount()
}

func (r *Registry) ListEvents(limit int) ([]*Event, error) {
	return r.store.ListEvents(limit)
}
