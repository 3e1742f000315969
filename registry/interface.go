package registry

// Attribute is one (name, value) metadata pair attached to a token.
type Attribute struct {
	Key   []byte
	Value []byte
}

// Store is the persistence contract of the registry. Every mutating
// operation validates its preconditions and applies all of its writes
// inside one storage transaction, so a returned error means the state
// is exactly as it was before the call.
type Store interface {
	WriteProperty(key, val []byte) error
	ReadProperty(key []byte) ([]byte, error)

	MintToken(owner string, id Id, attrs []Attribute, allowRemint bool) ([]*Event, error)
	MintNextToken(owner string, attrs []Attribute, allowRemint bool) (Id, []*Event, error)
	TransferToken(caller, to string, id Id, payload []byte) ([]*Event, error)
	BurnToken(caller, owner string, id Id) ([]*Event, error)

	SetApproval(caller, operator string, id *Id, approved bool) ([]*Event, error)
	Allowance(owner, operator string, id *Id) (bool, error)

	OwnerOf(id Id) (string, error)
	BalanceOf(owner string) (uint64, error)
	TotalSupply() (uint64, error)
	LastTokenId() (uint64, error)
	TokenByIndex(index uint64) (Id, error)
	OwnersTokenByIndex(owner string, index uint64) (Id, error)

	SetCollectionAttribute(key, value []byte) ([]*Event, error)
	SetTokenAttributes(id Id, attrs []Attribute) ([]*Event, error)
	GetAttribute(id Id, key []byte) ([]byte, error)
	AttributeCount() (uint32, error)
	AttributeName(index uint32) ([]byte, error)

	LockToken(id Id) error
	IsLocked(id Id) (bool, error)
	LockedTokenCount() (uint64, error)

	UpdateContractOwner(old, next string) ([]*Event, error)
	ListEvents(limit int) ([]*Event, error)
}
