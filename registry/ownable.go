package registry

import (
	"github.com/gofrs/uuid"
)

const (
	PropertyContractOwner = "REGISTRY:COLLECTION:OWNER"
	PropertyCollectionId  = "REGISTRY:COLLECTION:ID"
)

// ContractOwner returns the current administrator account, or the
// empty string after ownership has been renounced.
func (r *Registry) ContractOwner() (string, error) {
	val, err := r.store.ReadProperty([]byte(PropertyContractOwner))
	return string(val), err
}

func (r *Registry) IsContractOwner(caller string) (bool, error) {
	owner, err := r.ContractOwner()
	if err != nil {
		return false, err
	}
	return owner != "" && owner == caller, nil
}

func (r *Registry) checkContractOwner(caller string) error {
	ok, err := r.IsContractOwner(caller)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotContractOwner
	}
	return nil
}

func (r *Registry) TransferContractOwnership(caller, newOwner string) ([]*Event, error) {
	if err := r.checkContractOwner(caller); err != nil {
		return nil, err
	}
	if _, err := uuid.FromString(newOwner); err != nil {
		return nil, ErrInvalidInput
	}
	return r.store.UpdateContractOwner(caller, newOwner)
}

func (r *Registry) RenounceContractOwnership(caller string) ([]*Event, error) {
	if err := r.checkContractOwner(caller); err != nil {
		return nil, err
	}
	return r.store.UpdateContractOwner(caller, "")
}
