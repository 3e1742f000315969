package registry

import "errors"

var (
	ErrTokenNotExists        = errors.New("token not exists")
	ErrTokenExists           = errors.New("token exists")
	ErrNotApproved           = errors.New("caller is not token owner or approved")
	ErrSelfApprove           = errors.New("self approve")
	ErrNotOwner              = errors.New("not token owner")
	ErrInvalidInput          = errors.New("invalid input")
	ErrSupplyOverflow        = errors.New("supply overflow")
	ErrAttributeNameOverflow = errors.New("attribute name overflow")
	ErrLockCountOverflow     = errors.New("lock count overflow")
	ErrLockCountUnderflow    = errors.New("lock count underflow")
	ErrLocked                = errors.New("token is locked")

	ErrNotContractOwner = errors.New("caller is not the contract owner")
)
