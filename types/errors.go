package types

import (
	"errors"

	errorsmod "cosmossdk.io/errors"
)

// ModuleName is the codespace of every error registered by the beacon.
const ModuleName = "beacon"

var (
	// ErrInvalidTicket the ticket value does not match its inputs or the
	// virtual index exceeds the owner's weight
	ErrInvalidTicket = errorsmod.Register(ModuleName, 2, "invalid ticket")
	// ErrWindowClosed the ticket submission window of the request is closed
	ErrWindowClosed = errorsmod.Register(ModuleName, 3, "ticket submission window closed")
	// ErrPoolEmpty no ticket has been retained so no group can be selected
	ErrPoolEmpty = errorsmod.Register(ModuleName, 4, "sortition pool is empty")
	// ErrAlreadyFinalized a DKG result has already been accepted for the request
	ErrAlreadyFinalized = errorsmod.Register(ModuleName, 5, "dkg result already submitted")
	// ErrNotSelected the caller is not the group member at the claimed index
	ErrNotSelected = errorsmod.Register(ModuleName, 6, "submitter not selected")
	// ErrTooEarly the claimed member index is not eligible at the current block
	ErrTooEarly = errorsmod.Register(ModuleName, 7, "submitter not eligible yet")
	// ErrInvalidIndex a signing member index is out of range or repeated
	ErrInvalidIndex = errorsmod.Register(ModuleName, 8, "invalid signing member index")
	// ErrSignatureMismatch a signature does not recover to the member at its index
	ErrSignatureMismatch = errorsmod.Register(ModuleName, 9, "signature mismatch")
	// ErrQuorumNotMet fewer valid signatures than the group threshold
	ErrQuorumNotMet = errorsmod.Register(ModuleName, 10, "signature quorum not met")
	// ErrGroupNotSelected the request has no selected group yet
	ErrGroupNotSelected = errorsmod.Register(ModuleName, 11, "group not selected yet")
	// ErrUnknownRequest no group request exists with the given id
	ErrUnknownRequest = errorsmod.Register(ModuleName, 12, "unknown group request")
	// ErrDuplicateRequest a group request with the given id already exists
	ErrDuplicateRequest = errorsmod.Register(ModuleName, 13, "group request already exists")
	// ErrInvalidParams the group parameters are not consistent
	ErrInvalidParams = errorsmod.Register(ModuleName, 14, "invalid group parameters")
	// ErrResultNotSubmitted no DKG result has been accepted for the request yet
	ErrResultNotSubmitted = errorsmod.Register(ModuleName, 15, "dkg result not submitted yet")
)

// ErrorClass groups rejections by what the caller should do about them.
type ErrorClass int

const (
	ClassUnknown ErrorClass = iota
	ClassInput
	ClassTiming
	ClassAuthorization
	ClassConsensus
	ClassRace
	ClassLookup
)

func (c ErrorClass) String() string {
	switch c {
	case ClassInput:
		return "input"
	case ClassTiming:
		return "timing"
	case ClassAuthorization:
		return "authorization"
	case ClassConsensus:
		return "consensus"
	case ClassRace:
		return "race"
	case ClassLookup:
		return "lookup"
	default:
		return "unknown"
	}
}

var errorClasses = []struct {
	err   error
	class ErrorClass
}{
	{ErrInvalidTicket, ClassInput},
	{ErrInvalidIndex, ClassInput},
	{ErrInvalidParams, ClassInput},
	{ErrWindowClosed, ClassTiming},
	{ErrTooEarly, ClassTiming},
	{ErrGroupNotSelected, ClassTiming},
	{ErrResultNotSubmitted, ClassTiming},
	{ErrNotSelected, ClassAuthorization},
	{ErrSignatureMismatch, ClassConsensus},
	{ErrQuorumNotMet, ClassConsensus},
	{ErrAlreadyFinalized, ClassRace},
	{ErrUnknownRequest, ClassLookup},
	{ErrDuplicateRequest, ClassLookup},
	{ErrPoolEmpty, ClassLookup},
}

// ClassOf returns the class of a rejection, or ClassUnknown for errors that
// are not registered beacon errors (db failures etc).
func ClassOf(err error) ErrorClass {
	if err == nil {
		return ClassUnknown
	}
	for _, ec := range errorClasses {
		if errors.Is(err, ec.err) {
			return ec.class
		}
	}
	return ClassUnknown
}

// IsRetriable reports whether resubmitting the same call later can succeed.
func IsRetriable(err error) bool {
	return ClassOf(err) == ClassTiming
}
