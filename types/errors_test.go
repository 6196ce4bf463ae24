package types_test

import (
	"fmt"
	"testing"

	errorsmod "cosmossdk.io/errors"
	"github.com/stretchr/testify/require"

	"github.com/babylonchain/beacon-committee/types"
)

func TestClassOf(t *testing.T) {
	cases := map[error]types.ErrorClass{
		types.ErrInvalidTicket:     types.ClassInput,
		types.ErrInvalidIndex:      types.ClassInput,
		types.ErrWindowClosed:      types.ClassTiming,
		types.ErrTooEarly:          types.ClassTiming,
		types.ErrNotSelected:       types.ClassAuthorization,
		types.ErrSignatureMismatch: types.ClassConsensus,
		types.ErrQuorumNotMet:      types.ClassConsensus,
		types.ErrAlreadyFinalized:  types.ClassRace,
		types.ErrUnknownRequest:    types.ClassLookup,
	}
	for err, class := range cases {
		require.Equal(t, class, types.ClassOf(err), err.Error())

		wrapped := errorsmod.Wrapf(err, "request %d", 7)
		require.Equal(t, class, types.ClassOf(wrapped))
		require.Equal(t, class, types.ClassOf(fmt.Errorf("rpc: %w", wrapped)))
	}

	require.Equal(t, types.ClassUnknown, types.ClassOf(nil))
	require.Equal(t, types.ClassUnknown, types.ClassOf(fmt.Errorf("disk full")))

	require.True(t, types.IsRetriable(errorsmod.Wrap(types.ErrTooEarly, "member 3")))
	require.False(t, types.IsRetriable(types.ErrAlreadyFinalized))
}

func TestRegisteredCodesRoundTrip(t *testing.T) {
	wrapped := errorsmod.Wrap(types.ErrQuorumNotMet, "2 valid signatures, 3 required")
	codespace, code, _ := errorsmod.ABCIInfo(wrapped, false)
	require.Equal(t, types.ModuleName, codespace)
	require.Equal(t, uint32(10), code)

	require.ErrorIs(t, errorsmod.ABCIError(codespace, code, "remote"), types.ErrQuorumNotMet)
}

func TestGroupParamsValidate(t *testing.T) {
	require.NoError(t, types.DefaultGroupParams().Validate())

	p := types.DefaultGroupParams()
	p.GroupThreshold = p.GroupSize + 1
	require.ErrorIs(t, p.Validate(), types.ErrInvalidParams)

	p = types.DefaultGroupParams()
	p.ResultPublicationStep = 0
	require.ErrorIs(t, p.Validate(), types.ErrInvalidParams)
}
