package client

import (
	"context"
	"errors"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/babylonchain/beacon-committee/node"
	"github.com/babylonchain/beacon-committee/service"
	"github.com/babylonchain/beacon-committee/types"
)

var _ node.ResultSubmitter = (*BeaconRpcClient)(nil)

// BeaconRpcClient talks to the beacon daemon over JSON-RPC. Errors returned
// by the daemon are mapped back to the registered beacon errors so callers
// can match them with errors.Is.
type BeaconRpcClient struct {
	client *rpc.Client
}

func NewBeaconRpcClient(ctx context.Context, remoteAddr string) (*BeaconRpcClient, error) {
	c, err := rpc.DialContext(ctx, "http://"+remoteAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to build the RPC connection to %s: %w", remoteAddr, err)
	}

	return &BeaconRpcClient{client: c}, nil
}

func (c *BeaconRpcClient) Close() {
	c.client.Close()
}

func (c *BeaconRpcClient) call(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	if err := c.client.CallContext(ctx, result, service.Namespace+"_"+method, args...); err != nil {
		return toTypedErr(err)
	}
	return nil
}

func (c *BeaconRpcClient) CurrentBlock(ctx context.Context) (uint64, error) {
	var height hexutil.Uint64
	if err := c.call(ctx, &height, "currentBlock"); err != nil {
		return 0, err
	}
	return uint64(height), nil
}

func (c *BeaconRpcClient) RequestGroup(ctx context.Context, requestID uint64, seed common.Hash) (*types.GroupRequest, error) {
	var res service.GroupRequest
	if err := c.call(ctx, &res, "requestGroup", hexutil.Uint64(requestID), seed); err != nil {
		return nil, err
	}
	return res.ToGroupRequest()
}

func (c *BeaconRpcClient) SubmitTicket(ctx context.Context, requestID uint64, ticket *types.Ticket) (bool, error) {
	var retained bool
	if err := c.call(ctx, &retained, "submitTicket", hexutil.Uint64(requestID), service.NewTicket(ticket)); err != nil {
		return false, err
	}
	return retained, nil
}

func (c *BeaconRpcClient) FreezeGroup(ctx context.Context, requestID uint64) (*types.SelectedGroup, error) {
	var res service.SelectedGroup
	if err := c.call(ctx, &res, "freezeGroup", hexutil.Uint64(requestID)); err != nil {
		return nil, err
	}
	return res.ToSelectedGroup()
}

func (c *BeaconRpcClient) SubmitDkgResult(ctx context.Context, caller common.Address, result *types.DkgResult) error {
	return c.call(ctx, nil, "submitDkgResult", caller, service.NewDkgResult(result))
}

func (c *BeaconRpcClient) IsResultSubmitted(ctx context.Context, requestID uint64) (bool, error) {
	var submitted bool
	if err := c.call(ctx, &submitted, "isResultSubmitted", hexutil.Uint64(requestID)); err != nil {
		return false, err
	}
	return submitted, nil
}

func (c *BeaconRpcClient) GetSelectedGroup(ctx context.Context, requestID uint64) (*types.SelectedGroup, error) {
	var res service.SelectedGroup
	if err := c.call(ctx, &res, "getSelectedGroup", hexutil.Uint64(requestID)); err != nil {
		return nil, err
	}
	return res.ToSelectedGroup()
}

func (c *BeaconRpcClient) GetDkgResult(ctx context.Context, requestID uint64) (*types.DkgResult, uint64, error) {
	var res service.DkgResultResponse
	if err := c.call(ctx, &res, "getDkgResult", hexutil.Uint64(requestID)); err != nil {
		return nil, 0, err
	}
	if res.Result == nil {
		return nil, 0, errorsmod.Wrapf(types.ErrResultNotSubmitted, "request %d", requestID)
	}
	return res.Result.ToDkgResult(), uint64(res.Block), nil
}

func (c *BeaconRpcClient) GetRequest(ctx context.Context, requestID uint64) (*types.GroupRequest, error) {
	var res service.GroupRequest
	if err := c.call(ctx, &res, "getRequest", hexutil.Uint64(requestID)); err != nil {
		return nil, err
	}
	return res.ToGroupRequest()
}

// toTypedErr turns an RPC error carrying a registered beacon code back into
// the registered error.
func toTypedErr(err error) error {
	var rpcErr rpc.Error
	if !errors.As(err, &rpcErr) || rpcErr.ErrorCode() <= 0 {
		return err
	}
	return errorsmod.ABCIError(types.ModuleName, uint32(rpcErr.ErrorCode()), rpcErr.Error())
}

// ListRequests lists the requests in the given state. An empty state lists
// all of them.
func (c *BeaconRpcClient) ListRequests(ctx context.Context, state string) ([]*types.GroupRequest, error) {
	var res []*service.GroupRequest
	if err := c.call(ctx, &res, "listRequests", state); err != nil {
		return nil, err
	}

	reqs := make([]*types.GroupRequest, 0, len(res))
	for _, r := range res {
		req, err := r.ToGroupRequest()
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}
