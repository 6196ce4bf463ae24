package service

import (
	"context"
	"net/http"
	"sync/atomic"

	errorsmod "cosmossdk.io/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/babylonchain/beacon-committee/types"
)

// Namespace is the JSON-RPC namespace the beacon API is served under.
const Namespace = "beacon"

// internalErrorCode is the code of errors that are not registered beacon
// errors, the same one go-ethereum uses for plain errors.
const internalErrorCode = -32000

// RPCServer is the main RPC server for the beacon daemon that handles
// JSON-RPC requests over HTTP.
type RPCServer struct {
	started  int32
	shutdown int32

	app    *BeaconApp
	server *rpc.Server
}

// NewRPCServer creates a new RPC sever from the set of input dependencies.
func NewRPCServer(app *BeaconApp) *RPCServer {
	return &RPCServer{
		app:    app,
		server: rpc.NewServer(),
	}
}

// Start registers the beacon API so the server starts accepting requests.
func (r *RPCServer) Start() error {
	if atomic.AddInt32(&r.started, 1) != 1 {
		return nil
	}

	return r.server.RegisterName(Namespace, &beaconAPI{app: r.app})
}

// Stop signals that the RPC server should attempt a graceful shutdown and
// cancel any outstanding requests.
func (r *RPCServer) Stop() error {
	if atomic.AddInt32(&r.shutdown, 1) != 1 {
		return nil
	}

	r.server.Stop()

	return nil
}

func (r *RPCServer) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.server.ServeHTTP(w, req)
}

// beaconAPI exposes the BeaconApp operations as beacon_* methods.
type beaconAPI struct {
	app *BeaconApp
}

func (api *beaconAPI) CurrentBlock(_ context.Context) (hexutil.Uint64, error) {
	height, err := api.app.CurrentBlock()
	if err != nil {
		return 0, newRPCError(err)
	}
	return hexutil.Uint64(height), nil
}

func (api *beaconAPI) RequestGroup(_ context.Context, requestID hexutil.Uint64, seed common.Hash) (*GroupRequest, error) {
	req, err := api.app.RequestGroup(uint64(requestID), seed)
	if err != nil {
		return nil, newRPCError(err)
	}
	return NewGroupRequest(req), nil
}

func (api *beaconAPI) SubmitTicket(_ context.Context, requestID hexutil.Uint64, ticket Ticket) (bool, error) {
	t, err := ticket.ToTicket()
	if err != nil {
		return false, newRPCError(errorsmod.Wrap(types.ErrInvalidTicket, err.Error()))
	}

	retained, err := api.app.SubmitTicket(uint64(requestID), t)
	if err != nil {
		return false, newRPCError(err)
	}
	return retained, nil
}

func (api *beaconAPI) FreezeGroup(_ context.Context, requestID hexutil.Uint64) (*SelectedGroup, error) {
	group, err := api.app.FreezeGroup(uint64(requestID))
	if err != nil {
		return nil, newRPCError(err)
	}
	return NewSelectedGroup(group), nil
}

// SubmitDkgResult submits the result on behalf of caller. The local chain
// has no transaction signatures so the caller is taken at its word.
func (api *beaconAPI) SubmitDkgResult(_ context.Context, caller common.Address, result DkgResult) error {
	if err := api.app.SubmitDkgResult(caller, result.ToDkgResult()); err != nil {
		return newRPCError(err)
	}
	return nil
}

func (api *beaconAPI) IsResultSubmitted(_ context.Context, requestID hexutil.Uint64) (bool, error) {
	submitted, err := api.app.IsResultSubmitted(uint64(requestID))
	if err != nil {
		return false, newRPCError(err)
	}
	return submitted, nil
}

func (api *beaconAPI) GetSelectedGroup(_ context.Context, requestID hexutil.Uint64) (*SelectedGroup, error) {
	group, err := api.app.GetSelectedGroup(uint64(requestID))
	if err != nil {
		return nil, newRPCError(err)
	}
	return NewSelectedGroup(group), nil
}

func (api *beaconAPI) GetDkgResult(_ context.Context, requestID hexutil.Uint64) (*DkgResultResponse, error) {
	result, block, err := api.app.GetDkgResult(uint64(requestID))
	if err != nil {
		return nil, newRPCError(err)
	}
	return &DkgResultResponse{Result: NewDkgResult(result), Block: hexutil.Uint64(block)}, nil
}

func (api *beaconAPI) GetRequest(_ context.Context, requestID hexutil.Uint64) (*GroupRequest, error) {
	req, err := api.app.GetRequest(uint64(requestID))
	if err != nil {
		return nil, newRPCError(err)
	}
	return NewGroupRequest(req), nil
}

// ListRequests returns the requests in the given state, or every request when
// state is empty.
func (api *beaconAPI) ListRequests(_ context.Context, state string) ([]*GroupRequest, error) {
	var filter *types.RequestState
	if state != "" {
		s, err := types.ParseRequestState(state)
		if err != nil {
			return nil, newRPCError(err)
		}
		filter = &s
	}

	reqs, err := api.app.ListRequests(filter)
	if err != nil {
		return nil, newRPCError(err)
	}

	res := make([]*GroupRequest, 0, len(reqs))
	for _, req := range reqs {
		res = append(res, NewGroupRequest(req))
	}
	return res, nil
}

// rpcError carries the registered code of a beacon error to the client. The
// error class goes along as error data.
type rpcError struct {
	err  error
	code int
}

var (
	_ rpc.Error     = (*rpcError)(nil)
	_ rpc.DataError = (*rpcError)(nil)
)

func newRPCError(err error) error {
	codespace, code, _ := errorsmod.ABCIInfo(err, false)
	if codespace != types.ModuleName {
		return &rpcError{err: err, code: internalErrorCode}
	}
	return &rpcError{err: err, code: int(code)}
}

func (e *rpcError) Error() string {
	return e.err.Error()
}

func (e *rpcError) ErrorCode() int {
	return e.code
}

func (e *rpcError) ErrorData() interface{} {
	return types.ClassOf(e.err).String()
}

func (e *rpcError) Unwrap() error {
	return e.err
}
