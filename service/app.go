package service

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/babylonchain/beacon-committee/chain"
	"github.com/babylonchain/beacon-committee/chain/local"
	"github.com/babylonchain/beacon-committee/config"
	"github.com/babylonchain/beacon-committee/ledger"
	"github.com/babylonchain/beacon-committee/metrics"
	"github.com/babylonchain/beacon-committee/quorum"
	"github.com/babylonchain/beacon-committee/sortition"
	"github.com/babylonchain/beacon-committee/submission"
	"github.com/babylonchain/beacon-committee/types"
)

// BeaconApp is the public operation surface of the beacon. Every operation
// runs in a single ledger transaction and leaves the ledger untouched when it
// fails.
type BeaconApp struct {
	startOnce sync.Once
	stopOnce  sync.Once

	wg   sync.WaitGroup
	quit chan struct{}

	ledger       *ledger.Ledger
	chain        chain.Chain
	coordinator  *submission.Coordinator
	params       types.GroupParams
	minimumStake sdkmath.Int
	earlyClosure bool
	pollInterval time.Duration

	metrics *metrics.BeaconMetrics
	logger  *zap.Logger
}

func NewBeaconAppFromConfig(
	cfg *config.Config,
	l *ledger.Ledger,
	bc chain.Chain,
	m *metrics.BeaconMetrics,
	logger *zap.Logger,
) (*BeaconApp, error) {
	verifier, err := quorum.NewVerifier(cfg.SignerCacheSize)
	if err != nil {
		return nil, err
	}

	return NewBeaconApp(
		l,
		bc,
		submission.NewCoordinator(verifier),
		cfg.GroupConfig.ToParams(),
		cfg.MinimumStakeAmount(),
		cfg.EarlyClosure,
		cfg.ChainConfig.PollInterval,
		m,
		logger,
	)
}

// NewLocalChainFromConfig creates the development chain the daemon runs on.
// It resumes from the last height recorded in the ledger and holds the
// configured stakes.
func NewLocalChainFromConfig(cfg *config.ChainConfig, l *ledger.Ledger, logger *zap.Logger) (*local.Chain, error) {
	stakes, err := cfg.ParseStakes()
	if err != nil {
		return nil, err
	}

	lastBlock, err := l.HighestBlock()
	if err != nil {
		return nil, fmt.Errorf("failed to get the highest block from the ledger: %w", err)
	}
	startHeight := cfg.StartHeight
	if lastBlock > startHeight {
		startHeight = lastBlock
	}

	bc := local.NewChain(logger, startHeight, cfg.BlockTime)
	for staker, amount := range stakes {
		bc.SetStake(staker, amount)
	}

	return bc, nil
}

func NewBeaconApp(
	l *ledger.Ledger,
	bc chain.Chain,
	coordinator *submission.Coordinator,
	params types.GroupParams,
	minimumStake sdkmath.Int,
	earlyClosure bool,
	pollInterval time.Duration,
	m *metrics.BeaconMetrics,
	logger *zap.Logger,
) (*BeaconApp, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if minimumStake.IsNil() || !minimumStake.IsPositive() {
		return nil, fmt.Errorf("the minimum stake must be positive")
	}
	if pollInterval <= 0 {
		return nil, fmt.Errorf("the poll interval must be positive")
	}

	return &BeaconApp{
		ledger:       l,
		chain:        bc,
		coordinator:  coordinator,
		params:       params,
		minimumStake: minimumStake,
		earlyClosure: earlyClosure,
		pollInterval: pollInterval,
		metrics:      m,
		logger:       logger,
		quit:         make(chan struct{}),
	}, nil
}

func (app *BeaconApp) GetLedger() *ledger.Ledger {
	return app.ledger
}

func (app *BeaconApp) GetParams() types.GroupParams {
	return app.params
}

// Start starts the group closer.
func (app *BeaconApp) Start() error {
	var startErr error
	app.startOnce.Do(func() {
		app.logger.Info("Starting BeaconApp")

		app.wg.Add(1)
		go app.closeTimedOutGroups()
	})

	return startErr
}

func (app *BeaconApp) Stop() error {
	var stopErr error
	app.stopOnce.Do(func() {
		app.logger.Info("Stopping BeaconApp")

		close(app.quit)
		app.wg.Wait()

		app.logger.Info("BeaconApp successfully stopped")
	})

	return stopErr
}

func (app *BeaconApp) CurrentBlock() (uint64, error) {
	height, err := app.chain.CurrentBlock()
	if err != nil {
		return 0, fmt.Errorf("failed to query the current block: %w", err)
	}
	app.metrics.RecordCurrentBlock(height)

	return height, nil
}

// RequestGroup opens a new group request with the configured parameters.
// Tickets are accepted from the current block on.
func (app *BeaconApp) RequestGroup(requestID uint64, seed common.Hash) (*types.GroupRequest, error) {
	height, err := app.CurrentBlock()
	if err != nil {
		return nil, err
	}

	req := types.NewGroupRequest(requestID, seed, app.params, height)
	if err := app.ledger.CreateRequest(req); err != nil {
		return nil, toTypedErr(requestID, err)
	}

	app.logger.Info("new group request",
		zap.Uint64("request_id", requestID),
		zap.String("seed", seed.Hex()),
		zap.Uint64("start_block", height),
		zap.Uint64("ticket_submission_end", req.TicketSubmissionEnd()),
	)

	return req, nil
}

// SubmitTicket adds the ticket to the request's pool. It returns whether the
// ticket is retained. With early closure enabled the group is selected as
// soon as group size distinct stakers hold a retained ticket.
func (app *BeaconApp) SubmitTicket(requestID uint64, ticket *types.Ticket) (bool, error) {
	if ticket == nil {
		app.metrics.RecordTicket(metrics.TicketRejected)
		return false, errorsmod.Wrap(types.ErrInvalidTicket, "empty ticket")
	}

	height, err := app.CurrentBlock()
	if err != nil {
		return false, err
	}

	weight, err := app.weightOf(ticket.Owner)
	if err != nil {
		return false, err
	}

	var (
		retained bool
		group    *types.SelectedGroup
	)
	_, err = app.ledger.UpdateRequest(requestID, func(req *types.GroupRequest) error {
		if !req.IsTicketSubmissionOpen(height) {
			return errorsmod.Wrapf(types.ErrWindowClosed, "ticket submission of request %d closed at block %d",
				requestID, req.TicketSubmissionEnd())
		}

		pool, err := sortition.RestorePool(req.Seed, req.Params.GroupSize, req.Tickets)
		if err != nil {
			return err
		}
		retained, err = pool.Submit(ticket, weight)
		if err != nil {
			return err
		}
		req.Tickets = pool.Tickets()

		if app.earlyClosure && uint64(pool.DistinctOwners()) >= req.Params.GroupSize {
			group, err = app.coordinator.SelectGroup(req, height)
			return err
		}

		return nil
	})
	if err != nil {
		app.metrics.RecordTicket(metrics.TicketRejected)
		return false, toTypedErr(requestID, err)
	}

	if retained {
		app.metrics.RecordTicket(metrics.TicketRetained)
	} else {
		app.metrics.RecordTicket(metrics.TicketDiscarded)
	}

	app.logger.Debug("ticket submitted",
		zap.Uint64("request_id", requestID),
		zap.String("owner", ticket.Owner.Hex()),
		zap.Uint64("virtual_index", ticket.VirtualIndex),
		zap.Bool("retained", retained),
	)

	if group != nil {
		app.recordGroupSelected(requestID, height, group)
	}

	return retained, nil
}

// weightOf is the number of virtual stakers the owner's stake is worth.
func (app *BeaconApp) weightOf(owner common.Address) (uint64, error) {
	stake, err := app.chain.StakeOf(owner)
	if err != nil {
		return 0, fmt.Errorf("failed to query the stake of %s: %w", owner.Hex(), err)
	}
	if stake.IsNil() || !stake.IsPositive() {
		return 0, nil
	}

	weight := stake.Quo(app.minimumStake)
	if !weight.IsUint64() {
		return math.MaxUint64, nil
	}

	return weight.Uint64(), nil
}

// FreezeGroup selects the group of the request from its retained tickets.
func (app *BeaconApp) FreezeGroup(requestID uint64) (*types.SelectedGroup, error) {
	height, err := app.CurrentBlock()
	if err != nil {
		return nil, err
	}

	var group *types.SelectedGroup
	_, err = app.ledger.UpdateRequest(requestID, func(req *types.GroupRequest) error {
		group, err = app.coordinator.SelectGroup(req, height)
		return err
	})
	if err != nil {
		return nil, toTypedErr(requestID, err)
	}

	app.recordGroupSelected(requestID, height, group)

	return group, nil
}

func (app *BeaconApp) recordGroupSelected(requestID, height uint64, group *types.SelectedGroup) {
	app.metrics.RecordGroupSelected(group.Size())
	app.logger.Info("group selected",
		zap.Uint64("request_id", requestID),
		zap.Uint64("base_block", height),
		zap.Uint64("group_size", group.Size()),
	)
}

// SubmitDkgResult accepts the result on behalf of caller if it is the first
// valid one for the request.
func (app *BeaconApp) SubmitDkgResult(caller common.Address, result *types.DkgResult) error {
	if result == nil {
		return errorsmod.Wrap(types.ErrInvalidIndex, "empty DKG result")
	}

	height, err := app.CurrentBlock()
	if err != nil {
		return err
	}

	req, err := app.ledger.UpdateRequest(result.RequestID, func(req *types.GroupRequest) error {
		return app.coordinator.Submit(req, caller, result, height)
	})
	if err != nil {
		err = toTypedErr(result.RequestID, err)
		app.metrics.RecordResultRejected(err)
		app.logger.Debug("DKG result rejected",
			zap.Uint64("request_id", result.RequestID),
			zap.String("caller", caller.Hex()),
			zap.Uint64("submitter_index", result.SubmitterIndex),
			zap.Stringer("class", types.ClassOf(err)),
			zap.Error(err),
		)
		return err
	}

	app.metrics.RecordResultAccepted(req.BaseBlock, req.ResultBlock)
	app.logger.Info("DKG result accepted",
		zap.Uint64("request_id", result.RequestID),
		zap.String("submitter", caller.Hex()),
		zap.Uint64("submitter_index", result.SubmitterIndex),
		zap.Int("signatures", len(result.Signatures)),
		zap.Uint64("block", height),
	)

	return nil
}

func (app *BeaconApp) GetRequest(requestID uint64) (*types.GroupRequest, error) {
	req, err := app.ledger.GetRequest(requestID)
	if err != nil {
		return nil, toTypedErr(requestID, err)
	}
	return req, nil
}

// ListRequests returns the requests in ascending id order. A nil state
// returns all of them.
func (app *BeaconApp) ListRequests(state *types.RequestState) ([]*types.GroupRequest, error) {
	reqs, err := app.ledger.ListRequests()
	if err != nil {
		return nil, err
	}
	if state == nil {
		return reqs, nil
	}

	filtered := make([]*types.GroupRequest, 0, len(reqs))
	for _, req := range reqs {
		if req.State == *state {
			filtered = append(filtered, req)
		}
	}
	return filtered, nil
}

func (app *BeaconApp) IsResultSubmitted(requestID uint64) (bool, error) {
	req, err := app.GetRequest(requestID)
	if err != nil {
		return false, err
	}
	return req.Finalized, nil
}

// GetSelectedGroup returns the members of the request's group ordered by
// member index.
func (app *BeaconApp) GetSelectedGroup(requestID uint64) (*types.SelectedGroup, error) {
	req, err := app.GetRequest(requestID)
	if err != nil {
		return nil, err
	}
	if req.Group == nil {
		return nil, errorsmod.Wrapf(types.ErrGroupNotSelected, "request %d", requestID)
	}
	return req.Group, nil
}

// GetDkgResult returns the accepted result and the block it was accepted at.
func (app *BeaconApp) GetDkgResult(requestID uint64) (*types.DkgResult, uint64, error) {
	req, err := app.GetRequest(requestID)
	if err != nil {
		return nil, 0, err
	}
	if !req.Finalized {
		return nil, 0, errorsmod.Wrapf(types.ErrResultNotSubmitted, "request %d", requestID)
	}
	return req.Result, req.ResultBlock, nil
}

// toTypedErr maps the ledger lookup errors to their registered counterparts.
func toTypedErr(requestID uint64, err error) error {
	switch {
	case errors.Is(err, ledger.ErrRequestNotFound):
		return errorsmod.Wrapf(types.ErrUnknownRequest, "request %d", requestID)
	case errors.Is(err, ledger.ErrDuplicateRequest):
		return errorsmod.Wrapf(types.ErrDuplicateRequest, "request %d", requestID)
	default:
		return err
	}
}
