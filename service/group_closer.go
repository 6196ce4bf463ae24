package service

import (
	"errors"
	"time"

	"github.com/avast/retry-go/v4"
	"go.uber.org/zap"

	"github.com/babylonchain/beacon-committee/types"
)

var (
	RtyAttNum = uint(5)
	RtyAtt    = retry.Attempts(RtyAttNum)
	RtyDel    = retry.Delay(time.Millisecond * 400)
	RtyErr    = retry.LastErrorOnly(true)
)

// closeTimedOutGroups is the group closer: at every poll it selects the group
// of each request whose ticket submission timed out.
func (app *BeaconApp) closeTimedOutGroups() {
	defer app.wg.Done()

	ticker := time.NewTicker(app.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			height, err := app.currentBlockWithRetry()
			if err != nil {
				app.logger.Error("failed to query the current block", zap.Error(err))
				continue
			}
			app.CloseTimedOutGroups(height)
		case <-app.quit:
			app.logger.Info("the group closer is closing")
			return
		}
	}
}

// CloseTimedOutGroups freezes every request still awaiting its group whose
// ticket submission ended at or before height. A request without tickets
// stays open. It returns the ids of the requests whose group got selected.
func (app *BeaconApp) CloseTimedOutGroups(height uint64) []uint64 {
	if err := app.ledger.SetLastBlock(height); err != nil {
		app.logger.Error("failed to record the last block", zap.Uint64("height", height), zap.Error(err))
	}

	ids, err := app.ledger.AwaitingGroup()
	if err != nil {
		app.logger.Error("failed to list the requests awaiting their group", zap.Error(err))
		return nil
	}
	app.metrics.RecordAwaitingGroup(len(ids))

	var closed []uint64
	for _, id := range ids {
		req, err := app.ledger.GetRequest(id)
		if err != nil {
			app.logger.Error("failed to load the request", zap.Uint64("request_id", id), zap.Error(err))
			continue
		}
		if req.IsTicketSubmissionOpen(height) {
			continue
		}

		var group *types.SelectedGroup
		_, err = app.ledger.UpdateRequest(id, func(req *types.GroupRequest) error {
			group, err = app.coordinator.SelectGroup(req, height)
			return err
		})
		switch {
		case errors.Is(err, types.ErrPoolEmpty):
			app.logger.Debug("the ticket submission timed out without tickets",
				zap.Uint64("request_id", id),
				zap.Uint64("ticket_submission_end", req.TicketSubmissionEnd()),
			)
		case errors.Is(err, types.ErrWindowClosed):
			// selected in between
		case err != nil:
			app.logger.Error("failed to select the group", zap.Uint64("request_id", id), zap.Error(err))
		default:
			app.recordGroupSelected(id, height, group)
			closed = append(closed, id)
		}
	}

	if n := len(ids) - len(closed); n != len(ids) {
		app.metrics.RecordAwaitingGroup(n)
	}

	return closed
}

func (app *BeaconApp) currentBlockWithRetry() (uint64, error) {
	var height uint64
	if err := retry.Do(func() error {
		h, err := app.CurrentBlock()
		if err != nil {
			return err
		}
		height = h
		return nil
	}, RtyAtt, RtyDel, RtyErr, retry.OnRetry(func(n uint, err error) {
		app.logger.Debug(
			"failed to query the current block",
			zap.Uint("attempt", n+1),
			zap.Uint("max_attempts", RtyAttNum),
			zap.Error(err),
		)
	})); err != nil {
		return 0, err
	}

	return height, nil
}
