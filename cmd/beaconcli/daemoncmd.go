package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/urfave/cli"

	"github.com/babylonchain/beacon-committee/service"
	dc "github.com/babylonchain/beacon-committee/service/client"
	"github.com/babylonchain/beacon-committee/sortition"
	"github.com/babylonchain/beacon-committee/types"
)

var daemonCommands = []cli.Command{
	currentBlockCmd,
	requestGroupCmd,
	submitTicketsCmd,
	freezeGroupCmd,
	submitResultCmd,
	isResultSubmittedCmd,
	selectedGroupCmd,
	getRequestCmd,
	listRequestsCmd,
	getResultCmd,
}

var daemonAddressCliFlag = cli.StringFlag{
	Name:  daemonAddressFlag,
	Usage: "The RPC server address of beacond",
	Value: defaultDaemonAddress,
}

var requestIDCliFlag = cli.Uint64Flag{
	Name:     requestIDFlag,
	Usage:    "The id of the group request",
	Required: true,
}

func newClient(ctx *cli.Context) (*dc.BeaconRpcClient, error) {
	return dc.NewBeaconRpcClient(context.Background(), ctx.String(daemonAddressFlag))
}

var currentBlockCmd = cli.Command{
	Name:      "current-block",
	ShortName: "cb",
	Usage:     "Get the current block of the beacon chain.",
	Flags:     []cli.Flag{daemonAddressCliFlag},
	Action: func(ctx *cli.Context) error {
		c, err := newClient(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		height, err := c.CurrentBlock(context.Background())
		if err != nil {
			return err
		}

		printRespJSON(map[string]uint64{"height": height})

		return nil
	},
}

var requestGroupCmd = cli.Command{
	Name:      "request-group",
	ShortName: "rg",
	Usage:     "Open a new group request seeded with the given beacon value.",
	Flags: []cli.Flag{
		daemonAddressCliFlag,
		requestIDCliFlag,
		cli.StringFlag{
			Name:     seedFlag,
			Usage:    "The 32-byte hex encoded beacon seed",
			Required: true,
		},
	},
	Action: func(ctx *cli.Context) error {
		seed, err := parseHash(ctx.String(seedFlag))
		if err != nil {
			return err
		}

		c, err := newClient(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		req, err := c.RequestGroup(context.Background(), ctx.Uint64(requestIDFlag), seed)
		if err != nil {
			return err
		}

		printRespJSON(service.NewGroupRequest(req))

		return nil
	},
}

var submitTicketsCmd = cli.Command{
	Name:      "submit-tickets",
	ShortName: "st",
	Usage:     "Submit the tickets of the virtual stakers 1..weight of an owner.",
	Flags: []cli.Flag{
		daemonAddressCliFlag,
		requestIDCliFlag,
		cli.StringFlag{
			Name:     ownerFlag,
			Usage:    "The address of the staker",
			Required: true,
		},
		cli.Uint64Flag{
			Name:  weightFlag,
			Usage: "The number of virtual stakers to submit tickets for",
			Value: 1,
		},
		cli.Uint64Flag{
			Name:  virtualIndexFlag,
			Usage: "Submit the ticket of this virtual staker only",
		},
	},
	Action: func(ctx *cli.Context) error {
		owner, err := parseAddress(ctx.String(ownerFlag))
		if err != nil {
			return err
		}

		c, err := newClient(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		requestID := ctx.Uint64(requestIDFlag)
		req, err := c.GetRequest(context.Background(), requestID)
		if err != nil {
			return err
		}

		var tickets []*types.Ticket
		if vi := ctx.Uint64(virtualIndexFlag); vi != 0 {
			tickets = []*types.Ticket{sortition.NewTicket(req.Seed, owner, vi)}
		} else {
			tickets = sortition.GenerateTickets(req.Seed, owner, ctx.Uint64(weightFlag))
		}

		res := make([]map[string]interface{}, 0, len(tickets))
		for _, ticket := range tickets {
			retained, err := c.SubmitTicket(context.Background(), requestID, ticket)
			if err != nil {
				return fmt.Errorf("failed to submit ticket %s: %w", ticket, err)
			}
			res = append(res, map[string]interface{}{
				"ticket":   service.NewTicket(ticket),
				"retained": retained,
			})
		}

		printRespJSON(res)

		return nil
	},
}

var freezeGroupCmd = cli.Command{
	Name:      "freeze-group",
	ShortName: "fg",
	Usage:     "Select the group of a request out of its retained tickets.",
	Flags:     []cli.Flag{daemonAddressCliFlag, requestIDCliFlag},
	Action: func(ctx *cli.Context) error {
		c, err := newClient(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		group, err := c.FreezeGroup(context.Background(), ctx.Uint64(requestIDFlag))
		if err != nil {
			return err
		}

		printRespJSON(service.NewSelectedGroup(group))

		return nil
	},
}

var submitResultCmd = cli.Command{
	Name:      "submit-result",
	ShortName: "sr",
	Usage:     "Submit a signed DKG result on behalf of a group member.",
	Flags: []cli.Flag{
		daemonAddressCliFlag,
		requestIDCliFlag,
		cli.StringFlag{
			Name:     callerFlag,
			Usage:    "The address submitting the result",
			Required: true,
		},
		cli.Uint64Flag{
			Name:     submitterIndexFlag,
			Usage:    "The member index of the caller",
			Required: true,
		},
		cli.StringFlag{
			Name:     groupPubKeyFlag,
			Usage:    "The hex encoded group public key",
			Required: true,
		},
		cli.StringFlag{
			Name:  disqualifiedFlag,
			Usage: "The hex encoded disqualified members",
		},
		cli.StringFlag{
			Name:  inactiveFlag,
			Usage: "The hex encoded inactive members",
		},
		cli.StringFlag{
			Name:     signaturesFlag,
			Usage:    "The hex encoded concatenation of the 65-byte member signatures",
			Required: true,
		},
		cli.StringFlag{
			Name:     signingIndicesFlag,
			Usage:    "The comma separated member indices of the signatures, e.g., 1,3,4",
			Required: true,
		},
	},
	Action: submitResult,
}

func submitResult(ctx *cli.Context) error {
	caller, err := parseAddress(ctx.String(callerFlag))
	if err != nil {
		return err
	}

	result, err := resultFromFlags(ctx)
	if err != nil {
		return err
	}

	concatenated, err := parseHexBytes(signaturesFlag, ctx.String(signaturesFlag))
	if err != nil {
		return err
	}
	if result.Signatures, err = types.SplitSignatures(concatenated); err != nil {
		return err
	}
	if result.SigningMemberIndices, err = parseIndices(ctx.String(signingIndicesFlag)); err != nil {
		return err
	}

	c, err := newClient(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.SubmitDkgResult(context.Background(), caller, result); err != nil {
		return err
	}

	printRespJSON(map[string]interface{}{
		"request_id": result.RequestID,
		"accepted":   true,
		"hash":       result.Hash().Hex(),
	})

	return nil
}

var isResultSubmittedCmd = cli.Command{
	Name:      "is-result-submitted",
	ShortName: "irs",
	Usage:     "Check whether a DKG result has been accepted for a request.",
	Flags:     []cli.Flag{daemonAddressCliFlag, requestIDCliFlag},
	Action: func(ctx *cli.Context) error {
		c, err := newClient(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		submitted, err := c.IsResultSubmitted(context.Background(), ctx.Uint64(requestIDFlag))
		if err != nil {
			return err
		}

		printRespJSON(map[string]bool{"submitted": submitted})

		return nil
	},
}

var selectedGroupCmd = cli.Command{
	Name:      "selected-group",
	ShortName: "sg",
	Usage:     "Get the selected group of a request ordered by member index.",
	Flags:     []cli.Flag{daemonAddressCliFlag, requestIDCliFlag},
	Action: func(ctx *cli.Context) error {
		c, err := newClient(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		group, err := c.GetSelectedGroup(context.Background(), ctx.Uint64(requestIDFlag))
		if err != nil {
			return err
		}

		printRespJSON(service.NewSelectedGroup(group))

		return nil
	},
}

var getRequestCmd = cli.Command{
	Name:      "get-request",
	ShortName: "gr",
	Usage:     "Get the ledger record of a group request.",
	Flags:     []cli.Flag{daemonAddressCliFlag, requestIDCliFlag},
	Action: func(ctx *cli.Context) error {
		c, err := newClient(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		req, err := c.GetRequest(context.Background(), ctx.Uint64(requestIDFlag))
		if err != nil {
			return err
		}

		printRespJSON(service.NewGroupRequest(req))

		return nil
	},
}

var listRequestsCmd = cli.Command{
	Name:      "list-requests",
	ShortName: "ls",
	Usage:     "List the group requests, optionally only those in one state.",
	Flags: []cli.Flag{
		daemonAddressCliFlag,
		cli.StringFlag{
			Name:  stateFlag,
			Usage: "Only list requests in this state (AWAITING_GROUP, AWAITING_SUBMISSION, FINALIZED)",
		},
	},
	Action: func(ctx *cli.Context) error {
		state := ctx.String(stateFlag)
		if state != "" {
			if _, err := types.ParseRequestState(state); err != nil {
				return err
			}
		}

		c, err := newClient(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		reqs, err := c.ListRequests(context.Background(), state)
		if err != nil {
			return err
		}

		res := make([]*service.GroupRequest, 0, len(reqs))
		for _, req := range reqs {
			res = append(res, service.NewGroupRequest(req))
		}

		printRespJSON(res)

		return nil
	},
}

var getResultCmd = cli.Command{
	Name:      "get-result",
	ShortName: "gres",
	Usage:     "Get the accepted DKG result of a request.",
	Flags:     []cli.Flag{daemonAddressCliFlag, requestIDCliFlag},
	Action: func(ctx *cli.Context) error {
		c, err := newClient(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		result, block, err := c.GetDkgResult(context.Background(), ctx.Uint64(requestIDFlag))
		if err != nil {
			return err
		}

		printRespJSON(&service.DkgResultResponse{
			Result: service.NewDkgResult(result),
			Block:  hexutil.Uint64(block),
		})

		return nil
	},
}

// resultFromFlags reads the unsigned part of a DKG result.
func resultFromFlags(ctx *cli.Context) (*types.DkgResult, error) {
	groupPubKey, err := parseHexBytes(groupPubKeyFlag, ctx.String(groupPubKeyFlag))
	if err != nil {
		return nil, err
	}
	disqualified, err := parseHexBytes(disqualifiedFlag, ctx.String(disqualifiedFlag))
	if err != nil {
		return nil, err
	}
	inactive, err := parseHexBytes(inactiveFlag, ctx.String(inactiveFlag))
	if err != nil {
		return nil, err
	}

	return &types.DkgResult{
		RequestID:      ctx.Uint64(requestIDFlag),
		SubmitterIndex: ctx.Uint64(submitterIndexFlag),
		GroupPublicKey: groupPubKey,
		Disqualified:   disqualified,
		Inactive:       inactive,
	}, nil
}

func parseHash(s string) (common.Hash, error) {
	b, err := hexutil.Decode(withHexPrefix(s))
	if err != nil || len(b) != common.HashLength {
		return common.Hash{}, fmt.Errorf("invalid 32-byte hex value %q", s)
	}
	return common.BytesToHash(b), nil
}

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}

func parseHexBytes(name, s string) ([]byte, error) {
	if s == "" {
		return []byte{}, nil
	}
	b, err := hexutil.Decode(withHexPrefix(s))
	if err != nil {
		return nil, fmt.Errorf("invalid hex value of %s: %w", name, err)
	}
	return b, nil
}

func parseIndices(s string) ([]uint64, error) {
	var indices []uint64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		index, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid member index %q: %w", part, err)
		}
		indices = append(indices, index)
	}
	return indices, nil
}

func withHexPrefix(s string) string {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return s
	}
	return "0x" + s
}
