package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	errorsmod "cosmossdk.io/errors"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/urfave/cli"
	"go.uber.org/zap"

	"github.com/babylonchain/beacon-committee/config"
	"github.com/babylonchain/beacon-committee/keymanager"
	"github.com/babylonchain/beacon-committee/log"
	"github.com/babylonchain/beacon-committee/node"
	"github.com/babylonchain/beacon-committee/service"
	"github.com/babylonchain/beacon-committee/sortition"
	"github.com/babylonchain/beacon-committee/store/bbolt"
	"github.com/babylonchain/beacon-committee/submission"
	"github.com/babylonchain/beacon-committee/types"
	"github.com/babylonchain/beacon-committee/util"
)

var memberCommands = []cli.Command{
	newKeyCmd,
	importKeyCmd,
	listKeysCmd,
	genTicketsCmd,
	signResultCmd,
	registerGroupCmd,
	listGroupsCmd,
	membershipsCmd,
	publishResultCmd,
}

var homeCliFlag = cli.StringFlag{
	Name:  homeFlag,
	Usage: "The home directory holding the member keys and node database",
	Value: config.DefaultBeacondDir,
}

var passphraseCliFlag = cli.StringFlag{
	Name:  passphraseFlag,
	Usage: "The pass phrase used to encrypt the keys",
	Value: defaultPassphrase,
}

func newKeyManager(ctx *cli.Context) (*keymanager.EVMKeyManager, error) {
	home := util.CleanAndExpandPath(ctx.String(homeFlag))
	keyDir := config.KeysDir(home)
	if err := util.MakeDirectory(keyDir); err != nil {
		return nil, err
	}
	return keymanager.NewEVMKeyManager(keyDir, false, zap.NewNop()), nil
}

// openNode opens the group registry of the member node under the home
// directory. The returned function closes it.
func openNode(ctx *cli.Context) (*node.Node, func(), error) {
	staker, err := parseAddress(ctx.String(addressFlag))
	if err != nil {
		return nil, nil, err
	}

	home := util.CleanAndExpandPath(ctx.String(homeFlag))
	dbCfg := config.DefaultNodeDBConfigWithHomePath(home)
	if err := dbCfg.Validate(); err != nil {
		return nil, nil, err
	}
	if err := util.MakeDirectory(config.DataDir(home)); err != nil {
		return nil, nil, err
	}

	groups, err := bbolt.NewBboltStore(bbolt.Options{
		BucketName: dbCfg.BucketName,
		Path:       dbCfg.Path,
	})
	if err != nil {
		return nil, nil, err
	}

	logger, err := log.NewRootLogger("console", "info", os.Stderr)
	if err != nil {
		_ = groups.Close()
		return nil, nil, err
	}

	return node.NewNode(staker, groups, logger), func() { _ = groups.Close() }, nil
}

var newKeyCmd = cli.Command{
	Name:      "new-key",
	ShortName: "nk",
	Usage:     "Create a new member key in the key directory.",
	Flags:     []cli.Flag{homeCliFlag, passphraseCliFlag},
	Action: func(ctx *cli.Context) error {
		km, err := newKeyManager(ctx)
		if err != nil {
			return err
		}

		addr, err := km.CreateKey(ctx.String(passphraseFlag))
		if err != nil {
			return err
		}

		printRespJSON(map[string]string{"address": addr.Hex()})

		return nil
	},
}

var importKeyCmd = cli.Command{
	Name:      "import-key",
	ShortName: "ik",
	Usage:     "Import a hex encoded secp256k1 private key.",
	Flags: []cli.Flag{
		homeCliFlag,
		passphraseCliFlag,
		cli.StringFlag{
			Name:     privKeyFlag,
			Usage:    "The hex encoded private key",
			Required: true,
		},
	},
	Action: func(ctx *cli.Context) error {
		km, err := newKeyManager(ctx)
		if err != nil {
			return err
		}

		addr, err := km.ImportKey(ctx.String(privKeyFlag), ctx.String(passphraseFlag))
		if err != nil {
			return err
		}

		printRespJSON(map[string]string{"address": addr.Hex()})

		return nil
	},
}

var listKeysCmd = cli.Command{
	Name:      "list-keys",
	ShortName: "lk",
	Usage:     "List the addresses of the stored member keys.",
	Flags:     []cli.Flag{homeCliFlag},
	Action: func(ctx *cli.Context) error {
		km, err := newKeyManager(ctx)
		if err != nil {
			return err
		}

		var addrs []string
		for _, addr := range km.ListKeys() {
			addrs = append(addrs, addr.Hex())
		}

		printRespJSON(map[string][]string{"addresses": addrs})

		return nil
	},
}

var genTicketsCmd = cli.Command{
	Name:      "gen-tickets",
	ShortName: "gt",
	Usage:     "Compute the tickets of the virtual stakers 1..weight of an owner.",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:     seedFlag,
			Usage:    "The 32-byte hex encoded beacon seed",
			Required: true,
		},
		cli.StringFlag{
			Name:     ownerFlag,
			Usage:    "The address of the staker",
			Required: true,
		},
		cli.Uint64Flag{
			Name:  weightFlag,
			Usage: "The number of virtual stakers",
			Value: 1,
		},
	},
	Action: func(ctx *cli.Context) error {
		seed, err := parseHash(ctx.String(seedFlag))
		if err != nil {
			return err
		}
		owner, err := parseAddress(ctx.String(ownerFlag))
		if err != nil {
			return err
		}

		var tickets []*service.Ticket
		for _, t := range sortition.GenerateTickets(seed, owner, ctx.Uint64(weightFlag)) {
			tickets = append(tickets, service.NewTicket(t))
		}

		printRespJSON(tickets)

		return nil
	},
}

var signResultCmd = cli.Command{
	Name:      "sign-result",
	ShortName: "sign",
	Usage:     "Sign the hash of a DKG result with a member key.",
	Flags: []cli.Flag{
		homeCliFlag,
		passphraseCliFlag,
		cli.StringFlag{
			Name:     addressFlag,
			Usage:    "The address of the signing key",
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
	},
	Action: func(ctx *cli.Context) error {
		addr, err := parseAddress(ctx.String(addressFlag))
		if err != nil {
			return err
		}
		result, err := resultFromFlags(ctx)
		if err != nil {
			return err
		}

		km, err := newKeyManager(ctx)
		if err != nil {
			return err
		}

		sig, err := km.SignDkgResult(addr, ctx.String(passphraseFlag), result)
		if err != nil {
			return err
		}

		printRespJSON(map[string]string{
			"hash":      result.Hash().Hex(),
			"signature": hexutil.Encode(sig),
		})

		return nil
	},
}

var registerGroupCmd = cli.Command{
	Name:      "register-group",
	ShortName: "reg",
	Usage:     "Record the group public key of an accepted DKG result in the node database.",
	Flags: []cli.Flag{
		daemonAddressCliFlag,
		homeCliFlag,
		requestIDCliFlag,
		cli.StringFlag{
			Name:     addressFlag,
			Usage:    "The address of the member node",
			Required: true,
		},
	},
	Action: func(ctx *cli.Context) error {
		c, err := newClient(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		requestID := ctx.Uint64(requestIDFlag)
		result, _, err := c.GetDkgResult(context.Background(), requestID)
		if err != nil {
			return err
		}

		n, closeNode, err := openNode(ctx)
		if err != nil {
			return err
		}
		defer closeNode()

		registered, err := n.RegisterGroup(requestID, result.GroupPublicKey)
		if err != nil {
			return err
		}

		// an earlier registration of the request is kept
		groupPubKey, err := n.GroupPublicKey(requestID)
		if err != nil {
			return err
		}

		printRespJSON(map[string]interface{}{
			"request_id":       requestID,
			"group_public_key": hex.EncodeToString(groupPubKey),
			"registered":       registered,
		})

		return nil
	},
}

var listGroupsCmd = cli.Command{
	Name:      "list-groups",
	ShortName: "lg",
	Usage:     "List the registered group public keys in registration order.",
	Flags: []cli.Flag{
		homeCliFlag,
		cli.StringFlag{
			Name:     addressFlag,
			Usage:    "The address of the member node",
			Required: true,
		},
	},
	Action: func(ctx *cli.Context) error {
		n, closeNode, err := openNode(ctx)
		if err != nil {
			return err
		}
		defer closeNode()

		keys, err := n.GroupPublicKeys()
		if err != nil {
			return err
		}

		var res []string
		for _, k := range keys {
			res = append(res, hex.EncodeToString(k))
		}

		printRespJSON(map[string][]string{"group_public_keys": res})

		return nil
	},
}

var membershipsCmd = cli.Command{
	Name:      "memberships",
	ShortName: "ms",
	Usage:     "Show the seats the member holds in the selected group of a request and when each may publish.",
	Flags: []cli.Flag{
		daemonAddressCliFlag,
		homeCliFlag,
		requestIDCliFlag,
		cli.StringFlag{
			Name:     addressFlag,
			Usage:    "The address of the member node",
			Required: true,
		},
	},
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
		if req.Group == nil {
			return errorsmod.Wrapf(types.ErrGroupNotSelected, "request %d", req.ID)
		}

		n, closeNode, err := openNode(ctx)
		if err != nil {
			return err
		}
		defer closeNode()

		window := submission.NewWindow(req.Params)
		res := make([]map[string]interface{}, 0)
		for _, m := range n.JoinGroupIfEligible(req.ID, req.Group) {
			res = append(res, map[string]interface{}{
				"request_id":     m.RequestID,
				"member_index":   m.MemberIndex,
				"channel":        m.Channel,
				"eligible_block": window.EligibleBlock(req.BaseBlock, m.MemberIndex),
			})
		}

		printRespJSON(res)

		return nil
	},
}

var publishResultCmd = cli.Command{
	Name:      "publish-result",
	ShortName: "pub",
	Usage:     "Wait for the member's submission window and publish a signed DKG result.",
	Flags: []cli.Flag{
		daemonAddressCliFlag,
		homeCliFlag,
		requestIDCliFlag,
		cli.StringFlag{
			Name:     addressFlag,
			Usage:    "The address of the member node",
			Required: true,
		},
		cli.Uint64Flag{
			Name:  submitterIndexFlag,
			Usage: "The member index to publish under, defaults to the member's lowest seat",
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
		cli.StringFlag{
			Name:  pollIntervalFlag,
			Usage: "The interval between two checks of the submission window",
			Value: defaultPollInterval,
		},
	},
	Action: publishResult,
}

func publishResult(ctx *cli.Context) error {
	pollInterval, err := time.ParseDuration(ctx.String(pollIntervalFlag))
	if err != nil || pollInterval <= 0 {
		return fmt.Errorf("invalid poll interval %q", ctx.String(pollIntervalFlag))
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

	n, closeNode, err := openNode(ctx)
	if err != nil {
		return err
	}
	defer closeNode()

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := log.NewRootLogger("console", "info", os.Stderr)
	if err != nil {
		return err
	}

	publisher := node.NewPublisher(n, c, pollInterval, logger)
	if err := publisher.Publish(runCtx, result); err != nil {
		return err
	}

	submitted, err := c.IsResultSubmitted(runCtx, result.RequestID)
	if err != nil {
		return err
	}

	printRespJSON(map[string]interface{}{
		"request_id": result.RequestID,
		"submitted":  submitted,
	})

	return nil
}
