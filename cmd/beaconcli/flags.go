package main

import (
	"strconv"

	"github.com/babylonchain/beacon-committee/config"
)

const (
	daemonAddressFlag   = "daemon-address"
	homeFlag            = "home"
	requestIDFlag       = "request-id"
	seedFlag            = "seed"
	ownerFlag           = "owner"
	virtualIndexFlag    = "virtual-index"
	weightFlag          = "weight"
	callerFlag          = "caller"
	submitterIndexFlag  = "submitter-index"
	groupPubKeyFlag     = "group-pubkey"
	disqualifiedFlag    = "disqualified"
	inactiveFlag        = "inactive"
	signaturesFlag      = "signatures"
	signingIndicesFlag  = "signing-indices"
	addressFlag         = "address"
	passphraseFlag      = "passphrase"
	privKeyFlag         = "priv-key"
	pollIntervalFlag    = "poll-interval"
	stateFlag           = "state"
	defaultPassphrase   = ""
	defaultPollInterval = "1s"
)

var defaultDaemonAddress = "127.0.0.1:" + strconv.Itoa(config.DefaultRPCPort)
