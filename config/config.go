package config

import (
	"fmt"
	"net"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/ethereum/go-ethereum/common"
	"github.com/jessevdk/go-flags"

	"github.com/babylonchain/beacon-committee/metrics"
	"github.com/babylonchain/beacon-committee/types"
	"github.com/babylonchain/beacon-committee/util"
)

const (
	defaultLogLevel         = "info"
	defaultLogFormat        = "auto"
	defaultLogDirname       = "logs"
	defaultLogFilename      = "beacond.log"
	defaultConfigFileName   = "beacond.conf"
	defaultLockFileName     = "beacond.lock"
	defaultDataDirname      = "data"
	defaultKeysDirname      = "keys"
	defaultNodeDBFileName   = "node.db"
	defaultNodeBucketName   = "groups"
	DefaultRPCPort          = 12681
	defaultMinimumStake     = "200000"
	defaultSignerCacheSize  = 1024
	defaultBlockTime        = 5 * time.Second
	defaultPollInterval     = 1 * time.Second
	defaultStartHeight      = 1
	defaultEarlyGroupClosed = false
)

var (
	//   C:\Users\<username>\AppData\Local\Beacond on Windows
	//   ~/.beacond on Linux
	//   ~/Library/Application Support/Beacond on MacOS
	DefaultBeacondDir = btcutil.AppDataDir("beacond", false)

	DefaultRpcListener = "127.0.0.1:" + strconv.Itoa(DefaultRPCPort)
)

// Config is the main config for the beacond daemon
type Config struct {
	LogLevel  string `long:"loglevel" description:"Logging level for all subsystems" choice:"debug" choice:"info" choice:"warn" choice:"error" choice:"fatal"`
	LogFormat string `long:"logformat" description:"Format of the log output" choice:"auto" choice:"console" choice:"json" choice:"logfmt"`

	MinimumStake    string `long:"minimumstake" description:"The stake a single virtual staker is worth; a staker submits one ticket per minimum stake it holds"`
	EarlyClosure    bool   `long:"earlyclosure" description:"Select the group as soon as group size distinct stakers hold a retained ticket instead of waiting for the ticket submission timeout"`
	SignerCacheSize int    `long:"signercachesize" description:"The number of recovered DKG result signers kept in memory, 0 disables the cache"`

	RpcListener string `long:"rpclistener" description:"the listener for RPC connections, e.g., 127.0.0.1:1234"`

	GroupConfig *GroupConfig `group:"group" namespace:"group"`

	ChainConfig *ChainConfig `group:"chain" namespace:"chain"`

	DatabaseConfig *DBConfig `group:"dbconfig" namespace:"dbconfig"`

	Metrics *metrics.Config `group:"metrics" namespace:"metrics"`
}

// GroupConfig holds the parameters every new group request is created with.
type GroupConfig struct {
	Size                    uint64 `long:"size" description:"The number of members of a selected group"`
	Threshold               uint64 `long:"threshold" description:"The minimum number of member signatures a DKG result needs"`
	ChallengePeriod         uint64 `long:"challengeperiod" description:"The number of blocks after the group selection before any DKG result may be published"`
	DkgPeriod               uint64 `long:"dkgperiod" description:"The number of blocks reserved for the key generation"`
	ResultPublicationStep   uint64 `long:"resultpublicationstep" description:"The number of blocks between the publication windows of two consecutive members"`
	TicketSubmissionTimeout uint64 `long:"ticketsubmissiontimeout" description:"The number of blocks tickets are accepted for after a group is requested"`
}

func DefaultGroupConfig() *GroupConfig {
	p := types.DefaultGroupParams()
	return &GroupConfig{
		Size:                    p.GroupSize,
		Threshold:               p.GroupThreshold,
		ChallengePeriod:         p.ChallengePeriod,
		DkgPeriod:               p.DkgPeriod,
		ResultPublicationStep:   p.ResultPublicationStep,
		TicketSubmissionTimeout: p.TicketSubmissionTimeout,
	}
}

func (cfg *GroupConfig) ToParams() types.GroupParams {
	return types.GroupParams{
		GroupSize:               cfg.Size,
		GroupThreshold:          cfg.Threshold,
		ChallengePeriod:         cfg.ChallengePeriod,
		DkgPeriod:               cfg.DkgPeriod,
		ResultPublicationStep:   cfg.ResultPublicationStep,
		TicketSubmissionTimeout: cfg.TicketSubmissionTimeout,
	}
}

// ChainConfig configures the local development chain the daemon runs on.
type ChainConfig struct {
	StartHeight  uint64        `long:"startheight" description:"The height of the local chain on first start; later starts resume from the last height seen by the ledger"`
	BlockTime    time.Duration `long:"blocktime" description:"The interval between two blocks of the local chain"`
	PollInterval time.Duration `long:"pollinterval" description:"The interval between each check for group requests whose ticket submission timed out"`
	Stakes       []string      `long:"stake" description:"Initial stake of the local chain as <address>=<amount>, may be repeated"`
}

func DefaultChainConfig() *ChainConfig {
	return &ChainConfig{
		StartHeight:  defaultStartHeight,
		BlockTime:    defaultBlockTime,
		PollInterval: defaultPollInterval,
	}
}

// ParseStakes parses the configured initial stakes.
func (cfg *ChainConfig) ParseStakes() (map[common.Address]sdkmath.Int, error) {
	stakes := make(map[common.Address]sdkmath.Int, len(cfg.Stakes))
	for _, entry := range cfg.Stakes {
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid stake entry %q, expected <address>=<amount>", entry)
		}
		if !common.IsHexAddress(parts[0]) {
			return nil, fmt.Errorf("invalid staker address %q", parts[0])
		}
		amount, ok := sdkmath.NewIntFromString(parts[1])
		if !ok || amount.IsNegative() {
			return nil, fmt.Errorf("invalid stake amount %q", parts[1])
		}
		stakes[common.HexToAddress(parts[0])] = amount
	}
	return stakes, nil
}

func DefaultConfigWithHome(homePath string) Config {
	cfg := Config{
		LogLevel:        defaultLogLevel,
		LogFormat:       defaultLogFormat,
		MinimumStake:    defaultMinimumStake,
		EarlyClosure:    defaultEarlyGroupClosed,
		SignerCacheSize: defaultSignerCacheSize,
		RpcListener:     DefaultRpcListener,
		GroupConfig:     DefaultGroupConfig(),
		ChainConfig:     DefaultChainConfig(),
		DatabaseConfig:  DefaultDBConfigWithHomePath(homePath),
		Metrics:         metrics.DefaultBeaconConfig(),
	}

	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	return cfg
}

func DefaultConfig() Config {
	return DefaultConfigWithHome(DefaultBeacondDir)
}

func ConfigFile(homePath string) string {
	return filepath.Join(homePath, defaultConfigFileName)
}

// LockFile is held by the running daemon of the home directory.
func LockFile(homePath string) string {
	return filepath.Join(homePath, defaultLockFileName)
}

func LogDir(homePath string) string {
	return filepath.Join(homePath, defaultLogDirname)
}

func LogFile(homePath string) string {
	return filepath.Join(LogDir(homePath), defaultLogFilename)
}

func DataDir(homePath string) string {
	return filepath.Join(homePath, defaultDataDirname)
}

func KeysDir(homePath string) string {
	return filepath.Join(homePath, defaultKeysDirname)
}

// LoadConfig initializes and parses the config using the config file under
// the home directory, on top of the defaults.
func LoadConfig(homePath string) (*Config, error) {
	// The home directory is required to have a configuration file with a specific name
	// under it.
	cfgFile := ConfigFile(homePath)
	if !util.FileExists(cfgFile) {
		return nil, fmt.Errorf("specified config file does "+
			"not exist in %s", cfgFile)
	}

	cfg := DefaultConfigWithHome(homePath)
	fileParser := flags.NewParser(&cfg, flags.Default)
	err := flags.NewIniParser(fileParser).ParseFile(cfgFile)
	if err != nil {
		return nil, err
	}

	// Make sure everything we just loaded makes sense.
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// WriteConfig writes the config with its descriptions and defaults to the
// config file under the home directory.
func WriteConfig(cfg *Config, homePath string) error {
	fileParser := flags.NewParser(cfg, flags.Default)
	return flags.NewIniParser(fileParser).WriteFile(ConfigFile(homePath), flags.IniIncludeComments|flags.IniIncludeDefaults)
}

// MinimumStakeAmount returns the parsed minimum stake. Validate guarantees
// it is positive.
func (cfg *Config) MinimumStakeAmount() sdkmath.Int {
	amount, _ := sdkmath.NewIntFromString(cfg.MinimumStake)
	return amount
}

// Validate checks the given configuration to be sane. This makes sure no
// illegal values or combination of values are set.
func (cfg *Config) Validate() error {
	amount, ok := sdkmath.NewIntFromString(cfg.MinimumStake)
	if !ok || !amount.IsPositive() {
		return fmt.Errorf("invalid minimum stake %q", cfg.MinimumStake)
	}

	if cfg.SignerCacheSize < 0 {
		return fmt.Errorf("invalid signer cache size %d", cfg.SignerCacheSize)
	}

	if cfg.GroupConfig == nil {
		return fmt.Errorf("empty group config")
	}
	if err := cfg.GroupConfig.ToParams().Validate(); err != nil {
		return err
	}

	if cfg.ChainConfig == nil {
		return fmt.Errorf("empty chain config")
	}
	if cfg.ChainConfig.BlockTime <= 0 || cfg.ChainConfig.PollInterval <= 0 {
		return fmt.Errorf("block time and poll interval must be positive")
	}
	if _, err := cfg.ChainConfig.ParseStakes(); err != nil {
		return err
	}

	if cfg.DatabaseConfig == nil {
		return fmt.Errorf("empty database config")
	}
	if err := cfg.DatabaseConfig.Validate(); err != nil {
		return fmt.Errorf("invalid database config: %w", err)
	}

	_, err := net.ResolveTCPAddr("tcp", cfg.RpcListener)
	if err != nil {
		return fmt.Errorf("invalid RPC listener address %s, %w", cfg.RpcListener, err)
	}

	if cfg.Metrics == nil {
		return fmt.Errorf("empty metrics config")
	}

	if err := cfg.Metrics.Validate(); err != nil {
		return fmt.Errorf("invalid metrics config: %w", err)
	}

	// All good, return the sanitized result.
	return nil
}
