package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/lightningnetwork/lnd/kvdb"

	"github.com/babylonchain/beacon-committee/util"
)

const (
	defaultDBFileName        = "beacon.db"
	defaultDBTimeout         = 60 * time.Second
	defaultAutoCompactMinAge = 168 * time.Hour
)

// DBConfig configures the bolt backend of the ledger.
type DBConfig struct {
	// DBPath is the directory path in which the database file should be
	// stored.
	DBPath string `long:"dbpath" description:"The directory path in which the database file should be stored."`

	// DBFileName is the name of the database file.
	DBFileName string `long:"dbfilename" description:"The name of the database file."`

	// NoFreelistSync, if true, prevents the database from syncing its
	// freelist to disk, resulting in improved performance at the expense
	// of increased startup time.
	NoFreelistSync bool `long:"nofreelistsync" description:"Prevents the database from syncing its freelist to disk, resulting in improved performance at the expense of increased startup time."`

	// AutoCompact specifies if a Bolt based database backend should be
	// automatically compacted on startup (if the minimum age of the
	// database file is reached). This will require additional disk space
	// for the compacted copy of the database but will result in an overall
	// lower database size after the compaction.
	AutoCompact bool `long:"autocompact" description:"Specifies if a Bolt based database backend should be automatically compacted on startup (if the minimum age of the database file is reached). This will require additional disk space for the compacted copy of the database but will result in an overall lower database size after the compaction."`

	// AutoCompactMinAge specifies the minimum time that must have passed
	// since a bolt database file was last compacted for the compaction to
	// be considered again.
	AutoCompactMinAge time.Duration `long:"autocompactminage" description:"Specifies the minimum time that must have passed since a bolt database file was last compacted for the compaction to be considered again."`

	// DBTimeout specifies the timeout value to use when opening the wallet
	// database.
	DBTimeout time.Duration `long:"dbtimeout" description:"Specifies the timeout value to use when opening the wallet database."`
}

func DefaultDBConfigWithHomePath(homePath string) *DBConfig {
	return &DBConfig{
		DBPath:            DataDir(homePath),
		DBFileName:        defaultDBFileName,
		NoFreelistSync:    true,
		AutoCompact:       false,
		AutoCompactMinAge: defaultAutoCompactMinAge,
		DBTimeout:         defaultDBTimeout,
	}
}

func (cfg *DBConfig) Validate() error {
	if cfg.DBPath == "" {
		return fmt.Errorf("DB path cannot be empty")
	}

	if cfg.DBFileName == "" {
		return fmt.Errorf("DB file name cannot be empty")
	}

	return nil
}

// GetDbBackend opens the bolt database, creating its directory if needed.
func (cfg *DBConfig) GetDbBackend() (kvdb.Backend, error) {
	if err := util.MakeDirectory(cfg.DBPath); err != nil {
		return nil, err
	}

	return kvdb.GetBoltBackend(&kvdb.BoltBackendConfig{
		DBPath:            cfg.DBPath,
		DBFileName:        cfg.DBFileName,
		NoFreelistSync:    cfg.NoFreelistSync,
		AutoCompact:       cfg.AutoCompact,
		AutoCompactMinAge: cfg.AutoCompactMinAge,
		DBTimeout:         cfg.DBTimeout,
	})
}

// NodeDBConfig locates the group registry of a member node.
type NodeDBConfig struct {
	Path       string `long:"path" description:"The path of the node database file"`
	BucketName string `long:"bucketname" description:"The name of the bucket holding the registered groups"`
}

func DefaultNodeDBConfigWithHomePath(homePath string) *NodeDBConfig {
	return &NodeDBConfig{
		Path:       filepath.Join(DataDir(homePath), defaultNodeDBFileName),
		BucketName: defaultNodeBucketName,
	}
}

func (cfg *NodeDBConfig) Validate() error {
	if cfg.Path == "" {
		return fmt.Errorf("node DB path cannot be empty")
	}
	if cfg.BucketName == "" {
		return fmt.Errorf("node bucket name cannot be empty")
	}
	return nil
}
