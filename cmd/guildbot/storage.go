package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/poundbot/guildbot/guilds"
	"github.com/poundbot/guildbot/storage"
	"github.com/poundbot/guildbot/storage/jsonstore"
	"github.com/poundbot/guildbot/storage/mongodb"
	"github.com/poundbot/guildbot/storage/postgres"
	"github.com/poundbot/guildbot/types"
	"github.com/spf13/viper"
)

const (
	storageJSON     = "json"
	storageMongoDB  = "mongodb"
	storagePostgres = "postgres"
)

// openStorage creates and initializes the backend named by the storage key.
func openStorage(cfg *viper.Viper) (storage.Storage, error) {
	var store storage.Storage

	switch backend := cfg.GetString("storage"); backend {
	case storageJSON:
		store = jsonstore.NewJSON(cfg.GetString("json.path"))
	case storageMongoDB:
		mc, err := mongodb.ParseDialURL(cfg.GetString("mongo.dial"))
		if err != nil {
			return nil, err
		}
		mc.Database = cfg.GetString("mongo.database")
		m, err := mongodb.NewMongoDB(*mc)
		if err != nil {
			return nil, err
		}
		store = m
	case storagePostgres:
		p, err := postgres.NewPostgres(cfg.GetString("postgres.dsn"))
		if err != nil {
			return nil, err
		}
		store = p
	default:
		return nil, fmt.Errorf("unknown storage %q", backend)
	}

	if err := store.Init(); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

type guildImporter interface {
	Import([]types.Guild) (int, error)
}

// importLegacy reads a legacy settings file and adds its guilds.
func importLegacy(gi guildImporter, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var ls types.LegacySettings
	if err := json.NewDecoder(f).Decode(&ls); err != nil {
		return 0, fmt.Errorf("decoding %s: %w", path, err)
	}
	return gi.Import(ls.Guilds())
}

var _ guildImporter = (*guilds.Registry)(nil)
