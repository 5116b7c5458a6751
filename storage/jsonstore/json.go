// Package jsonstore keeps guilds in JSON files, one file per Discord server.
package jsonstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/blang/semver"
	scribble "github.com/nanobox-io/golang-scribble"
	gblog "github.com/poundbot/guildbot/log"
	"github.com/poundbot/guildbot/storage"
	"github.com/poundbot/guildbot/types"
)

var log = gblog.Log.WithField("sys", "JSON")

const (
	guildsCollection = "guilds"
	metaCollection   = "meta"
	schemaResource   = "schema"
)

// SchemaVersion is the layout version written to new data directories.
var SchemaVersion = semver.Version{Major: 1}

type schema struct {
	Version string `json:"version"`
}

// A JSON implements storage.Storage and storage.GuildsStore on a directory of
// JSON files.
type JSON struct {
	dataPath string
	driver   *scribble.Driver
	mux      sync.Mutex
	d        types.Registry
}

// NewJSON returns a store rooted at dataPath. Init must be called before use.
func NewJSON(dataPath string) *JSON {
	return &JSON{dataPath: dataPath, d: types.Registry{}}
}

// Guilds implements storage.Storage.Guilds
func (j *JSON) Guilds() storage.GuildsStore {
	return j
}

// Init implements storage.Storage.Init
func (j *JSON) Init() error {
	j.mux.Lock()
	defer j.mux.Unlock()

	for _, name := range []string{guildsCollection, metaCollection} {
		if err := os.MkdirAll(filepath.Join(j.dataPath, name), os.ModePerm); err != nil {
			return fmt.Errorf("jsonstore: creating %s: %w", name, err)
		}
	}

	driver, err := scribble.New(j.dataPath, nil)
	if err != nil {
		return fmt.Errorf("jsonstore: %w", err)
	}
	j.driver = driver

	if err := j.checkSchema(); err != nil {
		return err
	}

	records, err := j.driver.ReadAll(guildsCollection)
	if err != nil {
		return fmt.Errorf("jsonstore: reading guilds: %w", err)
	}

	// Slurp in guilds
	j.d = types.Registry{}
	for _, f := range records {
		var sg types.ServerGuilds
		if err := json.Unmarshal([]byte(f), &sg); err != nil {
			log.WithError(err).Error("Skipping unreadable guilds record")
			continue
		}
		for _, g := range sg {
			j.d.Set(g)
		}
	}
	log.WithField("path", j.dataPath).Infof("Loaded guilds for %d servers", len(j.d))
	return nil
}

func (j *JSON) checkSchema() error {
	var s schema
	err := j.driver.Read(metaCollection, schemaResource, &s)
	if os.IsNotExist(err) {
		return j.driver.Write(metaCollection, schemaResource, schema{Version: SchemaVersion.String()})
	}
	if err != nil {
		return fmt.Errorf("jsonstore: reading schema: %w", err)
	}

	v, err := semver.Make(s.Version)
	if err != nil {
		return fmt.Errorf("jsonstore: invalid schema version %q: %w", s.Version, err)
	}
	if v.Major != SchemaVersion.Major {
		return fmt.Errorf("jsonstore: data schema %s is not compatible with %s", v, SchemaVersion)
	}
	return nil
}

// All implements storage.GuildsStore.All
func (j *JSON) All() ([]types.Guild, error) {
	j.mux.Lock()
	defer j.mux.Unlock()

	var out []types.Guild
	for _, sg := range j.d {
		for _, g := range sg {
			out = append(out, g)
		}
	}
	return out, nil
}

// Upsert implements storage.GuildsStore.Upsert
func (j *JSON) Upsert(g types.Guild) error {
	j.mux.Lock()
	defer j.mux.Unlock()

	sg := j.serverCopy(g.ServerID)
	sg[g.Name] = g
	if err := j.driver.Write(guildsCollection, g.ServerID, sg); err != nil {
		return err
	}
	j.d[g.ServerID] = sg
	return nil
}

// Remove implements storage.GuildsStore.Remove
func (j *JSON) Remove(serverID, name string) error {
	j.mux.Lock()
	defer j.mux.Unlock()

	sg := j.serverCopy(serverID)
	delete(sg, name)
	if len(sg) == 0 {
		return j.removeServer(serverID)
	}
	if err := j.driver.Write(guildsCollection, serverID, sg); err != nil {
		return err
	}
	j.d[serverID] = sg
	return nil
}

// RemoveServer implements storage.GuildsStore.RemoveServer
func (j *JSON) RemoveServer(serverID string) error {
	j.mux.Lock()
	defer j.mux.Unlock()
	return j.removeServer(serverID)
}

func (j *JSON) removeServer(serverID string) error {
	if _, ok := j.d[serverID]; !ok {
		return nil
	}
	if err := j.driver.Delete(guildsCollection, serverID); err != nil {
		return err
	}
	delete(j.d, serverID)
	return nil
}

func (j *JSON) serverCopy(serverID string) types.ServerGuilds {
	sg := types.ServerGuilds{}
	for name, g := range j.d[serverID] {
		sg[name] = g
	}
	return sg
}

// Close does nothing
func (j *JSON) Close() {}
