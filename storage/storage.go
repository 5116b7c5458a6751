package storage

import (
	"github.com/poundbot/guildbot/types"
)

// GuildsStore is for accessing guild records.
//
// All returns every guild on every server.
//
// Upsert creates or replaces a guild, keyed by server ID and name.
//
// Remove deletes a guild. Removing a guild that does not exist is not an
// error.
//
// RemoveServer deletes every guild belonging to a server.
type GuildsStore interface {
	All() ([]types.Guild, error)
	Upsert(types.Guild) error
	Remove(serverID, name string) error
	RemoveServer(serverID string) error
}

// Storage is a complete implementation of the data store.
//
// Init prepares the backend and should always be called when guildbot
// first starts.
//
// Close releases the backend connection.
type Storage interface {
	Init() error
	Close()
	Guilds() GuildsStore
}
