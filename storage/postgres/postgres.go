// Package postgres stores guilds in a PostgreSQL table.
package postgres

import (
	"database/sql"

	// registers the "postgres" driver
	_ "github.com/lib/pq"
	gblog "github.com/poundbot/guildbot/log"
	"github.com/poundbot/guildbot/storage"
	"github.com/poundbot/guildbot/types"
)

var log = gblog.Log.WithField("sys", "PGSQL")

const schema = `
CREATE TABLE IF NOT EXISTS guilds (
    server_id  TEXT NOT NULL,
    name       TEXT NOT NULL,
    leader_id  TEXT NOT NULL,
    role_id    TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (server_id, name),
    UNIQUE (server_id, leader_id)
);`

// A Postgres implements storage.Storage and storage.GuildsStore.
type Postgres struct {
	db *sql.DB
}

// NewPostgres opens a connection pool for dsn.
func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return &Postgres{db: db}, nil
}

// Init implements storage.Storage.Init
func (p *Postgres) Init() error {
	_, err := p.db.Exec(schema)
	return err
}

// Close implements storage.Storage.Close
func (p *Postgres) Close() {
	if err := p.db.Close(); err != nil {
		log.WithError(err).Warn("Close failed")
	}
}

// Guilds implements storage.Storage.Guilds
func (p *Postgres) Guilds() storage.GuildsStore {
	return p
}

// All implements storage.GuildsStore.All
func (p *Postgres) All() ([]types.Guild, error) {
	rows, err := p.db.Query("SELECT server_id, name, leader_id, role_id, created_at, updated_at FROM guilds")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var guilds []types.Guild
	for rows.Next() {
		var g types.Guild
		if err := rows.Scan(&g.ServerID, &g.Name, &g.LeaderID, &g.RoleID, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		guilds = append(guilds, g)
	}
	return guilds, rows.Err()
}

// Upsert implements storage.GuildsStore.Upsert
func (p *Postgres) Upsert(g types.Guild) error {
	_, err := p.db.Exec(
		`INSERT INTO guilds (server_id, name, leader_id, role_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (server_id, name) DO UPDATE
		SET leader_id = $3, role_id = $4, updated_at = $6`,
		g.ServerID, g.Name, g.LeaderID, g.RoleID, g.CreatedAt, g.UpdatedAt,
	)
	return err
}

// Remove implements storage.GuildsStore.Remove
func (p *Postgres) Remove(serverID, name string) error {
	_, err := p.db.Exec("DELETE FROM guilds WHERE server_id = $1 AND name = $2", serverID, name)
	return err
}

// RemoveServer implements storage.GuildsStore.RemoveServer
func (p *Postgres) RemoveServer(serverID string) error {
	_, err := p.db.Exec("DELETE FROM guilds WHERE server_id = $1", serverID)
	return err
}
