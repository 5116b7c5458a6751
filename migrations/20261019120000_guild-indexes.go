package migrations

import (
	migrate "github.com/eminetto/mongo-migrate"
	"github.com/globalsign/mgo"
)

const guildsCollection = "guilds"

func init() {
	migrate.Register(func(db *mgo.Database) error { //Up
		c := db.C(guildsCollection)
		err := c.EnsureIndex(mgo.Index{
			Name:   "server_name",
			Key:    []string{"server_id", "name"},
			Unique: true,
		})
		if err != nil {
			return err
		}
		return c.EnsureIndex(mgo.Index{
			Name:   "server_leader",
			Key:    []string{"server_id", "leader_id"},
			Unique: true,
		})
	}, func(db *mgo.Database) error { //Down
		c := db.C(guildsCollection)
		if err := c.DropIndexName("server_leader"); err != nil {
			return err
		}
		return c.DropIndexName("server_name")
	})
}
