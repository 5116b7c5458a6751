package migrations

import (
	"time"

	migrate "github.com/eminetto/mongo-migrate"
	"github.com/globalsign/mgo"
	"github.com/globalsign/mgo/bson"
)

// Guild documents written by hand or by older imports may lack timestamps.
func init() {
	migrate.Register(func(db *mgo.Database) error { //Up
		now := time.Now().UTC()
		_, err := db.C(guildsCollection).UpdateAll(
			bson.M{"created_at": bson.M{"$exists": false}},
			bson.M{"$set": bson.M{"created_at": now, "updated_at": now}},
		)
		return err
	}, func(db *mgo.Database) error { //Down
		return nil
	})
}
