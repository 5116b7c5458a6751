package mongodb

import (
	"context"

	"github.com/poundbot/guildbot/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// A Guilds implements storage.GuildsStore
type Guilds struct {
	collection *mongo.Collection
}

// All implements storage.GuildsStore.All
func (g Guilds) All() ([]types.Guild, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	cur, err := g.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	var guilds []types.Guild
	if err := cur.All(ctx, &guilds); err != nil {
		return nil, err
	}
	return guilds, nil
}

// Upsert implements storage.GuildsStore.Upsert
func (g Guilds) Upsert(guild types.Guild) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := g.collection.ReplaceOne(
		ctx,
		bson.M{"server_id": guild.ServerID, "name": guild.Name},
		guild,
		options.Replace().SetUpsert(true),
	)
	return err
}

// Remove implements storage.GuildsStore.Remove
func (g Guilds) Remove(serverID, name string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := g.collection.DeleteOne(ctx, bson.M{"server_id": serverID, "name": name})
	return err
}

// RemoveServer implements storage.GuildsStore.RemoveServer
func (g Guilds) RemoveServer(serverID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := g.collection.DeleteMany(ctx, bson.M{"server_id": serverID})
	return err
}
