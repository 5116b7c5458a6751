package mongodb

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"time"

	gblog "github.com/poundbot/guildbot/log"
	"github.com/poundbot/guildbot/storage"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var log = gblog.Log.WithField("sys", "MONGO")

const guildsCollection = "guilds"

const opTimeout = 10 * time.Second

// A Config is exactly what it sounds like.
type Config struct {
	DialAddress string // the mongo dial address
	Database    string // the database name
	SSL         bool
	InsecureSSL bool
}

// ParseDialURL splits the TLS flags out of a mongodb:// URL. Other query
// options are kept in DialAddress.
func ParseDialURL(dialURL string) (*Config, error) {
	u, err := url.Parse(dialURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "mongodb" && u.Scheme != "mongodb+srv" {
		return nil, fmt.Errorf("invalid mongo scheme %q", u.Scheme)
	}

	q := u.Query()
	c := Config{
		SSL:         q.Get("ssl") == "true" || q.Get("tls") == "true",
		InsecureSSL: q.Get("tlsInsecure") == "true",
	}
	for _, k := range []string{"ssl", "tls", "tlsInsecure"} {
		q.Del(k)
	}
	u.RawQuery = q.Encode()
	c.DialAddress = u.String()
	return &c, nil
}

// NewMongoDB returns a connected MongoDB
func NewMongoDB(mc Config) (*MongoDB, error) {
	dc, err := ParseDialURL(mc.DialAddress)
	if err != nil {
		return nil, err
	}
	dc.Database = mc.Database
	dc.SSL = dc.SSL || mc.SSL
	dc.InsecureSSL = dc.InsecureSSL || mc.InsecureSSL

	opts := options.Client().ApplyURI(dc.DialAddress)
	if dc.SSL {
		opts.SetTLSConfig(&tls.Config{InsecureSkipVerify: dc.InsecureSSL})
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, err
	}

	return &MongoDB{client: client, dbname: dc.Database}, nil
}

// A MongoDB implements storage.Storage for MongoDB
type MongoDB struct {
	dbname string
	client *mongo.Client
}

// Guilds implements storage.Storage.Guilds
func (m *MongoDB) Guilds() storage.GuildsStore {
	return Guilds{collection: m.client.Database(m.dbname).Collection(guildsCollection)}
}

// Init implements storage.Storage.Init. Indexes are managed by cmd/migrate.
func (m *MongoDB) Init() error {
	log.Printf("Database is %s", m.dbname)
	return nil
}

// Close implements storage.Storage.Close
func (m *MongoDB) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := m.client.Disconnect(ctx); err != nil {
		log.WithError(err).Warn("Disconnect failed")
	}
}
