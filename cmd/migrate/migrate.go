package main

import (
	"crypto/tls"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"

	migrate "github.com/eminetto/mongo-migrate"
	"github.com/globalsign/mgo"
	_ "github.com/poundbot/guildbot/migrations"
	"github.com/poundbot/guildbot/storage/mongodb"
	"github.com/spf13/viper"
)

var (
	configLocation = flag.String("c", ".", "The config.json location")
)

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatal("Missing options: up or down")
	}
	option := flag.Arg(0)

	viper.SetConfigFile(fmt.Sprintf("%s/config.json", filepath.Clean(*configLocation)))
	viper.SetDefault("mongo.dial", "mongodb://localhost")
	viper.SetDefault("mongo.database", "guildbot")

	err := viper.ReadInConfig() // Find and read the config file
	if err != nil {             // Handle errors reading the config file
		log.Fatalf("fatal error config file: %s", err)
	}

	mc, err := mongodb.ParseDialURL(viper.GetString("mongo.dial"))
	if err != nil {
		log.Fatal(err)
	}

	dialInfo, err := mgo.ParseURL(mc.DialAddress)
	if err != nil {
		log.Fatal(err)
	}
	if mc.SSL {
		dialInfo.DialServer = func(addr *mgo.ServerAddr) (net.Conn, error) {
			tlsConfig := &tls.Config{
				InsecureSkipVerify: mc.InsecureSSL,
			}
			conn, err := tls.Dial("tcp", addr.String(), tlsConfig)
			if err != nil {
				log.Println(err)
			}
			return conn, err
		}
	}

	sess, err := mgo.DialWithInfo(dialInfo)
	if err != nil {
		log.Fatal(err)
	}
	defer sess.Close()

	migrate.SetDatabase(sess.DB(viper.GetString("mongo.database")))
	migrate.SetMigrationsCollection("migrations")
	migrate.SetLogger(log.New(os.Stdout, "INFO: ", 0))
	switch option {
	case "up":
		err = migrate.Up(migrate.AllAvailable)
	case "down":
		err = migrate.Down(migrate.AllAvailable)
	default:
		log.Fatalf("Unknown option %q: up or down", option)
	}
	if err != nil {
		log.Fatal(err.Error())
	}
}
