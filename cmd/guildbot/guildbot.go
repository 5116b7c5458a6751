package main

import (
	"flag"
	"fmt"
	"strings"

	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/poundbot/guildbot/api"
	"github.com/poundbot/guildbot/discord"
	"github.com/poundbot/guildbot/guilds"
	gblog "github.com/poundbot/guildbot/log"
	"github.com/spf13/viper"
)

var (
	version          = "DEVEL"
	buildstamp       = "NOWISH, I GUESS"
	githash          = "GIT HASHY WITH IT"
	versionFlag      = flag.Bool("v", false, "Displays the version and then quits")
	configLocation   = flag.String("c", ".", "The config.json location")
	writeConfig      = flag.Bool("w", false, "Writes a config and exits")
	writeConfigForce = flag.Bool("init", false, "Forces writing of config and exits\nWARNING! This will destroy your config file")
	importFile       = flag.String("import", "", "Imports guilds from a legacy settings file and exits")
	wg               sync.WaitGroup
	killChan         = make(chan struct{})
	log              = gblog.Log
)

type service interface {
	Start() error
	Stop()
}

func newServerConfig(cfg *viper.Viper) api.ServerConfig {
	return api.ServerConfig{
		BindAddr: cfg.GetString("http.bind_addr"),
		Port:     cfg.GetInt("http.port"),
		APIKey:   cfg.GetString("http.api_key"),
	}
}

func newRunnerConfig(cfg *viper.Viper) discord.RunnerConfig {
	return discord.RunnerConfig{
		Token:          cfg.GetString("discord.token"),
		Prefix:         cfg.GetString("discord.prefix"),
		ModeratorRoles: cfg.GetStringSlice("discord.moderator_roles"),
		RoleColor:      cfg.GetString("guilds.role_color"),
	}
}

func start(s service, name string) error {
	if err := s.Start(); err != nil {
		log.Warnf("Failed to start %s: %s", name, err)
		return fmt.Errorf("failed to start service %s: %w", name, err)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-killChan
		log.Printf("Requesting %s shutdown...", name)
		s.Stop()
	}()

	return nil
}

func versionString() string {
	return fmt.Sprintf("GuildBot %s (%s @ %s)", version, buildstamp, githash)
}

func main() {
	flag.Parse()

	log.Println(versionString())
	if *versionFlag {
		return
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Could not load .env")
	}

	viper.SetConfigFile(fmt.Sprintf("%s/config.json", filepath.Clean(*configLocation)))
	viper.SetDefault("discord.token", "YOUR DISCORD BOT AUTH TOKEN")
	viper.SetDefault("discord.prefix", "!")
	viper.SetDefault("discord.moderator_roles", []string{})
	viper.SetDefault("guilds.role_color", "")
	viper.SetDefault("storage", storageJSON)
	viper.SetDefault("json.path", "data/guild")
	viper.SetDefault("mongo.dial", "mongodb://localhost:27017")
	viper.SetDefault("mongo.database", "guildbot")
	viper.SetDefault("postgres.dsn", "postgres://localhost/guildbot?sslmode=disable")
	viper.SetDefault("http.enabled", false)
	viper.SetDefault("http.bind_addr", "")
	viper.SetDefault("http.port", 9090)
	viper.SetDefault("http.api_key", "")
	viper.SetDefault("profiler.enabled", false)
	viper.SetDefault("profiler.port", 6061)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if *writeConfigForce {
		*writeConfig = true
	} else {
		err := viper.ReadInConfig() // Find and read the config file
		if err != nil {
			log.Println(err)
			flag.Usage()
			os.Exit(1)
		}
	}

	if *writeConfig {
		err := viper.WriteConfig()
		if err != nil {
			log.Fatalf("Could not write config: %s", err)
		}
		log.Printf("Wrote new config file to %s", viper.ConfigFileUsed())
		os.Exit(0)
	}

	if viper.GetBool("profiler.enabled") {
		go func() {
			log.Fatal(http.ListenAndServe("localhost:"+viper.GetString("profiler.port"), nil))
		}()
	}

	store, err := openStorage(viper.GetViper())
	if err != nil {
		log.Fatalf("Could not open storage: %v", err)
	}
	defer store.Close()

	dr, err := discord.NewRunner(newRunnerConfig(viper.GetViper()))
	if err != nil {
		log.Fatalf("Could not create Discord session: %v", err)
	}

	registry, err := guilds.NewRegistry(dr.Platform(), store.Guilds())
	if err != nil {
		log.Fatalf("Could not load guilds: %v", err)
	}

	if *importFile != "" {
		added, err := importLegacy(registry, *importFile)
		if err != nil {
			log.Fatalf("Import failed after %d guilds: %v", added, err)
		}
		log.Printf("Imported %d guilds from %s", added, *importFile)
		return
	}

	dr.SetRegistry(registry)

	servicesCount := 0

	// Discord server
	if err := start(dr, "Discord"); err != nil {
		log.Fatalf("Could not start Discord, %v", err)
	}
	servicesCount++

	// HTTP API server
	if viper.GetBool("http.enabled") {
		sc := newServerConfig(viper.GetViper())
		if sc.APIKey == "" {
			log.Fatal("http.api_key must be set when http.enabled is true")
		}
		if err := start(api.NewServer(sc, registry), "HTTP Server"); err != nil {
			log.Fatalf("Could not start HTTP server, %v\n", err)
		}
		servicesCount++
	}

	sc := make(chan os.Signal, 1)
	signal.Notify(
		sc,
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGHUP,
		os.Interrupt,
	)
	<-sc

	log.Warn("Stopping...")
	for i := 0; i < servicesCount; i++ {
		go func() { killChan <- struct{}{} }()
	}

	wg.Wait()
}
