package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/gatehouse/gatehouse"
	"github.com/gatehouse/gatehouse/config"
)

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func main() {
	configPath := flag.String("config", "", "path to TOML config file, defaults apply when empty")
	dbPath := flag.String("db", "", "path to the SQLite database file, overrides the config")
	envPath := flag.String("env", ".env", "path to the env file with provider and SMTP credentials")
	flag.Parse()

	// A missing env file is fine, credentials can come from the real
	// environment.
	if err := godotenv.Load(*envPath); err != nil && !os.IsNotExist(err) {
		fatal("failed to load env file %s: %v", *envPath, err)
	}

	dbFile := *dbPath
	if dbFile == "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			fatal("failed to load config: %v", err)
		}
		dbFile = cfg.DBPath
	}

	pool, err := gatehouse.NewZombiezenPool(dbFile)
	if err != nil {
		fatal("failed to open database %s: %v", dbFile, err)
	}
	defer pool.Close()

	if err := gatehouse.ApplyMigrations(pool); err != nil {
		fatal("failed to apply migrations: %v", err)
	}

	_, srv, err := gatehouse.New(*configPath, pool, gatehouse.WithPhusLogger(nil))
	if err != nil {
		fatal("failed to initialize application: %v", err)
	}

	if err := srv.Run(); err != nil {
		os.Exit(1)
	}
}
