package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/mytheresa/go-shop-orders/app/config"
	"github.com/mytheresa/go-shop-orders/app/database"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const usage = `usage: migrate [-env file] <command>

commands:
  up          apply all pending migrations
  down [n]    roll back n migrations (default 1)
  version     print the current schema version
`

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	log.Logger = log.With().Str("service", "shop-orders-migrate").Logger()

	envFile := flag.String("env", ".env", "dotenv file to load before reading the environment")
	flag.Usage = func() { fmt.Fprint(flag.CommandLine.Output(), usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	m, err := database.NewMigrator(cfg.Postgres)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to prepare migrations")
	}
	defer m.Close()

	if err := run(m, flag.Args()); err != nil {
		log.Error().Err(err).Str("command", flag.Arg(0)).Msg("migration failed")
		m.Close()
		os.Exit(1)
	}
}

func run(m *database.Migrator, args []string) error {
	switch args[0] {
	case "up":
		return m.Up()
	case "down":
		n := 1
		if len(args) > 1 {
			v, err := strconv.Atoi(args[1])
			if err != nil || v < 1 {
				return fmt.Errorf("invalid step count %q", args[1])
			}
			n = v
		}
		if err := m.Steps(-n); err != nil {
			return err
		}
		log.Info().Int("steps", n).Msg("migrations rolled back")
		return nil
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		fmt.Printf("version %d (dirty: %t)\n", version, dirty)
		return nil
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}
