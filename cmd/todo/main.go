package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/Joseda-hg/todo/internal/cli"
	"github.com/Joseda-hg/todo/internal/config"
	"github.com/Joseda-hg/todo/internal/db"
	"github.com/Joseda-hg/todo/internal/exitcode"
	"github.com/Joseda-hg/todo/internal/jsonl"
	"github.com/Joseda-hg/todo/internal/tasks"
)

func main() {
	configPathFlag := flag.String("config", "", "config file path")
	backendFlag := flag.String("backend", "", "task store backend: sqlite or file")
	dbPathFlag := flag.String("db", "", "sqlite db path")
	filePathFlag := flag.String("file", "", "task file path for the file backend")
	flag.Parse()

	cfgPath, err := resolveConfigPath(*configPathFlag)
	if err != nil {
		log.Fatal(err)
	}

	flags := config.Config{
		Backend:  *backendFlag,
		DBPath:   *dbPathFlag,
		FilePath: *filePathFlag,
	}
	cfg, err := config.Prepare(cfgPath, flags, ".env")
	if err != nil {
		configError(err)
	}

	dispatcher := cli.NewDispatcher(storeFactory(cfg))
	os.Exit(dispatcher.Run(context.Background(), flag.Args(), os.Stdout, os.Stderr))
}

func configError(err error) {
	log.Print(err)
	os.Exit(exitcode.ConfigError)
}

func resolveConfigPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	return config.DefaultConfigPath()
}

func storeFactory(cfg config.Config) cli.StoreFactory {
	return func(ctx context.Context) (tasks.Store, []tasks.LoadWarning, error) {
		if err := config.EnsureDir(cfg.DataPath()); err != nil {
			return nil, nil, err
		}

		if cfg.Backend == config.BackendFile {
			store, warnings, err := jsonl.Open(cfg.FilePath)
			if err != nil {
				return nil, nil, err
			}
			return store, warnings, nil
		}

		sqlDB, err := db.Open(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		return db.NewStore(sqlDB), nil, nil
	}
}
