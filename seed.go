package main

import (
	"context"

	"filmnights-bot/internal/config"
	"filmnights-bot/internal/database"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

func makeSeedCMD() cli.Command {
	seedCMD := cli.Command{
		Name:   "seed",
		Usage:  "Creates the schema, registers configured admins and default post types",
		Action: seed,
	}
	seedCMD.Flags = config.RegisterFlags(seedCMD.Flags)
	return seedCMD
}

func seed(c *cli.Context) error {
	cfg, err := config.FromContext(c)
	if err != nil {
		return err
	}
	setupLogging(cfg)

	ctx := context.Background()
	store, err := database.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := database.Seed(ctx, store, cfg.AdminIDs, database.DefaultPostTypes); err != nil {
		return err
	}
	log.Info("seed finished")
	return nil
}
