package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/wadjakorntonsri/go-3dnav/pkg/app"
	"github.com/wadjakorntonsri/go-3dnav/pkg/config"
	"github.com/wadjakorntonsri/go-3dnav/pkg/logger"
)

// cli carries state shared by every subcommand.
type cli struct {
	v   *viper.Viper
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}

	root := &cobra.Command{
		Use:          "navctl",
		Short:        "Manage the 3D design link directory data",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
	}

	root.PersistentFlags().String("data-file", "", "data file path (overrides DATA_FILE)")
	root.PersistentFlags().String("storage", "", "storage mode: auto, file, memory or sqlite (overrides STORAGE_MODE)")
	root.PersistentFlags().String("database-url", "", "database URL for sqlite mode (overrides DATABASE_URL)")
	_ = c.v.BindPFlag("DATA_FILE", root.PersistentFlags().Lookup("data-file"))
	_ = c.v.BindPFlag("STORAGE_MODE", root.PersistentFlags().Lookup("storage"))
	_ = c.v.BindPFlag("DATABASE_URL", root.PersistentFlags().Lookup("database-url"))

	root.AddCommand(
		c.newProbeCmd(),
		c.newSeedCmd(),
		c.newExportCmd(),
		c.newImportCmd(),
		c.newRestoreCmd(),
		c.newSetupAdminCmd(),
	)
	return root
}

func (c *cli) config() (*config.Config, error) {
	cfg, err := config.FromViper(c.v)
	if err != nil {
		return nil, err
	}
	if c.log == nil {
		c.log = logger.New(cfg.AppEnv)
	}
	return cfg, nil
}

func (c *cli) open(ctx context.Context, opts ...app.Option) (*app.App, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg, c.log, opts...)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
