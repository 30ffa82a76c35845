package main

import (
	"fmt"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/wadjakorntonsri/go-3dnav/pkg/adapters/environment"
	"github.com/wadjakorntonsri/go-3dnav/pkg/adapters/repository/filestore"
	"github.com/wadjakorntonsri/go-3dnav/pkg/app"
	"github.com/wadjakorntonsri/go-3dnav/pkg/core/domain"
)

func (c *cli) newProbeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Report whether this environment can persist to disk",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			env := environment.NewProber(filepath.Dir(cfg.DataFile)).Probe()
			return printJSON(cmd.OutOrStdout(), struct {
				domain.Environment
				RecommendedMode domain.Mode `json:"recommended_mode"`
			}{env, env.RecommendedMode()})
		},
	}
}

func (c *cli) newSeedCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write the built-in seed links to the durable store",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd.Context(), app.WithoutSeed())
			if err != nil {
				return err
			}
			defer a.Close()

			ds := domain.SeedDataset()
			if err := a.Import(cmd.Context(), ds, force); err != nil {
				return errors.Wrap(err, "seed")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d links (%s)\n", len(ds.Links), a.Stores.Mode())
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "replace existing data")
	return cmd
}

func (c *cli) newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print the full dataset as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd.Context(), app.WithoutSeed())
			if err != nil {
				return err
			}
			defer a.Close()

			ds, err := a.Export(cmd.Context())
			if err != nil {
				return errors.Wrap(err, "export")
			}
			return app.WriteDataset(cmd.OutOrStdout(), ds)
		},
	}
}

func (c *cli) newImportCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the durable store's contents with an exported dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := filestore.ReadDataset(file)
			if err != nil {
				return err
			}

			a, err := c.open(cmd.Context(), app.WithoutSeed())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Import(cmd.Context(), ds, true); err != nil {
				return errors.Wrap(err, "import")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d links, %d users (%s)\n", len(ds.Links), len(ds.Users), a.Stores.Mode())
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "JSON file to import")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func (c *cli) newRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore",
		Short: "Restore the data file from its backup",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd.Context(), app.WithoutSeed())
			if err != nil {
				return err
			}
			defer a.Close()

			ok, err := a.Restore(cmd.Context())
			if err != nil {
				return err
			}
			if !ok {
				return errors.New("no backup found")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "restored from backup")
			return nil
		},
	}
}

func (c *cli) newSetupAdminCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "setup-admin",
		Short: "Create the admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			res, mode, err := a.Admin.Setup(cmd.Context(), force)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]interface{}{
				"admin": res,
				"mode":  mode,
			})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "replace existing admin accounts (ignored in production)")
	return cmd
}
