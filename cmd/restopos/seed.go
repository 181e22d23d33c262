package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/restopos/internal/config"
	"github.com/dropDatabas3/restopos/internal/seed"
	"github.com/dropDatabas3/restopos/internal/store"
)

func seedCmd(load func() (*config.Config, error)) *cobra.Command {
	var slug, name string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Carga un tenant de demo con sucursal, menú y mesas",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			h, err := store.Open(ctx, store.Config{
				URI:            cfg.Store.URI,
				Database:       cfg.Store.Database,
				ConnectTimeout: cfg.StoreConnectTimeout(),
			})
			if err != nil {
				return err
			}
			defer h.Close(context.Background())

			rep, err := seed.Run(ctx, h, slug, name)
			if err != nil {
				return err
			}
			for coll, n := range rep {
				fmt.Fprintf(cmd.OutOrStdout(), "%-16s %d\n", coll, n)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&slug, "tenant", "demo", "Slug del tenant")
	cmd.Flags().StringVar(&name, "name", "", "Nombre visible del restaurante")
	return cmd
}
