// Command restopos sirve el POS multi-tenant y trae utilidades de soporte
// (seed de datos de demo y emisión de tokens de sesión).
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/restopos/internal/config"
	"github.com/dropDatabas3/restopos/internal/observability/logger"
	_ "github.com/dropDatabas3/restopos/internal/store/adapters/dal"
)

var version = "dev"

func main() {
	// .env es opcional
	_ = godotenv.Load()

	var cfgPath string
	root := &cobra.Command{
		Use:           "restopos",
		Short:         "POS multi-tenant para restaurantes",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", os.Getenv("CONFIG_PATH"), "Archivo YAML de configuración (env CONFIG_PATH)")

	load := func() (*config.Config, error) {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return nil, err
		}
		if cfg.App.Version == "" {
			cfg.App.Version = version
		}
		logger.Init(logger.Config{
			Env:     cfg.App.Env,
			Level:   cfg.Log.Level,
			Service: cfg.App.Name,
			Version: cfg.App.Version,
		})
		return cfg, nil
	}

	root.AddCommand(serveCmd(load), seedCmd(load), tokenCmd(load))

	err := root.Execute()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
