package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/restopos/internal/config"
	"github.com/dropDatabas3/restopos/internal/session"
)

func tokenCmd(load func() (*config.Config, error)) *cobra.Command {
	var role, tenant, email, user string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Emite un token de sesión (pruebas locales)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, ok := session.ParseRole(role)
			if !ok {
				return fmt.Errorf("--role inválido: %q (admin|manager|cashier|saas_admin|customer)", role)
			}
			cfg, err := load()
			if err != nil {
				return err
			}
			if cfg.EphemeralSecret() {
				return errors.New("SESSION_SECRET no está configurado: el token no validaría contra serve")
			}
			m, err := session.NewManager(session.Config{
				Secret:     cfg.Session.Secret,
				TTL:        cfg.SessionTTL(),
				Issuer:     cfg.Session.Issuer,
				CookieName: cfg.Session.CookieName,
			})
			if err != nil {
				return err
			}
			if user == "" {
				user = "cli-" + string(r)
			}
			tok, exp, err := m.Issue(session.Session{UserID: user, Email: email, Role: r, Tenant: tenant})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			fmt.Fprintf(cmd.ErrOrStderr(), "expira: %s\n", exp.Format("2006-01-02 15:04:05 MST"))
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", "", "Rol de la sesión")
	cmd.Flags().StringVar(&tenant, "tenant", "", "Tenant de la sesión")
	cmd.Flags().StringVar(&email, "email", "", "Email de la sesión")
	cmd.Flags().StringVar(&user, "user", "", "Id de usuario (default cli-<rol>)")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}
