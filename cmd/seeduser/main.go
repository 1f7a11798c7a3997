// cmd/seeduser/main.go: crea o actualiza un usuario del backoffice.
// Uso: go run ./cmd/seeduser --username admin --password secreto123 --rol administrador
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"afiliados/internal/config"
	"afiliados/internal/dto"
	"afiliados/internal/infra"
	"afiliados/internal/model"
	"afiliados/internal/repository"
	"afiliados/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		req   dto.CrearUsuarioRequest
		email string
		reset bool
	)
	cmd := &cobra.Command{
		Use:           "seeduser",
		Short:         "Crea un usuario del backoffice (o renueva su password con --reset)",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if email != "" {
				req.Email = &email
			}
			if err := run(cmd.Context(), req, reset); err != nil {
				log.Error().Err(err).Str("username", req.Username).Msg("seeduser failed")
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Usuario '%s' (%s) listo\n", req.Username, req.Rol)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.Username, "username", "admin", "nombre de usuario")
	f.StringVar(&req.Password, "password", "", "password (min 8 caracteres)")
	f.StringVar(&req.Nombre, "nombre", "Administrador", "nombre para mostrar")
	f.StringVar(&req.Rol, "rol", model.RolAdministrador, "administrador | operador")
	f.StringVar(&email, "email", "", "email opcional")
	f.BoolVar(&reset, "reset", false, "si el usuario existe, reemplaza password, nombre y rol")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func run(ctx context.Context, req dto.CrearUsuarioRequest, reset bool) error {
	if len(req.Password) < 8 {
		return errors.New("password debe tener al menos 8 caracteres")
	}
	if req.Rol != model.RolAdministrador && req.Rol != model.RolOperador {
		return fmt.Errorf("rol invalido %q", req.Rol)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	// usuarios must exist before the first login, so always migrate here.
	db, err := infra.NewDatabase(cfg.DatabaseURL, true)
	if err != nil {
		return err
	}

	svc := service.NewAuthService(repository.NewUsuarioRepository(db), cfg)
	_, err = svc.CrearUsuario(ctx, req)
	if err == nil || !errors.Is(err, service.ErrDuplicado) || !reset {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return err
	}
	return db.WithContext(ctx).Model(&model.Usuario{}).
		Where("username = ?", req.Username).
		Updates(map[string]interface{}{
			"password_hash": string(hash),
			"nombre":        req.Nombre,
			"rol":           req.Rol,
			"activo":        true,
		}).Error
}
