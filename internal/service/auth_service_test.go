package service

import (
	"context"
	"errors"
	"testing"

	"afiliados/internal/config"
	"afiliados/internal/dto"
	"afiliados/internal/middleware"
	"afiliados/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Stub UsuarioRepository ───────────────────────────────────────────────────

type stubUsuarioRepo struct {
	usuarios map[string]*model.Usuario
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{usuarios: make(map[string]*model.Usuario)}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if _, ok := r.usuarios[u.Username]; ok {
		return gorm.ErrDuplicatedKey
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.usuarios[u.Username] = u
	return nil
}

func (r *stubUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	u, ok := r.usuarios[username]
	if !ok || !u.Activo {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func newTestAuthCfg() *config.Config {
	return &config.Config{JWTSecret: "test-secret-32-bytes-long-enough!", JWTExpirationHours: 8, JWTRefreshHours: 24}
}

func seedUsuario(t *testing.T, svc AuthService, username, rol string) {
	t.Helper()
	_, err := svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{
		Username: username, Nombre: "Usuario Test", Password: "secreto123", Rol: rol,
	})
	require.NoError(t, err)
}

func parseClaims(t *testing.T, token string) *middleware.JWTClaims {
	t.Helper()
	claims := &middleware.JWTClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(newTestAuthCfg().JWTSecret), nil
	})
	require.NoError(t, err)
	return claims
}

func TestLogin_EmiteAccessYRefresh(t *testing.T) {
	svc := NewAuthService(newStubUsuarioRepo(), newTestAuthCfg())
	seedUsuario(t, svc, "admin", model.RolAdministrador)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "admin", Password: "secreto123"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	assert.Equal(t, model.RolAdministrador, resp.User.Rol)

	access := parseClaims(t, resp.AccessToken)
	assert.Equal(t, "access", access.Tipo())
	assert.Equal(t, "admin", access.Username)
	assert.Equal(t, "refresh", parseClaims(t, resp.RefreshToken).Tipo())
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	svc := NewAuthService(newStubUsuarioRepo(), newTestAuthCfg())
	seedUsuario(t, svc, "admin", model.RolAdministrador)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "admin", Password: "incorrecta"})
	assert.ErrorIs(t, err, ErrCredenciales)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "nadie", Password: "secreto123"})
	assert.ErrorIs(t, err, ErrCredenciales)
}

func TestRefresh_SoloAceptaRefreshToken(t *testing.T) {
	svc := NewAuthService(newStubUsuarioRepo(), newTestAuthCfg())
	seedUsuario(t, svc, "op", model.RolOperador)

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "op", Password: "secreto123"})
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), login.AccessToken)
	assert.Error(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = svc.Refresh(context.Background(), "no-es-un-jwt")
	assert.Error(t, err)
}

func TestCrearUsuario_Duplicado(t *testing.T) {
	svc := NewAuthService(newStubUsuarioRepo(), newTestAuthCfg())
	seedUsuario(t, svc, "admin", model.RolAdministrador)

	_, err := svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{
		Username: "admin", Nombre: "Otro", Password: "secreto123", Rol: model.RolOperador,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicado))
}
