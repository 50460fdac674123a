package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shopworks/storefront-backend/internal/users"
	"github.com/shopworks/storefront-backend/pkg/config"
	"github.com/shopworks/storefront-backend/pkg/db/models"
	pkgerrors "github.com/shopworks/storefront-backend/pkg/errors"
	"github.com/shopworks/storefront-backend/pkg/security"
)

type stubSessionStore struct {
	created []string
	revoked []string
}

func (s *stubSessionStore) Create(ctx context.Context, accessID string) error {
	s.created = append(s.created, accessID)
	return nil
}

func (s *stubSessionStore) Revoke(ctx context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

func setupAuthTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:" + uuid.NewString() + "?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  phone TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func testAuthConfig() (config.JWTConfig, config.PasswordConfig) {
	jwtCfg := config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60}
	pwCfg := config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
	return jwtCfg, pwCfg
}

func newAuthService(t *testing.T, db *gorm.DB, store SessionStore) Service {
	t.Helper()

	jwtCfg, pwCfg := testAuthConfig()
	svc, err := NewService(ServiceParams{
		UserRepo: users.NewRepository(db),
		Sessions: store,
		JWT:      jwtCfg,
		Password: pwCfg,
	})
	require.NoError(t, err)
	return svc
}

func TestRegisterOpensSession(t *testing.T) {
	db := setupAuthTestDB(t)
	store := &stubSessionStore{}
	svc := newAuthService(t, db, store)

	email := uuid.NewString() + "@example.com"
	session, err := svc.Register(context.Background(), RegisterInput{
		Email:     email,
		Password:  "correct horse battery",
		FirstName: "Sam",
		LastName:  "Shopper",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, session.AccessToken)
	assert.Equal(t, email, session.User.Email)
	assert.Len(t, store.created, 1)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	db := setupAuthTestDB(t)
	svc := newAuthService(t, db, &stubSessionStore{})

	email := uuid.NewString() + "@example.com"
	input := RegisterInput{
		Email:     email,
		Password:  "correct horse battery",
		FirstName: "Sam",
		LastName:  "Shopper",
	}

	_, err := svc.Register(context.Background(), input)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), input)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestLoginVerifiesPassword(t *testing.T) {
	db := setupAuthTestDB(t)
	store := &stubSessionStore{}
	svc := newAuthService(t, db, store)

	email := uuid.NewString() + "@example.com"
	_, err := svc.Register(context.Background(), RegisterInput{
		Email:     email,
		Password:  "correct horse battery",
		FirstName: "Sam",
		LastName:  "Shopper",
	})
	require.NoError(t, err)

	session, err := svc.Login(context.Background(), LoginInput{Email: email, Password: "correct horse battery"})
	require.NoError(t, err)
	assert.NotEmpty(t, session.AccessToken)
	assert.NotNil(t, session.User.LastLoginAt)

	_, err = svc.Login(context.Background(), LoginInput{Email: email, Password: "wrong password"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestLoginRejectsDisabledAccount(t *testing.T) {
	db := setupAuthTestDB(t)
	svc := newAuthService(t, db, &stubSessionStore{})

	_, pwCfg := testAuthConfig()
	hash, err := security.HashPassword(pwCfg, "correct horse battery")
	require.NoError(t, err)

	email := uuid.NewString() + "@example.com"
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Dis",
		LastName:     "Abled",
		IsActive:     false,
	}
	require.NoError(t, db.Create(user).Error)

	_, err = svc.Login(context.Background(), LoginInput{Email: email, Password: "correct horse battery"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestLoginUnknownEmail(t *testing.T) {
	db := setupAuthTestDB(t)
	svc := newAuthService(t, db, &stubSessionStore{})

	_, err := svc.Login(context.Background(), LoginInput{Email: "nobody@example.com", Password: "whatever"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestLogoutRevokesSession(t *testing.T) {
	db := setupAuthTestDB(t)
	store := &stubSessionStore{}
	svc := newAuthService(t, db, store)

	require.NoError(t, svc.Logout(context.Background(), "access-id"))
	assert.Equal(t, []string{"access-id"}, store.revoked)

	err := svc.Logout(context.Background(), "")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
