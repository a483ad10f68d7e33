package service

import (
	"path/filepath"
	"testing"
	"time"

	"course_gen_backend/internal/config"
	"course_gen_backend/internal/repository"
	"course_gen_backend/internal/util"
	"course_gen_backend/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-not-for-production-use!!"
	cfg.JWT.ExpireTime = time.Hour

	return NewAuthService(repository.NewUserRepository(db), cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)

	user, err := svc.Register("Alice", "alice@example.com", "correct horse battery")
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	assert.NotEqual(t, "correct horse battery", user.Password)

	token, loggedIn, err := svc.Login("alice@example.com", "correct horse battery")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, loggedIn.ID)

	claims, err := util.ParseJWT(token, "test-secret-not-for-production-use!!")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.Register("Alice", "alice@example.com", "password-one")
	require.NoError(t, err)

	_, err = svc.Register("Other Alice", "alice@example.com", "password-two")
	assert.ErrorIs(t, err, util.ErrEmailRegistered)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.Register("Alice", "alice@example.com", "right password")
	require.NoError(t, err)

	_, _, err = svc.Login("alice@example.com", "wrong password")
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newAuthService(t)

	_, _, err := svc.Login("nobody@example.com", "whatever")
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}
