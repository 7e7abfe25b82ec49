package services

import (
	"testing"

	"github.com/Cocorine/backend-sirene-ecole/internal/domain/models"
	"github.com/Cocorine/backend-sirene-ecole/pkg/utils"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthFixture(t *testing.T) (InterfaceJWTService, InterfaceOtpService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	cfg := newTestConfig()
	otp := NewOtpService(db, cfg, NewSmsService(cfg))
	return NewJWTService(db, cfg, otp), otp, db
}

func seedUser(t *testing.T, db *gorm.DB, nomUtilisateur, motDePasse, role string) *models.User {
	t.Helper()
	hashed, err := utils.HashPassword(motDePasse)
	require.NoError(t, err)
	user := &models.User{
		NomUtilisateur: nomUtilisateur,
		MotDePasse:     hashed,
		Role:           role,
		Telephone:      "+22991" + nomUtilisateur,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestLoginEtValidateToken(t *testing.T) {
	svc, _, db := newAuthFixture(t)
	user := seedUser(t, db, "000001", "Secret@123", models.RoleAdmin)

	result, err := svc.Login("000001", "Secret@123")
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	require.Equal(t, user.ID, result.User.ID)

	claims, err := svc.ValidateToken(result.Token)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
	require.Equal(t, models.RoleAdmin, claims.Role)
}

func TestLoginIdentifiantsInvalides(t *testing.T) {
	svc, _, db := newAuthFixture(t)
	seedUser(t, db, "000002", "Secret@123", models.RoleAdmin)

	_, err := svc.Login("000002", "mauvais")
	require.ErrorIs(t, err, ErrValidation)

	// an unknown login fails the same way as a bad password
	_, err = svc.Login("personne", "Secret@123")
	require.ErrorIs(t, err, ErrValidation)
}

func TestValidateTokenForge(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.ValidateToken("pas.un.jwt")
	require.Error(t, err)
}

func TestLoginWithOtp(t *testing.T) {
	svc, otp, db := newAuthFixture(t)
	user := seedUser(t, db, "000003", "Secret@123", models.RoleEcole)

	code, err := otp.Generate(user.Telephone, "login")
	require.NoError(t, err)

	result, err := svc.LoginWithOtp(user.Telephone, code.Code)
	require.NoError(t, err)
	require.Equal(t, user.ID, result.User.ID)

	// the code is spent
	_, err = svc.LoginWithOtp(user.Telephone, code.Code)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestChangePassword(t *testing.T) {
	svc, _, db := newAuthFixture(t)
	user := seedUser(t, db, "000004", "Secret@123", models.RoleTechnicien)

	require.ErrorIs(t, svc.ChangePassword(user.ID, "Secret@123", "court"), ErrValidation)
	require.ErrorIs(t, svc.ChangePassword(user.ID, "mauvais", "NouveauSecret@1"), ErrValidation)

	require.NoError(t, svc.ChangePassword(user.ID, "Secret@123", "NouveauSecret@1"))

	_, err := svc.Login("000004", "Secret@123")
	require.ErrorIs(t, err, ErrValidation)
	_, err = svc.Login("000004", "NouveauSecret@1")
	require.NoError(t, err)
}
