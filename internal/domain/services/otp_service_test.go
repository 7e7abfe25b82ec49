package services

import (
	"testing"
	"time"

	"github.com/Cocorine/backend-sirene-ecole/internal/domain/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newOtpFixture(t *testing.T) (InterfaceOtpService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	cfg := newTestConfig()
	// no provider configured, Send only logs
	return NewOtpService(db, cfg, NewSmsService(cfg)), db
}

func TestOtpGenerateUnSeulCodeVivant(t *testing.T) {
	svc, db := newOtpFixture(t)

	premier, err := svc.Generate("+22990000001", "login")
	require.NoError(t, err)
	require.Len(t, premier.Code, 6)

	second, err := svc.Generate("+22990000001", "login")
	require.NoError(t, err)
	require.NotEqual(t, premier.ID, second.ID)

	var vivants int64
	require.NoError(t, db.Model(&models.OtpCode{}).
		Where("telephone = ? AND verifie = ?", "+22990000001", false).
		Count(&vivants).Error)
	require.EqualValues(t, 1, vivants)
}

func TestOtpGenerateSansTelephone(t *testing.T) {
	svc, _ := newOtpFixture(t)
	_, err := svc.Generate("", "login")
	require.ErrorIs(t, err, ErrValidation)
}

func TestOtpVerifyUsageUnique(t *testing.T) {
	svc, _ := newOtpFixture(t)

	otp, err := svc.Generate("+22990000002", "login")
	require.NoError(t, err)

	require.NoError(t, svc.Verify("+22990000002", otp.Code))

	// a verified code is spent
	err = svc.Verify("+22990000002", otp.Code)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestOtpVerifyTentativesEpuisees(t *testing.T) {
	svc, _ := newOtpFixture(t)

	otp, err := svc.Generate("+22990000003", "login")
	require.NoError(t, err)

	require.ErrorIs(t, svc.Verify("+22990000003", "000000"), ErrValidation)
	require.ErrorIs(t, svc.Verify("+22990000003", "000000"), ErrValidation)
	// third wrong attempt invalidates the code
	require.ErrorIs(t, svc.Verify("+22990000003", "000000"), ErrValidation)

	// even the right code no longer works
	err = svc.Verify("+22990000003", otp.Code)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestOtpVerifyExpire(t *testing.T) {
	svc, db := newOtpFixture(t)

	otp, err := svc.Generate("+22990000004", "login")
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.OtpCode{}).Where("id = ?", otp.ID).
		Update("date_expiration", time.Now().Add(-time.Minute)).Error)

	err = svc.Verify("+22990000004", otp.Code)
	require.ErrorIs(t, err, ErrOtpExpire)
	require.ErrorIs(t, err, ErrValidation)

	// the expired code is gone
	err = svc.Verify("+22990000004", otp.Code)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestOtpCleanupExpired(t *testing.T) {
	svc, db := newOtpFixture(t)

	expire, err := svc.Generate("+22990000005", "login")
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.OtpCode{}).Where("id = ?", expire.ID).
		Update("date_expiration", time.Now().Add(-time.Hour)).Error)

	_, err = svc.Generate("+22990000006", "login")
	require.NoError(t, err)

	supprimes, err := svc.CleanupExpired()
	require.NoError(t, err)
	require.EqualValues(t, 1, supprimes)
}
