package services

import (
	"testing"
	"time"

	"github.com/Cocorine/backend-sirene-ecole/internal/domain/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type abonnementFixture struct {
	db          *gorm.DB
	abonnements InterfaceAbonnementService
	paiements   InterfacePaiementService
	tokens      InterfaceTokenSireneService
}

func newAbonnementFixture(t *testing.T) *abonnementFixture {
	t.Helper()
	db := newTestDB(t)
	cfg := newTestConfig()
	notif := newTestNotif(db, cfg)

	tokens := NewTokenSireneService(db, cfg, nil)
	abonnements := NewAbonnementService(db, cfg, tokens, nil, notif)
	paiements := NewPaiementService(db, cfg, abonnements, notif)

	return &abonnementFixture{
		db:          db,
		abonnements: abonnements,
		paiements:   paiements,
		tokens:      tokens,
	}
}

// payer records and validates a payment for the subscription.
func (f *abonnementFixture) payer(t *testing.T, abonnementID string) *models.Paiement {
	t.Helper()
	paiement, err := f.paiements.Traiter(abonnementID, PaiementData{Moyen: models.MoyenMobileMoney})
	require.NoError(t, err)
	valide, err := f.paiements.Valider(paiement.ID)
	require.NoError(t, err)
	return valide
}

func (f *abonnementFixture) activeTokens(t *testing.T, abonnementID string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&models.TokenSirene{}).
		Where("abonnement_id = ? AND actif = ?", abonnementID, true).Count(&n).Error)
	return n
}

func TestPaiementValiderActiveAbonnement(t *testing.T) {
	f := newAbonnementFixture(t)
	abonnement := seedAbonnement(t, f.db, models.AbonnementEnAttente)

	paiement := f.payer(t, abonnement.ID)
	require.Equal(t, models.PaiementValide, paiement.Statut)
	require.NotNil(t, paiement.DateValidation)

	actif, err := f.abonnements.GetByID(abonnement.ID)
	require.NoError(t, err)
	require.Equal(t, models.AbonnementActif, actif.Statut)
	require.NotNil(t, actif.DatePaiement)

	// validation issued exactly one live token
	require.EqualValues(t, 1, f.activeTokens(t, abonnement.ID))

	// a validated payment stays validated
	_, err = f.paiements.Valider(paiement.ID)
	require.ErrorIs(t, err, ErrConflict)

	// an active subscription takes no further payment
	_, err = f.paiements.Traiter(abonnement.ID, PaiementData{Moyen: models.MoyenCarte})
	require.ErrorIs(t, err, ErrConflict)
}

func TestPaiementMoyenInconnu(t *testing.T) {
	f := newAbonnementFixture(t)
	abonnement := seedAbonnement(t, f.db, models.AbonnementEnAttente)

	_, err := f.paiements.Traiter(abonnement.ID, PaiementData{Moyen: "ESPECES"})
	require.ErrorIs(t, err, ErrValidation)
}

func TestTokenSansPaiement(t *testing.T) {
	f := newAbonnementFixture(t)
	abonnement := seedAbonnement(t, f.db, models.AbonnementEnAttente)

	// no validated payment, no token
	token, err := f.tokens.IssueToken(nil, abonnement.ID)
	require.NoError(t, err)
	require.Nil(t, token)
	require.EqualValues(t, 0, f.activeTokens(t, abonnement.ID))
}

func TestRenouvelerRemplaceLeToken(t *testing.T) {
	f := newAbonnementFixture(t)
	abonnement := seedAbonnement(t, f.db, models.AbonnementEnAttente)
	f.payer(t, abonnement.ID)

	ancien, err := f.tokens.GetActiveToken(abonnement.ID)
	require.NoError(t, err)

	nouveau, err := f.abonnements.Renouveler(abonnement.ID)
	require.NoError(t, err)
	require.Equal(t, models.AbonnementEnAttente, nouveau.Statut)
	require.NotEqual(t, abonnement.ID, nouveau.ID)
	require.Equal(t, abonnement.SireneID, nouveau.SireneID)
	// the new cycle starts where the old one ends
	require.False(t, nouveau.DateDebut.Before(abonnement.DateDebut))

	f.payer(t, nouveau.ID)

	// the old token is untouched, the new subscription carries its own
	require.EqualValues(t, 1, f.activeTokens(t, nouveau.ID))
	actuel, err := f.tokens.GetActiveToken(nouveau.ID)
	require.NoError(t, err)
	require.NotEqual(t, ancien.TokenHash, actuel.TokenHash)
}

func TestSuspendreEtReactiver(t *testing.T) {
	f := newAbonnementFixture(t)
	abonnement := seedAbonnement(t, f.db, models.AbonnementEnAttente)
	f.payer(t, abonnement.ID)

	_, err := f.abonnements.Suspendre(abonnement.ID, "")
	require.ErrorIs(t, err, ErrValidation)

	suspendu, err := f.abonnements.Suspendre(abonnement.ID, "impayé partiel")
	require.NoError(t, err)
	require.Equal(t, models.AbonnementSuspendu, suspendu.Statut)
	require.EqualValues(t, 0, f.activeTokens(t, abonnement.ID))

	reactive, err := f.abonnements.Reactiver(abonnement.ID)
	require.NoError(t, err)
	require.Equal(t, models.AbonnementActif, reactive.Statut)
	require.EqualValues(t, 1, f.activeTokens(t, abonnement.ID))

	// an active subscription is not reactivable
	_, err = f.abonnements.Reactiver(abonnement.ID)
	require.ErrorIs(t, err, ErrConflict)
}

func TestAnnulerEstTerminal(t *testing.T) {
	f := newAbonnementFixture(t)
	abonnement := seedAbonnement(t, f.db, models.AbonnementEnAttente)
	f.payer(t, abonnement.ID)

	annule, err := f.abonnements.Annuler(abonnement.ID, "fermeture de l'établissement")
	require.NoError(t, err)
	require.Equal(t, models.AbonnementAnnule, annule.Statut)
	require.EqualValues(t, 0, f.activeTokens(t, abonnement.ID))

	_, err = f.abonnements.Renouveler(abonnement.ID)
	require.ErrorIs(t, err, ErrConflict)
	_, err = f.abonnements.Reactiver(abonnement.ID)
	require.ErrorIs(t, err, ErrConflict)
}

func TestMarquerExpires(t *testing.T) {
	f := newAbonnementFixture(t)
	abonnement := seedAbonnement(t, f.db, models.AbonnementEnAttente)
	f.payer(t, abonnement.ID)

	// push the end date into the past
	require.NoError(t, f.db.Model(&models.Abonnement{}).Where("id = ?", abonnement.ID).
		Update("date_fin", time.Now().AddDate(0, 0, -1)).Error)

	count, err := f.abonnements.MarquerExpires()
	require.NoError(t, err)
	require.Equal(t, 1, count)

	expire, err := f.abonnements.GetByID(abonnement.ID)
	require.NoError(t, err)
	require.Equal(t, models.AbonnementExpire, expire.Statut)
	require.EqualValues(t, 0, f.activeTokens(t, abonnement.ID))

	// idempotent
	count, err = f.abonnements.MarquerExpires()
	require.NoError(t, err)
	require.Equal(t, 0, count)
}

func TestGetExpiringSoonEtRappels(t *testing.T) {
	f := newAbonnementFixture(t)
	abonnement := seedAbonnement(t, f.db, models.AbonnementEnAttente)
	f.payer(t, abonnement.ID)
	require.NoError(t, f.db.Model(&models.Abonnement{}).Where("id = ?", abonnement.ID).
		Update("date_fin", time.Now().AddDate(0, 0, 10)).Error)

	bientot, err := f.abonnements.GetExpiringSoon(30)
	require.NoError(t, err)
	require.Len(t, bientot, 1)

	bientot, err = f.abonnements.GetExpiringSoon(5)
	require.NoError(t, err)
	require.Empty(t, bientot)

	envoyes, err := f.abonnements.EnvoyerRappelsExpiration(30)
	require.NoError(t, err)
	require.Equal(t, 1, envoyes)

	var notifications int64
	require.NoError(t, f.db.Model(&models.Notification{}).
		Where("notifiable_type = ? AND notifiable_id = ?", models.NotifiableEcole, abonnement.EcoleID).
		Count(&notifications).Error)
	require.EqualValues(t, 1, notifications)
}

func TestAutoRenouveler(t *testing.T) {
	f := newAbonnementFixture(t)
	abonnement := seedAbonnement(t, f.db, models.AbonnementEnAttente)
	f.payer(t, abonnement.ID)
	require.NoError(t, f.db.Model(&models.Abonnement{}).Where("id = ?", abonnement.ID).
		Update("date_fin", time.Now().AddDate(0, 0, 3)).Error)

	count, err := f.abonnements.AutoRenouveler()
	require.NoError(t, err)
	require.Equal(t, 1, count)

	// the pending renewal blocks a second pass
	count, err = f.abonnements.AutoRenouveler()
	require.NoError(t, err)
	require.Equal(t, 0, count)
}

func TestStatistiques(t *testing.T) {
	f := newAbonnementFixture(t)
	actif := seedAbonnement(t, f.db, models.AbonnementEnAttente)
	f.payer(t, actif.ID)
	seedAbonnement(t, f.db, models.AbonnementEnAttente)

	stats, err := f.abonnements.Statistiques()
	require.NoError(t, err)
	require.EqualValues(t, 2, stats.Total)
	require.EqualValues(t, 1, stats.Actifs)
	require.EqualValues(t, 1, stats.EnAttente)
	require.Equal(t, actif.Montant, stats.Revenus)
}
