package services

import (
	"testing"

	"github.com/Cocorine/backend-sirene-ecole/internal/domain/models"

	"github.com/stretchr/testify/require"
)

func TestTokenScanRoundTrip(t *testing.T) {
	f := newAbonnementFixture(t)
	abonnement := seedAbonnement(t, f.db, models.AbonnementEnAttente)
	f.payer(t, abonnement.ID)

	emis, err := f.tokens.GetActiveToken(abonnement.ID)
	require.NoError(t, err)
	require.True(t, emis.Actif)
	require.NotEmpty(t, emis.TokenCrypte)
	require.NotEqual(t, emis.TokenCrypte, emis.TokenHash)

	// the device presents the ciphertext, we resolve it by hash
	scanne, err := f.tokens.FindByCiphertext(emis.TokenCrypte)
	require.NoError(t, err)
	require.Equal(t, emis.ID, scanne.ID)
	require.True(t, f.tokens.ValidateToken(scanne))

	payload, err := f.tokens.DecryptPayload(scanne)
	require.NoError(t, err)
	require.Equal(t, abonnement.ID, payload.AbonnementID)
	require.Equal(t, abonnement.SireneID, payload.SireneID)
	require.Equal(t, abonnement.EcoleID, payload.EcoleID)
	require.NotEmpty(t, payload.NumeroSerie)
}

func TestTokenInconnu(t *testing.T) {
	f := newAbonnementFixture(t)

	_, err := f.tokens.FindByCiphertext("pas-un-vrai-token")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTokenDesactiveInvalide(t *testing.T) {
	f := newAbonnementFixture(t)
	abonnement := seedAbonnement(t, f.db, models.AbonnementEnAttente)
	f.payer(t, abonnement.ID)

	token, err := f.tokens.GetActiveToken(abonnement.ID)
	require.NoError(t, err)

	require.NoError(t, f.tokens.DeactivateTokens(nil, abonnement.ID))

	// still resolvable by ciphertext, but no longer valid
	scanne, err := f.tokens.FindByCiphertext(token.TokenCrypte)
	require.NoError(t, err)
	require.False(t, scanne.Actif)
	require.False(t, f.tokens.ValidateToken(scanne))

	_, err = f.tokens.GetActiveToken(abonnement.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTokenFalsifieInvalide(t *testing.T) {
	f := newAbonnementFixture(t)
	abonnement := seedAbonnement(t, f.db, models.AbonnementEnAttente)
	f.payer(t, abonnement.ID)

	token, err := f.tokens.GetActiveToken(abonnement.ID)
	require.NoError(t, err)

	// a tampered ciphertext fails authenticated decryption
	altere := []byte(token.TokenCrypte)
	if altere[0] == 'A' {
		altere[0] = 'B'
	} else {
		altere[0] = 'A'
	}
	token.TokenCrypte = string(altere)
	require.False(t, f.tokens.ValidateToken(token))
}
