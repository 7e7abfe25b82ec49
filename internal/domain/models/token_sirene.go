package models

import "time"

// TokenSirene is an encrypted credential proving an active, paid subscription
// for one sirène. Rows are append-only: a superseded token is flagged
// inactive, never rewritten. At most one row per subscription carries
// Actif=true at any time.
type TokenSirene struct {
	BaseModel
	AbonnementID   string     `gorm:"type:varchar(36);not null;index:idx_tokens_abonnement_actif" json:"abonnement_id"`
	SireneID       string     `gorm:"type:varchar(36);not null;index" json:"sirene_id"`
	SiteID         string     `gorm:"type:varchar(36);not null" json:"site_id"`
	TokenCrypte    string     `gorm:"type:text;not null" json:"token_crypte"`
	TokenHash      string     `gorm:"type:char(64);index;not null" json:"token_hash"`
	DateDebut      time.Time  `json:"date_debut"`
	DateFin        time.Time  `json:"date_fin"`
	DateGeneration time.Time  `json:"date_generation"`
	DateExpiration time.Time  `json:"date_expiration"`
	DateActivation *time.Time `json:"date_activation,omitempty"`
	Actif          bool       `gorm:"default:true;index:idx_tokens_abonnement_actif" json:"actif"`

	Abonnement *Abonnement `gorm:"foreignKey:AbonnementID" json:"abonnement,omitempty"`
	Sirene     *Sirene     `gorm:"foreignKey:SireneID" json:"sirene,omitempty"`
}

func (TokenSirene) TableName() string {
	return "tokens_sirene"
}

// EstValide reports whether the token is active and inside its window.
func (t *TokenSirene) EstValide(now time.Time) bool {
	return t.Actif && !now.Before(t.DateDebut) && !now.After(t.DateExpiration)
}

// TokenPayload is the plaintext structure sealed into TokenCrypte.
type TokenPayload struct {
	AbonnementID     string `json:"abonnement_id"`
	NumeroAbonnement string `json:"numero_abonnement"`
	SireneID         string `json:"sirene_id"`
	NumeroSerie      string `json:"numero_serie"`
	EcoleID          string `json:"ecole_id"`
	EcoleNom         string `json:"ecole_nom"`
	SiteID           string `json:"site_id"`
	GeneratedAt      string `json:"generated_at"`
	ExpiresAt        string `json:"expires_at"`
	Signature        string `json:"signature"`
}
