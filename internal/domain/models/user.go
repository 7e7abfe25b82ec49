package models

// User roles.
const (
	RoleAdmin      = "admin"
	RoleTechnicien = "technicien"
	RoleEcole      = "ecole"
)

// User is an authenticated account. AccountID points to the Ecole or
// Technicien record the account belongs to, empty for pure admins.
type User struct {
	BaseModel
	NomUtilisateur string  `gorm:"type:varchar(100);unique;not null" json:"nom_utilisateur"`
	MotDePasse     string  `gorm:"type:varchar(100);not null" json:"-"`
	Role           string  `gorm:"type:varchar(20);not null;default:'ecole'" json:"role"`
	Telephone      string  `gorm:"type:varchar(30);index" json:"telephone"`
	Email          string  `gorm:"type:varchar(150)" json:"email"`
	AccountID      *string `gorm:"type:varchar(36);index" json:"account_id,omitempty"`
}

func (User) TableName() string {
	return "users"
}
