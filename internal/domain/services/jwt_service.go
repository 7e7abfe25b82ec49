package services

import (
	"errors"
	"time"

	"github.com/Cocorine/backend-sirene-ecole/internal/domain/models"
	"github.com/Cocorine/backend-sirene-ecole/internal/infrastructure/config"
	"github.com/Cocorine/backend-sirene-ecole/pkg/utils"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

// AuthClaims are the JWT claims carried by every issued token.
type AuthClaims struct {
	UserID    string  `json:"user_id"`
	Role      string  `json:"role"`
	AccountID *string `json:"account_id,omitempty"`
	jwt.RegisteredClaims
}

// LoginResult bundles the issued token with the authenticated account.
type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// InterfaceJWTService defines the authentication service interface
type InterfaceJWTService interface {
	GenerateToken(user *models.User) (string, error)
	ValidateToken(tokenString string) (*AuthClaims, error)
	Login(nomUtilisateur, motDePasse string) (*LoginResult, error)
	LoginWithOtp(telephone, code string) (*LoginResult, error)
	ChangePassword(userID, ancien, nouveau string) error
}

// JWTService authenticates accounts and issues bearer tokens.
type JWTService struct {
	DB         *gorm.DB
	Config     *config.Config
	OtpService InterfaceOtpService
}

// NewJWTService creates a new authentication service
func NewJWTService(db *gorm.DB, cfg *config.Config, otp InterfaceOtpService) InterfaceJWTService {
	return &JWTService{DB: db, Config: cfg, OtpService: otp}
}

// 1. GenerateToken issues a signed token for an account, valid 24h
func (s *JWTService) GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := AuthClaims{
		UserID:    user.ID,
		Role:      user.Role,
		AccountID: user.AccountID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.Config.JWTSecretKey))
}

// 2. ValidateToken parses and verifies a bearer token
func (s *JWTService) ValidateToken(tokenString string) (*AuthClaims, error) {
	claims := &AuthClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.Config.JWTSecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// 3. Login authenticates with username and password
func (s *JWTService) Login(nomUtilisateur, motDePasse string) (*LoginResult, error) {
	var user models.User
	err := s.DB.Where("nom_utilisateur = ?", nomUtilisateur).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Validationf("identifiants invalides")
		}
		return nil, err
	}
	if !utils.CheckPasswordHash(motDePasse, user.MotDePasse) {
		return nil, Validationf("identifiants invalides")
	}
	return s.issue(&user)
}

// 4. LoginWithOtp authenticates with a phone number and a verified SMS code
func (s *JWTService) LoginWithOtp(telephone, code string) (*LoginResult, error) {
	if err := s.OtpService.Verify(telephone, code); err != nil {
		return nil, err
	}
	var user models.User
	err := s.DB.Where("telephone = ?", telephone).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("aucun compte pour le numéro %s", telephone)
		}
		return nil, err
	}
	return s.issue(&user)
}

// 5. ChangePassword replaces an account's password after checking the old one
func (s *JWTService) ChangePassword(userID, ancien, nouveau string) error {
	if len(nouveau) < 8 {
		return Validationf("le mot de passe doit contenir au moins 8 caractères")
	}
	var user models.User
	if err := s.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundf("utilisateur %s", userID)
		}
		return err
	}
	if !utils.CheckPasswordHash(ancien, user.MotDePasse) {
		return Validationf("ancien mot de passe incorrect")
	}
	hashed, err := utils.HashPassword(nouveau)
	if err != nil {
		return err
	}
	return s.DB.Model(&user).Update("mot_de_passe", hashed).Error
}

func (s *JWTService) issue(user *models.User) (*LoginResult, error) {
	token, err := s.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: user}, nil
}
