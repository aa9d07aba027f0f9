package auth

import (
	"context"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/T0nystoyz/ExploreWithMe/config"
	"github.com/T0nystoyz/ExploreWithMe/internal/apperror"
	"github.com/T0nystoyz/ExploreWithMe/internal/user"
)

type TokenResponse struct {
	AccessToken string `json:"accessToken"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type Service interface {
	Login(ctx context.Context, in LoginRequest) (*TokenResponse, *user.User, error)
}

type service struct {
	users        user.Repository
	accessSecret string
	accessTTL    time.Duration
}

func NewService(users user.Repository, cfg *config.Config) Service {
	return &service{
		users:        users,
		accessSecret: cfg.JWTAccessSecret,
		accessTTL:    time.Duration(cfg.JWTAccessTTLHours) * time.Hour,
	}
}

// =============================
// Login
// =============================

func (s *service) Login(ctx context.Context, in LoginRequest) (*TokenResponse, *user.User, error) {
	u, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if user.IsNotFound(err) {
			return nil, nil, apperror.Forbidden("invalid credentials")
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return nil, nil, apperror.Forbidden("invalid credentials")
	}

	token, err := s.generateAccessToken(u)
	if err != nil {
		return nil, nil, err
	}

	return &TokenResponse{AccessToken: token}, u, nil
}

func (s *service) generateAccessToken(u *user.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": u.ID,
		"role":    u.Role,
		"exp":     time.Now().Add(s.accessTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.accessSecret))
}

// =============================
// Admin Seeding
// =============================

// SeedAdminUser makes sure the configured admin account exists so the admin
// API is reachable on a fresh database
func SeedAdminUser(db *gorm.DB, cfg *config.Config) {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		log.Println("⚠️ ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seed")
		return
	}

	var count int64
	db.Model(&user.User{}).Where("email = ?", cfg.AdminEmail).Count(&count)
	if count > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("❌ Failed to hash admin password: %v", err)
		return
	}

	admin := &user.User{
		Name:         "Administrator",
		Email:        cfg.AdminEmail,
		Role:         user.RoleAdmin,
		PasswordHash: string(hash),
	}
	if err := db.Create(admin).Error; err != nil {
		log.Printf("❌ Failed to seed admin user: %v", err)
		return
	}
	log.Printf("✅ Seeded admin user %s", cfg.AdminEmail)
}
