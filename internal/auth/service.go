// Package auth handles accounts: registration, password login with HS256
// JWTs, and cash deposits/withdrawals.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/finchley/papertrade/internal/store"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrNonPositiveAmount  = errors.New("amount must be greater than 0")
	ErrInsufficientFunds  = errors.New("insufficient funds")
)

type Service struct {
	store          *store.Store
	secret         []byte
	tokenTTL       time.Duration
	initialBalance float64
}

func NewService(s *store.Store, secret string, tokenTTL time.Duration, initialBalance float64) *Service {
	return &Service{
		store:          s,
		secret:         []byte(secret),
		tokenTTL:       tokenTTL,
		initialBalance: initialBalance,
	}
}

// RegisterRequest is the payload for creating an account.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name"`
}

// Register creates a user with the configured starting balance.
func (a *Service) Register(req RegisterRequest) (*store.User, error) {
	if existing, err := a.store.GetUserByEmail(req.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrEmailTaken
	}
	if existing, err := a.store.GetUserByUsername(req.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &store.User{
		Email:          req.Email,
		Username:       req.Username,
		HashedPassword: string(hash),
		FullName:       req.FullName,
		Balance:        a.initialBalance,
	}
	if err := a.store.CreateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies a username/password pair.
func (a *Service) Authenticate(username, password string) (*store.User, error) {
	user, err := a.store.GetUserByUsername(username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// CreateToken issues a signed access token for the user.
func (a *Service) CreateToken(user *store.User) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.Username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// UserFromToken validates a token and loads its user.
func (a *Service) UserFromToken(tokenString string) (*store.User, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	user, err := a.store.GetUserByUsername(claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidToken
	}
	return user, nil
}

// Deposit adds cash to the user's balance.
func (a *Service) Deposit(user *store.User, amount float64) error {
	if amount <= 0 {
		return ErrNonPositiveAmount
	}
	user.Balance += amount
	return a.store.SaveUser(user)
}

// Withdraw removes cash from the user's balance.
func (a *Service) Withdraw(user *store.User, amount float64) error {
	if amount <= 0 {
		return ErrNonPositiveAmount
	}
	if amount > user.Balance {
		return fmt.Errorf("%w: available $%.2f", ErrInsufficientFunds, user.Balance)
	}
	user.Balance -= amount
	return a.store.SaveUser(user)
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return header[len(prefix):], true
	}
	return "", false
}
