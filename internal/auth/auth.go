package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/krishanu7/battleship-ai/config"
	"github.com/krishanu7/battleship-ai/db"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidToken       = errors.New("invalid token")
	ErrMissingFields      = errors.New("username and password cannot be empty")
)

const tokenTTL = 24 * time.Hour

type Service struct {
	db  *sql.DB
	cfg config.Config
}

func NewService(db *sql.DB, cfg config.Config) *Service {
	return &Service{
		db:  db,
		cfg: cfg,
	}
}

func (s *Service) Register(ctx context.Context, username, email, password string) (db.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return db.User{}, ErrMissingFields
	}
	// Hash the password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return db.User{}, err
	}
	var emailArg any
	if email != "" {
		emailArg = email
	}

	query := "INSERT INTO users (id, username, email, password, created_at) VALUES ($1, $2, $3, $4, $5) RETURNING id, username, COALESCE(email, ''), created_at"
	var user db.User
	err = s.db.QueryRowContext(ctx, query, uuid.New(), username, emailArg, string(hashedPassword), time.Now()).
		Scan(&user.ID, &user.Username, &user.Email, &user.CreatedAt)
	if err != nil {
		// Check for unique constraint violation
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			switch pqErr.Constraint {
			case "users_username_key":
				return db.User{}, ErrUsernameTaken
			case "users_email_key":
				return db.User{}, ErrEmailTaken
			}
		}
		return db.User{}, fmt.Errorf("failed to insert user: %w", err)
	}
	user.Password = string(hashedPassword)
	return user, nil
}

func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	var user db.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, password, created_at
		FROM users
		WHERE username = $1
	`, username).Scan(&user.ID, &user.Username, &user.Password, &user.CreatedAt)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return IssueToken(s.cfg.JWTSecret, user.ID.String(), user.Username, time.Now())
}

// Claims is what a session token carries.
type Claims struct {
	UserID   string
	Username string
}

// IssueToken signs a session token valid for tokenTTL from now.
func IssueToken(secret, userID, username string, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  userID,
		"username": username,
		"exp":      now.Add(tokenTTL).Unix(),
	})
	return token.SignedString([]byte(secret))
}

// ParseToken validates a session token and returns its claims.
func ParseToken(secret, tokenStr string) (Claims, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}
	id, _ := claims["user_id"].(string)
	username, _ := claims["username"].(string)
	if id == "" {
		return Claims{}, ErrInvalidToken
	}
	return Claims{UserID: id, Username: username}, nil
}
