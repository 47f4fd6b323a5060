package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"bank-demo/internal/directory"
	"bank-demo/internal/model"
	"bank-demo/pkg/apierror"
)

// AuthService verifies credentials against the user directory and returns
// sanitized records. Directory failures propagate as
// model.ErrDirectoryUnavailable rather than being folded into "not found".
type AuthService struct {
	directory directory.Directory
}

func NewAuthService(dir directory.Directory) *AuthService {
	return &AuthService{directory: dir}
}

func (s *AuthService) Authenticate(ctx context.Context, username string, password string) (model.UserRecord, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return model.UserRecord{}, apierror.New("UNAUTHORIZED", "invalid credentials", "", http.StatusUnauthorized)
	}

	entries, err := s.directory.FetchAll(ctx)
	if err != nil {
		if errors.Is(err, model.ErrDirectoryUnavailable) {
			return model.UserRecord{}, err
		}
		return model.UserRecord{}, errors.Join(model.ErrDirectoryUnavailable, err)
	}

	for _, entry := range entries {
		if !strings.EqualFold(entry.Username, username) {
			continue
		}
		if !passwordMatches(entry.Password, password) {
			continue
		}

		// Password never crosses this boundary.
		return model.UserRecord{
			Username:    entry.Username,
			AccountName: entry.AccountName,
			Balance:     entry.Balance,
		}, nil
	}

	return model.UserRecord{}, model.ErrInvalidCredentials
}

// Balance returns the directory's current balance for a username, "0"
// when the row is gone.
func (s *AuthService) Balance(ctx context.Context, username string) (string, error) {
	entries, err := s.directory.FetchAll(ctx)
	if err != nil {
		return "", err
	}

	for _, entry := range entries {
		if strings.EqualFold(entry.Username, username) {
			return entry.Balance, nil
		}
	}

	return "0", nil
}

// passwordMatches supports both bcrypt-hashed and plaintext directory
// rows; plaintext rows are compared in constant time.
func passwordMatches(stored string, supplied string) bool {
	if strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)) == nil
	}

	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}
