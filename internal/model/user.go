package model

import "time"

// DirectoryEntry is a raw row from the user directory. It is the only type
// that carries the password and it never crosses the verifier boundary.
type DirectoryEntry struct {
	Username    string
	Password    string
	Balance     string
	AccountName string
}

// UserRecord is a sanitized directory row, safe to embed in tokens and
// responses. Balance is the directory's decimal string, kept verbatim.
type UserRecord struct {
	Username    string `json:"username"`
	AccountName string `json:"account_name"`
	Balance     string `json:"balance"`
}

// Session pairs an issued token with the user it was issued for.
type Session struct {
	Token     string     `json:"token"`
	User      UserRecord `json:"user"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// SessionInfo is the display-oriented view of the current session state.
type SessionInfo struct {
	Authenticated bool        `json:"authenticated"`
	User          *UserRecord `json:"user,omitempty"`
	ExpiresAt     *time.Time  `json:"expires_at,omitempty"`
	ExpiresSoon   bool        `json:"expires_soon"`
}
