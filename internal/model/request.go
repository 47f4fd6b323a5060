package model

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

type LoginResponse struct {
	User      UserRecord `json:"user"`
	Message   string     `json:"message"`
	ExpiresAt string     `json:"expires_at"`
}

type BalanceResponse struct {
	Username string `json:"username"`
	Balance  string `json:"balance"`
}
