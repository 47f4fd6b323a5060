package handler

import (
	"net/http"

	"bank-demo/internal/middleware"
	"bank-demo/pkg/apierror"
)

// BankingHandler serves the authenticated banking API. Balances are
// read-only mirrors of the directory row; there is no write path.
type BankingHandler struct{}

func NewBankingHandler() *BankingHandler {
	return &BankingHandler{}
}

func (h *BankingHandler) Summary(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("UNAUTHORIZED", "authentication required", "", http.StatusUnauthorized))
		return
	}

	writeSuccess(w, http.StatusOK, user)
}
