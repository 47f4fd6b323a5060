//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"bank-demo/internal/directory"
	"bank-demo/internal/model"
)

func TestLoginAndBankingFlow(t *testing.T) {
	server := newServer(t, testConfig(), directory.NewDemoDirectory())
	browser := newBrowser(t)

	loginResp := login(t, browser, server.URL, "demo", "demo")
	require.Equal(t, http.StatusOK, loginResp.StatusCode)

	var loginData model.LoginResponse
	decodeData(t, loginResp, &loginData)
	require.Equal(t, "demo", loginData.User.Username)
	require.Equal(t, "Demo User", loginData.User.AccountName)
	require.Equal(t, "5000.00", loginData.User.Balance)
	require.Equal(t, "Welcome back, Demo User", loginData.Message)

	summaryResp, err := browser.Get(server.URL + "/api/v1/banking/summary")
	require.NoError(t, err)
	t.Cleanup(func() { _ = summaryResp.Body.Close() })
	require.Equal(t, http.StatusOK, summaryResp.StatusCode)

	var summary model.UserRecord
	decodeData(t, summaryResp, &summary)
	require.Equal(t, "5000.00", summary.Balance)

	refreshResp, err := browser.Post(server.URL+"/api/v1/banking/refresh-balance", "application/json", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = refreshResp.Body.Close() })
	require.Equal(t, http.StatusOK, refreshResp.StatusCode)

	var balance model.BalanceResponse
	decodeData(t, refreshResp, &balance)
	require.Equal(t, "5000.00", balance.Balance)
}

func TestLoginWrongPasswordIsGeneric(t *testing.T) {
	server := newServer(t, testConfig(), directory.NewDemoDirectory())
	browser := newBrowser(t)

	resp := login(t, browser, server.URL, "demo", "wrong")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var envelope struct {
		Success bool            `json:"success"`
		Error   *model.APIError `json:"error"`
	}
	require.NoError(t, decodeJSON(resp, &envelope))
	require.False(t, envelope.Success)
	require.Equal(t, "Invalid username or password", envelope.Error.Message)
}

func TestLogoutEndsSession(t *testing.T) {
	server := newServer(t, testConfig(), directory.NewDemoDirectory())
	browser := newBrowser(t)

	require.Equal(t, http.StatusOK, login(t, browser, server.URL, "test", "test").StatusCode)

	logoutResp, err := browser.Post(server.URL+"/api/v1/auth/logout", "application/json", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = logoutResp.Body.Close() })
	require.Equal(t, http.StatusOK, logoutResp.StatusCode)

	summaryResp, err := browser.Get(server.URL + "/api/v1/banking/summary")
	require.NoError(t, err)
	t.Cleanup(func() { _ = summaryResp.Body.Close() })
	require.Equal(t, http.StatusUnauthorized, summaryResp.StatusCode)
}

func TestBankingPageGuard(t *testing.T) {
	server := newServer(t, testConfig(), directory.NewDemoDirectory())
	browser := newBrowser(t)

	anonResp, err := browser.Get(server.URL + "/banking")
	require.NoError(t, err)
	t.Cleanup(func() { _ = anonResp.Body.Close() })
	require.Equal(t, http.StatusSeeOther, anonResp.StatusCode)
	require.Equal(t, "/login", anonResp.Header.Get("Location"))

	require.Equal(t, http.StatusOK, login(t, browser, server.URL, "demo", "demo").StatusCode)

	pageResp, err := browser.Get(server.URL + "/banking")
	require.NoError(t, err)
	t.Cleanup(func() { _ = pageResp.Body.Close() })
	require.Equal(t, http.StatusOK, pageResp.StatusCode)
}
