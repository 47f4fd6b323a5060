package handler

import (
	"html/template"
	"log/slog"
	"net/http"

	"bank-demo/internal/middleware"
)

// PageHandler renders the two pages the session flow needs: the login
// entry point and the protected banking dashboard. The promotional pages
// of the original site are intentionally not served here.
type PageHandler struct {
	login   *template.Template
	banking *template.Template
}

func NewPageHandler() *PageHandler {
	return &PageHandler{
		login:   template.Must(template.New("login").Parse(loginPage)),
		banking: template.Must(template.New("banking").Parse(bankingPage)),
	}
}

func (h *PageHandler) Login(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.login.Execute(w, nil); err != nil {
		slog.Error("failed to render login page", "error", err)
	}
}

// Banking renders the dashboard for the guarded session user. The guard
// has already redirected anonymous visitors to /login.
func (h *PageHandler) Banking(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.banking.Execute(w, user); err != nil {
		slog.Error("failed to render banking page", "error", err)
	}
}

const loginPage = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>Sign in</title>
    <style>body{font-family:sans-serif;max-width:24rem;margin:4rem auto;}label{display:block;margin-top:1rem;}#error{color:#b00;margin-top:1rem;}</style>
  </head>
  <body>
    <h1>Sign in</h1>
    <form id="login-form">
      <label>Username <input name="username" autocomplete="username" /></label>
      <label>Password <input name="password" type="password" autocomplete="current-password" /></label>
      <label><input name="remember" type="checkbox" /> Remember me</label>
      <button type="submit">Sign in</button>
      <p id="error"></p>
      <p><small>Demo credentials: demo / demo</small></p>
    </form>
    <script>
      document.getElementById('login-form').addEventListener('submit', async (e) => {
        e.preventDefault();
        const form = new FormData(e.target);
        const resp = await fetch('/api/v1/auth/login', {
          method: 'POST',
          headers: {'Content-Type': 'application/json'},
          body: JSON.stringify({
            username: form.get('username'),
            password: form.get('password'),
            remember: form.get('remember') === 'on'
          })
        });
        const body = await resp.json();
        if (body.success) {
          window.location = '/banking';
        } else {
          document.getElementById('error').textContent = body.error.message;
        }
      });
    </script>
  </body>
</html>`

const bankingPage = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>Banking</title>
    <style>body{font-family:sans-serif;max-width:32rem;margin:4rem auto;}#banner{color:#b00;}</style>
  </head>
  <body>
    <h1>Welcome, {{.AccountName}}</h1>
    <p>Account: {{.Username}}</p>
    <p>Balance: $<span id="balance">{{.Balance}}</span></p>
    <p id="banner"></p>
    <button id="refresh">Refresh balance</button>
    <button id="signout">Sign out</button>
    <script>
      document.getElementById('refresh').addEventListener('click', async () => {
        const resp = await fetch('/api/v1/banking/refresh-balance', {method: 'POST'});
        const body = await resp.json();
        if (body.success) {
          document.getElementById('balance').textContent = body.data.balance;
          document.getElementById('banner').textContent = '';
        } else {
          document.getElementById('banner').textContent = body.error.message;
        }
      });
      document.getElementById('signout').addEventListener('click', async () => {
        await fetch('/api/v1/auth/logout', {method: 'POST'});
        window.location = '/login';
      });
    </script>
  </body>
</html>`
