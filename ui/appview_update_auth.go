package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"sitecheck/config"
	"sitecheck/model"
)

// updateAuth handles session probe, login and logout results.
func (a *AppView) updateAuth(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case model.ClaimsMsg:
		if msg.Err != nil {
			// Backend unreachable or broken: stay on login, show why.
			a.login.errMsg = fmt.Sprintf("Cannot reach server: %v", msg.Err)
			return a, nil
		}
		if msg.Claims == nil {
			// No session. Try stored credentials before prompting.
			if acct := a.dataModel.Creds.Account(); acct.Email != "" && acct.Password != "" {
				a.login.busy = true
				a.login.emailInput.SetValue(acct.Email)
				return a, a.dataModel.LoginCmd(acct.Email, acct.Password, false, false)
			}
			return a, nil
		}
		a.dataModel.User = &msg.Claims.User
		a.dataModel.Cache.Set(model.CacheKeyClaims, msg.Claims)
		return a.enterMain()

	case model.LoginResultMsg:
		a.login.busy = false
		if msg.Err != nil {
			a.login.errMsg = loginErrorText(msg.Err, msg.Registered)
			a.login.passwordInput.Reset()
			return a, nil
		}
		a.login.errMsg = ""
		a.login.passwordInput.Reset()
		a.dataModel.Cache.Invalidate(model.CacheKeyClaims)
		// The login response carries no profile, ask for claims.
		return a, a.dataModel.FetchClaims()

	case model.LogoutMsg:
		if msg.Err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("logout: %v", msg.Err)
		}
		if err := a.dataModel.Creds.Clear(a.dataModel.Config.DataDir()); err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("clear credentials: %v", err)
		}
		a.toLogin("")
		return a, nil
	}
	return a, nil
}

// enterMain switches to the main screen after a confirmed session.
func (a *AppView) enterMain() (tea.Model, tea.Cmd) {
	a.mode = modeMain
	a.statusMsg = ""
	a.focus = focusURL
	a.urlInput.Focus()
	a.fetching = true
	return a, a.dataModel.FetchCheckups(false)
}

func loginErrorText(err error, registered bool) string {
	if registered {
		return fmt.Sprintf("Registration failed: %v", err)
	}
	return fmt.Sprintf("Login failed: %v", err)
}

// handleLoginKey drives the two-field login form.
func (a *AppView) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.login.busy {
		return a, nil
	}

	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		if a.login.field == fieldEmail {
			a.login.field = fieldPassword
			a.login.emailInput.Blur()
			a.login.passwordInput.Focus()
		} else {
			a.login.field = fieldEmail
			a.login.passwordInput.Blur()
			a.login.emailInput.Focus()
		}
		return a, nil

	case "ctrl+t":
		a.login.registerMode = !a.login.registerMode
		return a, nil

	case "ctrl+s":
		a.login.remember = !a.login.remember
		return a, nil

	case "enter":
		email := strings.TrimSpace(a.login.emailInput.Value())
		password := a.login.passwordInput.Value()
		if email == "" || password == "" {
			a.login.errMsg = "Email and password are required"
			return a, nil
		}
		a.login.busy = true
		a.login.errMsg = ""
		return a, a.dataModel.LoginCmd(email, password, a.login.registerMode, a.login.remember)
	}

	var cmd tea.Cmd
	if a.login.field == fieldEmail {
		a.login.emailInput, cmd = a.login.emailInput.Update(msg)
	} else {
		a.login.passwordInput, cmd = a.login.passwordInput.Update(msg)
	}
	return a, cmd
}
