package model

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"sitecheck/api"
	"sitecheck/config"
)

const requestTimeout = 30 * time.Second

// FetchClaims asks the backend who we are. A 401 is not an error here -
// it simply means the login view should be shown.
func (m *Model) FetchClaims() tea.Cmd {
	client := m.API
	if cached, ok := m.Cache.Get(CacheKeyClaims); ok {
		claims := cached.(*api.Claims)
		return func() tea.Msg {
			return ClaimsMsg{Claims: claims}
		}
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		claims, err := client.GetClaims(ctx)
		if err != nil {
			if errors.Is(err, api.ErrUnauthorized) {
				// No session yet, route to login without a banner.
				return ClaimsMsg{}
			}
			return ClaimsMsg{Err: err}
		}
		return ClaimsMsg{Claims: claims}
	}
}

// LoginCmd authenticates (or registers) and optionally persists the
// account for the next launch.
func (m *Model) LoginCmd(email, password string, register, remember bool) tea.Cmd {
	client := m.API
	creds := m.Creds
	dataDir := m.Config.DataDir()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		data := api.LoginData{Email: email, Password: password}
		var err error
		if register {
			err = client.Register(ctx, data)
		} else {
			err = client.Login(ctx, data)
		}
		if err != nil {
			return LoginResultMsg{Email: email, Registered: register, Err: err}
		}

		if remember && creds != nil {
			creds.SetAccount(config.Account{Email: email, Password: password})
			if saveErr := creds.Save(dataDir); saveErr != nil && config.DebugLog != nil {
				config.DebugLog.Printf("[auth] failed to persist credentials: %v", saveErr)
			}
		}

		return LoginResultMsg{Email: email, Registered: register}
	}
}

// LogoutCmd clears the server session. The caller clears the cache and
// local state when the result arrives.
func (m *Model) LogoutCmd() tea.Cmd {
	client := m.API
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		return LogoutMsg{Err: client.Logout(ctx)}
	}
}

// CheckHealth probes the backend for the status bar.
func (m *Model) CheckHealth() tea.Cmd {
	client := m.API
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		return HealthMsg{Err: client.Healthz(ctx)}
	}
}
