package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (a *AppView) loginView() string {
	var b strings.Builder

	action := "Sign in"
	if a.login.registerMode {
		action = "Create account"
	}
	b.WriteString(TitleStyle.Render("sitecheck") + "  " + DimStyle.Render(action) + "\n\n")

	emailLabel := "Email:    "
	passwordLabel := "Password: "
	if a.login.field == fieldEmail {
		emailLabel = SelectedStyle.Render(emailLabel)
	} else {
		passwordLabel = SelectedStyle.Render(passwordLabel)
	}
	b.WriteString(emailLabel + a.login.emailInput.View() + "\n")
	b.WriteString(passwordLabel + a.login.passwordInput.View() + "\n\n")

	remember := "[ ] remember me"
	if a.login.remember {
		remember = "[x] remember me"
	}
	b.WriteString(DimStyle.Render(remember) + "\n\n")

	if a.login.busy {
		b.WriteString(a.loadingSpinner.View() + DimStyle.Render(" signing in..."))
	} else if a.login.errMsg != "" {
		b.WriteString(ErrorStyle.Render(a.login.errMsg))
	}
	b.WriteString("\n\n")

	b.WriteString(FormatFooter(
		"tab", "Next field",
		"enter", "Submit",
		"ctrl+t", "Sign in/Register",
		"ctrl+s", "Remember me",
		"ctrl+c", "Quit",
	))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, b.String())
}
