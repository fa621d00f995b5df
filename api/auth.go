package api

import "context"

// GetClaims returns the current session's claims. A missing session comes
// back as ErrUnauthorized (via errors.Is), which callers treat silently.
func (c *Client) GetClaims(ctx context.Context) (*Claims, error) {
	var claims Claims
	if err := c.getJSON(ctx, "Check user claims", "/auth/claims", &claims); err != nil {
		return nil, err
	}
	return &claims, nil
}

// Login authenticates and stores the session cookie in the client's jar.
func (c *Client) Login(ctx context.Context, data LoginData) error {
	return c.postJSON(ctx, "Login user", "/auth/login", data, nil)
}

// Register creates a new account; the backend also sets the session cookie.
func (c *Client) Register(ctx context.Context, data LoginData) error {
	return c.postJSON(ctx, "Register user", "/auth/register", data, nil)
}

// Logout clears the server-side session.
func (c *Client) Logout(ctx context.Context) error {
	return c.postJSON(ctx, "Logout", "/auth/logout", nil, nil)
}
