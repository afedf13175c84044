package apiclient

import (
	"context"
	"net/http"

	"github.com/sochai/sochai-web/app/models"
)

// AuthResult is what login, signup and Google sign-in hand back.
type AuthResult struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

type authResponse struct {
	Data AuthResult `json:"data"`
}

type GoogleSignInRequest struct {
	IDToken   string `json:"idToken"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

func (c *Client) Login(ctx context.Context, form models.LoginForm) (*AuthResult, error) {
	return c.authenticate(ctx, "/api/auth/login", form)
}

func (c *Client) Signup(ctx context.Context, form models.SignupForm) (*AuthResult, error) {
	return c.authenticate(ctx, "/api/auth/signup", form)
}

func (c *Client) GoogleSignIn(ctx context.Context, req GoogleSignInRequest) (*AuthResult, error) {
	return c.authenticate(ctx, "/api/auth/google", req)
}

func (c *Client) authenticate(ctx context.Context, path string, body interface{}) (*AuthResult, error) {
	var out authResponse
	if err := c.do(ctx, http.MethodPost, path, "", body, &out); err != nil {
		return nil, err
	}
	if out.Data.Token == "" {
		return nil, protocolError("authentication response carried no token")
	}
	return &out.Data, nil
}
