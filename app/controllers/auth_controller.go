package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	gothfiber "github.com/shareed2k/goth_fiber"

	"github.com/sochai/sochai-web/app/models"
	"github.com/sochai/sochai-web/internal/pkg/apiclient"
	"github.com/sochai/sochai-web/internal/pkg/apperr"
	"github.com/sochai/sochai-web/internal/pkg/authgate"
	"github.com/sochai/sochai-web/internal/pkg/flash"
	"github.com/sochai/sochai-web/internal/pkg/oauth"
	"github.com/sochai/sochai-web/internal/pkg/plans"
	"github.com/sochai/sochai-web/internal/pkg/session"
	"github.com/sochai/sochai-web/internal/pkg/usercontext"
)

const fromKey = "login_from"

type AuthController struct {
	api *apiclient.Client
}

// HandleSession re-derives the session from the cookies. Tabs call it after a
// session.changed event.
func (a *AuthController) HandleSession(c *fiber.Ctx) error {
	svc := currentSession(c)
	if svc == nil {
		return respond(c, fiber.StatusOK, session.Session{})
	}
	return respond(c, fiber.StatusOK, svc.Refresh())
}

func (a *AuthController) HandlePlans(c *fiber.Ctx) error {
	return respond(c, fiber.StatusOK, plans.All())
}

// HandleLoginPage records where the browser wanted to go before it was sent to login.
func (a *AuthController) HandleLoginPage(c *fiber.Ctx) error {
	if from := c.Query("from"); from != "" {
		if err := session.SetValue(c, fromKey, authgate.SafeDestination(from)); err != nil {
			log.Warnf("[Auth] Could not remember login destination: %v", err)
		}
	}
	return c.JSON(fiber.Map{
		"isAuthenticated": usercontext.IsLoggedIn(c),
		"flash":           flash.Get(c),
		"googleEnabled":   oauth.Enabled(),
	})
}

func (a *AuthController) HandleLogin(c *fiber.Ctx) error {
	var form models.LoginForm
	if err := c.BodyParser(&form); err != nil {
		return a.fail(c, apperr.Wrap(apperr.KindValidation, "Please fill in all fields.", err), "/login")
	}
	if err := form.Validate(); err != nil {
		return a.fail(c, apperr.Wrap(apperr.KindValidation, models.FormErrorMessage(err), err), "/login")
	}

	res, err := a.api.Login(c.UserContext(), form)
	if err != nil {
		return a.fail(c, err, "/login")
	}
	return a.finish(c, res, flash.Notice{Level: flash.LevelSuccess, Title: "Welcome back!", Message: "You have been logged in successfully."})
}

func (a *AuthController) HandleSignup(c *fiber.Ctx) error {
	var form models.SignupForm
	if err := c.BodyParser(&form); err != nil {
		return a.fail(c, apperr.Wrap(apperr.KindValidation, "Please fill in all fields.", err), "/signup")
	}
	if err := form.Validate(); err != nil {
		return a.fail(c, apperr.Wrap(apperr.KindValidation, models.FormErrorMessage(err), err), "/signup")
	}

	res, err := a.api.Signup(c.UserContext(), form)
	if err != nil {
		return a.fail(c, err, "/signup")
	}
	return a.finish(c, res, flash.Notice{Level: flash.LevelSuccess, Title: "Account created!", Message: "Welcome to Soch AI."})
}

func (a *AuthController) HandleLogout(c *fiber.Ctx) error {
	if svc := currentSession(c); svc != nil {
		svc.Logout()
		usercontext.Sync(c)
	}
	n := flash.Notice{Level: flash.LevelSuccess, Message: "You have been logged out."}
	if wantsJSON(c) {
		flash.Add(c, n)
		return respond(c, fiber.StatusOK, session.Session{})
	}
	return flash.Redirect(c, n, "/")
}

// HandleOAuthCallback completes the Google flow and exchanges the identity for
// a backend session.
func (a *AuthController) HandleOAuthCallback(c *fiber.Ctx) error {
	u, err := gothfiber.CompleteUserAuth(c)
	if err != nil {
		log.Warnf("[Auth] OAuth callback failed: %v", err)
		return flash.Redirect(c, flash.Notice{Level: flash.LevelError, Title: "Login Failed", Message: "Google sign-in failed."}, "/login")
	}

	res, err := a.api.GoogleSignIn(c.UserContext(), apiclient.GoogleSignInRequest{
		IDToken:   u.IDToken,
		Email:     u.Email,
		Name:      firstNonEmpty(u.Name, u.NickName, u.Email),
		AvatarURL: u.AvatarURL,
	})
	if err != nil {
		return flash.Redirect(c, flash.Notice{Level: flash.LevelError, Title: "Login Failed", Message: apperr.Message(err)}, "/login")
	}

	svc := currentSession(c)
	if err := svc.Login(&res.User, res.Token); err != nil {
		log.Errorf("[Auth] Could not store session: %v", err)
		return flash.Redirect(c, flash.Notice{Level: flash.LevelError, Message: "Login could not be completed."}, "/login")
	}
	usercontext.Sync(c)
	return flash.Redirect(c, flash.Notice{Level: flash.LevelSuccess, Title: "Welcome back!", Message: "You have been logged in successfully."}, a.destination(c))
}

func (a *AuthController) finish(c *fiber.Ctx, res *apiclient.AuthResult, n flash.Notice) error {
	svc := currentSession(c)
	if err := svc.Login(&res.User, res.Token); err != nil {
		log.Errorf("[Auth] Could not store session: %v", err)
		return a.fail(c, apperr.Wrap(apperr.KindValidation, "Login could not be completed.", err), "/login")
	}
	usercontext.Sync(c)

	to := a.destination(c)
	if wantsJSON(c) {
		flash.Add(c, n)
		return respond(c, fiber.StatusOK, fiber.Map{"session": svc.Current(), "redirect": to})
	}
	return flash.Redirect(c, n, to)
}

// destination is the remembered or posted from path, "/" by default.
func (a *AuthController) destination(c *fiber.Ctx) string {
	from := c.FormValue("from")
	if from == "" {
		from = session.GetValue(c, fromKey)
		if from != "" {
			_ = session.DeleteValue(c, fromKey)
		}
	}
	return authgate.SafeDestination(from)
}

func (a *AuthController) fail(c *fiber.Ctx, err error, back string) error {
	if wantsJSON(c) {
		return respondError(c, err)
	}
	return flash.Redirect(c, flash.Notice{Level: flash.LevelError, Title: "Error", Message: apperr.Message(err)}, back)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
