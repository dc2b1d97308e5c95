package sessions

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/studylit/internal/cli"
	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/keyring"
	"github.com/julianstephens/studylit/internal/session"
)

type SessionCmd struct {
	Set    SessionSetCmd    `cmd:"" help:"Store the login token issued by the study site."`
	Show   SessionShowCmd   `cmd:"" help:"Show the stored token, masked."`
	Clear  SessionClearCmd  `cmd:"" help:"Remove the stored token."`
	Status SessionStatusCmd `cmd:"" help:"Show which user the timer records for." default:"1"`
}

// promptToken asks for the token without echoing it. Replaced in tests.
var promptToken = func() (string, error) {
	var token string
	err := huh.NewInput().
		Title("Session token").
		Description("Paste the JWT from the study site").
		EchoMode(huh.EchoModePassword).
		Value(&token).
		Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("token cannot be empty")
			}
			return nil
		}).
		Run()
	return strings.TrimSpace(token), err
}

type SessionSetCmd struct {
	Token string `arg:"" optional:"" help:"Token to store. Prompted for when omitted."`
	Force bool   `help:"Store the token even if it carries no user id."`
}

func (c *SessionSetCmd) Run(ctx *cli.Context) error {
	token := strings.TrimSpace(c.Token)
	if token == "" {
		var err error
		if token, err = promptToken(); err != nil {
			return fmt.Errorf("failed to read token: %w", err)
		}
	}

	userID, idErr := session.UserIDFromToken(token)
	if idErr != nil && !c.Force {
		return fmt.Errorf("token rejected: %w (use --force to store it anyway)", idErr)
	}

	if err := keyring.SetSessionToken(token); err != nil {
		return err
	}

	ctx.Println("✓ Session token stored in OS keyring")
	if idErr == nil {
		ctx.Printf("  Recording study sessions for user %d\n", userID)
	}
	return nil
}

type SessionShowCmd struct{}

func (c *SessionShowCmd) Run(ctx *cli.Context) error {
	token, err := keyring.GetSessionToken()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no session token stored. Use '%s session set' to store one", constants.AppName)
		}
		return err
	}

	ctx.Printf("Token: %s\n", MaskToken(token))
	if id, err := session.UserIDFromToken(token); err == nil {
		ctx.Printf("User:  %d\n", id)
	} else {
		ctx.Printf("User:  unknown (%v)\n", err)
	}
	return nil
}

type SessionClearCmd struct{}

func (c *SessionClearCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteSessionToken(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no session token stored")
		}
		return err
	}
	ctx.Println("✓ Session token deleted from OS keyring")
	return nil
}

type SessionStatusCmd struct{}

func (c *SessionStatusCmd) Run(ctx *cli.Context) error {
	id, ok := ctx.Users.Resolve()
	if !ok {
		ctx.Println("Not logged in. Study sessions will not be recorded.")
		ctx.Printf("Store a token with '%s session set' or set %s.\n", constants.AppName, constants.TokenEnvVar)
		return nil
	}
	ctx.Printf("Logged in as user %d\n", id)
	return nil
}

// MaskToken keeps the first and last few characters of a token.
func MaskToken(token string) string {
	if len(token) <= 12 {
		return strings.Repeat("*", len(token))
	}
	return token[:6] + "…" + token[len(token)-4:]
}
