package cli

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dmitrijs2005/civicwatch/internal/client/models"
	"github.com/dmitrijs2005/civicwatch/internal/common"
)

var errUsage = errors.New("usage")

func (a *App) usage(text string) error {
	a.out.Println("Usage:", text)
	return errUsage
}

// Register prompts for the account details and creates the account.
// Both password slices are wiped before returning.
func (a *App) Register(ctx context.Context, _ []string) error {
	var reg models.Registration
	var err error

	for _, f := range []struct {
		prompt string
		dst    *string
	}{
		{"Enter name", &reg.Name},
		{"Enter email", &reg.Email},
		{"Enter phone", &reg.Phone},
	} {
		if *f.dst, err = getSimpleText(a.reader, f.prompt, a.out); err != nil {
			return err
		}
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword("Confirm password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	reg.Password = string(password)
	return a.account.Register(ctx, reg, string(confirm))
}

func (a *App) Login(ctx context.Context, args []string) error {
	return a.login(ctx, args, false)
}

func (a *App) AdminLogin(ctx context.Context, args []string) error {
	return a.login(ctx, args, true)
}

// login takes the email from args or a prompt, then the password.
func (a *App) login(ctx context.Context, args []string, admin bool) error {
	var email string
	if len(args) > 0 {
		email = args[0]
	} else {
		var err error
		if email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
			return err
		}
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	// the account view wipes the password
	return a.account.Login(ctx, email, password, admin)
}

func (a *App) Logout(ctx context.Context, _ []string) error {
	a.stopWatch()
	return a.account.Logout(ctx)
}

// WhoAmI fetches the profile of the stored token.
func (a *App) WhoAmI(ctx context.Context, _ []string) error {
	p, err := a.auth.Profile(ctx)
	if errors.Is(err, common.ErrNotAuthenticated) {
		a.out.Println("not authenticated")
		return err
	}
	if err != nil {
		a.out.Error(err)
		return a.check(ctx, err)
	}
	a.out.Printf("%s <%s> (%s)\n", p.Name, p.Email, p.RoleName)
	return nil
}

type savedAtStore interface {
	SavedAt(ctx context.Context) (time.Time, bool, error)
}

// Token prints the decoded payload of the stored token. The signature is
// not verified; the claims are informational.
func (a *App) Token(ctx context.Context, _ []string) error {
	claims, err := a.auth.Claims(ctx)
	if err != nil {
		a.out.Error(err)
		return err
	}
	if claims == nil {
		a.out.Println("not authenticated")
		return common.ErrNotAuthenticated
	}

	b, err := json.MarshalIndent(claims, "", "  ")
	if err != nil {
		return err
	}
	a.out.Println(string(b))

	if exp, ok := claims.ExpiresAt(); ok {
		state := "valid"
		if claims.Expired(time.Now()) {
			state = "expired"
		}
		a.out.Printf("expires: %s (%s)\n", exp.Local().Format(time.RFC3339), state)
	}
	if s, ok := a.tokens.(savedAtStore); ok {
		if at, found, err := s.SavedAt(ctx); err == nil && found {
			a.out.Printf("saved:   %s\n", at.Local().Format(time.RFC3339))
		}
	}
	return nil
}
