package ctl

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/civicwatch/internal/client/cli"
	"github.com/dmitrijs2005/civicwatch/internal/client/models"
	"github.com/dmitrijs2005/civicwatch/internal/common"
)

// readPasswords returns n passwords, one per line of stdin when fromStdin
// is set, otherwise from hidden terminal prompts.
func readPasswords(s *session, fromStdin bool, prompts ...string) ([][]byte, error) {
	out := make([][]byte, 0, len(prompts))
	if fromStdin {
		reader := bufio.NewReader(s.cmd.InOrStdin())
		for range prompts {
			line, err := reader.ReadString('\n')
			if err != nil && (err != io.EOF || line == "") {
				return nil, err
			}
			out = append(out, []byte(strings.TrimRight(line, "\r\n")))
		}
		return out, nil
	}
	for _, p := range prompts {
		pw, err := cli.GetPassword(p, s.out)
		if err != nil {
			return nil, err
		}
		out = append(out, pw)
	}
	return out, nil
}

func newLoginCmd(opts *rootOptions) *cobra.Command {
	var admin, passwordStdin bool

	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Login and store the access token",
		Args:  cobra.ExactArgs(1),
		RunE: opts.run(func(ctx context.Context, s *session, args []string) error {
			pw, err := readPasswords(s, passwordStdin, "Enter password")
			if err != nil {
				return s.fail(err)
			}
			return s.account().Login(ctx, args[0], pw[0], admin)
		}),
	}
	cmd.Flags().BoolVar(&admin, "admin", false, "login through the administrator endpoint")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	return cmd
}

func newRegisterCmd(opts *rootOptions) *cobra.Command {
	var (
		reg           models.Registration
		passwordStdin bool
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a citizen account",
		Args:  cobra.NoArgs,
		RunE: opts.run(func(ctx context.Context, s *session, _ []string) error {
			pws, err := readPasswords(s, passwordStdin, "Enter password", "Confirm password")
			if err != nil {
				return s.fail(err)
			}
			defer common.WipeByteArray(pws[0])
			defer common.WipeByteArray(pws[1])

			r := reg
			r.Password = string(pws[0])
			return s.account().Register(ctx, r, string(pws[1]))
		}),
	}
	cmd.Flags().StringVar(&reg.Name, "name", "", "full name")
	cmd.Flags().StringVar(&reg.Email, "email", "", "email address")
	cmd.Flags().StringVar(&reg.Phone, "phone", "", "phone number")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password and its confirmation from stdin")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token",
		Args:  cobra.NoArgs,
		RunE: opts.run(func(ctx context.Context, s *session, _ []string) error {
			return s.account().Logout(ctx)
		}),
	}
}

func newWhoAmICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		Args:  cobra.NoArgs,
		RunE: opts.run(func(ctx context.Context, s *session, _ []string) error {
			p, err := s.auth.Profile(ctx)
			if errors.Is(err, common.ErrNotAuthenticated) {
				s.out.Println("not authenticated")
				return &shownError{err: err}
			}
			if err != nil {
				s.out.Error(err)
				return err
			}
			s.out.Printf("%s <%s> (%s)\n", p.Name, p.Email, p.RoleName)
			return nil
		}),
	}
}

func newProfileCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the full profile",
		Args:  cobra.NoArgs,
		RunE: opts.run(func(ctx context.Context, s *session, _ []string) error {
			return s.account().Profile(ctx)
		}),
	}
}

func newTokenCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Decode the stored access token",
		Long:  "Print the payload of the stored token. The signature is not verified.",
		Args:  cobra.NoArgs,
		RunE: opts.run(func(ctx context.Context, s *session, _ []string) error {
			claims, err := s.auth.Claims(ctx)
			if err != nil {
				return s.fail(err)
			}
			if claims == nil {
				s.out.Println("not authenticated")
				return &shownError{err: common.ErrNotAuthenticated}
			}

			b, err := json.MarshalIndent(claims, "", "  ")
			if err != nil {
				return s.fail(err)
			}
			s.out.Println(string(b))
			if exp, ok := claims.ExpiresAt(); ok {
				state := "valid"
				if claims.Expired(time.Now()) {
					state = "expired"
				}
				s.out.Printf("expires: %s (%s)\n", exp.Local().Format(time.RFC3339), state)
			}
			return nil
		}),
	}
}
