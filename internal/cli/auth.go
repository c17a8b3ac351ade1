package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wildguard/console/internal/core/domain"
	"github.com/wildguard/console/internal/core/service"
)

type loginForm struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerForm struct {
	Username        string `json:"username"         validate:"required,min=3,max=50"`
	Email           string `json:"email"            validate:"required,email"`
	FullName        string `json:"fullName"         validate:"required,max=100"`
	Password        string `json:"password"         validate:"required,min=6"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (a *app) loginCmd() *cobra.Command {
	var form loginForm
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to WildGuard",
		Args:  cobra.NoArgs,
		RunE: a.action(func(ctx context.Context, cmd *cobra.Command, _ []string) error {
			p := a.prompter()
			var err error
			if form.Username == "" {
				if form.Username, err = p.line("Username"); err != nil {
					return err
				}
			}
			if form.Password == "" {
				if form.Password, err = p.secret("Password", a.readPassword); err != nil {
					return err
				}
			}
			if err := a.forms.Validate(form); err != nil {
				return err
			}
			return a.finishLogin(a.handle.Session.Login(ctx, form.Username, form.Password))
		}),
	}
	cmd.Flags().StringVarP(&form.Username, "username", "u", "", "account name")
	cmd.Flags().StringVarP(&form.Password, "password", "p", "", "password (prompted without echo when omitted)")
	return cmd
}

func (a *app) finishLogin(res service.LoginResult) error {
	if !res.Success {
		return errors.New(res.Message)
	}
	u := res.User
	fmt.Fprintf(a.out, "Logged in as %s (%s). Dashboard: %s\n", u.DisplayName(), u.Role, u.Role.DashboardRoot())
	return nil
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and forget stored credentials",
		Args:  cobra.NoArgs,
		RunE: a.action(func(ctx context.Context, _ *cobra.Command, _ []string) error {
			a.handle.Session.Logout(ctx)
			fmt.Fprintln(a.out, "Logged out.")
			return nil
		}),
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in account",
		Args:  cobra.NoArgs,
		RunE: a.action(func(ctx context.Context, _ *cobra.Command, _ []string) error {
			if refresh && a.handle.Session.IsAuthenticated() {
				if _, err := a.handle.Session.Profile(ctx); err != nil {
					return err
				}
			}
			st := a.handle.Session.State()
			if a.output == "json" {
				return a.writeJSON(st)
			}
			if !st.IsAuthenticated {
				fmt.Fprintln(a.out, "Not logged in.")
				return nil
			}
			u := st.User
			return a.fields(
				"Username", u.Username,
				"Name", u.DisplayName(),
				"Email", u.Email,
				"Role", string(u.Role),
				"Dashboard", u.Role.DashboardRoot(),
			)
		}),
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "reload the profile from the backend")
	return cmd
}

func (a *app) registerCmd() *cobra.Command {
	var form registerForm
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a field account and log in",
		Args:  cobra.NoArgs,
		RunE: a.action(func(ctx context.Context, cmd *cobra.Command, _ []string) error {
			if form.Password == "" {
				p := a.prompter()
				var err error
				if form.Password, err = p.secret("Password", a.readPassword); err != nil {
					return err
				}
				if form.PasswordConfirm, err = p.secret("Confirm password", a.readPassword); err != nil {
					return err
				}
			} else if !cmd.Flags().Changed("password-confirm") {
				form.PasswordConfirm = form.Password
			}
			if err := a.forms.Validate(form); err != nil {
				return err
			}
			return a.finishLogin(a.handle.Session.Register(ctx, domain.Registration{
				Username: form.Username,
				Email:    form.Email,
				FullName: form.FullName,
				Password: form.Password,
			}))
		}),
	}
	f := cmd.Flags()
	f.StringVarP(&form.Username, "username", "u", "", "account name")
	f.StringVar(&form.Email, "email", "", "email address")
	f.StringVar(&form.FullName, "name", "", "full name")
	f.StringVarP(&form.Password, "password", "p", "", "password (prompted twice without echo when omitted)")
	f.StringVar(&form.PasswordConfirm, "password-confirm", "", "repeat of --password")
	return cmd
}
