package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AlibekovAA/user-profile/internal/common/dto"
)

func newRegisterCommand(app *App) *cobra.Command {
	var req dto.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			var err error
			if req.Username, err = valueOrPrompt(app.reader, out, req.Username, "Username"); err != nil {
				return err
			}
			if req.Email, err = valueOrPrompt(app.reader, out, req.Email, "Email"); err != nil {
				return err
			}
			if req.Phone, err = valueOrPrompt(app.reader, out, req.Phone, "Phone"); err != nil {
				return err
			}
			if req.DOB, err = valueOrPrompt(app.reader, out, req.DOB, "Date of birth (YYYY-MM-DD)"); err != nil {
				return err
			}
			if req.Password, err = getPassword(out); err != nil {
				return err
			}

			m, err := app.localSession()
			if err != nil {
				return err
			}

			user, err := m.Register(cmd.Context(), req)
			if err != nil {
				return describe(err)
			}

			fmt.Fprintf(out, "Registered and logged in as %s\n", user.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Username, "username", "", "username")
	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "phone number, digits only")
	cmd.Flags().StringVar(&req.DOB, "dob", "", "date of birth, YYYY-MM-DD")
	return cmd
}

func newLoginCommand(app *App) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with a username or email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			identifier, err := valueOrPrompt(app.reader, out, username, "Username or email")
			if err != nil {
				return err
			}
			password, err := getPassword(out)
			if err != nil {
				return err
			}

			m, err := app.localSession()
			if err != nil {
				return err
			}

			user, err := m.Login(cmd.Context(), identifier, password)
			if err != nil {
				return describe(err)
			}

			fmt.Fprintf(out, "Logged in as %s\n", user.Username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username or email")
	return cmd
}

func newLogoutCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.localSession()
			if err != nil {
				return err
			}
			if err := m.Logout(); err != nil {
				return fmt.Errorf("failed to clear session: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newStatusCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a session is active",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.session(cmd.Context())
			if err != nil {
				return err
			}

			user, ok := m.User()
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", user.Username, user.Email)
			return nil
		},
	}
}
