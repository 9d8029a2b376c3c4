package cli

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/AlibekovAA/user-profile/internal/common/dto"
)

func newProfileCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "View or change the profile of the logged-in user",
	}
	cmd.AddCommand(newProfileShowCommand(app), newProfileUpdateCommand(app))
	return cmd
}

func newProfileShowCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.session(cmd.Context())
			if err != nil {
				return err
			}
			user, ok := m.User()
			if !ok {
				return errNotLoggedIn
			}
			printUser(cmd.OutOrStdout(), user)
			return nil
		},
	}
}

// Unset flags keep the current value, so a single field can be changed.
func newProfileUpdateCommand(app *App) *cobra.Command {
	var email, phone, dob string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change email, phone or date of birth",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" && phone == "" && dob == "" {
				return errors.New("nothing to update: pass --email, --phone or --dob")
			}

			m, err := app.session(cmd.Context())
			if err != nil {
				return err
			}
			current, ok := m.User()
			if !ok {
				return errNotLoggedIn
			}

			req := dto.UpdateProfileRequest{Email: current.Email, Phone: current.Phone, DOB: current.DOB}
			if email != "" {
				req.Email = email
			}
			if phone != "" {
				req.Phone = phone
			}
			if dob != "" {
				req.DOB = dob
			}

			user, err := m.UpdateProfile(cmd.Context(), req)
			if err != nil {
				return describe(err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Profile updated successfully")
			printUser(cmd.OutOrStdout(), user)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "new email address")
	cmd.Flags().StringVar(&phone, "phone", "", "new phone number")
	cmd.Flags().StringVar(&dob, "dob", "", "new date of birth, YYYY-MM-DD")
	return cmd
}

func printUser(w io.Writer, user dto.User) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Username:\t%s\n", user.Username)
	fmt.Fprintf(tw, "Email:\t%s\n", user.Email)
	fmt.Fprintf(tw, "Phone:\t%s\n", user.Phone)
	fmt.Fprintf(tw, "Date of birth:\t%s\n", user.DOB)
	if !user.UpdatedAt.IsZero() {
		fmt.Fprintf(tw, "Last updated:\t%s\n", user.UpdatedAt.Local().Format(time.RFC1123))
	}
	tw.Flush()
}
