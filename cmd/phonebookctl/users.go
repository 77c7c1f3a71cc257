package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/phonebook/internal/domain/model"
	"github.com/ericfisherdev/phonebook/internal/domain/port/driven"
)

func newUsersCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage API user accounts",
		Long:  `Commands for creating, listing, and deleting the accounts that may log in to the phone book API.`,
	}

	cmd.AddCommand(newUsersSetCmd(opts))
	cmd.AddCommand(newUsersListCmd(opts))
	cmd.AddCommand(newUsersDeleteCmd(opts))

	return cmd
}

func newUsersSetCmd(opts *options) *cobra.Command {
	var (
		roleFlag     string
		passwordFlag string
		stdinFlag    bool
	)

	cmd := &cobra.Command{
		Use:   "set <username>",
		Short: "Create a user or replace its password and role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := args[0]

			role, err := model.ParseRole(roleFlag)
			if err != nil {
				return fmt.Errorf("invalid --role: %w", err)
			}

			password := passwordFlag
			if stdinFlag {
				scanner := bufio.NewScanner(cmd.InOrStdin())
				if scanner.Scan() {
					password = strings.TrimRight(scanner.Text(), "\r")
				}
				if err := scanner.Err(); err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
			}

			if password == "" {
				return errors.New("password is required (use --password or --stdin)")
			}

			svc, cleanup, err := openAuthService(cmd.Context(), opts.dbPath)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := svc.SetUser(cmd.Context(), username, password, role); err != nil {
				return fmt.Errorf("failed to set user: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "User %s saved with role %s\n", username, role)
			return nil
		},
	}

	cmd.Flags().StringVar(&roleFlag, "role", "", "Role to grant: read or read-write")
	cmd.Flags().StringVar(&passwordFlag, "password", "", "Password (prefer --stdin to keep it out of shell history)")
	cmd.Flags().BoolVar(&stdinFlag, "stdin", false, "Read the password from the first line of stdin")
	_ = cmd.MarkFlagRequired("role")
	cmd.MarkFlagsMutuallyExclusive("password", "stdin")

	return cmd
}

func newUsersListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List user accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, cleanup, err := openAuthService(cmd.Context(), opts.dbPath)
			if err != nil {
				return err
			}
			defer cleanup()

			users, err := svc.ListUsers(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list users: %w", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "USERNAME\tROLE\tUPDATED AT")
			for _, u := range users {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", u.Username, u.Role, u.UpdatedAt.UTC().Format(time.RFC3339))
			}
			return w.Flush()
		},
	}
}

func newUsersDeleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <username>",
		Short: "Delete a user account",
		Long:  `Delete a user account. Tokens already issued to the user remain valid until they expire.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := openAuthService(cmd.Context(), opts.dbPath)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := svc.DeleteUser(cmd.Context(), args[0]); err != nil {
				if errors.Is(err, driven.ErrUserNotFound) {
					return fmt.Errorf("user %q not found", args[0])
				}
				return fmt.Errorf("failed to delete user: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "User %s deleted\n", args[0])
			return nil
		},
	}
}
