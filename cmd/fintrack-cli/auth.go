package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"fintrack/internal/backend"
)

func (a *app) loginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the access token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			var err error
			if username == "" {
				if username, err = prompt(cmd.OutOrStdout(), in, "Username: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = prompt(cmd.OutOrStdout(), in, "Password: "); err != nil {
					return err
				}
			}

			c, err := a.client()
			if err != nil {
				return err
			}
			sess, err := c.Login(cmd.Context(), username, password)
			if errors.Is(err, backend.ErrInvalidCredentials) {
				return errors.New("login failed: incorrect username or password")
			}
			if err != nil {
				return a.check(err)
			}

			saved := savedSession{Token: sess.Token, Username: username, Server: a.v.GetString("server"), SavedAt: time.Now().UTC()}
			if claims, err := sess.Claims(); err == nil && claims.Username != "" {
				saved.Username = claims.Username
			}
			if err := a.saveSession(saved); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", saved.Username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.removeSession(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func (a *app) registerCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account on the finance server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(username) == "" || password == "" {
				return errors.New("--username and --password are required")
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			if err := c.Register(cmd.Context(), username, password); err != nil {
				return fmt.Errorf("registration failed: %w", a.check(err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Registration successful! Please log in.")
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password")
	return cmd
}

func prompt(out io.Writer, in *bufio.Reader, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(strings.ToLower(label), ": "), err)
	}
	return strings.TrimSpace(line), nil
}
