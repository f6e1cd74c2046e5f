package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"lunarview/internal/models"
	"lunarview/internal/repositories"
	"lunarview/internal/shared"
)

// AuthLogin exchanges credentials for a bearer token and stores the session.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	password := cmd.String("password")
	if email == "" || password == "" {
		return fmt.Errorf("%w: --email and --password are required", shared.ErrMissingArgument)
	}

	r.logger.Info("logging in", "email", email)

	token, err := r.lunar.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	if err := r.storeSession(token.AccessToken, token.User.Email, token.User.ID); err != nil {
		return err
	}

	if err := r.lunar.Authenticate(ctx, token.AccessToken); err != nil {
		return err
	}

	return r.writePlain("✓ Logged in as %s\n", token.User.Email)
}

// AuthRegister creates an account and stores the returned session.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	password := cmd.String("password")
	name := cmd.String("name")
	if email == "" || password == "" {
		return fmt.Errorf("%w: --email and --password are required", shared.ErrMissingArgument)
	}

	r.logger.Info("registering account", "email", email)

	token, err := r.lunar.Register(ctx, email, password, name)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	if err := r.storeSession(token.AccessToken, token.User.Email, token.User.ID); err != nil {
		return err
	}

	if err := r.lunar.Authenticate(ctx, token.AccessToken); err != nil {
		return err
	}

	return r.writePlain("✓ Account created for %s\n", token.User.Email)
}

// AuthStatus verifies the stored token against the backend.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx); err != nil {
		return r.writePlain("✗ Not logged in\n")
	}

	user, err := r.lunar.Me(ctx)
	if err != nil {
		return fmt.Errorf("token rejected, log in again: %w", err)
	}

	r.writePlain("✓ Logged in\n")
	r.writePlain("Email: %s\n", user.Email)
	if user.Name != "" {
		r.writePlain("Name: %s\n", user.Name)
	}
	return nil
}

// AuthLogout discards the stored session.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database()
	if err != nil {
		return err
	}

	if err := repositories.NewSessionRepository(db).Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	return r.writePlain("✓ Logged out\n")
}

func (r *Runner) storeSession(token, email, userID string) error {
	db, err := r.database()
	if err != nil {
		return err
	}

	session := models.NewSession(token, email, userID)
	if err := repositories.NewSessionRepository(db).Save(session); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// authCommand handles account and session operations
func authCommand(r *Runner) *cli.Command {
	credentialFlags := []cli.Flag{
		&cli.StringFlag{
			Name:    "email",
			Aliases: []string{"e"},
			Usage:   "Account email",
		},
		&cli.StringFlag{
			Name:    "password",
			Aliases: []string{"p"},
			Usage:   "Account password",
		},
	}

	return &cli.Command{
		Name:  "auth",
		Usage: "Authenticate with the Lunar View backend",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Log in and store the session token",
				Flags:  credentialFlags,
				Action: r.AuthLogin,
			},
			{
				Name:  "register",
				Usage: "Create an account and store the session token",
				Flags: append(credentialFlags, &cli.StringFlag{
					Name:  "name",
					Usage: "Display name",
				}),
				Action: r.AuthRegister,
			},
			{
				Name:   "status",
				Usage:  "Show the current session",
				Action: r.AuthStatus,
			},
			{
				Name:   "logout",
				Usage:  "Discard the stored session",
				Action: r.AuthLogout,
			},
		},
	}
}
