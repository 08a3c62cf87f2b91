package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/sessionguard/core/auth"
	"github.com/dmitrymomot/sessionguard/core/config"
	"github.com/dmitrymomot/sessionguard/core/query"
	"github.com/dmitrymomot/sessionguard/integration/database/pg"
)

var errUserNotFound = errors.New("user not found")

var (
	userEmail    string
	userPassword string
	userInactive bool
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage rows in the users table",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user with a bcrypt-hashed password",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withUsers(cmd.Context(), func(ctx context.Context, users *userAdmin) error {
			if err := users.create(ctx, userEmail, userPassword, !userInactive); err != nil {
				return err
			}
			cmd.Printf("created %s\n", userEmail)
			return nil
		})
	},
}

var userDeactivateCmd = &cobra.Command{
	Use:   "deactivate",
	Short: "Prevent a user from signing in",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withUsers(cmd.Context(), func(ctx context.Context, users *userAdmin) error {
			if err := users.deactivate(ctx, userEmail); err != nil {
				return err
			}
			cmd.Printf("deactivated %s\n", userEmail)
			return nil
		})
	},
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a user",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withUsers(cmd.Context(), func(ctx context.Context, users *userAdmin) error {
			if err := users.remove(ctx, userEmail); err != nil {
				return err
			}
			cmd.Printf("deleted %s\n", userEmail)
			return nil
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{userCreateCmd, userDeactivateCmd, userDeleteCmd} {
		c.Flags().StringVar(&userEmail, "email", "", "User email")
		_ = c.MarkFlagRequired("email")
		userCmd.AddCommand(c)
	}
	userCreateCmd.Flags().StringVar(&userPassword, "password", "", "Plain-text password, stored as a bcrypt hash")
	userCreateCmd.Flags().BoolVar(&userInactive, "inactive", false, "Create the user deactivated")
	_ = userCreateCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(userCmd)
}

type userConfig struct {
	Auth auth.Config
	DB   pg.Config
}

// rowStore is the subset of *query.Store the user commands need.
type rowStore interface {
	Insert(ctx context.Context, table string, row query.Row) (int64, error)
	Update(ctx context.Context, table string, row query.Row, cond query.Condition) (int64, error)
	Delete(ctx context.Context, table string, cond query.Condition) (int64, error)
}

type userAdmin struct {
	store rowStore
	cfg   auth.Config
}

func withUsers(ctx context.Context, fn func(context.Context, *userAdmin) error) error {
	var cfg userConfig
	if err := config.Load(&cfg); err != nil {
		return err
	}

	db, err := pg.Connect(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()

	return fn(ctx, &userAdmin{store: query.New(db, cfg.Auth.Schema()), cfg: cfg.Auth})
}

func (u *userAdmin) create(ctx context.Context, email, password string, active bool) error {
	if password == "" {
		return auth.ErrInvalidCredentials
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	row := query.Row{"email": email, u.cfg.PasswordColumn: hash}
	if u.cfg.ActiveColumn != "" {
		row[u.cfg.ActiveColumn] = active
	}

	if _, err := u.store.Insert(ctx, u.cfg.UsersTable, row); err != nil {
		if pg.IsDuplicateKeyError(err) {
			return fmt.Errorf("user %s already exists", email)
		}
		return err
	}
	return nil
}

func (u *userAdmin) deactivate(ctx context.Context, email string) error {
	if u.cfg.ActiveColumn == "" {
		return errors.New("no active column configured")
	}
	n, err := u.store.Update(ctx, u.cfg.UsersTable,
		query.Row{u.cfg.ActiveColumn: false},
		query.Condition{Where: query.Row{"email": email}},
	)
	return affected(n, err)
}

func (u *userAdmin) remove(ctx context.Context, email string) error {
	n, err := u.store.Delete(ctx, u.cfg.UsersTable, query.Condition{Where: query.Row{"email": email}})
	return affected(n, err)
}

func affected(n int64, err error) error {
	if err != nil {
		return err
	}
	if n == 0 {
		return errUserNotFound
	}
	return nil
}
