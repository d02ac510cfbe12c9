package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/saudapakka/saudapakka-mandate/internal/domain"
	"github.com/saudapakka/saudapakka-mandate/internal/infra/database"
	"github.com/saudapakka/saudapakka-mandate/internal/infra/repository"
	"github.com/saudapakka/saudapakka-mandate/internal/service"
)

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase()
			if err != nil {
				return err
			}
			return database.Migrate(db)
		},
	}
}

func sweepCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Expire lapsed mandates and send near-expiry warnings once",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := build(nil)
			if err != nil {
				return err
			}
			res, err := app.mandate.SweepExpired(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "expired %d pending, %d active; sent %d warnings\n",
				res.PendingExpired, res.ActiveExpired, res.Warnings)
			return nil
		},
	}
}

func createUserCommand() *cobra.Command {
	var (
		u        domain.User
		password string
	)
	cmd := &cobra.Command{
		Use:   "createuser",
		Short: "Create or update an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if u.ID == "" || u.Email == "" {
				return fmt.Errorf("--id and --email are required")
			}
			db, err := openDatabase()
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return err
			}
			if password != "" {
				u.PasswordHash, err = service.HashPassword(password)
				if err != nil {
					return err
				}
			}
			u.CreatedAt = time.Now()
			return repository.NewUserRepository(db).Upsert(context.Background(), u)
		},
	}
	cmd.Flags().StringVar(&u.ID, "id", "", "account id")
	cmd.Flags().StringVar(&u.Email, "email", "", "login email")
	cmd.Flags().StringVar(&u.FullName, "name", "", "full name")
	cmd.Flags().StringVar(&u.PhoneNumber, "mobile", "", "mobile number")
	cmd.Flags().StringVar(&password, "password", "", "login password")
	cmd.Flags().BoolVar(&u.IsActiveSeller, "seller", false, "active seller")
	cmd.Flags().BoolVar(&u.IsActiveBroker, "broker", false, "active broker")
	cmd.Flags().BoolVar(&u.IsStaff, "staff", false, "staff member")
	return cmd
}
