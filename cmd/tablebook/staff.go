package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iliyamo/table-reservation/internal/config"
	"github.com/iliyamo/table-reservation/internal/database"
	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/repository"
)

func newStaffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "staff",
		Short: "Manage staff accounts",
	}
	cmd.AddCommand(newStaffCreateCmd())
	return cmd
}

func newStaffCreateCmd() *cobra.Command {
	var email, password, role string

	c := &cobra.Command{
		Use:   "create",
		Short: "Create a staff or admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			role = strings.ToUpper(strings.TrimSpace(role))
			if role != model.RoleStaff && role != model.RoleAdmin {
				return fmt.Errorf("role must be %s or %s", model.RoleStaff, model.RoleAdmin)
			}
			dc := config.LoadDB()
			db, err := database.Open(dc.User, dc.Pass, dc.Host, dc.Port, dc.Name)
			if err != nil {
				return err
			}
			defer db.Close()

			id, err := repository.NewUserRepo(db).Create(cmd.Context(), email, password, role, dc.BcryptCost)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s %q (id %d)\n", role, email, id)
			return nil
		},
	}
	c.Flags().StringVar(&email, "email", "", "login e-mail")
	c.Flags().StringVar(&password, "password", "", "password")
	c.Flags().StringVar(&role, "role", model.RoleStaff, "STAFF or ADMIN")
	_ = c.MarkFlagRequired("email")
	_ = c.MarkFlagRequired("password")
	return c
}
