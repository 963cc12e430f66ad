package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/iliyamo/table-reservation/internal/config"
	"github.com/iliyamo/table-reservation/internal/database"
	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/repository"
)

func newTableCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Manage the floor's tables",
	}
	cmd.AddCommand(newTableAddCmd(), newTableListCmd())
	return cmd
}

func newTableAddCmd() *cobra.Command {
	var label string
	var capacity int

	c := &cobra.Command{
		Use:   "add",
		Short: "Add a table",
		RunE: func(cmd *cobra.Command, args []string) error {
			if capacity <= 0 {
				return fmt.Errorf("capacity must be greater than zero")
			}
			dc := config.LoadDB()
			db, err := database.Open(dc.User, dc.Pass, dc.Host, dc.Port, dc.Name)
			if err != nil {
				return err
			}
			defer db.Close()

			t := model.Table{ExternalTableID: label, Capacity: capacity}
			if err := repository.NewCatalogRepo(db).CreateTable(cmd.Context(), &t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added table %s (id %d, %d seats)\n", t.ExternalTableID, t.ID, t.Capacity)
			return nil
		},
	}
	c.Flags().StringVar(&label, "label", "", "label shown on the floor plan, e.g. T1")
	c.Flags().IntVar(&capacity, "capacity", 0, "number of seats")
	_ = c.MarkFlagRequired("label")
	_ = c.MarkFlagRequired("capacity")
	return c
}

func newTableListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			dc := config.LoadDB()
			db, err := database.Open(dc.User, dc.Pass, dc.Host, dc.Port, dc.Name)
			if err != nil {
				return err
			}
			defer db.Close()

			tables, err := repository.NewCatalogRepo(db).ListTables(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tLABEL\tCAPACITY")
			for _, t := range tables {
				fmt.Fprintf(w, "%d\t%s\t%d\n", t.ID, t.ExternalTableID, t.Capacity)
			}
			return w.Flush()
		},
	}
}
