package main

import (
	"fmt"
	"os"

	"github.com/payarrear/arrear-calculator/internal/domain"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newRatesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Manage the stored DA, HRA, NPA and TA rate tables",
	}
	cmd.AddCommand(newRatesImportCmd(a), newRatesShowCmd(a))
	return cmd
}

func newRatesImportCmd(a *app) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace stored rate tables from a YAML file",
		Long: `Replace stored rate tables from a YAML file.

Without --category the file holds all four tables (da, hra, npa, ta) and every table is
replaced. With --category the file is a plain list of entries for that one table.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rates := &domain.RateTables{}
			categories := domain.RateCategories

			if category != "" {
				c, err := domain.ParseRateCategory(category)
				if err != nil {
					return err
				}
				data, err := os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("failed to read file %s: %w", args[0], err)
				}
				entries, err := a.parser.ParseRateEntries(c, data)
				if err != nil {
					return err
				}
				rates.SetTable(c, entries)
				categories = []domain.RateCategory{c}
			} else {
				var err error
				if rates, err = a.parser.LoadRateTables(args[0]); err != nil {
					return err
				}
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			for _, c := range categories {
				if err := store.ReplaceRateTable(cmd.Context(), c, rates.Table(c)); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d entries\n", c, len(rates.Table(c)))
			}
			a.logger.WithField("file", args[0]).Info("rate tables imported")
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "import a single table (da, hra, npa or ta)")
	return cmd
}

func newRatesShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the stored rate tables as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			rates, err := store.LoadRateTables(cmd.Context())
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(rates); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}
