package main

import (
	"fmt"

	"github.com/payarrear/arrear-calculator/internal/calculation"
	"github.com/payarrear/arrear-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newLevelsCmd(a *app) *cobra.Command {
	var progression string

	cmd := &cobra.Command{
		Use:   "levels",
		Short: "List pay levels in rate-lookup order and their progression cells",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.loadProgression(progression)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, level := range calculation.DefaultPayLevels.Levels() {
				cells := progressionCells(p, level)
				if len(cells) == 0 {
					fmt.Fprintf(out, "%3d  %s\n", i, level)
					continue
				}
				fmt.Fprintf(out, "%3d  %-18s %2d cells  %s .. %s\n", i, level, len(cells),
					cells[0].StringFixed(0), cells[len(cells)-1].StringFixed(0))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&progression, "progression", "", "pay progression YAML file (default: built-in 7th CPC matrix)")
	return cmd
}

func progressionCells(p domain.PayProgression, level string) []decimal.Decimal {
	for _, c := range []domain.Commission{domain.CPC7, domain.CPC6} {
		if cells, ok := p[c][level]; ok {
			return cells
		}
	}
	return nil
}
