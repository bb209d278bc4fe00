package main

import (
	"fmt"

	"github.com/payarrear/arrear-calculator/internal/domain"
	"github.com/payarrear/arrear-calculator/internal/output"
	"github.com/payarrear/arrear-calculator/internal/store/sqlite"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type calculateOptions struct {
	request     string
	rates       string
	progression string
	format      string
	outputDir   string
	write       bool
	archive     bool
}

func newCalculateCmd(a *app) *cobra.Command {
	opts := calculateOptions{}

	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Compute an arrear statement from a request file",
		Long: `Compute an arrear statement from a YAML request file.

Rates come from --rates when given, otherwise from the rate tables stored in --db.
The statement is printed to stdout unless --write is set (or --format all), in which
case a timestamped file per format is written to --output-dir.`,
		Example: `  arrear calculate --request request.yaml --rates rates.yaml
  arrear calculate --request request.yaml --format all --output-dir out/`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalculate(cmd, a, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.request, "request", "r", "", "arrear request YAML file")
	f.StringVar(&opts.rates, "rates", "", "rate tables YAML file (default: rate tables stored in --db)")
	f.StringVar(&opts.progression, "progression", "", "pay progression YAML file (default: built-in 7th CPC matrix)")
	f.StringVarP(&opts.format, "format", "f", "console", fmt.Sprintf("output format: %v or all", output.AvailableFormatterNames()))
	f.StringVarP(&opts.outputDir, "output-dir", "o", a.settings.OutputDir, "directory for written reports")
	f.BoolVarP(&opts.write, "write", "w", false, "write reports to files instead of stdout")
	f.BoolVar(&opts.archive, "archive", false, "save the statement in the --db archive")
	cmd.MarkFlagRequired("request")
	return cmd
}

func runCalculate(cmd *cobra.Command, a *app, opts calculateOptions) error {
	ctx := cmd.Context()

	req, err := a.parser.LoadRequest(opts.request)
	if err != nil {
		return err
	}

	var store *sqlite.Store
	if opts.rates == "" || opts.archive {
		if store, err = a.openStore(); err != nil {
			return err
		}
		defer store.Close()
	}

	var rates *domain.RateTables
	if opts.rates != "" {
		rates, err = a.parser.LoadRateTables(opts.rates)
	} else {
		rates, err = store.LoadRateTables(ctx)
	}
	if err != nil {
		return err
	}

	engine, err := a.newEngine(opts.progression)
	if err != nil {
		return err
	}
	st, err := engine.BuildStatement(req, rates)
	if err != nil {
		return err
	}

	if opts.archive {
		rec, err := store.SaveStatement(ctx, st)
		if err != nil {
			return err
		}
		a.logger.WithFields(logrus.Fields{"statement_id": rec.ID, "employee_id": rec.EmployeeID}).Info("statement archived")
	}

	out := cmd.OutOrStdout()
	if opts.write || output.NormalizeFormatName(opts.format) == "all" {
		paths, err := output.GenerateReport(st, opts.format, opts.outputDir)
		for _, p := range paths {
			fmt.Fprintln(out, p)
		}
		return err
	}

	data, _, err := output.Render(st, opts.format)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}
