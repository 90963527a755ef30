package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/posting-planner/internal/bootstrap"
	"github.com/posting-planner/internal/config"
	"github.com/posting-planner/internal/db"
	"github.com/posting-planner/internal/engine"
	"github.com/posting-planner/internal/export"
	"github.com/posting-planner/internal/filter"
	"github.com/posting-planner/internal/session"
	"github.com/posting-planner/internal/source"
)

var (
	configPath  string
	sourcePaths []string
	debugFlag   bool

	appConfig *config.AppConfig
	state     session.State
	commands  *session.Handlers
)

func main() {
	config.LoadEnv()

	rootCmd := &cobra.Command{
		Use:   "planner",
		Short: "Flyer posting area planner",
		Long:  `Selects delivery areas by radius or by hand and estimates the posting cost from household counts`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadState(cmd.Context())
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to planner TOML config")
	rootCmd.PersistentFlags().StringSliceVar(&sourcePaths, "source", nil, "CSV/XLSX source files (replace the configured sources)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug output")

	rootCmd.AddCommand(createOverviewCmd())
	rootCmd.AddCommand(createCandidatesCmd())
	rootCmd.AddCommand(createRadiusCmd())
	rootCmd.AddCommand(createSelectCmd())
	rootCmd.AddCommand(createPublishCmd())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// loadState reads the configured sources once per invocation
func loadState(ctx context.Context) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if debugFlag {
		cfg.Debug = true
	}
	if len(sourcePaths) > 0 {
		cfg.Sources = cfg.Sources[:0]
		for _, p := range sourcePaths {
			cfg.Sources = append(cfg.Sources, source.Source{Path: p, Mandatory: true})
		}
		cfg.Postgres.Enabled = false
	}

	base, report, err := bootstrap.LoadDataset(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to load address data: %w", err)
	}
	for _, w := range report.Warnings {
		log.Printf("Skipped %s: %s", w.Source, w.Reason)
	}

	appConfig = cfg
	state = session.NewState(base)
	commands = session.NewHandlers(cfg.Debug)
	return nil
}

func createOverviewCmd() *cobra.Command {
	var city string
	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Show row and household totals per city",
		RunE: func(cmd *cobra.Command, args []string) error {
			ov := commands.Overview(state, appConfig.Cities, city)
			fmt.Printf("Rows: %d\n", ov.Rows)
			fmt.Printf("Households: %s\n", humanize.Comma(int64(ov.Households)))
			fmt.Println()
			for _, c := range ov.Cities {
				fmt.Printf("  %-12s %6d rows %6d areas %10s households\n",
					c.City, c.Rows, c.Addresses, humanize.Comma(int64(c.Households)))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&city, "city", filter.AllCities, "City to show (all for every configured city)")
	return cmd
}

// viewFlags binds the candidate filter stack to a command
func viewFlags(cmd *cobra.Command, v *session.View, dirs *[]string) {
	cmd.Flags().StringVar(&v.City, "city", filter.AllCities, "City filter")
	cmd.Flags().StringVar(&v.Query, "query", "", "Address substring filter")
	cmd.Flags().StringVar(&v.Reference, "reference", "", "Reference address for the direction filter")
	cmd.Flags().StringSliceVar(dirs, "directions", nil, "Directions from the reference (north,south,east,west)")
}

func resolveView(v session.View, dirs []string) (session.View, error) {
	d, err := filter.ParseDirections(dirs)
	if err != nil {
		return v, err
	}
	v.Directions = d
	return v, nil
}

func createCandidatesCmd() *cobra.Command {
	var (
		view session.View
		dirs []string
	)
	cmd := &cobra.Command{
		Use:   "candidates",
		Short: "List the addresses visible through the filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := resolveView(view, dirs)
			if err != nil {
				return err
			}
			list, err := commands.Candidates(state, v)
			if err != nil {
				return err
			}
			for _, c := range list.Candidates {
				fmt.Printf("%-40s %8s\n", c.Address, humanize.Comma(int64(c.Households)))
			}
			fmt.Printf("\n%d areas\n", len(list.Candidates))
			return nil
		},
	}
	viewFlags(cmd, &view, &dirs)
	return cmd
}

func createRadiusCmd() *cobra.Command {
	var (
		p   session.RadiusParams
		out string
	)
	cmd := &cobra.Command{
		Use:   "radius [center address]",
		Short: "Total households within a radius of an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p.Center = args[0]
			if !cmd.Flags().Changed("radius") {
				p.RadiusKm = appConfig.Defaults.RadiusKm
			}
			if !cmd.Flags().Changed("price") {
				p.UnitPrice = appConfig.Defaults.UnitPrice
			}

			res, err := commands.RadiusSearch(state, p)
			if err != nil {
				return err
			}
			fmt.Printf("=== Radius search: %s ===\n", p.Center)
			fmt.Printf("Center: %.6f, %.6f\n", res.Center.Lat, res.Center.Lon)
			fmt.Printf("Radius: %vkm\n", p.RadiusKm)
			fmt.Printf("Rows matched: %d\n", res.MatchedRows())
			printTotals(res.Result)

			if out == "" {
				return nil
			}
			exp, err := commands.ExportRadius(state, p)
			if err != nil {
				return err
			}
			return writeExport(out, exp)
		},
	}
	cmd.Flags().StringVar(&p.City, "city", filter.AllCities, "City used to find the center address")
	cmd.Flags().Float64Var(&p.RadiusKm, "radius", 0, "Radius in km (default from config)")
	cmd.Flags().Float64Var(&p.UnitPrice, "price", 0, "Unit price per household (default from config)")
	cmd.Flags().StringVar(&out, "out", "", "Write the export to a .csv or .xlsx file")
	return cmd
}

func createSelectCmd() *cobra.Command {
	var (
		view    session.View
		dirs    []string
		visible bool
		invert  bool
		city    string
		price   float64
		out     string
	)
	cmd := &cobra.Command{
		Use:   "select [address...]",
		Short: "Select areas and total their households",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := resolveView(view, dirs)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("price") {
				price = appConfig.Defaults.UnitPrice
			}

			st := state
			if city != "" {
				if st, _, err = commands.SelectCity(st, city); err != nil {
					return err
				}
			}
			if visible {
				if st, _, err = commands.SelectVisible(st, v); err != nil {
					return err
				}
			}
			if invert {
				if st, _, err = commands.InvertVisible(st, v); err != nil {
					return err
				}
			}
			for _, a := range args {
				st, _ = commands.Toggle(st, a, true)
			}

			res, err := commands.AggregateSelection(st, price)
			if err != nil {
				return err
			}
			if res.Empty {
				fmt.Println("Nothing selected")
				return nil
			}
			fmt.Printf("=== Selection: %s ===\n", engine.DescribeSelection(v.Directions, v.Reference))
			fmt.Printf("Selected areas: %d\n", len(res.Selected))
			for _, a := range res.Selected {
				fmt.Printf("  %s\n", a)
			}
			printTotals(res.Result)

			if out == "" {
				return nil
			}
			exp, err := commands.ExportSelection(st, price, v)
			if err != nil {
				return err
			}
			return writeExport(out, exp)
		},
	}
	viewFlags(cmd, &view, &dirs)
	cmd.Flags().BoolVar(&visible, "visible", false, "Select every address visible through the filters")
	cmd.Flags().BoolVar(&invert, "invert", false, "Invert the selection of the visible addresses")
	cmd.Flags().StringVar(&city, "select-city", "", "Select every address of a city")
	cmd.Flags().Float64Var(&price, "price", 0, "Unit price per household (default from config)")
	cmd.Flags().StringVar(&out, "out", "", "Write the export to a .csv or .xlsx file")
	return cmd
}

func createPublishCmd() *cobra.Command {
	var table string
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Copy the loaded dataset into the Postgres address table",
		RunE: func(cmd *cobra.Command, args []string) error {
			if table == "" {
				table = appConfig.Postgres.Table
			}
			conn, err := db.NewConnection(cmd.Context(), appConfig.Postgres.URL)
			if err != nil {
				return err
			}
			defer conn.Close()

			n, err := source.NewPostgresWriter(conn.DB).Publish(cmd.Context(), table, state.Dataset)
			if err != nil {
				return err
			}
			fmt.Printf("Published %d rows to %s\n", n, table)
			return nil
		},
	}
	cmd.Flags().StringVar(&table, "table", "", "Target table (default from config)")
	return cmd
}

func printTotals(res engine.Result) {
	fmt.Printf("Total households: %s\n", humanize.Comma(int64(res.TotalHouseholds)))
	fmt.Printf("Unit price: %v\n", res.UnitPrice)
	fmt.Printf("Estimated amount: %s\n", engine.FormatAmount(res.TotalHouseholds, res.UnitPrice))
}

func writeExport(path string, exp engine.Export) error {
	format, err := export.ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := format.Write(f, exp); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("Wrote %d rows to %s (suggested name %s)\n", len(exp.Rows), path, format.FileName(exp))
	return nil
}
