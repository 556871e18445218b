// cmd/gatordb/main.go
//
// Package main is the gatordb CLI entrypoint, wired with
// github.com/spf13/cobra following the command/flag layout of
// Pieczasz-smf/cmd/smf/main.go. It opens a single data directory, then,
// per original_source/gatordb.py's --interactive/--csv flags, runs the
// interactive prompt (internal/replcli) and/or bulk-loads a CSV file
// (internal/csvload).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/liamrosenfeld/gatordb/internal/config"
	"github.com/liamrosenfeld/gatordb/internal/csvload"
	"github.com/liamrosenfeld/gatordb/internal/parser"
	"github.com/liamrosenfeld/gatordb/internal/replcli"
	"github.com/liamrosenfeld/gatordb/internal/storage"
)

type rootFlags struct {
	dataDir     string
	configFile  string
	csvFile     string
	table       string
	delimiter   string
	autoCreate  bool
	interactive bool
}

func main() {
	flags := &rootFlags{}
	rootCmd := &cobra.Command{
		Use:   "gatordb",
		Short: "A small single-node relational store with a B+-tree storage engine",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, flags)
		},
	}

	rootCmd.Flags().StringVar(&flags.dataDir, "dbpath", "./data", "Directory holding the database's tables")
	rootCmd.Flags().StringVar(&flags.configFile, "config", "gatordb.toml", "Optional TOML config file")
	rootCmd.Flags().StringVar(&flags.csvFile, "csv", "", "CSV file to bulk-load, then exit")
	rootCmd.Flags().StringVar(&flags.table, "table", "", "Table name for --csv (defaults to the CSV file's base name)")
	rootCmd.Flags().StringVar(&flags.delimiter, "delimiter", ",", "CSV field delimiter")
	rootCmd.Flags().BoolVar(&flags.autoCreate, "autocreate", false, "Create the table from CSV headers if it doesn't exist")
	rootCmd.Flags().BoolVar(&flags.interactive, "interactive", false, "Run the interactive prompt")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run merges the optional TOML config file under the CLI flags, per
// SPEC_FULL.md's configuration section: a flag only overrides the file
// when the user actually passed it, not merely because it carries a
// default value.
func run(cmd *cobra.Command, flags *rootFlags) error {
	fileCfg, err := config.Load(flags.configFile)
	if err != nil {
		return err
	}

	override := config.Config{}
	if cmd.Flags().Changed("dbpath") {
		override.DataDir = flags.dataDir
	}
	if cmd.Flags().Changed("csv") {
		override.CSVFile = flags.csvFile
	}
	if cmd.Flags().Changed("delimiter") {
		override.Delimiter = flags.delimiter
	}
	if cmd.Flags().Changed("table") {
		override.Table = flags.table
	}
	merged := config.Merge(fileCfg, override)

	if merged.DataDir == "" {
		merged.DataDir = flags.dataDir
	}
	if merged.Delimiter == "" {
		merged.Delimiter = flags.delimiter
	}

	autoCreate := fileCfg.AutoCreate
	if cmd.Flags().Changed("autocreate") {
		autoCreate = flags.autoCreate
	}

	db, err := storage.Open(merged.DataDir)
	if err != nil {
		return err
	}
	defer db.Close()

	// Mirrors original_source/gatordb.py's __main__: --interactive and
	// --csv are independent flags, not mutually exclusive, checked in
	// this order.
	if flags.interactive {
		engine := parser.NewEngine(db)
		if err := replcli.Run(engine, os.Stdout); err != nil {
			return err
		}
	}
	if merged.CSVFile != "" {
		return runCSVLoad(db, merged, autoCreate)
	}
	return nil
}

func runCSVLoad(db *storage.Database, cfg config.Config, autoCreate bool) error {
	f, err := os.Open(cfg.CSVFile)
	if err != nil {
		return fmt.Errorf("open csv file %s: %w", cfg.CSVFile, err)
	}
	defer f.Close()

	table := cfg.Table
	if table == "" {
		table = tableNameFromPath(cfg.CSVFile)
	}

	var delim rune = ','
	if len(cfg.Delimiter) > 0 {
		delim = rune(cfg.Delimiter[0])
	}

	n, err := csvload.Load(db, f, csvload.Options{
		TableName:  table,
		Delimiter:  delim,
		AutoCreate: autoCreate,
	})
	if err != nil {
		return err
	}
	fmt.Printf("%d row(s) inserted into %s\n", n, table)
	return nil
}

func tableNameFromPath(path string) string {
	base := path
	for i := len(base) - 1; i >= 0; i-- {
		if base[i] == '/' || base[i] == '\\' {
			base = base[i+1:]
			break
		}
	}
	for i := len(base) - 1; i >= 0; i-- {
		if base[i] == '.' {
			return base[:i]
		}
	}
	return base
}
