package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/oKV/cmd/bench"
	"github.com/ValentinKolb/oKV/cmd/repl"
	"github.com/ValentinKolb/oKV/cmd/util"
	"github.com/spf13/cobra"
)

const (
	Version = "0.1.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "okv",
		Short: "in-process key-value store",
		Long: fmt.Sprintf(`oKV (v%s)

An embeddable in-process key-value store library written in Go,
built on an open-addressing hash table with explicit capacity
budgets and ownership-safe value handling.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of oKV",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("oKV v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(repl.ReplCmd)
	RootCmd.AddCommand(bench.BenchCmd)
	RootCmd.AddCommand(versionCmd)

	// Add Flags (shared engine configuration)
	util.SetupStoreFlags(RootCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
