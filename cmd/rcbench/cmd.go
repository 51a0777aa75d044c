package main

import (
	"github.com/arclib/arclib/std/log"
	"github.com/spf13/cobra"
)

var logLevel string

var CmdRCBench = &cobra.Command{
	Use:     "rcbench",
	Short:   "Benchmark and exercise the std/rc atomic reference-counted pointer library",
	Version: "0.1.0",
}

func init() {
	cobra.EnableCommandSorting = false
	CmdRCBench.Root().CompletionOptions.HiddenDefaultCmd = true
	CmdRCBench.PersistentFlags().StringVar(&logLevel, "log-level", "INFO", "log level: TRACE, DEBUG, INFO, WARN, ERROR")
	CmdRCBench.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		lvl, err := log.ParseLevel(logLevel)
		if err != nil {
			log.Fatal("invalid log level", "level", logLevel)
		}
		log.Default().SetLevel(lvl)
	}

	CmdRCBench.AddGroup(&cobra.Group{ID: "scenarios", Title: "Scenarios"})
	CmdRCBench.AddCommand(cmdStack())
	CmdRCBench.AddCommand(cmdCAS())
}
