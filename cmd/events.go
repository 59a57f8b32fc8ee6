package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/josephlewis42/simpleshell/core/logger"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

var reportLogPath string

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Explore the shell event log.",
}

var reportCommand = &cobra.Command{
	Use:   "report",
	Short: "Show a report of events.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		config, err := loadConfig(diagnosticLogger(cmd))
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log") {
			if config.EventLog, err = filepath.Abs(reportLogPath); err != nil {
				return err
			}
		}
		if config.EventLogPath() == "" {
			return errors.New("no event log configured, set event_log or pass --log")
		}

		fd, err := config.ReadEventLog()
		if err != nil {
			return err
		}
		defer fd.Close()

		var report logger.Report
		if err := logger.ReadJSONLinesLog(fd, report.Update); err != nil {
			return err
		}

		out, err := yaml.Marshal(report)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(out))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(reportCommand)

	reportCommand.Flags().StringVar(&reportLogPath, "log", "", "event log to read instead of the configured one")
}
