package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/quidome/capturetime/internal/logging"
	"github.com/quidome/capturetime/pkg/scan"
)

func newScanCmd(opts *options) *cobra.Command {
	var (
		maxDepth int
		include  []string
		exclude  []string
		asJSON   bool
	)

	scanCmd := &cobra.Command{
		Use:   "scan [directory]",
		Short: "Scan a directory for media files",
		Long:  "Scan a directory and print all media files found (relative to the scan root).",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}
			directory := args[0]

			scanOpts := e.cfg.ScanOptions()
			if cmd.Flags().Changed("max-depth") {
				scanOpts.MaxDepth = maxDepth
			}
			scanOpts.Include = append(scanOpts.Include, include...)
			scanOpts.Exclude = append(scanOpts.Exclude, exclude...)

			records, err := scan.ScanRecords(os.DirFS(directory), ".", scanOpts)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if records == nil {
					records = []scan.Record{}
				}
				return enc.Encode(records)
			}

			for _, r := range records {
				cmd.Println(r.Path)
			}
			e.logger.Debug("scan finished", logging.FieldPath, directory, logging.FieldCount, len(records))
			return nil
		},
	}

	scanCmd.Flags().IntVar(&maxDepth, "max-depth", -1, "maximum recursion depth (0 = no recursion)")
	scanCmd.Flags().StringSliceVar(&include, "include", nil, "only list files matching this glob (repeatable)")
	scanCmd.Flags().StringSliceVar(&exclude, "exclude", nil, "skip files and directories matching this glob (repeatable)")
	scanCmd.Flags().BoolVar(&asJSON, "json", false, "print records as JSON")

	return scanCmd
}
