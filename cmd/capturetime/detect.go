package main

import (
	"encoding/json"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/quidome/capturetime/internal/logging"
	"github.com/quidome/capturetime/pkg/filename"
)

var precisionLayouts = map[filename.Precision]string{
	filename.PrecisionYear:        "2006",
	filename.PrecisionMonth:       "2006-01",
	filename.PrecisionDay:         "2006-01-02",
	filename.PrecisionHour:        "2006-01-02 15",
	filename.PrecisionMinute:      "2006-01-02 15:04",
	filename.PrecisionSecond:      "2006-01-02 15:04:05",
	filename.PrecisionMillisecond: "2006-01-02 15:04:05.000",
}

func formatCandidate(c filename.Candidate) string {
	return c.Time().Format(precisionLayouts[c.Precision])
}

type jsonCandidate struct {
	Name       string  `json:"name"`
	Timestamp  string  `json:"timestamp"`
	Precision  string  `json:"precision"`
	Confidence float64 `json:"confidence"`
	Kind       string  `json:"kind"`
	Ambiguous  bool    `json:"ambiguous"`
	Text       string  `json:"text"`
}

func newDetectCmd(opts *options) *cobra.Command {
	var (
		dateOrder string
		all       bool
		asJSON    bool
	)

	detectCmd := &cobra.Command{
		Use:   "detect [name...]",
		Short: "Show the timestamps found in filenames",
		Long:  "Run the filename detector on each name and print the ranked candidates. Only the names are inspected; the files need not exist.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}
			detectOpts := e.cfg.DetectOptions()
			if cmd.Flags().Changed("date-order") {
				order, err := filename.ParseDateOrder(dateOrder)
				if err != nil {
					return err
				}
				detectOpts.DateOrder = order
			}

			out := []jsonCandidate{}
			var rows [][]string
			for _, name := range args {
				cands := filename.Detect(name, detectOpts)
				if len(cands) == 0 {
					rows = append(rows, []string{name, "-", "", "", "", ""})
					continue
				}
				if !all {
					cands = cands[:1]
				}
				for i, c := range cands {
					out = append(out, jsonCandidate{
						Name:       name,
						Timestamp:  formatCandidate(c),
						Precision:  c.Precision.String(),
						Confidence: c.Confidence,
						Kind:       string(c.Kind),
						Ambiguous:  c.Ambiguous,
						Text:       name[c.Start:c.End],
					})
					label := name
					if i > 0 {
						label = ""
					}
					ambiguous := ""
					if c.Ambiguous {
						ambiguous = "yes"
					}
					rows = append(rows, []string{
						label,
						formatCandidate(c),
						c.Precision.String(),
						strconv.FormatFloat(c.Confidence, 'f', 2, 64),
						string(c.Kind),
						ambiguous,
					})
				}
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			cmd.Println(renderTable(
				[]string{"Name", "Timestamp", "Precision", "Confidence", "Kind", "Ambiguous"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
			))
			e.logger.Debug("detect finished", logging.FieldCount, len(args), "date_order", detectOpts.DateOrder.String())
			return nil
		},
	}

	detectCmd.Flags().StringVar(&dateOrder, "date-order", "", "resolve dd/mm ambiguity: day-first or month-first")
	detectCmd.Flags().BoolVar(&all, "all", false, "print every candidate, not just the best")
	detectCmd.Flags().BoolVar(&asJSON, "json", false, "print candidates as JSON")

	return detectCmd
}
