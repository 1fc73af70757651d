package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/quidome/capturetime/internal/logging"
	"github.com/quidome/capturetime/pkg/batch"
	"github.com/quidome/capturetime/pkg/createdat"
	"github.com/quidome/capturetime/pkg/scan"
)

type jsonResult struct {
	Source     string    `json:"source"`
	CapturedAt time.Time `json:"captured_at"`
	Confidence float64   `json:"confidence"`
	Precision  string    `json:"precision"`
}

type jsonExtraction struct {
	Path       string       `json:"path"`
	Kind       string       `json:"kind"`
	CapturedAt *time.Time   `json:"captured_at,omitempty"`
	Source     string       `json:"source"`
	Confidence float64      `json:"confidence,omitempty"`
	Precision  string       `json:"precision,omitempty"`
	Review     bool         `json:"review,omitempty"`
	ConflictOf string       `json:"conflict_source,omitempty"`
	All        []jsonResult `json:"all,omitempty"`
	Error      string       `json:"error,omitempty"`
}

type extractFlags struct {
	order           []string
	all             bool
	errorMode       string
	chunkSize       int
	reviewThreshold time.Duration
	recentFirst     bool
	maxDepth        int
	asJSON          bool
}

func newExtractCmd(opts *options) *cobra.Command {
	flags := &extractFlags{}

	extractCmd := &cobra.Command{
		Use:   "extract [directory]",
		Short: "Determine the capture time of every media file in a directory",
		Long: "Scan a directory and arbitrate between filename, embedded metadata and filesystem timestamps for each media file. " +
			"Nothing is written to the files. Send SIGUSR1 to pause and SIGUSR2 to resume a long run.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}
			return runExtract(cmd, e, args[0], flags)
		},
	}

	f := extractCmd.Flags()
	f.StringSliceVar(&flags.order, "order", nil, "source priority, e.g. filename,metadata,birthtime,mtime")
	f.BoolVar(&flags.all, "all", false, "report every source, not just the winner")
	f.StringVar(&flags.errorMode, "error-mode", "", "fail-fast, collect or ignore")
	f.IntVar(&flags.chunkSize, "chunk-size", 0, "items between cancellation checkpoints (0 = automatic)")
	f.DurationVar(&flags.reviewThreshold, "review-threshold", 0, "flag files whose sources disagree by more than this")
	f.BoolVar(&flags.recentFirst, "recent-first", false, "process recently modified files first")
	f.IntVar(&flags.maxDepth, "max-depth", -1, "maximum recursion depth (0 = no recursion)")
	f.BoolVar(&flags.asJSON, "json", false, "print results as JSON")

	return extractCmd
}

func runExtract(cmd *cobra.Command, e *env, dir string, flags *extractFlags) error {
	changed := cmd.Flags().Changed

	order := e.cfg.SourceOrder()
	if changed("order") {
		parsed, err := createdat.ParseOrder(flags.order)
		if err != nil {
			return err
		}
		order = parsed
	}
	mode := e.cfg.ErrorMode()
	if changed("error-mode") {
		parsed, err := batch.ParseErrorMode(flags.errorMode)
		if err != nil {
			return err
		}
		mode = parsed
	}
	chunkSize := e.cfg.Batch.ChunkSize
	if changed("chunk-size") {
		chunkSize = flags.chunkSize
	}
	threshold := e.cfg.ReviewThreshold()
	if changed("review-threshold") {
		threshold = flags.reviewThreshold
	}
	loc, err := e.cfg.Location()
	if err != nil {
		return err
	}

	scanOpts := e.cfg.ScanOptions()
	if changed("max-depth") {
		scanOpts.MaxDepth = flags.maxDepth
	}
	records, err := scan.ScanRecords(os.DirFS(dir), ".", scanOpts)
	if err != nil {
		return err
	}

	extractor := createdat.NewOS(dir, createdat.Options{
		Location:        loc,
		Detect:          e.cfg.DetectOptions(),
		MaxContentBytes: e.cfg.Sources.ContentMaxBytes,
		Cache:           createdat.NewCache(),
		Logger:          e.logger,
	})
	eo := createdat.ExtractOptions{
		Order:      order,
		IncludeAll: flags.all || e.cfg.Sources.IncludeAll || threshold > 0,
		UseCache:   e.cfg.Sources.UseCache,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	pause := &batch.PauseToken{}
	watchPause(ctx, pause, e.logger)

	sampler := logging.NewProgressSampler(10)
	runOpts := batch.Options[scan.Record, createdat.Extraction]{
		ChunkSize:        chunkSize,
		UIBound:          e.cfg.Batch.UIBound,
		Pause:            pause,
		ErrorMode:        mode,
		ProgressInterval: e.cfg.ProgressInterval(),
		Logger:           e.logger,
		OnProgress: func(p batch.Progress) {
			if sampler.ShouldLog(p.Percent) {
				e.logger.Info("extracting",
					logging.FieldProgress, fmt.Sprintf("%d/%d", p.Completed, p.Total),
					slog.Duration("remaining", p.Remaining.Round(time.Second)),
				)
			}
		},
		Placeholder: func(r scan.Record) createdat.Extraction {
			return createdat.Extraction{Path: r.Path, Best: createdat.Result{Source: createdat.SourceUnknown}}
		},
	}
	if flags.recentFirst {
		runOpts.Priority = func(r scan.Record) float64 { return float64(r.ModTime.UnixNano()) }
	}

	worker := func(_ context.Context, r scan.Record, _ int) (createdat.Extraction, error) {
		x, _, err := extractor.Extract(r.Path, eo)
		return x, err
	}

	res, runErr := batch.Run(ctx, records, worker, runOpts)
	if runErr != nil {
		if errors.Is(runErr, batch.ErrCanceled) {
			e.logger.Warn("extraction stopped", logging.FieldCount, res.Completed, logging.Error(runErr))
		}
		return runErr
	}

	failures := make(map[int]error, len(res.Errors))
	for _, ie := range res.Errors {
		failures[ie.Index] = ie.Err
		e.logger.Warn("extraction failed", logging.FieldPath, records[ie.Index].Path, logging.Error(ie.Err))
	}

	stats := extractor.Cache().Stats()
	e.logger.Debug("extraction finished",
		logging.FieldJobID, res.JobID,
		logging.FieldCount, res.Completed,
		slog.Uint64("cache_hits", stats.Hits),
		slog.Uint64("cache_misses", stats.Misses),
	)

	if flags.asJSON {
		return printExtractionsJSON(cmd, records, res.Results, failures, threshold, flags.all)
	}
	printExtractionsTable(cmd, res.Results, failures, threshold)
	return nil
}

func printExtractionsJSON(cmd *cobra.Command, records []scan.Record, results []createdat.Extraction, failures map[int]error, threshold time.Duration, all bool) error {
	out := make([]jsonExtraction, 0, len(results))
	for i, x := range results {
		j := jsonExtraction{Path: records[i].Path, Kind: string(records[i].Kind), Source: string(x.Best.Source)}
		if err, ok := failures[i]; ok {
			j.Error = err.Error()
		}
		if x.Best.Source != createdat.SourceUnknown && x.Best.Source != "" {
			t := x.Best.CreatedAt
			j.CapturedAt = &t
			j.Confidence = x.Best.Confidence
			j.Precision = x.Best.Precision.String()
		}
		if threshold > 0 {
			if _, other, ok := x.Conflict(threshold); ok {
				j.Review = true
				j.ConflictOf = string(other.Source)
			}
		}
		if all {
			for _, r := range x.All {
				j.All = append(j.All, jsonResult{
					Source:     string(r.Source),
					CapturedAt: r.CreatedAt,
					Confidence: r.Confidence,
					Precision:  r.Precision.String(),
				})
			}
		}
		out = append(out, j)
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printExtractionsTable(cmd *cobra.Command, results []createdat.Extraction, failures map[int]error, threshold time.Duration) {
	rows := make([][]string, 0, len(results))
	for i, x := range results {
		captured := "-"
		confidence := ""
		if x.Best.Source != createdat.SourceUnknown && x.Best.Source != "" {
			captured = x.Best.CreatedAt.Format("2006-01-02 15:04:05")
			confidence = strconv.FormatFloat(x.Best.Confidence, 'f', 2, 64)
		}
		note := ""
		if err, ok := failures[i]; ok {
			note = "error: " + err.Error()
		} else if threshold > 0 {
			if _, other, ok := x.Conflict(threshold); ok {
				note = "review: " + string(other.Source) + " differs"
			}
		}
		rows = append(rows, []string{x.Path, captured, string(x.Best.Source), confidence, note})
	}
	cmd.Println(renderTable(
		[]string{"Path", "Captured", "Source", "Confidence", "Note"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	))
}
