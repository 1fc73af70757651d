package config

import (
	"github.com/quidome/capturetime/pkg/batch"
	"github.com/quidome/capturetime/pkg/createdat"
	"github.com/quidome/capturetime/pkg/filename"
)

const (
	defaultLogLevel        = "info"
	defaultLogFormat       = "auto"
	defaultReviewThreshold = "24h"
)

// Default returns the configuration used when no file is present.
func Default() Config {
	order := make([]string, 0, len(createdat.DefaultOrder))
	for _, s := range createdat.DefaultOrder {
		order = append(order, string(s))
	}
	return Config{
		Detect: Detect{
			DateOrder:    filename.DayFirst.String(),
			EpochMinYear: filename.DefaultEpochYears.Min,
			EpochMaxYear: filename.DefaultEpochYears.Max,
		},
		Sources: Sources{
			Order:           order,
			UseCache:        true,
			ContentMaxBytes: createdat.DefaultMaxContentBytes,
			ReviewThreshold: defaultReviewThreshold,
			Timezone:        "Local",
		},
		Batch: Batch{
			ErrorMode:          batch.Collect.String(),
			ProgressIntervalMS: int(batch.DefaultProgressInterval.Milliseconds()),
		},
		Scan: Scan{
			MaxDepth: -1,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
