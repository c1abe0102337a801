package logstore

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RowsAppended counts rows written to the JSONL file.
	RowsAppended = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "diaryd",
			Subsystem: "logstore",
			Name:      "rows_appended_total",
			Help:      "Total number of log rows appended",
		},
	)

	// ReadsTotal counts read operations by mode.
	// Labels: mode (query, tail)
	ReadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "diaryd",
			Subsystem: "logstore",
			Name:      "reads_total",
			Help:      "Total number of read operations by mode",
		},
		[]string{"mode"},
	)

	// RowsDeleted counts rows removed by device deletions.
	RowsDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "diaryd",
			Subsystem: "logstore",
			Name:      "rows_deleted_total",
			Help:      "Total number of log rows deleted",
		},
	)

	// MalformedRows counts lines that failed to parse during reads.
	MalformedRows = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "diaryd",
			Subsystem: "logstore",
			Name:      "malformed_rows_total",
			Help:      "Total number of malformed JSONL lines skipped",
		},
	)
)
