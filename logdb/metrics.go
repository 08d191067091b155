// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"github.com/vechain/abidb/metrics"
)

var (
	metricRowsInserted   = metrics.LazyLoadCounterVec("logdb_rows_inserted_count", []string{"event"})
	metricRowsRemoved    = metrics.LazyLoadCounterVec("logdb_rows_removed_count", []string{"event"})
	metricUpdateLogs     = metrics.LazyLoadHistogram("logdb_update_logs_bucket", metrics.BucketBatchSize)
	metricPreparedEvents = metrics.LazyLoadGauge("logdb_prepared_events_gauge")
)

func metricsHandleInserted(event string, rows int64) {
	if metrics.NoOp() || rows == 0 {
		return
	}
	metricRowsInserted().AddWithLabel(rows, map[string]string{"event": event})
}

func metricsHandleRemoved(event string, rows int64) {
	if metrics.NoOp() || rows == 0 {
		return
	}
	metricRowsRemoved().AddWithLabel(rows, map[string]string{"event": event})
}
