// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/abidb/log"
)

var (
	dbFlag = cli.StringFlag{
		Name:   "db",
		Value:  "sqlite:///abidb.sqlite",
		Usage:  "sqlite URL of the database (sqlite:// for in memory, sqlite:///rel.db, sqlite:////abs.db)",
		EnvVar: "ABIDB_DB",
	}
	verbosityFlag = cli.Uint64Flag{
		Name:   "verbosity",
		Value:  log.LegacyLevelInfo,
		Usage:  "log verbosity (0-5)",
		EnvVar: "ABIDB_VERBOSITY",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:   "json-logs",
		Usage:  "output logs in JSON format",
		EnvVar: "ABIDB_JSON_LOGS",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:   "enable-metrics",
		Usage:  "enables metrics collection",
		EnvVar: "ABIDB_ENABLE_METRICS",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:   "metrics-addr",
		Value:  "localhost:2112",
		Usage:  "metrics service listening address",
		EnvVar: "ABIDB_METRICS_ADDR",
	}

	abiFlag = cli.StringFlag{
		Name:  "abi",
		Usage: "path to a contract JSON ABI",
	}
	eventFlag = cli.StringSliceFlag{
		Name:  "event",
		Usage: "name of an event of the ABI, repeat for several events (all events if omitted)",
	}
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "path to a YAML file listing the contracts and events to prepare",
	}
	logsFlag = cli.StringFlag{
		Name:  "logs",
		Value: "-",
		Usage: "path to a JSON lines file of logs, - for stdin",
	}
	batchFlag = cli.Uint64Flag{
		Name:  "batch",
		Value: 2048,
		Usage: "number of logs written per transaction",
	}
)
