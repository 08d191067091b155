// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/abidb/abi"
	"github.com/vechain/abidb/log"
	"github.com/vechain/abidb/logdb"
	"github.com/vechain/abidb/metrics"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "abidb")

	stopMetrics = func() {}
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "abidb",
		Usage:     "Index ABI encoded contract events into sqlite tables",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Flags: []cli.Flag{
			dbFlag,
			verbosityFlag,
			jsonLogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
		},
		Before: beforeAction,
		After: func(*cli.Context) error {
			stopMetrics()
			return nil
		},
		Commands: []cli.Command{
			{
				Name:   "prepare",
				Usage:  "create the tables of contract events",
				Flags:  []cli.Flag{abiFlag, eventFlag, configFlag},
				Action: prepareAction,
			},
			{
				Name:      "cursor",
				Usage:     "print the indexed and finalized blocks of an event",
				ArgsUsage: "NAME",
				Action:    cursorAction,
			},
			{
				Name:      "set-cursor",
				Usage:     "set the indexed and finalized blocks of an event",
				ArgsUsage: "NAME INDEXED FINALIZED",
				Action:    setCursorAction,
			},
			{
				Name:      "uncle",
				Usage:     "remove the logs of an event from BLOCK on",
				ArgsUsage: "NAME BLOCK",
				Action:    uncleAction,
			},
			{
				Name:   "events",
				Usage:  "list prepared events",
				Action: eventsAction,
			},
			{
				Name:   "index",
				Usage:  "decode and store logs read as JSON lines",
				Flags:  []cli.Flag{abiFlag, logsFlag, batchFlag},
				Action: indexAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Fatal:", err)
		os.Exit(1)
	}
}

func beforeAction(ctx *cli.Context) error {
	initLogger(ctx)

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
		url, closeFunc, err := startMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return errors.Wrap(err, "start metrics server")
		}
		logger.Info("metrics server started", "url", url)
		stopMetrics = func() {
			logger.Info("stopping metrics server...")
			closeFunc()
		}
	}
	return nil
}

func prepareAction(ctx *cli.Context) error {
	targets, err := prepareTargets(ctx)
	if err != nil {
		return err
	}

	db, err := openLogDB(ctx)
	if err != nil {
		return err
	}
	defer closeLogDB(db)

	w := db.NewWriter()
	for _, t := range targets {
		if err := w.PrepareEvent(t.name, t.event); err != nil {
			w.Rollback()
			return err
		}
		logger.Info("prepared event", "name", t.name, "signature", t.event.Signature())
	}
	return w.Commit()
}

type prepareTarget struct {
	name  string
	event *abi.Event
}

func prepareTargets(ctx *cli.Context) ([]prepareTarget, error) {
	if path := ctx.String(configFlag.Name); path != "" {
		if ctx.IsSet(abiFlag.Name) {
			return nil, errors.Errorf("--%s and --%s are exclusive", configFlag.Name, abiFlag.Name)
		}
		cfg, err := loadConfig(path)
		if err != nil {
			return nil, err
		}
		var targets []prepareTarget
		for _, c := range cfg.Contracts {
			contract, err := loadABI(c.ABI)
			if err != nil {
				return nil, err
			}
			t, err := selectEvents(contract, c.Events)
			if err != nil {
				return nil, errors.WithMessagef(err, "contract %s", c.ABI)
			}
			targets = append(targets, t...)
		}
		return targets, nil
	}

	path := ctx.String(abiFlag.Name)
	if path == "" {
		return nil, errors.Errorf("either --%s or --%s is required", abiFlag.Name, configFlag.Name)
	}
	contract, err := loadABI(path)
	if err != nil {
		return nil, err
	}
	return selectEvents(contract, ctx.StringSlice(eventFlag.Name))
}

func selectEvents(contract *abi.ABI, names []string) ([]prepareTarget, error) {
	if len(names) == 0 {
		names = contract.Events()
	}
	targets := make([]prepareTarget, 0, len(names))
	for _, name := range names {
		ev, ok := contract.EventByName(name)
		if !ok {
			return nil, errors.Errorf("event %s not found", name)
		}
		targets = append(targets, prepareTarget{name, ev})
	}
	return targets, nil
}

func cursorAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("expected NAME")
	}
	db, err := openLogDB(ctx)
	if err != nil {
		return err
	}
	defer closeLogDB(db)

	block, err := db.EventBlock(ctx.Args().Get(0))
	if err != nil {
		return err
	}
	fmt.Println(block.Indexed, block.Finalized)
	return nil
}

func setCursorAction(ctx *cli.Context) error {
	if ctx.NArg() != 3 {
		return errors.New("expected NAME INDEXED FINALIZED")
	}
	indexed, err := strconv.ParseUint(ctx.Args().Get(1), 10, 64)
	if err != nil {
		return errors.Wrap(err, "parse INDEXED")
	}
	finalized, err := strconv.ParseUint(ctx.Args().Get(2), 10, 64)
	if err != nil {
		return errors.Wrap(err, "parse FINALIZED")
	}

	db, err := openLogDB(ctx)
	if err != nil {
		return err
	}
	defer closeLogDB(db)

	return db.Update([]logdb.EventBlock{{
		Event: ctx.Args().Get(0),
		Block: logdb.Block{Indexed: indexed, Finalized: finalized},
	}}, nil)
}

func uncleAction(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return errors.New("expected NAME BLOCK")
	}
	number, err := strconv.ParseUint(ctx.Args().Get(1), 10, 64)
	if err != nil {
		return errors.Wrap(err, "parse BLOCK")
	}

	db, err := openLogDB(ctx)
	if err != nil {
		return err
	}
	defer closeLogDB(db)

	return db.Remove([]logdb.Uncle{{Event: ctx.Args().Get(0), Number: number}})
}

func eventsAction(ctx *cli.Context) error {
	db, err := openLogDB(ctx)
	if err != nil {
		return err
	}
	defer closeLogDB(db)

	for _, name := range db.Events() {
		fmt.Println(name)
	}
	return nil
}
