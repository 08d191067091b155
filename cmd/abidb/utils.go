// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/abidb/abi"
	"github.com/vechain/abidb/log"
	"github.com/vechain/abidb/logdb"
)

func initLogger(ctx *cli.Context) {
	var level slog.LevelVar
	level.Set(log.FromLegacyLevel(int(ctx.Uint64(verbosityFlag.Name))))

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.JSONHandlerWithLevel(os.Stderr, &level)
	} else {
		useColor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
		handler = log.NewTerminalHandlerWithLevel(os.Stderr, &level, useColor)
	}
	log.SetDefault(handler)
}

func openLogDB(ctx *cli.Context) (*logdb.LogDB, error) {
	url := ctx.GlobalString(dbFlag.Name)
	db, err := logdb.Open(url)
	if err != nil {
		return nil, errors.WithMessagef(err, "open log db [%v]", url)
	}
	logger.Debug("log database opened", "url", url, "events", len(db.Events()))
	return db, nil
}

func closeLogDB(db *logdb.LogDB) {
	logger.Debug("closing log database...")
	if err := db.Close(); err != nil {
		logger.Warn("failed to close log database", "err", err)
	}
}

func loadABI(path string) (*abi.ABI, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read abi")
	}
	contract, err := abi.New(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parse abi [%v]", path)
	}
	return contract, nil
}

// handleExitSignal returns a context canceled on the first SIGINT or SIGTERM.
func handleExitSignal() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	exitSignalCh := make(chan os.Signal, 1)
	signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-exitSignalCh:
			logger.Info("exit signal received", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, func() {
		signal.Stop(exitSignalCh)
		cancel()
	}
}
