// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/abidb/abi"
	"github.com/vechain/abidb/logdb"
)

const maxLineSize = 16 * 1024 * 1024

// rawLog is one line of the logs file. Data is the ABI encoded event data.
type rawLog struct {
	Event            string         `json:"event"`
	BlockNumber      uint64         `json:"blockNumber"`
	LogIndex         uint64         `json:"logIndex"`
	TransactionIndex uint64         `json:"transactionIndex"`
	Address          common.Address `json:"address"`
	Data             hexutil.Bytes  `json:"data"`
}

type line struct {
	raw  rawLog
	size int
}

func indexAction(ctx *cli.Context) error {
	path := ctx.String(abiFlag.Name)
	if path == "" {
		return errors.Errorf("--%s is required", abiFlag.Name)
	}
	contract, err := loadABI(path)
	if err != nil {
		return err
	}
	batch := ctx.Uint64(batchFlag.Name)
	if batch == 0 {
		return errors.Errorf("--%s must be positive", batchFlag.Name)
	}

	var (
		in   io.Reader = os.Stdin
		size int64
	)
	if name := ctx.String(logsFlag.Name); name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return errors.Wrap(err, "open logs")
		}
		defer f.Close()
		if info, err := f.Stat(); err == nil {
			size = info.Size()
		}
		in = f
	}

	db, err := openLogDB(ctx)
	if err != nil {
		return err
	}
	defer closeLogDB(db)

	exitCtx, stop := handleExitSignal()
	defer stop()

	return newIndexer(db, contract, batch).run(exitCtx, in, size)
}

// indexer decodes logs and writes them in batches, moving the indexed block of each event
// to the highest block written.
type indexer struct {
	db       *logdb.LogDB
	contract *abi.ABI
	batch    uint64

	w        *logdb.Writer
	pending  []*logdb.Log
	prepared map[string]*abi.Event
	highest  map[string]uint64
	total    uint64
}

func newIndexer(db *logdb.LogDB, contract *abi.ABI, batch uint64) *indexer {
	return &indexer{
		db:       db,
		contract: contract,
		batch:    batch,
		w:        db.NewWriter(),
		prepared: make(map[string]*abi.Event),
		highest:  make(map[string]uint64),
	}
}

func (ix *indexer) run(ctx context.Context, in io.Reader, size int64) (err error) {
	var bar *pb.ProgressBar
	if size > 0 {
		bar = pb.New64(size).SetUnits(pb.U_BYTES).SetMaxWidth(90)
		bar.Output = os.Stderr
		bar.Start()
		defer func() { bar.NotPrint = true }()
	}

	defer func() {
		if err != nil {
			ix.w.Rollback()
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// the pump may stay blocked reading input after a failure, it exits on its next send
	g, ctx := errgroup.WithContext(ctx)
	ch := make(chan line, 1000)
	g.Go(func() error {
		defer close(ch)
		return pumpLines(ctx, in, ch)
	})

	for l := range ch {
		if err := ix.store(&l.raw); err != nil {
			return err
		}
		if uint64(len(ix.pending)) >= ix.batch {
			if err := ix.commit(); err != nil {
				return err
			}
		}
		if bar != nil {
			bar.Add64(int64(l.size))
		}
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ix.commit(); err != nil {
		return err
	}
	if bar != nil {
		bar.Finish()
	}
	logger.Info("indexed logs", "count", ix.total, "events", len(ix.highest))
	return nil
}

func pumpLines(ctx context.Context, in io.Reader, ch chan<- line) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	n := 0
	for scanner.Scan() {
		n++
		text := scanner.Bytes()
		if len(text) == 0 {
			continue
		}
		var l line
		if err := json.Unmarshal(text, &l.raw); err != nil {
			return errors.Wrapf(err, "line %d", n)
		}
		l.size = len(text) + 1
		select {
		case ch <- l:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return errors.Wrap(scanner.Err(), "read logs")
}

func (ix *indexer) store(raw *rawLog) error {
	event, err := ix.prepare(raw.Event)
	if err != nil {
		return err
	}
	fields, err := event.Decode(raw.Data)
	if err != nil {
		return errors.WithMessagef(err, "decode %s log at block %d index %d", raw.Event, raw.BlockNumber, raw.LogIndex)
	}
	ix.pending = append(ix.pending, &logdb.Log{
		Event:            raw.Event,
		BlockNumber:      raw.BlockNumber,
		LogIndex:         raw.LogIndex,
		TransactionIndex: raw.TransactionIndex,
		Address:          raw.Address,
		Fields:           fields,
	})
	if cur, ok := ix.highest[raw.Event]; !ok || raw.BlockNumber > cur {
		ix.highest[raw.Event] = raw.BlockNumber
	}
	ix.total++
	return nil
}

func (ix *indexer) prepare(name string) (*abi.Event, error) {
	if ev, ok := ix.prepared[name]; ok {
		return ev, nil
	}
	ev, ok := ix.contract.EventByName(name)
	if !ok {
		return nil, errors.Errorf("event %s not found in abi", name)
	}
	if err := ix.w.PrepareEvent(name, ev); err != nil {
		return nil, err
	}
	ix.prepared[name] = ev
	return ev, nil
}

// commit stores the pending logs and moves the indexed block of every event seen so far,
// keeping the finalized block.
func (ix *indexer) commit() error {
	blocks := make([]logdb.EventBlock, 0, len(ix.highest))
	for name, highest := range ix.highest {
		current, err := ix.w.EventBlock(name)
		if err != nil {
			return err
		}
		if highest <= current.Indexed {
			continue
		}
		blocks = append(blocks, logdb.EventBlock{
			Event: name,
			Block: logdb.Block{Indexed: highest, Finalized: current.Finalized},
		})
	}
	if err := ix.w.Update(blocks, ix.pending); err != nil {
		return err
	}
	if err := ix.w.Commit(); err != nil {
		return err
	}
	ix.pending = ix.pending[:0]
	return nil
}
