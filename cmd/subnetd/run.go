// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/subnetd/co"
	"github.com/vechain/subnetd/log"
	"github.com/vechain/subnetd/metrics"
	"github.com/vechain/subnetd/subnet"
)

// runAction simulates blocks, running one scheduler pass per block until no
// teardown is left in progress.
func runAction(ctx *cli.Context) error {
	e, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	exitSignal := handleExitSignal()

	if ctx.GlobalBool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
		url, closeFunc, err := startMetricsServer(ctx.GlobalString(metricsAddrFlag.Name))
		if err != nil {
			return errors.Wrap(err, "start metrics server")
		}
		log.Info("metrics server started", "url", url)
		defer closeFunc()
	}

	pending, err := e.engine.Liquidating()
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		fmt.Println("no liquidation in progress")
		return nil
	}
	total := int64(len(pending))
	fmt.Printf(">> Liquidating %d subnet(s) <<\n", total)

	bar := pb.New64(total).
		SetMaxWidth(90).
		Start()
	defer func() { bar.NotPrint = true }()

	var (
		budget   = ctx.Uint64(budgetFlag.Name)
		interval = ctx.Duration(blockIntervalFlag.Name)
		block    = ctx.Uint64(blockFlag.Name)
		loopErr  error
		goes     co.Goes
	)

	runCtx, cancel := context.WithCancel(exitSignal)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	ticks := make(chan struct{})
	g.Go(func() error {
		defer close(ticks)
		var tick <-chan time.Time
		if interval > 0 {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			tick = ticker.C
		}
		for {
			if tick != nil {
				select {
				case <-gctx.Done():
					return nil
				case <-tick:
				}
			}
			select {
			case <-gctx.Done():
				return nil
			case ticks <- struct{}{}:
			}
		}
	})

	goes.Loop(gctx, ticks, func() bool {
		spent, err := e.engine.ProcessAll(block, budget)
		if err != nil {
			loopErr = errors.Wrapf(err, "block %d", block)
			return false
		}
		left, err := e.engine.Liquidating()
		if err != nil {
			loopErr = err
			return false
		}
		log.Debug("block processed", "block", block, "spent", spent, "pending", len(left))
		if changed, hit, miss := subnet.AccountKeyStats().Stats(); changed {
			log.Trace("account key cache", "hit", hit, "miss", miss, "rate", subnet.AccountKeyStats().HitRate())
		}
		bar.Set64(total - int64(len(left)))
		block++
		return len(left) > 0
	})

	goes.Wait()
	cancel()
	if err := g.Wait(); err != nil {
		return err
	}
	if loopErr != nil {
		return loopErr
	}
	if exitSignal.Err() != nil {
		return errors.New("interrupted")
	}
	bar.Finish()
	fmt.Printf("all liquidations completed at block %d\n", block-1)
	return nil
}
