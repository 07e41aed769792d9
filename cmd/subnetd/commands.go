// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/subnetd/commitments"
	"github.com/vechain/subnetd/eventlog"
	"github.com/vechain/subnetd/kv"
	"github.com/vechain/subnetd/liquidation"
	"github.com/vechain/subnetd/log"
	"github.com/vechain/subnetd/subnet"
	"github.com/vechain/subnetd/swap"
	"github.com/vechain/subnetd/thor"
)

// env holds the databases and the engine shared by the commands.
type env struct {
	store  kv.Store
	events *eventlog.EventLog
	engine *liquidation.Engine
}

func openEnv(ctx *cli.Context) (*env, error) {
	initLogger(ctx)
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	dataDir := makeDataDir(ctx)
	store := openStore(ctx, dataDir)
	events := openEventLog(dataDir)
	return &env{
		store:  store,
		events: events,
		engine: liquidation.New(store, cfg, swap.New(), commitments.New(), events),
	}, nil
}

func (e *env) Close() {
	log.Debug("closing databases...")
	e.events.Close()
	e.store.Close()
}

func startAction(ctx *cli.Context) error {
	e, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	netuid, err := netuidOf(ctx)
	if err != nil {
		return err
	}
	state, err := e.engine.Start(netuid, ctx.Uint64(blockFlag.Name))
	if err != nil {
		return err
	}
	fmt.Printf("liquidation of subnet %v started\n", netuid)
	printRunState(state)
	return nil
}

func advanceAction(ctx *cli.Context) error {
	e, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	netuid, err := netuidOf(ctx)
	if err != nil {
		return err
	}
	res, err := e.engine.Advance(netuid, ctx.Uint64(budgetFlag.Name))
	if err != nil {
		return err
	}
	fmt.Printf("subnet %v: %v\n", netuid, res)
	return nil
}

func forceAction(ctx *cli.Context) error {
	e, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	netuid, err := netuidOf(ctx)
	if err != nil {
		return err
	}
	cost, err := e.engine.ForceComplete(netuid)
	if err != nil {
		return err
	}
	fmt.Printf("subnet %v torn down, cost %d\n", netuid, cost)
	return nil
}

func statusAction(ctx *cli.Context) error {
	e, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	ledger := subnet.NewLedger(e.store)
	issuance, err := ledger.TotalIssuance()
	if err != nil {
		return err
	}
	stake, err := ledger.TotalStake()
	if err != nil {
		return err
	}
	networks, err := ledger.TotalNetworks()
	if err != nil {
		return err
	}
	fmt.Printf("issuance %d, stake %d, networks %d\n", issuance, stake, networks)

	var netuids []thor.NetUID
	if ctx.IsSet(netuidFlag.Name) {
		netuid, err := netuidOf(ctx)
		if err != nil {
			return err
		}
		netuids = append(netuids, netuid)
	} else if netuids, err = e.engine.Liquidating(); err != nil {
		return err
	}
	if len(netuids) == 0 {
		fmt.Println("no liquidation in progress")
	}
	for _, netuid := range netuids {
		phase, ok, err := e.engine.Phase(netuid)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Printf("subnet %v: not liquidating\n", netuid)
			continue
		}
		fmt.Printf("subnet %v: %v\n", netuid, phase)
		if state, ok, err := e.engine.RunState(netuid); err != nil {
			return err
		} else if ok {
			printRunState(state)
		}
	}
	return nil
}

func printRunState(s liquidation.RunState) {
	fmt.Printf("  run %s\n", s.RunID)
	fmt.Printf("  started at %d, deadline %d\n", s.StartedAt, s.MaxCompletionBlock)
	fmt.Printf("  pot %d, distributed %d, stakers %d, alpha %v\n", s.TaoPot, s.TaoDistributed, s.SnapshotCount, s.TotalAlphaValue)
}

func eventsAction(ctx *cli.Context) error {
	initLogger(ctx)
	events := openEventLog(makeDataDir(ctx))
	defer events.Close()

	filter := &eventlog.Filter{
		Order:   eventlog.DESC,
		Options: &eventlog.Options{Limit: ctx.Uint64(limitFlag.Name)},
	}
	if ctx.IsSet(netuidFlag.Name) {
		netuid, err := netuidOf(ctx)
		if err != nil {
			return err
		}
		filter.NetUID = &netuid
	}
	records, err := events.Filter(context.Background(), filter)
	if err != nil {
		return err
	}
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		fmt.Printf("%6d %s %v\n", r.Seq, r.RunID, r.Event)
	}
	return nil
}
