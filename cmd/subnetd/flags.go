// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var (
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for the state and event databases",
	}
	dbEngineFlag = cli.StringFlag{
		Name:  "db-engine",
		Value: "leveldb",
		Usage: "state database engine (leveldb|badger)",
	}
	cacheFlag = cli.IntFlag{
		Name:  "cache",
		Value: 1024,
		Usage: "megabytes of ram allocated to the state database cache",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-5)",
	}
	logFormatFlag = cli.StringFlag{
		Name:  "log-format",
		Value: "terminal",
		Usage: "log output format (terminal|json|logfmt)",
	}
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "path to a YAML file overriding the teardown cost model and limits",
	}
	budgetFlag = cli.Uint64Flag{
		Name:  "budget",
		Value: 5_000_000,
		Usage: "budget granted per invocation",
	}
	blockFlag = cli.Uint64Flag{
		Name:  "block",
		Usage: "current block number",
	}
	netuidFlag = cli.UintFlag{
		Name:  "netuid",
		Usage: "subnet to operate on",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Value: "localhost:2112",
		Usage: "metrics service listening address",
	}

	// seed
	neuronsFlag = cli.UintFlag{
		Name:  "neurons",
		Value: 64,
		Usage: "number of neurons to register",
	}
	stakersFlag = cli.UintFlag{
		Name:  "stakers",
		Value: 128,
		Usage: "number of staking positions to open",
	}
	mechanismsFlag = cli.UintFlag{
		Name:  "mechanisms",
		Value: 2,
		Usage: "number of mechanisms of the subnet",
	}

	// run
	blockIntervalFlag = cli.DurationFlag{
		Name:  "block-interval",
		Usage: "wall time between simulated blocks, zero to run as fast as possible",
	}
	limitFlag = cli.Uint64Flag{
		Name:  "limit",
		Value: 20,
		Usage: "number of events to print",
	}
)
