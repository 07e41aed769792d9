// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// subnetd operates subnet teardowns against a local state database.
package main

import (
	"fmt"
	"os"

	cli "gopkg.in/urfave/cli.v1"
)

var (
	version   string
	gitCommit string
	gitTag    string

	flags = []cli.Flag{
		dataDirFlag,
		dbEngineFlag,
		cacheFlag,
		verbosityFlag,
		logFormatFlag,
		configFlag,
		enableMetricsFlag,
		metricsAddrFlag,
	}
)

func main() {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	app := cli.App{
		Version: fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta),
		Name:    "subnetd",
		Usage:   "Subnet liquidation engine",
		Flags:   flags,
		Commands: []cli.Command{
			{
				Name:   "seed",
				Usage:  "register a demo subnet with neurons, stakers and liquidity",
				Flags:  []cli.Flag{netuidFlag, blockFlag, neuronsFlag, stakersFlag, mechanismsFlag},
				Action: seedAction,
			},
			{
				Name:   "start",
				Usage:  "start the liquidation of a subnet",
				Flags:  []cli.Flag{netuidFlag, blockFlag},
				Action: startAction,
			},
			{
				Name:   "advance",
				Usage:  "advance the liquidation of a subnet within a budget",
				Flags:  []cli.Flag{netuidFlag, budgetFlag},
				Action: advanceAction,
			},
			{
				Name:   "force",
				Usage:  "run the liquidation of a subnet to completion",
				Flags:  []cli.Flag{netuidFlag},
				Action: forceAction,
			},
			{
				Name:   "status",
				Usage:  "show ledger totals and liquidations in progress",
				Flags:  []cli.Flag{netuidFlag},
				Action: statusAction,
			},
			{
				Name:   "events",
				Usage:  "print recent liquidation events",
				Flags:  []cli.Flag{netuidFlag, limitFlag},
				Action: eventsAction,
			},
			{
				Name:   "run",
				Usage:  "simulate blocks until every liquidation completes",
				Flags:  []cli.Flag{budgetFlag, blockFlag, blockIntervalFlag},
				Action: runAction,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
