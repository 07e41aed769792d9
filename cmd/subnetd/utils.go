// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"syscall"

	"github.com/elastic/gosigar"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	"github.com/vechain/subnetd/badgerdb"
	"github.com/vechain/subnetd/eventlog"
	"github.com/vechain/subnetd/kv"
	"github.com/vechain/subnetd/liquidation"
	"github.com/vechain/subnetd/log"
	"github.com/vechain/subnetd/lvldb"
	"github.com/vechain/subnetd/thor"
)

func fatal(args ...any) {
	var w io.Writer
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		w = os.Stdout
	} else {
		w = os.Stderr
	}
	fmt.Fprint(w, "Fatal: ")
	fmt.Fprintln(w, args...)
	os.Exit(1)
}

func initLogger(ctx *cli.Context) {
	format, err := log.ParseFormat(ctx.GlobalString(logFormatFlag.Name))
	if err != nil {
		fatal(err)
	}
	lvl := log.FromLegacyLevel(ctx.GlobalInt(verbosityFlag.Name))
	useColor := isatty.IsTerminal(os.Stderr.Fd()) && os.Getenv("TERM") != "dumb"
	level := new(slog.LevelVar)
	level.Set(lvl)
	log.SetDefault(log.NewLogger(log.NewHandler(os.Stderr, format, level, useColor)))
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		return filepath.Join(home, ".subnetd")
	}
	return ".subnetd"
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

func makeDataDir(ctx *cli.Context) string {
	dir := ctx.GlobalString(dataDirFlag.Name)
	if dir == "" {
		fatal("data dir not specified")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		fatal(fmt.Sprintf("create data dir [%v]: %v", dir, err))
	}
	return dir
}

func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 128 {
		sizeMB = 128
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		log.Warn("failed to get total mem:", "err", err)
	} else {
		// limit to 1/2 os physical ram
		limitMB := int(mem.Total / 1024 / 1024 / 2)
		if sizeMB > limitMB {
			sizeMB = limitMB
			log.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

func openStore(ctx *cli.Context, dataDir string) kv.Store {
	cacheMB := normalizeCacheSize(ctx.GlobalInt(cacheFlag.Name))
	log.Debug("state cache", "mb", cacheMB)

	switch engine := ctx.GlobalString(dbEngineFlag.Name); engine {
	case "leveldb":
		dir := filepath.Join(dataDir, "state.db")
		db, err := lvldb.New(dir, lvldb.Options{CacheSize: cacheMB, OpenFilesCacheCapacity: 512})
		if err != nil {
			fatal(fmt.Sprintf("open state database [%v]: %v", dir, err))
		}
		return db
	case "badger":
		dir := filepath.Join(dataDir, "state.badger")
		db, err := badgerdb.New(dir, badgerdb.Options{SyncWrites: true, CacheSize: cacheMB})
		if err != nil {
			fatal(fmt.Sprintf("open state database [%v]: %v", dir, err))
		}
		return db
	default:
		fatal(fmt.Sprintf("unknown db engine %q", engine))
	}
	return nil
}

func openEventLog(dataDir string) *eventlog.EventLog {
	path := filepath.Join(dataDir, "events.db")
	db, err := eventlog.New(path)
	if err != nil {
		fatal(fmt.Sprintf("open event log [%v]: %v", path, err))
	}
	return db
}

// loadConfig returns the default engine config overridden by the YAML file, if any.
func loadConfig(ctx *cli.Context) (liquidation.Config, error) {
	cfg := liquidation.DefaultConfig()
	path := ctx.GlobalString(configFlag.Name)
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config [%v]", path)
	}
	return cfg, nil
}

func netuidOf(ctx *cli.Context) (thor.NetUID, error) {
	n := ctx.Uint(netuidFlag.Name)
	if n > math.MaxUint16 {
		return 0, errors.Errorf("netuid %d out of range", n)
	}
	return thor.NetUID(n), nil
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		log.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}
