// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGoes(t *testing.T) {
	var goes Goes
	var n atomic.Int32
	for range 8 {
		goes.Go(func() { n.Add(1) })
	}
	goes.Wait()
	assert.Equal(t, int32(8), n.Load())
}

func TestGoesLoop(t *testing.T) {
	var goes Goes
	ticks := make(chan struct{})
	var n atomic.Int32

	goes.Loop(context.Background(), ticks, func() bool {
		return n.Add(1) < 3
	})
	for range 3 {
		ticks <- struct{}{}
	}

	select {
	case <-goes.Done():
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}
	assert.Equal(t, int32(3), n.Load())
}

func TestGoesLoopCancel(t *testing.T) {
	var goes Goes
	ctx, cancel := context.WithCancel(context.Background())
	goes.Loop(ctx, make(chan struct{}), func() bool { return true })
	cancel()

	select {
	case <-goes.Done():
	case <-time.After(time.Second):
		t.Fatal("loop ignored cancellation")
	}
}
