package main

import (
	"os"
	"time"

	"github.com/arclib/arclib/std/log"
	"github.com/arclib/arclib/std/rc"
	"github.com/arclib/arclib/std/rc/rcstack"
	"github.com/arclib/arclib/std/types/lockfree"
	"github.com/arclib/arclib/std/types/optional"
	syncpool "github.com/arclib/arclib/std/types/sync_pool"
	"github.com/arclib/arclib/std/utils/toolutils"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type stackBench struct {
	workers       uint32
	durationMs    int
	snapshotSlots int
	delay         int
}

func cmdStack() *cobra.Command {
	b := &stackBench{}

	cmd := &cobra.Command{
		GroupID: "scenarios",
		Use:     "stack",
		Short:   "Hammer a lock-free rcstack.Stack with concurrent push/pop workers",
		Long: `Starts N goroutines that concurrently push and pop a shared
rcstack.Stack[int] for a fixed duration, drains what is left, then prints
the pushed and popped totals and their difference as "leaked".`,
		Run: b.run,
	}

	cmd.Flags().Uint32VarP(&b.workers, "workers", "w", 8, "number of concurrent pusher/popper goroutines")
	cmd.Flags().IntVarP(&b.durationMs, "duration", "d", 500, "benchmark duration, in milliseconds")
	cmd.Flags().IntVar(&b.snapshotSlots, "snapshot-slots", 0, "override the engine's snapshot announcement slots (0 = default)")
	cmd.Flags().IntVar(&b.delay, "delay", 0, "override the engine's reclamation delay multiplier (0 = default)")
	return cmd
}

// result is one worker's tally, drained through a YiQueue the way a
// single collector goroutine gathers per-worker counters without a mutex.
type result struct {
	worker int
	pushed int64
	popped int64
}

func (b *stackBench) run(_ *cobra.Command, _ []string) {
	cfg := rc.Config{}
	if b.snapshotSlots > 0 {
		cfg.SnapshotSlots = optional.Some(b.snapshotSlots)
	}
	if b.delay > 0 {
		cfg.Delay = optional.Some(b.delay)
	}

	s := rcstack.NewConfig[int](cfg)
	results := lockfree.NewYiQueue[result]()

	scratch := syncpool.New(func() []int { return make([]int, 0, 64) },
		func(s []int) { _ = s[:0] })

	var g errgroup.Group
	stop := make(chan struct{})
	n := int(optional.CastInt[uint32, int](optional.Some(b.workers)).Unwrap())

	for i := 0; i < n; i++ {
		id := i
		g.Go(func() error {
			buf := scratch.Get()
			defer scratch.Put(buf)

			var pushed, popped int64
			for {
				select {
				case <-stop:
					results.Push(result{worker: id, pushed: pushed, popped: popped})
					return nil
				default:
				}
				s.PushFront(id)
				pushed++
				if v, ok := s.PopFront(); ok {
					buf = append(buf[:0], v)
					popped++
				}
			}
		})
	}

	time.Sleep(time.Duration(b.durationMs) * time.Millisecond)
	close(stop)
	_ = g.Wait()

	var totalPushed, totalPopped int64
	for i := 0; i < n; i++ {
		r, ok := results.Pop()
		if !ok {
			log.Warn("missing worker result", "worker", i)
			continue
		}
		totalPushed += r.pushed
		totalPopped += r.popped
	}

	remaining := 0
	for {
		if _, ok := s.PopFront(); !ok {
			break
		}
		remaining++
	}
	totalPopped += int64(remaining)

	p := toolutils.StatusPrinter{File: os.Stdout, Padding: 16}
	p.Print("workers", n)
	p.Print("duration_ms", b.durationMs)
	p.Print("pushed", totalPushed)
	p.Print("popped", totalPopped)
	p.Print("leaked", totalPushed-totalPopped)
}
