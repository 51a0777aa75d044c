package main

import (
	"os"
	"sync"
	"time"

	"github.com/arclib/arclib/std/rc"
	"github.com/arclib/arclib/std/utils/toolutils"
	"github.com/spf13/cobra"
)

type casBench struct {
	workers uint32
	incrs   int
}

func cmdCAS() *cobra.Command {
	b := &casBench{}

	cmd := &cobra.Command{
		GroupID: "scenarios",
		Use:     "cas",
		Short:   "Race CompareAndSwapStrong retry loops incrementing a shared counter",
		Long: `Starts N goroutines that each spin a Load/CompareAndSwapStrong retry
loop incrementing a shared AtomicStrong[int], the contended-CAS pattern
rcstack.PushFront also relies on, and checks the final count against the
expected total.`,
		Run: b.run,
	}

	cmd.Flags().Uint32VarP(&b.workers, "workers", "w", 16, "number of concurrent incrementer goroutines")
	cmd.Flags().IntVarP(&b.incrs, "incrs", "n", 1000, "increments performed by each goroutine")
	return cmd
}

func (b *casBench) run(_ *cobra.Command, _ []string) {
	a := rc.NewAtomicStrong(rc.NewStrong(0))
	defer a.Close()

	var wg sync.WaitGroup
	start := time.Now()
	for i := uint32(0); i < b.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < b.incrs; j++ {
				for {
					expected := a.Load()
					desired := rc.NewStrong(*expected.Get() + 1)
					ok := a.CompareAndSwapStrong(&expected, desired)
					desired.Release()
					expected.Release()
					if ok {
						break
					}
				}
			}
		}()
	}
	wg.Wait()
	elapsed := time.Since(start)

	got := a.Load()
	defer got.Release()

	p := toolutils.StatusPrinter{File: os.Stdout, Padding: 16}
	p.Print("workers", b.workers)
	p.Print("incrs_each", b.incrs)
	p.Print("expected", int(b.workers)*b.incrs)
	p.Print("got", *got.Get())
	p.Print("elapsed", elapsed)
}
