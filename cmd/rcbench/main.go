// Command rcbench runs concurrency scenarios against std/rc and reports
// throughput and outstanding-allocation counts, the way a teacher's own
// debug tools exercise a library end to end rather than through unit
// tests alone.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/arclib/arclib/std/log"
	"github.com/arclib/arclib/std/utils"
)

// watchForStackDump lets a hung benchmark run (e.g. a deadlocked CAS retry
// loop) be diagnosed without killing the process: `kill -QUIT <pid>` dumps
// every goroutine's stack to stderr and the run continues.
func watchForStackDump() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGQUIT)
	go func() {
		for range sigs {
			utils.PrintStackTrace()
		}
	}()
}

func main() {
	watchForStackDump()

	if err := CmdRCBench.Execute(); err != nil {
		log.Fatal("rcbench exited with error", "err", err)
		os.Exit(1)
	}
}
