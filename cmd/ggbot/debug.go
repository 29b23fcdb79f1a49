//go:build debug
// +build debug

package main

import (
	"net/http"
	_ "net/http/pprof"
	"runtime"
	"time"

	"github.com/djjrip/ggloop-bots/internal/store"
)

// startDebugLogger starts debug logger and pprof server.
func startDebugLogger(s *store.Store) {
	uptime := time.Now()
	log := store.NewLogger(s, "ggbot:debug", "")

	go func() {
		log.Debug("start in debug mode", map[string]interface{}{
			"arch":      runtime.GOARCH,
			"compiler":  runtime.Compiler,
			"os":        runtime.GOOS,
			"goversion": runtime.Version(),
		})

		processStatus := func() {
			var mem runtime.MemStats

			runtime.ReadMemStats(&mem)
			log.Debug("process status", map[string]interface{}{
				"num_goroutine":  runtime.NumGoroutine(),
				"heap_alloc":     mem.HeapAlloc,
				"mallocs":        mem.Mallocs,
				"mem_frees":      mem.Frees,
				"num_gc":         mem.NumGC,
				"uptime_seconds": time.Since(uptime).Seconds(),
			})
		}

		processStatus()

		t := time.Tick(time.Minute)
		for range t {
			processStatus()
		}
	}()

	go func() {
		log.Debug("start pprof server", map[string]interface{}{
			"url": "http://localhost:6060",
		})
		err := http.ListenAndServe("localhost:6060", nil)
		if err != nil {
			log.Debug("pprof server has stopped", map[string]interface{}{
				"reason": err.Error(),
			})
		}
	}()
}
