package workers

import (
	"context"
	"log"
	"sync"
	"time"

	"ktpPortalAPI/internal/leetcode"
	"ktpPortalAPI/services"
)

// LeetCodeWorker runs the stats sync on a fixed cadence. Runs execute
// synchronously inside the loop, so a slow run delays the next tick instead
// of overlapping with it.
type LeetCodeWorker struct {
	service    *services.LeetCodeService
	runHistory *services.RunHistoryService
	interval   time.Duration
	stopChan   chan struct{}
	wg         sync.WaitGroup
}

func StartLeetCodeWorker(service *services.LeetCodeService, runHistory *services.RunHistoryService, interval time.Duration) *LeetCodeWorker {
	w := &LeetCodeWorker{
		service:    service,
		runHistory: runHistory,
		interval:   interval,
		stopChan:   make(chan struct{}),
	}

	w.wg.Add(1)
	go w.loop()

	log.Printf("LeetCode worker started (interval %s)", interval)
	return w
}

func (w *LeetCodeWorker) loop() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.runOnce()
		case <-w.stopChan:
			return
		}
	}
}

func (w *LeetCodeWorker) runOnce() {
	log.Println("LeetCode update starting...")

	// A run always drains to completion; only each HTTP attempt is bounded.
	summary, err := w.service.Run(context.Background(), leetcode.RunOptions{ClearOffsets: false})
	if err != nil {
		log.Printf("LeetCode update error: %v", err)
		return
	}

	services.RecordRunMetrics("scheduled", summary)

	if w.runHistory != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := w.runHistory.RecordRun(ctx, "scheduled", summary); err != nil {
			log.Printf("Failed to record scheduled run %s: %v", summary.RunID, err)
		}
	}

	log.Printf("LeetCode update completed. updated=%d, failed=%d, skipped=%d",
		summary.Updated, len(summary.Failed), summary.Skipped)
}

// Stop halts the schedule and waits for an in-flight run to finish.
func (w *LeetCodeWorker) Stop() {
	close(w.stopChan)
	w.wg.Wait()
}
