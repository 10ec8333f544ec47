package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/factcalc/internal/format"
	"github.com/agbru/factcalc/internal/orchestration"
	"github.com/agbru/factcalc/internal/progress"
)

// DisplayProgress shows a spinner followed by an aggregated progress bar and
// ETA until progressChan is closed. The display is refreshed every
// ProgressRefreshRate rather than on every update.
//
// Parameters:
//   - wg: Signalled when the display has stopped.
//   - progressChan: Updates from the workers; closed by the producer.
//   - numWorkers: The number of workers feeding the channel.
//   - out: The writer the spinner draws on.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numWorkers int, out io.Writer) {
	defer wg.Done()
	agg := orchestration.NewProgressAggregator(numWorkers)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}

	s := newSpinner(spinner.WithWriter(out))
	s.UpdateSuffix(progressSuffix(agg))
	s.Start()
	defer s.Stop()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				s.UpdateSuffix(progressSuffix(agg))
				return
			}
			agg.Update(update)
		case <-ticker.C:
			s.UpdateSuffix(progressSuffix(agg))
		}
	}
}

func progressSuffix(agg *orchestration.ProgressAggregator) string {
	label := "Computing"
	if agg.IsMultiWorker() {
		label = fmt.Sprintf("Computing (%d workers)", agg.NumWorkers())
	}
	return fmt.Sprintf(" %s %s", label, format.FormatProgressBarWithETA(agg.CalculateAverage(), agg.GetETA(), ProgressBarWidth))
}
