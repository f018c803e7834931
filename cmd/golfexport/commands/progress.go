package commands

import (
	"fmt"
	"golfexport/internal/golfcsv"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"
)

// progressObserver renders per-round export progress on stderr.
type progressObserver struct {
	writer  progress.Writer
	tracker *progress.Tracker
	message string
	// closed when Render returns
	done chan struct{}
}

func newProgressObserver(kind golfcsv.Kind) *progressObserver {
	pw := progress.NewWriter()
	pw.SetOutputWriter(os.Stderr)
	pw.SetAutoStop(true)
	pw.SetTrackerLength(30)
	pw.SetUpdateFrequency(100 * time.Millisecond)
	pw.SetStyle(progress.StyleDefault)
	pw.Style().Visibility.ETA = true
	pw.Style().Visibility.Value = true

	return &progressObserver{
		writer:  pw,
		message: fmt.Sprintf("exporting %s", kind),
	}
}

func (p *progressObserver) OnProgress(completed, total int) {
	if p.tracker == nil {
		p.tracker = &progress.Tracker{
			Message: p.message,
			Total:   int64(total),
			Units:   progress.UnitsDefault,
		}
		p.writer.AppendTracker(p.tracker)
		p.done = make(chan struct{})
		go func() {
			defer close(p.done)
			p.writer.Render()
		}()
	}

	p.tracker.SetValue(int64(completed))
	if completed >= total {
		p.tracker.MarkAsDone()
	}
}

// Stop waits for the renderer to draw its final frame, a tracker that never
// completed is shown as errored.
func (p *progressObserver) Stop() {
	if p.tracker == nil {
		return
	}
	if !p.tracker.IsDone() {
		p.tracker.MarkAsErrored()
	}
	<-p.done
}
