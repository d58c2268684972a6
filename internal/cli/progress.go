package cli

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/schollz/progressbar/v3"
)

// ProgressReporter draws a progress bar while a batch of explanations is
// generated. Report matches recommend.ProgressFunc.
type ProgressReporter struct {
	writer io.Writer
	bar    *progressbar.ProgressBar
	mu     sync.Mutex
}

// NewProgressReporter creates a reporter that draws to w.
func NewProgressReporter(w io.Writer) *ProgressReporter {
	return &ProgressReporter{writer: w}
}

// Report records that done of total items are finished. The first item of a
// batch starts a new bar and the last one closes it.
func (p *ProgressReporter) Report(done, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar == nil || done == 1 {
		p.bar = p.newBar(total)
	}
	if err := p.bar.Set(done); err != nil {
		slog.Warn("Failed to update progress bar", "error", err)
	}
	if done >= total {
		if err := p.bar.Finish(); err != nil {
			slog.Warn("Failed to finish progress bar", "error", err)
		}
		p.bar = nil
	}
}

func (p *ProgressReporter) newBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription("[cyan][bold]Asking the critic...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[yellow]=[reset]",
			SaucerHead:    "[yellow]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(p.writer); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}
