// Package viewer is an optional TUI showing live acquisition data: the
// latest measurement, rolling-window statistics and counters for the
// device's conversion error flags.
package viewer

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/gammazero/deque"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/kasmlab/ldcdaq/ldc1101"
)

const viewerTitle = " LDC1101 Live Samples "

// Viewer renders live sample data in a small tview layout.
type Viewer struct {
	tuiApp    *tview.Application
	view      *tview.TextView
	mu        sync.Mutex
	window    *deque.Deque[uint32]
	capacity  int
	latest    ldc1101.Sample
	errCounts map[string]int
	total     int
	ossignal  chan os.Signal
}

type windowStats struct {
	min    uint32
	max    uint32
	mean   float64
	median float64
	stdDev float64
}

// New creates a Viewer with a rolling window of windowSize samples.
// Pressing q in the TUI sends an interrupt on ossignal.
func New(windowSize int, ossignal chan os.Signal) *Viewer {
	v := &Viewer{
		tuiApp:    tview.NewApplication(),
		window:    new(deque.Deque[uint32]),
		capacity:  windowSize,
		errCounts: make(map[string]int),
		ossignal:  ossignal,
	}
	v.window.Grow(windowSize)
	return v
}

// Start initializes and runs the TUI. It should be called as a goroutine.
func (v *Viewer) Start(stop chan struct{}, wg *sync.WaitGroup) {
	defer wg.Done()

	v.setupUI()

	go func() {
		<-stop
		slog.Info("Stopping sample viewer TUI...")
		v.tuiApp.Stop()
	}()

	if err := v.tuiApp.Run(); err != nil {
		slog.Error("Error running sample viewer TUI", "error", err)
		os.Exit(1)
	}
}

// Observe feeds one sample into the rolling window and schedules a
// redraw. Safe for concurrent use.
func (v *Viewer) Observe(sample ldc1101.Sample) {
	v.mu.Lock()

	if v.window.Len() == v.capacity {
		v.window.PopFront()
	}
	v.window.PushBack(sample.Value)
	v.latest = sample
	v.total++
	for _, name := range sample.Status.ErrorNames() {
		v.errCounts[name]++
	}

	text := v.prepareDisplayText()
	v.mu.Unlock()

	v.tuiApp.QueueUpdateDraw(func() {
		v.view.SetText(text)
	})
}

func (v *Viewer) setupUI() {
	v.view = tview.NewTextView()
	v.view.SetDynamicColors(true)
	v.view.SetTextAlign(tview.AlignLeft)
	v.view.SetBackgroundColor(tcell.ColorDarkSlateGray)
	v.view.SetBorder(true).SetTitle(viewerTitle).SetTitleColor(tcell.ColorLightBlue)

	intro := tview.NewTextView()
	intro.SetBorder(true).SetTitle(" LDCDAQ ").SetTitleColor(tcell.ColorLightBlue)
	intro.SetText("Acquisition running. Hit [#ff0000]q[-] to stop.")
	intro.SetTextAlign(tview.AlignCenter)
	intro.SetDynamicColors(true)
	intro.SetBackgroundColor(tcell.ColorDarkSlateGray)

	layout := tview.NewFlex().SetDirection(tview.FlexRow)
	layout.AddItem(intro, 3, 1, false)
	layout.AddItem(v.view, 7, 1, true)
	layout.SetRect(1, 1, 64, 11)

	v.tuiApp.SetRoot(layout, true).SetFocus(v.view)
	v.tuiApp.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Rune() {
		case 'q', 'Q':
			v.tuiApp.Stop()
			v.ossignal <- os.Interrupt
		}
		return event
	})
}

// prepareDisplayText renders the current window. Callers must hold the
// mutex.
func (v *Viewer) prepareDisplayText() string {
	data := make([]uint32, v.window.Len())
	for i := range data {
		data[i] = v.window.At(i)
	}
	stats := calculateStats(data)

	var buf strings.Builder
	fmt.Fprintf(&buf, "[yellow]Latest[white]   %10d  at %.3fs\n",
		v.latest.Value, v.latest.Timestamp.Seconds())
	fmt.Fprintf(&buf, "[yellow]Window[white]   %d of %d samples (total %d)\n",
		len(data), v.capacity, v.total)
	fmt.Fprintf(&buf, "[yellow]Range[white]    [%d | %.0f | %d]  median %.0f  stddev %.1f\n",
		stats.min, stats.mean, stats.max, stats.median, stats.stdDev)

	names := maps.Keys(v.errCounts)
	slices.Sort(names)
	if len(names) == 0 {
		buf.WriteString("[yellow]Errors[white]   none")
	} else {
		buf.WriteString("[yellow]Errors[white]  ")
		for _, name := range names {
			fmt.Fprintf(&buf, " [blue]%s:[-] %d", name, v.errCounts[name])
		}
	}
	return buf.String()
}

func calculateStats(data []uint32) windowStats {
	if len(data) == 0 {
		return windowStats{}
	}

	var sum uint64
	min, max := data[0], data[0]
	for _, v := range data {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += uint64(v)
	}
	mean := float64(sum) / float64(len(data))

	sorted := append([]uint32(nil), data...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	var median float64
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		median = float64(sorted[mid-1]+sorted[mid]) / 2.0
	} else {
		median = float64(sorted[mid])
	}

	var sumOfSquares float64
	for _, v := range data {
		sumOfSquares += (float64(v) - mean) * (float64(v) - mean)
	}
	stdDev := math.Sqrt(sumOfSquares / float64(len(data)))

	return windowStats{
		min:    min,
		max:    max,
		mean:   mean,
		median: median,
		stdDev: stdDev,
	}
}
