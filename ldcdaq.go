// ldcdaq configures a TI LDC1101 inductive sensor over SPI, polls its
// high-resolution measurement register, logs timestamped samples to a
// CSV file and steps an external actuator over UDP between sample
// batches.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/kasmlab/ldcdaq/acquire"
	"github.com/kasmlab/ldcdaq/actuator"
	"github.com/kasmlab/ldcdaq/config"
	"github.com/kasmlab/ldcdaq/datalog"
	"github.com/kasmlab/ldcdaq/hardware"
	"github.com/kasmlab/ldcdaq/ldc1101"
	"github.com/kasmlab/ldcdaq/logging"
	"github.com/kasmlab/ldcdaq/viewer"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML configuration file")
	logfile := flag.String("l", "", "CSV datalog file")
	samples := flag.Int("n", 0, "samples to collect per actuator step (1-1000)")
	increment := flag.Int("v", 0, "actuator command increment per step")
	steps := flag.Int("s", 0, "number of actuator steps")
	tui := flag.Bool("tui", false, "show the live sample viewer")
	flag.Parse()

	conf, err := config.ReadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "l":
			conf.Acquisition.Logfile = *logfile
		case "n":
			conf.Acquisition.SamplesPerStep = *samples
		case "v":
			conf.Actuator.Increment = *increment
		case "s":
			conf.Acquisition.Steps = *steps
		case "tui":
			conf.Viewer.Enabled = *tui
		}
	})
	if err := conf.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// With the viewer enabled, terminal logging is held back until the
	// TUI has released the screen.
	if err := logging.Init(conf.Logging.Level, conf.Logging.Format, conf.Viewer.Enabled, conf.Logging.File); err != nil {
		fmt.Fprintln(os.Stderr, "failed to set up logging:", err)
		os.Exit(1)
	}

	err = run(conf)
	if err != nil {
		slog.Error("Run failed", "error", err)
	} else {
		slog.Info("Data collection complete")
	}
	logging.Close()
	if err != nil {
		os.Exit(1)
	}
}

func run(conf *config.Config) error {
	slog.Info("Starting LDC1101 data collection",
		"logfile", conf.Acquisition.Logfile,
		"samples", conf.Acquisition.SamplesPerStep,
		"steps", conf.Acquisition.Steps)

	act, err := actuator.New(conf.Actuator.Host, conf.Actuator.Port)
	if err != nil {
		return err
	}
	defer act.Close()

	bus, err := hardware.Open(conf.Sensor)
	if err != nil {
		return err
	}
	defer bus.Close()

	dev := ldc1101.New(bus, ldc1101.Config{
		RCount:        uint16(conf.Sensor.RCount),
		RPMin:         byte(conf.Sensor.RPMin),
		RPMax:         byte(conf.Sensor.RPMax),
		HighQ:         conf.Sensor.HighQ,
		ReadyMaxPolls: conf.Sensor.ReadyMaxPolls,
	})
	// A configuration failure is unrecoverable: the register order is
	// prescribed and a partially configured oscillator is in an
	// indeterminate state.
	if err := dev.Init(); err != nil {
		return fmt.Errorf("sensor initialisation: %w", err)
	}
	slog.Info("LDC1101 identity verified, conversions running")

	rec, err := datalog.Create(conf.Acquisition.Logfile)
	if err != nil {
		return err
	}
	defer rec.Close()

	stop := make(chan struct{})
	var stopOnce sync.Once
	stopAll := func() { stopOnce.Do(func() { close(stop) }) }

	ossignal := make(chan os.Signal, 1)
	signal.Notify(ossignal, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(ossignal)
	go func() {
		<-ossignal
		stopAll()
	}()

	var wg sync.WaitGroup
	var obs acquire.Observer
	if conf.Viewer.Enabled {
		v := viewer.New(conf.Viewer.WindowSize, ossignal)
		wg.Add(1)
		go v.Start(stop, &wg)
		obs = v
	}

	runErr := acquire.New(dev, act, rec, obs, conf).Run(stop)

	stopAll()
	wg.Wait()
	if conf.Viewer.Enabled {
		logging.Release(os.Stderr)
	}
	return runErr
}
