// Package acquire runs the acquisition loop: batches of sensor samples
// written to the datalog, with an actuator step command between batches.
package acquire

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kasmlab/ldcdaq/config"
	"github.com/kasmlab/ldcdaq/ldc1101"
)

// Device polls one decoded sensor sample.
type Device interface {
	PollSample() (ldc1101.Sample, error)
}

// Commander sends one actuator command value.
type Commander interface {
	Send(value int16) error
}

// Recorder appends one timestamped sample row.
type Recorder interface {
	Append(elapsed time.Duration, value uint32) error
}

// Observer receives every good sample, e.g. for a live viewer. May be nil.
type Observer interface {
	Observe(sample ldc1101.Sample)
}

// Runner drives one acquisition run over an initialised device.
type Runner struct {
	dev Device
	cmd Commander
	rec Recorder
	obs Observer
	acq config.AcquisitionConfig
	act config.ActuatorConfig
}

// New assembles a Runner; obs may be nil.
func New(dev Device, cmd Commander, rec Recorder, obs Observer, conf *config.Config) *Runner {
	return &Runner{
		dev: dev,
		cmd: cmd,
		rec: rec,
		obs: obs,
		acq: conf.Acquisition,
		act: conf.Actuator,
	}
}

// Run executes the configured steps. A failed sample read is logged and
// the loop moves on to the next sample; everything else (baseline
// command, datalog write, step command) ends the run. Closing stop ends
// the run early between samples.
func (r *Runner) Run(stop <-chan struct{}) error {
	slog.Info("Sending baseline actuator command", "value", r.act.StartValue)
	if err := r.cmd.Send(int16(r.act.StartValue)); err != nil {
		return fmt.Errorf("baseline command: %w", err)
	}
	time.Sleep(r.act.SettleDelay)

	cmdVal := int16(0)
	for step := 0; step < r.acq.Steps; step++ {
		var (
			count    int
			sum      uint64
			min, max uint32
		)
		for i := 0; i < r.acq.SamplesPerStep; i++ {
			select {
			case <-stop:
				slog.Info("Acquisition interrupted", "step", step, "samples", i)
				return nil
			default:
			}

			sample, err := r.dev.PollSample()
			if err != nil {
				// Steady-state read failures are recoverable; skip the
				// sample and keep going.
				slog.Error("Failed to read sample", "error", err)
				continue
			}
			if flags := sample.Status.ErrorNames(); len(flags) > 0 {
				slog.Debug("Conversion error flags set", "flags", flags)
			}
			if err := r.rec.Append(sample.Timestamp, sample.Value); err != nil {
				return fmt.Errorf("datalog write: %w", err)
			}
			if r.obs != nil {
				r.obs.Observe(sample)
			}

			if count == 0 || sample.Value < min {
				min = sample.Value
			}
			if sample.Value > max {
				max = sample.Value
			}
			sum += uint64(sample.Value)
			count++
		}

		if count > 0 {
			slog.Info("Step complete",
				"step", step,
				"samples", count,
				"min", min,
				"mean", sum/uint64(count),
				"max", max)
		} else {
			slog.Warn("Step produced no samples", "step", step)
		}

		cmdVal += int16(r.act.Increment)
		if int(cmdVal) > r.act.MaxCommand || int(cmdVal) < -r.act.MaxCommand {
			slog.Warn("Command value exceeded maximum, stopping",
				"command", cmdVal, "max", r.act.MaxCommand)
			return nil
		}
		if err := r.cmd.Send(cmdVal); err != nil {
			return fmt.Errorf("step command %d: %w", cmdVal, err)
		}
	}
	return nil
}
