// Package runner implements the device run sequence: pick a physical device,
// clean stale build state, fetch dependencies and launch the app with the
// backend URL compiled in.
package runner

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"

	"github.com/fastcmsdomain/szybkafucha/internal/config"
	"github.com/fastcmsdomain/szybkafucha/internal/derived"
	"github.com/fastcmsdomain/szybkafucha/internal/device"
	"github.com/fastcmsdomain/szybkafucha/internal/flutter"
	"github.com/fastcmsdomain/szybkafucha/internal/ui"
)

// Title is printed in the run banner
const Title = "Szybka Fucha - Flutter Device Runner"

// Runner executes one run. It holds no state beyond the steps it has run.
type Runner struct {
	cfg     config.Config
	flutter *flutter.Tool
	out     *ui.Printer
	log     *log.Logger

	cleanDerived func(dir, prefix string) derived.Result
	copyText     func(string) error
	now          func() time.Time

	steps []*Step
}

// New creates a runner for cfg
func New(cfg config.Config, tool *flutter.Tool, out *ui.Printer, logger *log.Logger) *Runner {
	return &Runner{
		cfg:          cfg,
		flutter:      tool,
		out:          out,
		log:          logger,
		cleanDerived: derived.Clean,
		copyText:     clipboard.WriteAll,
		now:          time.Now,
	}
}

// Steps returns the external commands run so far, in order
func (r *Runner) Steps() []*Step {
	return r.steps
}

// Run executes the full sequence. Failures come back as *ExitError.
func (r *Runner) Run() error {
	if r.cfg.ListOnly {
		return r.listOnly()
	}

	r.out.Banner(Title)
	r.out.Field("Server URL", r.cfg.ServerURL)
	r.out.Field("Project", r.cfg.ProjectDir)

	deviceID, err := r.resolveDevice()
	if err != nil {
		return err
	}
	r.out.Rule()

	if !r.cfg.NoClean {
		r.out.Step(1, 4, "Cleaning Flutter build...")
		if err := r.mustRun("flutter clean", flutter.CleanArgs(), r.flutter.Clean); err != nil {
			return err
		}

		r.out.Step(2, 4, "Cleaning Xcode DerivedData...")
		r.cleanDerivedData()

		r.out.Step(3, 4, "Fetching dependencies...")
		if err := r.mustRun("flutter pub get", flutter.PubGetArgs(), r.flutter.PubGet); err != nil {
			return err
		}
	} else {
		r.out.Section("--no-clean", "Skipping clean, running pub get only...")
		if err := r.mustRun("flutter pub get", flutter.PubGetArgs(), r.flutter.PubGet); err != nil {
			return err
		}
	}

	r.out.Step(4, 4, "Launching on device...")
	return r.launch(deviceID)
}

func (r *Runner) listOnly() error {
	code := r.listDevices()
	if code != 0 {
		return &ExitError{Code: exitCode(code), Message: fmt.Sprintf("flutter devices failed with exit code %d", code)}
	}
	return nil
}

// listDevices forwards the human-readable device table and returns the
// tool's exit code
func (r *Runner) listDevices() int {
	r.out.Heading("Available devices:")
	code, err := r.flutter.ListDevices()
	if err != nil {
		r.log.Error("could not run flutter devices", "err", err)
		return ExitCannotExecute
	}
	return code
}

func (r *Runner) resolveDevice() (string, error) {
	if r.cfg.DeviceID != "" {
		r.out.Field("Device", r.cfg.DeviceID)
		return r.cfg.DeviceID, nil
	}

	var devices []device.Device
	err := r.out.Spin("Looking for connected devices...", func() {
		found, err := r.flutter.PhysicalDevices()
		if err != nil {
			r.log.Debug("device discovery failed", "err", err)
			return
		}
		devices = found
	})
	if err != nil {
		r.log.Debug("spinner unavailable", "err", err)
	}

	if len(devices) == 0 {
		r.out.Fail("No physical devices found. Connect your iPhone and unlock it.")
		r.listDevices()
		return "", &ExitError{Code: ExitNoDevice, Message: "no physical device found"}
	}

	d := devices[0]
	name := d.Name
	if name == "" {
		name = d.ID
	}
	r.log.Debug("selected device", "id", d.ID, "candidates", len(devices))
	r.out.Field("Device", fmt.Sprintf("%s (%s)", name, d.ID))
	return d.ID, nil
}

// runStep echoes and runs one flutter command, recording it as a step.
// The error is set only when the command could not be started.
func (r *Runner) runStep(name string, args []string, fn func() (int, error)) (*Step, error) {
	r.out.Command(r.flutter.Argv(args...))
	r.log.Debug("running step", "step", name, "dir", r.flutter.Dir)

	step := startStep(name, r.now())
	r.steps = append(r.steps, step)

	code, err := fn()
	if err != nil {
		step.finish(ExitCannotExecute, r.now())
		r.out.StepDone(step.StatusIcon(), name, false, step.Duration())
		return step, &ExitError{Code: ExitCannotExecute, Message: fmt.Sprintf("%s: %v", name, err)}
	}

	step.finish(code, r.now())
	r.out.StepDone(step.StatusIcon(), name, code == 0, step.Duration())
	return step, nil
}

// mustRun runs a step whose failure aborts the run with the tool's exit code
func (r *Runner) mustRun(name string, args []string, fn func() (int, error)) error {
	step, err := r.runStep(name, args, fn)
	if err != nil {
		return err
	}
	if step.Status == StepFailed {
		return &ExitError{
			Code:    exitCode(step.ExitCode),
			Message: fmt.Sprintf("%s failed with exit code %d", name, step.ExitCode),
		}
	}
	return nil
}

func (r *Runner) cleanDerivedData() {
	dir, prefix := r.cfg.DerivedDataDir, r.cfg.DerivedDataPrefix
	res := r.cleanDerived(dir, prefix)

	switch {
	case res.Missing:
		r.out.Muted("No DerivedData directory at %s (skipping).", dir)
	case res.Matched == 0:
		r.out.Muted("No %s* folders in DerivedData (skipping).", prefix)
	default:
		r.out.Info("Removed %d %s* folder(s) from DerivedData.", res.Removed, prefix)
		if res.Failed > 0 {
			r.out.Warn("%d folder(s) could not be removed.", res.Failed)
		}
	}
}

func (r *Runner) launch(deviceID string) error {
	defines := map[string]string{r.cfg.DefineKey: r.cfg.ServerURL}
	args := flutter.RunArgs(deviceID, defines)

	if r.cfg.CopyCommand {
		line := ui.FormatCommand(r.flutter.Argv(args...))
		if err := r.copyText(line); err != nil {
			r.log.Warn("could not copy launch command to clipboard", "err", err)
		} else {
			r.out.Muted("Launch command copied to clipboard.")
		}
	}

	step, err := r.runStep("flutter run", args, func() (int, error) {
		return r.flutter.Run(deviceID, defines)
	})
	if err != nil {
		r.out.Checklist("Launch failed. Check:", r.troubleshooting())
		return err
	}
	if step.Status == StepFailed {
		r.out.Checklist("Launch failed. Check:", r.troubleshooting())
		return &ExitError{
			Code:    exitCode(step.ExitCode),
			Message: fmt.Sprintf("flutter run failed with exit code %d", step.ExitCode),
		}
	}
	return nil
}

func (r *Runner) troubleshooting() []string {
	workspace := filepath.Join(r.cfg.ProjectDir, "ios", "Runner.xcworkspace")
	return []string{
		"Is the iPhone unlocked and trusted (Trust This Computer)?",
		"Do you have a valid provisioning profile in Xcode?",
		fmt.Sprintf("Try opening %s in Xcode and running from there.", workspace),
	}
}
