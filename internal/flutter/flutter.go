// Package flutter wraps the handful of Flutter CLI invocations devrun needs.
package flutter

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fastcmsdomain/szybkafucha/internal/device"
)

// Tool runs the flutter binary inside a project directory
type Tool struct {
	Bin  string
	Dir  string
	Exec Executor

	// Stdout and Stderr receive forwarded tool output
	Stdout io.Writer
	Stderr io.Writer
}

// New creates a Tool that forwards output to the process's own stdout/stderr
func New(bin, dir string) *Tool {
	return &Tool{
		Bin:    bin,
		Dir:    dir,
		Exec:   ExecExecutor{},
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

func (t *Tool) run(args ...string) (int, error) {
	return t.Exec.Execute(Command{
		Name:   t.Bin,
		Args:   args,
		Dir:    t.Dir,
		Stdout: t.Stdout,
		Stderr: t.Stderr,
	})
}

// Argv returns the full command line for the given flutter arguments
func (t *Tool) Argv(args ...string) []string {
	return append([]string{t.Bin}, args...)
}

// CleanArgs, PubGetArgs and friends are exposed so callers can echo the
// exact command before running it.
func CleanArgs() []string { return []string{"clean"} }
func PubGetArgs() []string { return []string{"pub", "get"} }
func DevicesArgs() []string { return []string{"devices"} }
func MachineDevicesArgs() []string { return []string{"devices", "--machine"} }

// RunArgs builds `run -d <device> --dart-define=K=V ...`. Defines are
// emitted in key order so the command line is stable.
func RunArgs(deviceID string, defines map[string]string) []string {
	args := []string{"run", "-d", deviceID}

	keys := make([]string, 0, len(defines))
	for k := range defines {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, fmt.Sprintf("--dart-define=%s=%s", k, defines[k]))
	}
	return args
}

// Clean runs `flutter clean`
func (t *Tool) Clean() (int, error) {
	return t.run(CleanArgs()...)
}

// PubGet runs `flutter pub get`
func (t *Tool) PubGet() (int, error) {
	return t.run(PubGetArgs()...)
}

// ListDevices runs `flutter devices`, forwarding the human-readable table
func (t *Tool) ListDevices() (int, error) {
	return t.run(DevicesArgs()...)
}

// Run launches the app on a device with the given build-time defines
func (t *Tool) Run(deviceID string, defines map[string]string) (int, error) {
	return t.run(RunArgs(deviceID, defines)...)
}

// MachineDevices runs `flutter devices --machine` and returns its stdout.
// The exit code is ignored; stderr is discarded.
func (t *Tool) MachineDevices() ([]byte, error) {
	var stdout bytes.Buffer
	_, err := t.Exec.Execute(Command{
		Name:   t.Bin,
		Args:   MachineDevicesArgs(),
		Dir:    t.Dir,
		Stdout: &stdout,
		Stderr: io.Discard,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query devices: %w", err)
	}
	return stdout.Bytes(), nil
}

// Devices returns every device flutter reports, emulators included.
// Unparseable output yields an empty slice.
func (t *Tool) Devices() ([]device.Device, error) {
	out, err := t.MachineDevices()
	if err != nil {
		return nil, err
	}
	return device.Parse(out), nil
}

// PhysicalDevices returns connected non-emulator devices in the order flutter
// lists them. Unparseable output yields an empty slice.
func (t *Tool) PhysicalDevices() ([]device.Device, error) {
	out, err := t.MachineDevices()
	if err != nil {
		return nil, err
	}
	return device.ParsePhysical(out), nil
}
