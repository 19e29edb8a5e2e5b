package preflight

import (
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	probing "github.com/prometheus-community/pro-bing"

	"github.com/fastcmsdomain/szybkafucha/internal/config"
)

// CheckResult represents the result of a single check
type CheckResult struct {
	Name    string
	Status  Status
	Message string
	Path    string
}

// Status represents the status of a check
type Status int

const (
	StatusOK Status = iota
	StatusWarning
	StatusError
)

// Icon returns the marker printed next to a check
func (s Status) Icon() string {
	switch s {
	case StatusOK:
		return "✓"
	case StatusWarning:
		return "!"
	default:
		return "✗"
	}
}

// Results contains all preflight check results
type Results struct {
	Checks      []CheckResult
	HasErrors   bool
	HasWarnings bool
}

func (r *Results) add(c CheckResult) {
	r.Checks = append(r.Checks, c)
	switch c.Status {
	case StatusError:
		r.HasErrors = true
	case StatusWarning:
		r.HasWarnings = true
	}
}

// RequiredTool defines a tool to check for
type RequiredTool struct {
	Name     string
	Command  string
	Required bool
	Platform string // "all", "darwin", "linux", "windows"
}

var requiredTools = []RequiredTool{
	{Name: "git", Command: "git", Required: true, Platform: "all"},
	{Name: "Dart", Command: "dart", Required: false, Platform: "all"},

	// iOS tools (macOS only)
	{Name: "Xcode CLI", Command: "xcrun", Required: false, Platform: "darwin"},
	{Name: "CocoaPods", Command: "pod", Required: false, Platform: "darwin"},

	{Name: "Android ADB", Command: "adb", Required: false, Platform: "all"},
}

// Checker runs the doctor checks. The function fields are seams for tests.
type Checker struct {
	LookPath func(string) (string, error)
	Version  func(cmd string) string
	Ping     func(host string) error
	GOOS     string
}

// NewChecker returns a Checker backed by the real system
func NewChecker() *Checker {
	return &Checker{
		LookPath: exec.LookPath,
		Version:  getToolVersion,
		Ping:     pingHost,
		GOOS:     runtime.GOOS,
	}
}

// Run executes all checks for cfg
func (c *Checker) Run(cfg config.Config) *Results {
	results := &Results{Checks: make([]CheckResult, 0)}

	results.add(c.checkFlutter(cfg.FlutterBin))

	for _, tool := range requiredTools {
		if tool.Platform != "all" && tool.Platform != c.GOOS {
			continue
		}
		results.add(c.checkTool(tool))
	}

	results.add(checkProject(cfg.ProjectDir))
	if c.GOOS == "darwin" {
		results.add(checkDerivedData(cfg.DerivedDataDir, cfg.DerivedDataPrefix))
	}
	results.add(c.checkServer(cfg.ServerURL))

	return results
}

func (c *Checker) checkFlutter(bin string) CheckResult {
	return c.checkTool(RequiredTool{Name: "Flutter", Command: bin, Required: true, Platform: "all"})
}

func (c *Checker) checkTool(tool RequiredTool) CheckResult {
	result := CheckResult{
		Name: tool.Name,
	}

	path, err := c.LookPath(tool.Command)
	if err != nil {
		if tool.Required {
			result.Status = StatusError
			result.Message = "Not found - required"
		} else {
			result.Status = StatusWarning
			result.Message = "Not found - optional"
		}
		return result
	}

	result.Path = path
	result.Status = StatusOK
	result.Message = "OK"
	if version := c.Version(path); version != "" {
		result.Message = version
	}
	return result
}

func checkProject(dir string) CheckResult {
	result := CheckResult{Name: "Flutter project", Path: dir}

	if _, err := os.Stat(filepath.Join(dir, "pubspec.yaml")); err != nil {
		result.Status = StatusError
		result.Message = "No pubspec.yaml in " + dir + " - use --project-dir"
		return result
	}

	result.Status = StatusOK
	result.Message = dir
	if _, err := os.Stat(filepath.Join(dir, "ios", "Runner.xcworkspace")); err == nil {
		result.Message += " [ios]"
	}
	return result
}

func checkDerivedData(dir, prefix string) CheckResult {
	result := CheckResult{Name: "Xcode DerivedData", Path: dir}

	entries, err := os.ReadDir(dir)
	if err != nil {
		result.Status = StatusOK
		result.Message = "Not present"
		return result
	}

	n := 0
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), prefix) {
			n++
		}
	}
	result.Status = StatusOK
	result.Message = fmt.Sprintf("%d %s* folder(s)", n, prefix)
	return result
}

func (c *Checker) checkServer(serverURL string) CheckResult {
	result := CheckResult{Name: "Dev server", Path: serverURL}

	u, err := url.Parse(serverURL)
	if err != nil || u.Hostname() == "" {
		result.Status = StatusWarning
		result.Message = "Cannot parse host from " + serverURL
		return result
	}

	if err := c.Ping(u.Hostname()); err != nil {
		result.Status = StatusWarning
		result.Message = fmt.Sprintf("%s unreachable: %v", u.Hostname(), err)
		return result
	}

	result.Status = StatusOK
	result.Message = u.Hostname() + " reachable"
	return result
}

// pingHost sends a single ICMP echo. Unprivileged mode works on macOS and on
// Linux when net.ipv4.ping_group_range allows it.
func pingHost(host string) error {
	pinger, err := probing.NewPinger(host)
	if err != nil {
		return err
	}
	pinger.Count = 1
	pinger.Timeout = 2 * time.Second
	pinger.SetPrivileged(runtime.GOOS == "windows")

	if err := pinger.Run(); err != nil {
		return err
	}
	if pinger.Statistics().PacketsRecv == 0 {
		return fmt.Errorf("no reply")
	}
	return nil
}

func getToolVersion(path string) string {
	var versionArgs []string

	switch filepath.Base(path) {
	case "adb":
		versionArgs = []string{"version"}
	case "xcrun":
		// xcrun --version doesn't give useful output, skip
		return ""
	default:
		versionArgs = []string{"--version"}
	}

	out, err := exec.Command(path, versionArgs...).Output()
	if err != nil {
		return ""
	}

	version := strings.TrimSpace(string(out))
	// Clean up version string - take first line only
	if idx := strings.Index(version, "\n"); idx != -1 {
		version = version[:idx]
	}
	version = strings.TrimPrefix(version, "git version ")
	version = strings.TrimPrefix(version, "Dart SDK version: ")

	if len(version) > 40 {
		version = version[:40] + "..."
	}

	return version
}

// Summary returns a short summary of the results
func (r *Results) Summary() string {
	ok := 0
	warn := 0
	fail := 0

	for _, c := range r.Checks {
		switch c.Status {
		case StatusOK:
			ok++
		case StatusWarning:
			warn++
		case StatusError:
			fail++
		}
	}

	if fail > 0 {
		return fmt.Sprintf("%d errors, %d warnings", fail, warn)
	}
	if warn > 0 {
		return fmt.Sprintf("%d warnings", warn)
	}
	return fmt.Sprintf("%d checks passed", ok)
}
