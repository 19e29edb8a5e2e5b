package preflight

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fastcmsdomain/szybkafucha/internal/config"
)

func fakeChecker(goos string, present map[string]bool, pingErr error) *Checker {
	return &Checker{
		LookPath: func(cmd string) (string, error) {
			if present[cmd] {
				return "/usr/local/bin/" + cmd, nil
			}
			return "", errors.New("not found")
		},
		Version: func(string) string { return "" },
		Ping:    func(string) error { return pingErr },
		GOOS:    goos,
	}
}

func flutterProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pubspec.yaml"), []byte("name: szybka_fucha\n"), 0o644))
	return dir
}

func find(t *testing.T, r *Results, name string) CheckResult {
	t.Helper()
	for _, c := range r.Checks {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("check %q not found", name)
	return CheckResult{}
}

func TestRun_AllPresentOnLinux(t *testing.T) {
	c := fakeChecker("linux", map[string]bool{"flutter": true, "git": true, "dart": true, "adb": true}, nil)
	cfg := config.Config{FlutterBin: "flutter", ProjectDir: flutterProject(t), ServerURL: "http://192.168.1.104:3000"}

	r := c.Run(cfg)

	require.False(t, r.HasErrors)
	require.False(t, r.HasWarnings)
	require.Len(t, r.Checks, 6)
	require.Equal(t, "/usr/local/bin/flutter", find(t, r, "Flutter").Path)
	require.Equal(t, "192.168.1.104 reachable", find(t, r, "Dev server").Message)
	require.Equal(t, "6 checks passed", r.Summary())
}

func TestRun_DarwinAddsXcodeChecks(t *testing.T) {
	c := fakeChecker("darwin", map[string]bool{"flutter": true, "git": true}, nil)
	dd := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dd, "Runner-abc"), 0o755))
	cfg := config.Config{FlutterBin: "flutter", ProjectDir: flutterProject(t), ServerURL: "http://localhost:3000", DerivedDataDir: dd, DerivedDataPrefix: "Runner-"}

	r := c.Run(cfg)

	require.Equal(t, StatusWarning, find(t, r, "Xcode CLI").Status)
	require.Equal(t, StatusWarning, find(t, r, "CocoaPods").Status)
	require.Equal(t, "1 Runner-* folder(s)", find(t, r, "Xcode DerivedData").Message)
	require.False(t, r.HasErrors)
	require.True(t, r.HasWarnings)
}

func TestRun_MissingFlutterIsError(t *testing.T) {
	c := fakeChecker("linux", map[string]bool{"git": true}, nil)
	cfg := config.Config{FlutterBin: "flutter", ProjectDir: flutterProject(t), ServerURL: "http://localhost:3000"}

	r := c.Run(cfg)

	require.True(t, r.HasErrors)
	require.Equal(t, "Not found - required", find(t, r, "Flutter").Message)
	require.Equal(t, "1 errors, 2 warnings", r.Summary())
}

func TestRun_MissingProjectIsError(t *testing.T) {
	c := fakeChecker("linux", map[string]bool{"flutter": true, "git": true, "dart": true, "adb": true}, nil)
	cfg := config.Config{FlutterBin: "flutter", ProjectDir: filepath.Join(t.TempDir(), "mobile"), ServerURL: "http://localhost:3000"}

	r := c.Run(cfg)

	require.True(t, r.HasErrors)
	require.Equal(t, StatusError, find(t, r, "Flutter project").Status)
}

func TestRun_UnreachableServerIsWarning(t *testing.T) {
	c := fakeChecker("linux", map[string]bool{"flutter": true, "git": true, "dart": true, "adb": true}, errors.New("no reply"))
	cfg := config.Config{FlutterBin: "flutter", ProjectDir: flutterProject(t), ServerURL: "http://192.168.1.104:3000"}

	r := c.Run(cfg)

	server := find(t, r, "Dev server")
	require.Equal(t, StatusWarning, server.Status)
	require.Equal(t, "192.168.1.104 unreachable: no reply", server.Message)
	require.False(t, r.HasErrors)
}

func TestCheckServer_UnparseableURL(t *testing.T) {
	c := fakeChecker("linux", nil, nil)

	res := c.checkServer("not a url")

	require.Equal(t, StatusWarning, res.Status)
}

func TestStatusIcon(t *testing.T) {
	require.Equal(t, "✓", StatusOK.Icon())
	require.Equal(t, "!", StatusWarning.Icon())
	require.Equal(t, "✗", StatusError.Icon())
}
