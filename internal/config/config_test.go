package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestResolve_DefaultsOnly(t *testing.T) {
	base := Config{ServerURL: DefaultServerURL, FlutterBin: DefaultFlutterBin, DefineKey: DefaultDefineKey}

	cfg := Resolve(base, nil, Overrides{})

	require.Equal(t, DefaultServerURL, cfg.ServerURL)
	require.Empty(t, cfg.DeviceID)
	require.False(t, cfg.NoClean)
	require.False(t, cfg.ListOnly)
}

func TestResolve_FlagsBeatFileBeatsDefaults(t *testing.T) {
	base := Defaults()
	file := &File{
		ServerURL:  "http://10.0.0.5:3000",
		Device:     "file-device",
		Flutter:    "/opt/flutter/bin/flutter",
		DefineKey:  "API_URL",
		ProjectDir: "app",
	}

	cfg := Resolve(base, file, Overrides{
		ServerURL: ptr("http://localhost:3000"),
		NoClean:   ptr(true),
		ListOnly:  true,
	})

	require.Equal(t, "http://localhost:3000", cfg.ServerURL)
	require.Equal(t, "file-device", cfg.DeviceID)
	require.Equal(t, "/opt/flutter/bin/flutter", cfg.FlutterBin)
	require.Equal(t, "API_URL", cfg.DefineKey)
	require.Equal(t, "app", cfg.ProjectDir)
	require.Equal(t, base.DerivedDataPrefix, cfg.DerivedDataPrefix)
	require.True(t, cfg.NoClean)
	require.True(t, cfg.ListOnly)
}

func TestResolve_ExplicitFlagCanDisableFileNoClean(t *testing.T) {
	cfg := Resolve(Defaults(), &File{NoClean: true}, Overrides{NoClean: ptr(false)})

	require.False(t, cfg.NoClean)
}

func TestResolve_DoesNotMutateBase(t *testing.T) {
	base := Defaults()
	snapshot := base

	_ = Resolve(base, &File{ServerURL: "http://x"}, Overrides{DeviceID: ptr("d")})

	require.Equal(t, snapshot, base)
}

func TestResolve_ExpandsHomeInDerivedDataDir(t *testing.T) {
	t.Setenv("HOME", "/Users/dev")

	cfg := Resolve(Defaults(), &File{DerivedDataDir: "~/DD"}, Overrides{})

	require.Equal(t, filepath.Join("/Users/dev", "DD"), cfg.DerivedDataDir)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, DefaultFileName, `
server_url: http://192.168.0.10:3000
device: 00008120-001A
no_clean: true
derived_data_prefix: Runner-
`)

	f, err := LoadFile(path, true)

	require.NoError(t, err)
	require.Equal(t, &File{
		ServerURL:         "http://192.168.0.10:3000",
		Device:            "00008120-001A",
		NoClean:           true,
		DerivedDataPrefix: "Runner-",
	}, f)
}

func TestLoadFile_MissingImplicitIsNil(t *testing.T) {
	f, err := LoadFile(filepath.Join(t.TempDir(), DefaultFileName), false)

	require.NoError(t, err)
	require.Nil(t, f)
}

func TestLoadFile_MissingExplicitIsError(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "custom.yaml"), true)

	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to read config")
}

func TestLoadFile_InvalidYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), DefaultFileName, "server_url: [unterminated\n")

	_, err := LoadFile(path, false)

	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to parse config")
}

func TestDefaultProjectDir(t *testing.T) {
	repo := t.TempDir()
	require.Equal(t, filepath.Join(repo, "mobile"), DefaultProjectDir(repo))

	writeFile(t, repo, "pubspec.yaml", "name: szybka_fucha\n")
	require.Equal(t, repo, DefaultProjectDir(repo))
}
