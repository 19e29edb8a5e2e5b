package device

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const machineOutput = `[
  {"name": "iPhone 15", "id": "00008120-001A", "isSupported": true, "targetPlatform": "ios", "emulator": false, "sdk": "iOS 17.4"},
  {"name": "iPhone 15 Pro Simulator", "id": "5C3E-SIM", "targetPlatform": "ios", "emulator": true, "sdk": "iOS 17.4 (simulator)"},
  {"name": "Pixel 7", "id": "29071FDH", "targetPlatform": "android-arm64", "emulator": false, "sdk": "Android 14 (API 34)"},
  {"name": "macOS", "id": "macos", "targetPlatform": "darwin", "emulator": false, "sdk": "macOS 14.4"}
]`

func TestParsePhysical_FiltersEmulatorsPreservingOrder(t *testing.T) {
	devices := ParsePhysical([]byte(machineOutput))

	require.Len(t, devices, 3)
	require.Equal(t, "00008120-001A", devices[0].ID)
	require.Equal(t, "29071FDH", devices[1].ID)
	require.Equal(t, "macos", devices[2].ID)
	for _, d := range devices {
		require.False(t, d.IsEmulator)
	}
}

func TestParse_KeepsAllFields(t *testing.T) {
	devices := Parse([]byte(machineOutput))

	require.Len(t, devices, 4)
	require.Equal(t, Device{
		ID:         "5C3E-SIM",
		Name:       "iPhone 15 Pro Simulator",
		Platform:   "ios",
		SDK:        "iOS 17.4 (simulator)",
		IsEmulator: true,
	}, devices[1])
}

func TestParse_MissingEmulatorFieldCountsAsEmulator(t *testing.T) {
	out := `[{"id": "a", "name": "no flag"}, {"id": "b", "name": "phone", "emulator": false}]`

	devices := ParsePhysical([]byte(out))

	require.Len(t, devices, 1)
	require.Equal(t, "b", devices[0].ID)
}

func TestParse_NullEmulatorCountsAsEmulator(t *testing.T) {
	devices := Parse([]byte(`[{"id": "a", "emulator": null}]`))

	require.Len(t, devices, 1)
	require.True(t, devices[0].IsEmulator)
	require.Empty(t, Physical(devices))
}

func TestParse_SkipsEmulatorsWithoutID(t *testing.T) {
	out := `[
		{"id": "a", "emulator": false},
		{"name": "no-id", "emulator": true},
		{"name": "no-id-no-flag"},
		{"id": "", "emulator": null}
	]`

	devices := ParsePhysical([]byte(out))

	require.Len(t, devices, 1)
	require.Equal(t, "a", devices[0].ID)
}

func TestParsePhysical_MalformedOutputIsEmpty(t *testing.T) {
	cases := map[string]string{
		"empty":          "",
		"not json":       "No devices detected.",
		"truncated":      `[{"id": "a", "emulator": false`,
		"object":         `{"id": "a", "emulator": false}`,
		"scalars":        `[1, 2, 3]`,
		"physical no id": `[{"id": "a", "emulator": false}, {"name": "ghost", "emulator": false}]`,
		"wrong id type":  `[{"id": 42, "emulator": false}]`,
		"banner prefix":  "Flutter 3.22 is available\n" + machineOutput,
		"emulator typed": `[{"id": "a", "emulator": "no"}]`,
	}

	for name, out := range cases {
		t.Run(name, func(t *testing.T) {
			require.Empty(t, ParsePhysical([]byte(out)))
		})
	}
}

func TestParsePhysical_EmptyArray(t *testing.T) {
	require.Empty(t, ParsePhysical([]byte("[]\n")))
}

func TestDeviceString(t *testing.T) {
	require.Equal(t, "Pixel 7 (android-arm64, physical)", Device{ID: "x", Name: "Pixel 7", Platform: "android-arm64"}.String())
	require.Equal(t, "sim (ios, emulator)", Device{ID: "sim", Platform: "ios", IsEmulator: true}.String())
}
