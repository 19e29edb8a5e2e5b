package device

import (
	"bytes"

	"github.com/bytedance/sonic"
)

// Device represents a Flutter run target: a phone, simulator, or emulator
type Device struct {
	ID         string
	Name       string
	Platform   string // Flutter targetPlatform, e.g. "ios" or "android-arm64"
	SDK        string
	IsEmulator bool
}

// String returns a display string for the device
func (d Device) String() string {
	kind := "physical"
	if d.IsEmulator {
		kind = "emulator"
	}
	name := d.Name
	if name == "" {
		name = d.ID
	}
	return name + " (" + d.Platform + ", " + kind + ")"
}

// machineRecord is one entry of `flutter devices --machine`.
// Pointers distinguish a missing field from its zero value.
type machineRecord struct {
	ID             *string `json:"id"`
	Name           string  `json:"name"`
	TargetPlatform string  `json:"targetPlatform"`
	SDK            string  `json:"sdk"`
	Emulator       *bool   `json:"emulator"`
}

// Parse decodes the JSON array printed by `flutter devices --machine`.
//
// Output that is not a JSON array yields nil. A record without an id is
// skipped unless it claims to be physical hardware ("emulator": false), in
// which case the whole output is treated as malformed and yields nil. A
// record whose emulator field is missing or null is reported as an emulator
// so it is never picked as physical hardware.
func Parse(data []byte) []Device {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		return nil
	}

	var records []machineRecord
	if err := sonic.Unmarshal(data, &records); err != nil {
		return nil
	}

	devices := make([]Device, 0, len(records))
	for _, r := range records {
		emulator := r.Emulator == nil || *r.Emulator
		if r.ID == nil || *r.ID == "" {
			if !emulator {
				return nil
			}
			continue
		}
		devices = append(devices, Device{
			ID:         *r.ID,
			Name:       r.Name,
			Platform:   r.TargetPlatform,
			SDK:        r.SDK,
			IsEmulator: emulator,
		})
	}
	return devices
}

// Physical returns the devices that are not emulators, preserving order
func Physical(devices []Device) []Device {
	physical := make([]Device, 0, len(devices))
	for _, d := range devices {
		if !d.IsEmulator {
			physical = append(physical, d)
		}
	}
	return physical
}

// ParsePhysical parses machine output and keeps only physical devices.
// Parse failures produce an empty slice, never an error: the caller reports
// "no devices found" instead.
func ParsePhysical(data []byte) []Device {
	return Physical(Parse(data))
}
