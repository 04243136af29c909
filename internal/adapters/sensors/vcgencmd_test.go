package sensors

import (
	"errors"
	"testing"
)

func swapRunCommand(t *testing.T, fn func(name string, args ...string) ([]byte, error)) {
	t.Helper()
	prev := runCommand
	runCommand = fn
	t.Cleanup(func() { runCommand = prev })
}

func TestVcgencmdFrequency(t *testing.T) {
	swapRunCommand(t, func(name string, args ...string) ([]byte, error) {
		if name != "vcgencmd" || len(args) != 2 || args[0] != "measure_clock" || args[1] != "arm" {
			t.Fatalf("unexpected command %s %v", name, args)
		}
		return []byte("frequency(48)=1500398464\n"), nil
	})

	got, err := NewVcgencmd().FrequencyMHz()
	if err != nil {
		t.Fatalf("FrequencyMHz: %v", err)
	}
	if got < 1500.39 || got > 1500.40 {
		t.Fatalf("FrequencyMHz = %v, want ~1500.398", got)
	}
}

func TestVcgencmdTemperature(t *testing.T) {
	swapRunCommand(t, func(string, ...string) ([]byte, error) {
		return []byte("temp=52.1'C\n"), nil
	})

	got, err := NewVcgencmd().TemperatureC()
	if err != nil {
		t.Fatalf("TemperatureC: %v", err)
	}
	if got != 52.1 {
		t.Fatalf("TemperatureC = %v, want 52.1", got)
	}
}

func TestVcgencmdCommandFailure(t *testing.T) {
	swapRunCommand(t, func(string, ...string) ([]byte, error) {
		return nil, errors.New("exec: not found")
	})

	if _, err := NewVcgencmd().FrequencyMHz(); err == nil {
		t.Fatalf("expected error when command fails")
	}
	if _, err := NewVcgencmd().TemperatureC(); err == nil {
		t.Fatalf("expected error when command fails")
	}
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"frequency(48)=1500398464", 1500.398464, false},
		{"frequency(48)=600000000\n", 600, false},
		{"garbage", 0, true},
		{"frequency(48)=notanumber", 0, true},
	}
	for _, tc := range cases {
		got, err := parseClock(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("parseClock(%q) expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("parseClock(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("parseClock(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseTemp(t *testing.T) {
	cases := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"temp=52.1'C", 52.1, false},
		{"temp=40.0'C\n", 40, false},
		{"no equals sign", 0, true},
		{"temp=hot'C", 0, true},
	}
	for _, tc := range cases {
		got, err := parseTemp(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("parseTemp(%q) expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("parseTemp(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("parseTemp(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestDetectReturnsAProbe(t *testing.T) {
	probe := Detect()
	if probe == nil {
		t.Fatalf("Detect returned nil")
	}
	name := probe.Name()
	if name != "vcgencmd" && name != "sysfs" {
		t.Fatalf("unexpected probe %q", name)
	}
}
