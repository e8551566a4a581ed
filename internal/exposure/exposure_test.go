package exposure

import (
	"aperturelab/internal/model"
	"errors"
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSnapIsIdempotentOnStops(t *testing.T) {
	for _, stops := range [][]float64{ISOStops, FStops, ShutterStops} {
		for _, s := range stops {
			if got := Snap(s, stops); got != s {
				t.Errorf("Snap(%v): got %v, want %v", s, got, s)
			}
		}
	}
}

func TestSnapNearest(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		stops []float64
		want  float64
	}{
		{"iso between", 1100, ISOStops, 800},
		{"iso above max", 9000, ISOStops, 6400},
		{"aperture", 3.1, FStops, 2.8},
		{"shutter", 100, ShutterStops, 125},
		{"tie keeps first", 150, ISOStops, 100},
		{"empty list", 42, nil, 42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Snap(tt.value, tt.stops); got != tt.want {
				t.Errorf("Snap(%v): got %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestBrightness(t *testing.T) {
	if got := Brightness(100); !almostEqual(got, 1.0) {
		t.Errorf("Brightness(100): got %v, want 1.0", got)
	}
	if got := Brightness(6400); !almostEqual(got, 2.5) {
		t.Errorf("Brightness(6400): got %v, want 2.5", got)
	}
	if got := Brightness(50); !almostEqual(got, 1.0) {
		t.Errorf("Brightness(50) should clamp: got %v", got)
	}
	if Brightness(100) >= Brightness(6400) {
		t.Error("brightness should increase with ISO")
	}
}

func TestNoise(t *testing.T) {
	tests := []struct {
		iso  float64
		want float64
	}{
		{100, 0},
		{800, 0},
		{1600, 1500.0 / 6300.0},
		{6400, 1},
		{12800, 1},
	}
	for _, tt := range tests {
		if got := Noise(tt.iso); !almostEqual(got, tt.want) {
			t.Errorf("Noise(%v): got %v, want %v", tt.iso, got, tt.want)
		}
	}
}

func TestApertureBlur(t *testing.T) {
	if got := ApertureBlur(1.4); !almostEqual(got, 8) {
		t.Errorf("ApertureBlur(1.4): got %v, want 8", got)
	}
	if got := ApertureBlur(22); !almostEqual(got, 0) {
		t.Errorf("ApertureBlur(22): got %v, want 0", got)
	}
	if got := ApertureBlur(32); got < 0 {
		t.Errorf("ApertureBlur(32) negative: %v", got)
	}
	if ApertureBlur(1.4) <= ApertureBlur(22) {
		t.Error("wide aperture should blur more than narrow")
	}
}

func TestShutterEffects(t *testing.T) {
	if got := MotionBlur(2); !almostEqual(got, MaxMotionBlur) {
		t.Errorf("MotionBlur(2): got %v, want %v", got, MaxMotionBlur)
	}
	if got := MotionBlur(4000); !almostEqual(got, MinMotionBlur) {
		t.Errorf("MotionBlur(4000): got %v, want %v", got, MinMotionBlur)
	}
	if got := MotionOpacity(2); !almostEqual(got, MaxMotionOpacity) {
		t.Errorf("MotionOpacity(2): got %v, want %v", got, MaxMotionOpacity)
	}
	if got := MotionOpacity(4000); !almostEqual(got, MinMotionOpacity) {
		t.Errorf("MotionOpacity(4000): got %v, want %v", got, MinMotionOpacity)
	}
	if MotionBlur(15) <= MotionBlur(4000) {
		t.Error("slow shutter should blur more than fast")
	}
}

func TestLabels(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"noise low", NoiseLabel(200), "Low Noise"},
		{"noise moderate", NoiseLabel(800), "Moderate Noise"},
		{"noise high", NoiseLabel(1600), "High Noise"},
		{"depth shallow", DepthLabel(2.8), "Shallow Depth of Field"},
		{"depth deep", DepthLabel(8), "Deep Depth of Field"},
		{"motion blur", MotionLabel(30), "Motion Blur"},
		{"some motion", MotionLabel(125), "Some Motion"},
		{"frozen", MotionLabel(250), "Frozen Action"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestDescribe(t *testing.T) {
	e := Describe(model.Settings{ISO: 1500, Aperture: 3.1, ShutterSpeed: 100})

	want := model.Settings{ISO: 1600, Aperture: 2.8, ShutterSpeed: 125}
	if e.Snapped != want {
		t.Errorf("snapped: got %+v, want %+v", e.Snapped, want)
	}
	if e.Labels.ISO != "1600" || e.Labels.Aperture != "f/2.8" || e.Labels.ShutterSpeed != "1/125" {
		t.Errorf("labels: got %+v", e.Labels)
	}
	if e.Filter != Filter(e.Brightness, e.ApertureBlur) {
		t.Errorf("filter: got %q", e.Filter)
	}
	if got := Filter(1, 8); got != "brightness(1) blur(8px)" {
		t.Errorf("Filter(1, 8): got %q", got)
	}
}

func TestParseSetting(t *testing.T) {
	quizISO := model.SettingRange{Min: 100, Max: 2100, Step: 20}
	aperture := model.SettingRange{Min: 1.4, Max: 22, Step: 0.1}

	tests := []struct {
		name    string
		raw     string
		r       model.SettingRange
		want    float64
		wantErr bool
	}{
		{"plain", "400", quizISO, 400, false},
		{"quantised", "409", quizISO, 400, false},
		{"clamped high", "99999", quizISO, 2100, false},
		{"clamped low", "-5", quizISO, 100, false},
		{"aperture step", " 2.84 ", aperture, 2.8, false},
		{"garbage", "abc", quizISO, 0, true},
		{"empty", "", quizISO, 0, true},
		{"nan", "NaN", quizISO, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSetting(tt.raw, tt.r)
			if tt.wantErr {
				if !errors.Is(err, ErrNotNumeric) {
					t.Fatalf("ParseSetting(%q): got err %v, want ErrNotNumeric", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSetting(%q): %v", tt.raw, err)
			}
			if !almostEqual(got, tt.want) {
				t.Errorf("ParseSetting(%q): got %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}
