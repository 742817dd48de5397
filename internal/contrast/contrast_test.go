package contrast

import (
	"errors"
	"math"
	"strings"
	"testing"
)

const epsilon = 1e-9

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want RGB
	}{
		{"#ffffff", RGB{255, 255, 255}},
		{"#000000", RGB{0, 0, 0}},
		{"#1E90FF", RGB{0x1e, 0x90, 0xff}},
		{"#fff", RGB{255, 255, 255}},
		{"#abc", RGB{0xaa, 0xbb, 0xcc}},
		{" rgb(10, 20, 30) ", RGB{10, 20, 30}},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if err != nil {
			t.Errorf("ParseColor(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestParseColor_Invalid(t *testing.T) {
	for _, in := range []string{"rgba(0,0,0,0.5)", "red", "#12345", "#gggggg", "rgb(300, 0, 0)", "hsl(0, 0%, 0%)", ""} {
		if _, err := ParseColor(in); !errors.Is(err, ErrInvalidColor) {
			t.Errorf("ParseColor(%q) error = %v, want ErrInvalidColor", in, err)
		}
	}
}

func TestLuminance_Bounds(t *testing.T) {
	if got := Luminance(RGB{0, 0, 0}); got != 0 {
		t.Errorf("Luminance(black) = %v, want 0", got)
	}
	if got := Luminance(RGB{255, 255, 255}); math.Abs(got-1) > epsilon {
		t.Errorf("Luminance(white) = %v, want 1", got)
	}
	// Low channel values use the linear segment.
	got := Luminance(RGB{10, 0, 0})
	want := 0.2126 * (10.0 / 255 / 12.92)
	if math.Abs(got-want) > epsilon {
		t.Errorf("Luminance(#0a0000) = %v, want %v", got, want)
	}
}

func TestRatio_WhiteBlack(t *testing.T) {
	got, err := RatioHex("#FFFFFF", "#000000")
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-21) > 1e-6 {
		t.Errorf("ratio(white, black) = %v, want 21", got)
	}
}

func TestRatio_SymmetryAndIdentity(t *testing.T) {
	colors := []string{"#000000", "#ffffff", "#767676", "#1e90ff", "#ff0000", "#00ff00", "#123456", "#fedcba", "#777777"}
	for _, a := range colors {
		self, err := RatioHex(a, a)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(self-1) > epsilon {
			t.Errorf("ratio(%s, %s) = %v, want 1", a, a, self)
		}
		for _, b := range colors {
			ab, _ := RatioHex(a, b)
			ba, _ := RatioHex(b, a)
			if ab != ba {
				t.Errorf("ratio(%s,%s)=%v != ratio(%s,%s)=%v", a, b, ab, b, a, ba)
			}
			if ab < 1 {
				t.Errorf("ratio(%s,%s) = %v < 1", a, b, ab)
			}
		}
	}
}

func TestRatio_MonotonicInLuminanceDifference(t *testing.T) {
	white := RGB{255, 255, 255}
	prev := 0.0
	for v := 255; v >= 0; v -= 15 {
		r := Ratio(RGB{uint8(v), uint8(v), uint8(v)}, white)
		if r < prev {
			t.Fatalf("ratio decreased at gray %d: %v < %v", v, r, prev)
		}
		prev = r
	}
}

func TestCheck_LargeTextCarveOut(t *testing.T) {
	// #949494 on white is about 3.03:1: fails normal text, passes large text.
	pair := ColorPair{Foreground: "#949494", Background: "#ffffff"}

	tests := []struct {
		name      string
		style     TextStyle
		wantPass  bool
		wantLarge bool
		wantReq   float64
	}{
		{"normal text", TextStyle{SizePt: 12}, false, false, 4.5},
		{"18pt", TextStyle{SizePt: 18}, true, true, 3.0},
		{"14pt bold", TextStyle{SizePt: 14, Bold: true}, true, true, 3.0},
		{"14pt regular", TextStyle{SizePt: 14}, false, false, 4.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Check(pair, tt.style)
			if err != nil {
				t.Fatal(err)
			}
			if res.Passes != tt.wantPass || res.IsLargeText != tt.wantLarge || res.RequiredRatio != tt.wantReq {
				t.Errorf("Check = %+v, want passes=%v large=%v required=%v", res, tt.wantPass, tt.wantLarge, tt.wantReq)
			}
		})
	}
}

func TestCheck_InvalidColorIsError(t *testing.T) {
	_, err := Check(ColorPair{Foreground: "rgba(0,0,0,0.4)", Background: "#fff"}, TextStyle{})
	if !errors.Is(err, ErrInvalidColor) {
		t.Errorf("error = %v, want ErrInvalidColor", err)
	}
}

func TestSuggestFix(t *testing.T) {
	tests := []struct {
		name          string
		fg, bg        string
		wantSuggested string
		wantImproved  bool
		wantMeets     bool
	}{
		// 0x80 * 0.8 = 102.4 -> 0x66, about 5.74:1 on white.
		{"meets target", "#808080", "#ffffff", "#666666", true, true},
		// 0x99 * 0.8 = 122.4 -> 0x7a, about 4.29:1: better but still short.
		{"manual adjustment required", "#999999", "#ffffff", "#7a7a7a", true, false},
		// Darkening on a black background lowers contrast.
		{"dark background", "#444444", "#000000", "#363636", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fix, err := SuggestFix(tt.fg, tt.bg, RatioNormalText)
			if err != nil {
				t.Fatal(err)
			}
			if fix.Suggested != tt.wantSuggested {
				t.Errorf("Suggested = %s, want %s", fix.Suggested, tt.wantSuggested)
			}
			if fix.Improved != tt.wantImproved || fix.MeetsTarget != tt.wantMeets {
				t.Errorf("fix = %+v, want improved=%v meets=%v", fix, tt.wantImproved, tt.wantMeets)
			}
		})
	}
}

func TestSuggestFix_InvalidColor(t *testing.T) {
	if _, err := SuggestFix("tomato", "#fff", RatioNormalText); !errors.Is(err, ErrInvalidColor) {
		t.Errorf("error = %v, want ErrInvalidColor", err)
	}
}

func TestDescribe(t *testing.T) {
	text, res, err := Describe(ColorPair{Foreground: "#999999", Background: "#ffffff"}, TextStyle{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Passes {
		t.Fatalf("expected #999999 on white to fail, got %+v", res)
	}
	for _, want := range []string{"2.85:1", "FAIL", "Suggested foreground: #7a7a7a"} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in %q", want, text)
		}
	}

	text, res, err = Describe(ColorPair{Foreground: "#000", Background: "#fff"}, TextStyle{SizePt: 14, Bold: true})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Passes || !res.IsLargeText || !strings.Contains(text, "Large text") || strings.Contains(text, "Suggested") {
		t.Errorf("unexpected result %+v: %q", res, text)
	}

	if _, _, err := Describe(ColorPair{Foreground: "red", Background: "#fff"}, TextStyle{}); !errors.Is(err, ErrInvalidColor) {
		t.Errorf("err = %v, want ErrInvalidColor", err)
	}
}
