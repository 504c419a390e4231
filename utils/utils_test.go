package utils

import (
	"testing"
	"time"
)

func TestUtils_ShouldBeValidUrl(t *testing.T) {
	ok := IsValidUrl("https://github.com/denesv/vectra/")
	if !ok {
		t.Errorf("A valid URL should have been provided")
	}

	if IsValidUrl("testdata/sample.png") {
		t.Errorf("A local path should not be detected as a URL")
	}
}

func TestUtils_FormatTime(t *testing.T) {
	if got := FormatTime(1500 * time.Millisecond); got != "1.50s" {
		t.Errorf("unexpected formatted duration: %q", got)
	}
	if got := FormatTime(90 * time.Second); got != "1m 30.00s" {
		t.Errorf("unexpected formatted duration: %q", got)
	}
}

func TestUtils_MathHelpers(t *testing.T) {
	if Min(3, 7) != 3 || Min(7, 3) != 3 {
		t.Error("Min should return the smaller value")
	}
	if Max(3, 7) != 7 || Max(7, 3) != 7 {
		t.Error("Max should return the bigger value")
	}
	if Abs(-4.5) != 4.5 || Abs(4.5) != 4.5 {
		t.Error("Abs should return the absolute value")
	}
	if Clamp(120, 10, 255) != 120 || Clamp(5, 10, 255) != 10 || Clamp(300, 10, 255) != 255 {
		t.Error("Clamp should restrict the value to the interval")
	}
}
