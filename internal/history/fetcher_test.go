package history

import "testing"

func TestDownsample(t *testing.T) {
	clocks := make([]int64, 1000)
	values := make([]float64, 1000)
	for i := range values {
		clocks[i] = int64(i)
		values[i] = float64(i)
	}

	outClocks, outValues := Downsample(clocks, values, 500)
	if len(outValues) > 500 {
		t.Fatalf("downsampled to %d points, want <= 500", len(outValues))
	}
	if len(outClocks) != len(outValues) {
		t.Fatalf("clocks and values diverged: %d vs %d", len(outClocks), len(outValues))
	}
	if outValues[0] != 0 {
		t.Errorf("first point = %v, want 0", outValues[0])
	}
	for i := range outClocks {
		if int64(outValues[i]) != outClocks[i] {
			t.Fatalf("point %d misaligned: clock %d value %v", i, outClocks[i], outValues[i])
		}
	}
}

func TestDownsampleShortSeries(t *testing.T) {
	clocks := []int64{1, 2, 3}
	values := []float64{1, 2, 3}

	outClocks, outValues := Downsample(clocks, values, 500)
	if len(outClocks) != 3 || len(outValues) != 3 {
		t.Fatalf("short series changed length: %d/%d", len(outClocks), len(outValues))
	}
}

func TestFormatValue(t *testing.T) {
	cases := []struct {
		value float64
		units string
		want  string
	}{
		{93.456, "%", "93.46%"},
		{512, "B", "512.00 B"},
		{2048, "B", "2.00 KB"},
		{3 * 1024 * 1024, "B", "3.00 MB"},
		{1.5, "s", "1.50 s"},
		{7, "", "7"},
	}

	for _, tc := range cases {
		if got := FormatValue(tc.value, tc.units); got != tc.want {
			t.Errorf("FormatValue(%v, %q) = %q, want %q", tc.value, tc.units, got, tc.want)
		}
	}
}
