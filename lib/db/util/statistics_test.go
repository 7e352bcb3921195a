package util

import "testing"

func TestSizeHistogramEmpty(t *testing.T) {
	h := NewSizeHistogram()
	if h.Count() != 0 || h.AverageSize() != 0 || h.Percentile(50) != 0 {
		t.Errorf("Empty histogram should report zeros, got %+v", h.Snapshot())
	}
}

func TestSizeHistogramPercentiles(t *testing.T) {
	h := NewSizeHistogram()

	// 90 small samples and 10 large ones
	for i := 0; i < 90; i++ {
		h.AddSample(10)
	}
	for i := 0; i < 10; i++ {
		h.AddSample(100_000)
	}

	if h.Count() != 100 {
		t.Fatalf("Expected 100 samples, got %d", h.Count())
	}
	if p50 := h.Percentile(50); p50 != 32 {
		t.Errorf("Expected p50 in first bucket (32), got %d", p50)
	}
	if p99 := h.Percentile(99); p99 < 65536 || p99 > 262144 {
		t.Errorf("Expected p99 in the 64K-256K bucket, got %d", p99)
	}
	if avg := h.AverageSize(); avg != (90*10+10*100_000)/100 {
		t.Errorf("Unexpected average %d", avg)
	}
}

func TestSizeHistogramOverflowBucket(t *testing.T) {
	h := NewSizeHistogram()
	h.AddSample(1 << 30)

	if got := h.Percentile(100); got != 1<<30 {
		t.Errorf("Overflow bucket should report the max sample, got %d", got)
	}
	if s := h.Snapshot(); s.Max != 1<<30 {
		t.Errorf("Snapshot max should be 1GiB, got %d", s.Max)
	}
}
