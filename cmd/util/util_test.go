package util

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestWrapString(t *testing.T) {
	text := strings.Repeat("word ", 30)
	for _, line := range strings.Split(WrapString(text), "\n") {
		if len(line) > Wrap {
			t.Errorf("line longer than %d characters: %q", Wrap, line)
		}
	}
	if got := WrapString("short text"); got != "short text" {
		t.Errorf("WrapString changed a short text: %q", got)
	}
}

func TestGetCacheDir(t *testing.T) {
	defer viper.Reset()

	viper.Set("dir", "/tmp/somewhere")
	dir, err := GetCacheDir()
	if err != nil || dir != "/tmp/somewhere" {
		t.Fatalf("GetCacheDir() = %q, %v", dir, err)
	}

	viper.Set("id", "abc")
	if _, err := GetCacheDir(); err == nil {
		t.Error("expected an error when --dir and --id are both set")
	}

	viper.Set("dir", "")
	dir, err = GetCacheDir()
	if err != nil || !strings.HasSuffix(dir, "fc_abc") {
		t.Fatalf("GetCacheDir() = %q, %v", dir, err)
	}

	viper.Set("id", "../escape")
	if _, err := GetCacheDir(); err == nil {
		t.Error("expected an error for an invalid id")
	}
}

func TestGetCacheConfig(t *testing.T) {
	defer viper.Reset()

	viper.Set("max-heap-entries", 10)
	viper.Set("max-disk-bytes", int64(4096))
	viper.Set("ttl", time.Minute)
	viper.Set("sync", false)
	viper.Set("lock-timeout", time.Second)

	cfg := GetCacheConfig()
	if cfg.MaxHeapEntries != 10 || cfg.MaxDiskBytes != 4096 || cfg.TimeToLive != time.Minute || cfg.SyncWrites {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config should be valid: %v", err)
	}
}
