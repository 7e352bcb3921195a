package kv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ValentinKolb/fcache/cmd/util"
	"github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for fcache",
		PreRunE: processPerfConfig,
		RunE: withCache(func(_ *cobra.Command, c *StringCache, _ []string) error {
			return runPerf(c)
		}),
	}
	perfKeyPrefix        = "__perf"
	perfLargeValueSizeKB = 64
	perfNumThreads       = 10
	perfKeySpread        = 100
	perfOps              = 10_000
	perfSkip             = make([]string, 0)

	// perfTests is the order in which the tests run
	perfTests = []string{"put", "put-large", "get", "has", "has-not", "put-if-absent", "delete", "mixed"}
)

func init() {
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. put,get)"))
	key = "threads"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("Number of goroutines to use for the benchmark"))
	key = "large-value-size"
	perfTestCmd.Flags().Int(key, 64, util.WrapString("How large the value for the put-large test should be (in KB)"))
	key = "keys"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How many different keys to use for the tests"))
	key = "ops"
	perfTestCmd.Flags().Int(key, 10_000, util.WrapString("How many operations every test runs"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	perfLargeValueSizeKB = viper.GetInt("large-value-size")
	perfKeySpread = max(viper.GetInt("keys"), 1)
	perfNumThreads = max(viper.GetInt("threads"), 1)
	perfOps = max(viper.GetInt("ops"), 1)
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	return nil
}

func runPerf(c *StringCache) error {
	fmt.Println("Performance testing tool for fcache")

	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(c.Config().String())
	fmt.Printf("Directory: %s\nThreads: %d\nOperations per test: %d\n", c.Dir(), perfNumThreads, perfOps)
	fmt.Println()

	fmt.Println("starting tests...")

	registry := metrics.NewRegistry()
	largeValue := strings.Repeat("x", perfLargeValueSizeKB*1024)

	ops := map[string]func(c *StringCache, key string, i int) error{
		"put": func(c *StringCache, key string, _ int) error {
			return c.Put(key, "test")
		},
		"put-large": func(c *StringCache, key string, _ int) error {
			return c.Put(key, largeValue)
		},
		"get": func(c *StringCache, key string, _ int) error {
			_, _, err := c.Get(key)
			return err
		},
		"has": func(c *StringCache, key string, _ int) error {
			_, err := c.ContainsKey(key)
			return err
		},
		"has-not": func(c *StringCache, key string, _ int) error {
			_, err := c.ContainsKey(key + "-missing")
			return err
		},
		"put-if-absent": func(c *StringCache, key string, _ int) error {
			_, _, err := c.PutIfAbsent(key, "test")
			return err
		},
		"delete": func(c *StringCache, key string, _ int) error {
			return c.Remove(key)
		},
		"mixed": func(c *StringCache, key string, i int) error {
			switch i % 4 {
			case 0:
				return c.Put(key, "test")
			case 1:
				_, err := c.ContainsKey(key)
				return err
			case 2:
				return c.Remove(key)
			default:
				_, _, err := c.Get(key)
				return err
			}
		},
	}

	for _, test := range perfTests {
		if shouldSkip(test) {
			fmt.Printf("%-20sskipped\n", test)
			continue
		}

		getKey, iter := getKeys(test)
		// reads need something to read
		if test == "get" || test == "has" {
			iter(func(k string) { _ = c.Put(k, "test") })
		}

		timer := metrics.NewTimer()
		if err := registry.Register(test, timer); err != nil {
			return err
		}
		errCount := runParallel(c, timer, getKey, ops[test])

		iter(func(k string) {
			if err := c.Remove(k); err != nil {
				fmt.Fprintf(os.Stderr, "(%s) - error deleting key: %v\n", test, err)
			}
		})

		printResult(test, timer.Snapshot(), errCount)
	}

	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, registry); err != nil {
			return err
		}
	}
	return nil
}

// runParallel spreads perfOps calls of op over perfNumThreads goroutines and
// returns the number of failed calls
func runParallel(c *StringCache, timer metrics.Timer, getKey func(int) string, op func(*StringCache, string, int) error) int64 {
	var (
		wg     sync.WaitGroup
		errs   = metrics.NewCounter()
		perJob = perfOps / perfNumThreads
	)
	for t := 0; t < perfNumThreads; t++ {
		n := perJob
		if t == 0 {
			n += perfOps % perfNumThreads
		}
		wg.Add(1)
		go func(offset, n int) {
			defer wg.Done()
			for i := 0; i < n; i++ {
				key := getKey(offset + i)
				start := time.Now()
				if err := op(c, key, i); err != nil {
					errs.Inc(1)
				}
				timer.UpdateSince(start)
			}
		}(t*perJob, n)
	}
	wg.Wait()
	return errs.Count()
}

func shouldSkip(test string) bool {
	for _, skip := range perfSkip {
		if test == strings.TrimSpace(skip) {
			return true
		}
	}
	return false
}

// creates an array of test keys and functions to work with them
func getKeys(prefix string) (func(int) string, func(func(string))) {
	keys := make([]string, perfKeySpread)
	for i := 0; i < perfKeySpread; i++ {
		keys[i] = fmt.Sprintf("%s-%s-%d", perfKeyPrefix, prefix, i)
	}

	// Function to get a key by index (with wraparound)
	getKey := func(i int) string {
		return keys[i%perfKeySpread]
	}

	// Function to iterate over all keys and apply a function to each
	iterateKeys := func(fn func(string)) {
		for _, key := range keys {
			fn(key)
		}
	}

	return getKey, iterateKeys
}

// printResult prints the result of a test in a formatted way
func printResult(test string, t metrics.Timer, errCount int64) {
	ps := t.Percentiles([]float64{0.5, 0.99})
	fmt.Printf("%-20s%10s/op mean  %10s p50  %10s p99  %12.0f ops/sec",
		test,
		time.Duration(t.Mean()),
		time.Duration(ps[0]),
		time.Duration(ps[1]),
		t.RateMean(),
	)
	if errCount > 0 {
		fmt.Printf("  (%d errors)", errCount)
	}
	fmt.Println()
}

// writeResultsToCSV writes the timers of the registry to a CSV file
func writeResultsToCSV(csvPath string, registry metrics.Registry) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"Test", "Count", "MeanNs", "P50Ns", "P99Ns", "MaxNs", "OpsPerSec", "Threads", "LargeValueSizeKB", "Keys Count"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	var writeErr error
	for _, test := range perfTests {
		timer, ok := registry.Get(test).(metrics.Timer)
		if !ok {
			continue
		}
		t := timer.Snapshot()
		ps := t.Percentiles([]float64{0.5, 0.99})
		row := []string{
			test,
			strconv.FormatInt(t.Count(), 10),
			strconv.FormatFloat(t.Mean(), 'f', 0, 64),
			strconv.FormatFloat(ps[0], 'f', 0, 64),
			strconv.FormatFloat(ps[1], 'f', 0, 64),
			strconv.FormatInt(t.Max(), 10),
			strconv.FormatFloat(t.RateMean(), 'f', 2, 64),
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfLargeValueSizeKB),
			strconv.Itoa(perfKeySpread),
		}
		if err := writer.Write(row); err != nil && writeErr == nil {
			writeErr = fmt.Errorf("failed to write CSV row: %v", err)
		}
	}
	return writeErr
}
