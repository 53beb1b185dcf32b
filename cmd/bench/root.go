package bench

import (
	"encoding/csv"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ValentinKolb/oKV/cmd/util"
	"github.com/ValentinKolb/oKV/lib/store"
	"github.com/ValentinKolb/oKV/lib/store/lstore"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// BenchCmd represents the engine benchmark command
	BenchCmd = &cobra.Command{
		Use:     "bench",
		Short:   "Micro-benchmarks for the store engine",
		Long:    "Runs a series of micro-benchmarks (set, get, delete, mixed, ...) against a freshly created store per test and prints per-operation timings.",
		RunE:    run,
		PreRunE: processBenchConfig,
	}

	benchKeyPrefix        = "__bench"
	benchLargeValueSizeKB = 100
	benchValueSize        = 64
	benchKeySpread        = 10000
	benchSkip             = make([]string, 0)

	benchFactory store.DBFactory
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// add flags
	key := "skip"
	BenchCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. set,get)"))
	key = "keys"
	BenchCmd.Flags().Int(key, 10000, util.WrapString("How many different keys to use for the tests"))
	key = "value-size"
	BenchCmd.Flags().Int(key, 64, util.WrapString("Size of the values in bytes"))
	key = "large-value-size"
	BenchCmd.Flags().Int(key, 100, util.WrapString("How large the value for the set-large test should be (in KB)"))
	key = "csv"
	BenchCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processBenchConfig(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	benchLargeValueSizeKB = viper.GetInt("large-value-size")
	benchValueSize = viper.GetInt("value-size")
	benchKeySpread = viper.GetInt("keys")
	benchSkip = strings.Split(viper.GetString("skip"), ",")

	var err error
	benchFactory, err = util.GetStoreFactory()
	return err
}

func run(_ *cobra.Command, _ []string) error {

	fmt.Println("Micro-benchmark tool for the oKV store engine")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Printf("Keys: %d\n", benchKeySpread)
	fmt.Printf("Value size: %dB\n", benchValueSize)
	fmt.Printf("Large value size: %dKB\n", benchLargeValueSizeKB)
	fmt.Println()

	fmt.Println("starting tests...")

	// Create results map
	results := make(map[string]testing.BenchmarkResult)

	value := make([]byte, benchValueSize)

	setResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("set") {
			return
		}

		st := lstore.NewLocalStore(benchFactory)
		defer st.Close()

		getKey, _ := getKeys("set")

		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			if err := st.Put(getKey(i), value); err != nil {
				log.Printf("(set) - error setting key: %v\n", err)
			}
		}
	})

	results["set"] = setResult
	printResult("set", setResult)

	setLargeResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("set-large") {
			return
		}

		st := lstore.NewLocalStore(benchFactory)
		defer st.Close()

		largeValue := make([]byte, benchLargeValueSizeKB*1024)
		getKey, _ := getKeys("set-large")

		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			if err := st.Put(getKey(i), largeValue); err != nil {
				log.Printf("(set-large) - error setting key: %v\n", err)
			}
		}
	})

	results["set-large"] = setLargeResult
	printResult("set-large", setLargeResult)

	getResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("get") {
			return
		}

		st := lstore.NewLocalStore(benchFactory)
		defer st.Close()

		getKey, iter := getKeys("get")

		// seed keys
		iter(func(k []byte) {
			if err := st.Put(k, value); err != nil {
				log.Printf("(get) - error setting key: %v\n", err)
			}
		})

		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			if _, _, err := st.Get(getKey(i)); err != nil {
				log.Printf("(get) - error getting key: %v\n", err)
			}
		}
	})

	results["get"] = getResult
	printResult("get", getResult)

	deleteResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("delete") {
			return
		}

		st := lstore.NewLocalStore(benchFactory)
		defer st.Close()

		getKey, iter := getKeys("delete")

		b.ResetTimer()

		// re-seed in batches so there is always something to delete
		for i := 0; i < b.N; i++ {
			if i%benchKeySpread == 0 {
				b.StopTimer()
				iter(func(k []byte) {
					if err := st.Put(k, value); err != nil {
						log.Printf("(delete) - error setting key: %v\n", err)
					}
				})
				b.StartTimer()
			}
			if _, err := st.Delete(getKey(i)); err != nil {
				log.Printf("(delete) - error deleting key: %v\n", err)
			}
		}
	})

	results["delete"] = deleteResult
	printResult("delete", deleteResult)

	hasResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("has") {
			return
		}

		st := lstore.NewLocalStore(benchFactory)
		defer st.Close()

		getKey, iter := getKeys("has")

		// seed keys
		iter(func(k []byte) {
			if err := st.Put(k, value); err != nil {
				log.Printf("(has) - error setting key: %v\n", err)
			}
		})

		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			if _, err := st.Has(getKey(i)); err != nil {
				log.Printf("(has) - error checking key: %v\n", err)
			}
		}
	})

	results["has"] = hasResult
	printResult("has", hasResult)

	hasNotResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("has-not") {
			return
		}

		st := lstore.NewLocalStore(benchFactory)
		defer st.Close()

		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			key := []byte(fmt.Sprintf("%s/has-not-%d", benchKeyPrefix, i%benchKeySpread))
			if _, err := st.Has(key); err != nil {
				log.Printf("(has-not) - error checking key: %v\n", err)
			}
		}
	})

	results["has-not"] = hasNotResult
	printResult("has-not", hasNotResult)

	mixedResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("mixed") {
			return
		}

		st := lstore.NewLocalStore(benchFactory)
		defer st.Close()

		getKey, _ := getKeys("mixed")

		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			key := getKey(i)
			var err error
			switch i % 4 {
			case 0: // set
				err = st.Put(key, value)
			case 1: // get
				_, _, err = st.Get(key)
			case 2: // delete
				_, err = st.Delete(key)
			case 3: // has
				_, err = st.Has(key)
			}
			if err != nil {
				log.Printf("(mixed) - error performing operation (%d): %v\n", i%4, err)
			}
		}
	})

	results["mixed"] = mixedResult
	printResult("mixed", mixedResult)

	// Write results to csv if specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	// Check if the test is in the skip list
	for _, skip := range benchSkip {
		if test == skip {
			return true
		}
	}
	return false
}

// creates an array of test keys and functions to work with them
func getKeys(prefix string) (func(int) []byte, func(func([]byte))) {
	keys := make([][]byte, benchKeySpread)
	for i := 0; i < benchKeySpread; i++ {
		keys[i] = []byte(fmt.Sprintf("%s-%s-%d", benchKeyPrefix, prefix, i))
	}

	// Function to get a key by index (with wraparound)
	getKey := func(i int) []byte {
		return keys[i%benchKeySpread]
	}

	// Function to iterate over all keys and apply a function to each
	iterateKeys := func(fn func([]byte)) {
		for _, key := range keys {
			fn(key)
		}
	}

	return getKey, iterateKeys
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, result testing.BenchmarkResult) {
	if result.NsPerOp() == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	nsPerOp := math.Max(float64(result.NsPerOp()), 1) // prevent division by zero
	opsPerSec := 1.0 / (nsPerOp / 1e9)

	// Print the formatted result
	fmt.Printf("%-20s%.0fns/op (%s/op)\t%.0f ops/sec\n", test, nsPerOp, time.Duration(nsPerOp), opsPerSec)
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results map[string]testing.BenchmarkResult) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{
		"Test", "NsPerOp", "DurationPerOp", "OpsPerSec", "Skipped",
		"Hasher", "InitialCapacity", "MaxCapacity", "ShrinkOnDelete",
		"ValueSize", "LargeValueSizeKB", "KeysCount",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Write test results
	for test, result := range results {
		var nsPerOp float64
		var opsPerSec float64
		var skipped string

		if result.NsPerOp() == 0 {
			skipped = "true"
			nsPerOp = 0
			opsPerSec = 0
		} else {
			skipped = "false"
			nsPerOp = math.Max(float64(result.NsPerOp()), 1)
			opsPerSec = 1.0 / (nsPerOp / 1e9)
		}

		row := []string{
			test,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", opsPerSec),
			skipped,
			viper.GetString("hasher"),
			strconv.Itoa(viper.GetInt("initial-capacity")),
			strconv.Itoa(viper.GetInt("max-capacity")),
			strconv.FormatBool(viper.GetBool("shrink-on-delete")),
			strconv.Itoa(benchValueSize),
			strconv.Itoa(benchLargeValueSizeKB),
			strconv.Itoa(benchKeySpread),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", test, err)
		}
	}

	return nil
}
