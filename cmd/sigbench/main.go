// sigbench - signature throughput runner
//
// Runs the valid signature corpus through each parsing mode:
//   - Validate (no tree)
//   - Parse (fresh tree per call)
//   - Cached parse, single goroutine and one goroutine per CPU
//
// Output: CSV and markdown summary
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/Neumenon/dbussig/sig"
	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"
)

const rounds = 2000

type ModeResult struct {
	Name     string
	Calls    int
	Bytes    int
	Elapsed  time.Duration
	NsPerOp  float64
	BytesSec float64
}

type mode struct {
	name string
	// workers is how many times each round walks the corpus; 0 means once.
	workers int
	run     func(corpus []string) error
}

func main() {
	corpusPath := findCorpus()
	if corpusPath == "" {
		fmt.Fprintln(os.Stderr, "Cannot find sig/testdata/valid.txt")
		os.Exit(1)
	}

	corpus, err := readCorpus(corpusPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot read corpus: %v\n", err)
		os.Exit(1)
	}
	corpusBytes := 0
	for _, s := range corpus {
		corpusBytes += len(s)
	}

	fmt.Fprintf(os.Stderr, "Signature Benchmark Runner\n")
	fmt.Fprintf(os.Stderr, "==========================\n")
	fmt.Fprintf(os.Stderr, "Corpus: %s (%d signatures, %s)\n\n", corpusPath, len(corpus), humanize.Bytes(uint64(corpusBytes)))

	cache, err := sig.NewCache(len(corpus))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot create cache: %v\n", err)
		os.Exit(1)
	}
	workers := runtime.GOMAXPROCS(0)

	modes := []mode{
		{"validate", 0, func(corpus []string) error {
			for _, s := range corpus {
				if err := sig.Validate(s); err != nil {
					return err
				}
			}
			return nil
		}},
		{"parse", 0, func(corpus []string) error {
			for _, s := range corpus {
				if _, err := sig.Parse(s); err != nil {
					return err
				}
			}
			return nil
		}},
		{"cached", 0, func(corpus []string) error {
			for _, s := range corpus {
				if _, err := cache.Parse(s); err != nil {
					return err
				}
			}
			return nil
		}},
		{fmt.Sprintf("cached x%d", workers), workers, func(corpus []string) error {
			var g errgroup.Group
			for w := 0; w < workers; w++ {
				g.Go(func() error {
					for _, s := range corpus {
						if _, err := cache.Parse(s); err != nil {
							return err
						}
					}
					return nil
				})
			}
			return g.Wait()
		}},
	}

	var results []ModeResult
	for _, m := range modes {
		r, err := measure(m, corpus, rounds)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Skip %s: %v\n", m.name, err)
			continue
		}
		results = append(results, r)
	}

	csvPath := "sigbench_results.csv"
	csvFile, err := os.Create(csvPath)
	if err == nil {
		writeCSV(csvFile, results)
		csvFile.Close()
		fmt.Fprintf(os.Stderr, "CSV written to: %s\n", csvPath)
	}

	mdPath := "SIGBENCH.md"
	mdFile, err := os.Create(mdPath)
	if err == nil {
		writeMarkdown(mdFile, results, len(corpus))
		mdFile.Close()
		fmt.Fprintf(os.Stderr, "Markdown written to: %s\n", mdPath)
	}

	fmt.Printf("\n=== SUMMARY ===\n")
	for _, r := range results {
		fmt.Printf("%-12s %10s calls  %8.1f ns/op  %s/s\n",
			r.Name, humanize.Comma(int64(r.Calls)), r.NsPerOp, humanize.Bytes(uint64(r.BytesSec)))
	}
}

// measure runs m over corpus for the given number of rounds. A failing
// round fails the whole mode, so no partial row is ever reported.
func measure(m mode, corpus []string, rounds int) (ModeResult, error) {
	corpusBytes := 0
	for _, s := range corpus {
		corpusBytes += len(s)
	}

	start := time.Now()
	for i := 0; i < rounds; i++ {
		if err := m.run(corpus); err != nil {
			return ModeResult{}, fmt.Errorf("round %d: %w", i+1, err)
		}
	}
	elapsed := time.Since(start)

	walks := rounds * max(1, m.workers)
	calls := walks * len(corpus)
	bytes := walks * corpusBytes
	r := ModeResult{
		Name:    m.name,
		Calls:   calls,
		Bytes:   bytes,
		Elapsed: elapsed,
	}
	if calls > 0 && elapsed > 0 {
		r.NsPerOp = float64(elapsed.Nanoseconds()) / float64(calls)
		r.BytesSec = float64(bytes) / elapsed.Seconds()
	}
	return r, nil
}

// readCorpus returns one signature per line, skipping # comments.
func readCorpus(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var corpus []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		corpus = append(corpus, line)
	}
	return corpus, scanner.Err()
}

func findCorpus() string {
	paths := []string{
		"sig/testdata/valid.txt",
		"../sig/testdata/valid.txt",
		"../../sig/testdata/valid.txt",
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return filepath.Clean(p)
		}
	}

	return ""
}

func writeCSV(w io.Writer, results []ModeResult) {
	fmt.Fprintln(w, "mode,calls,bytes,elapsed_ns,ns_per_op,bytes_per_sec")
	for _, r := range results {
		fmt.Fprintf(w, "%s,%d,%d,%d,%.1f,%.0f\n",
			r.Name, r.Calls, r.Bytes, r.Elapsed.Nanoseconds(), r.NsPerOp, r.BytesSec)
	}
}

func writeMarkdown(w io.Writer, results []ModeResult, corpusSize int) {
	fmt.Fprintf(w, "# Signature Benchmark Results\n\n")
	fmt.Fprintf(w, "**Date:** %s  \n", time.Now().Format("2006-01-02"))
	fmt.Fprintf(w, "**Corpus:** %d signatures x %d rounds  \n", corpusSize, rounds)
	fmt.Fprintf(w, "**CPUs:** %d  \n\n", runtime.GOMAXPROCS(0))

	fmt.Fprintf(w, "| Mode | Calls | ns/op | Throughput |\n")
	fmt.Fprintf(w, "|------|-------|-------|------------|\n")
	for _, r := range results {
		fmt.Fprintf(w, "| %s | %s | %.1f | %s/s |\n",
			r.Name, humanize.Comma(int64(r.Calls)), r.NsPerOp, humanize.Bytes(uint64(r.BytesSec)))
	}

	fmt.Fprintf(w, "\n## Methodology\n\n")
	fmt.Fprintf(w, "- **validate:** `sig.Validate`, grammar check without building a tree\n")
	fmt.Fprintf(w, "- **parse:** `sig.Parse`, one tree per call\n")
	fmt.Fprintf(w, "- **cached:** `(*sig.Cache).Parse` after the first round has filled the cache\n")
}
