package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"crosswarped.com/anagram"
)

func main() {
	configFile := flag.String("config", "", "YAML file with solver settings")
	file := flag.String("file", "", "The file to load words from (default: built-in list)")
	excludedFile := flag.String("excluded", "", "The file to load excluded words from")
	loadWordsFromCloud := flag.Bool("cloud", false, "Load words from BigQuery")
	project := flag.String("project", anagram.DefaultCloudProject, "The BigQuery project")
	table := flag.String("table", anagram.DefaultCloudTable, "The BigQuery table to load words from")
	obscure := flag.Bool("obscure", false, "Include obscure words when loading from BigQuery")

	maxResults := flag.Int("max-results", 0, "Stop searching after this many solutions (0 = default)")
	maxPhrases := flag.Int("max-phrases", 0, "Return at most this many phrases (0 = default)")
	pruning := flag.String("pruning", "", "Pruning policy: prune-short-words or exhaustive")
	substantial := flag.Int("substantial", 0, "Minimum length of words used to skip redundant results (0 = default)")

	limit := flag.Int("limit", 20, "Print at most this many phrases per input (0 = all)")
	parallel := flag.Int("parallel", 4, "How many phrases to solve at once")
	timeout := flag.Duration("timeout", 1*time.Minute, "The timeout for all phrases")
	verbose := flag.Bool("verbose", false, "Log search diagnostics")

	profile := flag.Bool("profile", false, "Profile the solver")
	profileFile := flag.String("profile-file", "cpu.pprof", "The file to write the CPU profile to")
	memoryProfileFile := flag.String("memory-profile-file", "mem.pprof", "The file to write the memory profile to")

	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger().
		Level(zerolog.InfoLevel)
	if *verbose {
		logger = logger.Level(zerolog.DebugLevel)
	}

	var cfg Config
	if *configFile != "" {
		var err error
		if cfg, err = loadConfig(*configFile); err != nil {
			logger.Fatal().Err(err).Msg("loading config")
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "max-results":
			cfg.MaxResults = *maxResults
		case "max-phrases":
			cfg.MaxPhrases = *maxPhrases
		case "pruning":
			cfg.Pruning = *pruning
		case "substantial":
			cfg.SubstantialWordLength = *substantial
		}
	})
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}
	if *parallel < 1 {
		logger.Fatal().Int("parallel", *parallel).Msg("parallel must be >= 1")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var words, excludedWords []string
	switch {
	case *loadWordsFromCloud:
		logger.Info().Str("table", *table).Msg("loading words from cloud")
		var err error
		if words, err = anagram.LoadWordsFromCloud(ctx, *project, *table, *obscure); err != nil {
			logger.Fatal().Err(err).Msg("loading words from cloud")
		}
	case *file != "":
		var err error
		if words, err = anagram.LoadWordsFromFile(*file); err != nil {
			logger.Fatal().Err(err).Msg("loading words from file")
		}
	default:
		words = anagram.DefaultWords()
	}
	if *excludedFile != "" {
		var err error
		if excludedWords, err = anagram.LoadWordsFromFile(*excludedFile); err != nil {
			logger.Fatal().Err(err).Msg("loading excluded words from file")
		}
	}
	logger.Info().Int("words", len(words)).Int("excluded", len(excludedWords)).Msg("loaded words")

	phrases := flag.Args()
	if len(phrases) == 0 {
		var err error
		if phrases, err = readPhrases(os.Stdin); err != nil {
			logger.Fatal().Err(err).Msg("reading phrases")
		}
	}

	var mf *os.File
	if *profile {
		f, err := os.Create(*profileFile)
		if err != nil {
			logger.Fatal().Err(err).Msg("creating profile file")
		}
		defer f.Close()

		mf, err = os.Create(*memoryProfileFile)
		if err != nil {
			logger.Fatal().Err(err).Msg("creating memory profile file")
		}
		defer mf.Close()

		if err := pprof.StartCPUProfile(f); err != nil {
			logger.Fatal().Err(err).Msg("starting CPU profile")
		}
		defer pprof.StopCPUProfile()
	}

	params := cfg.SolverParams()
	params.ExcludedWords = excludedWords
	params.Logger = &logger
	solver := anagram.CreateSolver(words, params)

	results, errs, err := solveAll(ctx, solver, phrases, *parallel)

	out := bufio.NewWriter(os.Stdout)
	for i, res := range results {
		if errs[i] != nil {
			logger.Error().Err(errs[i]).Str("phrase", phrases[i]).Msg("solving")
			continue
		}
		printResult(out, phrases[i], res, *limit)
	}
	out.Flush()

	if mf != nil {
		pprof.WriteHeapProfile(mf)
	}

	if err != nil {
		os.Exit(1)
	}
}

// solveAll solves every phrase, at most parallel at a time. The results and
// errors are in the same order as phrases; a phrase that failed has a nil
// result and does not stop the others. The returned error joins every failure.
func solveAll(ctx context.Context, solver *anagram.Solver, phrases []string, parallel int) ([]*anagram.Result, []error, error) {
	results := make([]*anagram.Result, len(phrases))
	errs := make([]error, len(phrases))

	var g errgroup.Group
	g.SetLimit(parallel)
	for i, phrase := range phrases {
		g.Go(func() error {
			res, err := solver.SolveDetailed(ctx, phrase)
			if err != nil {
				errs[i] = fmt.Errorf("solve %q: %w", phrase, err)
				return nil
			}
			results[i] = &res
			return nil
		})
	}
	g.Wait()
	return results, errs, errors.Join(errs...)
}

func printResult(w *bufio.Writer, phrase string, res *anagram.Result, limit int) {
	fmt.Fprintln(w, "--------------------------------")
	fmt.Fprintf(w, "%s: %d anagrams (%d candidates, %d solutions", phrase, len(res.Phrases), res.Stats.Candidates, res.Stats.Solutions)
	if res.Stats.CapReached {
		fmt.Fprint(w, ", search capped")
	}
	fmt.Fprintf(w, ", %v)\n", res.Stats.Elapsed.Round(time.Millisecond))

	shown := res.Phrases
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	for _, p := range shown {
		fmt.Fprintln(w, p)
	}
	if len(shown) < len(res.Phrases) {
		fmt.Fprintf(w, "... and %d more\n", len(res.Phrases)-len(shown))
	}
}

func readPhrases(r io.Reader) ([]string, error) {
	var phrases []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			phrases = append(phrases, line)
		}
	}
	return phrases, scanner.Err()
}
