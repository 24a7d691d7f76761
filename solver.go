package anagram

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"crosswarped.com/anagram/internal"
	"crosswarped.com/anagram/pkg/primitives"
)

// PruningPolicy decides whether the search may give up on short words once it
// has found plenty of solutions.
type PruningPolicy int

const (
	// PruneShortWords stops considering short words in a branch once more than a
	// tenth of MaxResults solutions have been found.
	PruneShortWords PruningPolicy = iota
	// Exhaustive considers every candidate in every branch, up to MaxResults.
	Exhaustive
)

func (p PruningPolicy) String() string {
	switch p {
	case PruneShortWords:
		return "prune-short-words"
	case Exhaustive:
		return "exhaustive"
	default:
		return fmt.Sprintf("PruningPolicy(%d)", int(p))
	}
}

// ParsePruningPolicy parses the String form of a PruningPolicy. The empty string
// is PruneShortWords.
func ParsePruningPolicy(s string) (PruningPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "prune-short-words":
		return PruneShortWords, nil
	case "exhaustive":
		return Exhaustive, nil
	}
	return 0, fmt.Errorf("unknown pruning policy %q", s)
}

const (
	DefaultMaxResults            = 50_000
	DefaultMaxPhrases            = 10_000
	DefaultSubstantialWordLength = 4
)

// SolverParams tunes a Solver. Zero fields take their defaults.
type SolverParams struct {
	// MaxResults caps the number of raw solutions collected by one search.
	MaxResults int
	// MaxPhrases caps the number of phrases returned.
	MaxPhrases int
	Pruning    PruningPolicy
	// SubstantialWordLength is the minimum length of a word that counts towards a
	// solution's signature when skipping redundant branches.
	SubstantialWordLength int
	// ExcludedWords are removed from the word list.
	ExcludedWords []string
	// Logger receives diagnostics. Nil disables logging.
	Logger *zerolog.Logger
}

type params struct {
	maxResults            int
	maxPhrases            int
	pruning               PruningPolicy
	substantialWordLength int
}

func asParams(p SolverParams) params {
	pp := params{
		maxResults:            DefaultMaxResults,
		maxPhrases:            DefaultMaxPhrases,
		pruning:               p.Pruning,
		substantialWordLength: DefaultSubstantialWordLength,
	}
	if p.MaxResults > 0 {
		pp.maxResults = p.MaxResults
	}
	if p.MaxPhrases > 0 {
		pp.maxPhrases = p.MaxPhrases
	}
	if p.SubstantialWordLength > 0 {
		pp.substantialWordLength = p.SubstantialWordLength
	}
	return pp
}

// Solver finds multi-word anagrams of phrases using a fixed word list.
//
// A Solver is safe for concurrent use; each Solve call searches independently.
type Solver struct {
	Words         []string
	ExcludedWords []string

	params params
	logger zerolog.Logger

	mu sync.Mutex
	// Do not access this field directly, use the lexicon method instead.
	lazyLexicon *internal.Lexicon
}

func CreateSolver(words []string, p SolverParams) *Solver {
	logger := zerolog.Nop()
	if p.Logger != nil {
		logger = *p.Logger
	}
	return &Solver{
		Words:         words,
		ExcludedWords: p.ExcludedWords,
		params:        asParams(p),
		logger:        logger,
	}
}

func (s *Solver) lexicon(ctx context.Context) (*internal.Lexicon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lazyLexicon != nil {
		return s.lazyLexicon, nil
	}

	start := time.Now()
	lex, err := internal.NewLexicon(ctx, internal.LexiconParams{
		Words:         s.Words,
		ExcludedWords: s.ExcludedWords,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug().
		Int("words", len(s.Words)).
		Int("usable", lex.Len()).
		Dur("elapsed", time.Since(start)).
		Msg("loaded lexicon")

	s.lazyLexicon = lex
	return lex, nil
}

// Stats describes the work done by a single solve.
type Stats struct {
	// Candidates is the number of dictionary words that fit inside the phrase.
	Candidates int
	// Solutions is the number of raw solutions found before ranking.
	Solutions int
	// CapReached is true if the search stopped at MaxResults.
	CapReached bool
	Elapsed    time.Duration
}

// Result holds the ranked anagrams of a phrase.
type Result struct {
	// Phrases are all anagrams, best first.
	Phrases []string
	// Single and Multi split Phrases into one-word and multi-word anagrams,
	// preserving order.
	Single []string
	Multi  []string

	Stats Stats
}

// Solve returns the anagrams of phrase, best first.
func (s *Solver) Solve(ctx context.Context, phrase string) ([]string, error) {
	res, err := s.SolveDetailed(ctx, phrase)
	if err != nil {
		return nil, err
	}
	return res.Phrases, nil
}

// SolveDetailed is like Solve but also reports search statistics.
func (s *Solver) SolveDetailed(ctx context.Context, phrase string) (Result, error) {
	start := time.Now()

	target := primitives.LettersOf(phrase)
	if strings.TrimSpace(phrase) == "" || target.IsEmpty() {
		return Result{}, ErrEmptyInput
	}

	lex, err := s.lexicon(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("lexicon: %w", err)
	}
	if lex.Len() == 0 {
		return Result{}, ErrDictionaryEmpty
	}

	candidates := lex.Candidates(target)
	s.logger.Debug().
		Str("phrase", phrase).
		Int("letters", target.Total()).
		Int("candidates", len(candidates)).
		Msg("searching")

	sr := newSearch(ctx, candidates, s.params)
	sr.run(target)
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	phrases := rank(sr.solutions, s.params.maxPhrases)

	res := Result{
		Phrases: phrases,
		Stats: Stats{
			Candidates: len(candidates),
			Solutions:  len(sr.solutions),
			CapReached: sr.full(),
			Elapsed:    time.Since(start),
		},
	}
	for _, p := range phrases {
		if strings.Contains(p, " ") {
			res.Multi = append(res.Multi, p)
		} else {
			res.Single = append(res.Single, p)
		}
	}

	ev := s.logger.Debug().
		Str("phrase", phrase).
		Int("solutions", res.Stats.Solutions).
		Int("phrases", len(phrases)).
		Bool("capReached", res.Stats.CapReached).
		Dur("elapsed", res.Stats.Elapsed)
	if len(phrases) > 0 {
		ev = ev.Str("best", phrases[0])
	}
	ev.Msg("solved")

	return res, nil
}
