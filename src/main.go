package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"crosswarped.com/anagram"
)

type SolveRequest struct {
	Phrase     string `json:"phrase"`
	MaxPhrases int    `json:"maxPhrases"`
}

type SolveResponse struct {
	Success bool     `json:"success"`
	Single  []string `json:"single"`
	Multi   []string `json:"multi"`
	Error   string   `json:"error,omitempty"`
}

const (
	maxPhraseLength = 64

	defaultSolveTimeout = 30 * time.Second
	// deadlineMargin is left for writing the response before the request deadline.
	deadlineMargin = 2 * time.Second
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger().Level(zerolog.InfoLevel)

type server struct {
	loadWords func(ctx context.Context) ([]string, error)

	mu     sync.Mutex
	solver *anagram.Solver
}

// getSolver builds the solver on first use, so that a failed word load is
// retried by the next request.
func (s *server) getSolver(ctx context.Context) (*anagram.Solver, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.solver != nil {
		return s.solver, nil
	}
	words, err := s.loadWords(ctx)
	if err != nil {
		return nil, fmt.Errorf("loadWords: %w", err)
	}
	logger.Info().Int("words", len(words)).Msg("loaded words")

	s.solver = anagram.CreateSolver(words, anagram.SolverParams{Logger: &logger})
	return s.solver, nil
}

func wordsFromEnv(ctx context.Context) ([]string, error) {
	table := os.Getenv("WORDS_TABLE")
	if table == "" {
		return anagram.DefaultWords(), nil
	}
	project := os.Getenv("WORDS_PROJECT")
	if project == "" {
		project = anagram.DefaultCloudProject
	}
	return anagram.LoadWordsFromCloud(ctx, project, table, os.Getenv("WORDS_OBSCURE") == "true")
}

func (s *server) execute(ctx context.Context, req SolveRequest) (anagram.Result, error) {
	if len(req.Phrase) > maxPhraseLength {
		return anagram.Result{}, fmt.Errorf("phrase must be at most %d characters", maxPhraseLength)
	}
	if req.MaxPhrases < 0 {
		return anagram.Result{}, fmt.Errorf("maxPhrases must be at least 0")
	}

	solver, err := s.getSolver(ctx)
	if err != nil {
		return anagram.Result{}, err
	}

	ctx, cancel := solveContext(ctx)
	defer cancel()

	res, err := solver.SolveDetailed(ctx, req.Phrase)
	if err != nil {
		return anagram.Result{}, err
	}

	if req.MaxPhrases > 0 {
		res.Single = res.Single[:min(len(res.Single), req.MaxPhrases)]
		res.Multi = res.Multi[:min(len(res.Multi), req.MaxPhrases-len(res.Single))]
	}
	return res, nil
}

// solveContext bounds a solve by the request deadline less deadlineMargin. When
// the deadline is closer than that, the request context is used unchanged.
func solveContext(ctx context.Context) (context.Context, context.CancelFunc) {
	deadline, ok := ctx.Deadline()
	if !ok {
		return context.WithTimeout(ctx, defaultSolveTimeout)
	}
	if remaining := time.Until(deadline) - deadlineMargin; remaining > 0 {
		return context.WithTimeout(ctx, remaining)
	}
	return ctx, func() {}
}

func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Content-Type", "application/json")
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, anagram.ErrEmptyInput):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *server) solve(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)

	// Handle OPTIONS request for CORS preflight
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		fmt.Fprintf(w, `{"success": false, "error": "Method %s not allowed"}`, r.Method)
		return
	}

	log := logger.With().Str("request", uuid.NewString()).Logger()

	var req SolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn().Err(err).Msg("parsing JSON body")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(SolveResponse{
			Error: fmt.Sprintf("Invalid JSON: %v", err),
		})
		return
	}

	start := time.Now()
	res, err := s.execute(r.Context(), req)

	response := SolveResponse{
		Success: err == nil,
		Single:  res.Single,
		Multi:   res.Multi,
	}
	if err != nil {
		log.Error().Err(err).Str("phrase", req.Phrase).Msg("solve failed")
		response.Error = err.Error()
		w.WriteHeader(statusFor(err))
	} else {
		log.Info().
			Str("phrase", req.Phrase).
			Int("single", len(res.Single)).
			Int("multi", len(res.Multi)).
			Bool("capReached", res.Stats.CapReached).
			Dur("elapsed", time.Since(start)).
			Msg("solved")
		if len(res.Single)+len(res.Multi) == 0 {
			response.Error = "No anagrams could be found for the given phrase"
		}
	}

	// Clients expect arrays, never null.
	if response.Single == nil {
		response.Single = []string{}
	}
	if response.Multi == nil {
		response.Multi = []string{}
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error().Err(err).Msg("marshaling response")
	}
}

func main() {
	s := &server{loadWords: wordsFromEnv}
	funcframework.RegisterHTTPFunction("/solve", s.solve)

	port := "8080"
	if envPort := os.Getenv("PORT"); envPort != "" {
		port = envPort
	}
	hostname := ""
	if localOnly := os.Getenv("LOCAL_ONLY"); localOnly == "true" {
		hostname = "127.0.0.1"
	}
	if err := funcframework.StartHostPort(hostname, port); err != nil {
		logger.Fatal().Err(err).Msg("funcframework.StartHostPort")
	}
}
