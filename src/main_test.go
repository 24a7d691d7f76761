package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

func testServer(words ...string) *server {
	return &server{loadWords: func(context.Context) ([]string, error) {
		return words, nil
	}}
}

func post(t *testing.T, s *server, body string) (int, SolveResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/solve", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.solve(rec, req)

	var resp SolveResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return rec.Code, resp
}

func TestSolve(t *testing.T) {
	s := testServer("cat", "act", "ca", "at", "a", "t")

	code, resp := post(t, s, `{"phrase": "cat"}`)
	if code != http.StatusOK {
		t.Fatalf("status = %d, want %d", code, http.StatusOK)
	}
	want := SolveResponse{Success: true, Single: []string{"cat", "act"}, Multi: []string{"ca t"}}
	if diff := cmp.Diff(want, resp); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func TestSolve_MaxPhrases(t *testing.T) {
	s := testServer("cat", "act", "ca", "at", "a", "t")

	for _, tc := range []struct {
		maxPhrases int
		want       SolveResponse
	}{
		{1, SolveResponse{Success: true, Single: []string{"cat"}, Multi: []string{}}},
		{3, SolveResponse{Success: true, Single: []string{"cat", "act"}, Multi: []string{"ca t"}}},
	} {
		_, resp := post(t, s, fmt.Sprintf(`{"phrase": "cat", "maxPhrases": %d}`, tc.maxPhrases))
		if diff := cmp.Diff(tc.want, resp); diff != "" {
			t.Errorf("maxPhrases=%d mismatch (-want +got):\n%s", tc.maxPhrases, diff)
		}
	}
}

func TestSolve_Errors(t *testing.T) {
	s := testServer("cat")

	for _, tc := range []struct {
		name     string
		body     string
		wantCode int
	}{
		{"invalid json", `{"phrase":`, http.StatusBadRequest},
		{"empty phrase", `{"phrase": "  "}`, http.StatusBadRequest},
		{"phrase too long", `{"phrase": "` + strings.Repeat("a", maxPhraseLength+1) + `"}`, http.StatusInternalServerError},
		{"negative max phrases", `{"phrase": "cat", "maxPhrases": -1}`, http.StatusInternalServerError},
	} {
		t.Run(tc.name, func(t *testing.T) {
			code, resp := post(t, s, tc.body)
			if code != tc.wantCode {
				t.Errorf("status = %d, want %d", code, tc.wantCode)
			}
			if resp.Success || resp.Error == "" {
				t.Errorf("response = %+v, want failure with error", resp)
			}
		})
	}
}

func TestSolve_NoAnagrams(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/solve", strings.NewReader(`{"phrase": "cat"}`))
	rec := httptest.NewRecorder()
	testServer("dog").solve(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, `"single":[]`) || !strings.Contains(body, `"multi":[]`) {
		t.Errorf("body = %s, want empty single and multi arrays", body)
	}

	var resp SolveResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !resp.Success {
		t.Errorf("Success = false, want true")
	}
	if resp.Error == "" {
		t.Error("expected an explanatory error message")
	}
}

func TestSolve_ErrorsSendEmptyArrays(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/solve", strings.NewReader(`{"phrase": " "}`))
	rec := httptest.NewRecorder()
	testServer("cat").solve(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, `"single":[]`) || !strings.Contains(body, `"multi":[]`) {
		t.Errorf("body = %s, want empty single and multi arrays", body)
	}
}

func TestSolve_NearDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(t.Context(), deadlineMargin/2)
	defer cancel()

	req := httptest.NewRequest(http.MethodPost, "/solve", strings.NewReader(`{"phrase": "cat"}`)).WithContext(ctx)
	rec := httptest.NewRecorder()
	testServer("cat", "act").solve(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d; body = %s", rec.Code, http.StatusOK, rec.Body.String())
	}
}

func TestSolveContext(t *testing.T) {
	t.Run("no deadline", func(t *testing.T) {
		ctx, cancel := solveContext(t.Context())
		defer cancel()
		deadline, ok := ctx.Deadline()
		if !ok {
			t.Fatal("expected a deadline")
		}
		if d := time.Until(deadline); d <= 0 || d > defaultSolveTimeout {
			t.Errorf("deadline in %v, want within %v", d, defaultSolveTimeout)
		}
	})

	t.Run("leaves margin", func(t *testing.T) {
		parent, parentCancel := context.WithTimeout(t.Context(), 10*time.Second)
		defer parentCancel()
		parentDeadline, _ := parent.Deadline()

		ctx, cancel := solveContext(parent)
		defer cancel()
		deadline, _ := ctx.Deadline()
		if got := parentDeadline.Sub(deadline); got < deadlineMargin-time.Millisecond {
			t.Errorf("margin = %v, want at least %v", got, deadlineMargin)
		}
	})

	t.Run("deadline closer than margin", func(t *testing.T) {
		parent, parentCancel := context.WithTimeout(t.Context(), deadlineMargin/2)
		defer parentCancel()

		ctx, cancel := solveContext(parent)
		defer cancel()
		if err := ctx.Err(); err != nil {
			t.Errorf("ctx.Err() = %v, want nil", err)
		}
	})
}

func TestLoggerLevel(t *testing.T) {
	if got := logger.GetLevel(); got != zerolog.InfoLevel {
		t.Errorf("logger level = %v, want %v", got, zerolog.InfoLevel)
	}
}

func TestSolve_Methods(t *testing.T) {
	s := testServer("cat")

	rec := httptest.NewRecorder()
	s.solve(rec, httptest.NewRequest(http.MethodOptions, "/solve", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("OPTIONS status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, "*")
	}

	rec = httptest.NewRecorder()
	s.solve(rec, httptest.NewRequest(http.MethodGet, "/solve", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestSolve_RetriesWordLoad(t *testing.T) {
	calls := 0
	s := &server{loadWords: func(context.Context) ([]string, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("bigquery unavailable")
		}
		return []string{"cat"}, nil
	}}

	if code, _ := post(t, s, `{"phrase": "cat"}`); code != http.StatusInternalServerError {
		t.Errorf("first status = %d, want %d", code, http.StatusInternalServerError)
	}
	code, resp := post(t, s, `{"phrase": "cat"}`)
	if code != http.StatusOK {
		t.Errorf("second status = %d, want %d", code, http.StatusOK)
	}
	if diff := cmp.Diff([]string{"cat"}, resp.Single); diff != "" {
		t.Errorf("Single mismatch (-want +got):\n%s", diff)
	}
}

func TestSolve_DictionaryEmpty(t *testing.T) {
	code, resp := post(t, testServer("123"), `{"phrase": "cat"}`)
	if code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", code, http.StatusInternalServerError)
	}
	if resp.Success {
		t.Error("Success = true, want false")
	}
}
