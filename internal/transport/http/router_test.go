package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"brainbuzz/internal/app"
	"brainbuzz/internal/catalog"
	"brainbuzz/internal/domain"
	"brainbuzz/internal/game"
	"brainbuzz/internal/infra/memory"
	"brainbuzz/internal/metrics"
)

type idleTicker struct{ ch chan time.Time }

func (i idleTicker) C() <-chan time.Time { return i.ch }
func (i idleTicker) Stop()               {}

type testServer struct {
	*httptest.Server
	plays *memory.PlayRegistry
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	banks := []domain.Bank{
		{Game: domain.GameFoodQuiz, Items: []domain.QuizItem{
			{ID: "pizza", Prompt: "🍕", PromptKind: domain.PromptEmoji, Options: []string{"Pizza", "Burger"}, Correct: 0, Difficulty: domain.Easy, Points: 10},
		}},
		{Game: domain.GameWordle, Items: []domain.QuizItem{{ID: "brain", Answer: "BRAIN"}}},
	}
	profiles := memory.NewProfileStore()
	local := memory.NewLocalStatsStore()
	plays := memory.NewPlayRegistry()
	m := metrics.NewManager()
	challenges := app.NewChallengeService(memory.NewChallengeStore(), nil)

	games := app.NewGameService(
		catalog.Default(),
		memory.NewBankRepository(memory.NewStaticBankLoader(banks), time.Minute),
		plays,
		app.NewRecorder(local, profiles, app.WithRecorderMetrics(m), app.WithChallenges(challenges)),
		app.WithAdvanceDelay(0),
		app.WithMetrics(m),
		app.WithTickerFactory(func(time.Duration) game.Ticker { return idleTicker{ch: make(chan time.Time)} }),
	)
	router := NewRouter(Deps{
		Games:      games,
		Profiles:   app.NewProfileService(memory.NewAuthenticator(4), profiles, app.WithLocalStats(local)),
		Challenges: challenges,
		Metrics:    m,
		Log:        zerolog.Nop(),
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return testServer{Server: srv, plays: plays}
}

func (s testServer) dial(t *testing.T, path string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(s.URL, "http")+path, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

type message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func readUntil(t *testing.T, conn *websocket.Conn, want string) message {
	t.Helper()
	for {
		var msg message
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read json waiting for %s: %v", want, err)
		}
		if msg.Type == want {
			return msg
		}
	}
}

func send(t *testing.T, conn *websocket.Conn, typ string, payload any) {
	t.Helper()
	if err := conn.WriteJSON(map[string]any{"type": typ, "payload": payload}); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

func (s testServer) request(t *testing.T, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		rd = bytes.NewReader(raw)
	}
	req, _ := http.NewRequest(method, s.URL+path, rd)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp, out
}

func TestWebSocketQuizFlow(t *testing.T) {
	srv := newTestServer(t)
	conn := srv.dial(t, "/ws/games/food-quiz?device=d1")

	readUntil(t, conn, "started")
	var round app.RoundPayload
	_ = json.Unmarshal(readUntil(t, conn, "round").Payload, &round)
	if round.Prompt != "🍕" || len(round.Options) != 2 {
		t.Fatalf("unexpected round %+v", round)
	}

	send(t, conn, "answer", map[string]int{"choice": 0})
	var outcome game.Outcome
	_ = json.Unmarshal(readUntil(t, conn, "result").Payload, &outcome)
	if !outcome.Correct || outcome.Awarded < 10 {
		t.Fatalf("unexpected outcome %+v", outcome)
	}

	send(t, conn, "answer", map[string]int{"choice": 1})
	var e errorPayload
	_ = json.Unmarshal(readUntil(t, conn, "error").Payload, &e)
	if e.Message != domain.ErrRoundAnswered.Error() {
		t.Fatalf("expected answered-round rejection, got %q", e.Message)
	}

	send(t, conn, "next", nil)
	var over app.GameOverPayload
	_ = json.Unmarshal(readUntil(t, conn, "gameOver").Payload, &over)
	if over.Result.Stats.Correct != 1 || !over.Result.Won {
		t.Fatalf("unexpected result %+v", over.Result)
	}

	resp, body := srv.request(t, http.MethodGet, "/api/local-stats/d1", "", nil)
	var stats map[domain.GameKind]domain.LocalStats
	_ = json.Unmarshal(body, &stats)
	if resp.StatusCode != http.StatusOK || stats[domain.GameFoodQuiz].Played != 1 {
		t.Fatalf("unexpected local stats %d %s", resp.StatusCode, body)
	}
}

func TestWebSocketRejectsInvalidMoves(t *testing.T) {
	srv := newTestServer(t)
	conn := srv.dial(t, "/ws/games/wordle?device=d2")
	readUntil(t, conn, "started")

	cases := []struct {
		typ     string
		payload any
		want    string
	}{
		{"guess", map[string]string{"word": "ab"}, domain.ErrIncompleteGuess.Error()},
		{"guess", map[string]string{"word": "ab1de"}, domain.ErrInvalidLetters.Error()},
		{"answer", map[string]int{"choice": 0}, domain.ErrWrongGame.Error()},
		{"dance", nil, errUnsupported.Error()},
	}
	for _, tc := range cases {
		send(t, conn, tc.typ, tc.payload)
		var e errorPayload
		_ = json.Unmarshal(readUntil(t, conn, "error").Payload, &e)
		if e.Message != tc.want {
			t.Fatalf("%s %v: expected %q, got %q", tc.typ, tc.payload, tc.want, e.Message)
		}
	}

	send(t, conn, "guess", map[string]string{"word": "brain"})
	var over app.GameOverPayload
	_ = json.Unmarshal(readUntil(t, conn, "gameOver").Payload, &over)
	if !over.Result.Won || over.Result.GuessesUsed != 1 || over.Target != "BRAIN" {
		t.Fatalf("unexpected game over %+v", over)
	}
}

func TestWebSocketCloseAbandonsPlay(t *testing.T) {
	srv := newTestServer(t)
	conn := srv.dial(t, "/ws/games/food-quiz?device=d3")
	readUntil(t, conn, "round")
	if len(srv.plays.All()) != 1 {
		t.Fatalf("expected one active play")
	}
	_ = conn.Close()

	deadline := time.Now().Add(3 * time.Second)
	for len(srv.plays.All()) != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("play was not released after disconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestWebSocketHandshakeErrors(t *testing.T) {
	srv := newTestServer(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	_, resp, err := websocket.DefaultDialer.Dial(url+"/ws/games/chess?device=d4", nil)
	if err == nil || resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown game, got %v", err)
	}
	_, resp, err = websocket.DefaultDialer.Dial(url+"/ws/games/wordle", nil)
	if err == nil || resp == nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 without device, got %v", err)
	}
	_, resp, err = websocket.DefaultDialer.Dial(url+"/ws/games/wordle?token=bogus", nil)
	if err == nil || resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a bad token, got %v", err)
	}
}

func TestAccountEndpoints(t *testing.T) {
	srv := newTestServer(t)

	resp, body := srv.request(t, http.MethodPost, "/api/auth/sign-up", "", map[string]string{"email": "nope", "password": "secret1", "displayName": "ana"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid sign up, got %d %s", resp.StatusCode, body)
	}
	resp, body = srv.request(t, http.MethodPost, "/api/auth/sign-up", "", map[string]string{"email": "ana@example.com", "password": "secret1", "displayName": "ana"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("sign up: %d %s", resp.StatusCode, body)
	}
	resp, _ = srv.request(t, http.MethodPost, "/api/auth/sign-up", "", map[string]string{"email": "ana@example.com", "password": "secret1", "displayName": "ana"})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for a taken email, got %d", resp.StatusCode)
	}

	resp, body = srv.request(t, http.MethodPost, "/api/auth/sign-in", "", map[string]string{"email": "ana@example.com", "password": "secret1"})
	var signIn signInResponse
	_ = json.Unmarshal(body, &signIn)
	if resp.StatusCode != http.StatusOK || signIn.Token == "" {
		t.Fatalf("sign in: %d %s", resp.StatusCode, body)
	}

	if resp, _ := srv.request(t, http.MethodGet, "/api/profile", "", nil); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}
	resp, body = srv.request(t, http.MethodGet, "/api/profile", signIn.Token, nil)
	var profile domain.UserProfile
	_ = json.Unmarshal(body, &profile)
	if resp.StatusCode != http.StatusOK || profile.Username != "ana" {
		t.Fatalf("profile: %d %s", resp.StatusCode, body)
	}

	resp, body = srv.request(t, http.MethodGet, "/api/challenges", signIn.Token, nil)
	var today []domain.DailyChallenge
	_ = json.Unmarshal(body, &today)
	if resp.StatusCode != http.StatusOK || len(today) != 3 {
		t.Fatalf("challenges: %d %s", resp.StatusCode, body)
	}

	resp, body = srv.request(t, http.MethodGet, "/api/achievements", signIn.Token, nil)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), `"first_game"`) {
		t.Fatalf("achievements: %d %s", resp.StatusCode, body)
	}

	if resp, _ := srv.request(t, http.MethodPost, "/api/auth/sign-out", signIn.Token, nil); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("sign out: %d", resp.StatusCode)
	}
	if resp, _ := srv.request(t, http.MethodGet, "/api/profile", signIn.Token, nil); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected revoked token, got %d", resp.StatusCode)
	}
}

func TestPublicEndpoints(t *testing.T) {
	srv := newTestServer(t)

	resp, body := srv.request(t, http.MethodGet, "/healthz", "", nil)
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Fatalf("healthz: %d %s", resp.StatusCode, body)
	}

	resp, body = srv.request(t, http.MethodGet, "/api/games", "", nil)
	var games []catalog.Game
	_ = json.Unmarshal(body, &games)
	if resp.StatusCode != http.StatusOK || len(games) != 5 || games[0].Kind != domain.GameWordle {
		t.Fatalf("games: %d %s", resp.StatusCode, body)
	}

	resp, _ = srv.request(t, http.MethodGet, "/api/leaderboards/overall?limit=5", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("leaderboard: %d", resp.StatusCode)
	}
	resp, _ = srv.request(t, http.MethodGet, "/api/leaderboards/overall?limit=x", "", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for a bad limit, got %d", resp.StatusCode)
	}
	resp, _ = srv.request(t, http.MethodGet, "/api/leaderboards/chess", "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for an unknown board, got %d", resp.StatusCode)
	}

	resp, body = srv.request(t, http.MethodGet, "/no/such/page", "", nil)
	if resp.StatusCode != http.StatusNotFound || resp.Header.Get("Content-Type") != "application/json" {
		t.Fatalf("expected JSON 404, got %d %q", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	var e errorPayload
	if err := json.Unmarshal(body, &e); err != nil || e.Message != "not found" {
		t.Fatalf("unexpected 404 body %s", body)
	}

	resp, body = srv.request(t, http.MethodGet, "/metrics", "", nil)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "brainbuzz_active_plays") {
		t.Fatalf("metrics: %d", resp.StatusCode)
	}
}
