package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"brainbuzz/internal/app"
	"brainbuzz/internal/catalog"
	"brainbuzz/internal/domain"
)

type api struct {
	games      *app.GameService
	profiles   *app.ProfileService
	challenges *app.ChallengeService
}

func (a *api) listGames(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, a.games.Games(), http.StatusOK)
}

type signUpRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

func (a *api) signUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	profile, err := a.profiles.SignUp(r.Context(), req.Email, req.Password, req.DisplayName)
	if errors.Is(err, domain.ErrInvalidCredentials) {
		respondError(w, "a valid email, a password of at least 6 characters and a display name are required", http.StatusBadRequest)
		return
	}
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, profile, http.StatusCreated)
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInResponse struct {
	Token    string          `json:"token"`
	Identity domain.Identity `json:"identity"`
}

func (a *api) signIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	token, id, err := a.profiles.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, signInResponse{Token: token, Identity: id}, http.StatusOK)
}

func (a *api) signOut(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())
	if err := a.profiles.SignOut(r.Context(), id.UID); err != nil {
		respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) profile(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())
	p, err := a.profiles.Profile(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, p, http.StatusOK)
}

func (a *api) achievements(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())
	list, err := a.profiles.Achievements(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, list, http.StatusOK)
}

func (a *api) listBoards(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, catalog.Boards(), http.StatusOK)
}

func (a *api) leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		limit = n
	}
	board, err := a.profiles.Leaderboard(r.Context(), chi.URLParam(r, "board"), limit)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, board, http.StatusOK)
}

func (a *api) challengesToday(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())
	if a.challenges == nil {
		respondJSON(w, []domain.DailyChallenge{}, http.StatusOK)
		return
	}
	list, err := a.challenges.Today(r.Context(), id.UID)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, list, http.StatusOK)
}

func (a *api) localStats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.profiles.LocalStats(r.Context(), chi.URLParam(r, "device"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, stats, http.StatusOK)
}

func (a *api) playSnapshot(w http.ResponseWriter, r *http.Request) {
	play, err := a.games.Play(chi.URLParam(r, "id"), playerFrom(r))
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, play.Snapshot(), http.StatusOK)
}
