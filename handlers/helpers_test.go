package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/draftleague/bracket-engine/brackets"
	"github.com/draftleague/bracket-engine/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadJSON(t *testing.T) {
	type payload struct {
		WinnerID int `json:"winner_id"`
	}

	newRequest := func(body string) (*httptest.ResponseRecorder, *http.Request) {
		return httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/matches/1/result", strings.NewReader(body))
	}

	t.Run("valid body", func(t *testing.T) {
		w, r := newRequest(`{"winner_id": 42}`)
		var dst payload
		require.NoError(t, readJSON(w, r, &dst))
		assert.Equal(t, 42, dst.WinnerID)
	})

	t.Run("empty body", func(t *testing.T) {
		w, r := newRequest("")
		var dst payload
		err := readJSON(w, r, &dst)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must not be empty")
	})

	t.Run("malformed JSON", func(t *testing.T) {
		w, r := newRequest(`{"winner_id": `)
		var dst payload
		assert.Error(t, readJSON(w, r, &dst))
	})

	t.Run("unknown field", func(t *testing.T) {
		w, r := newRequest(`{"champion": 42}`)
		var dst payload
		err := readJSON(w, r, &dst)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown key")
	})

	t.Run("wrong field type", func(t *testing.T) {
		w, r := newRequest(`{"winner_id": "forty-two"}`)
		var dst payload
		err := readJSON(w, r, &dst)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "incorrect JSON type")
	})

	t.Run("trailing garbage", func(t *testing.T) {
		w, r := newRequest(`{"winner_id": 42}{"winner_id": 7}`)
		var dst payload
		err := readJSON(w, r, &dst)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "single JSON value")
	})
}

func TestMapServiceErrorToHTTP(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"missing season", services.ErrSeasonNotFound, http.StatusNotFound},
		{"missing match", services.ErrMatchNotFound, http.StatusNotFound},
		{"schedule already generated", services.ErrScheduleExists, http.StatusConflict},
		{"match already decided", services.ErrMatchAlreadyDecided, http.StatusConflict},
		{"season closed", services.ErrSeasonNotSchedulable, http.StatusConflict},
		{"roster too small", services.ErrRosterTooSmall, http.StatusBadRequest},
		{"bad seed order", services.ErrSeedOrderMismatch, http.StatusBadRequest},
		{"round robin season", services.ErrUnsupportedFormat, http.StatusBadRequest},
		{"opponent still unknown", services.ErrMatchNotReady, http.StatusBadRequest},
		{"tie reported", services.ErrTieNotAllowed, http.StatusBadRequest},
		{"double elim too small", brackets.ErrDoubleElimTooSmall, http.StatusBadRequest},
		{"winner not in match", brackets.ErrWinnerNotInMatch, http.StatusBadRequest},
		{"corrupt bracket link", brackets.ErrBrokenBracketLink, http.StatusInternalServerError},
		{"unexpected failure", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/seasons/1/schedule", nil)
			mapServiceErrorToHTTP(w, r, tc.err)
			assert.Equal(t, tc.want, w.Code)
			assert.Contains(t, w.Body.String(), "error")
		})
	}
}

func TestWriteJSONSetsContentType(t *testing.T) {
	w := httptest.NewRecorder()
	err := writeJSON(w, http.StatusCreated, jsonResponse{"season": 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}
