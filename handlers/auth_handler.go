package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = time.Hour

type AuthHandler struct {
	jwtSecret  []byte
	apiKeyHash string
}

func NewAuthHandler(jwtSecret string, apiKeyHash string) *AuthHandler {
	return &AuthHandler{jwtSecret: []byte(jwtSecret), apiKeyHash: apiKeyHash}
}

type issueTokenRequest struct {
	APIKey string `json:"api_key"`
}

// IssueTokenHandler exchanges the league's API key for a short-lived
// commissioner token used on mutating endpoints.
// POST /auth/token
func (h *AuthHandler) IssueTokenHandler(w http.ResponseWriter, r *http.Request) {
	var req issueTokenRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if req.APIKey == "" {
		badRequestResponse(w, r, errors.New("api_key is required"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(h.apiKeyHash), []byte(req.APIKey)); err != nil {
		unauthorizedResponse(w, r, "invalid API key")
		return
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"role": "commissioner",
		"iat":  now.Unix(),
		"exp":  now.Add(tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.jwtSecret)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"token": token, "expires_in": int(tokenTTL.Seconds())}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
