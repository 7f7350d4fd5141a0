package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/passvault/internal/common"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

type loginResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
	Token   string `json:"token"`
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, authBodyLimit, &req); err != nil {
		writeError(w, err)
		return
	}
	password := []byte(req.Password)
	defer common.WipeByteArray(password)

	u, err := h.auth.Signup(r.Context(), req.Email, password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, signupResponse{Message: "User created successfully", UserID: u.ID})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, authBodyLimit, &req); err != nil {
		writeError(w, err)
		return
	}
	password := []byte(req.Password)
	defer common.WipeByteArray(password)

	token, u, err := h.auth.Login(r.Context(), req.Email, password)
	if err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, h.sessionCookie(token, h.validity))
	writeJSON(w, http.StatusOK, loginResponse{Message: "Login successful", UserID: u.ID, Token: token})
}

// Me answers 401 with {"user": null} for any session problem.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	unauth := func() {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"user": nil})
	}

	claims, err := h.auth.Verify(tokenFromRequest(r))
	if err != nil {
		unauth()
		return
	}
	u, err := h.auth.Me(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrUnauthenticated) {
			unauth()
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": userResponse{ID: u.ID, Email: u.Email}})
}

// Logout clears the cookie. Tokens are stateless and stay valid until
// they expire.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.sessionCookie("", 0))
	writeMessage(w, http.StatusOK, "Logged out")
}

func (h *Handler) sessionCookie(token string, maxAge time.Duration) *http.Cookie {
	c := &http.Cookie{
		Name:     common.TokenCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	}
	if maxAge > 0 {
		c.MaxAge = int(maxAge.Seconds())
		c.Expires = time.Now().Add(maxAge)
	} else {
		c.MaxAge = -1
	}
	return c
}
