package server

import (
	"net/http"

	"github.com/kusitms-com/meetupd/internal/auth"
	"github.com/kusitms-com/meetupd/internal/services/account"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type reissueRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type sessionResponse struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	*auth.TokenPair
}

func sessionOf(s *account.Session) sessionResponse {
	return sessionResponse{UserID: s.UserID, Username: s.Username, TokenPair: s.Tokens}
}

func (a *API) register(w http.ResponseWriter, r *http.Request) error {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	session, err := a.accounts.Register(r.Context(), account.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Username: req.Username,
	})
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, sessionOf(session))
}

func (a *API) login(w http.ResponseWriter, r *http.Request) error {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	session, err := a.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, sessionOf(session))
}

func (a *API) reissue(w http.ResponseWriter, r *http.Request) error {
	var req reissueRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	session, err := a.accounts.Reissue(r.Context(), req.RefreshToken)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, sessionOf(session))
}

func (a *API) logout(w http.ResponseWriter, r *http.Request) error {
	userID, err := subject(r)
	if err != nil {
		return err
	}
	if err := a.accounts.Logout(r.Context(), userID); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
