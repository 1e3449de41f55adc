package server

import (
	"net/http"

	"github.com/kusitms-com/meetupd/internal/services/user"
)

type accountRequest struct {
	Username      string `json:"username"`
	Location      string `json:"location"`
	Major         string `json:"major"`
	Task          string `json:"task"`
	SelfIntroduce string `json:"selfIntroduce"`
}

type profileRequest struct {
	Internships  []string `json:"internships"`
	Awards       []string `json:"awards"`
	Tools        []string `json:"tools"`
	Certificates []string `json:"certificates"`
}

type buyTicketsRequest struct {
	Amount int `json:"amount"`
}

type spendTicketRequest struct {
	PurchaseUserID int64 `json:"purchaseUserId"`
}

type ticketResponse struct {
	TicketCount int `json:"ticketCount"`
}

type ticketCheckResponse struct {
	Used bool `json:"used"`
}

func (a *API) me(w http.ResponseWriter, r *http.Request) error {
	userID, err := subject(r)
	if err != nil {
		return err
	}
	summary, err := a.users.Me(r.Context(), userID)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, summary)
}

func (a *API) updateAccount(w http.ResponseWriter, r *http.Request) error {
	userID, err := subject(r)
	if err != nil {
		return err
	}
	var req accountRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	err = a.users.UpdateAccount(r.Context(), userID, user.AccountInput{
		Username:      req.Username,
		Location:      req.Location,
		Major:         req.Major,
		Task:          req.Task,
		SelfIntroduce: req.SelfIntroduce,
	})
	if err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (a *API) updateProfile(w http.ResponseWriter, r *http.Request) error {
	userID, err := subject(r)
	if err != nil {
		return err
	}
	var req profileRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	err = a.users.UpdateProfile(r.Context(), userID, user.ProfileInput{
		Internships:  req.Internships,
		Awards:       req.Awards,
		Tools:        req.Tools,
		Certificates: req.Certificates,
	})
	if err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (a *API) mypage(w http.ResponseWriter, r *http.Request) error {
	userID, err := subject(r)
	if err != nil {
		return err
	}
	profile, err := a.users.Mypage(r.Context(), userID)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, profile)
}

func (a *API) publicProfile(w http.ResponseWriter, r *http.Request) error {
	userID, err := pathInt64(r, "userId")
	if err != nil {
		return err
	}
	profile, err := a.users.PublicProfile(r.Context(), userID)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, profile)
}

func (a *API) buyTickets(w http.ResponseWriter, r *http.Request) error {
	userID, err := subject(r)
	if err != nil {
		return err
	}
	var req buyTicketsRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	count, err := a.users.BuyTickets(r.Context(), userID, req.Amount)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, ticketResponse{TicketCount: count})
}

func (a *API) ticketCount(w http.ResponseWriter, r *http.Request) error {
	userID, err := subject(r)
	if err != nil {
		return err
	}
	count, err := a.users.TicketCount(r.Context(), userID)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, ticketResponse{TicketCount: count})
}

func (a *API) spendTicket(w http.ResponseWriter, r *http.Request) error {
	userID, err := subject(r)
	if err != nil {
		return err
	}
	var req spendTicketRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	remaining, err := a.users.SpendTicket(r.Context(), userID, req.PurchaseUserID)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, ticketResponse{TicketCount: remaining})
}

func (a *API) checkTicketUsed(w http.ResponseWriter, r *http.Request) error {
	userID, err := subject(r)
	if err != nil {
		return err
	}
	targetID, err := pathInt64(r, "targetUserId")
	if err != nil {
		return err
	}
	used, err := a.users.CheckTicketUsed(r.Context(), userID, targetID)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, ticketCheckResponse{Used: used})
}
