package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kusitms-com/meetupd/internal/db/models"
	"github.com/kusitms-com/meetupd/internal/services/team"
)

type openTeamRequest struct {
	ContestID   string `json:"contestId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Headcount   int    `json:"headcount"`
}

type changeRoleRequest struct {
	Role int `json:"role"`
}

func pageRequest(r *http.Request) (team.PageRequest, error) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		return team.PageRequest{}, err
	}
	size, err := queryInt(r, "size", team.DefaultPageSize)
	if err != nil {
		return team.PageRequest{}, err
	}
	return team.PageRequest{Page: page, Size: size}, nil
}

func (a *API) listTeams(w http.ResponseWriter, r *http.Request) error {
	progress, err := queryInt(r, "progress", models.ProgressRecruiting)
	if err != nil {
		return err
	}
	req, err := pageRequest(r)
	if err != nil {
		return err
	}
	page, err := a.teams.ListTeams(r.Context(), progress, req)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, page)
}

func (a *API) recruitingTeams(w http.ResponseWriter, r *http.Request) error {
	req, err := pageRequest(r)
	if err != nil {
		return err
	}
	page, err := a.teams.RecruitingTeams(r.Context(), req)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, page)
}

func (a *API) contestTeams(w http.ResponseWriter, r *http.Request) error {
	teams, err := a.teams.ContestRecruitingTeams(r.Context(), chi.URLParam(r, "contestId"))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, teams)
}

func (a *API) teamDetail(w http.ResponseWriter, r *http.Request) error {
	teamID, err := pathInt64(r, "teamId")
	if err != nil {
		return err
	}
	view, err := a.teams.TeamDetail(r.Context(), teamID)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, view)
}

func (a *API) openTeam(w http.ResponseWriter, r *http.Request) error {
	userID, err := subject(r)
	if err != nil {
		return err
	}
	var req openTeamRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	view, err := a.teams.OpenTeam(r.Context(), userID, team.OpenTeamInput{
		ContestID:   req.ContestID,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Headcount:   req.Headcount,
	})
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, view)
}

func (a *API) applyTeam(w http.ResponseWriter, r *http.Request) error {
	userID, err := subject(r)
	if err != nil {
		return err
	}
	teamID, err := pathInt64(r, "teamId")
	if err != nil {
		return err
	}
	member, err := a.teams.ApplyTeam(r.Context(), userID, teamID)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, member)
}

func (a *API) changeRole(w http.ResponseWriter, r *http.Request) error {
	userID, err := subject(r)
	if err != nil {
		return err
	}
	teamUserID, err := pathInt64(r, "teamUserId")
	if err != nil {
		return err
	}
	var req changeRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	if err := a.teams.ChangeRole(r.Context(), userID, teamUserID, req.Role); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
