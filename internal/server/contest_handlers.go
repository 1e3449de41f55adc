package server

import (
	"net/http"
)

func (a *API) searchContests(w http.ResponseWriter, r *http.Request) error {
	category, err := queryOptionalInt(r, "type")
	if err != nil {
		return err
	}
	contests, err := a.contests.Search(r.Context(), category)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, contests)
}

func (a *API) contestCategories(w http.ResponseWriter, _ *http.Request) error {
	return writeJSON(w, http.StatusOK, a.contests.Categories())
}

func (a *API) contestDetail(w http.ResponseWriter, r *http.Request) error {
	view, err := a.contests.Detail(r.Context(), r.URL.Query().Get("contestId"))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, view)
}

func (a *API) recommendedContests(w http.ResponseWriter, r *http.Request) error {
	contests, err := a.contests.Recommendations(r.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, contests)
}
