// internal/handlers/bgg.go
package handlers

import (
	"net/http"
)

type bggSearchGame struct {
	BggID         int      `json:"bgg_id"`
	Name          string   `json:"name"`
	YearPublished *int     `json:"yearpublished,omitempty"`
	Rank          *int     `json:"rank,omitempty"`
	BayesAverage  *float64 `json:"bayesaverage,omitempty"`
	UsersRated    *int     `json:"usersrated,omitempty"`
	Image         string   `json:"image,omitempty"`
	Thumbnail     string   `json:"thumbnail,omitempty"`
}

type bggSearchResponse struct {
	Games []bggSearchGame `json:"games"`
}

// BGGSearchHandler answers GET /bgg/search?name=&exact= against the live
// BGG API. Each search hit is followed by a detail lookup so the response
// carries the world rank and image URLs, not just names.
func (s *APIServer) BGGSearchHandler(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	exact := r.URL.Query().Get("exact") == "true"

	found, err := s.BGG.Search(r.Context(), name, exact)
	if err != nil {
		s.Logger.Warnf("bgg search %q: %v", name, err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	games := make([]bggSearchGame, 0, len(found))
	for _, hit := range found {
		detail, err := s.BGG.Thing(r.Context(), hit.BggID)
		if err != nil {
			s.Logger.Warnf("bgg search %q: detail for %d: %v", name, hit.BggID, err)
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		games = append(games, bggSearchGame{
			BggID:         detail.BggID,
			Name:          detail.Name,
			YearPublished: detail.YearPublished,
			Rank:          detail.Rank,
			BayesAverage:  detail.BayesAverage,
			UsersRated:    detail.UsersRated,
			Image:         detail.Image,
			Thumbnail:     detail.Thumbnail,
		})
	}
	writeJSON(w, http.StatusOK, bggSearchResponse{Games: games})
}
