package web

import (
	"net/http"

	"wildsl/internal/model"
)

const (
	groupBoard      = "boardOfficials"
	groupModeration = "moderaTeam"
)

type teamResponse struct {
	model.TeamDocument
	Fallback bool `json:"fallback"`
}

type teamMemberResponse struct {
	model.TeamMember
	Group    string `json:"group"`
	Fallback bool   `json:"fallback"`
}

func (s *Server) renderTeam(r *http.Request) response {
	doc, fallback := s.docs.Team(r.Context())
	if doc.BoardOfficials == nil {
		doc.BoardOfficials = []model.TeamMember{}
	}
	if doc.ModerationTeam == nil {
		doc.ModerationTeam = []model.TeamMember{}
	}
	return jsonResponse(http.StatusOK, teamResponse{TeamDocument: doc, Fallback: fallback})
}

// renderTeamMember serves GET /api/team/{id}. Board officials are searched
// first.
func (s *Server) renderTeamMember(r *http.Request) response {
	id := model.ID(r.PathValue("id"))
	doc, fallback := s.docs.Team(r.Context())

	groups := []struct {
		name    string
		members []model.TeamMember
	}{
		{groupBoard, doc.BoardOfficials},
		{groupModeration, doc.ModerationTeam},
	}
	for _, g := range groups {
		for _, m := range g.members {
			if m.ID == id {
				return jsonResponse(http.StatusOK, teamMemberResponse{TeamMember: m, Group: g.name, Fallback: fallback})
			}
		}
	}
	return errorResponse(http.StatusNotFound, "team member not found")
}
