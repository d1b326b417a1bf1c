package handler

import (
	"time"

	"github.com/comunidades/groups-api/internal/core/domain"
	"github.com/comunidades/groups-api/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// groupRequest documents the create / update body. The handler decodes the
// raw JSON itself so it can tell absent keys from explicit nulls.
type groupRequest struct {
	Name          string  `json:"name" example:"Grupo de Corrida Matinal"`
	Description   *string `json:"description" example:"Corridas no parque aos sábados"`
	Category      string  `json:"category" example:"sports"`
	Visibility    string  `json:"visibility" example:"public"`
	JoinPolicy    string  `json:"join_policy" example:"open"`
	MaxMembers    int     `json:"max_members" example:"50"`
	LocationCity  *string `json:"location_city" example:"São Paulo"`
	LocationState *string `json:"location_state" example:"SP"`
}

type groupResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description"`
	Category      string    `json:"category"`
	Visibility    string    `json:"visibility"`
	JoinPolicy    string    `json:"join_policy"`
	MaxMembers    int       `json:"max_members"`
	MemberCount   int       `json:"member_count"`
	LocationCity  *string   `json:"location_city"`
	LocationState *string   `json:"location_state"`
	CreatedBy     string    `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// groupListItem is the summary shape used in listings.
type groupListItem struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description"`
	Category      string    `json:"category"`
	Visibility    string    `json:"visibility"`
	MemberCount   int       `json:"member_count"`
	LocationCity  *string   `json:"location_city"`
	LocationState *string   `json:"location_state"`
	CreatedBy     string    `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type paginationResponse struct {
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Total   int64 `json:"total"`
	HasNext bool  `json:"hasNext"`
}

type groupEnvelope struct {
	Data groupResponse `json:"data"`
}

type groupListEnvelope struct {
	Data       []groupListItem    `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

func toGroupResponse(g *domain.Group) groupResponse {
	return groupResponse{
		ID:            g.ID,
		Name:          g.Name,
		Description:   g.Description,
		Category:      string(g.Category),
		Visibility:    string(g.Visibility),
		JoinPolicy:    string(g.JoinPolicy),
		MaxMembers:    g.MaxMembers,
		MemberCount:   g.MemberCount,
		LocationCity:  g.LocationCity,
		LocationState: g.LocationState,
		CreatedBy:     g.CreatedBy,
		CreatedAt:     g.CreatedAt,
		UpdatedAt:     g.UpdatedAt,
	}
}

func toGroupListEnvelope(res *ports.ListGroupsResult) groupListEnvelope {
	items := make([]groupListItem, 0, len(res.Items))
	for _, g := range res.Items {
		items = append(items, groupListItem{
			ID:            g.ID,
			Name:          g.Name,
			Description:   g.Description,
			Category:      string(g.Category),
			Visibility:    string(g.Visibility),
			MemberCount:   g.MemberCount,
			LocationCity:  g.LocationCity,
			LocationState: g.LocationState,
			CreatedBy:     g.CreatedBy,
			CreatedAt:     g.CreatedAt,
			UpdatedAt:     g.UpdatedAt,
		})
	}
	return groupListEnvelope{
		Data: items,
		Pagination: paginationResponse{
			Page:    res.Pagination.Page,
			Limit:   res.Pagination.Limit,
			Total:   res.Pagination.Total,
			HasNext: res.Pagination.HasNext,
		},
	}
}
