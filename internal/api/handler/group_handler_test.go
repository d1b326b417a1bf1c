package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/comunidades/groups-api/internal/api/middleware"
	"github.com/comunidades/groups-api/internal/core/domain"
	"github.com/comunidades/groups-api/internal/core/ports"
)

type stubGroupService struct {
	listFn   func(ctx context.Context, id *domain.Identity, in ports.ListGroupsInput) (*ports.ListGroupsResult, error)
	createFn func(ctx context.Context, id *domain.Identity, in ports.GroupInput) (*domain.Group, error)
	updateFn func(ctx context.Context, id *domain.Identity, groupID string, in ports.GroupInput) (*domain.Group, error)
}

func (s *stubGroupService) ListGroups(ctx context.Context, id *domain.Identity, in ports.ListGroupsInput) (*ports.ListGroupsResult, error) {
	return s.listFn(ctx, id, in)
}

func (s *stubGroupService) CreateGroup(ctx context.Context, id *domain.Identity, in ports.GroupInput) (*domain.Group, error) {
	return s.createFn(ctx, id, in)
}

func (s *stubGroupService) UpdateGroup(ctx context.Context, id *domain.Identity, groupID string, in ports.GroupInput) (*domain.Group, error) {
	return s.updateFn(ctx, id, groupID, in)
}

var testIdentity = &domain.Identity{UserID: "user-1", DisplayName: "Alice"}

func sampleGroup() *domain.Group {
	city := "São Paulo"
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Group{
		ID:           "3f1c3a4e-0000-4000-8000-000000000001",
		Name:         "Grupo de Corrida Matinal",
		Category:     domain.CategorySports,
		Visibility:   domain.VisibilityPublic,
		JoinPolicy:   domain.JoinPolicyOpen,
		MaxMembers:   500,
		MemberCount:  1,
		LocationCity: &city,
		CreatedBy:    "user-1",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func newJSONContext(method, target, body string, withIdentity bool) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if withIdentity {
		middleware.SetIdentity(c, testIdentity)
	}
	return c, rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp
}

func TestGroupHandler_Create_Success(t *testing.T) {
	var got ports.GroupInput
	stub := &stubGroupService{
		createFn: func(_ context.Context, id *domain.Identity, in ports.GroupInput) (*domain.Group, error) {
			if id.UserID != "user-1" {
				t.Fatalf("unexpected identity: %+v", id)
			}
			got = in
			return sampleGroup(), nil
		},
	}
	handler := NewGroupHandler(stub)

	body := `{"name":"Grupo de Corrida Matinal","category":"sports","description":null,
		"id":"forged","created_by":"someone-else","member_count":99}`
	c, rec := newJSONContext(http.MethodPost, "/api/groups", body, true)

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	if got.Name != ports.Set("Grupo de Corrida Matinal") || got.Category != ports.Set("sports") {
		t.Fatalf("unexpected input: %+v", got)
	}
	if got.Description != ports.Null[string]() {
		t.Fatalf("expected explicit null description, got %+v", got.Description)
	}
	if got.MaxMembers.Present || got.Visibility.Present {
		t.Fatalf("absent keys must stay absent: %+v", got)
	}

	data, ok := decodeBody(t, rec)["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data envelope")
	}
	if data["member_count"] != float64(1) || data["created_by"] != "user-1" || data["join_policy"] != "open" {
		t.Fatalf("unexpected payload: %+v", data)
	}
	if _, ok := data["description"]; !ok || data["description"] != nil {
		t.Fatalf("description must be rendered as null, got %v", data["description"])
	}
}

func TestGroupHandler_Create_InvalidPayloadIsForwarded(t *testing.T) {
	var got ports.GroupInput
	stub := &stubGroupService{
		createFn: func(_ context.Context, _ *domain.Identity, in ports.GroupInput) (*domain.Group, error) {
			got = in
			return nil, domain.NewValidationError("", "invalid payload")
		},
	}
	handler := NewGroupHandler(stub)

	for _, body := range []string{"not-json", `["name"]`} {
		got = ports.GroupInput{}
		c, _ := newJSONContext(http.MethodPost, "/api/groups", body, true)
		err := handler.Create(c)
		var ve *domain.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("%q: expected the service error, got %v", body, err)
		}
		if !got.Malformed {
			t.Fatalf("%q: expected a malformed input, got %+v", body, got)
		}
	}
}

func TestGroupHandler_Create_WrongFieldTypeIsMarked(t *testing.T) {
	var got ports.GroupInput
	stub := &stubGroupService{
		createFn: func(_ context.Context, _ *domain.Identity, in ports.GroupInput) (*domain.Group, error) {
			got = in
			return sampleGroup(), nil
		},
	}
	handler := NewGroupHandler(stub)

	c, _ := newJSONContext(http.MethodPost, "/api/groups", `{"name":123,"category":"sports","max_members":"fifty"}`, true)
	if err := handler.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Name.Mistyped || got.Name.HasValue() {
		t.Fatalf("expected name marked as mistyped, got %+v", got.Name)
	}
	if !got.MaxMembers.Mistyped {
		t.Fatalf("expected max_members marked as mistyped, got %+v", got.MaxMembers)
	}
	if !got.Category.HasValue() || got.Category.Value != "sports" {
		t.Fatalf("expected category decoded, got %+v", got.Category)
	}
}

func TestGroupHandler_Update_DecodeProblemsReachTheService(t *testing.T) {
	var calls int
	stub := &stubGroupService{
		updateFn: func(_ context.Context, _ *domain.Identity, _ string, in ports.GroupInput) (*domain.Group, error) {
			calls++
			return nil, domain.ErrGroupNotFound
		},
	}
	handler := NewGroupHandler(stub)

	for _, body := range []string{`{"name":5}`, "{not json"} {
		c, _ := newJSONContext(http.MethodPut, "/api/groups/missing", body, true)
		c.SetParamNames("id")
		c.SetParamValues("missing")
		if err := handler.Update(c); !errors.Is(err, domain.ErrGroupNotFound) {
			t.Fatalf("%q: expected ErrGroupNotFound, got %v", body, err)
		}
	}
	if calls != 2 {
		t.Fatalf("expected the service to be called for every body, got %d", calls)
	}
}

func TestGroupHandler_Create_Unauthenticated(t *testing.T) {
	stub := &stubGroupService{
		createFn: func(context.Context, *domain.Identity, ports.GroupInput) (*domain.Group, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewGroupHandler(stub)

	c, _ := newJSONContext(http.MethodPost, "/api/groups", `{}`, false)
	if err := handler.Create(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestGroupHandler_Create_ServiceErrorPassesThrough(t *testing.T) {
	stub := &stubGroupService{
		createFn: func(context.Context, *domain.Identity, ports.GroupInput) (*domain.Group, error) {
			return nil, domain.ErrGroupNameTaken
		},
	}
	handler := NewGroupHandler(stub)

	c, _ := newJSONContext(http.MethodPost, "/api/groups", `{"name":"Dup","category":"sports"}`, true)
	if err := handler.Create(c); !errors.Is(err, domain.ErrGroupNameTaken) {
		t.Fatalf("expected ErrGroupNameTaken, got %v", err)
	}
}

func TestGroupHandler_List_ParsesQuery(t *testing.T) {
	var got ports.ListGroupsInput
	stub := &stubGroupService{
		listFn: func(_ context.Context, _ *domain.Identity, in ports.ListGroupsInput) (*ports.ListGroupsResult, error) {
			got = in
			return &ports.ListGroupsResult{
				Items:      []*domain.Group{sampleGroup()},
				Pagination: ports.Pagination{Page: 2, Limit: 10, Total: 25, HasNext: true},
			}, nil
		},
	}
	handler := NewGroupHandler(stub)

	q := url.Values{"category": {"sports"}, "city": {"São Paulo"}, "page": {"2"}, "limit": {"10"}}
	c, rec := newJSONContext(http.MethodGet, "/api/groups?"+q.Encode(), "", true)

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.Category != "sports" || got.City != "São Paulo" || got.Page != ports.Set(2) || got.Limit != ports.Set(10) {
		t.Fatalf("unexpected input: %+v", got)
	}

	resp := decodeBody(t, rec)
	items, ok := resp["data"].([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("expected 1 item, got %v", resp["data"])
	}
	item := items[0].(map[string]any)
	if _, ok := item["join_policy"]; ok {
		t.Error("list items must not carry join_policy")
	}
	if _, ok := item["max_members"]; ok {
		t.Error("list items must not carry max_members")
	}
	pagination := resp["pagination"].(map[string]any)
	if pagination["page"] != float64(2) || pagination["total"] != float64(25) || pagination["hasNext"] != true {
		t.Fatalf("unexpected pagination: %+v", pagination)
	}
}

func TestGroupHandler_List_EmptyRendersArray(t *testing.T) {
	stub := &stubGroupService{
		listFn: func(context.Context, *domain.Identity, ports.ListGroupsInput) (*ports.ListGroupsResult, error) {
			return &ports.ListGroupsResult{Pagination: ports.Pagination{Page: 1, Limit: 20}}, nil
		},
	}
	handler := NewGroupHandler(stub)

	c, rec := newJSONContext(http.MethodGet, "/api/groups", "", true)
	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"data":[]`) {
		t.Fatalf("expected empty array, got %s", rec.Body.String())
	}
}

func TestGroupHandler_List_NonIntegerPagination(t *testing.T) {
	var got ports.ListGroupsInput
	stub := &stubGroupService{
		listFn: func(_ context.Context, _ *domain.Identity, in ports.ListGroupsInput) (*ports.ListGroupsResult, error) {
			got = in
			return nil, domain.NewValidationError("pagination", "invalid pagination: page must be a positive integer")
		},
	}
	handler := NewGroupHandler(stub)

	c, _ := newJSONContext(http.MethodGet, "/api/groups?page=abc", "", true)
	err := handler.List(c)

	if !got.Page.Present || !got.Page.Null {
		t.Fatalf("unparsable page must be forwarded as null, got %+v", got.Page)
	}
	if got.Limit.Present {
		t.Fatalf("absent limit must stay absent, got %+v", got.Limit)
	}
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Field != "pagination" {
		t.Fatalf("expected pagination error, got %v", err)
	}
}

func TestGroupHandler_Update_Success(t *testing.T) {
	var gotID string
	var got ports.GroupInput
	stub := &stubGroupService{
		updateFn: func(_ context.Context, _ *domain.Identity, groupID string, in ports.GroupInput) (*domain.Group, error) {
			gotID, got = groupID, in
			g := sampleGroup()
			g.Name = "Updated Name"
			g.LocationCity = nil
			return g, nil
		},
	}
	handler := NewGroupHandler(stub)

	c, rec := newJSONContext(http.MethodPut, "/api/groups/g-1", `{"name":"Updated Name","location_city":null,"max_members":50}`, true)
	c.SetParamNames("id")
	c.SetParamValues("g-1")

	if err := handler.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotID != "g-1" {
		t.Fatalf("unexpected group id %q", gotID)
	}
	if got.Name != ports.Set("Updated Name") || got.LocationCity != ports.Null[string]() || got.MaxMembers != ports.Set(50) {
		t.Fatalf("unexpected input: %+v", got)
	}
	if got.Description.Present || got.Category.Present {
		t.Fatalf("absent keys must stay absent: %+v", got)
	}

	data := decodeBody(t, rec)["data"].(map[string]any)
	if data["name"] != "Updated Name" || data["location_city"] != nil {
		t.Fatalf("unexpected payload: %+v", data)
	}
}

func TestGroupHandler_Update_EmptyBody(t *testing.T) {
	var got ports.GroupInput
	stub := &stubGroupService{
		updateFn: func(_ context.Context, _ *domain.Identity, _ string, in ports.GroupInput) (*domain.Group, error) {
			got = in
			return sampleGroup(), nil
		},
	}
	handler := NewGroupHandler(stub)

	c, _ := newJSONContext(http.MethodPut, "/api/groups/g-1", `{}`, true)
	c.SetParamNames("id")
	c.SetParamValues("g-1")

	if err := handler.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got != (ports.GroupInput{}) {
		t.Fatalf("expected empty input, got %+v", got)
	}
}

func TestGroupHandler_Update_ServiceErrorPassesThrough(t *testing.T) {
	stub := &stubGroupService{
		updateFn: func(context.Context, *domain.Identity, string, ports.GroupInput) (*domain.Group, error) {
			return nil, domain.ErrGroupNotFound
		},
	}
	handler := NewGroupHandler(stub)

	c, _ := newJSONContext(http.MethodPut, "/api/groups/missing", `{"name":"X"}`, true)
	c.SetParamNames("id")
	c.SetParamValues("missing")

	if err := handler.Update(c); !errors.Is(err, domain.ErrGroupNotFound) {
		t.Fatalf("expected ErrGroupNotFound, got %v", err)
	}
}
