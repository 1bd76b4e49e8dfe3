package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"eventlisting/internal/domain"
)

type mockUserRepo struct {
	users map[string]*domain.User
	err   error
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	if m.err != nil {
		return m.err
	}
	u.ID = fmt.Sprintf("user-%d", len(m.users)+1)
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) ExistsByID(ctx context.Context, id string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.users[id]
	return ok, nil
}

func (m *mockUserRepo) List(ctx context.Context, ids []string, params domain.PaginationParams) ([]*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	users := make([]*domain.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

type mockCategoryRepo struct {
	categories map[string]*domain.Category
	err        error
}

func (m *mockCategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	if m.err != nil {
		return m.err
	}
	for _, existing := range m.categories {
		if existing.Name == c.Name {
			return domain.ErrDuplicateCategoryName
		}
	}
	c.ID = fmt.Sprintf("cat-%d", len(m.categories)+1)
	m.categories[c.ID] = c
	return nil
}

func (m *mockCategoryRepo) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	if m.err != nil {
		return nil, m.err
	}
	c, ok := m.categories[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (m *mockCategoryRepo) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Category, error) {
	categories := make([]*domain.Category, 0, len(m.categories))
	for _, c := range m.categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

func (m *mockCategoryRepo) Update(ctx context.Context, c *domain.Category) error {
	if _, ok := m.categories[c.ID]; !ok {
		return domain.ErrNotFound
	}
	m.categories[c.ID] = c
	return nil
}

func (m *mockCategoryRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.categories[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.categories, id)
	return nil
}

type mockEventRepo struct {
	events map[string]*domain.Event
	err    error
}

func (m *mockEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if m.err != nil {
		return m.err
	}
	e.ID = fmt.Sprintf("ev-%d", len(m.events)+1)
	m.events[e.ID] = e
	return nil
}

func (m *mockEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	e, ok := m.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

func (m *mockEventRepo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Event, error) {
	return m.GetByID(ctx, id)
}

func (m *mockEventRepo) GetByInitiatorAndID(ctx context.Context, initiatorID, id string) (*domain.Event, error) {
	e, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.InitiatorID != initiatorID {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

func (m *mockEventRepo) GetByIDAndState(ctx context.Context, id string, state domain.EventState) (*domain.Event, error) {
	e, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.State != state {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

func (m *mockEventRepo) ListByInitiator(ctx context.Context, initiatorID string, params domain.PaginationParams) ([]*domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	events := make([]*domain.Event, 0)
	for _, e := range m.events {
		if e.InitiatorID == initiatorID {
			events = append(events, e)
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].ID < events[j].ID })
	return events, nil
}

func (m *mockEventRepo) ListByIDs(ctx context.Context, ids []string) ([]*domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	events := make([]*domain.Event, 0)
	for _, id := range ids {
		if e, ok := m.events[id]; ok {
			events = append(events, e)
		}
	}
	return events, nil
}

func (m *mockEventRepo) SearchAdmin(ctx context.Context, filter domain.AdminEventFilter) ([]*domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	events := make([]*domain.Event, 0, len(m.events))
	for _, e := range m.events {
		events = append(events, e)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].ID < events[j].ID })
	return events, nil
}

func (m *mockEventRepo) SearchPublished(ctx context.Context, filter domain.PublicEventFilter) ([]*domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	events := make([]*domain.Event, 0)
	for _, e := range m.events {
		if e.State == domain.EventStatePublished {
			events = append(events, e)
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].ID < events[j].ID })
	return events, nil
}

func (m *mockEventRepo) Update(ctx context.Context, e *domain.Event) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.events[e.ID]; !ok {
		return domain.ErrNotFound
	}
	m.events[e.ID] = e
	return nil
}

func (m *mockEventRepo) ExistsByCategory(ctx context.Context, categoryID string) (bool, error) {
	for _, e := range m.events {
		if e.CategoryID == categoryID {
			return true, nil
		}
	}
	return false, nil
}

type mockRequestRepo struct {
	requests map[string]*domain.ParticipationRequest
	nextID   int
	err      error
}

func newMockRequestRepo(requests ...*domain.ParticipationRequest) *mockRequestRepo {
	m := &mockRequestRepo{requests: make(map[string]*domain.ParticipationRequest)}
	for _, req := range requests {
		m.requests[req.ID] = req
	}
	return m
}

func (m *mockRequestRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (m *mockRequestRepo) Create(ctx context.Context, req *domain.ParticipationRequest) error {
	if m.err != nil {
		return m.err
	}
	for _, existing := range m.requests {
		if existing.RequesterID == req.RequesterID && existing.EventID == req.EventID &&
			existing.Status != domain.RequestStatusCanceled {
			return domain.ErrDuplicateRequest
		}
	}
	m.nextID++
	req.ID = fmt.Sprintf("req-%d", m.nextID)
	m.requests[req.ID] = req
	return nil
}

func (m *mockRequestRepo) GetByIDAndRequester(ctx context.Context, id, requesterID string) (*domain.ParticipationRequest, error) {
	req, ok := m.requests[id]
	if !ok || req.RequesterID != requesterID {
		return nil, domain.ErrNotFound
	}
	return req, nil
}

func (m *mockRequestRepo) sorted(keep func(*domain.ParticipationRequest) bool) []*domain.ParticipationRequest {
	out := make([]*domain.ParticipationRequest, 0)
	for _, req := range m.requests {
		if keep(req) {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *mockRequestRepo) ListByRequester(ctx context.Context, requesterID string) ([]*domain.ParticipationRequest, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.sorted(func(r *domain.ParticipationRequest) bool { return r.RequesterID == requesterID }), nil
}

func (m *mockRequestRepo) ListByEvent(ctx context.Context, eventID string) ([]*domain.ParticipationRequest, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.sorted(func(r *domain.ParticipationRequest) bool { return r.EventID == eventID }), nil
}

func (m *mockRequestRepo) ListByEventAndIDs(ctx context.Context, eventID string, ids []string) ([]*domain.ParticipationRequest, error) {
	if m.err != nil {
		return nil, m.err
	}
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	return m.sorted(func(r *domain.ParticipationRequest) bool {
		return r.EventID == eventID && wanted[r.ID]
	}), nil
}

func (m *mockRequestRepo) ListPendingByEventExcluding(ctx context.Context, eventID string, excluded []string) ([]*domain.ParticipationRequest, error) {
	skip := make(map[string]bool, len(excluded))
	for _, id := range excluded {
		skip[id] = true
	}
	return m.sorted(func(r *domain.ParticipationRequest) bool {
		return r.EventID == eventID && r.Status == domain.RequestStatusPending && !skip[r.ID]
	}), nil
}

func (m *mockRequestRepo) CountByEventAndStatus(ctx context.Context, eventID string, status domain.RequestStatus) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	var count int64
	for _, req := range m.requests {
		if req.EventID == eventID && req.Status == status {
			count++
		}
	}
	return count, nil
}

func (m *mockRequestRepo) CountConfirmedByEvents(ctx context.Context, eventIDs []string) (map[string]int64, error) {
	if m.err != nil {
		return nil, m.err
	}
	counts := make(map[string]int64)
	for _, id := range eventIDs {
		for _, req := range m.requests {
			if req.EventID == id && req.Status == domain.RequestStatusConfirmed {
				counts[id]++
			}
		}
	}
	return counts, nil
}

func (m *mockRequestRepo) ExistsActiveByRequesterAndEvent(ctx context.Context, requesterID, eventID string) (bool, error) {
	for _, req := range m.requests {
		if req.RequesterID == requesterID && req.EventID == eventID &&
			req.Status != domain.RequestStatusCanceled {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRequestRepo) UpdateStatus(ctx context.Context, id string, status domain.RequestStatus) error {
	req, ok := m.requests[id]
	if !ok {
		return domain.ErrNotFound
	}
	req.Status = status
	return nil
}

type mockCompilationRepo struct {
	compilations map[string]*domain.Compilation
	err          error
}

func (m *mockCompilationRepo) Create(ctx context.Context, comp *domain.Compilation) error {
	if m.err != nil {
		return m.err
	}
	comp.ID = fmt.Sprintf("comp-%d", len(m.compilations)+1)
	m.compilations[comp.ID] = comp
	return nil
}

func (m *mockCompilationRepo) GetByID(ctx context.Context, id string) (*domain.Compilation, error) {
	comp, ok := m.compilations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return comp, nil
}

func (m *mockCompilationRepo) List(ctx context.Context, pinned *bool, params domain.PaginationParams) ([]*domain.Compilation, error) {
	out := make([]*domain.Compilation, 0)
	for _, comp := range m.compilations {
		if pinned == nil || comp.Pinned == *pinned {
			out = append(out, comp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockCompilationRepo) Update(ctx context.Context, comp *domain.Compilation) error {
	if _, ok := m.compilations[comp.ID]; !ok {
		return domain.ErrNotFound
	}
	m.compilations[comp.ID] = comp
	return nil
}

func (m *mockCompilationRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.compilations[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.compilations, id)
	return nil
}

type mockCommentRepo struct {
	comments map[string]*domain.Comment
	err      error
}

func (m *mockCommentRepo) Create(ctx context.Context, c *domain.Comment) error {
	if m.err != nil {
		return m.err
	}
	c.ID = fmt.Sprintf("com-%d", len(m.comments)+1)
	m.comments[c.ID] = c
	return nil
}

func (m *mockCommentRepo) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	c, ok := m.comments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (m *mockCommentRepo) ListByEvent(ctx context.Context, eventID string, params domain.PaginationParams) ([]*domain.Comment, error) {
	out := make([]*domain.Comment, 0)
	for _, c := range m.comments {
		if c.EventID == eventID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockCommentRepo) ListByAuthor(ctx context.Context, authorID string, params domain.PaginationParams) ([]*domain.Comment, error) {
	out := make([]*domain.Comment, 0)
	for _, c := range m.comments {
		if c.AuthorID == authorID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockCommentRepo) Update(ctx context.Context, c *domain.Comment) error {
	if _, ok := m.comments[c.ID]; !ok {
		return domain.ErrNotFound
	}
	m.comments[c.ID] = c
	return nil
}

func (m *mockCommentRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.comments[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.comments, id)
	return nil
}

type mockStatsClient struct {
	hits  []string
	stats []domain.ViewStats
	err   error
}

func (m *mockStatsClient) Hit(ctx context.Context, uri, ip string, timestamp time.Time) {
	m.hits = append(m.hits, uri)
}

func (m *mockStatsClient) GetStats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]domain.ViewStats, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.stats, nil
}

type sentNotification struct {
	email  string
	status domain.RequestStatus
}

type mockNotifier struct {
	sent []sentNotification
}

func (m *mockNotifier) NotifyRequestStatus(ctx context.Context, data *domain.RequestStatusEmailData) {
	m.sent = append(m.sent, sentNotification{email: data.Email, status: data.Status})
}
