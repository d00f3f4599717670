package services

import (
	"context"
	"sort"
	"sync"

	"github.com/anonto42/nano-social/backend/internal/models"
	apperrors "github.com/anonto42/nano-social/backend/pkg/errors"
	"github.com/anonto42/nano-social/backend/pkg/firebase"
)

// Mock implementations for testing

type fakeUserRepo struct {
	mu        sync.Mutex
	users     map[string]*models.User
	upsertErr error
	updateErr error
	getErr    error
}

func newFakeUserRepo(users ...models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*models.User)}
	for i := range users {
		u := users[i]
		r.users[u.ID] = &u
	}
	return r
}

func (r *fakeUserRepo) UpsertUser(ctx context.Context, user *models.User) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u := *user
	r.users[user.ID] = &u
	return nil
}

func (r *fakeUserRepo) UpdateUser(ctx context.Context, id string, changes map[string]interface{}) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return apperrors.NewNotFound("user", id)
	}
	for k, v := range changes {
		switch k {
		case "bio":
			s := v.(string)
			u.Bio = &s
		case "is_influencer":
			u.IsInfluencer = v.(bool)
		case "banner_url":
			s := v.(string)
			u.BannerURL = &s
		case "banner_id":
			s := v.(string)
			u.BannerID = &s
		case "first_name":
			u.FirstName = v.(string)
		case "username":
			u.Username = v.(string)
		}
	}
	return nil
}

func (r *fakeUserRepo) GetUserByID(ctx context.Context, id string) (*models.UserProfile, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.NewNotFound("user", id)
	}
	p := u.ToProfile()
	return &p, nil
}

func (r *fakeUserRepo) DeleteUser(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return apperrors.NewNotFound("user", id)
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) ListUsersExcluding(ctx context.Context, excludedIDs []string) ([]models.UserSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	excluded := make(map[string]bool)
	for _, id := range excludedIDs {
		excluded[id] = true
	}
	out := []models.UserSummary{}
	for id, u := range r.users {
		if !excluded[id] {
			out = append(out, u.ToSummary())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeUserRepo) SearchUsers(ctx context.Context, query string, isInfluencer *bool, limit int) ([]models.UserSummary, error) {
	return nil, nil
}

type searchCall struct {
	query        string
	isInfluencer *bool
	limit        int
}

type recordingSearchRepo struct {
	fakeUserRepo
	calls []searchCall
	err   error
}

func (r *recordingSearchRepo) SearchUsers(ctx context.Context, query string, isInfluencer *bool, limit int) ([]models.UserSummary, error) {
	r.calls = append(r.calls, searchCall{query: query, isInfluencer: isInfluencer, limit: limit})
	return []models.UserSummary{}, r.err
}

type edge struct{ from, to string }

type fakeFollowRepo struct {
	mu        sync.Mutex
	edges     map[edge]bool
	createErr error
	listErr   error
}

func newFakeFollowRepo() *fakeFollowRepo {
	return &fakeFollowRepo{edges: make(map[edge]bool)}
}

func (r *fakeFollowRepo) CreateFollow(ctx context.Context, followerID, followingID string) (bool, error) {
	if r.createErr != nil {
		return false, r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e := edge{followerID, followingID}
	if r.edges[e] {
		return false, nil
	}
	r.edges[e] = true
	return true, nil
}

func (r *fakeFollowRepo) DeleteFollow(ctx context.Context, followerID, followingID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := edge{followerID, followingID}
	if !r.edges[e] {
		return 0, nil
	}
	delete(r.edges, e)
	return 1, nil
}

func (r *fakeFollowRepo) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.edges[edge{followerID, followingID}], nil
}

func (r *fakeFollowRepo) GetFollowers(ctx context.Context, userID string) ([]models.FollowEdge, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.FollowEdge{}
	for e := range r.edges {
		if e.to == userID {
			out = append(out, models.FollowEdge{FollowerID: e.from, FollowingID: e.to})
		}
	}
	return out, nil
}

func (r *fakeFollowRepo) GetFollowing(ctx context.Context, userID string) ([]models.FollowEdge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.FollowEdge{}
	for e := range r.edges {
		if e.from == userID {
			out = append(out, models.FollowEdge{FollowerID: e.from, FollowingID: e.to})
		}
	}
	return out, nil
}

func (r *fakeFollowRepo) GetFollowingIDs(ctx context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []string{}
	for e := range r.edges {
		if e.from == userID {
			out = append(out, e.to)
		}
	}
	return out, nil
}

type fakeNotificationRepo struct {
	created   []models.Notification
	createErr error
}

func (r *fakeNotificationRepo) CreateNotification(ctx context.Context, n *models.Notification) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, *n)
	return nil
}

func (r *fakeNotificationRepo) GetByRecipientID(ctx context.Context, recipientID string, page, limit int) ([]models.Notification, int64, error) {
	return nil, 0, nil
}

func (r *fakeNotificationRepo) GetUnreadCount(ctx context.Context, recipientID string) (int64, error) {
	return 0, nil
}

func (r *fakeNotificationRepo) MarkAllAsRead(ctx context.Context, recipientID string) error {
	return nil
}

type fakeMedia struct {
	uploaded  []string
	deleted   []string
	uploadErr error
	deleteErr error
}

func (m *fakeMedia) UploadFile(ctx context.Context, blob []byte, path string) (*firebase.UploadResult, error) {
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	m.uploaded = append(m.uploaded, path)
	return &firebase.UploadResult{PublicID: path, SecureURL: "https://cdn.example.com/" + path}, nil
}

func (m *fakeMedia) DeleteFile(ctx context.Context, publicID string) error {
	m.deleted = append(m.deleted, publicID)
	return m.deleteErr
}

type fakeTrendRepo struct {
	trends []models.Trend
	err    error
	calls  int
}

func (r *fakeTrendRepo) PopularTrends(ctx context.Context, limit int) ([]models.Trend, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	if len(r.trends) > limit {
		return r.trends[:limit], nil
	}
	return r.trends, nil
}
