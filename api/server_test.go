package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/classora/classora-BE/internal/db"
	"github.com/classora/classora-BE/internal/feed"
	"github.com/classora/classora-BE/internal/notifstore"
	"github.com/classora/classora-BE/internal/util"
	"github.com/classora/classora-BE/internal/worker"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

type memoryNotifStore struct {
	mu            sync.Mutex
	notifications map[string]notifstore.Notification
}

func newMemoryNotifStore() *memoryNotifStore {
	return &memoryNotifStore{notifications: make(map[string]notifstore.Notification)}
}

func (s *memoryNotifStore) put(n notifstore.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications[n.ID] = n
}

func (s *memoryNotifStore) ListByRecipient(ctx context.Context, recipientID string, limit int) ([]notifstore.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []notifstore.Notification
	for _, n := range s.notifications {
		if n.RecipientID == recipientID {
			result = append(result, n)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *memoryNotifStore) UnreadCount(ctx context.Context, recipientID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, n := range s.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (s *memoryNotifStore) MarkRead(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n, ok := s.notifications[id]; ok {
		n.IsRead = true
		s.notifications[id] = n
	}
	return nil
}

func (s *memoryNotifStore) MarkAllRead(ctx context.Context, recipientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, n := range s.notifications {
		if n.RecipientID == recipientID {
			n.IsRead = true
			s.notifications[id] = n
		}
	}
	return nil
}

func (s *memoryNotifStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.notifications, id)
	return nil
}

// memoryDomainStore serves the handler tests with empty domain activity.
type memoryDomainStore struct{}

func (memoryDomainStore) GetCourse(ctx context.Context, id string) (db.Course, error) {
	return db.Course{}, db.ErrRecordNotFound
}

func (memoryDomainStore) GetAssignment(ctx context.Context, id string) (db.Assignment, error) {
	return db.Assignment{}, db.ErrRecordNotFound
}

func (memoryDomainStore) GetQuiz(ctx context.Context, id string) (db.Quiz, error) {
	return db.Quiz{}, db.ErrRecordNotFound
}

func (memoryDomainStore) GetUser(ctx context.Context, id string) (db.User, error) {
	return db.User{}, db.ErrRecordNotFound
}

func (memoryDomainStore) ListCourseIDsByOwner(ctx context.Context, ownerID string) ([]string, error) {
	return nil, nil
}

func (memoryDomainStore) ListSubmissionActivityByCourses(ctx context.Context, courseIDs []string, limit int32) ([]db.SubmissionActivity, error) {
	return nil, nil
}

func (memoryDomainStore) ListSubmissionActivityByStudent(ctx context.Context, studentID string, limit int32) ([]db.SubmissionActivity, error) {
	return nil, nil
}

func (memoryDomainStore) GetSubmissionActivity(ctx context.Context, id string) (db.SubmissionActivity, error) {
	return db.SubmissionActivity{}, db.ErrRecordNotFound
}

func (memoryDomainStore) ListQuizAttemptActivityByCourses(ctx context.Context, courseIDs []string, limit int32) ([]db.QuizAttemptActivity, error) {
	return nil, nil
}

func (memoryDomainStore) ListQuizAttemptActivityByStudent(ctx context.Context, studentID string, limit int32) ([]db.QuizAttemptActivity, error) {
	return nil, nil
}

func (memoryDomainStore) GetQuizAttemptActivity(ctx context.Context, id string) (db.QuizAttemptActivity, error) {
	return db.QuizAttemptActivity{}, db.ErrRecordNotFound
}

func (memoryDomainStore) ListEnrollmentActivityByCourses(ctx context.Context, courseIDs []string, limit int32) ([]db.EnrollmentActivity, error) {
	return nil, nil
}

func (memoryDomainStore) ListEnrollmentActivityByStudent(ctx context.Context, studentID string, limit int32) ([]db.EnrollmentActivity, error) {
	return nil, nil
}

func (memoryDomainStore) GetEnrollmentActivity(ctx context.Context, id string) (db.EnrollmentActivity, error) {
	return db.EnrollmentActivity{}, db.ErrRecordNotFound
}

func (memoryDomainStore) Ping(ctx context.Context) error {
	return nil
}

type recordingDistributor struct {
	mu       sync.Mutex
	payloads []*worker.PayloadDeliverNotification
}

func (d *recordingDistributor) DistributeTaskDeliverNotification(ctx context.Context, payload *worker.PayloadDeliverNotification, opts ...asynq.Option) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.payloads = append(d.payloads, payload)
	return nil
}

type testServer struct {
	server       *Server
	notifStore   *memoryNotifStore
	distributor  *recordingDistributor
	feedRegistry *feed.Registry
}

func newTestServer(t *testing.T) *testServer {
	config := &util.Config{
		AllowedOrigins:      []string{"http://localhost:3000"},
		TokenSecretKey:      strings.Repeat("s", 32),
		AccessTokenDuration: time.Hour,
		FeedRefreshInterval: time.Minute,
		FeedWindowSize:      100,
		FeedQueryLimit:      50,
	}

	notifStore := newMemoryNotifStore()
	domain := memoryDomainStore{}

	feedService := feed.NewService(notifStore, domain, nil, feed.ServiceParams{
		WindowSize: config.FeedWindowSize,
		QueryLimit: config.FeedQueryLimit,
		Location:   time.UTC,
	})

	feedRegistry, err := feed.NewRegistry(feedService, config.FeedRefreshInterval)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = feedRegistry.Shutdown()
	})

	mutator := feed.NewMutator(notifStore, feedService)
	distributor := &recordingDistributor{}

	server, err := NewServer(domain, notifStore, feedService, feedRegistry, mutator, distributor, config)
	require.NoError(t, err)

	return &testServer{
		server:       server,
		notifStore:   notifStore,
		distributor:  distributor,
		feedRegistry: feedRegistry,
	}
}

func (ts *testServer) authHeader(t *testing.T, userID, role string) string {
	accessToken, _, err := ts.server.tokenMaker.CreateToken(userID, role, time.Hour)
	require.NoError(t, err)
	return "Bearer " + accessToken
}

func (ts *testServer) do(t *testing.T, method, target, authorization string, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}

	request := httptest.NewRequest(method, target, reader)
	if authorization != "" {
		request.Header.Set("Authorization", authorization)
	}
	if body != "" {
		request.Header.Set("Content-Type", "application/json")
	}

	recorder := httptest.NewRecorder()
	ts.server.router.ServeHTTP(recorder, request)
	return recorder
}

func TestGetUserFeedRequiresAuth(t *testing.T) {
	ts := newTestServer(t)

	recorder := ts.do(t, http.MethodGet, "/v1/users/me/feed", "", "")
	require.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = ts.do(t, http.MethodGet, "/v1/users/me/feed", "Basic abc", "")
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestGetUserFeedReturnsSnapshot(t *testing.T) {
	ts := newTestServer(t)
	ts.notifStore.put(notifstore.Notification{
		ID: "n1", RecipientID: "stu1", Title: "Welcome",
		Category: notifstore.CategoryGeneral, CreatedAt: time.Now(), IsRead: false,
	})

	recorder := ts.do(t, http.MethodGet, "/v1/users/me/feed", ts.authHeader(t, "stu1", "student"), "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var snapshot feed.Snapshot
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &snapshot))
	require.Equal(t, 1, snapshot.TotalCount)
	require.EqualValues(t, 1, snapshot.UnreadCount)
}

func TestGetUserFeedRejectsUnknownRole(t *testing.T) {
	ts := newTestServer(t)

	recorder := ts.do(t, http.MethodGet, "/v1/users/me/feed", ts.authHeader(t, "stu1", "superuser"), "")
	require.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestRefreshUserFeedPicksUpNewNotifications(t *testing.T) {
	ts := newTestServer(t)
	auth := ts.authHeader(t, "stu1", "student")

	recorder := ts.do(t, http.MethodGet, "/v1/users/me/feed", auth, "")
	require.Equal(t, http.StatusOK, recorder.Code)

	ts.notifStore.put(notifstore.Notification{
		ID: "n1", RecipientID: "stu1", Title: "New assignment",
		Category: notifstore.CategoryAssignment, CreatedAt: time.Now(), IsRead: false,
	})

	recorder = ts.do(t, http.MethodPost, "/v1/users/me/feed/refresh", auth, "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var snapshot feed.Snapshot
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &snapshot))
	require.Equal(t, 1, snapshot.TotalCount)
}

func TestMarkReadEndpointUpdatesUnreadCount(t *testing.T) {
	ts := newTestServer(t)
	auth := ts.authHeader(t, "stu1", "student")

	ts.notifStore.put(notifstore.Notification{
		ID: "n1", RecipientID: "stu1", Category: notifstore.CategoryGeneral,
		CreatedAt: time.Now(), IsRead: false,
	})

	recorder := ts.do(t, http.MethodPatch, "/v1/users/me/notifications/n1/read", auth, "")
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = ts.do(t, http.MethodGet, "/v1/users/me/notifications/unread-count", auth, "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		UnreadCount int64 `json:"unread_count"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Zero(t, body.UnreadCount)

	// Marking the same id again is a no-op, not an error.
	recorder = ts.do(t, http.MethodPatch, "/v1/users/me/notifications/n1/read", auth, "")
	require.Equal(t, http.StatusOK, recorder.Code)
}

func TestDeleteNotificationEndpointIsIdempotent(t *testing.T) {
	ts := newTestServer(t)
	auth := ts.authHeader(t, "stu1", "student")

	ts.notifStore.put(notifstore.Notification{
		ID: "n1", RecipientID: "stu1", Category: notifstore.CategoryGeneral,
		CreatedAt: time.Now(), IsRead: false,
	})

	recorder := ts.do(t, http.MethodDelete, "/v1/users/me/notifications/n1", auth, "")
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = ts.do(t, http.MethodDelete, "/v1/users/me/notifications/n1", auth, "")
	require.Equal(t, http.StatusOK, recorder.Code)
}

func TestCreateNotificationEnqueuesDelivery(t *testing.T) {
	ts := newTestServer(t)
	auth := ts.authHeader(t, "grading-service", "instructor")

	body := `{
		"recipient_id": "stu1",
		"title": "Quiz graded",
		"message": "You scored 8/10 on Midterm",
		"category": "grade",
		"actor_id": "teacher1",
		"attempt_id": "A1"
	}`

	recorder := ts.do(t, http.MethodPost, "/v1/notifications", auth, body)
	require.Equal(t, http.StatusAccepted, recorder.Code)

	ts.distributor.mu.Lock()
	defer ts.distributor.mu.Unlock()
	require.Len(t, ts.distributor.payloads, 1)
	require.Equal(t, "stu1", ts.distributor.payloads[0].RecipientID)
	require.NotNil(t, ts.distributor.payloads[0].AttemptID)
	require.Equal(t, "A1", *ts.distributor.payloads[0].AttemptID)
	require.NotNil(t, ts.distributor.payloads[0].ActorID)
	require.Equal(t, "teacher1", *ts.distributor.payloads[0].ActorID)
}

func TestCreateNotificationRejectsIncompleteBody(t *testing.T) {
	ts := newTestServer(t)
	auth := ts.authHeader(t, "grading-service", "instructor")

	recorder := ts.do(t, http.MethodPost, "/v1/notifications", auth, `{"title": "missing fields"}`)
	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t)

	recorder := ts.do(t, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, recorder.Code)
}
