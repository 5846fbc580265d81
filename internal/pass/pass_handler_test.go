package pass_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"hostelpass/internal/actor"
	"hostelpass/internal/pass"
	passerrors "hostelpass/internal/pass/errors"
)

type fakeService struct {
	createFn          func(ctx context.Context, act actor.Context, kind pass.Kind, in pass.CreateInput) (pass.PassResponse, error)
	getAllFn          func(ctx context.Context, act actor.Context, kind pass.Kind) ([]pass.PassResponse, error)
	getByIDFn         func(ctx context.Context, act actor.Context, kind pass.Kind, id string) (pass.PassResponse, error)
	studentUpdateFn   func(ctx context.Context, act actor.Context, kind pass.Kind, id string, in pass.StudentUpdateInput) (pass.PassResponse, error)
	decideFn          func(ctx context.Context, act actor.Context, kind pass.Kind, id string, in pass.DecideInput) (pass.PassResponse, error)
	recordDepartureFn func(ctx context.Context, act actor.Context, kind pass.Kind, id string) (pass.PassResponse, error)
	recordReturnFn    func(ctx context.Context, act actor.Context, kind pass.Kind, id string) (pass.PassResponse, error)
	deleteFn          func(ctx context.Context, act actor.Context, kind pass.Kind, id string) error
	pendingQueueFn    func(ctx context.Context, act actor.Context, kind pass.Kind) ([]pass.PassResponse, error)
}

func (f *fakeService) Create(ctx context.Context, act actor.Context, kind pass.Kind, in pass.CreateInput) (pass.PassResponse, error) {
	return f.createFn(ctx, act, kind, in)
}

func (f *fakeService) GetAll(ctx context.Context, act actor.Context, kind pass.Kind) ([]pass.PassResponse, error) {
	return f.getAllFn(ctx, act, kind)
}

func (f *fakeService) GetByID(ctx context.Context, act actor.Context, kind pass.Kind, id string) (pass.PassResponse, error) {
	return f.getByIDFn(ctx, act, kind, id)
}

func (f *fakeService) StudentUpdate(ctx context.Context, act actor.Context, kind pass.Kind, id string, in pass.StudentUpdateInput) (pass.PassResponse, error) {
	return f.studentUpdateFn(ctx, act, kind, id, in)
}

func (f *fakeService) Decide(ctx context.Context, act actor.Context, kind pass.Kind, id string, in pass.DecideInput) (pass.PassResponse, error) {
	return f.decideFn(ctx, act, kind, id, in)
}

func (f *fakeService) RecordDeparture(ctx context.Context, act actor.Context, kind pass.Kind, id string) (pass.PassResponse, error) {
	return f.recordDepartureFn(ctx, act, kind, id)
}

func (f *fakeService) RecordReturn(ctx context.Context, act actor.Context, kind pass.Kind, id string) (pass.PassResponse, error) {
	return f.recordReturnFn(ctx, act, kind, id)
}

func (f *fakeService) Delete(ctx context.Context, act actor.Context, kind pass.Kind, id string) error {
	return f.deleteFn(ctx, act, kind, id)
}

func (f *fakeService) PendingQueue(ctx context.Context, act actor.Context, kind pass.Kind) ([]pass.PassResponse, error) {
	return f.pendingQueueFn(ctx, act, kind)
}

func newTestContext(t *testing.T, act actor.Context, method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("actor", act)

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	c.Request = httptest.NewRequest(method, target, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func TestPassHandler_Create(t *testing.T) {
	studentID := uuid.New()

	t.Run("success outing create returns 201", func(t *testing.T) {
		svc := &fakeService{
			createFn: func(ctx context.Context, act actor.Context, kind pass.Kind, in pass.CreateInput) (pass.PassResponse, error) {
				assert.Equal(t, pass.KindOuting, kind)
				assert.Equal(t, studentID, act.ID)
				assert.Equal(t, "library run", in.Reason)
				return pass.PassResponse{ID: uuid.NewString(), Status: pass.StatusPending, Purpose: in.Reason}, nil
			},
		}
		h := pass.NewHandler(pass.KindOuting, svc)

		body := `{"out_time":"2026-09-01T10:00:00Z","in_time":"2026-09-01T12:00:00Z","phone_number":"9876543210","purpose":"library run","destination":"city library"}`
		c, w := newTestContext(t, actor.Student(studentID), http.MethodPost, "/api/v1/outings", body)

		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "\"pending\"")
		assert.Contains(t, w.Body.String(), "library run")
	})

	t.Run("negative missing fields returns 400", func(t *testing.T) {
		h := pass.NewHandler(pass.KindLeave, &fakeService{})

		c, w := newTestContext(t, actor.Student(studentID), http.MethodPost, "/api/v1/leaves", `{"reason":"home"}`)

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	})

	t.Run("negative service error maps to http status", func(t *testing.T) {
		svc := &fakeService{
			createFn: func(ctx context.Context, act actor.Context, kind pass.Kind, in pass.CreateInput) (pass.PassResponse, error) {
				return pass.PassResponse{}, passerrors.ErrOutingQuotaExhausted
			},
		}
		h := pass.NewHandler(pass.KindOuting, svc)

		body := `{"out_time":"2026-09-01T10:00:00Z","in_time":"2026-09-01T12:00:00Z","phone_number":"9876543210","purpose":"walk","destination":"park"}`
		c, w := newTestContext(t, actor.Student(studentID), http.MethodPost, "/api/v1/outings", body)

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "no remaining outings")
	})

	t.Run("success caches the response and releases the idempotency lock", func(t *testing.T) {
		resp := pass.PassResponse{ID: uuid.NewString(), Status: pass.StatusPending, Purpose: "library run"}
		svc := &fakeService{
			createFn: func(ctx context.Context, act actor.Context, kind pass.Kind, in pass.CreateInput) (pass.PassResponse, error) {
				return resp, nil
			},
		}
		rdb, redisMock := redismock.NewClientMock()
		h := pass.NewHandlerWithRedis(pass.KindOuting, svc, rdb)

		cacheKey := "idemp:/api/v1/outings:" + studentID.String() + ":req-1"
		lockKey := cacheKey + ":lock"
		payload, err := json.Marshal(resp)
		assert.NoError(t, err)
		redisMock.ExpectSet(cacheKey, payload, 24*time.Hour).SetVal("OK")
		redisMock.ExpectDel(lockKey).SetVal(1)

		body := `{"out_time":"2026-09-01T10:00:00Z","in_time":"2026-09-01T12:00:00Z","phone_number":"9876543210","purpose":"library run","destination":"city library"}`
		c, w := newTestContext(t, actor.Student(studentID), http.MethodPost, "/api/v1/outings", body)
		c.Set("idempotency_cache_key", cacheKey)
		c.Set("idempotency_lock_key", lockKey)

		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("negative failed create releases the lock without caching", func(t *testing.T) {
		svc := &fakeService{
			createFn: func(ctx context.Context, act actor.Context, kind pass.Kind, in pass.CreateInput) (pass.PassResponse, error) {
				return pass.PassResponse{}, passerrors.ErrOutingQuotaExhausted
			},
		}
		rdb, redisMock := redismock.NewClientMock()
		h := pass.NewHandlerWithRedis(pass.KindOuting, svc, rdb)

		lockKey := "idemp:/api/v1/outings:" + studentID.String() + ":req-2:lock"
		redisMock.ExpectDel(lockKey).SetVal(1)

		body := `{"out_time":"2026-09-01T10:00:00Z","in_time":"2026-09-01T12:00:00Z","phone_number":"9876543210","purpose":"walk","destination":"park"}`
		c, w := newTestContext(t, actor.Student(studentID), http.MethodPost, "/api/v1/outings", body)
		c.Set("idempotency_cache_key", "idemp:/api/v1/outings:"+studentID.String()+":req-2")
		c.Set("idempotency_lock_key", lockKey)

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})
}

func TestPassHandler_GetAll(t *testing.T) {
	studentID := uuid.New()

	t.Run("success paginates the result set", func(t *testing.T) {
		all := make([]pass.PassResponse, 25)
		for i := range all {
			all[i] = pass.PassResponse{ID: uuid.NewString(), Status: pass.StatusPending}
		}
		svc := &fakeService{
			getAllFn: func(ctx context.Context, act actor.Context, kind pass.Kind) ([]pass.PassResponse, error) {
				return all, nil
			},
		}
		h := pass.NewHandler(pass.KindLeave, svc)

		c, w := newTestContext(t, actor.Student(studentID), http.MethodGet, "/api/v1/leaves?page=2&page_size=10", "")

		h.GetAll(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "\"meta\"")
		assert.Contains(t, w.Body.String(), "\"total\":25")
		assert.Contains(t, w.Body.String(), "\"page\":2")
	})

	t.Run("success page past the end returns empty data", func(t *testing.T) {
		svc := &fakeService{
			getAllFn: func(ctx context.Context, act actor.Context, kind pass.Kind) ([]pass.PassResponse, error) {
				return []pass.PassResponse{{ID: uuid.NewString()}}, nil
			},
		}
		h := pass.NewHandler(pass.KindLeave, svc)

		c, w := newTestContext(t, actor.Student(studentID), http.MethodGet, "/api/v1/leaves?page=9&page_size=10", "")

		h.GetAll(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "\"data\":[]")
	})
}

func TestPassHandler_Decide(t *testing.T) {
	warden := actor.Admin(uuid.New(), "warden", "")

	t.Run("success decision forwarded to service", func(t *testing.T) {
		var gotID string
		var gotIn pass.DecideInput
		svc := &fakeService{
			decideFn: func(ctx context.Context, act actor.Context, kind pass.Kind, id string, in pass.DecideInput) (pass.PassResponse, error) {
				gotID = id
				gotIn = in
				return pass.PassResponse{ID: id, Status: in.Status}, nil
			},
		}
		h := pass.NewHandler(pass.KindOuting, svc)

		passID := uuid.NewString()
		c, w := newTestContext(t, warden, http.MethodPost, "/api/v1/outings/"+passID+"/decision", `{"status":"rejected","remarks":"mess duty"}`)
		c.Params = gin.Params{{Key: "id", Value: passID}}

		h.Decide(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, passID, gotID)
		assert.Equal(t, pass.StatusRejected, gotIn.Status)
		assert.Equal(t, "mess duty", gotIn.Remarks)
	})

	t.Run("negative unknown status rejected by binding", func(t *testing.T) {
		h := pass.NewHandler(pass.KindOuting, &fakeService{})

		c, w := newTestContext(t, warden, http.MethodPost, "/api/v1/outings/x/decision", `{"status":"approved"}`)

		h.Decide(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	})
}

func TestPassHandler_Movement(t *testing.T) {
	warden := actor.Admin(uuid.New(), "warden", "")
	passID := uuid.NewString()

	t.Run("success checkout", func(t *testing.T) {
		svc := &fakeService{
			recordDepartureFn: func(ctx context.Context, act actor.Context, kind pass.Kind, id string) (pass.PassResponse, error) {
				assert.Equal(t, passID, id)
				out := "2026-09-01T10:05:00Z"
				return pass.PassResponse{ID: id, Status: pass.StatusAccepted, ActualOut: &out}, nil
			},
		}
		h := pass.NewHandler(pass.KindOuting, svc)

		c, w := newTestContext(t, warden, http.MethodPost, "/api/v1/outings/"+passID+"/checkout", "")
		c.Params = gin.Params{{Key: "id", Value: passID}}

		h.RecordDeparture(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "actual_out")
	})

	t.Run("negative checkin before checkout", func(t *testing.T) {
		svc := &fakeService{
			recordReturnFn: func(ctx context.Context, act actor.Context, kind pass.Kind, id string) (pass.PassResponse, error) {
				return pass.PassResponse{}, passerrors.ErrDepartureNotRecorded
			},
		}
		h := pass.NewHandler(pass.KindOuting, svc)

		c, w := newTestContext(t, warden, http.MethodPost, "/api/v1/outings/"+passID+"/checkin", "")
		c.Params = gin.Params{{Key: "id", Value: passID}}

		h.RecordReturn(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "departure must be recorded")
	})
}

func TestPassHandler_Delete(t *testing.T) {
	studentID := uuid.New()

	t.Run("success delete", func(t *testing.T) {
		svc := &fakeService{
			deleteFn: func(ctx context.Context, act actor.Context, kind pass.Kind, id string) error {
				return nil
			},
		}
		h := pass.NewHandler(pass.KindLeave, svc)

		passID := uuid.NewString()
		c, w := newTestContext(t, actor.Student(studentID), http.MethodDelete, "/api/v1/leaves/"+passID, "")
		c.Params = gin.Params{{Key: "id", Value: passID}}

		h.Delete(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "\"deleted\":true")
	})

	t.Run("negative delete on decided request", func(t *testing.T) {
		svc := &fakeService{
			deleteFn: func(ctx context.Context, act actor.Context, kind pass.Kind, id string) error {
				return passerrors.ErrNotPending
			},
		}
		h := pass.NewHandler(pass.KindLeave, svc)

		c, w := newTestContext(t, actor.Student(studentID), http.MethodDelete, "/api/v1/leaves/x", "")

		h.Delete(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "no longer pending")
	})
}
