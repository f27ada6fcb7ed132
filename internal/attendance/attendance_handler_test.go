package attendance_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-attendance/internal/attendance"
	attendanceerrors "go-attendance/internal/attendance/errors"
	"go-attendance/internal/domain"
	"go-attendance/internal/middleware"
	"go-attendance/internal/shared/apperror"
	"go-attendance/internal/shared/i18n"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	recordFn func(ctx context.Context, caller domain.Caller, req attendance.RecordAttendanceRequest) (attendance.RecordAttendanceResponse, error)
	listFn   func(ctx context.Context, caller domain.Caller, limit int) ([]attendance.LogResponse, error)
	exportFn func(ctx context.Context, caller domain.Caller) ([]byte, error)
}

func (f *fakeService) RecordAttendance(ctx context.Context, caller domain.Caller, req attendance.RecordAttendanceRequest) (attendance.RecordAttendanceResponse, error) {
	return f.recordFn(ctx, caller, req)
}
func (f *fakeService) ListLogs(ctx context.Context, caller domain.Caller, limit int) ([]attendance.LogResponse, error) {
	return f.listFn(ctx, caller, limit)
}
func (f *fakeService) ExportCSV(ctx context.Context, caller domain.Caller) ([]byte, error) {
	return f.exportFn(ctx, caller)
}

func setupRouter(svc attendance.Service, mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	apperror.Init()
	h := attendance.NewHandler(svc)
	r := gin.New()
	r.Use(mw...)
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, "uid-1")
		c.Set(middleware.ContextName, "Alice")
		c.Next()
	})
	r.POST("/attendance", h.RecordAttendance)
	r.GET("/attendance", h.ListLogs)
	r.GET("/attendance/export", h.ExportCSV)
	return r
}

func TestHandler_RecordAttendance(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeService{recordFn: func(ctx context.Context, caller domain.Caller, req attendance.RecordAttendanceRequest) (attendance.RecordAttendanceResponse, error) {
			assert.Equal(t, "uid-1", caller.UID)
			assert.Equal(t, "Alice", caller.Name)
			assert.Equal(t, "clock_in", req.Type)
			return attendance.RecordAttendanceResponse{Success: true, Message: "出勤しました"}, nil
		}}

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/attendance", bytes.NewBufferString(`{"type":"clock_in","companyId":"c1"}`))
		req.Header.Set("Content-Type", "application/json")
		setupRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		var body map[string]any
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		data := body["data"].(map[string]any)
		assert.Equal(t, true, data["success"])
		assert.Equal(t, "出勤しました", data["message"])
	})

	t.Run("missing companyId", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/attendance", bytes.NewBufferString(`{"type":"clock_in"}`))
		req.Header.Set("Content-Type", "application/json")
		setupRouter(&fakeService{}).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"code":"invalid-argument"`)
	})

	t.Run("double clock in", func(t *testing.T) {
		svc := &fakeService{recordFn: func(context.Context, domain.Caller, attendance.RecordAttendanceRequest) (attendance.RecordAttendanceResponse, error) {
			return attendance.RecordAttendanceResponse{}, attendanceerrors.ErrAlreadyClockedIn
		}}

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/attendance", bytes.NewBufferString(`{"type":"clock_in","companyId":"c1"}`))
		req.Header.Set("Content-Type", "application/json")
		setupRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusPreconditionFailed, w.Code)
		assert.Contains(t, w.Body.String(), `"code":"failed-precondition"`)
	})
}

func TestHandler_RecordAttendance_LocalizedErrors(t *testing.T) {
	tests := []struct {
		name           string
		acceptLanguage string
		err            error
		wantMessage    string
	}{
		{"no clock-in in default language", "", attendanceerrors.ErrNoClockIn, "出勤記録が見つかりません。"},
		{"double clock-out in default language", "", attendanceerrors.ErrAlreadyClockedOut, "既に退勤しています（二重退勤はできません）。"},
		{"no clock-in in english", "en-US,en;q=0.9", attendanceerrors.ErrNoClockIn, "No clock-in record found"},
		{"company mismatch in japanese", "ja", attendanceerrors.ErrCompanyMismatch, "この会社には所属していません。"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{recordFn: func(context.Context, domain.Caller, attendance.RecordAttendanceRequest) (attendance.RecordAttendanceResponse, error) {
				return attendance.RecordAttendanceResponse{}, tt.err
			}}
			r := setupRouter(svc, middleware.Language(i18n.New("ja")))

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/attendance", bytes.NewBufferString(`{"type":"clock_out","companyId":"c1"}`))
			req.Header.Set("Content-Type", "application/json")
			if tt.acceptLanguage != "" {
				req.Header.Set("Accept-Language", tt.acceptLanguage)
			}
			r.ServeHTTP(w, req)

			var body struct {
				Error struct {
					Code    string `json:"code"`
					Message string `json:"message"`
				} `json:"error"`
			}
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, apperror.CodeOf(tt.err), body.Error.Code)
			assert.Equal(t, tt.wantMessage, body.Error.Message)
		})
	}
}

func TestHandler_ListLogs(t *testing.T) {
	svc := &fakeService{listFn: func(ctx context.Context, caller domain.Caller, limit int) ([]attendance.LogResponse, error) {
		assert.Equal(t, 20, limit)
		return []attendance.LogResponse{{ID: "a1", Type: "clock_in"}}, nil
	}}

	w := httptest.NewRecorder()
	setupRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/attendance?limit=20", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"a1"`)
}

func TestHandler_ExportCSV(t *testing.T) {
	svc := &fakeService{exportFn: func(ctx context.Context, caller domain.Caller) ([]byte, error) {
		return []byte("\ufeffname,type,time\n"), nil
	}}

	w := httptest.NewRecorder()
	setupRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/attendance/export", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attendance.csv")
	assert.Equal(t, "\ufeffname,type,time\n", w.Body.String())
}
