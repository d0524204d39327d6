package delivery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	emaildomain "github.com/itsprade/good-morning/internal/email/domain"
	"github.com/itsprade/good-morning/internal/email/usecase"
	taskdomain "github.com/itsprade/good-morning/internal/task/domain"
	"github.com/itsprade/good-morning/pkg/apperror"
)

type MockEmailActionUsecase struct {
	ConvertFunc func(userID, actionID string) (*taskdomain.Task, error)
	DismissFunc func(userID, actionID string) (*emaildomain.EmailAction, error)
}

func (m *MockEmailActionUsecase) SyncMail(context.Context, string) (*usecase.MailSyncResult, error) {
	return nil, nil
}
func (m *MockEmailActionUsecase) ListSuggestions(string, int) ([]*emaildomain.EmailAction, error) {
	return nil, nil
}
func (m *MockEmailActionUsecase) CountSuggestions(string) (int64, error) { return 0, nil }
func (m *MockEmailActionUsecase) Convert(userID, actionID string) (*taskdomain.Task, error) {
	return m.ConvertFunc(userID, actionID)
}
func (m *MockEmailActionUsecase) Dismiss(userID, actionID string) (*emaildomain.EmailAction, error) {
	return m.DismissFunc(userID, actionID)
}

func TestConvertStatusCodes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"converted", nil, http.StatusOK},
		{"missing", apperror.NotFound("email action"), http.StatusNotFound},
		{"already dismissed", apperror.InvalidState("email action is already dismissed"), http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewEmailActionHandler(&MockEmailActionUsecase{
				ConvertFunc: func(string, string) (*taskdomain.Task, error) {
					if tt.err != nil {
						return nil, tt.err
					}
					return &taskdomain.Task{ID: "t1"}, nil
				},
			})
			r := gin.New()
			r.POST("/email-actions/:id/convert", h.Convert)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/email-actions/a1/convert", nil))
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestListSuggestionsRejectsBadLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewEmailActionHandler(&MockEmailActionUsecase{})
	r := gin.New()
	r.GET("/email-actions", h.ListSuggestions)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/email-actions?limit=abc", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/email-actions", nil))
	if w.Code != http.StatusOK || w.Body.String() != `{"emailActions":[]}` {
		t.Errorf("status = %d body = %s", w.Code, w.Body.String())
	}
}
