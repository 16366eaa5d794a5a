package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type stubEventController struct {
	handled string
}

func (s *stubEventController) record(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.handled = name
		c.Status(http.StatusOK)
	}
}

func (s *stubEventController) CreateEvent(c *gin.Context)    { s.record("create")(c) }
func (s *stubEventController) GetEvent(c *gin.Context)       { s.record("get")(c) }
func (s *stubEventController) GetEventBySlug(c *gin.Context) { s.record("slug")(c) }
func (s *stubEventController) ListEvents(c *gin.Context)     { s.record("list")(c) }
func (s *stubEventController) JoinEvent(c *gin.Context)      { s.record("join")(c) }
func (s *stubEventController) LeaveEvent(c *gin.Context)     { s.record("leave")(c) }
func (s *stubEventController) GetMembers(c *gin.Context)     { s.record("members")(c) }
func (s *stubEventController) DeleteEvent(c *gin.Context)    { s.record("delete")(c) }

func TestEventRoutesApplyStrictLimiterToCreateAndDelete(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		method  string
		path    string
		limited bool
	}{
		{http.MethodPost, "/api/v1/events", true},
		{http.MethodDelete, "/api/v1/events/evt-1", true},
		{http.MethodGet, "/api/v1/events", false},
		{http.MethodGet, "/api/v1/events/evt-1", false},
	}

	for _, tc := range cases {
		controller := &stubEventController{}
		limiterRan := false
		limiter := func(c *gin.Context) {
			limiterRan = true
			c.Next()
		}

		router := gin.New()
		EventRoutes(router.Group("/api/v1"), controller, limiter)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(tc.method, tc.path, nil)
		router.ServeHTTP(w, req)

		if limiterRan != tc.limited {
			t.Errorf("%s %s: limiter ran = %v, want %v", tc.method, tc.path, limiterRan, tc.limited)
		}
		if controller.handled == "" {
			t.Errorf("%s %s: handler never reached", tc.method, tc.path)
		}
	}
}
