package response

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestHTTPStatus(t *testing.T) {
	cases := map[int]int{
		CodeOK:                  http.StatusOK,
		CodeNotFound:            http.StatusNotFound,
		CodeUnprocessableEntity: http.StatusUnprocessableEntity,
		CodeBadGateway:          http.StatusBadGateway,
		12345:                   http.StatusInternalServerError,
	}
	for code, want := range cases {
		if got := HTTPStatus(code); got != want {
			t.Fatalf("HTTPStatus(%d) want %d got %d", code, want, got)
		}
	}
}

func TestErrorAttachesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set("request_id", "req-42")

	NotFound(c, "order not found")

	if w.Code != http.StatusNotFound {
		t.Fatalf("status want 404 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"request_id":"req-42"`) {
		t.Fatalf("request id should be attached: %s", w.Body.String())
	}
}
