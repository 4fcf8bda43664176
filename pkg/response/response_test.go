package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	ErrorWithDetails(c, http.StatusConflict, 30001, "该值班已完成", "AlreadyCompleted")

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		t.Fatal(err)
	}
	if _, ok := raw["data"]; ok {
		t.Error("错误响应不应包含 data 字段")
	}
	if raw["details"] != "AlreadyCompleted" {
		t.Errorf("expected details AlreadyCompleted, got %v", raw["details"])
	}

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	OK(c, nil)
	raw = nil
	_ = json.Unmarshal(w.Body.Bytes(), &raw)
	if raw["code"] != float64(0) || raw["message"] != "success" {
		t.Errorf("unexpected success envelope: %v", raw)
	}
	if _, ok := raw["details"]; ok {
		t.Error("成功响应不应包含 details 字段")
	}
}
