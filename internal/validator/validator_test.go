package validator

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/openplanner/gradplan-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	Setup()
}

func bindJSON(t *testing.T, body string, dst interface{}) map[string]string {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return Bind(c, dst)
}

func TestBind_CourseCode(t *testing.T) {
	valid := []string{
		`{"course_code":"CS 1101","semester_number":1,"credits":3}`,
		`{"course_code":"PHYS 1601L","semester_number":2,"credits":1}`,
		`{"course_code":"cs 1101","semester_number":1,"credits":3}`, // normalized downstream
	}
	for _, body := range valid {
		var req model.AddPlannedCourseRequest
		assert.Nil(t, bindJSON(t, body, &req), body)
	}

	invalid := []string{
		`{"course_code":"CS1101","semester_number":1,"credits":3}`,   // no space
		`{"course_code":"CS ABCD","semester_number":1,"credits":3}`,  // no number
		`{"course_code":"CS 11 01","semester_number":1,"credits":3}`, // extra field
	}
	for _, body := range invalid {
		var req model.AddPlannedCourseRequest
		fields := bindJSON(t, body, &req)
		require.NotNil(t, fields, body)
		assert.Contains(t, fields["course_code"], "course code", "translated message names the rule")
	}
}

func TestBind_UsesJSONFieldNames(t *testing.T) {
	var req model.AddPlannedCourseRequest
	fields := bindJSON(t, `{"course_code":"CS 1101","credits":3}`, &req)
	require.NotNil(t, fields)
	_, ok := fields["semester_number"]
	assert.True(t, ok, "errors keyed by json tag, not Go field name")
}

func TestBind_MalformedJSON(t *testing.T) {
	var req model.AddPlannedCourseRequest
	fields := bindJSON(t, `{"course_code":`, &req)
	require.NotNil(t, fields)
	assert.Contains(t, fields, "detail")
}
