package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/ssis/internal/app/models"
	"github.com/yigit/ssis/internal/app/services"
	"github.com/yigit/ssis/internal/pkg/apperrors"
)

func studentRouter(svc *fakeStudentService) *gin.Engine {
	c := NewStudentController(svc, zerolog.Nop())
	r := gin.New()
	r.GET("/api/students", c.ListStudents)
	r.POST("/api/students", c.CreateStudent)
	r.PUT("/api/students/:id", c.UpdateStudent)
	r.DELETE("/api/students/:id", c.DeleteStudent)
	return r
}

func TestListStudentsReturnsBareArray(t *testing.T) {
	college := "CCS"
	svc := &fakeStudentService{students: []models.Student{
		{ID: 1, StudentID: "2023-0001", FirstName: "Maria", Course: "BSCS", College: &college},
		{ID: 2, StudentID: "2023-0002", FirstName: "Juan", Course: "GONE"},
	}}
	r := studentRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/students", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body, 2)
	assert.Equal(t, "CCS", body[0]["college"])
	assert.Nil(t, body[1]["college"])
	assert.Nil(t, body[1]["profile_image"])
}

func TestListStudentsEmpty(t *testing.T) {
	r := studentRouter(&fakeStudentService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/students", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestCreateStudentMultipart(t *testing.T) {
	svc := &fakeStudentService{}
	r := studentRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, http.MethodPost, "/api/students", studentFields(), "maria photo.png"))

	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"message":"Student added successfully","id":12}`, w.Body.String())
	assert.Equal(t, "2023-0001", svc.createdReq.StudentID)
	assert.Equal(t, "BSCS", svc.createdReq.Course)
	require.NotNil(t, svc.createdImage)
	assert.Equal(t, "maria photo.png", svc.createdImage.Filename)
}

func TestCreateStudentWithoutImage(t *testing.T) {
	svc := &fakeStudentService{}
	r := studentRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, http.MethodPost, "/api/students", studentFields(), ""))

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Nil(t, svc.createdImage)
}

func TestCreateStudentDuplicate(t *testing.T) {
	r := studentRouter(&fakeStudentService{err: apperrors.ErrStudentIDAlreadyExists})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, http.MethodPost, "/api/students", studentFields(), ""))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Student ID already exists!")
}

func TestUpdateStudentResolvesVariant(t *testing.T) {
	t.Run("json body", func(t *testing.T) {
		svc := &fakeStudentService{}
		r := studentRouter(svc)

		req := httptest.NewRequest(http.MethodPut, "/api/students/5", strings.NewReader(
			`{"student_id":"2023-0001","first_name":"Maria","last_name":"Santos","gender":"Female","year_level":"2nd Year","course":"BSIT"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"Student updated successfully","id":5}`, w.Body.String())
		assert.Equal(t, int64(5), svc.updatedID)
		update, ok := svc.update.(services.JSONUpdate)
		require.True(t, ok)
		assert.Equal(t, "BSIT", update.Fields.Course)
	})

	t.Run("multipart with image", func(t *testing.T) {
		svc := &fakeStudentService{}
		r := studentRouter(svc)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, multipartRequest(t, http.MethodPut, "/api/students/5", studentFields(), "new.png"))

		require.Equal(t, http.StatusOK, w.Code)
		update, ok := svc.update.(services.FormUpdate)
		require.True(t, ok)
		require.NotNil(t, update.Image)
		assert.Equal(t, "new.png", update.Image.Filename)
		assert.Equal(t, "Maria", update.Fields.FirstName)
	})
}

func TestUpdateStudentNotFound(t *testing.T) {
	r := studentRouter(&fakeStudentService{err: apperrors.ErrStudentNotFound})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, http.MethodPut, "/api/students/99", studentFields(), ""))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Student not found.")
}

func TestDeleteStudent(t *testing.T) {
	svc := &fakeStudentService{}
	r := studentRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/students/4", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(4), svc.deletedID)
	assert.JSONEq(t, `{"message":"Student deleted successfully","id":4}`, w.Body.String())
}

func TestDeleteStudentNonNumericID(t *testing.T) {
	svc := &fakeStudentService{}
	r := studentRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/students/abc", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Zero(t, svc.deletedID)
}
