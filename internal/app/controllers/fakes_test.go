package controllers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yigit/ssis/internal/app/models"
	"github.com/yigit/ssis/internal/app/models/dto"
	"github.com/yigit/ssis/internal/app/services"
	"github.com/yigit/ssis/internal/middleware"
	"github.com/yigit/ssis/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.RegisterValidatorTagNames()
}

var pngBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
	0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89,
}

// multipartRequest builds a multipart request with the given fields and an optional image
func multipartRequest(t *testing.T, method, target string, fields map[string]string, imageName string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if imageName != "" {
		part, err := writer.CreateFormFile("profile_image", imageName)
		require.NoError(t, err)
		_, err = part.Write(pngBytes)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func studentFields() map[string]string {
	return map[string]string{
		"student_id": "2023-0001",
		"first_name": "Maria",
		"last_name":  "Santos",
		"gender":     "Female",
		"year_level": "1st Year",
		"course":     "BSCS",
	}
}

type fakeStudentService struct {
	students     []models.Student
	createdReq   dto.StudentRequest
	createdImage *multipart.FileHeader
	updatedID    int64
	update       services.StudentUpdate
	deletedID    int64
	err          error
}

func (f *fakeStudentService) ListStudents(ctx context.Context) ([]models.Student, error) {
	return f.students, f.err
}

func (f *fakeStudentService) CreateStudent(ctx context.Context, req dto.StudentRequest, image *multipart.FileHeader) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.createdReq = req
	f.createdImage = image
	return 12, nil
}

func (f *fakeStudentService) UpdateStudent(ctx context.Context, id int64, update services.StudentUpdate) error {
	f.updatedID = id
	f.update = update
	return f.err
}

func (f *fakeStudentService) DeleteStudent(ctx context.Context, id int64) error {
	f.deletedID = id
	return f.err
}

type fakeCollegeService struct {
	colleges []models.College
	err      error
}

func (f *fakeCollegeService) ListColleges(ctx context.Context) ([]models.College, error) {
	return f.colleges, f.err
}

func (f *fakeCollegeService) CreateCollege(ctx context.Context, req dto.CollegeRequest) (*models.College, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.College{Code: req.CollegeCode, Name: req.CollegeName}, nil
}

func (f *fakeCollegeService) UpdateCollege(ctx context.Context, code string, req dto.CollegeRequest) (*models.College, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.College{Code: req.CollegeCode, Name: req.CollegeName}, nil
}

func (f *fakeCollegeService) DeleteCollege(ctx context.Context, code string) error {
	return f.err
}

type fakeProgramService struct {
	programs []models.Program
	err      error
}

func (f *fakeProgramService) ListPrograms(ctx context.Context) ([]models.Program, error) {
	return f.programs, f.err
}

func (f *fakeProgramService) CreateProgram(ctx context.Context, req dto.ProgramRequest) (*models.Program, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Program{Code: req.ProgramCode, Name: req.ProgramName, College: req.College}, nil
}

func (f *fakeProgramService) UpdateProgram(ctx context.Context, code string, req dto.ProgramRequest) (*models.Program, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Program{Code: req.ProgramCode, Name: req.ProgramName, College: req.College}, nil
}

func (f *fakeProgramService) DeleteProgram(ctx context.Context, code string) error {
	return f.err
}

type fakeUserService struct {
	users   []dto.UserResponse
	created dto.CreateUserRequest
	err     error
}

func (f *fakeUserService) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	return f.users, f.err
}

func (f *fakeUserService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.created = req
	return 3, nil
}

func (f *fakeUserService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	return false, nil
}

type fakeAuthService struct {
	loginResult *services.LoginResult
	loginErr    error
	refreshed   *auth.IssuedToken
	refreshErr  error
	refreshWith string
	loggedOut   string
	user        *models.User
}

func (f *fakeAuthService) Login(ctx context.Context, username, password string) (*services.LoginResult, error) {
	return f.loginResult, f.loginErr
}

func (f *fakeAuthService) Refresh(ctx context.Context, refreshToken string) (*auth.IssuedToken, error) {
	f.refreshWith = refreshToken
	return f.refreshed, f.refreshErr
}

func (f *fakeAuthService) CurrentUser(ctx context.Context, userID int64) (*models.User, error) {
	return f.user, nil
}

func (f *fakeAuthService) Logout(ctx context.Context, refreshToken string) error {
	f.loggedOut = refreshToken
	return nil
}

func (f *fakeAuthService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	return 0, nil
}
