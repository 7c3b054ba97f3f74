package services

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/textproto"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yigit/ssis/internal/app/models"
	"github.com/yigit/ssis/internal/pkg/apperrors"
	"github.com/yigit/ssis/internal/pkg/auth"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	auth.BcryptCost = bcrypt.MinCost
}

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func imageUpload(t *testing.T, filename string) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="profile_image"; filename="`+filename+`"`)
	h.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(pngBytes)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	form, err := multipart.NewReader(body, mw.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["profile_image"][0]
}

type fakeStudentStore struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]models.Student
	err    error
}

func newFakeStudentStore() *fakeStudentStore {
	return &fakeStudentStore{nextID: 1, rows: map[int64]models.Student{}}
}

func (f *fakeStudentStore) List(ctx context.Context) ([]models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := []models.Student{}
	for _, s := range f.rows {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStudentStore) StudentIDExists(ctx context.Context, studentID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.rows {
		if s.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStudentStore) GetProfileImage(ctx context.Context, id int64) (*string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return s.ProfileImage, nil
}

func (f *fakeStudentStore) Create(ctx context.Context, s *models.Student) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	for _, existing := range f.rows {
		if existing.StudentID == s.StudentID {
			return 0, apperrors.ErrStudentIDAlreadyExists
		}
	}
	s.ID = f.nextID
	f.nextID++
	f.rows[s.ID] = *s
	return s.ID, nil
}

func (f *fakeStudentStore) Update(ctx context.Context, s *models.Student) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[s.ID]; !ok {
		return apperrors.ErrStudentNotFound
	}
	for id, existing := range f.rows {
		if id != s.ID && existing.StudentID == s.StudentID {
			return apperrors.ErrStudentIDAlreadyExists
		}
	}
	f.rows[s.ID] = *s
	return nil
}

func (f *fakeStudentStore) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return apperrors.ErrStudentNotFound
	}
	delete(f.rows, id)
	return nil
}

type fakeUserStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{nextID: 1, users: map[int64]*models.User{}}
}

func (f *fakeUserStore) add(username, password, role string) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := &models.User{ID: f.nextID, Username: username, Password: password, Role: role}
	f.users[u.ID] = u
	f.nextID++
	return u
}

func (f *fakeUserStore) List(ctx context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.User{}
	for _, u := range f.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) Create(ctx context.Context, u *models.User) (int64, error) {
	if existing, _ := f.GetByUsername(ctx, u.Username); existing != nil {
		return 0, apperrors.ErrUsernameAlreadyExists
	}
	return f.add(u.Username, u.Password, u.Role).ID, nil
}

func (f *fakeUserStore) UpdatePassword(ctx context.Context, id int64, password string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.Password = password
	return nil
}

func (f *fakeUserStore) Count(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.users)), nil
}

func (f *fakeUserStore) ListStoredPasswords(ctx context.Context) ([]models.StoredPassword, error) {
	users, _ := f.List(ctx)
	out := make([]models.StoredPassword, 0, len(users))
	for _, u := range users {
		out = append(out, models.StoredPassword{UserID: u.ID, Password: u.Password})
	}
	return out, nil
}

func (f *fakeUserStore) TransactPasswords(ctx context.Context, fn func(ctx context.Context, store PasswordStore) error) error {
	return fn(ctx, f)
}

type fakeTokenStore struct {
	mu     sync.Mutex
	tokens map[string]*models.RefreshToken
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: map[string]*models.RefreshToken{}}
}

func (f *fakeTokenStore) CreateToken(ctx context.Context, token *models.RefreshToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *token
	f.tokens[token.JTI] = &cp
	return nil
}

func (f *fakeTokenStore) GetToken(ctx context.Context, jti string) (*models.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tokens[jti]
	if !ok {
		return nil, apperrors.ErrTokenNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTokenStore) RevokeToken(ctx context.Context, jti string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tokens[jti]
	if !ok {
		return apperrors.ErrTokenNotFound
	}
	t.Revoked = true
	return nil
}

func (f *fakeTokenStore) CleanupExpiredTokens(ctx context.Context, now time.Time, revokedRetention time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for jti, t := range f.tokens {
		if t.ExpiresAt.Before(now) || (t.Revoked && t.CreatedAt.Before(now.Add(-revokedRetention))) {
			delete(f.tokens, jti)
			n++
		}
	}
	return n, nil
}

type fakeCollegeStore struct {
	colleges map[string]models.College
	programs map[string]string // program code -> college
}

func (f *fakeCollegeStore) GetAll(ctx context.Context) ([]models.College, error) {
	out := []models.College{}
	for _, c := range f.colleges {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (f *fakeCollegeStore) Create(ctx context.Context, c *models.College) error {
	if _, ok := f.colleges[c.Code]; ok {
		return apperrors.ErrCollegeAlreadyExists
	}
	f.colleges[c.Code] = *c
	return nil
}

func (f *fakeCollegeStore) Update(ctx context.Context, code string, c *models.College) error {
	if _, ok := f.colleges[code]; !ok {
		return apperrors.ErrCollegeNotFound
	}
	delete(f.colleges, code)
	f.colleges[c.Code] = *c
	return nil
}

func (f *fakeCollegeStore) Delete(ctx context.Context, code string) error {
	for _, college := range f.programs {
		if college == code {
			return apperrors.ErrCollegeHasPrograms
		}
	}
	if _, ok := f.colleges[code]; !ok {
		return apperrors.ErrCollegeNotFound
	}
	delete(f.colleges, code)
	return nil
}
