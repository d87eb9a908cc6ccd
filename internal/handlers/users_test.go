package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/movie-quotes-dev/movie-quotes/internal/auth"
	"github.com/movie-quotes-dev/movie-quotes/internal/middleware"
	"github.com/movie-quotes-dev/movie-quotes/internal/models"
	"github.com/movie-quotes-dev/movie-quotes/internal/storage"
	"github.com/movie-quotes-dev/movie-quotes/internal/types"
)

const testEmailTemplate = "<a href=\"{% uri %}\">Verify your {% verify-object %}, {% user-name %}</a>"

type userTestEnv struct {
	router *gin.Engine
	users  *fakeUserStore
	mail   *fakeMailer
	root   string
}

func newUserTestEnv(t *testing.T) *userTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	auth.SetJWTSecret("test-secret")

	root := t.TempDir()

	env := &userTestEnv{
		users: newFakeUserStore(),
		mail:  &fakeMailer{},
		root:  root,
	}

	handler := &UserHandler{
		Users:         env.users,
		Mail:          env.mail,
		Files:         storage.NewDiskStorage(root),
		EmailTemplate: testEmailTemplate,
		FrontendURI:   "http://localhost:5173",
	}

	authRequired := middleware.AuthMiddleware(env.users)

	r := gin.New()
	r.POST("/users/register", handler.RegisterUser)
	r.POST("/users/register-google", handler.RegisterUserWithGoogle)
	r.GET("/users/activate", handler.ActivateAccount)
	r.POST("/users/login", handler.LoginUser)
	r.GET("/users/user-details", authRequired, handler.GetUserDetails)
	r.POST("/users/change-password", authRequired, handler.ChangePassword)
	r.PATCH("/users/upload-user-image", authRequired, handler.UploadUserImage)
	r.PUT("/users/change-user-credentials", authRequired, handler.ChangeUserCredentials)

	env.router = r
	return env
}

func (e *userTestEnv) postJSON(t *testing.T, path string, payload any, token string) *httptest.ResponseRecorder {
	t.Helper()
	return e.requestJSON(t, http.MethodPost, path, payload, token)
}

func (e *userTestEnv) requestJSON(t *testing.T, method, path string, payload any, token string) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	e.router.ServeHTTP(recorder, req)
	return recorder
}

func TestRegisterUser(t *testing.T) {
	t.Run("rejects credentials outside the lowercase pattern", func(t *testing.T) {
		env := newUserTestEnv(t)

		recorder := env.postJSON(t, "/users/register", RegisterUserRequest{
			Name: "Giorgi", Email: "giorgi@example.com", Password: "secret123",
		}, "")

		assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
		assert.Empty(t, env.users.users)
		assert.Empty(t, env.mail.sent)
	})

	t.Run("rejects an already registered email", func(t *testing.T) {
		env := newUserTestEnv(t)
		env.users.add(models.User{Name: "giorgi", Email: "giorgi@example.com"})

		recorder := env.postJSON(t, "/users/register", RegisterUserRequest{
			Name: "giorgi", Email: "giorgi@example.com", Password: "secret123",
		}, "")

		assert.Equal(t, http.StatusConflict, recorder.Code)
		assert.Empty(t, env.mail.sent)
	})

	t.Run("rejects an already taken name", func(t *testing.T) {
		env := newUserTestEnv(t)
		env.users.add(models.User{Name: "giorgi", Email: "giorgi@example.com"})

		recorder := env.postJSON(t, "/users/register", RegisterUserRequest{
			Name: "giorgi", Email: "other@example.com", Password: "secret123",
		}, "")

		assert.Equal(t, http.StatusConflict, recorder.Code)
		assert.Len(t, env.users.users, 1)
		assert.Empty(t, env.mail.sent)
	})

	t.Run("creates an unverified user once the mail is sent", func(t *testing.T) {
		env := newUserTestEnv(t)

		recorder := env.postJSON(t, "/users/register", RegisterUserRequest{
			Name: "giorgi", Email: "giorgi@example.com", Password: "secret123",
		}, "")

		require.Equal(t, http.StatusCreated, recorder.Code)
		require.Len(t, env.mail.sent, 1)

		user, err := env.users.FindByEmail(context.Background(), "giorgi@example.com")
		require.NoError(t, err)
		assert.False(t, user.Verified)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret123")))
	})

	t.Run("does not create a user when the mail fails", func(t *testing.T) {
		env := newUserTestEnv(t)
		env.mail.failing = true

		recorder := env.postJSON(t, "/users/register", RegisterUserRequest{
			Name: "giorgi", Email: "giorgi@example.com", Password: "secret123",
		}, "")

		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
		assert.Empty(t, env.users.users)
	})

	t.Run("reports an unconfigured mail provider", func(t *testing.T) {
		env := newUserTestEnv(t)

		handler := &UserHandler{Users: env.users, EmailTemplate: testEmailTemplate}
		r := gin.New()
		r.POST("/users/register", handler.RegisterUser)
		env.router = r

		recorder := env.postJSON(t, "/users/register", RegisterUserRequest{
			Name: "giorgi", Email: "giorgi@example.com", Password: "secret123",
		}, "")

		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
		assert.Empty(t, env.users.users)
	})
}

func TestRegisterUserWithGoogle(t *testing.T) {
	t.Run("creates a verified account and returns a token", func(t *testing.T) {
		env := newUserTestEnv(t)

		recorder := env.postJSON(t, "/users/register-google", RegisterGoogleRequest{
			Name: "giorgi", Email: "giorgi@example.com",
		}, "")

		require.Equal(t, http.StatusOK, recorder.Code)

		var response struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.NotEmpty(t, response.Token)

		user, err := env.users.FindByEmail(context.Background(), "giorgi@example.com")
		require.NoError(t, err)
		assert.True(t, user.Verified)
		assert.Empty(t, user.Password)
	})

	t.Run("an existing account is reused", func(t *testing.T) {
		env := newUserTestEnv(t)
		env.users.add(models.User{Name: "giorgi", Email: "giorgi@example.com", Verified: true})

		recorder := env.postJSON(t, "/users/register-google", RegisterGoogleRequest{
			Name: "giorgi", Email: "giorgi@example.com",
		}, "")

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Len(t, env.users.users, 1)
	})
}

func TestActivateAccount(t *testing.T) {
	t.Run("flips the verified flag", func(t *testing.T) {
		env := newUserTestEnv(t)
		env.users.add(models.User{Name: "giorgi", Email: "giorgi@example.com"})

		token, err := auth.GenerateActivationToken("giorgi@example.com")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/users/activate?token="+token, nil)
		recorder := httptest.NewRecorder()
		env.router.ServeHTTP(recorder, req)

		require.Equal(t, http.StatusOK, recorder.Code)

		user, err := env.users.FindByEmail(context.Background(), "giorgi@example.com")
		require.NoError(t, err)
		assert.True(t, user.Verified)
	})

	t.Run("rejects a garbage token", func(t *testing.T) {
		env := newUserTestEnv(t)

		req := httptest.NewRequest(http.MethodGet, "/users/activate?token=garbage", nil)
		recorder := httptest.NewRecorder()
		env.router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("rejects a token for an unregistered email", func(t *testing.T) {
		env := newUserTestEnv(t)

		token, err := auth.GenerateActivationToken("nobody@example.com")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/users/activate?token="+token, nil)
		recorder := httptest.NewRecorder()
		env.router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestLoginUser(t *testing.T) {
	hash := func(t *testing.T, password string) string {
		t.Helper()
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		require.NoError(t, err)
		return string(hashed)
	}

	t.Run("rejects a wrong password", func(t *testing.T) {
		env := newUserTestEnv(t)
		env.users.add(models.User{Name: "giorgi", Email: "giorgi@example.com", Password: hash(t, "secret123"), Verified: true})

		recorder := env.postJSON(t, "/users/login", LoginUserRequest{
			Email: "giorgi@example.com", Password: "wrong",
		}, "")

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("rejects an unverified account", func(t *testing.T) {
		env := newUserTestEnv(t)
		env.users.add(models.User{Name: "giorgi", Email: "giorgi@example.com", Password: hash(t, "secret123")})

		recorder := env.postJSON(t, "/users/login", LoginUserRequest{
			Email: "giorgi@example.com", Password: "secret123",
		}, "")

		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("returns a token accepted by the auth middleware", func(t *testing.T) {
		env := newUserTestEnv(t)
		env.users.add(models.User{Name: "giorgi", Email: "giorgi@example.com", Password: hash(t, "secret123"), Verified: true})

		recorder := env.postJSON(t, "/users/login", LoginUserRequest{
			Email: "giorgi@example.com", Password: "secret123",
		}, "")

		require.Equal(t, http.StatusOK, recorder.Code)

		var response struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		require.NotEmpty(t, response.Token)

		req := httptest.NewRequest(http.MethodGet, "/users/user-details", nil)
		req.Header.Set("Authorization", "Bearer "+response.Token)
		detailsRecorder := httptest.NewRecorder()
		env.router.ServeHTTP(detailsRecorder, req)

		assert.Equal(t, http.StatusOK, detailsRecorder.Code)
		assert.Contains(t, detailsRecorder.Body.String(), "giorgi@example.com")
	})
}

func TestGetUserDetails(t *testing.T) {
	t.Run("reports a vanished account as not found", func(t *testing.T) {
		env := newUserTestEnv(t)

		handler := &UserHandler{Users: env.users}

		// The account disappears between token issuance and the lookup.
		r := gin.New()
		r.GET("/users/user-details", func(ctx *gin.Context) {
			ctx.Set(types.ContextUserKey, middleware.AuthenticatedUser{
				ID:    primitive.NewObjectID(),
				Name:  "giorgi",
				Email: "giorgi@example.com",
			})
		}, handler.GetUserDetails)
		env.router = r

		req := httptest.NewRequest(http.MethodGet, "/users/user-details", nil)
		recorder := httptest.NewRecorder()
		env.router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestAccountMutations(t *testing.T) {
	login := func(t *testing.T, env *userTestEnv, user models.User) string {
		t.Helper()
		token, err := auth.GenerateJWT(user.ID.Hex(), user.Email)
		require.NoError(t, err)
		return token
	}

	t.Run("change password validates the pattern", func(t *testing.T) {
		env := newUserTestEnv(t)
		user := env.users.add(models.User{Name: "giorgi", Email: "giorgi@example.com", Verified: true})

		recorder := env.postJSON(t, "/users/change-password", ChangePasswordRequest{Password: "Invalid!"}, login(t, env, user))

		assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	})

	t.Run("change password stores a new hash", func(t *testing.T) {
		env := newUserTestEnv(t)
		user := env.users.add(models.User{Name: "giorgi", Email: "giorgi@example.com", Verified: true})

		recorder := env.postJSON(t, "/users/change-password", ChangePasswordRequest{Password: "newsecret1"}, login(t, env, user))

		require.Equal(t, http.StatusOK, recorder.Code)
		stored := env.users.users[user.ID]
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("newsecret1")))
	})

	t.Run("change credentials updates the name", func(t *testing.T) {
		env := newUserTestEnv(t)
		user := env.users.add(models.User{Name: "giorgi", Email: "giorgi@example.com", Verified: true})

		recorder := env.requestJSON(t, http.MethodPut, "/users/change-user-credentials",
			ChangeCredentialsRequest{Name: "gio"}, login(t, env, user))

		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "gio", env.users.users[user.ID].Name)
	})

	t.Run("change credentials rejects a name held by another user", func(t *testing.T) {
		env := newUserTestEnv(t)
		env.users.add(models.User{Name: "giorgi", Email: "giorgi@example.com", Verified: true})
		user := env.users.add(models.User{Name: "nino", Email: "nino@example.com", Verified: true})

		recorder := env.requestJSON(t, http.MethodPut, "/users/change-user-credentials",
			ChangeCredentialsRequest{Name: "giorgi"}, login(t, env, user))

		assert.Equal(t, http.StatusConflict, recorder.Code)
		assert.Equal(t, "nino", env.users.users[user.ID].Name)
	})

	t.Run("change credentials accepts keeping your own name", func(t *testing.T) {
		env := newUserTestEnv(t)
		user := env.users.add(models.User{Name: "giorgi", Email: "giorgi@example.com", Verified: true})

		recorder := env.requestJSON(t, http.MethodPut, "/users/change-user-credentials",
			ChangeCredentialsRequest{Name: "giorgi", Password: "newsecret1"}, login(t, env, user))

		require.Equal(t, http.StatusOK, recorder.Code)
		stored := env.users.users[user.ID]
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("newsecret1")))
	})

	t.Run("rejects requests without a token", func(t *testing.T) {
		env := newUserTestEnv(t)

		recorder := env.postJSON(t, "/users/change-password", ChangePasswordRequest{Password: "newsecret1"}, "")

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

func TestUploadUserImage(t *testing.T) {
	env := newUserTestEnv(t)
	user := env.users.add(models.User{Name: "giorgi", Email: "giorgi@example.com", Verified: true})

	token, err := auth.GenerateJWT(user.ID.Hex(), user.Email)
	require.NoError(t, err)

	body, contentType := multipartBody(t, nil, "image", "avatar.png", []byte("png bytes"))

	req := httptest.NewRequest(http.MethodPatch, "/users/upload-user-image", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)

	recorder := httptest.NewRecorder()
	env.router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)

	stored := env.users.users[user.ID]
	require.NotEmpty(t, stored.Image)
	assert.FileExists(t, env.rootJoin(stored.Image))
}

func (e *userTestEnv) rootJoin(relative string) string {
	return e.root + "/" + relative
}
