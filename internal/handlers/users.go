package handlers

import (
	"errors"
	"net/http"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/movie-quotes-dev/movie-quotes/internal/auth"
	"github.com/movie-quotes-dev/movie-quotes/internal/logger"
	"github.com/movie-quotes-dev/movie-quotes/internal/mailer"
	"github.com/movie-quotes-dev/movie-quotes/internal/models"
	"github.com/movie-quotes-dev/movie-quotes/internal/storage"
	"github.com/movie-quotes-dev/movie-quotes/internal/store"
	"github.com/movie-quotes-dev/movie-quotes/internal/types"
	"github.com/movie-quotes-dev/movie-quotes/internal/utils"
)

type UserHandler struct {
	Users store.UserStore
	Mail  mailer.Mailer
	// Google is optional; when nil, federated signup trusts the posted profile.
	Google *auth.GoogleVerifier
	Files  storage.Storage

	EmailTemplate string
	FrontendURI   string
}

type RegisterUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterGoogleRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	IDToken string `json:"idToken"`
}

type LoginUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

type ChangeCredentialsRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password"`
}

const userImageDir = "images/users"

const bcryptCost = 12

// credentialPattern is what the frontend promises for both names and
// passwords.
var credentialPattern = regexp.MustCompile(`^[a-z0-9]+$`)

func (h *UserHandler) RegisterUser(ctx *gin.Context) {
	var body RegisterUserRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid request"})
		return
	}

	if !credentialPattern.MatchString(body.Name) || !credentialPattern.MatchString(body.Password) {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Credentials should include lowercase characters!"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(body.Email))

	_, err := h.Users.FindByEmail(ctx.Request.Context(), email)

	if err == nil {
		ctx.JSON(http.StatusConflict, gin.H{"message": "User is already registered!"})
		return
	}

	if !errors.Is(err, store.ErrNotFound) {
		logger.Get().WithError(err).Error("Failed to check existing user")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	// Names are unique just like emails.
	_, err = h.Users.FindByName(ctx.Request.Context(), body.Name)

	if err == nil {
		ctx.JSON(http.StatusConflict, gin.H{"message": "Username is already taken!"})
		return
	}

	if !errors.Is(err, store.ErrNotFound) {
		logger.Get().WithError(err).Error("Failed to check existing user")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	if h.Mail == nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Email provider is not configured!"})
		return
	}

	emailToken, err := auth.GenerateActivationToken(email)

	if err != nil {
		logger.Get().WithError(err).Error("Failed to sign activation token")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	activationURI := h.FrontendURI + "/?token=" + emailToken
	html := mailer.RenderActivation(h.EmailTemplate, activationURI, body.Name)

	// The account only comes into existence once the verification mail is on
	// its way, so a failed dispatch never leaves a dangling account.
	if err := h.Mail.Send(ctx.Request.Context(), email, "Account verification", html); err != nil {
		logger.Get().WithError(err).Error("Failed to send verification email")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "User registration failed! Email could not be sent."})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcryptCost)

	if err != nil {
		logger.Get().WithError(err).Error("Failed to hash password")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	newUser := models.User{
		Name:     body.Name,
		Email:    email,
		Password: string(hashed),
	}

	if _, err := h.Users.Create(ctx.Request.Context(), newUser); err != nil {
		logger.Get().WithError(err).Error("Failed to create user")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": "User registered successfully! Account verification link sent."})
}

func (h *UserHandler) RegisterUserWithGoogle(ctx *gin.Context) {
	var body RegisterGoogleRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid request"})
		return
	}

	name := body.Name
	email := strings.ToLower(strings.TrimSpace(body.Email))

	if h.Google != nil && body.IDToken != "" {
		profile, err := h.Google.Verify(ctx.Request.Context(), body.IDToken)
		if err != nil {
			ctx.JSON(http.StatusForbidden, gin.H{"message": "Google token is invalid!"})
			return
		}
		name = profile.Name
		email = strings.ToLower(profile.Email)
	}

	if email == "" {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid request"})
		return
	}

	_, err := h.Users.FindByEmail(ctx.Request.Context(), email)

	if errors.Is(err, store.ErrNotFound) {
		// Federated accounts skip the email round trip and have no password.
		newUser := models.User{
			Name:     name,
			Email:    email,
			Verified: true,
		}

		if _, err := h.Users.Create(ctx.Request.Context(), newUser); err != nil {
			logger.Get().WithError(err).Error("Failed to create user")
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
			return
		}
	} else if err != nil {
		logger.Get().WithError(err).Error("Failed to check existing user")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	token, err := auth.GenerateActivationToken(email)

	if err != nil {
		logger.Get().WithError(err).Error("Failed to sign token")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *UserHandler) ActivateAccount(ctx *gin.Context) {
	token := ctx.Query("token")

	email, err := auth.ParseActivationToken(token)

	if err != nil {
		ctx.JSON(http.StatusForbidden, gin.H{"message": "Account activation failed. JWT token is invalid!"})
		return
	}

	if _, err := h.Users.FindByEmail(ctx.Request.Context(), email); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "User is not registered yet!"})
			return
		}
		logger.Get().WithError(err).Error("Failed to look up user")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	if err := h.Users.SetVerifiedByEmail(ctx.Request.Context(), email); err != nil {
		logger.Get().WithError(err).Error("Failed to activate account")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Account activated successfully!"})
}

func (h *UserHandler) LoginUser(ctx *gin.Context) {
	var body LoginUserRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid request"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(body.Email))

	user, err := h.Users.FindByEmail(ctx.Request.Context(), email)

	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid email or password"})
			return
		}
		logger.Get().WithError(err).Error("Failed to look up user")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid email or password"})
		return
	}

	if !user.Verified {
		ctx.JSON(http.StatusForbidden, gin.H{"message": "Account is not verified yet!"})
		return
	}

	token, err := auth.GenerateJWT(user.ID.Hex(), user.Email)

	if err != nil {
		logger.Get().WithError(err).Error("Failed to generate JWT")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  userResponse(user),
	})
}

func (h *UserHandler) GetUserDetails(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	user, err := h.Users.FindByID(ctx.Request.Context(), currentUser.ID)

	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		logger.Get().WithError(err).Error("Failed to look up user")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": userResponse(user)})
}

func (h *UserHandler) ChangePassword(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var body ChangePasswordRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid request"})
		return
	}

	if !credentialPattern.MatchString(body.Password) {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Credentials should include lowercase characters!"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcryptCost)

	if err != nil {
		logger.Get().WithError(err).Error("Failed to hash password")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	if err := h.Users.SetPassword(ctx.Request.Context(), currentUser.ID, string(hashed)); err != nil {
		logger.Get().WithError(err).Error("Failed to change password")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Password changed successfully!"})
}

func (h *UserHandler) UploadUserImage(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	file, err := ctx.FormFile("image")

	if err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Upload user image"})
		return
	}

	user, err := h.Users.FindByID(ctx.Request.Context(), currentUser.ID)

	if err != nil {
		logger.Get().WithError(err).Error("Failed to look up user")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	if user.Image != "" {
		if err := h.Files.Delete(ctx.Request.Context(), user.Image); err != nil {
			logger.Get().WithError(err).Warn("Failed to delete replaced user image")
		}
	}

	imagePath := path.Join(userImageDir, primitive.NewObjectID().Hex()+filepath.Ext(file.Filename))

	src, err := file.Open()

	if err != nil {
		logger.Get().WithError(err).Error("Failed to open upload")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	defer src.Close()

	if err := h.Files.Save(ctx.Request.Context(), imagePath, src, file.Size); err != nil {
		logger.Get().WithError(err).Error("Failed to store user image")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	if err := h.Users.SetImage(ctx.Request.Context(), currentUser.ID, imagePath); err != nil {
		logger.Get().WithError(err).Error("Failed to update user image")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"image": imagePath})
}

func (h *UserHandler) ChangeUserCredentials(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var body ChangeCredentialsRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid request"})
		return
	}

	if !credentialPattern.MatchString(body.Name) {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Credentials should include lowercase characters!"})
		return
	}

	existing, err := h.Users.FindByName(ctx.Request.Context(), body.Name)

	if err == nil && existing.ID != currentUser.ID {
		ctx.JSON(http.StatusConflict, gin.H{"message": "Username is already taken!"})
		return
	}

	if err != nil && !errors.Is(err, store.ErrNotFound) {
		logger.Get().WithError(err).Error("Failed to check existing user")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	var hashed string

	if body.Password != "" {
		if !credentialPattern.MatchString(body.Password) {
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Credentials should include lowercase characters!"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcryptCost)
		if err != nil {
			logger.Get().WithError(err).Error("Failed to hash password")
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
			return
		}
		hashed = string(hash)
	}

	if err := h.Users.SetCredentials(ctx.Request.Context(), currentUser.ID, body.Name, hashed); err != nil {
		logger.Get().WithError(err).Error("Failed to change credentials")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Credentials changed successfully!"})
}

func userResponse(user models.User) types.UserResponse {
	return types.UserResponse{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		Verified: user.Verified,
		Image:    user.Image,
	}
}
