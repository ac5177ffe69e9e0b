package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/birozsombor4/rest-api-template/internal/domain"
	"github.com/birozsombor4/rest-api-template/internal/metrics"
	"github.com/birozsombor4/rest-api-template/internal/security"
	"github.com/birozsombor4/rest-api-template/internal/usecase"
	"github.com/gin-gonic/gin"
)

// defaultAvatar is attached to every fresh registration. The file is seeded
// into the store root at deploy time and is exempt from bulk cleanup.
const defaultAvatar = "default.png"

// Usecase subsets, defined at point of use so tests can inject fakes.

type registrationUsecaser interface {
	ErrorsForRegister(ctx context.Context, in usecase.RegistrationInput) ([]string, error)
	ErrorsForLogin(in usecase.RegistrationInput) []string
	ValidateForLogin(in usecase.RegistrationInput) bool
	Register(ctx context.Context, user *domain.User) (*domain.User, error)
	Authenticate(ctx context.Context, username, plain string) (*domain.User, error)
}

type verificationUsecaser interface {
	IssueFor(ctx context.Context, user *domain.User, now time.Time) (*domain.VerificationToken, error)
	Lookup(ctx context.Context, raw string) (*domain.VerificationToken, error)
	IsLive(tok *domain.VerificationToken, now time.Time) bool
	Verify(ctx context.Context, user *domain.User) error
	Reissue(ctx context.Context, user *domain.User, now time.Time) (*domain.VerificationToken, error)
}

type userUsecaser interface {
	GetByID(ctx context.Context, id int) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	AttachAvatar(user *domain.User, filename string) error
}

type avatarStorer interface {
	Save(r io.Reader, contentType, originalFilename string, ownerID int) (string, error)
	Load(filename string) (*os.File, error)
	ContentTypeFor(filename string) (string, error)
}

type verificationMailer interface {
	SendVerification(ctx context.Context, user *domain.User, token *domain.VerificationToken) error
}

type tokenIssuer interface {
	Issue(p domain.Principal, issuedAt time.Time) (string, error)
}

type UserHandler struct {
	registration registrationUsecaser
	verification verificationUsecaser
	users        userUsecaser
	avatars      avatarStorer
	mailer       verificationMailer
	codec        tokenIssuer
	logger       *slog.Logger
}

func NewUserHandler(
	registration registrationUsecaser,
	verification verificationUsecaser,
	users userUsecaser,
	avatars avatarStorer,
	mailer verificationMailer,
	codec tokenIssuer,
	logger *slog.Logger,
) *UserHandler {
	return &UserHandler{
		registration: registration,
		verification: verification,
		users:        users,
		avatars:      avatars,
		mailer:       mailer,
		codec:        codec,
		logger:       logger.With("component", "user_handler"),
	}
}

// userRequest is the inbound payload for register and login. Password only
// ever travels inbound; userResponse deliberately has no password field, so
// the two conversions are asymmetric on purpose.
type userRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type userResponse struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Verified bool   `json:"verified"`
	Avatar   string `json:"avatar"`
}

func userFromRequest(req userRequest) *domain.User {
	return &domain.User{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
	}
}

func userToResponse(u *domain.User) userResponse {
	return userResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Verified: u.Verified,
		Avatar:   u.Avatar,
	}
}

// POST /register
func (h *UserHandler) Register(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	ctx := c.Request.Context()

	in := usecase.RegistrationInput{Username: req.Username, Password: req.Password, Email: req.Email}
	fieldErrs, err := h.registration.ErrorsForRegister(ctx, in)
	if err != nil {
		h.logger.Error("register validation", "error", err)
		c.JSON(http.StatusInternalServerError, errorBody(errInternalServer))
		return
	}
	if len(fieldErrs) > 0 {
		writeError(c, domain.NewError(domain.KindInvalidParameters, usecase.JoinErrors(fieldErrs)))
		return
	}

	user := userFromRequest(req)
	if err := h.users.AttachAvatar(user, defaultAvatar); err != nil {
		writeError(c, err)
		return
	}

	stored, err := h.registration.Register(ctx, user)
	if err != nil {
		h.logger.Error("register user", "error", err)
		c.JSON(http.StatusInternalServerError, errorBody(errInternalServer))
		return
	}

	tok, err := h.verification.IssueFor(ctx, stored, time.Now())
	if err != nil {
		h.logger.Error("issue verification token", "user_id", stored.ID, "error", err)
		c.JSON(http.StatusInternalServerError, errorBody(errInternalServer))
		return
	}
	if err := h.mailer.SendVerification(ctx, stored, tok); err != nil {
		h.logger.Error("send verification email", "user_id", stored.ID, "error", err)
		c.JSON(http.StatusInternalServerError, errorBody(errInternalServer))
		return
	}

	metrics.RegistrationsTotal.Inc()
	metrics.VerificationEmailsTotal.WithLabelValues("register").Inc()
	c.JSON(http.StatusOK, userToResponse(stored))
}

// POST /login
func (h *UserHandler) Login(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	ctx := c.Request.Context()

	in := usecase.RegistrationInput{Username: req.Username, Password: req.Password}
	if !h.registration.ValidateForLogin(in) {
		writeError(c, domain.NewError(domain.KindInvalidParameters, usecase.JoinErrors(h.registration.ErrorsForLogin(in))))
		return
	}

	user, err := h.registration.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		writeError(c, err)
		return
	}

	jwt, err := h.codec.Issue(domain.Principal{ID: user.ID, Username: user.Username}, time.Now())
	if err != nil {
		h.logger.Error("issue bearer token", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, errorBody(errInternalServer))
		return
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, gin.H{"token": jwt})
}

// GET /verify?token=<uuid>
func (h *UserHandler) Verify(c *gin.Context) {
	ctx := c.Request.Context()
	now := time.Now()

	tok, err := h.verification.Lookup(ctx, c.Query("token"))
	if err != nil {
		writeError(c, err)
		return
	}

	user, err := h.users.GetByID(ctx, tok.UserID)
	if err != nil {
		writeError(c, err)
		return
	}

	// Dead link: re-issue and re-send rather than failing or verifying.
	if !h.verification.IsLive(tok, now) {
		if _, err := h.verification.Reissue(ctx, user, now); err != nil {
			h.logger.Error("reissue verification token", "user_id", user.ID, "error", err)
			c.JSON(http.StatusInternalServerError, errorBody(errInternalServer))
			return
		}
		metrics.VerificationEmailsTotal.WithLabelValues("reissue").Inc()
		c.JSON(http.StatusOK, okBody("Email verification link has expired. We'll send another for your email: "+user.Email))
		return
	}

	if err := h.verification.Verify(ctx, user); err != nil {
		writeError(c, err)
		return
	}
	metrics.UsersVerifiedTotal.Inc()
	c.JSON(http.StatusOK, okBody(user.Username+" has verified."))
}

// POST /avatar/:userId  (multipart field "image")
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	ctx := c.Request.Context()

	sc, ok := security.FromContext(ctx)
	if !ok {
		// Unreachable behind the auth middleware, kept as a guard.
		c.JSON(http.StatusUnauthorized, errorBody("Invalid Authorization or missing JWT token."))
		return
	}

	userID, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		writeError(c, domain.NewError(domain.KindInvalidParameters, "User id must be a number!"))
		return
	}

	user, err := h.users.GetByID(ctx, userID)
	if err != nil {
		writeError(c, err)
		return
	}
	if user.Username != sc.Principal.Username {
		writeError(c, domain.NewError(domain.KindNotAllowedAction,
			"User id: "+strconv.Itoa(userID)+" doesn't belongs to user: "+sc.Principal.Username))
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		writeError(c, domain.NewError(domain.KindInvalidParameters, "Image file is missing!"))
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		writeError(c, domain.NewError(domain.KindFileSaveFailed, fileHeader.Filename))
		return
	}
	defer f.Close()

	stored, err := h.avatars.Save(f, fileHeader.Header.Get("Content-Type"), fileHeader.Filename, userID)
	if err != nil {
		writeError(c, err)
		return
	}

	if err := h.users.AttachAvatar(user, stored); err != nil {
		writeError(c, err)
		return
	}
	if err := h.users.Update(ctx, user); err != nil {
		h.logger.Error("update user avatar", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, errorBody(errInternalServer))
		return
	}

	metrics.AvatarUploadsTotal.Inc()
	c.JSON(http.StatusOK, okBody("Avatar has updated for user: "+user.Username))
}

// GET /avatar/:userId
func (h *UserHandler) GetAvatar(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		writeError(c, domain.NewError(domain.KindInvalidParameters, "User id must be a number!"))
		return
	}

	user, err := h.users.GetByID(ctx, userID)
	if err != nil {
		writeError(c, err)
		return
	}

	f, err := h.avatars.Load(user.Avatar)
	if err != nil {
		writeError(c, err)
		return
	}
	defer f.Close()

	contentType, err := h.avatars.ContentTypeFor(user.Avatar)
	if err != nil {
		writeError(c, err)
		return
	}

	info, err := f.Stat()
	if err != nil {
		writeError(c, domain.NewError(domain.KindFileLoadFailed, user.Avatar))
		return
	}

	c.DataFromReader(http.StatusOK, info.Size(), contentType, f, map[string]string{
		"Content-Disposition": "filename=" + user.Avatar,
	})
}
