package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dbelyakov/noteleaf/internal/common"
	"github.com/dbelyakov/noteleaf/internal/server/models"
	"github.com/dbelyakov/noteleaf/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type registerRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=6"`
	Name     *string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type googleAuthRequest struct {
	Code string `json:"code" binding:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	OTP         string `json:"otp" binding:"required,len=6"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

type noteRequest struct {
	Title   string   `json:"title" binding:"required,min=1,max=200"`
	Content string   `json:"content" binding:"max=10000"`
	Tags    []string `json:"tags"`
	IsLocal bool     `json:"isLocal"`
}

type convertLocalRequest struct {
	Notes []services.LocalNoteInput `json:"notes"`
}

// bindJSON decodes and validates the request body. On validation
// failure it writes the field-level error response and reports false.
func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			details := make([]gin.H, 0, len(verrs))
			for _, fe := range verrs {
				details = append(details, gin.H{
					"field":   strings.ToLower(fe.Field()[:1]) + fe.Field()[1:],
					"message": validationMessage(fe),
				})
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": details})
			return false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return false
	}
	return true
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	default:
		return "is invalid"
	}
}

// --- auth handlers ---

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := s.users.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
			return
		}
		s.serverError(c, "registration failed", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := s.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials"})
			return
		}
		s.serverError(c, "login failed", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) googleAuth(c *gin.Context) {
	var req googleAuthRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := s.users.GoogleAuth(c.Request.Context(), req.Code)
	if err != nil {
		s.serverError(c, "google authentication failed", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) googleAuthURL(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"url": s.users.GoogleAuthURL()})
}

func (s *Server) forgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	err := s.users.ForgotPassword(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		s.serverError(c, "forgot password failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reset email sent successfully"})
}

func (s *Server) resetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	err := s.users.ResetPassword(c.Request.Context(), req.Email, req.OTP, req.NewPassword)
	if err != nil {
		if errors.Is(err, common.ErrorInvalidOrExpiredCode) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired reset code"})
			return
		}
		s.serverError(c, "reset password failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
}

// --- note handlers ---

func (s *Server) createNote(c *gin.Context) {
	var req noteRequest
	if !bindJSON(c, &req) {
		return
	}

	note, err := s.notes.Create(c.Request.Context(), currentUserID(c), req.Title, req.Content, req.Tags)
	if err != nil {
		s.serverError(c, "create note failed", err)
		return
	}

	c.JSON(http.StatusCreated, note)
}

// createLocalNote echoes an unauthenticated note back with a synthetic
// local id; nothing is persisted server-side.
func (s *Server) createLocalNote(c *gin.Context) {
	var req noteRequest
	if !bindJSON(c, &req) {
		return
	}

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":      fmt.Sprintf("local_%d", time.Now().UnixMilli()),
		"title":   req.Title,
		"content": req.Content,
		"tags":    tags,
		"isLocal": true,
		"message": "Note saved locally. Sign up to save permanently!",
	})
}

func (s *Server) getNote(c *gin.Context) {
	note, err := s.notes.Get(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		s.noteError(c, err)
		return
	}

	c.JSON(http.StatusOK, note)
}

func (s *Server) updateNote(c *gin.Context) {
	var req noteRequest
	if !bindJSON(c, &req) {
		return
	}

	note, err := s.notes.Update(c.Request.Context(), currentUserID(c), c.Param("id"), req.Title, req.Content, req.Tags)
	if err != nil {
		s.noteError(c, err)
		return
	}

	c.JSON(http.StatusOK, note)
}

func (s *Server) deleteNote(c *gin.Context) {
	if err := s.notes.Delete(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		s.noteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Note deleted successfully"})
}

func (s *Server) toggleFavorite(c *gin.Context) {
	note, err := s.notes.ToggleFavorite(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		s.noteError(c, err)
		return
	}

	c.JSON(http.StatusOK, note)
}

func (s *Server) listNotes(c *gin.Context) {

	query := &models.NoteQuery{
		Search:        c.Query("search"),
		FavoritesOnly: c.Query("favorites") == "true",
		SortBy:        models.SortField(c.DefaultQuery("sortBy", string(models.SortByCreatedAt))),
		SortAsc:       c.Query("sortOrder") == "asc",
	}
	if tags := c.Query("tags"); tags != "" {
		query.Tags = strings.Split(tags, ",")
	}
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))

	page, err := s.notes.List(c.Request.Context(), currentUserID(c), query)
	if err != nil {
		s.serverError(c, "list notes failed", err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (s *Server) convertLocalNotes(c *gin.Context) {
	var req convertLocalRequest
	if !bindJSON(c, &req) {
		return
	}

	converted, err := s.notes.ConvertLocal(c.Request.Context(), currentUserID(c), req.Notes)
	if err != nil {
		s.serverError(c, "convert local notes failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Local notes converted successfully",
		"notes":   converted,
	})
}

// --- error helpers ---

// noteError maps note lookups: absent and foreign notes are the same 404.
func (s *Server) noteError(c *gin.Context, err error) {
	if errors.Is(err, common.ErrorNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
		return
	}
	s.serverError(c, "note operation failed", err)
}

// serverError logs the cause and returns a generic body so internals
// never leak to the client.
func (s *Server) serverError(c *gin.Context, msg string, err error) {
	s.logger.Error(c.Request.Context(), msg, "error", err.Error())
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
