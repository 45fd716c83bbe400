// Package httpapi exposes the note and auth services over HTTP/JSON.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dbelyakov/noteleaf/internal/logging"
	"github.com/dbelyakov/noteleaf/internal/server/models"
	"github.com/dbelyakov/noteleaf/internal/server/services"
	"github.com/gin-gonic/gin"
)

// UserService is the slice of the user service the HTTP layer calls.
type UserService interface {
	Register(ctx context.Context, email, password string, name *string) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	GoogleAuth(ctx context.Context, code string) (*services.AuthResult, error)
	GoogleAuthURL() string
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, otp, newPassword string) error
}

// NoteService is the slice of the note service the HTTP layer calls.
type NoteService interface {
	Create(ctx context.Context, userID, title, content string, tags []string) (*models.Note, error)
	Get(ctx context.Context, userID, id string) (*models.Note, error)
	Update(ctx context.Context, userID, id, title, content string, tags []string) (*models.Note, error)
	Delete(ctx context.Context, userID, id string) error
	ToggleFavorite(ctx context.Context, userID, id string) (*models.Note, error)
	List(ctx context.Context, userID string, query *models.NoteQuery) (*models.NotePage, error)
	ConvertLocal(ctx context.Context, userID string, inputs []services.LocalNoteInput) ([]*models.Note, error)
}

type Server struct {
	address   string
	users     UserService
	notes     NoteService
	logger    logging.Logger
	jwtSecret []byte
}

func NewServer(a string, l logging.Logger, us UserService, ns NoteService, secretKey string) *Server {
	return &Server{
		address:   a,
		logger:    l.With("module", "http_server"),
		users:     us,
		notes:     ns,
		jwtSecret: []byte(secretKey),
	}
}

// Router builds the gin engine with all routes attached. Split out from
// Run so handler tests can drive it through httptest.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", s.health)

	auth := router.Group("/auth")
	{
		auth.POST("/register", s.register)
		auth.POST("/login", s.login)
		auth.POST("/google", s.googleAuth)
		auth.GET("/google/url", s.googleAuthURL)
		auth.POST("/forgot-password", s.forgotPassword)
		auth.POST("/reset-password", s.resetPassword)
	}

	notes := router.Group("/notes")
	{
		// note creation without auth only for the local echo
		notes.POST("/local", s.createLocalNote)

		authed := notes.Group("", s.requireAuth())
		{
			authed.POST("", s.createNote)
			authed.GET("", s.listNotes)
			authed.GET("/:id", s.getNote)
			authed.PUT("/:id", s.updateNote)
			authed.DELETE("/:id", s.deleteNote)
			authed.PATCH("/:id/favorite", s.toggleFavorite)
			authed.POST("/convert-local", s.convertLocalNotes)
		}
	}

	return router
}

func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
