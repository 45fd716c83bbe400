package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/dbelyakov/noteleaf/internal/client/api"
)

type fakeAuthService struct {
	loggedIn bool
	authErr  error
}

func (f *fakeAuthService) Register(ctx context.Context, email, password string, name *string) (*api.AuthResponse, error) {
	if f.authErr != nil {
		return nil, f.authErr
	}
	f.loggedIn = true
	return &api.AuthResponse{Token: "tok", User: api.User{ID: "u-1", Email: email}}, nil
}
func (f *fakeAuthService) Login(ctx context.Context, email, password string) (*api.AuthResponse, error) {
	if f.authErr != nil {
		return nil, f.authErr
	}
	f.loggedIn = true
	return &api.AuthResponse{Token: "tok", User: api.User{ID: "u-1", Email: email}}, nil
}
func (f *fakeAuthService) GoogleAuthURL(ctx context.Context) (string, error) {
	return "https://accounts.example/consent", nil
}
func (f *fakeAuthService) GoogleAuth(ctx context.Context, code string) (*api.AuthResponse, error) {
	f.loggedIn = true
	return &api.AuthResponse{Token: "tok", User: api.User{Email: "g@x.com"}}, nil
}
func (f *fakeAuthService) ForgotPassword(ctx context.Context, email string) error { return nil }
func (f *fakeAuthService) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	return nil
}
func (f *fakeAuthService) Logout()                        { f.loggedIn = false }
func (f *fakeAuthService) IsLoggedIn() bool               { return f.loggedIn }
func (f *fakeAuthService) Ping(ctx context.Context) error { return nil }

type fakeCLINoteService struct {
	migrated   int
	migrateErr error
	addCalls   int
}

func (f *fakeCLINoteService) Add(ctx context.Context, title, content string, tags []string) (*api.Note, error) {
	f.addCalls++
	return &api.Note{ID: "local_123", Title: title}, nil
}
func (f *fakeCLINoteService) Get(ctx context.Context, id string) (*api.Note, error) {
	return &api.Note{ID: id}, nil
}
func (f *fakeCLINoteService) Update(ctx context.Context, id, title, content string, tags []string) (*api.Note, error) {
	return &api.Note{ID: id, Title: title}, nil
}
func (f *fakeCLINoteService) Delete(ctx context.Context, id string) error { return nil }
func (f *fakeCLINoteService) ToggleFavorite(ctx context.Context, id string) (*api.Note, error) {
	return &api.Note{ID: id, Favorite: true}, nil
}
func (f *fakeCLINoteService) List(ctx context.Context, params api.ListParams) (*api.NotePage, error) {
	return &api.NotePage{}, nil
}
func (f *fakeCLINoteService) MigrateLocal(ctx context.Context) (int, error) {
	if f.migrateErr != nil {
		return 0, f.migrateErr
	}
	return f.migrated, nil
}

func stubInputs(t *testing.T, text string, password string) {
	t.Helper()

	origText, origPassword := getSimpleText, getPassword
	t.Cleanup(func() {
		getSimpleText = origText
		getPassword = origPassword
	})

	getSimpleText = func(*bufio.Reader, string, io.Writer) (string, error) {
		return text, nil
	}
	getPassword = func(io.Writer) (string, error) {
		return password, nil
	}
}

func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	origPrint := printlnFn
	printlnFn = func(args ...any) (int, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			if s, ok := a.(string); ok {
				parts = append(parts, s)
			}
		}
		lines = append(lines, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = origPrint })
	return &lines
}

func newTestApp(auth *fakeAuthService, notes *fakeCLINoteService) *App {
	return &App{
		authService: auth,
		noteService: notes,
		reader:      bufio.NewReader(strings.NewReader("")),
	}
}

func outputContains(lines []string, substr string) bool {
	for _, l := range lines {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

func TestLogin_TriggersMigration(t *testing.T) {
	stubInputs(t, "a@x.com", "secret")
	lines := capturePrintln(t)

	auth := &fakeAuthService{}
	notes := &fakeCLINoteService{migrated: 3}
	app := newTestApp(auth, notes)

	if err := app.Login(context.Background()); err != nil {
		t.Fatal(err)
	}

	if !auth.loggedIn {
		t.Error("login must establish the session")
	}
	if app.userEmail != "a@x.com" {
		t.Errorf("unexpected user email: %s", app.userEmail)
	}
	if !outputContains(*lines, "Converted 3 cached note(s)") {
		t.Errorf("migration result not reported: %+v", *lines)
	}
}

func TestLogin_MigrationFailureKeepsSession(t *testing.T) {
	stubInputs(t, "a@x.com", "secret")
	lines := capturePrintln(t)

	auth := &fakeAuthService{}
	notes := &fakeCLINoteService{migrateErr: errors.New("server blew up")}
	app := newTestApp(auth, notes)

	if err := app.Login(context.Background()); err != nil {
		t.Fatal(err)
	}

	if !auth.loggedIn {
		t.Error("a failed migration must not tear down the session")
	}
	if !outputContains(*lines, "Run 'migrate' to retry") {
		t.Errorf("retry hint not shown: %+v", *lines)
	}
}

func TestLogin_AuthFailure(t *testing.T) {
	stubInputs(t, "a@x.com", "wrong")
	capturePrintln(t)

	auth := &fakeAuthService{authErr: errors.New("invalid credentials")}
	app := newTestApp(auth, &fakeCLINoteService{})

	if err := app.Login(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if auth.loggedIn {
		t.Error("failed login must not establish a session")
	}
}

func TestLogout_ClearsEmail(t *testing.T) {
	capturePrintln(t)

	auth := &fakeAuthService{loggedIn: true}
	app := newTestApp(auth, &fakeCLINoteService{})
	app.userEmail = "a@x.com"

	if err := app.Logout(context.Background()); err != nil {
		t.Fatal(err)
	}
	if auth.loggedIn || app.userEmail != "" {
		t.Error("logout must clear the session and email")
	}
}
