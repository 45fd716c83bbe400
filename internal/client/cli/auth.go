package cli

import (
	"context"
	"fmt"
	"os"
)

// getSimpleText, getPassword and getMultiline are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getMultiline = GetMultiline
var getTags = GetTags

// Register prompts the user for an email, password and optional display name
// and creates a new account. On success the session is established and any
// notes cached while anonymous are converted into server notes.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	name, err := getSimpleText(a.reader, "Enter display name (optional)", os.Stdout)
	if err != nil {
		return err
	}
	var namePtr *string
	if name != "" {
		namePtr = &name
	}

	resp, err := a.authService.Register(ctx, email, password, namePtr)
	if err != nil {
		printlnFn("Registration failed:", err.Error())
		return err
	}

	a.userEmail = resp.User.Email
	printlnFn("Success!")

	a.migrateCachedNotes(ctx)
	return nil
}

// Login prompts the user for credentials and authenticates. On success the
// session is established and any notes cached while anonymous are converted
// into server notes.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	resp, err := a.authService.Login(ctx, email, password)
	if err != nil {
		printlnFn("Login failed:", err.Error())
		return err
	}

	a.userEmail = resp.User.Email
	printlnFn("Success!")

	a.migrateCachedNotes(ctx)
	return nil
}

// Google prints the Google consent URL, then prompts for the authorization
// code obtained after granting access.
func (a *App) Google(ctx context.Context) error {
	authURL, err := a.authService.GoogleAuthURL(ctx)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	printlnFn("Open this URL in your browser and grant access:")
	printlnFn(authURL)

	code, err := getSimpleText(a.reader, "Enter the authorization code", os.Stdout)
	if err != nil {
		return err
	}

	resp, err := a.authService.GoogleAuth(ctx, code)
	if err != nil {
		printlnFn("Google sign-in failed:", err.Error())
		return err
	}

	a.userEmail = resp.User.Email
	printlnFn("Success!")

	a.migrateCachedNotes(ctx)
	return nil
}

// Forgot requests a password reset code for the given email.
func (a *App) Forgot(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.authService.ForgotPassword(ctx, email); err != nil {
		printlnFn("Error:", err.Error())
		return err
	}

	printlnFn("Reset code sent. Check your email.")
	return nil
}

// Reset sets a new password using the emailed reset code.
func (a *App) Reset(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	otp, err := getSimpleText(a.reader, "Enter the 6-digit reset code", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.authService.ResetPassword(ctx, email, otp, password); err != nil {
		printlnFn("Error:", err.Error())
		return err
	}

	printlnFn("Password updated. You can log in now.")
	return nil
}

// Logout drops the session. Notes cached on this device are kept.
func (a *App) Logout(ctx context.Context) error {
	a.authService.Logout()
	a.userEmail = ""
	printlnFn("Logged out.")
	return nil
}

// migrateCachedNotes converts notes cached while anonymous into server
// notes. A failed migration keeps the cache intact and does not affect the
// established session; the user can retry with the 'migrate' command.
func (a *App) migrateCachedNotes(ctx context.Context) {
	count, err := a.noteService.MigrateLocal(ctx)
	if err != nil {
		printlnFn("Warning: could not convert cached notes:", err.Error())
		printlnFn("Your notes are still on this device. Run 'migrate' to retry.")
		return
	}
	if count > 0 {
		printlnFn(fmt.Sprintf("Converted %d cached note(s) to your account.", count))
	}
}

// Migrate retries the conversion of cached notes into server notes.
func (a *App) Migrate(ctx context.Context) error {
	count, err := a.noteService.MigrateLocal(ctx)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	printlnFn(fmt.Sprintf("Converted %d cached note(s).", count))
	return nil
}
