package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dbelyakov/noteleaf/internal/client/api"
)

// Add prompts for a title, body and tags and saves the note. Anonymous
// users get a note in the local cache; logged-in users a server note.
func (a *App) Add(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Enter title", os.Stdout)
	if err != nil {
		return err
	}

	content, err := getMultiline(a.reader, "Enter note text", os.Stdout)
	if err != nil {
		return err
	}

	tags, err := getTags(a.reader, os.Stdout)
	if err != nil {
		return err
	}

	note, err := a.noteService.Add(ctx, title, content, tags)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}

	if a.isLoggedIn() {
		printlnFn("Saved:", note.ID)
	} else {
		printlnFn("Saved locally:", note.ID)
		printlnFn("Sign up to save permanently!")
	}
	return nil
}

// List prints the user's notes, one per line. An optional argument is used
// as a search filter; for logged-in users it is applied server-side.
func (a *App) List(ctx context.Context, args []string) error {
	params := api.ListParams{}
	if len(args) > 0 {
		params.Search = strings.Join(args, " ")
	}

	page, err := a.noteService.List(ctx, params)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}

	if len(page.Notes) == 0 {
		printlnFn("No notes.")
		return nil
	}

	for _, n := range page.Notes {
		printlnFn(formatNoteLine(&n))
	}
	if page.Pagination.TotalPages > 1 {
		printlnFn(fmt.Sprintf("Page %d of %d (%d notes total)",
			page.Pagination.Page, page.Pagination.TotalPages, page.Pagination.Total))
	}
	return nil
}

func formatNoteLine(n *api.Note) string {
	marker := " "
	if n.Favorite {
		marker = "*"
	}
	line := fmt.Sprintf("%s %s  %s", marker, n.ID, n.Title)
	if len(n.Tags) > 0 {
		line += "  [" + strings.Join(n.Tags, ", ") + "]"
	}
	return line
}

// Show prints a single note in full.
func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: show <id>")
		return nil
	}

	note, err := a.noteService.Get(ctx, args[0])
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}

	printlnFn(note.Title)
	if len(note.Tags) > 0 {
		printlnFn("Tags:", strings.Join(note.Tags, ", "))
	}
	printlnFn("")
	printlnFn(note.Content)
	return nil
}

// Edit prompts for a new title, body and tags and overwrites the note.
func (a *App) Edit(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: edit <id>")
		return nil
	}

	title, err := getSimpleText(a.reader, "Enter new title", os.Stdout)
	if err != nil {
		return err
	}

	content, err := getMultiline(a.reader, "Enter new note text", os.Stdout)
	if err != nil {
		return err
	}

	tags, err := getTags(a.reader, os.Stdout)
	if err != nil {
		return err
	}

	note, err := a.noteService.Update(ctx, args[0], title, content, tags)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}

	printlnFn("Updated:", note.ID)
	return nil
}

// Delete removes a note.
func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: delete <id>")
		return nil
	}

	if err := a.noteService.Delete(ctx, args[0]); err != nil {
		printlnFn("Error:", err.Error())
		return err
	}

	printlnFn("Deleted.")
	return nil
}

// Favorite toggles the favorite flag of a note.
func (a *App) Favorite(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: fav <id>")
		return nil
	}

	note, err := a.noteService.ToggleFavorite(ctx, args[0])
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}

	if note.Favorite {
		printlnFn("Marked as favorite.")
	} else {
		printlnFn("Removed from favorites.")
	}
	return nil
}
