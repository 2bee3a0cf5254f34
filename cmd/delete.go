package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/lepinkainen/bookwyrm/internal/config"
	"github.com/lepinkainen/bookwyrm/internal/library"
)

// DeleteCmd removes a book record and its cover image.
type DeleteCmd struct {
	AuthorDir string `arg:"" help:"Author directory of the record"`
	Filename  string `arg:"" help:"Record filename without extension"`
	Force     bool   `short:"f" help:"Skip the confirmation prompt"`
}

func (d *DeleteCmd) Run(settings config.Settings) error {
	ctx := context.Background()

	repo, err := library.Open(settings.BooksDir)
	if err != nil {
		return err
	}
	defer func() { _ = repo.Close() }()

	b, err := repo.Read(ctx, d.AuthorDir, d.Filename)
	if err != nil {
		if library.IsNotFound(err) {
			return fmt.Errorf("no book at %s/%s", d.AuthorDir, d.Filename)
		}
		return err
	}

	if !d.Force {
		fmt.Printf("Delete %q by %s? [y/N] ", b.Title, b.AuthorNames())
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if !strings.EqualFold(strings.TrimSpace(answer), "y") {
			fmt.Println("Aborted")
			return nil
		}
	}

	if err := repo.Delete(ctx, b); err != nil {
		return err
	}
	fmt.Printf("Deleted %s\n", b.Cache.Filepath)
	return nil
}
