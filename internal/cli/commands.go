package cli

import (
	"errors"
	"fmt"
	"strings"

	"sozluk/internal/db"
	"sozluk/internal/models"
	"sozluk/internal/utils"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	var seed bool
	cmd := &cobra.Command{
		Use:          "migrate",
		Short:        "Create or update all tables",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := rootOpts.connect()
			if err != nil {
				return err
			}
			if err := db.Migrate(gdb); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			if seed {
				db.SeedCategories(gdb)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrated")
			return nil
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", true, "seed default categories on an empty database")
	return cmd
}

type createAuthorOptions struct {
	password string
	novice   bool
}

// NewCreateAuthorCommand creates the create-author command.
func NewCreateAuthorCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &createAuthorOptions{}
	cmd := &cobra.Command{
		Use:          "create-author <username>",
		Short:        "Create an active author",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := rootOpts.connect()
			if err != nil {
				return err
			}
			author, err := createAuthor(gdb, args[0], opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created author %s (id %d, slug %s)\n", author.Username, author.ID, author.Slug)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.password, "password", "", "login password (required)")
	cmd.Flags().BoolVar(&opts.novice, "novice", false, "create the author as a novice")
	return cmd
}

func createAuthor(gdb *gorm.DB, username string, opts *createAuthorOptions) (*models.Author, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errors.New("username is empty")
	}
	if len(opts.password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}
	slug := utils.Slugify(username)
	if slug == "" {
		return nil, fmt.Errorf("username %q has no usable characters", username)
	}

	hash, err := utils.HashPassword(opts.password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	author := &models.Author{
		Username: username,
		Slug:     slug,
		Password: hash,
		IsNovice: opts.novice,
		IsActive: true,
	}
	if err := gdb.Create(author).Error; err != nil {
		return nil, fmt.Errorf("create author: %w", err)
	}
	return author, nil
}

// NewBlockCommand creates the block command.
func NewBlockCommand(rootOpts *RootOptions) *cobra.Command {
	var undo bool
	cmd := &cobra.Command{
		Use:          "block <author> <blocked>",
		Short:        "Make one author block another, by username",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := rootOpts.connect()
			if err != nil {
				return err
			}
			if err := block(gdb, args[0], args[1], undo); err != nil {
				return err
			}
			verb := "blocked"
			if undo {
				verb = "unblocked"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", args[0], verb, args[1])
			return nil
		},
	}
	cmd.Flags().BoolVar(&undo, "undo", false, "remove the block instead")
	return cmd
}

func block(gdb *gorm.DB, username, blockedName string, undo bool) error {
	if username == blockedName {
		return errors.New("an author cannot block themselves")
	}
	var author, blocked models.Author
	if err := gdb.Where("username = ?", username).First(&author).Error; err != nil {
		return fmt.Errorf("author %q: %w", username, err)
	}
	if err := gdb.Where("username = ?", blockedName).First(&blocked).Error; err != nil {
		return fmt.Errorf("author %q: %w", blockedName, err)
	}

	if undo {
		return gdb.Where("author_id = ? AND blocked_id = ?", author.ID, blocked.ID).
			Delete(&models.AuthorBlock{}).Error
	}
	var existing int64
	if err := gdb.Model(&models.AuthorBlock{}).
		Where("author_id = ? AND blocked_id = ?", author.ID, blocked.ID).
		Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}
	return gdb.Create(&models.AuthorBlock{AuthorID: author.ID, BlockedID: blocked.ID}).Error
}
