package cli

import (
	"fmt"
	"os"

	"sozluk/internal/db"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// Opener connects to the database behind a DSN.
type Opener func(dsn string) (*gorm.DB, error)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	DatabaseURL string
	open        Opener
}

func (o *RootOptions) connect() (*gorm.DB, error) {
	gdb, err := o.open(o.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	return gdb, nil
}

// NewRootCommand creates the sozlukctl command tree. A nil opener uses
// postgres.
func NewRootCommand(open Opener) *cobra.Command {
	if open == nil {
		open = db.Open
	}
	opts := &RootOptions{open: open}

	cmd := &cobra.Command{
		Use:           "sozlukctl",
		Short:         "Administer a sozluk database",
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.DatabaseURL == "" {
				return fmt.Errorf("no database: set --database or DATABASE_URL")
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.DatabaseURL, "database", os.Getenv("DATABASE_URL"), "database DSN")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewCreateAuthorCommand(opts))
	cmd.AddCommand(NewBlockCommand(opts))

	return cmd
}
