package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/eykd/notecheck-go/internal/config"
	"github.com/eykd/notecheck-go/internal/fs"
	"github.com/eykd/notecheck-go/internal/lock"
)

var defaultGetwd = os.Getwd

// NewInitCmd creates the init command. The getwd function returns the working
// directory where the project config will be written.
func NewInitCmd(getwd func() (string, error)) *cobra.Command {
	return &cobra.Command{
		Use:          "init",
		Short:        "Write a default " + config.FileName + " in the current directory",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := getwd()
			if err != nil {
				return fmt.Errorf("getting working directory: %w", err)
			}

			w := &fs.OSWriter{Root: cwd}
			if w.Exists(config.FileName) {
				fmt.Fprintln(cmd.OutOrStdout(), "notecheck project already initialized")
				return nil
			}

			data, err := config.Marshal(config.Default())
			if err != nil {
				return err
			}
			err = lock.ForProject(cwd).Do(cmd.Context(), func() error {
				return w.WriteFile(cmd.Context(), config.FileName, string(data))
			})
			if err != nil {
				return &ContextError{Op: "init", Path: filepath.Join(cwd, config.FileName), Err: err}
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Initialized notecheck project")
			return nil
		},
	}
}
