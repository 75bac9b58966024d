package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/foodrescuehub/foodrescue/internal/web/static"
)

func collectStaticCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "collect-static",
		Short: "Copy embedded static assets to a directory for external serving",
		RunE: func(cmd *cobra.Command, _ []string) error {
			copied := 0
			err := fs.WalkDir(static.FS, ".", func(path string, entry fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if entry.IsDir() {
					return nil
				}
				data, err := fs.ReadFile(static.FS, path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				target := filepath.Join(outDir, path)
				if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
					return fmt.Errorf("create %s: %w", filepath.Dir(target), err)
				}
				if err := os.WriteFile(target, data, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", target, err)
				}
				copied++
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d static files copied to %s\n", copied, outDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "staticfiles", "target directory")
	return cmd
}
