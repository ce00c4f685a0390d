package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/umezakip/portfolio/internal/config"
	"github.com/umezakip/portfolio/internal/content"
)

var (
	contentPath string
	imagesDir   string
)

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Inspect the portfolio catalog",
}

var contentCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate a catalog and report gaps",
	Long: `Loads the catalog (the embedded one unless --file or content.path is set),
validates it, and lists gallery entries without a case study, referenced
images missing from the images directory, and image files nothing references.
Missing images are served as placeholders, so they are reported but do not
fail the check.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		path := lo.Ternary(contentPath != "", contentPath, cfg.Content.Path)
		dir := lo.Ternary(imagesDir != "", imagesDir, cfg.Server.ImagesDir)

		catalog, err := content.Load(path)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-22s%d\n", "design entries:", len(catalog.Design))
		fmt.Fprintf(out, "%-22s%d\n", "case studies:", len(catalog.CaseStudies))
		fmt.Fprintf(out, "%-22s%d\n", "development projects:", len(catalog.Development))

		if missing := catalog.MissingCaseStudies(); len(missing) > 0 {
			fmt.Fprintf(out, "%-22s%s\n", "without case study:", strings.Join(missing, ", "))
		}

		absent := lo.Filter(catalog.Images(), func(src string, _ int) bool {
			rel := strings.TrimPrefix(src, "/images/")
			_, err := os.Stat(filepath.Join(dir, filepath.FromSlash(rel)))
			return errors.Is(err, os.ErrNotExist)
		})
		if len(absent) > 0 {
			fmt.Fprintf(out, "missing images (%s):\n", dir)
			for _, src := range absent {
				fmt.Fprintf(out, "  %s\n", src)
			}
		}

		unused, err := unusedImages(dir, catalog.Images())
		if err != nil {
			return err
		}
		if len(unused) > 0 {
			fmt.Fprintf(out, "unreferenced images (%s):\n", dir)
			for _, name := range unused {
				fmt.Fprintf(out, "  %s\n", name)
			}
		}
		return nil
	},
}

const imagePattern = "**/*.{jpg,jpeg,png,gif,webp,svg,avif}"

// unusedImages lists image files under dir that no case study references.
// A missing dir has nothing unused.
func unusedImages(dir string, referenced []string) ([]string, error) {
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	files, err := doublestar.Glob(os.DirFS(dir), imagePattern, doublestar.WithFilesOnly(), doublestar.WithNoFollow())
	if err != nil {
		return nil, fmt.Errorf("listing images: %w", err)
	}
	used := lo.SliceToMap(referenced, func(src string) (string, struct{}) {
		return strings.TrimPrefix(src, "/images/"), struct{}{}
	})
	return lo.Reject(files, func(name string, _ int) bool {
		_, ok := used[name]
		return ok
	}), nil
}

func init() {
	contentCheckCmd.Flags().StringVar(&contentPath, "file", "", "catalog YAML file")
	contentCheckCmd.Flags().StringVar(&imagesDir, "images", "", "images directory")
	contentCmd.AddCommand(contentCheckCmd)
	rootCmd.AddCommand(contentCmd)
}
