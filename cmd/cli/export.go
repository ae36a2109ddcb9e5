package main

import (
	"context"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fleveque/logolist/internal/catalog"
	"github.com/fleveque/logolist/internal/model"
	"github.com/fleveque/logolist/internal/provider"
	"github.com/fleveque/logolist/internal/service"
	"github.com/fleveque/logolist/internal/storage"
)

func exportCmd() *cobra.Command {
	var (
		dir   string
		limit int
		force bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render the top companies' logos in every size under --dir",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			if dir == "" {
				dir = e.cfg.Storage.AssetDir
			}
			fs, err := storage.NewFileSystem(dir)
			if err != nil {
				return err
			}

			images := service.NewImageProcessor(fs)
			x := &exporter{
				companies: storage.NewCompanyRepository(e.db),
				favicons:  provider.NewFavicons(e.cfg.Providers.Favicon),
				downloads: service.NewDownloadService(images, 15*time.Second),
				images:    images,
				fs:        fs,
				force:     force,
				logger:    e.logger,
			}
			results, err := x.run(cmd.Context(), limit)
			if err != nil {
				return err
			}

			printExport(results)
			slugs, err := fs.Slugs()
			if err != nil {
				return err
			}
			e.logger.Info("export complete", zap.String("dir", dir), zap.Int("brands_on_disk", len(slugs)))
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Output directory (default storage.asset_dir)")
	cmd.Flags().IntVar(&limit, "limit", 20, "Number of top companies to export")
	cmd.Flags().BoolVar(&force, "force", false, "Re-export brands that already have files")
	return cmd
}

type exportResult struct {
	slug   string
	status string
	sizes  int
}

type exporter struct {
	companies storage.CompanyRepository
	favicons  *provider.Favicons
	downloads *service.DownloadService
	images    *service.ImageProcessor
	fs        *storage.FileSystem
	force     bool
	logger    *zap.Logger
}

func (x *exporter) run(ctx context.Context, limit int) ([]exportResult, error) {
	companies, err := x.companies.Top(ctx, limit)
	if err != nil {
		return nil, err
	}

	results := make([]exportResult, 0, len(companies))
	for _, c := range companies {
		if ctx.Err() != nil {
			return results, ctx.Err()
		}
		results = append(results, x.exportOne(ctx, c))
	}
	return results, nil
}

func (x *exporter) exportOne(ctx context.Context, c model.Company) exportResult {
	slug := catalog.Slug(c.Domain)
	if !x.force && x.fs.Exists(slug, model.SizeXL) {
		return exportResult{slug: slug, status: "skipped"}
	}

	logoURL := c.LogoURL
	if logoURL == "" {
		logoURL = x.favicons.LogoURL(c.Domain)
	}
	data, err := x.downloads.FetchRaw(ctx, logoURL)
	if err != nil {
		x.logger.Warn("downloading logo", zap.String("domain", c.Domain), zap.Error(err))
		return exportResult{slug: slug, status: "download failed"}
	}

	n, err := x.images.Export(slug, data)
	if err != nil {
		x.logger.Warn("rendering logo", zap.String("domain", c.Domain), zap.Error(err))
		if n == 0 {
			// Nothing usable was written; don't leave an empty brand behind.
			_ = x.fs.Remove(slug)
			return exportResult{slug: slug, status: "render failed"}
		}
		return exportResult{slug: slug, status: "partial", sizes: n}
	}
	return exportResult{slug: slug, status: "ok", sizes: n}
}

func printExport(results []exportResult) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"#", "Brand", "Status", "Sizes"})
	ok := 0
	for i, r := range results {
		if r.status == "ok" {
			ok++
		}
		t.AppendRow(table.Row{i + 1, r.slug, r.status, r.sizes})
	}
	t.AppendFooter(table.Row{"", "Total", len(results), ok})
	t.Render()
}
