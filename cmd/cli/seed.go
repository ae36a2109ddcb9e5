package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fleveque/logolist/internal/catalog"
	"github.com/fleveque/logolist/internal/model"
	"github.com/fleveque/logolist/internal/provider"
	"github.com/fleveque/logolist/internal/storage"
)

const sectorCurated = "Curated"

func seedCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert curated companies into the store (existing domains are skipped)",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			favicons := provider.NewFavicons(e.cfg.Providers.Favicon)
			res, err := seed(cmd.Context(), storage.NewCompanyRepository(e.db), favicons, category)
			if err != nil {
				return err
			}
			e.logger.Info("seed complete",
				zap.String("category", category),
				zap.Int("created", res.created),
				zap.Int("skipped", res.skipped),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "all", "Category key to seed, or all")
	return cmd
}

type seedResult struct {
	created, skipped int
}

// seed inserts the curated entries of one category, or every curated entry
// when category is "all". Entries keep the category they are listed under.
func seed(ctx context.Context, companies storage.CompanyRepository, favicons *provider.Favicons, category string) (seedResult, error) {
	var res seedResult

	insert := func(entry catalog.Entry, key string) error {
		c := &model.Company{
			Name:        entry.Name,
			Domain:      entry.Domain,
			LogoURL:     favicons.LogoURL(entry.Domain),
			Description: "Official logo of " + entry.Name,
			Sector:      sectorCurated,
			Industry:    model.IndustryInternet,
		}
		if key != "" {
			c.Category = &key
		}
		_, created, err := companies.CreateIfAbsent(ctx, c)
		if err != nil {
			return fmt.Errorf("seeding %s: %w", entry.Domain, err)
		}
		if created {
			res.created++
		} else {
			res.skipped++
		}
		return nil
	}

	if category != "all" {
		cat, ok := catalog.Lookup(category)
		if !ok {
			return res, fmt.Errorf("unknown category %q", category)
		}
		for _, entry := range cat.Entries {
			if err := insert(entry, cat.Key); err != nil {
				return res, err
			}
		}
		return res, nil
	}

	for _, entry := range catalog.All() {
		_, key, _ := catalog.FindBySlug(catalog.Slug(entry.Domain))
		if err := insert(entry, key); err != nil {
			return res, err
		}
	}
	return res, nil
}
