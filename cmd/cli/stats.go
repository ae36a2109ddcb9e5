package main

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/fleveque/logolist/internal/service"
	"github.com/fleveque/logolist/internal/storage"
)

func statsCmd() *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print catalog counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			ctx := cmd.Context()
			stats := service.NewStatsService(storage.NewCompanyRepository(e.db), storage.NewSearchLogRepository(e.db))
			m, err := stats.Summary(ctx)
			if err != nil {
				return err
			}
			llmRepo := storage.NewLLMCallRepository(e.db)
			llmCalls, err := llmRepo.Count(ctx)
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(table.StyleRounded)
			t.AppendHeader(table.Row{"Metric", "Value"})
			t.AppendRows([]table.Row{
				{"Companies", m.TotalCompanies},
				{"Downloads", m.TotalDownloads},
				{"Searches", m.TotalSearches},
				{"Search success rate", fmt.Sprintf("%d%%", m.SearchSuccessRate)},
				{"LLM calls", llmCalls},
			})
			if query != "" {
				n, err := llmRepo.CountByQuery(ctx, query)
				if err != nil {
					return err
				}
				t.AppendRow(table.Row{fmt.Sprintf("LLM calls for %q", query), n})
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&query, "query", "", "Also count LLM calls made for this search query")
	return cmd
}
