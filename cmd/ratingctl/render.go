package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/okian/ratingscope/internal/domain/model"
	"github.com/okian/ratingscope/internal/domain/types"
)

type jsonOutput struct {
	Record   types.PlayerRecord `json:"player"`
	Category model.Category     `json:"category"`
	Debug    *types.Debug       `json:"debug,omitempty"`
}

func render(w io.Writer, res types.LookupResult, asJSON bool) error {
	category := model.CategoryFor(res.Record.CurrentRating)
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(jsonOutput{Record: res.Record, Category: category, Debug: res.Debug})
	}

	rec := res.Record
	summary := table.NewWriter()
	summary.SetOutputMirror(w)
	summary.SetStyle(table.StyleRounded)
	summary.AppendRows([]table.Row{
		{"Player", rec.Name},
		{"ID", rec.ID},
		{"Current", rec.CurrentRating},
		{"Category", category},
		{"Peak", fmt.Sprintf("%d (%s)", rec.PeakRating, rec.PeakDate)},
		{"Trend", rec.Trend},
	})
	summary.Render()

	hist := table.NewWriter()
	hist.SetOutputMirror(w)
	hist.SetStyle(table.StyleRounded)
	hist.AppendHeader(table.Row{"Year", "Rating", "Change"})
	for i, p := range rec.RatingHistory {
		change := ""
		if i > 0 {
			change = signed(p.Rating - rec.RatingHistory[i-1].Rating)
		}
		hist.AppendRow(table.Row{p.Year, p.Rating, change})
	}
	hist.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})
	hist.Render()

	if res.Debug != nil {
		stages := table.NewWriter()
		stages.SetOutputMirror(w)
		stages.SetStyle(table.StyleRounded)
		stages.AppendHeader(table.Row{"Field", "Stage"})
		fields := make([]string, 0, len(res.Debug.Stages))
		for f := range res.Debug.Stages {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		for _, f := range fields {
			stages.AppendRow(table.Row{f, res.Debug.Stages[f]})
		}
		if res.Debug.FetchError != "" {
			stages.AppendFooter(table.Row{"fetch error", res.Debug.FetchError})
		}
		stages.Render()
	}
	return nil
}

func signed(n int) string {
	if n > 0 {
		return "+" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
