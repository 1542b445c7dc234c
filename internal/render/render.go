// Package render prints a tracker result to a terminal.
package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	service "github.com/okian/onbase/internal/app"
	"github.com/okian/onbase/internal/domain/model"
)

// Disclaimer is printed under every report.
const Disclaimer = "Data Disclaimer: This tool uses data sourced from the unofficial MLB Stats API. " +
	"Data accuracy and availability depend entirely on MLB's API and are not guaranteed. " +
	"MLB holds all rights to the underlying data."

// Option configures a Renderer.
type Option func(*Renderer)

// WithGames includes the game log of the streak window.
func WithGames(show bool) Option {
	return func(r *Renderer) { r.showGames = show }
}

// WithColor turns ANSI colors on or off.
func WithColor(on bool) Option {
	return func(r *Renderer) { r.color = on }
}

// WithLimit caps the number of leaderboard rows. Zero shows all.
func WithLimit(n int) Option {
	return func(r *Renderer) {
		if n >= 0 {
			r.limit = n
		}
	}
}

// Renderer writes human-readable reports.
type Renderer struct {
	w         io.Writer
	showGames bool
	color     bool
	limit     int
}

// New returns a Renderer writing to w. Colors follow the terminal unless
// WithColor says otherwise.
func New(w io.Writer, opts ...Option) *Renderer {
	r := &Renderer{w: w, color: !color.NoColor}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render writes the headline, optional game log, leaderboard and disclaimer.
func (r *Renderer) Render(res service.Result) error {
	for _, w := range res.Warnings {
		r.printf(r.paint(color.FgYellow), "warning: %s\n", w.Message)
	}
	if len(res.Warnings) > 0 {
		r.printf(nil, "\n")
	}

	r.headline(res)

	if r.showGames && len(res.Games) > 0 {
		title := "Streak game log"
		if !res.Record.Active() {
			title = "Ended streak game log"
		}
		r.printf(r.paint(color.Bold), "\n%s\n", title)
		r.printf(nil, "%s\n", GamesTable(res.Games))
	}

	r.printf(r.paint(color.Bold), "\nAll-Time On-Base Streaks\n")
	r.printf(nil, "%s\n", r.leaderboard(res))

	_, err := fmt.Fprintf(r.w, "\n---\n%s\n", Disclaimer)
	return err
}

func (r *Renderer) headline(res service.Result) {
	rec := res.Record
	name := res.Player.Name

	if !rec.Active() {
		rank := "unranked"
		if rec.FinalRank != nil {
			rank = "ranked " + humanize.Ordinal(*rec.FinalRank) + " all-time"
		}
		r.printf(r.paint(color.FgYellow, color.Bold), "%s's streak ended at %d games, %s.\n", name, rec.Streak, rank)
		if rec.StartDate != nil && rec.EndDate != nil {
			r.printf(nil, "The streak ran from %s to %s.\n", rec.StartDate, rec.EndDate)
		}
		return
	}

	r.printf(r.paint(color.FgGreen, color.Bold), "Current On-Base Streak: %d games\n", rec.Streak)
	if n := len(res.Seasons); n > 0 {
		r.printf(nil, "Streak spans %d and %d regular season games.\n", res.Seasons[0], res.Seasons[n-1])
	}
	r.printf(nil, "Updated as of: %s\n", res.RefreshedAt.Format(model.DateLayout))
	if res.CurrentRank > 0 {
		r.printf(nil, "%s currently ranks %s all-time in consecutive games reaching base safely.\n",
			name, humanize.Ordinal(res.CurrentRank))
	}
}

func (r *Renderer) leaderboard(res service.Result) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Rank", "Name", "Team", "Streak", "Seasons"})

	entries := res.Leaderboard
	if r.limit > 0 && len(entries) > r.limit {
		entries = entries[:r.limit]
	}
	for _, e := range entries {
		tbl.AppendRow(table.Row{e.Rank, e.Name, e.Team, e.Streak, e.Seasons})
	}

	if r.color {
		tbl.SetRowPainter(table.RowPainter(func(row table.Row) text.Colors {
			if len(row) > 1 && row[1] == res.Player.Name {
				return text.Colors{text.BgYellow, text.FgBlack}
			}
			return nil
		}))
	}
	tbl.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignCenter},
		{Number: 4, Align: text.AlignCenter},
	})
	return tbl.Render()
}

// GamesTable renders game outcomes most recent first.
func GamesTable(games []model.GameOutcome) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Date", "Season", "Opponent", "H", "BB", "HBP", "PA", "Reached"})
	for _, g := range games {
		tbl.AppendRow(table.Row{
			g.Date.String(), g.Season, g.Opponent,
			g.Hits, g.Walks, g.HitByPitch, g.PlateAppearances,
			strconv.FormatBool(g.ReachedBase),
		})
	}
	tbl.AppendFooter(table.Row{"", "", fmt.Sprintf("%d games", len(games))})
	return tbl.Render()
}

func (r *Renderer) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if !r.color {
		c.DisableColor()
	} else {
		c.EnableColor()
	}
	return c
}

func (r *Renderer) printf(c *color.Color, format string, args ...any) {
	if c == nil {
		_, _ = fmt.Fprintf(r.w, format, args...)
		return
	}
	_, _ = c.Fprintf(r.w, format, args...)
}
