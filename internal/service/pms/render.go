package pms

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/np1/pms/internal/client/pleer"
	"github.com/np1/pms/internal/utils"
)

const (
	// artistColumnWidth and titleColumnWidth bound the text columns of the results table.
	artistColumnWidth = 28
	titleColumnWidth  = 40

	colorTitle = "#7D56F4"
	colorOK    = "#04B575"
	colorError = "#FF0000"
	colorWarn  = "#FFA500"
	colorDim   = "#626262"
)

// helpText lists the interactive commands.
const helpText = `Commands:
  <text>         search for <text>
  <n>            play result n
  d <selection>  download results, e.g. "d 1", "d 1,3", "d 2-5", "d all"
  n / p          next / previous page
  r              show the current results again
  h / ?          this help
  q              quit`

// Renderer writes styled session output. Styles are dropped when out is not a terminal.
type Renderer struct {
	out    io.Writer
	title  lipgloss.Style
	header lipgloss.Style
	index  lipgloss.Style
	cell   lipgloss.Style
	dim    lipgloss.Style
	ok     lipgloss.Style
	err    lipgloss.Style
	warn   lipgloss.Style
}

// NewRenderer creates a renderer writing to out.
func NewRenderer(out io.Writer) *Renderer {
	r := lipgloss.NewRenderer(out)

	newStyle := func(fg string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(fg))
	}

	return &Renderer{
		out:    out,
		title:  newStyle(colorTitle).Bold(true),
		header: newStyle(colorTitle).Bold(true).Padding(0, 1),
		index:  newStyle(colorOK).Bold(true).Padding(0, 1).Align(lipgloss.Right),
		cell:   r.NewStyle().Padding(0, 1),
		dim:    newStyle(colorDim).Padding(0, 1),
		ok:     newStyle(colorOK),
		err:    newStyle(colorError).Bold(true),
		warn:   newStyle(colorWarn),
	}
}

// Results prints a page of search results as a table.
func (r *Renderer) Results(page *SearchPage) {
	if page == nil || len(page.Tracks) == 0 {
		r.Warn("No results.")

		return
	}

	fmt.Fprintln(r.out, r.title.Render(fmt.Sprintf("Results for %q, page %d (%d total)",
		page.Query, page.Page, page.Total)))

	rows := make([][]string, 0, len(page.Tracks))
	for i, track := range page.Tracks {
		rows = append(rows, trackRow(i+1, track))
	}

	resultsTable := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.dim.UnsetPadding()).
		Headers("#", "Artist", "Title", "Time", "Bitrate", "Size").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return r.header
			case col == 0:
				return r.index
			case col >= 3:
				return r.dim
			default:
				return r.cell
			}
		})

	fmt.Fprintln(r.out, resultsTable.Render())

	switch {
	case page.HasPrev && page.HasNext:
		r.Hint("n: next page, p: previous page")
	case page.HasNext:
		r.Hint("n: next page")
	case page.HasPrev:
		r.Hint("p: previous page")
	}
}

// trackRow formats one table row.
func trackRow(index int, track *pleer.Track) []string {
	size := "-"
	if track.Size > 0 {
		size = humanize.Bytes(uint64(track.Size))
	}

	bitrate := track.BitrateText
	if track.Bitrate > 0 {
		bitrate = strconv.FormatInt(track.Bitrate, 10) + " kbps"
	}

	return []string{
		strconv.Itoa(index),
		utils.Truncate(track.Artist, artistColumnWidth),
		utils.Truncate(track.Title, titleColumnWidth),
		utils.FormatDuration(track.Duration),
		bitrate,
		size,
	}
}

// Help prints the command list.
func (r *Renderer) Help() {
	fmt.Fprintln(r.out, helpText)
}

// Prompt prints the input prompt.
func (r *Renderer) Prompt() {
	fmt.Fprint(r.out, r.title.Render("pms")+" > ")
}

// Info prints a plain message.
func (r *Renderer) Info(format string, args ...any) {
	fmt.Fprintln(r.out, r.ok.Render(fmt.Sprintf(format, args...)))
}

// Hint prints a dimmed message.
func (r *Renderer) Hint(format string, args ...any) {
	fmt.Fprintln(r.out, r.dim.UnsetPadding().Render(fmt.Sprintf(format, args...)))
}

// Warn prints a warning.
func (r *Renderer) Warn(format string, args ...any) {
	fmt.Fprintln(r.out, r.warn.Render(fmt.Sprintf(format, args...)))
}

// Error prints an error.
func (r *Renderer) Error(err error) {
	fmt.Fprintln(r.out, r.err.Render("Error: "+err.Error()))
}
