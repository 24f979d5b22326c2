package pms

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/np1/pms/internal/client/pleer"
	"github.com/np1/pms/internal/logger"
)

// Session is the interactive read-eval loop over a Service.
type Session struct {
	// service performs searches, plays and downloads.
	service Service
	// renderer writes the output.
	renderer *Renderer
	// input supplies one command per line.
	input io.Reader
	// current is the page on screen, nil before the first search.
	current *SearchPage
}

// inputLine is one line read from the session input.
type inputLine struct {
	text string
	err  error
	eof  bool
}

// NewSession creates a session reading commands from input and writing to output.
func NewSession(service Service, input io.Reader, output io.Writer) *Session {
	return &Session{
		service:  service,
		renderer: NewRenderer(output),
		input:    input,
	}
}

// Run processes commands until quit, end of input or cancellation of ctx.
// A non-empty initialQuery is searched before the first prompt.
func (s *Session) Run(ctx context.Context, initialQuery string) error {
	ctx = logger.WithName(ctx, "session")

	if strings.TrimSpace(initialQuery) != "" {
		s.search(ctx, initialQuery)
	} else {
		s.renderer.Hint("Type a search term, h for help or q to quit.")
	}

	// Lines are read one at a time on request so the player can own the terminal while it runs.
	requests := make(chan struct{})
	lines := make(chan inputLine, 1)

	go s.readLines(requests, lines)
	defer close(requests)

	for {
		s.renderer.Prompt()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case requests <- struct{}{}:
		}

		var line inputLine

		select {
		case <-ctx.Done():
			return ctx.Err()
		case line = <-lines:
		}

		if line.err != nil {
			return line.err
		}

		if line.eof {
			return nil
		}

		if quit := s.handle(ctx, line.text); quit {
			return nil
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (s *Session) readLines(requests <-chan struct{}, lines chan<- inputLine) {
	scanner := bufio.NewScanner(s.input)

	for range requests {
		if scanner.Scan() {
			lines <- inputLine{text: scanner.Text()}

			continue
		}

		lines <- inputLine{err: scanner.Err(), eof: true}

		return
	}
}

// handle runs one command and reports whether the session should end.
func (s *Session) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	command := strings.ToLower(line)

	switch {
	case command == "":
		return false
	case command == "q" || command == "quit" || command == "exit":
		return true
	case command == "h" || command == "?" || command == "help":
		s.renderer.Help()
	case command == "n":
		s.nextPage(ctx)
	case command == "p":
		s.previousPage(ctx)
	case command == "r":
		if s.requireResults() {
			s.renderer.Results(s.current)
		}
	case isDownloadCommand(command):
		s.download(ctx, strings.TrimSpace(line[1:]))
	default:
		if number, err := strconv.Atoi(command); err == nil {
			s.play(ctx, number)

			return false
		}

		s.search(ctx, line)
	}

	return false
}

// isDownloadCommand matches "d", "d <selection>", "d3" and "d*".
func isDownloadCommand(command string) bool {
	if command == "d" || strings.HasPrefix(command, "d ") {
		return true
	}

	if len(command) < 2 || command[0] != 'd' {
		return false
	}

	return command[1] == '*' || (command[1] >= '0' && command[1] <= '9')
}

func (s *Session) search(ctx context.Context, query string) {
	result, err := s.service.Search(ctx, query, 1)
	if err != nil {
		s.reportError(err)

		return
	}

	s.current = result
	s.renderer.Results(result)
}

// turnPage lists another page of the current query.
func (s *Session) turnPage(ctx context.Context, page int) {
	result, err := s.service.Page(ctx, s.current.Query, page)
	if err != nil {
		s.reportError(err)

		return
	}

	if len(result.Tracks) == 0 && page > 1 {
		s.renderer.Warn("No more results.")

		return
	}

	s.current = result
	s.renderer.Results(result)
}

func (s *Session) nextPage(ctx context.Context) {
	if !s.requireResults() {
		return
	}

	if !s.current.HasNext {
		s.renderer.Warn("Already on the last page.")

		return
	}

	s.turnPage(ctx, s.current.Page+1)
}

func (s *Session) previousPage(ctx context.Context) {
	if !s.requireResults() {
		return
	}

	if !s.current.HasPrev {
		s.renderer.Warn("Already on the first page.")

		return
	}

	s.turnPage(ctx, s.current.Page-1)
}

func (s *Session) play(ctx context.Context, number int) {
	if !s.requireResults() {
		return
	}

	selection, err := ParseSelection(strconv.Itoa(number), len(s.current.Tracks))
	if err != nil {
		s.reportError(err)

		return
	}

	track := s.current.Tracks[selection[0]-1]
	s.renderer.Info("Playing %s", track.DisplayName())

	if err = s.service.Play(ctx, track); err != nil {
		s.reportError(err)
	}
}

func (s *Session) download(ctx context.Context, input string) {
	if !s.requireResults() {
		return
	}

	selection, err := ParseSelection(input, len(s.current.Tracks))
	if err != nil {
		s.reportError(err)

		return
	}

	tracks := make([]*pleer.Track, 0, len(selection))
	for _, number := range selection {
		tracks = append(tracks, s.current.Tracks[number-1])
	}

	s.renderer.Info("Downloading %d track(s)", len(tracks))
	s.service.Download(ctx, tracks)
}

// requireResults prints a hint and returns false when nothing has been searched yet.
func (s *Session) requireResults() bool {
	if s.current != nil && len(s.current.Tracks) > 0 {
		return true
	}

	s.reportError(ErrNoResults)

	return false
}

func (s *Session) reportError(err error) {
	if errors.Is(err, context.Canceled) {
		return
	}

	s.renderer.Error(err)
}
