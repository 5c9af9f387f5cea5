package schedulesheet

import (
	"errors"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Diagnostics counts what a parse threw away so malformed sheets can be spotted
type Diagnostics struct {
	Stops         int
	SpamLines     int
	DroppedTokens int
	SkippedStops  []*ParseError
	ReadError     error
}

type Parser struct {
	catalog Catalog
	logger  zerolog.Logger
}

type Option func(*Parser)

func WithLogger(logger zerolog.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

func NewParser(catalog Catalog, options ...Option) *Parser {
	parser := &Parser{
		catalog: catalog,
		logger:  log.Logger,
	}

	for _, option := range options {
		option(parser)
	}

	return parser
}

// ParseReader is a shortcut for Parse over a plain io.Reader
func (p *Parser) ParseReader(reader io.Reader) (*TimetableDocument, *Diagnostics) {
	return p.Parse(NewLineReader(reader))
}

// Parse reads every stop block from the line stream. It never fails as a whole: stops that cannot be
// parsed are logged, recorded in the diagnostics and left out of the document.
func (p *Parser) Parse(lines LineReader) (*TimetableDocument, *Diagnostics) {
	document := NewTimetableDocument()
	state := &parseState{
		lines:       lines,
		diagnostics: &Diagnostics{},
	}

	line, more := state.next()
	for more {
		var stopName string
		stopName, more = state.seekStopName(line)
		if !more {
			break
		}

		var schedule *StopSchedule
		var err error
		schedule, line, more, err = p.parseStop(state, stopName)

		if err != nil {
			var parseError *ParseError
			if !errors.As(err, &parseError) {
				parseError = &ParseError{Stop: stopName, Err: err}
			}

			state.diagnostics.SkippedStops = append(state.diagnostics.SkippedStops, parseError)
			p.logger.Warn().Str("stop", stopName).Err(parseError.Err).Msg("Skipping stop")
			continue
		}

		document.Set(stopName, schedule)
		state.diagnostics.Stops++
	}

	if state.diagnostics.ReadError != nil {
		p.logger.Error().Err(state.diagnostics.ReadError).Msg("Line stream ended with an error")
	}

	return document, state.diagnostics
}

// parseStop runs one stop block through the header, sub-header and row states. It returns the line that
// ended the block (a page break line) and whether the stream has more lines after it.
func (p *Parser) parseStop(state *parseState, stopName string) (*StopSchedule, string, bool, error) {
	// Seeking the header
	var path strings.Builder
	var labelSet LabelSet

	for labelSet == nil {
		line, more := state.next()
		if !more {
			return nil, "", false, &ParseError{Stop: stopName, Err: ErrHeaderNotFound}
		}
		if isPageBreak(line) {
			return nil, line, true, &ParseError{Stop: stopName, Err: ErrHeaderNotFound}
		}
		if p.catalog.IsSpam(line) {
			state.diagnostics.SpamLines++
			continue
		}

		normalised := NormaliseWhitespace(line)
		if matched, found := p.catalog.ClassifyHeader(normalised); found {
			labelSet = matched
		} else {
			path.WriteString(normalised)
		}
	}

	p.logger.Debug().Str("stop", stopName).Str("path", path.String()).Strs("classes", labelSet).Msg("Found schedule header")

	schedule := newStopSchedule(labelSet)

	// Seeking the sub-header
	var columns []ColumnSpan

	for searched := 0; columns == nil; searched++ {
		if p.catalog.MaxSubHeaderLookahead > 0 && searched >= p.catalog.MaxSubHeaderLookahead {
			line, more := state.skipToPageBreak()
			return nil, line, more, &ParseError{Stop: stopName, Err: ErrSubHeaderNotFound}
		}

		line, more := state.next()
		if !more {
			return nil, "", false, &ParseError{Stop: stopName, Err: ErrSubHeaderNotFound}
		}
		if isPageBreak(line) {
			return nil, line, true, &ParseError{Stop: stopName, Err: ErrSubHeaderNotFound}
		}
		if p.catalog.IsSpam(line) {
			state.diagnostics.SpamLines++
			continue
		}
		if !strings.Contains(line, p.catalog.MarkerToken) {
			continue
		}

		resolved, err := ResolveColumns(labelSet, line, p.catalog.MarkerToken)
		if err != nil {
			line, more := state.skipToPageBreak()
			return nil, line, more, &ParseError{Stop: stopName, Err: err}
		}
		columns = resolved
	}

	// Reading rows
	for {
		line, more := state.next()
		if !more {
			return schedule, "", false, nil
		}
		if isPageBreak(line) {
			return schedule, line, true, nil
		}
		if p.catalog.IsSpam(line) {
			state.diagnostics.SpamLines++
			continue
		}

		for i, column := range columns {
			entry, dropped, ok := ParseHourMinutes(columnSlice(line, columns, i))
			state.diagnostics.DroppedTokens += dropped

			if ok {
				schedule.set(column.Label, entry)
			}
		}
	}
}

type parseState struct {
	lines       LineReader
	diagnostics *Diagnostics
}

func (s *parseState) next() (string, bool) {
	line, err := s.lines.ReadLine()
	if err != nil {
		if !errors.Is(err, io.EOF) && s.diagnostics.ReadError == nil {
			s.diagnostics.ReadError = err
		}

		return "", false
	}

	return line, true
}

// seekStopName takes the stop name from the line that started the block, moving past page break
// markers and blank segments
func (s *parseState) seekStopName(line string) (string, bool) {
	for {
		name := strings.TrimSpace(strings.TrimLeft(line, string(PageBreak)))
		if name != "" {
			return name, true
		}

		var more bool
		line, more = s.next()
		if !more {
			return "", false
		}
	}
}

func (s *parseState) skipToPageBreak() (string, bool) {
	for {
		line, more := s.next()
		if !more {
			return "", false
		}
		if isPageBreak(line) {
			return line, true
		}
	}
}

func isPageBreak(line string) bool {
	return len(line) > 0 && line[0] == PageBreak
}
