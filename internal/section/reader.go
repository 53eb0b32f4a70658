package section

import (
	"strings"

	"github.com/specialistvlad/ftdgo/internal/diag"
)

const (
	sectionMarker            = "-- "
	subsectionMarker         = "--- "
	commentedSectionMarker   = "/-- "
	commentedSubsectionMaker = "/--- "
)

type readState int

const (
	stateHeaders readState = iota
	stateBody
)

type reader struct {
	docID    string
	sections []*Section
	current  *Section
	state    readState
	body     []string
}

// Parse reads text into its ordered list of top-level sections. Commented
// sections are kept and flagged so callers can skip them.
func Parse(text, docID string) ([]*Section, error) {
	r := &reader{docID: docID}
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	for idx, line := range lines {
		lineNumber := idx + 1
		switch {
		case strings.HasPrefix(line, commentedSubsectionMaker):
			if err := r.startSubsection(line[len(commentedSubsectionMaker):], lineNumber, true); err != nil {
				return nil, err
			}
		case strings.HasPrefix(line, subsectionMarker):
			if err := r.startSubsection(line[len(subsectionMarker):], lineNumber, false); err != nil {
				return nil, err
			}
		case strings.HasPrefix(line, commentedSectionMarker):
			if err := r.startSection(line[len(commentedSectionMarker):], lineNumber, true); err != nil {
				return nil, err
			}
		case strings.HasPrefix(line, sectionMarker):
			if err := r.startSection(line[len(sectionMarker):], lineNumber, false); err != nil {
				return nil, err
			}
		default:
			if err := r.readLine(line, lineNumber); err != nil {
				return nil, err
			}
		}
	}
	r.finish()
	return r.sections, nil
}

func (r *reader) startSection(rest string, line int, commented bool) error {
	r.finish()
	s, err := r.newSection(rest, line, commented)
	if err != nil {
		return err
	}
	r.sections = append(r.sections, s)
	r.current = s
	return nil
}

func (r *reader) startSubsection(rest string, line int, commented bool) error {
	r.finish()
	if len(r.sections) == 0 {
		return diag.Errorf(diag.ParseError, r.docID, line, "subsection found before any section")
	}
	parent := r.sections[len(r.sections)-1]
	s, err := r.newSection(rest, line, commented || parent.IsCommented)
	if err != nil {
		return err
	}
	parent.Subsections = append(parent.Subsections, s)
	r.current = s
	return nil
}

func (r *reader) newSection(rest string, line int, commented bool) (*Section, error) {
	name, caption, ok := strings.Cut(rest, ":")
	if !ok {
		return nil, diag.Errorf(diag.ParseError, r.docID, line, "section line must contain `:`, found %q", rest)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, diag.Errorf(diag.ParseError, r.docID, line, "section name is empty")
	}
	s := &Section{Name: name, Line: line, IsCommented: commented}
	if caption = strings.TrimSpace(caption); caption != "" {
		s.Caption = &caption
	}
	r.state = stateHeaders
	r.body = nil
	return s, nil
}

func (r *reader) readLine(line string, lineNumber int) error {
	if r.current == nil {
		if strings.TrimSpace(line) == "" {
			return nil
		}
		return diag.Errorf(diag.ParseError, r.docID, lineNumber, "content found before the first section: %q", line)
	}

	if r.state == stateHeaders {
		if strings.TrimSpace(line) == "" {
			r.state = stateBody
			return nil
		}
		if strings.HasPrefix(line, "/") {
			return nil
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			return diag.Errorf(diag.ParseError, r.docID, lineNumber, "header must be `key: value`, found %q", line)
		}
		r.current.Headers = append(r.current.Headers, Header{
			Line:  lineNumber,
			Key:   strings.TrimSpace(key),
			Value: strings.TrimSpace(value),
		})
		return nil
	}

	if len(r.body) == 0 && strings.TrimSpace(line) == "" {
		return nil
	}
	if len(r.body) == 0 {
		r.current.BodyLine = lineNumber
	}
	if strings.HasPrefix(line, `\--`) {
		line = line[1:]
	}
	r.body = append(r.body, line)
	return nil
}

// finish attaches the collected body to the current section.
func (r *reader) finish() {
	if r.current == nil {
		return
	}
	body := strings.TrimSpace(strings.Join(r.body, "\n"))
	if body != "" {
		r.current.Body = &body
	}
	r.body = nil
}
