// Package imap adapts an IMAP mailbox to the identifier scan's message
// source port. One connection per scan: dial, select, search the window,
// fetch bodies, logout.
package imap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	gomail "github.com/emersion/go-message/mail"

	"github.com/orderdesk/walmart-importer/internal/identifier/domain"
)

type Store struct {
	log      *slog.Logger
	addr     string
	username string
	password string
}

func NewStore(log *slog.Logger, addr, username, password string) *Store {
	return &Store{log: log, addr: addr, username: username, password: password}
}

// Messages downloads every message of the folder received inside
// [since, before). Connectivity and folder failures are fatal; a message
// whose body cannot be parsed is still returned and reports the failure
// through its accessors, so the extractor can skip just that one.
func (s *Store) Messages(ctx context.Context, folder string, since, before time.Time) ([]domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c, err := client.DialTLS(s.addr, nil)
	if err != nil {
		return nil, fmt.Errorf("imap dial %s: %w", s.addr, err)
	}
	defer func() {
		_ = c.Logout()
	}()

	if err := c.Login(s.username, s.password); err != nil {
		return nil, fmt.Errorf("imap login %s: %w", s.username, err)
	}
	if _, err := c.Select(folder, true); err != nil {
		return nil, fmt.Errorf("imap folder %q: %w", folder, err)
	}

	criteria := imap.NewSearchCriteria()
	criteria.Since = since
	criteria.Before = before
	seqNums, err := c.Search(criteria)
	if err != nil {
		return nil, fmt.Errorf("imap search: %w", err)
	}
	s.log.Info("imap search complete", "folder", folder, "matches", len(seqNums))
	if len(seqNums) == 0 {
		return nil, nil
	}

	seqSet := new(imap.SeqSet)
	seqSet.AddNum(seqNums...)
	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{imap.FetchEnvelope, section.FetchItem()}

	ch := make(chan *imap.Message, 16)
	done := make(chan error, 1)
	go func() {
		done <- c.Fetch(seqSet, items, ch)
	}()

	var out []domain.Message
	for raw := range ch {
		out = append(out, readMessage(raw, section))
	}
	if err := <-done; err != nil {
		return nil, fmt.Errorf("imap fetch: %w", err)
	}
	return out, nil
}

// readMessage walks the MIME tree collecting the plain and HTML bodies.
// Parsing problems are recorded on the message, not raised.
func readMessage(raw *imap.Message, section *imap.BodySectionName) domain.Message {
	m := &message{}
	if raw.Envelope != nil {
		m.subject = raw.Envelope.Subject
	}

	body := raw.GetBody(section)
	if body == nil {
		m.err = errors.New("server returned no body section")
		return m
	}

	mr, err := gomail.CreateReader(body)
	if err != nil {
		m.err = fmt.Errorf("parse message: %w", err)
		return m
	}
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			m.err = fmt.Errorf("read part: %w", err)
			break
		}
		header, ok := part.Header.(*gomail.InlineHeader)
		if !ok {
			continue
		}
		contentType, _, err := header.ContentType()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(part.Body)
		if err != nil {
			m.err = fmt.Errorf("read body: %w", err)
			break
		}
		switch strings.ToLower(contentType) {
		case "text/html":
			m.html += string(data)
		case "text/plain":
			m.text += string(data)
		}
	}
	return m
}

type message struct {
	subject string
	html    string
	text    string
	err     error
}

func (m *message) Subject() (string, error) { return m.subject, nil }

func (m *message) HTMLBody() (string, error) {
	if m.html == "" && m.err != nil {
		return "", m.err
	}
	return m.html, nil
}

func (m *message) TextBody() (string, error) {
	if m.text == "" && m.err != nil {
		return "", m.err
	}
	return m.text, nil
}
