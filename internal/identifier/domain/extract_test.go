package domain

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMessage struct {
	subject    string
	html       string
	text       string
	subjectErr error
	htmlErr    error
	textErr    error
}

func (m *fakeMessage) Subject() (string, error)  { return m.subject, m.subjectErr }
func (m *fakeMessage) HTMLBody() (string, error) { return m.html, m.htmlErr }
func (m *fakeMessage) TextBody() (string, error) { return m.text, m.textErr }

const deliveredSubject = "Your Walmart order was delivered"

func TestExtractIdentifiers(t *testing.T) {
	tests := []struct {
		name   string
		msgs   []Message
		filter string
		want   []string
	}{
		{
			name: "plain link in text body",
			msgs: []Message{
				&fakeMessage{text: "track at https://www.walmart.ca/en/orders/123456"},
			},
			want: []string{"123456"},
		},
		{
			name: "entity escaped link in html body",
			msgs: []Message{
				&fakeMessage{html: `<a href="https://www.walmart.ca/en/orders/777?src=mail&amp;x=1">order</a>`},
			},
			want: []string{"777"},
		},
		{
			name: "safelink wrapped and percent encoded",
			msgs: []Message{
				&fakeMessage{html: "https://nam12.safelinks.protection.outlook.com/?url=https%3A%2F%2Fwww.walmart.ca%2Fen%2Forders%2F424242&data=x"},
			},
			want: []string{"424242"},
		},
		{
			name: "union across messages, sorted and deduplicated",
			msgs: []Message{
				&fakeMessage{text: "https://www.walmart.ca/en/orders/300"},
				&fakeMessage{text: "https://www.walmart.ca/en/orders/100 and https://www.walmart.ca/en/orders/300"},
				&fakeMessage{html: "https://www.walmart.ca/en/orders/200"},
			},
			want: []string{"100", "200", "300"},
		},
		{
			name: "subject filter is exact, trimmed and case insensitive",
			msgs: []Message{
				&fakeMessage{subject: "  your walmart ORDER was delivered ", text: "https://www.walmart.ca/en/orders/1"},
				&fakeMessage{subject: "Your Walmart order was shipped", text: "https://www.walmart.ca/en/orders/2"},
				&fakeMessage{subject: "RE: Your Walmart order was delivered", text: "https://www.walmart.ca/en/orders/3"},
			},
			filter: deliveredSubject,
			want:   []string{"1"},
		},
		{
			name: "subject read failure skips only that message",
			msgs: []Message{
				&fakeMessage{subjectErr: errors.New("mapi read"), text: "https://www.walmart.ca/en/orders/1"},
				&fakeMessage{subject: deliveredSubject, text: "https://www.walmart.ca/en/orders/2"},
			},
			filter: deliveredSubject,
			want:   []string{"2"},
		},
		{
			name: "body read failure degrades to the other body",
			msgs: []Message{
				&fakeMessage{
					htmlErr: errors.New("body unavailable"),
					text:    "https://www.walmart.ca/en/orders/555",
				},
			},
			want: []string{"555"},
		},
		{
			name: "both bodies unreadable yields nothing",
			msgs: []Message{
				&fakeMessage{htmlErr: errors.New("x"), textErr: errors.New("y")},
			},
			want: []string{},
		},
		{
			name: "nil message is skipped",
			msgs: []Message{nil, &fakeMessage{text: "https://www.walmart.ca/en/orders/9"}},
			want: []string{"9"},
		},
		{
			name: "no messages",
			msgs: nil,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractIdentifiers(tt.msgs, tt.filter))
		})
	}
}

func TestExtractIdentifiersDeterministic(t *testing.T) {
	msgs := []Message{
		&fakeMessage{text: "https://www.walmart.ca/en/orders/31 https://www.walmart.ca/en/orders/4"},
		&fakeMessage{html: "https://www.walmart.ca/en/orders/22"},
	}

	first := ExtractIdentifiers(msgs, "")
	digits := regexp.MustCompile(`^\d+$`)
	for _, id := range first {
		assert.Regexp(t, digits, id)
	}
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ExtractIdentifiers(msgs, ""))
	}
}

func TestExtractIdentifiersDoubleEncodedWrapper(t *testing.T) {
	// Entity escaping on top of a double percent-encoded safelink target:
	// only the second decoder pass over the unwrapped URL reveals the path.
	m := &fakeMessage{
		html: `<a href="https://eur01.safelinks.protection.outlook.com/?url=https%253A%252F%252Fwww.walmart.ca%252Fen%252Forders%252F123456&amp;data=z">order</a>`,
	}
	got := ExtractIdentifiers([]Message{m}, "")
	require.Equal(t, []string{"123456"}, got)
}
