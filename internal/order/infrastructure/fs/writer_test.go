package fs

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderdesk/walmart-importer/internal/order/domain"
)

func testLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestPersistWritesSummaryAndMarkup(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(testLogger(), dir)
	require.NoError(t, err)

	s := domain.OrderSummary{
		OrderNo:  "123456",
		URL:      "https://www.walmart.ca/en/orders/123456",
		Date:     "Oct 19, 2025",
		Payment:  "****1529",
		Name:     "Maria",
		Subtotal: 75.71,
		Discount: -0.76,
		Taxes:    5,
		Total:    80.71,
		Items:    []domain.OrderItem{{Title: "Bananas", Qty: 2, PriceEach: 1.97}},
	}

	require.NoError(t, w.Persist(context.Background(), s, "<html>raw</html>"))

	txt, err := os.ReadFile(filepath.Join(dir, "123456.txt"))
	require.NoError(t, err)
	assert.Equal(t, domain.RenderText(s), string(txt))
	assert.Contains(t, string(txt), "Discount: -0.76")
	assert.Contains(t, string(txt), "- Bananas | Qty: 2 | Price: 1.97")

	html, err := os.ReadFile(filepath.Join(dir, "123456.html"))
	require.NoError(t, err)
	assert.Equal(t, "<html>raw</html>", string(html))
}

func TestPersistOverwritesPreviousRun(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(testLogger(), dir)
	require.NoError(t, err)

	s := domain.OrderSummary{OrderNo: "7", Payment: "N/A"}
	require.NoError(t, w.Persist(context.Background(), s, "old"))
	require.NoError(t, w.Persist(context.Background(), s.WithName("Maria"), "new"))

	html, err := os.ReadFile(filepath.Join(dir, "7.html"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(html))

	txt, err := os.ReadFile(filepath.Join(dir, "7.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(txt), "Name: Maria")
}

func TestPersistSanitizesIdentifier(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(testLogger(), dir)
	require.NoError(t, err)

	s := domain.OrderSummary{OrderNo: "12/34:56", Payment: "N/A"}
	require.NoError(t, w.Persist(context.Background(), s, "x"))

	_, err = os.Stat(filepath.Join(dir, "12_34_56.txt"))
	assert.NoError(t, err)
}

func TestNewWriterCreatesNestedDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "orders")
	_, err := NewWriter(testLogger(), dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
