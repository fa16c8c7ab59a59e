package service

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tallyapp/tally-server/internal/media"
	"github.com/tallyapp/tally-server/internal/notify"
	"github.com/tallyapp/tally-server/internal/store"
	"github.com/tallyapp/tally-server/internal/store/sqlite"
)

// testEnv bundles the services under test over one temporary sqlite store.
type testEnv struct {
	store       store.Store
	books       *BookService
	authorities *AuthorityService
	categories  *CategoryService
	expenses    *ExpenseService
	proportions *ProportionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	s, err := sqlite.Open(filepath.Join(dir, "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	receipts, err := media.NewDiskReceiptStore(filepath.Join(dir, "receipts"))
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &testEnv{
		store:       s,
		books:       NewBookService(s, logger),
		authorities: NewAuthorityService(s, notify.NoopNotifier{}, logger),
		categories:  NewCategoryService(s, logger),
		expenses:    NewExpenseService(s, receipts, logger),
		proportions: NewProportionService(s, logger),
	}
}
