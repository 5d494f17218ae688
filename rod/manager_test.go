//go:build integration

package rod_test

import (
	"testing"
	"time"

	"github.com/fwojciec/pagemeta"
	"github.com/fwojciec/pagemeta/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowserManager_RecyclesBrowserAfterMaxPages(t *testing.T) {
	t.Parallel()

	manager, err := rod.NewBrowserManager(rod.WithMaxPages(3))
	require.NoError(t, err)
	defer manager.Close()

	firstPID := manager.LauncherPID()
	require.NotZero(t, firstPID)

	for i := 0; i < 3; i++ {
		_, release, err := manager.NewPage()
		require.NoError(t, err)
		release()
	}
	assert.Equal(t, int64(3), manager.PageCount())

	// The next page is opened on a fresh browser
	_, release, err := manager.NewPage()
	require.NoError(t, err)
	defer release()

	assert.NotEqual(t, firstPID, manager.LauncherPID())
	assert.Equal(t, int64(1), manager.PageCount())
}

func TestBrowserManager_DrainsActivePagesBeforeRecycle(t *testing.T) {
	t.Parallel()

	manager, err := rod.NewBrowserManager(rod.WithMaxPages(1))
	require.NoError(t, err)
	defer manager.Close()

	firstPID := manager.LauncherPID()

	_, release1, err := manager.NewPage()
	require.NoError(t, err)

	opened := make(chan func(), 1)
	go func() {
		_, release2, err := manager.NewPage()
		if err != nil {
			close(opened)
			return
		}
		opened <- release2
	}()

	// Limit reached with a page still in use, so the second page waits
	select {
	case <-opened:
		t.Fatal("NewPage returned before the active page was released")
	case <-time.After(200 * time.Millisecond):
	}
	assert.Equal(t, firstPID, manager.LauncherPID())

	release1()

	var release2 func()
	select {
	case r, ok := <-opened:
		require.True(t, ok, "NewPage failed after drain")
		release2 = r
	case <-time.After(30 * time.Second):
		t.Fatal("NewPage still blocked after the active page was released")
	}
	defer release2()

	assert.NotEqual(t, firstPID, manager.LauncherPID())
	assert.Equal(t, int64(1), manager.PageCount())

	release1() // extra release is a no-op
}

func TestBrowserManager_CloseUnblocksWaitingNewPage(t *testing.T) {
	t.Parallel()

	manager, err := rod.NewBrowserManager(rod.WithMaxPages(1))
	require.NoError(t, err)

	_, release, err := manager.NewPage()
	require.NoError(t, err)
	defer release()

	errs := make(chan error, 1)
	go func() {
		_, _, err := manager.NewPage()
		errs <- err
	}()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, manager.Close())

	select {
	case err := <-errs:
		require.Error(t, err)
		assert.Equal(t, pagemeta.EINVALID, pagemeta.ErrorCode(err))
	case <-time.After(10 * time.Second):
		t.Fatal("NewPage still blocked after Close")
	}
}

func TestBrowserManager_NewPageAfterClose(t *testing.T) {
	t.Parallel()

	manager, err := rod.NewBrowserManager()
	require.NoError(t, err)

	require.NoError(t, manager.Close())
	require.NoError(t, manager.Close(), "Close is idempotent")

	_, _, err = manager.NewPage()

	require.Error(t, err)
	assert.Equal(t, pagemeta.EINVALID, pagemeta.ErrorCode(err))
	assert.Contains(t, pagemeta.ErrorMessage(err), "closed")
}
