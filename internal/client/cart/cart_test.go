package cart

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/smartbookcity/storefront/internal/client/models"
	"github.com/smartbookcity/storefront/internal/client/storage"
	"github.com/smartbookcity/storefront/internal/common"
)

// ---- fakes ----

type addCall struct {
	UserID   int64
	BookID   int64
	Quantity int
}

// fakeAPI records mirror calls and keeps a tiny server-side cart so the
// sequential sync tests can observe the remote end state.
type fakeAPI struct {
	mu         sync.Mutex
	adds       []addCall
	updates    []addCall
	removes    []int64
	clears     int
	remote     []addCall
	fetchItems []models.CartItem
	fetchErr   error
	addErr     error
	clearErr   error
	failAddNo  int // fail the Nth add (1-based); 0 never
	updateErr  error
	removeErr  error
}

func (f *fakeAPI) FetchCart(ctx context.Context, userID int64) ([]models.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return append([]models.CartItem(nil), f.fetchItems...), nil
}

func (f *fakeAPI) AddCartItem(ctx context.Context, userID, bookID int64, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	call := addCall{UserID: userID, BookID: bookID, Quantity: quantity}
	f.adds = append(f.adds, call)
	if f.failAddNo != 0 && len(f.adds) == f.failAddNo {
		return errors.New("add rejected")
	}
	if f.addErr != nil {
		return f.addErr
	}
	f.remote = append(f.remote, call)
	return nil
}

func (f *fakeAPI) UpdateCartItem(ctx context.Context, userID, bookID int64, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, addCall{UserID: userID, BookID: bookID, Quantity: quantity})
	return f.updateErr
}

func (f *fakeAPI) RemoveCartItem(ctx context.Context, userID, bookID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removes = append(f.removes, bookID)
	return f.removeErr
}

func (f *fakeAPI) ClearCart(ctx context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
	if f.clearErr != nil {
		return f.clearErr
	}
	f.remote = nil
	return nil
}

func (f *fakeAPI) remoteState(t *testing.T) []addCall {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]addCall(nil), f.remote...)
}

type fakeIdentity struct {
	user models.UserProfile
	ok   bool
}

func (f fakeIdentity) Current() (models.UserProfile, bool) { return f.user, f.ok }

func guest() fakeIdentity { return fakeIdentity{} }

func member(id int64) fakeIdentity {
	return fakeIdentity{user: models.UserProfile{ID: id, Username: "alice"}, ok: true}
}

func book(id int64, price float64) models.BookSummary {
	return models.BookSummary{ID: id, Title: "t", Author: "a", Price: price}
}

// ---- local-first semantics ----

func TestAddItem_RepeatedAddsIncrementQuantity(t *testing.T) {
	e := New(&fakeAPI{}, storage.NewMemoryStore(), guest(), nil)
	ctx := context.Background()

	require.NoError(t, e.AddItem(ctx, book(1, 10), 2))
	require.NoError(t, e.AddItem(ctx, book(1, 10), 3))

	items := e.Snapshot()
	require.Len(t, items, 1)
	require.Equal(t, 5, items[0].Quantity)
	require.Equal(t, 5, e.TotalItems())
	require.Equal(t, 50.0, e.TotalPrice())
}

func TestMutationSequence_NetEffectAndRederivation(t *testing.T) {
	apply := func(e *Engine) {
		ctx := context.Background()
		_ = e.AddItem(ctx, book(1, 5), 2)
		_ = e.AddItem(ctx, book(2, 7), 1)
		_ = e.UpdateQuantity(ctx, 1, 4)
		_ = e.AddItem(ctx, book(1, 5), 1)
		_ = e.RemoveItem(ctx, 2)
	}

	a := New(&fakeAPI{}, storage.NewMemoryStore(), guest(), nil)
	b := New(&fakeAPI{}, storage.NewMemoryStore(), guest(), nil)
	apply(a)
	apply(b)

	require.Equal(t, a.Snapshot(), b.Snapshot())
	items := a.Snapshot()
	require.Len(t, items, 1)
	require.Equal(t, int64(1), items[0].Book.ID)
	require.Equal(t, 5, items[0].Quantity)
}

func TestGuestMutations_NeverTouchRemote(t *testing.T) {
	f := &fakeAPI{}
	e := New(f, storage.NewMemoryStore(), guest(), nil)
	ctx := context.Background()

	_ = e.AddItem(ctx, book(1, 10), 1)
	_ = e.UpdateQuantity(ctx, 1, 3)
	_ = e.RemoveItem(ctx, 1)
	_ = e.Clear(ctx)
	e.Wait()

	require.Empty(t, f.adds)
	require.Empty(t, f.updates)
	require.Empty(t, f.removes)
	require.Zero(t, f.clears)
}

func TestMutations_PersistDurablyBeforeMirror(t *testing.T) {
	kv := storage.NewMemoryStore()
	e := New(&fakeAPI{}, kv, guest(), nil)
	ctx := context.Background()

	require.NoError(t, e.AddItem(ctx, book(1, 10), 2))

	// A fresh engine sees the durable copy without any remote involved.
	fresh := New(&fakeAPI{}, kv, guest(), nil)
	require.NoError(t, fresh.LoadFromDurable(ctx))
	require.Equal(t, e.Snapshot(), fresh.Snapshot())
}

// ---- authenticated mirroring ----

func TestAddItem_MirrorsWhenAuthenticated(t *testing.T) {
	f := &fakeAPI{}
	e := New(f, storage.NewMemoryStore(), member(7), nil)

	require.NoError(t, e.AddItem(context.Background(), book(42, 9.9), 2))
	e.Wait()

	require.Equal(t, []addCall{{UserID: 7, BookID: 42, Quantity: 2}}, f.adds)
}

func TestMirrorFailure_KeepsLocalStateAndRecordsError(t *testing.T) {
	f := &fakeAPI{addErr: errors.New("backend down")}
	e := New(f, storage.NewMemoryStore(), member(7), nil)

	require.NoError(t, e.AddItem(context.Background(), book(1, 3), 1))
	e.Wait()

	require.Equal(t, 1, e.TotalItems())
	require.Equal(t, common.MsgCartAddFailed, e.LastError())
}

func TestRemoveItem_MirrorsEvenWhenAbsentLocally(t *testing.T) {
	f := &fakeAPI{}
	e := New(f, storage.NewMemoryStore(), member(7), nil)

	require.NoError(t, e.RemoveItem(context.Background(), 99))
	e.Wait()

	require.Equal(t, []int64{99}, f.removes)
	require.Empty(t, e.Snapshot())
}

func TestUpdateQuantity_MirrorsNewQuantity(t *testing.T) {
	f := &fakeAPI{}
	e := New(f, storage.NewMemoryStore(), member(7), nil)
	ctx := context.Background()

	require.NoError(t, e.AddItem(ctx, book(1, 2), 1))
	require.NoError(t, e.UpdateQuantity(ctx, 1, 4))
	e.Wait()

	require.Equal(t, 4, e.Snapshot()[0].Quantity)
	require.Equal(t, []addCall{{UserID: 7, BookID: 1, Quantity: 4}}, f.updates)
}

func TestClear_EmptiesLocallyAndMirrors(t *testing.T) {
	f := &fakeAPI{}
	kv := storage.NewMemoryStore()
	e := New(f, kv, member(7), nil)
	ctx := context.Background()

	require.NoError(t, e.AddItem(ctx, book(1, 2), 1))
	require.NoError(t, e.Clear(ctx))
	e.Wait()

	require.Empty(t, e.Snapshot())
	require.Equal(t, 1, f.clears)

	v, ok, err := kv.Get(ctx, "cart")
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `[]`, v)
}

// ---- fetch / sync ----

func TestFetchFromRemote_WholesaleReplacement(t *testing.T) {
	remote := []models.CartItem{{Book: book(5, 20), Quantity: 3}}
	f := &fakeAPI{fetchItems: remote}
	kv := storage.NewMemoryStore()
	e := New(f, kv, member(7), nil)
	ctx := context.Background()

	require.NoError(t, e.AddItem(ctx, book(1, 2), 9))
	require.NoError(t, e.FetchFromRemote(ctx))

	items := e.Snapshot()
	require.Len(t, items, 1)
	require.Equal(t, int64(5), items[0].Book.ID)

	// Replacement is persisted durably.
	fresh := New(&fakeAPI{}, kv, guest(), nil)
	require.NoError(t, fresh.LoadFromDurable(ctx))
	require.Equal(t, items, fresh.Snapshot())
}

func TestFetchFromRemote_GuestIsNoOp(t *testing.T) {
	f := &fakeAPI{fetchItems: []models.CartItem{{Book: book(5, 20), Quantity: 3}}}
	e := New(f, storage.NewMemoryStore(), guest(), nil)

	require.NoError(t, e.FetchFromRemote(context.Background()))
	require.Empty(t, e.Snapshot())
}

func TestFetchFromRemote_FailureFallsBackToDurable(t *testing.T) {
	kv := storage.NewMemoryStore()
	ctx := context.Background()

	// Seed the durable copy from an earlier session.
	seed := New(&fakeAPI{}, kv, guest(), nil)
	require.NoError(t, seed.AddItem(ctx, book(1, 2), 2))

	f := &fakeAPI{fetchErr: common.ErrUnavailable}
	e := New(f, kv, member(7), nil)

	err := e.FetchFromRemote(ctx)
	require.ErrorIs(t, err, common.ErrUnavailable)
	require.Equal(t, common.MsgCartFetchFailed, e.LastError())

	items := e.Snapshot()
	require.Len(t, items, 1)
	require.Equal(t, 2, items[0].Quantity)
}

func TestSyncToServer_PushesAllItemsSequentially(t *testing.T) {
	f := &fakeAPI{}
	e := New(f, storage.NewMemoryStore(), member(7), nil)
	ctx := context.Background()

	require.NoError(t, e.AddItem(ctx, book(1, 2), 1))
	require.NoError(t, e.AddItem(ctx, book(2, 3), 2))
	e.Wait()
	f.mu.Lock()
	f.adds, f.remote = nil, nil
	f.mu.Unlock()

	require.NoError(t, e.SyncToServer(ctx))

	require.Equal(t, []addCall{
		{UserID: 7, BookID: 1, Quantity: 1},
		{UserID: 7, BookID: 2, Quantity: 2},
	}, f.remoteState(t))
	f.mu.Lock()
	defer f.mu.Unlock()
	require.Equal(t, 1, f.clears)
}

func TestSyncToServer_PartialFailureLeavesPrefix(t *testing.T) {
	kv := storage.NewMemoryStore()
	ctx := context.Background()

	// Accumulate three items as a guest, then log in.
	e := New(&fakeAPI{}, kv, guest(), nil)
	require.NoError(t, e.AddItem(ctx, book(1, 2), 1))
	require.NoError(t, e.AddItem(ctx, book(2, 3), 1))
	require.NoError(t, e.AddItem(ctx, book(3, 4), 1))

	f := &fakeAPI{failAddNo: 2}
	authed := New(f, kv, member(7), nil)
	require.NoError(t, authed.LoadFromDurable(ctx))

	err := authed.SyncToServer(ctx)
	require.Error(t, err)
	require.Equal(t, common.MsgCartSyncFailed, authed.LastError())

	// Remote ends with item 1 present, items 2 and 3 absent.
	remote := f.remoteState(t)
	require.Len(t, remote, 1)
	require.Equal(t, int64(1), remote[0].BookID)

	// Local cart is untouched by the partial failure.
	require.Len(t, authed.Snapshot(), 3)
}

func TestSyncToServer_ClearFailureAborts(t *testing.T) {
	f := &fakeAPI{clearErr: errors.New("nope")}
	e := New(f, storage.NewMemoryStore(), member(7), nil)
	ctx := context.Background()

	require.NoError(t, e.AddItem(ctx, book(1, 2), 1))
	e.Wait()

	require.Error(t, e.SyncToServer(ctx))
	f.mu.Lock()
	defer f.mu.Unlock()
	require.Empty(t, f.adds[1:]) // only the original mirror add, no sync adds
}

func TestSyncToServer_GuestOrEmptyIsNoOp(t *testing.T) {
	f := &fakeAPI{}
	ctx := context.Background()

	require.NoError(t, New(f, storage.NewMemoryStore(), guest(), nil).SyncToServer(ctx))
	require.NoError(t, New(f, storage.NewMemoryStore(), member(7), nil).SyncToServer(ctx))
	require.Zero(t, f.clears)
}

// ---- durable hydration ----

func TestLoadFromDurable_MalformedCartStartsEmpty(t *testing.T) {
	kv := storage.NewMemoryStore()
	require.NoError(t, kv.Set(context.Background(), "cart", "{broken"))

	e := New(&fakeAPI{}, kv, guest(), nil)
	require.NoError(t, e.LoadFromDurable(context.Background()))
	require.Empty(t, e.Snapshot())
}

func TestLoadFromDurable_MissingKeyKeepsEmptyCart(t *testing.T) {
	e := New(&fakeAPI{}, storage.NewMemoryStore(), guest(), nil)
	require.NoError(t, e.LoadFromDurable(context.Background()))
	require.Empty(t, e.Snapshot())
}
