package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/BinLe1988/soulmap-journal/configs"
	"github.com/BinLe1988/soulmap-journal/database"
	"github.com/BinLe1988/soulmap-journal/models"
	"github.com/BinLe1988/soulmap-journal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *database.Store {
	t.Helper()
	db, err := database.Open(configs.Database{
		Driver: "sqlite",
		DSN:    "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	}, logger.Discard())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { database.Close(db, logger.Discard()) })
	return database.NewStore(db)
}

func createUser(t *testing.T, store *database.Store, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, Username: "tester", HashedPassword: "x", IsActive: true}
	require.NoError(t, store.CreateUser(context.Background(), user))
	return user
}

func strPtr(s string) *string { return &s }

func TestDialector(t *testing.T) {
	for _, driver := range []string{"postgres", "mysql", "sqlite"} {
		d, err := database.Dialector(configs.Database{Driver: driver, Host: "h", Port: "1", User: "u", DBName: "d"})
		require.NoError(t, err, driver)
		assert.NotNil(t, d)
	}

	_, err := database.Dialector(configs.Database{Driver: "oracle"})
	assert.Error(t, err)
}

func TestStore_Users(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	user := createUser(t, store, "a@example.com")
	assert.NotEqual(t, uuid.Nil, user.ID)

	err := store.CreateUser(ctx, &models.User{Email: "a@example.com", Username: "dup", HashedPassword: "x"})
	assert.ErrorIs(t, err, database.ErrDuplicate)

	byEmail, err := store.GetUserByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byID, err := store.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", byID.Email)

	_, err = store.GetUserByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestStore_PostsCRUD(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	owner := createUser(t, store, "owner@example.com")
	other := createUser(t, store, "other@example.com")

	post := &models.Post{UserID: owner.ID, Title: strPtr("Morning Walk"), Content: "river"}
	require.NoError(t, store.CreatePost(ctx, post))
	assert.JSONEq(t, `[]`, string(post.ImageURLs))

	got, err := store.GetPost(ctx, post.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Morning Walk", *got.Title)

	_, err = store.GetPost(ctx, post.ID, other.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)

	urls := []string{"/uploads/a.png"}
	updated, err := store.UpdatePost(ctx, post.ID, owner.ID, models.UpdatePostRequest{
		Content:   strPtr("river and trees"),
		ImageURLs: &urls,
	})
	require.NoError(t, err)
	assert.Equal(t, "river and trees", updated.Content)
	assert.Equal(t, "Morning Walk", *updated.Title)
	assert.JSONEq(t, `["/uploads/a.png"]`, string(updated.ImageURLs))

	_, err = store.UpdatePost(ctx, post.ID, other.ID, models.UpdatePostRequest{Content: strPtr("hijack")})
	assert.ErrorIs(t, err, database.ErrNotFound)

	analysis, err := models.NewAnalysis(post.ID, owner.ID, &models.AnalysisResult{Summary: "s"}, 10, "m")
	require.NoError(t, err)
	require.NoError(t, store.CreateAnalysis(ctx, analysis))

	assert.ErrorIs(t, store.DeletePost(ctx, post.ID, other.ID), database.ErrNotFound)
	require.NoError(t, store.DeletePost(ctx, post.ID, owner.ID))

	_, err = store.GetPost(ctx, post.ID, owner.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)
	_, err = store.LatestAnalysisForPost(ctx, post.ID, owner.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestStore_ListPosts(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	user := createUser(t, store, "list@example.com")
	other := createUser(t, store, "noise@example.com")

	base := time.Date(2024, 3, 10, 12, 0, 0, 0, time.Local)
	for i, content := range []string{"River walk", "office day", "quiet river evening"} {
		post := &models.Post{UserID: user.ID, Content: content, CreatedAt: base.AddDate(0, 0, i)}
		require.NoError(t, store.CreatePost(ctx, post))
	}
	require.NoError(t, store.CreatePost(ctx, &models.Post{UserID: other.ID, Content: "river", CreatedAt: base}))

	posts, total, err := store.ListPosts(ctx, user.ID, models.PostListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, posts, 3)
	assert.Equal(t, "quiet river evening", posts[0].Content)

	posts, total, err = store.ListPosts(ctx, user.ID, models.PostListQuery{Search: "RIVER"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, posts, 2)

	posts, total, err = store.ListPosts(ctx, user.ID, models.PostListQuery{Page: 2, PerPage: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, posts, 1)
	assert.Equal(t, "River walk", posts[0].Content)

	posts, _, err = store.ListPosts(ctx, user.ID, models.PostListQuery{DateFrom: "2024-03-11", DateTo: "2024-03-11"})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "office day", posts[0].Content)

	_, _, err = store.ListPosts(ctx, user.ID, models.PostListQuery{DateFrom: "last week"})
	assert.ErrorIs(t, err, database.ErrInvalidFilter)
}

func TestNormalizePage(t *testing.T) {
	page, perPage := database.NormalizePage(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, perPage)

	_, perPage = database.NormalizePage(3, 1000)
	assert.Equal(t, database.MaxPerPage, perPage)
}

func TestStore_Analyses(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	user := createUser(t, store, "an@example.com")
	post := &models.Post{UserID: user.ID, Content: "c"}
	require.NoError(t, store.CreatePost(ctx, post))

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 12; i++ {
		a, err := models.NewAnalysis(post.ID, user.ID, &models.AnalysisResult{Summary: string(rune('a' + i))}, i, "m")
		require.NoError(t, err)
		a.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, store.CreateAnalysis(ctx, a))
	}

	latest, err := store.LatestAnalysisForPost(ctx, post.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "l", latest.Summary())
	assert.Equal(t, models.AnalysisTypeFull, latest.AnalysisType)

	recent, err := store.RecentAnalyses(ctx, user.ID, 10)
	require.NoError(t, err)
	require.Len(t, recent, 10)
	assert.Equal(t, "l", recent[0].Summary())
	assert.Equal(t, "c", recent[9].Summary())

	count, err := store.CountAnalyses(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(12), count)

	_, err = store.LatestAnalysisForPost(ctx, post.ID, uuid.New())
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestStore_Todos(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	user := createUser(t, store, "todo@example.com")
	other := createUser(t, store, "todo2@example.com")

	first := &models.Todo{UserID: user.ID, Title: "write", Date: "2024-05-01"}
	require.NoError(t, store.CreateTodo(ctx, first))
	require.NoError(t, store.CreateTodo(ctx, &models.Todo{UserID: user.ID, Title: "read", Date: "2024-05-01"}))
	require.NoError(t, store.CreateTodo(ctx, &models.Todo{UserID: user.ID, Title: "later", Date: "2024-05-02"}))

	todos, err := store.ListTodos(ctx, user.ID, "2024-05-01")
	require.NoError(t, err)
	require.Len(t, todos, 2)
	assert.Equal(t, "write", todos[0].Title)

	done := true
	updated, err := store.UpdateTodo(ctx, first.ID, user.ID, models.UpdateTodoRequest{Completed: &done})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, "write", updated.Title)

	_, err = store.UpdateTodo(ctx, first.ID, other.ID, models.UpdateTodoRequest{Completed: &done})
	assert.ErrorIs(t, err, database.ErrNotFound)

	assert.ErrorIs(t, store.DeleteTodo(ctx, first.ID, other.ID), database.ErrNotFound)
	require.NoError(t, store.DeleteTodo(ctx, first.ID, user.ID))
	assert.ErrorIs(t, store.DeleteTodo(ctx, first.ID, user.ID), database.ErrNotFound)

	empty, err := store.ListTodos(ctx, other.ID, "2024-05-01")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
