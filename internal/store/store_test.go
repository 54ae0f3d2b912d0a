package store

import (
	"context"
	"testing"
	"time"

	"cookbook/internal/seed"
	"cookbook/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixed = time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewDefault(WithClock(func() time.Time { return fixed }))
	require.NoError(t, err)
	return s
}

func size(t *testing.T, s *Store, kind types.Collection) int {
	t.Helper()
	snap := s.Snapshot()
	switch kind {
	case types.Recipes:
		return len(snap.Recipes)
	case types.MyRecipes:
		return len(snap.MyRecipes)
	case types.SavedRecipes:
		return len(snap.SavedRecipes)
	case types.CommunityPosts:
		return len(snap.CommunityPosts)
	case types.Likes:
		return len(snap.Likes)
	case types.Comments:
		return len(snap.Comments)
	}
	t.Fatalf("unknown collection %s", kind)
	return 0
}

func TestDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	cases := map[types.Collection]string{
		types.Recipes:        "1",
		types.MyRecipes:      "16",
		types.SavedRecipes:   "2",
		types.CommunityPosts: "post-2",
		types.Likes:          "like-1",
		types.Comments:       "cmt-3",
	}
	for kind, id := range cases {
		t.Run(string(kind), func(t *testing.T) {
			s := newTestStore(t)
			before := size(t, s, kind)

			first, err := s.Delete(ctx, kind, id)
			require.NoError(t, err)
			assert.True(t, first.Success)
			assert.True(t, first.Changed)
			assert.Equal(t, before-1, size(t, s, kind))

			second, err := s.Delete(ctx, kind, id)
			require.NoError(t, err)
			assert.True(t, second.Success)
			assert.False(t, second.Changed)
			assert.Equal(t, before-1, size(t, s, kind))

			assert.Empty(t, s.Reconcile(ctx))
		})
	}
}

func TestDeleteUnknownCollection(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Delete(context.Background(), "pantry", "1")
	assert.ErrorIs(t, err, types.ErrInvalid)
}

func TestLikeTwiceCountsOnce(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	before, err := s.GetPost(ctx, "post-3")
	require.NoError(t, err)

	first, err := s.Like(ctx, "post-3", "user-9")
	require.NoError(t, err)
	assert.True(t, first.Changed)
	require.NotNil(t, first.Like)

	second, err := s.Like(ctx, "post-3", "user-9")
	require.NoError(t, err)
	assert.True(t, second.Success)
	assert.False(t, second.Changed)
	assert.Equal(t, first.Like.ID, second.Like.ID)

	likes, err := s.PostLikes(ctx, "post-3")
	require.NoError(t, err)
	assert.Len(t, likes, 1)

	after, err := s.GetPost(ctx, "post-3")
	require.NoError(t, err)
	assert.Equal(t, before.LikesCount+1, after.LikesCount)
}

func TestUnlike(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	res, err := s.Unlike(ctx, "post-1", "user-2")
	require.NoError(t, err)
	assert.True(t, res.Changed)
	p, err := s.GetPost(ctx, "post-1")
	require.NoError(t, err)
	assert.Equal(t, 1, p.LikesCount)

	res, err = s.Unlike(ctx, "post-1", "user-2")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.False(t, res.Changed)
	p, err = s.GetPost(ctx, "post-1")
	require.NoError(t, err)
	assert.Equal(t, 1, p.LikesCount)
}

func TestLikeMissingPost(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Like(context.Background(), "post-404", "user-1")
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = s.Like(context.Background(), "", "user-1")
	assert.ErrorIs(t, err, types.ErrInvalid)
}

func TestCounterClampsAtZero(t *testing.T) {
	ctx := context.Background()
	base := &seed.Dataset{
		CommunityPosts: []types.Post{{ID: "p", UserID: "u", Title: "t"}},
		Likes:          []types.Like{{ID: "l", PostID: "p", UserID: "u"}},
		Comments:       []types.Comment{{ID: "c", PostID: "p", UserID: "u", Text: "x"}},
	}
	s := New(base)

	_, err := s.Unlike(ctx, "p", "u")
	require.NoError(t, err)
	_, err = s.DeleteComment(ctx, "c")
	require.NoError(t, err)

	p, err := s.GetPost(ctx, "p")
	require.NoError(t, err)
	assert.Zero(t, p.LikesCount)
	assert.Zero(t, p.CommentsCount)
}

func TestCommentCounterFollowsRows(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	var ids []string
	for _, text := range []string{"ngon", "tuyệt", "cảm ơn", "lần sau thử"} {
		res, err := s.AddComment(ctx, "post-2", "user-3", "hoa.le", text)
		require.NoError(t, err)
		ids = append(ids, res.Comment.ID)
	}
	_, err := s.DeleteComment(ctx, ids[1])
	require.NoError(t, err)
	_, err = s.DeleteComment(ctx, "cmt-3")
	require.NoError(t, err)
	_, err = s.AddComment(ctx, "post-2", "user-1", "lan.nguyen", "one more")
	require.NoError(t, err)

	comments, err := s.PostComments(ctx, "post-2")
	require.NoError(t, err)
	p, err := s.GetPost(ctx, "post-2")
	require.NoError(t, err)
	assert.Len(t, comments, 4)
	assert.Equal(t, len(comments), p.CommentsCount)
	assert.Empty(t, s.Reconcile(ctx))
}

func TestCommentValidation(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	_, err := s.AddComment(ctx, "post-1", "user-1", "lan", "  ")
	assert.ErrorIs(t, err, types.ErrInvalid)
	_, err = s.AddComment(ctx, "post-404", "user-1", "lan", "hi")
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = s.DeleteComment(ctx, "cmt-404")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestDeletePostCascades(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.DeletePost(ctx, "post-1")
	require.NoError(t, err)

	likes, err := s.PostLikes(ctx, "post-1")
	require.NoError(t, err)
	assert.Empty(t, likes)
	comments, err := s.PostComments(ctx, "post-1")
	require.NoError(t, err)
	assert.Empty(t, comments)

	// other posts keep their rows
	likes, err = s.PostLikes(ctx, "post-2")
	require.NoError(t, err)
	assert.Len(t, likes, 1)

	_, err = s.GetPost(ctx, "post-1")
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = s.DeletePost(ctx, "post-1")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestResetRestoresSeed(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	baseline := s.Snapshot()

	_, err := s.CreateRecipe(ctx, types.Recipes, types.Recipe{Name: "Bún bò"})
	require.NoError(t, err)
	_, err = s.UpdateRecipe(ctx, types.Recipes, "1", types.Patch{"name": "renamed"})
	require.NoError(t, err)
	_, err = s.DeletePost(ctx, "post-1")
	require.NoError(t, err)
	_, err = s.Like(ctx, "post-3", "user-1")
	require.NoError(t, err)

	res, err := s.Reset(ctx)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, baseline, s.Snapshot())

	// mutating after a reset must not leak into the next one
	_, err = s.UpdateRecipe(ctx, types.Recipes, "2", types.Patch{"ingredients": []types.Ingredient{{Name: "Bread"}}})
	require.NoError(t, err)
	_, err = s.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, baseline, s.Snapshot())
}

func TestStoreDoesNotAliasSeed(t *testing.T) {
	ctx := context.Background()
	base, err := seed.Default()
	require.NoError(t, err)
	want := base.Recipes[0].Name

	s := New(base)
	base.Recipes[0].Name = "changed outside"
	r, err := s.GetRecipe(ctx, types.Recipes, base.Recipes[0].ID)
	require.NoError(t, err)
	assert.Equal(t, want, r.Name)

	r.Ingredients[0].Name = "changed by caller"
	again, err := s.GetRecipe(ctx, types.Recipes, r.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "changed by caller", again.Ingredients[0].Name)
}

func TestUpdateMissingRecipeIsNoOp(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	before := s.Snapshot()

	for _, kind := range []types.Collection{types.Recipes, types.MyRecipes, types.SavedRecipes} {
		res, err := s.UpdateRecipe(ctx, kind, "missing-id", types.Patch{"name": "Ghost", "calories": 100})
		require.NoError(t, err, kind)
		assert.True(t, res.Success)
		assert.False(t, res.Changed)
		assert.NotEmpty(t, res.Message)
		require.NotNil(t, res.Recipe)
		assert.Equal(t, "missing-id", res.Recipe.ID)
		assert.Equal(t, "Ghost", res.Recipe.Name)
		assert.Equal(t, 100, res.Recipe.Calories)
	}
	assert.Equal(t, before, s.Snapshot())
}

func TestUpdateRecipeMerges(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	res, err := s.UpdateRecipe(ctx, types.Recipes, "1", types.Patch{"id": "other", "calories": 500})
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, "1", res.Recipe.ID)
	assert.Equal(t, 500, res.Recipe.Calories)
	assert.Equal(t, "Phở Bò", res.Recipe.Name)

	_, err = s.UpdateRecipe(ctx, types.Recipes, "1", types.Patch{"name": ""})
	assert.ErrorIs(t, err, types.ErrInvalid)
	_, err = s.UpdateRecipe(ctx, types.Likes, "1", types.Patch{})
	assert.ErrorIs(t, err, types.ErrInvalid)
}

func TestSaveRecipeOnce(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	r, err := s.GetRecipe(ctx, types.Recipes, "5")
	require.NoError(t, err)

	first, err := s.SaveRecipe(ctx, r)
	require.NoError(t, err)
	assert.True(t, first.Changed)

	second, err := s.SaveRecipe(ctx, r)
	require.NoError(t, err)
	assert.True(t, second.Success)
	assert.False(t, second.Changed)

	saved, err := s.ListRecipes(ctx, types.SavedRecipes)
	require.NoError(t, err)
	count := 0
	for _, sr := range saved {
		if sr.ID == "5" {
			count++
		}
	}
	assert.Equal(t, 1, count)

	_, err = s.SaveRecipe(ctx, types.Recipe{Name: "no id"})
	assert.ErrorIs(t, err, types.ErrInvalid)
}

func TestCreateMyRecipeDefaults(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	r, err := s.CreateRecipe(ctx, types.MyRecipes, types.Recipe{
		Name:        "Canh bí",
		Category:    "Dinner",
		Servings:    2,
		CreatedBy:   "user-1",
		Ingredients: []types.Ingredient{{Name: "Squash", Price: 20000}, {Name: "Shrimp"}},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, fixed, r.CreatedAt)
	require.NotNil(t, r.IsPublic)
	assert.False(t, *r.IsPublic)
	assert.Equal(t, types.StatusPrivate, r.Status)
	assert.Nil(t, r.PublishedAt)
	assert.False(t, r.AIGenerated)
	assert.InDelta(t, (20000+types.DefaultIngredientPrice)/2.0, *r.EstimatedCost, 0.001)

	mine, err := s.ListMyRecipes(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, mine, 3)
	all, err := s.ListMyRecipes(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
	none, err := s.ListMyRecipes(ctx, "user-404")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCreateKeepsFreeRecipe(t *testing.T) {
	s := newTestStore(t)
	r, err := s.CreateRecipe(context.Background(), types.Recipes, types.Recipe{
		Name:          "Rau má",
		Category:      "Healthy",
		EstimatedCost: types.Float(0),
		Ingredients:   []types.Ingredient{{Name: "Pennywort"}},
	})
	require.NoError(t, err)
	require.NotNil(t, r.EstimatedCost)
	assert.Zero(t, *r.EstimatedCost)
	assert.Zero(t, r.Cost())
}

func TestCreateRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	_, err := s.CreateRecipe(ctx, types.Recipes, types.Recipe{})
	assert.ErrorIs(t, err, types.ErrInvalid)
	_, err = s.CreateRecipe(ctx, types.Recipes, types.Recipe{ID: "1", Name: "dup"})
	assert.ErrorIs(t, err, types.ErrInvalid)
	_, err = s.CreateRecipe(ctx, types.SavedRecipes, types.Recipe{Name: "x"})
	assert.ErrorIs(t, err, types.ErrInvalid)
	_, err = s.CreatePost(ctx, types.Post{UserID: "u"})
	assert.ErrorIs(t, err, types.ErrInvalid)
}

func TestGeneratedIDsAreUnique(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	seen := map[string]bool{}
	for range 20 {
		r, err := s.CreateRecipe(ctx, types.Recipes, types.Recipe{Name: "Trứng"})
		require.NoError(t, err)
		assert.False(t, seen[r.ID], r.ID)
		seen[r.ID] = true
	}
	p, err := s.CreatePost(ctx, types.Post{UserID: "u", Title: "hi", LikesCount: 7})
	require.NoError(t, err)
	assert.Regexp(t, `^post-\d+$`, p.ID)
	assert.Zero(t, p.LikesCount)

	l, err := s.Like(ctx, p.ID, "u")
	require.NoError(t, err)
	assert.Regexp(t, `^like-\d+$`, l.Like.ID)
	c, err := s.AddComment(ctx, p.ID, "u", "user", "hi")
	require.NoError(t, err)
	assert.Regexp(t, `^cmt-\d+$`, c.Comment.ID)
}

func TestListsAndSearch(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	all, err := s.ListRecipes(ctx, types.Recipes)
	require.NoError(t, err)
	for _, r := range all {
		assert.True(t, r.Public(), r.ID)
	}
	assert.Len(t, all, len(s.Snapshot().Recipes)-1)

	_, err = s.GetRecipe(ctx, types.Recipes, "14")
	assert.NoError(t, err, "private recipes can still be fetched by id")
	_, err = s.GetRecipe(ctx, types.Recipes, "nope")
	assert.ErrorIs(t, err, types.ErrNotFound)

	bev, err := s.RecipesByCategory(ctx, "Beverage")
	require.NoError(t, err)
	assert.Empty(t, bev)
	breakfast, err := s.RecipesByCategory(ctx, "Breakfast")
	require.NoError(t, err)
	assert.Len(t, breakfast, 4)

	found, err := s.SearchRecipes(ctx, "  PHỞ ")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "1", found[0].ID)
	found, err = s.SearchRecipes(ctx, "sinh tố")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestUpdatePostKeepsCounters(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	res, err := s.UpdatePost(ctx, "post-1", types.Patch{"title": "Phở ngày chủ nhật", "likesCount": 100})
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, "Phở ngày chủ nhật", res.Post.Title)
	assert.Equal(t, 2, res.Post.LikesCount)

	res, err = s.UpdatePost(ctx, "post-404", types.Patch{"title": "x"})
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Empty(t, s.Reconcile(ctx))
}

func TestReconcileRepairsDrift(t *testing.T) {
	ctx := context.Background()
	s := New(&seed.Dataset{
		CommunityPosts: []types.Post{{ID: "p", UserID: "u", Title: "t", LikesCount: 5}},
		Likes:          []types.Like{{ID: "l", PostID: "p", UserID: "u"}},
	})

	drift := s.Reconcile(ctx)
	require.Len(t, drift, 1)
	assert.Equal(t, Drift{PostID: "p", LikesCount: 5, Likes: 1}, drift[0])

	p, err := s.GetPost(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, 1, p.LikesCount)
	assert.Empty(t, s.Reconcile(ctx))
}
