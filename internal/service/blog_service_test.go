package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suncoast/internal/domain"
	"suncoast/internal/repository"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Night Diving 101":                    "night-diving-101",
		"  Diver's Guide: Reef -- Etiquette ": "divers-guide-reef-etiquette",
		"Café Cenote Trip!":                   "cafe-cenote-trip",
		"snake_case_title":                    "snake-case-title",
		"???":                                 "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}

	long := Slugify(strings.Repeat("manatee ", 20))
	assert.LessOrEqual(t, len(long), 60)
	assert.False(t, strings.HasSuffix(long, "-"))
}

func seedPosts(t *testing.T, f *fixture) {
	t.Helper()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	posts := []domain.BlogPost{
		{Title: "Night Diving Basics", Author: "Kim", Category: "Training", Published: true, PublishedAt: base},
		{Title: "Reef Safe Sunscreen", Author: "Lee", Category: "Conservation", Published: true, PublishedAt: base.AddDate(0, 0, 1)},
		{Title: "Night Diving Lights Compared", Author: "Lee", Category: "Gear", Published: true, PublishedAt: base.AddDate(0, 0, 2)},
		{Title: "Buoyancy Drills", Author: "Kim", Category: "Training", Published: true, PublishedAt: base.AddDate(0, 0, 3)},
		{Title: "Draft Post", Author: "Kim", Category: "Secret", Published: false, PublishedAt: base.AddDate(0, 0, 4)},
	}
	for _, p := range posts {
		_, err := f.blog.Create(context.Background(), p)
		require.NoError(t, err)
	}
}

func titles(posts []domain.BlogPost) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Title
	}
	return out
}

func TestBlog_ListAndLookup(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	seedPosts(t, f)

	all, err := f.blog.List(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Buoyancy Drills", "Night Diving Lights Compared", "Reef Safe Sunscreen", "Night Diving Basics"}, titles(all))

	two, err := f.blog.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, two, 2)

	p, err := f.blog.BySlug(ctx, "reef-safe-sunscreen")
	require.NoError(t, err)
	assert.Equal(t, "Lee", p.Author)

	_, err = f.blog.BySlug(ctx, "draft-post")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	kim, err := f.blog.ByAuthor(ctx, "kim")
	require.NoError(t, err)
	assert.Equal(t, []string{"Buoyancy Drills", "Night Diving Basics"}, titles(kim))

	cats, err := f.blog.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Conservation", "Gear", "Training"}, cats)
}

func TestBlog_Related(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	seedPosts(t, f)

	// same author scores 3, "night" and "diving" score 1 each
	related, err := f.blog.Related(ctx, "night-diving-basics", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Buoyancy Drills", "Night Diving Lights Compared"}, titles(related))

	related, err = f.blog.Related(ctx, "night-diving-basics", 1)
	require.NoError(t, err)
	assert.Len(t, related, 1)

	_, err = f.blog.Related(ctx, "nope", 3)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestBlog_CreateUpdateDelete(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	first, err := f.blog.Create(ctx, domain.BlogPost{Title: "Lionfish Derby", Author: "Kim", Published: true})
	require.NoError(t, err)
	assert.Equal(t, "lionfish-derby", first.Slug)
	assert.False(t, first.PublishedAt.IsZero())

	second, err := f.blog.Create(ctx, domain.BlogPost{Title: "Lionfish Derby!", Author: "Lee", Published: true})
	require.NoError(t, err)
	assert.Equal(t, "lionfish-derby-2", second.Slug)

	_, err = f.blog.Create(ctx, domain.BlogPost{Title: "", Author: "Kim"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	up, err := f.blog.Update(ctx, "lionfish-derby", domain.BlogPost{Title: "Lionfish Derby Results", Author: "Kim", Published: true})
	require.NoError(t, err)
	assert.Equal(t, "lionfish-derby", up.Slug)
	assert.Equal(t, first.PublishedAt, up.PublishedAt)

	require.NoError(t, f.blog.Delete(ctx, "lionfish-derby"))
	_, err = f.blog.BySlug(ctx, "lionfish-derby")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, f.blog.Delete(ctx, "lionfish-derby"), repository.ErrNotFound)
}

func TestPromotion_GetAndUpsert(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	p, err := f.promos.Get(ctx, "home")
	require.NoError(t, err)
	assert.Nil(t, p)

	_, err = f.promos.Upsert(ctx, "home", domain.Promotion{Active: true})
	assert.ErrorIs(t, err, ErrInvalidInput)

	saved, err := f.promos.Upsert(ctx, "home", domain.Promotion{Heading: "Spring Sale", ButtonText: "Shop", ButtonLink: "/diveshop", Active: true})
	require.NoError(t, err)
	assert.Equal(t, "home", saved.Location)

	p, err = f.promos.Get(ctx, "home")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Spring Sale", p.Heading)

	_, err = f.promos.Upsert(ctx, "home", domain.Promotion{Heading: "Spring Sale", Active: false})
	require.NoError(t, err)
	p, err = f.promos.Get(ctx, "home")
	require.NoError(t, err)
	assert.Nil(t, p)

	_, err = f.promos.Get(ctx, " ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
