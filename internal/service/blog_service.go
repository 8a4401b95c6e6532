package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"suncoast/internal/domain"
	"suncoast/internal/repository"
)

const (
	maxSlugLength       = 60
	relatedAuthorWeight = 3
	minKeywordLength    = 4
)

// BlogService serves the "From the Deep" blog.
type BlogService struct {
	repo repository.BlogRepository
	now  func() time.Time
}

func NewBlogService(repo repository.BlogRepository) *BlogService {
	return &BlogService{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// List returns published posts newest first; limit <= 0 means all.
func (s *BlogService) List(ctx context.Context, limit int) ([]domain.BlogPost, error) {
	posts, err := s.published(ctx)
	if err != nil {
		return nil, err
	}
	return truncate(posts, limit), nil
}

func (s *BlogService) BySlug(ctx context.Context, slug string) (*domain.BlogPost, error) {
	if slug == "" {
		return nil, ErrInvalidInput
	}
	p, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !p.Published {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (s *BlogService) ByAuthor(ctx context.Context, author string) ([]domain.BlogPost, error) {
	author = strings.TrimSpace(author)
	if author == "" {
		return nil, ErrInvalidInput
	}
	posts, err := s.published(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.BlogPost, 0)
	for _, p := range posts {
		if strings.EqualFold(p.Author, author) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Related scores other published posts against slug's post: the same
// author adds 3 and each shared title keyword adds 1. Posts scoring zero
// are left out; ties keep newest-first order.
func (s *BlogService) Related(ctx context.Context, slug string, limit int) ([]domain.BlogPost, error) {
	current, err := s.BySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	posts, err := s.published(ctx)
	if err != nil {
		return nil, err
	}

	keywords := titleKeywords(current.Title)
	type scored struct {
		post  domain.BlogPost
		score int
	}
	var candidates []scored
	for _, p := range posts {
		if p.ID == current.ID {
			continue
		}
		score := 0
		if p.Author != "" && strings.EqualFold(p.Author, current.Author) {
			score += relatedAuthorWeight
		}
		for kw := range titleKeywords(p.Title) {
			if _, ok := keywords[kw]; ok {
				score++
			}
		}
		if score > 0 {
			candidates = append(candidates, scored{p, score})
		}
	}
	slices.SortStableFunc(candidates, func(a, b scored) int {
		return cmp.Compare(b.score, a.score)
	})

	out := make([]domain.BlogPost, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.post)
	}
	return truncate(out, limit), nil
}

// Categories lists the distinct categories of published posts.
func (s *BlogService) Categories(ctx context.Context) ([]string, error) {
	posts, err := s.published(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, p := range posts {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	slices.Sort(out)
	return out, nil
}

func (s *BlogService) Create(ctx context.Context, p domain.BlogPost) (*domain.BlogPost, error) {
	if err := validatePost(p); err != nil {
		return nil, err
	}
	slug, err := s.uniqueSlug(ctx, Slugify(p.Title))
	if err != nil {
		return nil, err
	}
	p.ID = 0
	p.Slug = slug
	if p.PublishedAt.IsZero() {
		p.PublishedAt = s.now()
	}
	if err := s.repo.Create(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Update replaces the post's content. The slug stays put so links keep working.
func (s *BlogService) Update(ctx context.Context, slug string, p domain.BlogPost) (*domain.BlogPost, error) {
	if err := validatePost(p); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	p.ID = existing.ID
	p.Slug = existing.Slug
	if p.PublishedAt.IsZero() {
		p.PublishedAt = existing.PublishedAt
	}
	if err := s.repo.Update(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *BlogService) Delete(ctx context.Context, slug string) error {
	existing, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, existing.ID)
}

func (s *BlogService) published(ctx context.Context) ([]domain.BlogPost, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.BlogPost, 0, len(all))
	for _, p := range all {
		if p.Published {
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.BlogPost) int {
		if c := b.PublishedAt.Compare(a.PublishedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out, nil
}

func (s *BlogService) uniqueSlug(ctx context.Context, base string) (string, error) {
	if base == "" {
		base = "post"
	}
	candidate := base
	for n := 2; ; n++ {
		_, err := s.repo.GetBySlug(ctx, candidate)
		if errors.Is(err, repository.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
		suffix := fmt.Sprintf("-%d", n)
		candidate = strings.TrimRight(cut(base, maxSlugLength-len(suffix)), "-") + suffix
	}
}

func validatePost(p domain.BlogPost) error {
	if strings.TrimSpace(p.Title) == "" || strings.TrimSpace(p.Author) == "" {
		return fmt.Errorf("%w: title and author are required", ErrInvalidInput)
	}
	return nil
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify lowercases title, folds accents, drops punctuation and joins
// words with single dashes, capped at 60 characters.
func Slugify(title string) string {
	folded, _, err := transform.String(stripMarks, title)
	if err != nil {
		folded = title
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '_':
			dash = true
		}
	}
	return strings.TrimRight(cut(b.String(), maxSlugLength), "-")
}

func cut(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func titleKeywords(title string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, w := range strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if len([]rune(w)) >= minKeywordLength {
			out[w] = struct{}{}
		}
	}
	return out
}

func truncate[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
