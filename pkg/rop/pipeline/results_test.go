package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ib-77/railyard/pkg/rop"
	"github.com/ib-77/railyard/pkg/rop/solo"
	"github.com/ib-77/railyard/pkg/rop/stage"
)

var errInvalidURL = errors.New("URL must start with http:// or https://")

func fetchTitle(_ context.Context, url string) (string, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "", errInvalidURL
	}
	return "Mock Page Title for " + url, nil
}

// Per-item failures travel downstream as failed results and never fail the
// stage carrying them.
func TestPipeline_ItemsAsResults(t *testing.T) {
	t.Parallel()

	urls := []string{
		"https://www.example.com",
		"https://www.test.org",
		"invalid-url",
		"https://www.micros---oft.com",
		"ftp://invalid-protocol.com",
	}

	ctx := testCtx(t)
	p := New(ctx)
	opts := func(name string) []stage.Option {
		return []stage.Option{stage.WithName(name), stage.WithContext(p.Context())}
	}

	fetch := stage.Must(stage.New(func(ctx context.Context, url string) (rop.Result[string], error) {
		return solo.Try(ctx, solo.Succeed(url), fetchTitle), nil
	}, 2, opts("fetch")...))

	length := stage.Must(stage.New(func(ctx context.Context, r rop.Result[string]) (rop.Result[int], error) {
		return solo.Map(ctx, r, func(_ context.Context, title string) int { return len(title) }), nil
	}, 2, opts("length")...))

	out := &sink[string]{}
	report := stage.Must(stage.NewAction(func(ctx context.Context, r rop.Result[int]) error {
		return out.action(ctx, solo.Finally(ctx, r,
			func(_ context.Context, n int) string { return "title length" },
			func(_ context.Context, err error) string { return "invalid" },
			func(_ context.Context, err error) string { return "cancelled" }))
	}, 2, opts("report")...))

	require.NoError(t, Link(p, fetch, length))
	require.NoError(t, Link(p, length, report))
	require.NoError(t, Feed(ctx, fetch, urls...))
	require.NoError(t, p.Wait(ctx))

	assert.Equal(t, []string{"title length", "title length", "invalid", "title length", "invalid"}, out.values())
	for _, s := range p.Summaries() {
		assert.EqualValues(t, len(urls), s.Result().Processed, s.Result().Stage)
	}
}
