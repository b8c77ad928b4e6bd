package cache

import (
	"context"
	"testing"
	"time"

	"github.com/getmentor/supercoach-admin/internal/loader"
	"github.com/getmentor/supercoach-admin/internal/models"
	apperrors "github.com/getmentor/supercoach-admin/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceCache_OneResourcePerFilter(t *testing.T) {
	calls := map[models.StudentFilter]int{}
	rc := NewResourceCache("students", time.Minute, func() *loader.Resource[models.StudentFilter, []models.Student] {
		return loader.New("students", func(ctx context.Context, f models.StudentFilter) ([]models.Student, error) {
			calls[f]++
			return []models.Student{{ID: calls[f]}}, nil
		})
	})

	stuck := models.StudentFilter{Status: models.StudentStatusStuck}
	all := models.StudentFilter{}

	assert.Same(t, rc.Get(stuck), rc.Get(stuck))
	assert.NotSame(t, rc.Get(stuck), rc.Get(all))

	rc.Fetch(context.Background(), stuck)
	rc.Fetch(context.Background(), stuck)
	rc.Fetch(context.Background(), all)

	assert.Equal(t, 2, calls[stuck])
	assert.Equal(t, 1, calls[all])
	assert.Equal(t, 2, rc.Len())
}

func TestResourceCache_StaleDataIsPerFilter(t *testing.T) {
	fail := false
	rc := NewResourceCache("courses", time.Minute, func() *loader.Resource[string, []string] {
		return loader.New("courses", func(ctx context.Context, f string) ([]string, error) {
			if fail {
				return nil, apperrors.FromStatus(502, "")
			}
			return []string{f}, nil
		})
	})

	rc.Fetch(context.Background(), "a")
	fail = true

	st := rc.Fetch(context.Background(), "a")
	require.True(t, st.HasData())
	assert.Equal(t, []string{"a"}, *st.Data)
	assert.Equal(t, loader.SourceStale, st.Source)

	st = rc.Fetch(context.Background(), "b")
	assert.False(t, st.HasData())
	assert.NotEmpty(t, st.Error)
}

func TestResourceCache_ResetClosesResources(t *testing.T) {
	rc := NewResourceCache("courses", time.Minute, func() *loader.Resource[string, []string] {
		return loader.New("courses", func(ctx context.Context, f string) ([]string, error) {
			return []string{f}, nil
		})
	})

	old := rc.Get("a")
	old.Fetch(context.Background(), "a")
	rc.Reset()

	assert.Equal(t, 0, rc.Len())
	st := old.Fetch(context.Background(), "a")
	assert.Equal(t, []string{"a"}, *st.Data, "closed resource keeps its last state and ignores fetches")

	fresh := rc.Get("a")
	assert.NotSame(t, old, fresh)
	assert.False(t, fresh.State().HasData())
}
