// AngelaMos | 2026
// service_test.go

package content

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/sitehub/internal/core"
)

// memRepo is an in-memory store. WithTx snapshots the whole state and
// restores it when fn fails.
type memRepo struct {
	blocks   map[string]Block
	versions []Version
	nextID   int64
	failKey  string
}

func newMemRepo() *memRepo {
	return &memRepo{blocks: make(map[string]Block)}
}

func (m *memRepo) WithTx(_ context.Context, fn func(Repository) error) error {
	blocks := make(map[string]Block, len(m.blocks))
	for k, v := range m.blocks {
		blocks[k] = v
	}
	versions := append([]Version(nil), m.versions...)
	nextID := m.nextID

	if err := fn(m); err != nil {
		m.blocks, m.versions, m.nextID = blocks, versions, nextID
		return err
	}
	return nil
}

func (m *memRepo) Get(_ context.Context, key string) (*Block, error) {
	b, ok := m.blocks[key]
	if !ok {
		return nil, fmt.Errorf("get: %w", core.ErrNotFound)
	}
	return &b, nil
}

func (m *memRepo) GetForUpdate(ctx context.Context, key string) (*Block, error) {
	return m.Get(ctx, key)
}

func (m *memRepo) List(_ context.Context, section string) ([]Block, error) {
	out := []Block{}
	for _, b := range m.blocks {
		if section == "" || b.Section == section {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (m *memRepo) Insert(_ context.Context, b *Block) error {
	if _, ok := m.blocks[b.Key]; ok {
		return fmt.Errorf("insert: %w", core.ErrDuplicateKey)
	}
	if b.Key == m.failKey {
		return errors.New("insert failed")
	}
	b.UpdatedAt = time.Now()
	m.blocks[b.Key] = *b
	return nil
}

func (m *memRepo) Overwrite(_ context.Context, b *Block) error {
	if _, ok := m.blocks[b.Key]; !ok {
		return fmt.Errorf("overwrite: %w", core.ErrNotFound)
	}
	if b.Key == m.failKey {
		return errors.New("overwrite failed")
	}
	b.UpdatedAt = time.Now()
	m.blocks[b.Key] = *b
	return nil
}

func (m *memRepo) Delete(_ context.Context, key string) error {
	if _, ok := m.blocks[key]; !ok {
		return fmt.Errorf("delete: %w", core.ErrNotFound)
	}
	delete(m.blocks, key)
	return nil
}

func (m *memRepo) InsertVersion(_ context.Context, key, value string) (*Version, error) {
	m.nextID++
	v := Version{ID: m.nextID, BlockKey: key, Value: value, CreatedAt: time.Now()}
	m.versions = append(m.versions, v)
	return &v, nil
}

func (m *memRepo) GetVersion(_ context.Context, key string, id int64) (*Version, error) {
	for _, v := range m.versions {
		if v.BlockKey == key && v.ID == id {
			return &v, nil
		}
	}
	return nil, fmt.Errorf("get version: %w", core.ErrNotFound)
}

func (m *memRepo) ListVersions(_ context.Context, key string, limit int) ([]Version, error) {
	out := []Version{}
	for i := len(m.versions) - 1; i >= 0 && len(out) < limit; i-- {
		if m.versions[i].BlockKey == key {
			out = append(out, m.versions[i])
		}
	}
	return out, nil
}

func (m *memRepo) DeleteVersion(_ context.Context, key string, id int64) error {
	for i, v := range m.versions {
		if v.BlockKey == key && v.ID == id {
			m.versions = append(m.versions[:i], m.versions[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("delete version: %w", core.ErrNotFound)
}

func (m *memRepo) DeleteVersions(_ context.Context, key string) error {
	kept := m.versions[:0]
	for _, v := range m.versions {
		if v.BlockKey != key {
			kept = append(kept, v)
		}
	}
	m.versions = kept
	return nil
}

func strPtr(s string) *string { return &s }

func update(t *testing.T, svc *Service, key, value string) *Block {
	t.Helper()
	b, err := svc.Update(context.Background(), key, UpdateBlockRequest{Value: strPtr(value)})
	require.NoError(t, err)
	return b
}

func versionValues(t *testing.T, svc *Service, key string) []string {
	t.Helper()
	versions, err := svc.GetVersions(context.Background(), key)
	require.NoError(t, err)
	out := make([]string, 0, len(versions))
	for _, v := range versions {
		out = append(out, v.Value)
	}
	return out
}

func seed(t *testing.T, svc *Service, key, value string) {
	t.Helper()
	_, err := svc.Create(context.Background(), CreateBlockRequest{
		Key:     key,
		Value:   value,
		Type:    TypeText,
		Section: "home",
	})
	require.NoError(t, err)
}

func TestUpdateSnapshotsPreviousValue(t *testing.T) {
	svc := NewService(newMemRepo())
	seed(t, svc, "hero_headline", "A")

	b := update(t, svc, "hero_headline", "B")

	assert.Equal(t, "B", b.Value)
	assert.Equal(t, "home", b.Section)
	assert.Equal(t, []string{"A"}, versionValues(t, svc, "hero_headline"))
}

func TestVersionsAreNewestFirst(t *testing.T) {
	svc := NewService(newMemRepo())
	seed(t, svc, "k", "V0")

	update(t, svc, "k", "V1")
	update(t, svc, "k", "V2")

	assert.Equal(t, []string{"V1", "V0"}, versionValues(t, svc, "k"))
}

func TestUpdateUpsertsWithoutHistory(t *testing.T) {
	svc := NewService(newMemRepo())

	b := update(t, svc, "fresh", "x")

	assert.Equal(t, TypeText, b.Type)
	assert.Equal(t, DefaultSection, b.Section)
	assert.Empty(t, versionValues(t, svc, "fresh"))
}

func TestUpdateAppliesOptionalFields(t *testing.T) {
	svc := NewService(newMemRepo())
	seed(t, svc, "logo", "/a.png")

	img := TypeImage
	b, err := svc.Update(context.Background(), "logo", UpdateBlockRequest{
		Value:   strPtr("/b.png"),
		Type:    &img,
		Section: strPtr("Brand"),
	})
	require.NoError(t, err)
	assert.Equal(t, TypeImage, b.Type)
	assert.Equal(t, "brand", b.Section)
}

func TestUpdateRejectsInvalidInput(t *testing.T) {
	svc := NewService(newMemRepo())

	_, err := svc.Update(context.Background(), "bad key", UpdateBlockRequest{Value: strPtr("x")})
	assert.ErrorIs(t, err, ErrInvalidKey)
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = svc.Update(context.Background(), "k", UpdateBlockRequest{})
	assert.ErrorIs(t, err, ErrValueMissing)

	bogus := BlockType("video")
	_, err = svc.Update(context.Background(), "k", UpdateBlockRequest{Value: strPtr("x"), Type: &bogus})
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestRollbackIsATrackedUpdate(t *testing.T) {
	svc := NewService(newMemRepo())
	seed(t, svc, "k", "V0")
	update(t, svc, "k", "V1")
	update(t, svc, "k", "V2")

	versions, err := svc.GetVersions(context.Background(), "k")
	require.NoError(t, err)
	require.Len(t, versions, 2)
	v0 := versions[1]
	require.Equal(t, "V0", v0.Value)

	b, err := svc.Rollback(context.Background(), "k", v0.ID)
	require.NoError(t, err)

	assert.Equal(t, "V0", b.Value)
	assert.Equal(t, []string{"V2", "V1"}, versionValues(t, svc, "k"))
}

func TestRollbackScenario(t *testing.T) {
	svc := NewService(newMemRepo())
	seed(t, svc, "hero_headline", "A")
	update(t, svc, "hero_headline", "B")

	versions, err := svc.GetVersions(context.Background(), "hero_headline")
	require.NoError(t, err)
	require.Len(t, versions, 1)

	b, err := svc.Rollback(context.Background(), "hero_headline", versions[0].ID)
	require.NoError(t, err)

	assert.Equal(t, "A", b.Value)
	assert.Equal(t, []string{"B"}, versionValues(t, svc, "hero_headline"))
}

func TestRollbackUnknownVersion(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	seed(t, svc, "a", "1")
	seed(t, svc, "b", "1")
	update(t, svc, "b", "2")

	_, err := svc.Rollback(context.Background(), "a", 999)
	assert.ErrorIs(t, err, core.ErrNotFound)

	// a version id belonging to another key is not found either
	_, err = svc.Rollback(context.Background(), "a", repo.versions[0].ID)
	assert.ErrorIs(t, err, core.ErrNotFound)

	b, err := svc.Get(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "1", b.Value)
}

func TestCreateNeverOverwrites(t *testing.T) {
	svc := NewService(newMemRepo())
	seed(t, svc, "k", "original")

	_, err := svc.Create(context.Background(), CreateBlockRequest{Key: "k", Value: "other", Type: TypeText})
	assert.ErrorIs(t, err, core.ErrDuplicateKey)

	b, err := svc.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "original", b.Value)
	assert.Empty(t, versionValues(t, svc, "k"))
}

func TestDeleteThenCreateStartsClean(t *testing.T) {
	svc := NewService(newMemRepo())
	seed(t, svc, "k", "1")
	update(t, svc, "k", "2")
	update(t, svc, "k", "3")

	require.NoError(t, svc.Delete(context.Background(), "k"))
	assert.Empty(t, versionValues(t, svc, "k"))

	_, err := svc.Get(context.Background(), "k")
	assert.ErrorIs(t, err, core.ErrNotFound)

	seed(t, svc, "k", "again")
	assert.Empty(t, versionValues(t, svc, "k"))
}

func TestDeleteMissing(t *testing.T) {
	svc := NewService(newMemRepo())

	assert.ErrorIs(t, svc.Delete(context.Background(), "nope"), core.ErrNotFound)
}

func TestGetVersionsCapped(t *testing.T) {
	svc := NewService(newMemRepo())
	seed(t, svc, "k", "v0")

	for i := 1; i <= MaxVersions+5; i++ {
		update(t, svc, "k", fmt.Sprintf("v%d", i))
	}

	values := versionValues(t, svc, "k")
	require.Len(t, values, MaxVersions)
	assert.Equal(t, fmt.Sprintf("v%d", MaxVersions+4), values[0])
}

func TestGetVersionsToleratesOrphans(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	seed(t, svc, "k", "1")
	update(t, svc, "k", "2")

	delete(repo.blocks, "k")

	assert.Equal(t, []string{"1"}, versionValues(t, svc, "k"))

	b, err := svc.Rollback(context.Background(), "k", repo.versions[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "1", b.Value)
	assert.Empty(t, versionValues(t, svc, "k"))
}

func TestBulkUpdateIsAtomic(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	seed(t, svc, "a", "a0")
	seed(t, svc, "b", "b0")
	repo.failKey = "b"

	_, err := svc.BulkUpdate(context.Background(), []BulkUpdateEntry{
		{Key: "a", UpdateBlockRequest: UpdateBlockRequest{Value: strPtr("a1")}},
		{Key: "b", UpdateBlockRequest: UpdateBlockRequest{Value: strPtr("b1")}},
	})
	require.Error(t, err)

	a, err := svc.Get(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "a0", a.Value)
	assert.Empty(t, versionValues(t, svc, "a"))
}

func TestBulkUpdate(t *testing.T) {
	svc := NewService(newMemRepo())
	seed(t, svc, "a", "a0")

	blocks, err := svc.BulkUpdate(context.Background(), []BulkUpdateEntry{
		{Key: "a", UpdateBlockRequest: UpdateBlockRequest{Value: strPtr("a1")}},
		{Key: "c", UpdateBlockRequest: UpdateBlockRequest{Value: strPtr("c1")}},
	})
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, "a1", blocks[0].Value)
	assert.Equal(t, "c1", blocks[1].Value)
	assert.Equal(t, []string{"a0"}, versionValues(t, svc, "a"))

	_, err = svc.BulkUpdate(context.Background(), nil)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestListOrderedByKey(t *testing.T) {
	svc := NewService(newMemRepo())
	seed(t, svc, "zeta", "1")
	seed(t, svc, "alpha", "1")
	_, err := svc.Create(context.Background(), CreateBlockRequest{
		Key: "meta_title", Value: "t", Type: TypeText, Section: SectionSEO,
	})
	require.NoError(t, err)

	all, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "alpha", all[0].Key)
	assert.Equal(t, "zeta", all[2].Key)

	home, err := svc.List(context.Background(), "home")
	require.NoError(t, err)
	assert.Len(t, home, 2)
}
