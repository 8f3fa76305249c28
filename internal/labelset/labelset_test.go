package labelset_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Raidoxe/BERTNews/internal/labelset"
	appErr "github.com/Raidoxe/BERTNews/internal/pkg/errors"
)

func TestFingerprintInsensitivity(t *testing.T) {
	a, err := labelset.Fingerprint([]string{"B", "a"})
	require.NoError(t, err)
	b, err := labelset.Fingerprint([]string{"a", "B"})
	require.NoError(t, err)
	c, err := labelset.Fingerprint([]string{"a", " b "})
	require.NoError(t, err)
	require.Equal(t, a, b)
	require.Equal(t, a, c)
	require.Len(t, a, 16)
}

func TestFingerprintDistinguishesSets(t *testing.T) {
	a, err := labelset.Fingerprint([]string{"sport", "war"})
	require.NoError(t, err)
	b, err := labelset.Fingerprint([]string{"sport", "tech"})
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestFingerprintEmptyFails(t *testing.T) {
	_, err := labelset.Fingerprint(nil)
	require.ErrorIs(t, err, appErr.ErrInvalid)
}

type memStore struct {
	sets map[string][]string
}

func newMemStore() *memStore {
	return &memStore{sets: map[string][]string{}}
}

func (s *memStore) Insert(_ context.Context, hash string, labels []string) error {
	if _, ok := s.sets[hash]; !ok {
		s.sets[hash] = append([]string(nil), labels...)
	}
	return nil
}

func (s *memStore) Get(_ context.Context, hash string) ([]string, bool, error) {
	labels, ok := s.sets[hash]
	return labels, ok, nil
}

func TestRegistryRegisterResolve(t *testing.T) {
	registry := labelset.NewRegistry(newMemStore())

	hash, err := registry.Register(context.Background(), []string{"Sport", "War"})
	require.NoError(t, err)

	labels, err := registry.Resolve(context.Background(), hash)
	require.NoError(t, err)
	require.Equal(t, []string{"Sport", "War"}, labels)

	// Re-registering in another order keeps the original labels row.
	again, err := registry.Register(context.Background(), []string{"war", "sport"})
	require.NoError(t, err)
	require.Equal(t, hash, again)
	labels, err = registry.Resolve(context.Background(), hash)
	require.NoError(t, err)
	require.Equal(t, []string{"Sport", "War"}, labels)
}

func TestRegistryResolveUnknown(t *testing.T) {
	registry := labelset.NewRegistry(newMemStore())
	_, err := registry.Resolve(context.Background(), "deadbeefdeadbeef")
	require.ErrorIs(t, err, appErr.ErrNotFound)
}
