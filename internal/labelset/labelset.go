// Package labelset canonicalizes label collections and maps them to stable
// fingerprints so that every caller referring to the same labels lands on
// the same cached scores and profiles.
package labelset

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	appErr "github.com/Raidoxe/BERTNews/internal/pkg/errors"
)

// Fingerprint is order-, case- and whitespace-insensitive: labels are
// trimmed, lower-cased, sorted and joined before hashing. The first 16 hex
// chars of the sha256 digest are enough to key a deployment's label sets.
func Fingerprint(labels []string) (string, error) {
	if len(labels) == 0 {
		return "", appErr.ErrInvalid
	}
	norm := make([]string, 0, len(labels))
	for _, label := range labels {
		norm = append(norm, strings.ToLower(strings.TrimSpace(label)))
	}
	sort.Strings(norm)
	sum := sha256.Sum256([]byte(strings.Join(norm, "|")))
	return hex.EncodeToString(sum[:])[:16], nil
}

// Store is the persistence surface the registry needs: insert-if-missing and
// exact-key lookup.
type Store interface {
	Insert(ctx context.Context, hash string, labels []string) error
	Get(ctx context.Context, hash string) ([]string, bool, error)
}

type Registry struct {
	store Store
}

func NewRegistry(store Store) *Registry {
	return &Registry{store: store}
}

// Register persists the fingerprint -> labels mapping if absent and returns
// the fingerprint either way.
func (r *Registry) Register(ctx context.Context, labels []string) (string, error) {
	hash, err := Fingerprint(labels)
	if err != nil {
		return "", err
	}
	if err := r.store.Insert(ctx, hash, labels); err != nil {
		return "", err
	}
	return hash, nil
}

func (r *Registry) Resolve(ctx context.Context, hash string) ([]string, error) {
	labels, ok, err := r.store.Get(ctx, hash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, appErr.ErrNotFound
	}
	return labels, nil
}
