package config

import (
	"context"
	"path/filepath"
	"testing"
)

func TestCreateCatalogStore_Memory(t *testing.T) {
	store, err := CreateCatalogStore(context.Background(), &CatalogConfig{Type: "memory"})
	if err != nil {
		t.Fatalf("Failed to create memory catalog store: %v", err)
	}
	defer store.Close()

	if _, err := store.Count(context.Background()); err != nil {
		t.Errorf("New store should be usable: %v", err)
	}
}

func TestCreateCatalogStore_BadgerInMemory(t *testing.T) {
	store, err := CreateCatalogStore(context.Background(), &CatalogConfig{
		Type:   "badger",
		Badger: map[string]any{"in_memory": true},
	})
	if err != nil {
		t.Fatalf("Failed to create badger catalog store: %v", err)
	}
	defer store.Close()
}

func TestCreateCatalogStore_BadgerNeedsPath(t *testing.T) {
	_, err := CreateCatalogStore(context.Background(), &CatalogConfig{
		Type:   "badger",
		Badger: map[string]any{},
	})
	if err == nil {
		t.Fatal("Expected error for badger store without db_path")
	}
}

func TestCreateCatalogStore_UnknownType(t *testing.T) {
	_, err := CreateCatalogStore(context.Background(), &CatalogConfig{Type: "postgres"})
	if err == nil {
		t.Fatal("Expected error for unknown catalog store type")
	}
}

func TestCreateContentStore_Memory(t *testing.T) {
	store, err := CreateContentStore(context.Background(), &ContentConfig{Type: "memory"})
	if err != nil {
		t.Fatalf("Failed to create memory content store: %v", err)
	}

	ref, err := store.CreateBlob(context.Background(), []byte("payload"), "")
	if err != nil {
		t.Fatalf("New store should accept writes: %v", err)
	}
	if ref == "" {
		t.Error("Expected non-empty ref")
	}
}

func TestCreateContentStore_Filesystem(t *testing.T) {
	root := filepath.Join(t.TempDir(), "content")

	store, err := CreateContentStore(context.Background(), &ContentConfig{
		Type:       "filesystem",
		Filesystem: map[string]any{"path": root},
	})
	if err != nil {
		t.Fatalf("Failed to create filesystem content store: %v", err)
	}

	if _, err := store.CreateBlob(context.Background(), []byte("payload"), ""); err != nil {
		t.Errorf("New store should accept writes: %v", err)
	}
}

func TestCreateContentStore_FilesystemNeedsPath(t *testing.T) {
	_, err := CreateContentStore(context.Background(), &ContentConfig{
		Type:       "filesystem",
		Filesystem: map[string]any{},
	})
	if err == nil {
		t.Fatal("Expected error for filesystem store without path")
	}
}

func TestCreateQueue_Memory(t *testing.T) {
	q, err := CreateQueue(context.Background(), &QueueConfig{
		Type:   "memory",
		Memory: map[string]any{"capacity": 8},
	})
	if err != nil {
		t.Fatalf("Failed to create memory queue: %v", err)
	}
	defer q.Close()
}

func TestCreateQueue_AmqpNeedsURL(t *testing.T) {
	_, err := CreateQueue(context.Background(), &QueueConfig{
		Type: "amqp",
		Amqp: map[string]any{},
	})
	if err == nil {
		t.Fatal("Expected error for amqp queue without url")
	}
}

func TestCreateIdentityBackends_MemorySeeds(t *testing.T) {
	users := &UsersConfig{Seed: []SeedUser{
		{ID: "alice", Email: "alice@example.com", Token: "tok-alice"},
		{ID: "bob", Email: "bob@example.com"},
	}}

	cache, directory, err := CreateIdentityBackends(context.Background(), &TokensConfig{Type: "memory"}, users)
	if err != nil {
		t.Fatalf("Failed to create identity backends: %v", err)
	}

	userID, err := cache.Lookup(context.Background(), "tok-alice")
	if err != nil {
		t.Fatalf("Seed token should resolve: %v", err)
	}
	if userID != "alice" {
		t.Errorf("Expected token to resolve to alice, got %q", userID)
	}

	count, err := directory.Count(context.Background())
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 seeded users, got %d", count)
	}
}

func TestCreateIdentityBackends_UnknownType(t *testing.T) {
	_, _, err := CreateIdentityBackends(context.Background(), &TokensConfig{Type: "vault"}, &UsersConfig{})
	if err == nil {
		t.Fatal("Expected error for unknown token cache type")
	}
}
