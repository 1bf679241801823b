package middleware_test

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aretw0/kanban/pkg/adapters/memory"
	"github.com/aretw0/kanban/pkg/domain"
	"github.com/aretw0/kanban/pkg/persistence/middleware"
)

const board = `{"projects":[{"id":"p1","title":"secret-roadmap","lanes":[]}],"cards":{}}`

func generateKey(t *testing.T) []byte {
	k := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, k); err != nil {
		t.Fatal(err)
	}
	return k
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlying := memory.NewStore()
	key := generateKey(t)
	secureStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})(underlying)
	ctx := context.Background()

	if err := secureStore.Save(ctx, []byte(board)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	stored, err := underlying.Load(ctx)
	if err != nil {
		t.Fatalf("Underlying load failed: %v", err)
	}
	if strings.Contains(string(stored), "secret-roadmap") {
		t.Fatalf("Expected board to be hidden, found: %s", stored)
	}
	var envelope map[string]string
	if err := json.Unmarshal(stored, &envelope); err != nil {
		t.Fatalf("Envelope is not JSON: %v", err)
	}
	if _, ok := envelope[middleware.EnvelopeKey]; !ok {
		t.Fatal("Expected __encrypted__ field in envelope")
	}

	loaded, err := secureStore.Load(ctx)
	if err != nil {
		t.Fatalf("Load via middleware failed: %v", err)
	}
	if string(loaded) != board {
		t.Errorf("Expected original board, got %s", loaded)
	}
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlying := memory.NewStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)
	ctx := context.Background()

	secureStoreOld := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})(underlying)
	if err := secureStoreOld.Save(ctx, []byte(`{"v":"old"}`)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	secureStoreNew := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(underlying)

	loaded, err := secureStoreNew.Load(ctx)
	if err != nil {
		t.Fatalf("Load with rotated key failed: %v", err)
	}
	if string(loaded) != `{"v":"old"}` {
		t.Errorf("Decryption with fallback key failed: %s", loaded)
	}

	if err := secureStoreNew.Save(ctx, []byte(`{"v":"new"}`)); err != nil {
		t.Fatalf("Save with new key failed: %v", err)
	}

	if _, err := secureStoreOld.Load(ctx); err == nil {
		t.Error("Expected failure when loading new-key encryption with old-key middleware")
	}
}

func TestEncryptionMiddleware_FailsSecure(t *testing.T) {
	underlying := memory.NewStore()
	ctx := context.Background()
	secureStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlying)

	if _, err := secureStore.Load(ctx); !errors.Is(err, domain.ErrBoardNotFound) {
		t.Fatalf("Expected ErrBoardNotFound on empty store, got %v", err)
	}

	if err := underlying.Save(ctx, []byte(board)); err != nil {
		t.Fatal(err)
	}
	if _, err := secureStore.Load(ctx); !errors.Is(err, middleware.ErrNotEncrypted) {
		t.Fatalf("Expected ErrNotEncrypted for plain board, got %v", err)
	}
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected panic for invalid key size")
		}
	}()
	middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
}

func TestParseKey(t *testing.T) {
	key := generateKey(t)
	parsed, err := middleware.ParseKey(hex.EncodeToString(key))
	if err != nil {
		t.Fatalf("ParseKey failed: %v", err)
	}
	if string(parsed) != string(key) {
		t.Error("ParseKey returned a different key")
	}

	if _, err := middleware.ParseKey("abcd"); err == nil {
		t.Error("Expected error for short key")
	}
	if _, err := middleware.ParseKey("not-hex"); err == nil {
		t.Error("Expected error for non-hex key")
	}
}
