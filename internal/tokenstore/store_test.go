package tokenstore

import (
	"testing"

	"github.com/nnhurricane156/phygen-portal/internal/domain"
)

// storeUnderTest runs the shared Store contract against an implementation.
func storeUnderTest(t *testing.T, store Store) {
	t.Helper()

	t.Run("empty store is unauthenticated", func(t *testing.T) {
		if store.Token() != "" {
			t.Errorf("Token() = %q, want empty", store.Token())
		}
		if store.UserData() != nil {
			t.Errorf("UserData() = %v, want nil", store.UserData())
		}
		if store.IsAuthenticated() {
			t.Error("IsAuthenticated() = true, want false")
		}
	})

	t.Run("token round-trip", func(t *testing.T) {
		if err := store.SetToken("header.payload.sig"); err != nil {
			t.Fatalf("SetToken() error = %v", err)
		}
		if got := store.Token(); got != "header.payload.sig" {
			t.Errorf("Token() = %q, want header.payload.sig", got)
		}
		if !store.IsAuthenticated() {
			t.Error("IsAuthenticated() = false after SetToken")
		}
	})

	t.Run("profile round-trip", func(t *testing.T) {
		profile := &domain.UserProfile{
			ID:       "u-1",
			Email:    "student@example.com",
			Username: "student",
			Role:     domain.RoleUser,
		}
		if err := store.SetUserData(profile); err != nil {
			t.Fatalf("SetUserData() error = %v", err)
		}
		got := store.UserData()
		if got == nil {
			t.Fatal("UserData() = nil after SetUserData")
		}
		if *got != *profile {
			t.Errorf("UserData() = %+v, want %+v", got, profile)
		}
	})

	t.Run("clear drops token and profile", func(t *testing.T) {
		if err := store.Clear(); err != nil {
			t.Fatalf("Clear() error = %v", err)
		}
		if store.Token() != "" {
			t.Errorf("Token() = %q after Clear, want empty", store.Token())
		}
		if store.UserData() != nil {
			t.Errorf("UserData() = %v after Clear, want nil", store.UserData())
		}
		if store.IsAuthenticated() {
			t.Error("IsAuthenticated() = true after Clear")
		}
	})
}

func TestMemoryStore(t *testing.T) {
	storeUnderTest(t, NewMemory())
}

func TestFileStore(t *testing.T) {
	store, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}
	storeUnderTest(t, store)
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	first, err := NewFile(dir)
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}
	if err := first.SetToken("tok"); err != nil {
		t.Fatalf("SetToken() error = %v", err)
	}
	if err := first.SetUserData(&domain.UserProfile{ID: "u-2", Role: domain.RoleManager}); err != nil {
		t.Fatalf("SetUserData() error = %v", err)
	}

	second, err := NewFile(dir)
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}
	if got := second.Token(); got != "tok" {
		t.Errorf("Token() = %q, want tok", got)
	}
	profile := second.UserData()
	if profile == nil || profile.ID != "u-2" {
		t.Errorf("UserData() = %+v, want ID u-2", profile)
	}
}

func TestFileStore_EmptyDirDegradesToNoop(t *testing.T) {
	store, err := NewFile("")
	if err != nil {
		t.Fatalf("NewFile(\"\") error = %v", err)
	}

	if err := store.SetToken("tok"); err != nil {
		t.Errorf("SetToken() error = %v, want nil", err)
	}
	if store.Token() != "" {
		t.Errorf("Token() = %q, want empty on no-op store", store.Token())
	}
	if store.IsAuthenticated() {
		t.Error("IsAuthenticated() = true on no-op store")
	}
}

func TestMemoryStore_CopiesProfile(t *testing.T) {
	store := NewMemory()
	profile := &domain.UserProfile{ID: "u-3", Email: "a@example.com"}
	if err := store.SetUserData(profile); err != nil {
		t.Fatalf("SetUserData() error = %v", err)
	}

	// Mutating the caller's struct must not leak into the store.
	profile.Email = "changed@example.com"
	if got := store.UserData(); got.Email != "a@example.com" {
		t.Errorf("UserData().Email = %q, want a@example.com", got.Email)
	}
}
