package config

import (
	"os"
	"testing"
)

func TestCredentialStorePlaintextRoundtrip(t *testing.T) {
	dir := t.TempDir()

	store := NewCredentialStore(SecurityPlainText, "")
	store.SetAccount(Account{Email: "user@example.com", Password: "hunter2"})
	if err := store.Save(dir); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(credentialsPath(dir))
	if err != nil {
		t.Fatalf("stat credentials file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("credentials file mode = %o, want 0600", perm)
	}

	reloaded := NewCredentialStore(SecurityPlainText, "")
	if err := reloaded.Load(dir); err != nil {
		t.Fatalf("Load: %v", err)
	}
	acct := reloaded.Account()
	if acct.Email != "user@example.com" || acct.Password != "hunter2" {
		t.Errorf("Account() = %+v", acct)
	}
}

func TestCredentialStoreLoadMissingFile(t *testing.T) {
	store := NewCredentialStore(SecurityPlainText, "")
	if err := store.Load(t.TempDir()); err != nil {
		t.Fatalf("Load without file: %v", err)
	}
	if acct := store.Account(); acct.Email != "" {
		t.Errorf("Account() = %+v, want zero value", acct)
	}
}

func TestCredentialStoreClear(t *testing.T) {
	dir := t.TempDir()

	store := NewCredentialStore(SecurityPlainText, "")
	store.SetAccount(Account{Email: "a@b.c", Password: "pw"})
	if err := store.Save(dir); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := store.Clear(dir); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if FileExists(credentialsPath(dir)) {
		t.Error("credentials file survived Clear")
	}
	if acct := store.Account(); acct.Email != "" {
		t.Errorf("Account() = %+v after Clear", acct)
	}

	// Clearing again with no file present is not an error.
	if err := store.Clear(dir); err != nil {
		t.Errorf("second Clear: %v", err)
	}
}
