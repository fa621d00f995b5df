package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// SecurityMethod defines the credential storage method
type SecurityMethod string

const (
	SecurityPlainText SecurityMethod = "plaintext"
	SecuritySSHKey    SecurityMethod = "ssh_key"
)

// Account is the backend login identity stored on disk so the client can
// re-authenticate without prompting on every launch.
type Account struct {
	Email    string `toml:"email" json:"email"`
	Password string `toml:"password" json:"password"`
}

// CredentialStore manages the stored backend account, plain text or
// SSH-key encrypted depending on the configured security method.
type CredentialStore struct {
	method     SecurityMethod
	account    Account
	sshKeyPath string
	passphrase string
	encManager *EncryptionManager
}

// NewCredentialStore creates a new credential store
func NewCredentialStore(method SecurityMethod, sshKeyPath string) *CredentialStore {
	return &CredentialStore{
		method:     method,
		sshKeyPath: sshKeyPath,
	}
}

// SetPassphrase sets the passphrase for decrypting the SSH key
func (c *CredentialStore) SetPassphrase(passphrase string) {
	c.passphrase = passphrase
	if c.encManager != nil {
		c.encManager.SetPassphrase(passphrase)
	}
}

// Load loads the stored account based on the configured security method
func (c *CredentialStore) Load(dataDir string) error {
	switch c.method {
	case SecurityPlainText:
		account, err := loadPlainText(dataDir)
		if err != nil {
			return err
		}
		c.account = account
		return nil

	case SecuritySSHKey:
		account, err := c.loadSSHEncrypted(dataDir)
		if err != nil {
			return err
		}
		c.account = account
		return nil

	default:
		return fmt.Errorf("unknown security method: %s", c.method)
	}
}

// Save saves the account based on the configured security method
func (c *CredentialStore) Save(dataDir string) error {
	switch c.method {
	case SecurityPlainText:
		return savePlainText(dataDir, c.account)

	case SecuritySSHKey:
		return c.saveSSHEncrypted(dataDir)

	default:
		return fmt.Errorf("unknown security method: %s", c.method)
	}
}

// Account returns the stored account (zero value when nothing is stored)
func (c *CredentialStore) Account() Account {
	return c.account
}

// SetAccount stores the account in memory; call Save to persist it
func (c *CredentialStore) SetAccount(account Account) {
	c.account = account
}

// Clear wipes the stored account and removes the on-disk file
func (c *CredentialStore) Clear(dataDir string) error {
	c.account = Account{}

	var path string
	switch c.method {
	case SecurityPlainText:
		path = credentialsPath(dataDir)
	case SecuritySSHKey:
		path = encryptedCredentialsPath(dataDir)
	default:
		return fmt.Errorf("unknown security method: %s", c.method)
	}

	if FileExists(path) {
		return os.Remove(path)
	}
	return nil
}

// GetMethod returns the current security method
func (c *CredentialStore) GetMethod() SecurityMethod {
	return c.method
}

func credentialsPath(dataDir string) string {
	return filepath.Join(dataDir, "credentials.toml")
}

func encryptedCredentialsPath(dataDir string) string {
	return filepath.Join(dataDir, "credentials.enc")
}

// ===== Plain Text Storage =====

func loadPlainText(dataDir string) (Account, error) {
	path := credentialsPath(dataDir)

	if !FileExists(path) {
		return Account{}, nil
	}

	type credentialsFile struct {
		Account Account `toml:"account"`
	}

	var cf credentialsFile
	if _, err := toml.DecodeFile(path, &cf); err != nil {
		return Account{}, fmt.Errorf("failed to parse credentials file: %w", err)
	}

	return cf.Account, nil
}

func savePlainText(dataDir string, account Account) error {
	path := credentialsPath(dataDir)

	type credentialsFile struct {
		Account Account `toml:"account"`
	}

	cf := credentialsFile{Account: account}

	// 0600 - owner read/write only
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create credentials file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(cf); err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	return nil
}

// ===== SSH Key Encrypted Storage =====

func (c *CredentialStore) loadSSHEncrypted(dataDir string) (Account, error) {
	path := encryptedCredentialsPath(dataDir)

	if !FileExists(path) {
		return Account{}, nil
	}

	if c.encManager == nil || c.passphrase != "" {
		c.encManager = NewEncryptionManager(EncryptionSSHKey, c.sshKeyPath)
		c.encManager.SetPassphrase(c.passphrase)
		if err := c.encManager.Initialize(); err != nil {
			return Account{}, fmt.Errorf("failed to initialize encryption: %w", err)
		}
	}

	encryptedData, err := os.ReadFile(path)
	if err != nil {
		return Account{}, fmt.Errorf("failed to read encrypted credentials: %w", err)
	}

	decryptedData, err := c.encManager.Decrypt(encryptedData)
	if err != nil {
		return Account{}, fmt.Errorf("failed to decrypt credentials: %w", err)
	}

	var account Account
	if err := json.Unmarshal(decryptedData, &account); err != nil {
		return Account{}, fmt.Errorf("failed to parse decrypted credentials: %w", err)
	}

	return account, nil
}

func (c *CredentialStore) saveSSHEncrypted(dataDir string) error {
	path := encryptedCredentialsPath(dataDir)

	if c.encManager == nil || c.passphrase != "" {
		c.encManager = NewEncryptionManager(EncryptionSSHKey, c.sshKeyPath)
		c.encManager.SetPassphrase(c.passphrase)
		if err := c.encManager.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize encryption: %w", err)
		}
	}

	jsonData, err := json.MarshalIndent(c.account, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize credentials: %w", err)
	}

	encryptedData, err := c.encManager.Encrypt(jsonData)
	if err != nil {
		return fmt.Errorf("failed to encrypt credentials: %w", err)
	}

	if err := os.WriteFile(path, encryptedData, 0600); err != nil {
		return fmt.Errorf("failed to write encrypted credentials: %w", err)
	}

	return nil
}
