package keygen

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/crypto/ssh"
)

func TestGenerateEd25519KeyPair(t *testing.T) {
	t.Parallel()

	keyPair, err := GenerateEd25519KeyPair("test")
	if err != nil {
		t.Fatalf("GenerateEd25519KeyPair failed: %v", err)
	}

	signer, err := ssh.ParsePrivateKey(keyPair.PrivateKey)
	if err != nil {
		t.Fatalf("private key does not parse: %v", err)
	}
	if signer.PublicKey().Type() != ssh.KeyAlgoED25519 {
		t.Errorf("expected key type %s, got %s", ssh.KeyAlgoED25519, signer.PublicKey().Type())
	}

	pub, _, _, _, err := ssh.ParseAuthorizedKey(keyPair.PublicKey)
	if err != nil {
		t.Fatalf("public key does not parse: %v", err)
	}
	if !bytes.Equal(pub.Marshal(), signer.PublicKey().Marshal()) {
		t.Error("public key does not match private key")
	}
	if !strings.HasPrefix(string(keyPair.PublicKey), "ssh-ed25519 ") {
		t.Errorf("unexpected public key format: %q", keyPair.PublicKey)
	}
}

func TestGenerateEd25519KeyPair_Unique(t *testing.T) {
	t.Parallel()

	a, err := GenerateEd25519KeyPair("a")
	if err != nil {
		t.Fatal(err)
	}
	b, err := GenerateEd25519KeyPair("b")
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(a.PublicKey, b.PublicKey) {
		t.Error("two generated key pairs are identical")
	}
}

func TestLoadKeyPair(t *testing.T) {
	t.Parallel()

	generated, err := GenerateEd25519KeyPair("file")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "id_ed25519")
	if err := os.WriteFile(path, generated.PrivateKey, 0o600); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadKeyPair(path)
	if err != nil {
		t.Fatalf("LoadKeyPair failed: %v", err)
	}
	if !bytes.Equal(loaded.PublicKey, generated.PublicKey) {
		t.Errorf("public key = %q, want %q", loaded.PublicKey, generated.PublicKey)
	}
}

func TestLoadKeyPair_Errors(t *testing.T) {
	t.Parallel()

	if _, err := LoadKeyPair(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "garbage")
	if err := os.WriteFile(path, []byte("not a key"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadKeyPair(path); err == nil {
		t.Error("expected error for invalid key")
	}
}

func TestResolve_GeneratesWhenPathEmpty(t *testing.T) {
	t.Parallel()

	keyPair, err := Resolve("")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(keyPair.PrivateKey) == 0 || len(keyPair.PublicKey) == 0 {
		t.Error("expected a generated key pair")
	}
}
