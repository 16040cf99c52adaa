package prefs

import (
	"testing"

	"golang.zx2c4.com/wireguard/wgctrl/wgtypes"
)

func TestValidatePrivateKey(t *testing.T) {
	key, err := wgtypes.GeneratePrivateKey()
	if err != nil {
		t.Fatal(err)
	}
	if err := ValidatePrivateKey(key.String()); err != nil {
		t.Errorf("ValidatePrivateKey(valid) = %v", err)
	}

	for _, bad := range []string{"", "not-base64!!", "dG9vIHNob3J0"} {
		if err := ValidatePrivateKey(bad); err == nil {
			t.Errorf("ValidatePrivateKey(%q) = nil, want error", bad)
		}
	}
}

func TestPublicKeyDerivation(t *testing.T) {
	key, err := wgtypes.GeneratePrivateKey()
	if err != nil {
		t.Fatal(err)
	}
	got, err := PublicKey(key.String())
	if err != nil {
		t.Fatalf("PublicKey: %v", err)
	}
	if want := key.PublicKey().String(); got != want {
		t.Errorf("PublicKey = %q, want %q", got, want)
	}

	if _, err := PublicKey("bogus"); err == nil {
		t.Error("PublicKey(bogus) = nil error, want failure")
	}
}
