package prefs

import (
	"golang.zx2c4.com/wireguard/wgctrl/wgtypes"
)

// ValidatePrivateKey reports whether s is a well-formed WireGuard private
// key (32 bytes, base64).
func ValidatePrivateKey(s string) error {
	_, err := wgtypes.ParseKey(s)
	return err
}

// PublicKey derives the client public key from a private key string.
// Useful for showing the user which peer identity their configs carry.
func PublicKey(private string) (string, error) {
	key, err := wgtypes.ParseKey(private)
	if err != nil {
		return "", err
	}
	return key.PublicKey().String(), nil
}
