// transfer.go: Export and import of provider profiles as encrypted archives.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pfz

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// DefaultEntryName is the name of the encrypted entry inside exported archives.
const DefaultEntryName = "providers.pfz"

// Profile is an API endpoint profile. All fields are required and non-empty.
// The JSON names match archives exported by the browser application.
type Profile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	APIKey   string `json:"apiKey"`
	BaseURL  string `json:"baseUrl"`
	PluginID string `json:"pluginId"`
}

var profileFields = []string{"id", "name", "apiKey", "baseUrl", "pluginId"}

// Validate reports the first empty required field.
func (p Profile) Validate() error {
	values := []string{p.ID, p.Name, p.APIKey, p.BaseURL, p.PluginID}
	for i, v := range values {
		if v == "" {
			return schemaError(fmt.Sprintf("missing field %s", profileFields[i]))
		}
	}
	return nil
}

// ValidateProfiles checks every profile. It fails on the first invalid one.
func ValidateProfiles(profiles []Profile) error {
	for i, p := range profiles {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("profile %d: %w", i, err)
		}
	}
	return nil
}

// Transfer exports and imports profile archives.
// The zero value uses a zero-value Sealer and DefaultEntryName.
type Transfer struct {
	Sealer Sealer

	// EntryName is the name given to the encrypted entry on export.
	// Import accepts any entry name.
	EntryName string
}

func (t *Transfer) entryName() string {
	if t.EntryName == "" {
		return DefaultEntryName
	}
	return t.EntryName
}

// Export encodes profiles as a JSON array, encrypts it with password and
// wraps the payload as the single entry of a ZIP archive.
//
// Profiles are validated first, so Export never produces an archive that
// Import would reject.
func (t *Transfer) Export(profiles []Profile, password []byte) ([]byte, error) {
	if err := ValidateProfiles(profiles); err != nil {
		return nil, err
	}
	if profiles == nil {
		profiles = []Profile{}
	}

	plaintext, err := json.MarshalIndent(profiles, "", "  ")
	if err != nil {
		return nil, schemaError(fmt.Sprintf("failed to encode profiles: %v", err))
	}
	defer Zeroize(plaintext)

	payload, err := t.Sealer.Encrypt(plaintext, password)
	if err != nil {
		return nil, err
	}
	return WriteSingle(t.entryName(), payload)
}

// Import recovers the profiles stored in archive.
//
// Container and decryption errors are returned unchanged (ErrFormat,
// ErrAuthentication, ErrParameter). A decrypted document that is not an array
// of complete profiles fails with ErrSchema. Either every profile is returned
// or none is.
func (t *Transfer) Import(archive, password []byte) ([]Profile, error) {
	entry, err := ReadSingle(archive)
	if err != nil {
		return nil, err
	}

	plaintext, err := t.Sealer.Decrypt(entry.Content, password)
	if err != nil {
		return nil, err
	}
	defer Zeroize(plaintext)

	return DecodeProfiles(plaintext)
}

// DecodeProfiles parses a UTF-8 JSON array of profiles, requiring every
// element to be an object whose five fields are non-empty strings. Unknown
// fields are ignored.
func DecodeProfiles(data []byte) ([]Profile, error) {
	if !utf8.Valid(data) {
		return nil, schemaError("profile data is not valid UTF-8")
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, schemaError(fmt.Sprintf("profile data is not valid JSON: %v", err))
	}
	items, ok := doc.([]any)
	if !ok {
		return nil, schemaError("profile data is not an array")
	}

	profiles := make([]Profile, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("profile %d: %w", i, schemaError("not an object"))
		}
		var values [5]string
		for j, field := range profileFields {
			s, ok := obj[field].(string)
			if !ok || s == "" {
				return nil, fmt.Errorf("profile %d: %w", i, schemaError(fmt.Sprintf("missing field %s", field)))
			}
			values[j] = s
		}
		profiles = append(profiles, Profile{
			ID:       values[0],
			Name:     values[1],
			APIKey:   values[2],
			BaseURL:  values[3],
			PluginID: values[4],
		})
	}
	return profiles, nil
}

// ExportProfiles exports profiles with a zero-value Transfer.
//
// Example:
//
//	archive, err := pfz.ExportProfiles(profiles, []byte(password))
//	if err != nil {
//		log.Fatal(err)
//	}
//	os.WriteFile("providers.zip", archive, 0o600)
func ExportProfiles(profiles []Profile, password []byte) ([]byte, error) {
	var t Transfer
	return t.Export(profiles, password)
}

// ImportProfiles imports an archive produced by ExportProfiles.
func ImportProfiles(archive, password []byte) ([]Profile, error) {
	var t Transfer
	return t.Import(archive, password)
}
