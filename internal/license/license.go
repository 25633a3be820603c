// Package license gates live trading behind a file-based activation.
// Keys are derived from the holder's email and an issuance timestamp,
// formatted PILOT-XXXX-XXXX-XXXX-XXXX.
package license

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	keyPrefix = "PILOT"
	masterKey = "STOCKPILOT_MASTER_2026"
)

// Plan names accepted by Generate and Activate.
const (
	PlanMonthly  = "monthly"
	PlanLifetime = "lifetime"
)

const monthlyDuration = 30 * 24 * time.Hour

var ErrInvalidKey = errors.New("invalid license key format")

// License is the on-disk activation record.
type License struct {
	Key        string     `json:"key"`
	Email      string     `json:"email"`
	Plan       string     `json:"plan"`
	Activated  time.Time  `json:"activated"`
	Expiration *time.Time `json:"expiration,omitempty"`
	Status     string     `json:"status"`
}

// Manager reads and writes the license file.
type Manager struct {
	path string
}

func NewManager(path string) *Manager {
	if path == "" {
		path = ".license"
	}
	return &Manager{path: path}
}

// Generate issues a new key for the given email and plan and persists
// the activation record.
func (m *Manager) Generate(email, plan string) (string, error) {
	if plan != PlanMonthly && plan != PlanLifetime {
		return "", fmt.Errorf("unknown plan %q", plan)
	}

	now := time.Now()
	key := FormatKey(email, now)

	lic := &License{
		Key:       key,
		Email:     email,
		Plan:      plan,
		Activated: now,
		Status:    "active",
	}
	if plan == PlanMonthly {
		exp := now.Add(monthlyDuration)
		lic.Expiration = &exp
	}

	if err := m.Save(lic); err != nil {
		return "", err
	}
	return key, nil
}

// Activate records a key received out of band.
func (m *Manager) Activate(key, email string) error {
	key = strings.ToUpper(strings.TrimSpace(key))
	if !strings.HasPrefix(key, keyPrefix+"-") {
		return ErrInvalidKey
	}

	now := time.Now()
	exp := now.Add(monthlyDuration)
	return m.Save(&License{
		Key:        key,
		Email:      email,
		Plan:       PlanMonthly,
		Activated:  now,
		Expiration: &exp,
		Status:     "active",
	})
}

func (m *Manager) Save(lic *License) error {
	data, err := json.MarshalIndent(lic, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal license: %w", err)
	}
	if err := os.WriteFile(m.path, data, 0o600); err != nil {
		return fmt.Errorf("write license: %w", err)
	}
	return nil
}

// Load returns the stored license, or nil if no license file exists.
func (m *Manager) Load() (*License, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read license: %w", err)
	}
	var lic License
	if err := json.Unmarshal(data, &lic); err != nil {
		return nil, fmt.Errorf("parse license: %w", err)
	}
	return &lic, nil
}

// Verify reports whether a valid active license is present, with a
// human-readable reason when it is not.
func (m *Manager) Verify() (bool, string) {
	lic, err := m.Load()
	if err != nil {
		return false, err.Error()
	}
	if lic == nil {
		return false, "no license found"
	}
	if lic.Expiration != nil && time.Now().After(*lic.Expiration) {
		return false, fmt.Sprintf("license expired on %s", lic.Expiration.Format("2006-01-02"))
	}
	if lic.Status != "active" {
		return false, "license inactive"
	}
	return true, fmt.Sprintf("%s plan active", lic.Plan)
}

// Deactivate removes the license file.
func (m *Manager) Deactivate() error {
	err := os.Remove(m.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove license: %w", err)
	}
	return nil
}

// FormatKey derives a key from email and issuance time. The hash folds
// in a master secret so keys cannot be forged from the email alone.
func FormatKey(email string, issued time.Time) string {
	raw := email + issued.Format(time.RFC3339Nano) + masterKey
	sum := sha256.Sum256([]byte(raw))
	h := strings.ToUpper(hex.EncodeToString(sum[:]))[:16]
	return fmt.Sprintf("%s-%s-%s-%s-%s", keyPrefix, h[0:4], h[4:8], h[8:12], h[12:16])
}
