package corpus

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/xxxsen/askfolio/internal/model"
)

func LoadProfile(path string) (*model.Profile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open profile: %w", err)
	}
	defer file.Close()
	return DecodeProfile(file)
}

// DecodeProfile rejects unknown keys so typos in the profile surface at startup.
func DecodeProfile(r io.Reader) (*model.Profile, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var profile model.Profile
	if err := dec.Decode(&profile); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode profile: empty document")
		}
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	if strings.TrimSpace(profile.Identity.Name) == "" {
		return nil, fmt.Errorf("identity.name is required")
	}
	return &profile, nil
}
