package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/comms-client/internal/constants"
	"github.com/fivetwenty-io/comms-client/pkg/comms"
)

// Profile is one named entry of the credentials file.
type Profile struct {
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	SessionToken    string `yaml:"session_token,omitempty"`
	Region          string `yaml:"region,omitempty"`
	Endpoint        string `yaml:"endpoint,omitempty"`
}

// CredentialsFile is the on-disk shape of the credentials file.
type CredentialsFile struct {
	Profiles map[string]*Profile `yaml:"profiles"`
}

// DefaultCredentialsPath returns $COMMS_SHARED_CREDENTIALS_FILE or
// $HOME/.comms/credentials.yml.
func DefaultCredentialsPath() string {
	if path := os.Getenv(constants.EnvCredentialsFile); path != "" {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".comms", "credentials.yml")
	}

	return filepath.Join(home, ".comms", "credentials.yml")
}

// FileProvider reads one profile of a YAML credentials file on every Retrieve.
type FileProvider struct {
	path    string
	profile string
	mutex   sync.Mutex
}

// NewFileProvider creates a provider. Empty arguments select the default path
// and the profile named by $COMMS_PROFILE or "default".
func NewFileProvider(path, profile string) *FileProvider {
	if path == "" {
		path = DefaultCredentialsPath()
	}

	if profile == "" {
		profile = os.Getenv(constants.EnvProfile)
	}

	if profile == "" {
		profile = constants.DefaultProfile
	}

	return &FileProvider{path: path, profile: profile}
}

// Path returns the credentials file location.
func (p *FileProvider) Path() string {
	return p.path
}

// ProfileName returns the profile read by Retrieve.
func (p *FileProvider) ProfileName() string {
	return p.profile
}

// Retrieve implements comms.CredentialsProvider.
func (p *FileProvider) Retrieve(context.Context) (comms.Credentials, error) {
	profile, err := p.LoadProfile(p.profile)
	if err != nil {
		return comms.Credentials{}, err
	}

	if profile.AccessKeyID == "" || profile.SecretAccessKey == "" {
		return comms.Credentials{}, fmt.Errorf("profile %q in %s: %w", p.profile, p.path, constants.ErrNoCredentialsInFile)
	}

	return comms.Credentials{
		AccessKeyID:     profile.AccessKeyID,
		SecretAccessKey: profile.SecretAccessKey,
		SessionToken:    profile.SessionToken,
		Source:          SourceFile,
	}, nil
}

// LoadProfile returns a named profile from the file.
func (p *FileProvider) LoadProfile(name string) (*Profile, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	file, err := p.load()
	if err != nil {
		return nil, err
	}

	profile, ok := file.Profiles[name]
	if !ok || profile == nil {
		return nil, fmt.Errorf("profile %q in %s: %w", name, p.path, constants.ErrProfileNotFound)
	}

	return profile, nil
}

// SaveProfile writes or replaces a profile, creating the file with owner-only permissions.
func (p *FileProvider) SaveProfile(name string, profile *Profile) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	file, err := p.load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if file.Profiles == nil {
		file.Profiles = make(map[string]*Profile)
	}

	file.Profiles[name] = profile

	data, err := yaml.Marshal(file)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(p.path), constants.ConfigDirPerm); err != nil {
		return fmt.Errorf("failed to create credentials directory: %w", err)
	}

	if err := os.WriteFile(p.path, data, constants.ConfigFilePerm); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}

	return nil
}

func (p *FileProvider) load() (*CredentialsFile, error) {
	file := &CredentialsFile{}

	data, err := os.ReadFile(p.path)
	if err != nil {
		return file, fmt.Errorf("reading credentials file: %w", err)
	}

	if err := yaml.Unmarshal(data, file); err != nil {
		return file, fmt.Errorf("parsing credentials file %s: %w", p.path, err)
	}

	return file, nil
}
