package oauth

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/pulseboard/pulseboard/internal/domain/connection"
)

// Credentials are the registered application's client id and secret for one platform.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// CredentialSource resolves credentials at request time so a rotated or
// removed variable takes effect without a restart.
type CredentialSource interface {
	Credentials(platform connection.Platform) Credentials
}

// ClientIDEnv returns the variable name holding the platform's client id.
func ClientIDEnv(platform connection.Platform) string {
	return platform.EnvPrefix() + "_CLIENT_ID"
}

// ClientSecretEnv returns the variable name holding the platform's client secret.
func ClientSecretEnv(platform connection.Platform) string {
	return platform.EnvPrefix() + "_CLIENT_SECRET"
}

// EnvCredentialSource reads {PLATFORM}_CLIENT_ID / {PLATFORM}_CLIENT_SECRET from the
// environment, falling back to oauth.<platform>.client_id in the config file.
type EnvCredentialSource struct {
	env  *viper.Viper
	file *viper.Viper
}

// NewEnvCredentialSource creates a source over the process environment and the given config.
// file may be nil.
func NewEnvCredentialSource(file *viper.Viper) *EnvCredentialSource {
	env := viper.New()
	env.AutomaticEnv()
	return &EnvCredentialSource{env: env, file: file}
}

func (s *EnvCredentialSource) Credentials(platform connection.Platform) Credentials {
	return Credentials{
		ClientID:     s.lookup(ClientIDEnv(platform), "oauth."+platform.String()+".client_id"),
		ClientSecret: s.lookup(ClientSecretEnv(platform), "oauth."+platform.String()+".client_secret"),
	}
}

func (s *EnvCredentialSource) lookup(envName, fileKey string) string {
	if v := strings.TrimSpace(s.env.GetString(envName)); v != "" {
		return v
	}
	if s.file != nil {
		return strings.TrimSpace(s.file.GetString(fileKey))
	}
	return ""
}

// StaticCredentialSource serves fixed credentials. Useful for tests and one-off tools.
type StaticCredentialSource map[connection.Platform]Credentials

func (s StaticCredentialSource) Credentials(platform connection.Platform) Credentials {
	return s[platform]
}
