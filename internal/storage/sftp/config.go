package sftp

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// Config represents SFTP session configuration
type Config struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	User           string        `yaml:"user"`
	KnownHosts     string        `yaml:"known_hosts"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// NewDefaultConfig returns a configuration targeting port 22
func NewDefaultConfig() *Config {
	return &Config{
		Port:           22,
		ConnectTimeout: 30 * time.Second,
	}
}

// Address returns host:port
func (c *Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Validate checks the fields needed to dial
func (c *Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("host cannot be empty")
	}
	if c.User == "" {
		return fmt.Errorf("user cannot be empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	return nil
}

// HostKeyCallback verifies server keys against the configured known_hosts file.
// Without one every key is accepted and verified reports false.
func (c *Config) HostKeyCallback() (callback ssh.HostKeyCallback, verified bool, err error) {
	if c.KnownHosts == "" {
		return ssh.InsecureIgnoreHostKey(), false, nil
	}
	if _, err := os.Stat(c.KnownHosts); err != nil {
		return nil, false, fmt.Errorf("known_hosts file: %w", err)
	}
	callback, err = knownhosts.New(c.KnownHosts)
	if err != nil {
		return nil, false, fmt.Errorf("failed to parse known_hosts: %w", err)
	}
	return callback, true, nil
}

func (c *Config) clientConfig(password string) (*ssh.ClientConfig, bool, error) {
	callback, verified, err := c.HostKeyCallback()
	if err != nil {
		return nil, false, err
	}

	return &ssh.ClientConfig{
		User: c.User,
		Auth: []ssh.AuthMethod{
			ssh.Password(password),
			ssh.KeyboardInteractive(func(_, _ string, questions []string, _ []bool) ([]string, error) {
				answers := make([]string, len(questions))
				for i := range answers {
					answers[i] = password
				}
				return answers, nil
			}),
		},
		HostKeyCallback: callback,
		Timeout:         c.ConnectTimeout,
	}, verified, nil
}
