// Package transport provides abstractions for moving a ladder program
// document between the local machine and a remote controller unit, over
// either a local filesystem copy or SFTP.
package transport

import (
	"context"
	"os"
	"time"
)

// Transport abstracts local/remote file transfer for program deployment.
type Transport interface {
	// Put copies a local file to remote path.
	Put(ctx context.Context, localPath, remotePath string) error

	// Get copies a remote file to local path.
	Get(ctx context.Context, remotePath, localPath string) error

	// Mkdir creates a directory (and parents) on remote.
	Mkdir(ctx context.Context, remotePath string) error

	// Stat returns file info for remote path.
	Stat(ctx context.Context, remotePath string) (os.FileInfo, error)

	// Remove deletes a file or empty directory.
	Remove(ctx context.Context, remotePath string) error

	// Close releases any held resources (e.g., SSH connection).
	Close() error

	// String returns a human-readable description of the transport.
	String() string
}

// Options configures transport behavior. The Local and SSH transports
// carry these values but do not read them: each operation is a single
// attempt with no per-command timeout and no retry.
type Options struct {
	Timeout       time.Duration // Command timeout (not applied by Local or SSH)
	RetryAttempts int           // Retry count (not applied by Local or SSH)
	RetryDelay    time.Duration // Delay between retries (not applied by Local or SSH)
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		Timeout:       5 * time.Minute,
		RetryAttempts: 3,
		RetryDelay:    time.Second,
	}
}

// SSHOptions configures SSH-specific transport behavior.
type SSHOptions struct {
	Options

	// Authentication
	User           string // SSH username
	KeyFile        string // Path to private key file
	KeyPassphrase  string // Passphrase for encrypted key (optional)
	Password       string // Password authentication (fallback)
	Agent          bool   // Use SSH agent for authentication

	// Host verification
	KnownHostsFile     string // Path to known_hosts file
	InsecureIgnoreHost bool   // Skip host key verification (dangerous)

	// Connection
	Port           int           // SSH port (default 22)
	ConnectTimeout time.Duration // Connection timeout
	KeepAlive      time.Duration // Keep-alive interval
}

// DefaultSSHOptions returns sensible default SSH options.
func DefaultSSHOptions() SSHOptions {
	return SSHOptions{
		Options:        DefaultOptions(),
		Port:           22,
		ConnectTimeout: 30 * time.Second,
		KeepAlive:      30 * time.Second,
		Agent:          true, // Try SSH agent by default
	}
}
