/*
Package sftp implements the remote session used by sftpfs: an SSH connection carrying
the SFTP subsystem, exposed through the types.Session primitives.

# Lifecycle

	session, err := sftp.Dial(ctx, &sftp.Config{
		Host: "files.example.com",
		Port: 22,
		User: "alice",
	}, password, logger)
	if err != nil {
		// CONNECTION_FAILED, AUTHENTICATION_FAILED, HOST_KEY_MISMATCH or
		// SESSION_INIT_FAILED; none of them are retried
		return err
	}
	defer session.Close()

One session is created per process and never re-established. When the transport
drops, every later primitive fails and the failure is surfaced to the kernel as an
errno by the filesystem layer.

# Concurrency

The session owns a single mutex. Stat, OpenDir, OpenFile, Close and every Seek, Read,
Write and Close on the files it returns take that mutex, so requests from concurrent
FUSE workers never interleave on the wire.

# Host keys

When Config.KnownHosts names a file, server keys are checked with
golang.org/x/crypto/ssh/knownhosts. Otherwise any key is accepted and a warning is
logged.
*/
package sftp
