/*
Package fuse binds the sftpfs operation adapter to a FUSE dispatcher.

Two bindings exist, selected by build constraint:

	┌─────────────────────────────────────────────┐
	│              Kernel VFS Layer               │
	└─────────────────────────────────────────────┘
	                      │
	┌─────────────────────────────────────────────┐
	│   go-fuse node tree   │   cgofuse path API  │  ← This Package
	│      (default)        │   (-tags cgofuse)   │
	└─────────────────────────────────────────────┘
	                      │
	┌─────────────────────────────────────────────┐
	│   internal/filesystem.Operations (adapter)  │
	└─────────────────────────────────────────────┘
	                      │
	┌─────────────────────────────────────────────┐
	│         SFTP session (one connection)       │
	└─────────────────────────────────────────────┘

Default Build (go-fuse):
  - Implementation: github.com/hanwen/go-fuse/v2
  - Each Node derives its remote path from its place in the inode tree.
  - Lookup and the attributes returned by create and mknod go through the adapter's
    getattr, so they are audited as getattr.
  - Attribute, entry and negative timeouts are zero; reads are asynchronous.

CGO Build (cgofuse):
  - Implementation: github.com/winfsp/cgofuse
  - Callbacks map one to one onto the adapter; the file handle field carries the
    adapter's handle token.
  - Mount options: -o fsname=sftpfs -o writeback_cache -o async_read [-d]

Build commands:

	go build ./cmd/sftpfs
	go build -tags cgofuse ./cmd/sftpfs

# Usage

	mountCfg := fuse.MountConfigFrom(cfg.Mount)
	manager := fuse.CreatePlatformMountManager(ops, mountCfg, logger)

	if err := manager.Mount(ctx); err != nil {
		return err
	}
	defer manager.Unmount()

	manager.Wait()

Errors from the adapter are syscall.Errno values. The go-fuse binding returns them as
they are; the cgofuse binding negates them.
*/
package fuse
