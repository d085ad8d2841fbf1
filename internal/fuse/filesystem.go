//go:build !cgofuse
// +build !cgofuse

package fuse

import (
	"context"
	"syscall"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/sftpfs/sftpfs/internal/filesystem"
	"github.com/sftpfs/sftpfs/pkg/types"
	"github.com/sftpfs/sftpfs/pkg/utils"
)

// FileSystem binds the operation adapter to the go-fuse node API. Every node resolves
// its remote path from its position in the inode tree, so no per-node state is kept
// beyond the shared adapter.
type FileSystem struct {
	ops    filesystem.FileSystem
	logger *utils.StructuredLogger
}

// NewFileSystem creates the go-fuse binding for ops
func NewFileSystem(ops filesystem.FileSystem, logger *utils.StructuredLogger) *FileSystem {
	if logger == nil {
		logger = utils.NopLogger()
	}
	return &FileSystem{
		ops:    ops,
		logger: logger.WithComponent("fuse"),
	}
}

// Root returns the root inode
func (f *FileSystem) Root() fs.InodeEmbedder {
	return &Node{fsys: f}
}

// Node is a file or directory in the mounted tree
type Node struct {
	fs.Inode
	fsys *FileSystem
}

var (
	_ fs.NodeLookuper  = (*Node)(nil)
	_ fs.NodeGetattrer = (*Node)(nil)
	_ fs.NodeReaddirer = (*Node)(nil)
	_ fs.NodeOpener    = (*Node)(nil)
	_ fs.NodeCreater   = (*Node)(nil)
	_ fs.NodeMknoder   = (*Node)(nil)
)

func (n *Node) remotePath() string {
	return utils.RemotePath(n.Path(nil))
}

func (n *Node) childPath(name string) string {
	return utils.JoinRemotePath(n.Path(nil), name)
}

// Lookup resolves name inside the directory through a getattr on the remote path
func (n *Node) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	attr, errno := n.fsys.ops.Getattr(n.childPath(name))
	if errno != 0 {
		return nil, errno
	}
	return n.newChild(ctx, name, attr, out), 0
}

// Getattr stats the node's remote path
func (n *Node) Getattr(ctx context.Context, fh fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	attr, errno := n.fsys.ops.Getattr(n.remotePath())
	if errno != 0 {
		return errno
	}
	FillAttr(&out.Attr, attr)
	out.SetTimeout(0)
	return 0
}

// Readdir lists the remote directory in server order
func (n *Node) Readdir(ctx context.Context) (fs.DirStream, syscall.Errno) {
	var entries []fuse.DirEntry
	errno := n.fsys.ops.Readdir(n.remotePath(), func(name string, attr *types.Attr) bool {
		entries = append(entries, fuse.DirEntry{
			Name: name,
			Mode: attr.Mode & syscall.S_IFMT,
		})
		return true
	})
	if errno != 0 {
		return nil, errno
	}
	return fs.NewListDirStream(entries), 0
}

// Open opens the remote file read-only
func (n *Node) Open(ctx context.Context, flags uint32) (fs.FileHandle, uint32, syscall.Errno) {
	path := n.remotePath()
	token, errno := n.fsys.ops.Open(path)
	if errno != 0 {
		return nil, 0, errno
	}
	return &FileHandle{fsys: n.fsys, path: path, token: token}, 0, 0
}

// Create creates or truncates name and returns a handle to it
func (n *Node) Create(ctx context.Context, name string, flags uint32, mode uint32, out *fuse.EntryOut) (*fs.Inode, fs.FileHandle, uint32, syscall.Errno) {
	path := n.childPath(name)
	token, errno := n.fsys.ops.Create(path, mode)
	if errno != 0 {
		return nil, nil, 0, errno
	}

	attr := n.attrAfterCreate(path, syscall.S_IFREG|0o644)
	child := n.newChild(ctx, name, attr, out)
	return child, &FileHandle{fsys: n.fsys, path: path, token: token}, 0, 0
}

// Mknod creates name with the requested mode
func (n *Node) Mknod(ctx context.Context, name string, mode uint32, dev uint32, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	path := n.childPath(name)
	if errno := n.fsys.ops.Mknod(path, mode); errno != 0 {
		return nil, errno
	}

	attr := n.attrAfterCreate(path, mode)
	return n.newChild(ctx, name, attr, out), 0
}

// attrAfterCreate stats a freshly created entry. When the stat fails the entry is
// described with fallback mode so the kernel still gets a usable inode.
func (n *Node) attrAfterCreate(path string, fallback uint32) types.Attr {
	attr, errno := n.fsys.ops.Getattr(path)
	if errno != 0 {
		n.fsys.logger.Debug("Stat after create failed", map[string]interface{}{
			"path":  path,
			"errno": errno.Error(),
		})
		return types.Attr{Mode: fallback}
	}
	return attr
}

func (n *Node) newChild(ctx context.Context, name string, attr types.Attr, out *fuse.EntryOut) *fs.Inode {
	FillAttr(&out.Attr, attr)
	out.SetEntryTimeout(0)
	out.SetAttrTimeout(0)

	child := &Node{fsys: n.fsys}
	return n.NewInode(ctx, child, fs.StableAttr{Mode: attr.Mode & syscall.S_IFMT})
}

// FileHandle carries the handle token of one open remote file
type FileHandle struct {
	fsys  *FileSystem
	path  string
	token uint64
}

var (
	_ fs.FileReader   = (*FileHandle)(nil)
	_ fs.FileWriter   = (*FileHandle)(nil)
	_ fs.FileReleaser = (*FileHandle)(nil)
)

// Read reads len(dest) bytes at off
func (h *FileHandle) Read(ctx context.Context, dest []byte, off int64) (fuse.ReadResult, syscall.Errno) {
	n, errno := h.fsys.ops.Read(h.path, dest, off, h.token)
	if errno != 0 {
		return nil, errno
	}
	return fuse.ReadResultData(dest[:n]), 0
}

// Write writes data at off
func (h *FileHandle) Write(ctx context.Context, data []byte, off int64) (uint32, syscall.Errno) {
	n, errno := h.fsys.ops.Write(h.path, data, off, h.token)
	if errno != 0 {
		return 0, errno
	}
	return uint32(n), 0
}

// Release closes the remote file
func (h *FileHandle) Release(ctx context.Context) syscall.Errno {
	return h.fsys.ops.Release(h.path, h.token)
}
