package types

// RemoteAttr is an attribute record as reported by the remote endpoint.
// Field widths follow the SFTP ATTRS structure.
type RemoteAttr struct {
	Name        string `json:"name,omitempty"`
	Permissions uint32 `json:"permissions"`
	Size        uint64 `json:"size"`
	UID         uint32 `json:"uid"`
	GID         uint32 `json:"gid"`
	Atime       uint32 `json:"atime"`
	Mtime       uint32 `json:"mtime"`
}

// Attr is the local filesystem attribute record handed back to the kernel dispatcher.
// Link count, device and block fields are never populated.
type Attr struct {
	Mode  uint32 `json:"mode"`
	Size  uint64 `json:"size"`
	UID   uint32 `json:"uid"`
	GID   uint32 `json:"gid"`
	Mtime int64  `json:"mtime"`
	Atime int64  `json:"atime"`
}

// FillFunc receives one directory entry. Returning false stops the listing.
type FillFunc func(name string, attr *Attr) bool

// Audited operation names
const (
	OpGetattr = "getattr"
	OpReaddir = "readdir"
	OpOpen    = "open"
	OpCreate  = "create"
	OpMknod   = "mknod"
	OpRead    = "read"
	OpWrite   = "write"
	OpRelease = "release"
)

// AllOperations lists every callback served by the filesystem, in dispatch-table order.
var AllOperations = []string{
	OpGetattr, OpReaddir, OpOpen, OpRead, OpWrite, OpCreate, OpMknod, OpRelease,
}
