package errors

import (
	stderrors "errors"
	"io"
	"io/fs"
	"net"
	"syscall"

	"github.com/pkg/sftp"
)

// SFTP status codes (draft-ietf-secsh-filexfer, versions 3 through 6)
const (
	sshFxEOF               = 1
	sshFxNoSuchFile        = 2
	sshFxPermissionDenied  = 3
	sshFxFailure           = 4
	sshFxBadMessage        = 5
	sshFxNoConnection      = 6
	sshFxConnectionLost    = 7
	sshFxOpUnsupported     = 8
	sshFxInvalidHandle     = 9
	sshFxNoSuchPath        = 10
	sshFxFileAlreadyExists = 11
	sshFxWriteProtect      = 12
	sshFxNoSpace           = 14
	sshFxQuotaExceeded     = 15
	sshFxDirNotEmpty       = 18
	sshFxNotADirectory     = 19
	sshFxInvalidFilename   = 20
	sshFxFileIsADirectory  = 24
)

var statusErrno = map[uint32]syscall.Errno{
	sshFxEOF:               syscall.EIO,
	sshFxNoSuchFile:        syscall.ENOENT,
	sshFxPermissionDenied:  syscall.EACCES,
	sshFxFailure:           syscall.EIO,
	sshFxBadMessage:        syscall.EBADMSG,
	sshFxNoConnection:      syscall.ENOTCONN,
	sshFxConnectionLost:    syscall.ECONNABORTED,
	sshFxOpUnsupported:     syscall.ENOTSUP,
	sshFxInvalidHandle:     syscall.EBADF,
	sshFxNoSuchPath:        syscall.ENOENT,
	sshFxFileAlreadyExists: syscall.EEXIST,
	sshFxWriteProtect:      syscall.EROFS,
	sshFxNoSpace:           syscall.ENOSPC,
	sshFxQuotaExceeded:     syscall.EDQUOT,
	sshFxDirNotEmpty:       syscall.ENOTEMPTY,
	sshFxNotADirectory:     syscall.ENOTDIR,
	sshFxInvalidFilename:   syscall.EINVAL,
	sshFxFileIsADirectory:  syscall.EISDIR,
}

var codeErrno = map[ErrorCode]syscall.Errno{
	ErrCodeBadHandle:        syscall.EBADF,
	ErrCodeFileNotFound:     syscall.ENOENT,
	ErrCodePermissionDenied: syscall.EACCES,
	ErrCodePathInvalid:      syscall.EINVAL,
	ErrCodeOpUnsupported:    syscall.ENOTSUP,
	ErrCodeConnectionLost:   syscall.ECONNABORTED,
	ErrCodeSessionClosed:    syscall.ENOTCONN,
}

// ToErrno maps an error returned by the remote session to the POSIX error code
// surfaced to the kernel. A nil error maps to 0. Unknown failures map to EIO.
func ToErrno(err error) syscall.Errno {
	if err == nil {
		return 0
	}

	var errno syscall.Errno
	if stderrors.As(err, &errno) {
		return errno
	}

	var status *sftp.StatusError
	if stderrors.As(err, &status) {
		if mapped, ok := statusErrno[status.Code]; ok {
			return mapped
		}
		return syscall.EIO
	}

	switch {
	case stderrors.Is(err, fs.ErrNotExist):
		return syscall.ENOENT
	case stderrors.Is(err, fs.ErrPermission):
		return syscall.EACCES
	case stderrors.Is(err, fs.ErrExist):
		return syscall.EEXIST
	case stderrors.Is(err, fs.ErrInvalid):
		return syscall.EINVAL
	case stderrors.Is(err, fs.ErrClosed):
		return syscall.EBADF
	case stderrors.Is(err, net.ErrClosed), stderrors.Is(err, io.ErrClosedPipe):
		return syscall.ENOTCONN
	}

	var sfErr *SFTPFSError
	if stderrors.As(err, &sfErr) {
		if mapped, ok := codeErrno[sfErr.Code]; ok {
			return mapped
		}
	}

	return syscall.EIO
}
