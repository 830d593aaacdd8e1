package instance

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"

	"github.com/redis/go-redis/v9"
)

// Error classes for failures surfaced by Redis or the network layer.
// Server-side errors are never retried and the server's message is kept
// verbatim in the wrapped error.
var (
	ErrKeyNotFound      = errors.New("key does not exist")
	ErrWrongKeyType     = errors.New("key holds a different type of value")
	ErrGroupExists      = errors.New("consumer group already exists")
	ErrGroupNotFound    = errors.New("consumer group does not exist")
	ErrPermissionDenied = errors.New("permission denied")
	ErrConnectionFailed = errors.New("connection failed")
	ErrNotCluster       = errors.New("database is not a cluster connection")
)

// TranslateError maps a go-redis error onto one of the error classes above,
// preserving the original message. Unrecognised errors pass through
// unchanged.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, redis.Nil) {
		return ErrKeyNotFound
	}

	msg := err.Error()
	switch {
	case strings.HasPrefix(msg, "WRONGTYPE"):
		return fmt.Errorf("%w: %v", ErrWrongKeyType, err)
	// Missing-key replies from commands without a nil fast path, such as
	// XINFO and XGROUP DESTROY/DELCONSUMER.
	case strings.HasPrefix(msg, "ERR no such key"),
		strings.HasPrefix(msg, "ERR The XGROUP subcommand requires the key to exist"):
		return fmt.Errorf("%w: %v", ErrKeyNotFound, err)
	case strings.HasPrefix(msg, "BUSYGROUP"):
		return fmt.Errorf("%w: %v", ErrGroupExists, err)
	case strings.HasPrefix(msg, "NOGROUP"):
		return fmt.Errorf("%w: %v", ErrGroupNotFound, err)
	case strings.HasPrefix(msg, "NOPERM"), strings.HasPrefix(msg, "NOAUTH"),
		strings.HasPrefix(msg, "WRONGPASS"):
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	}

	if isConnectionError(err) {
		return fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	return err
}

func isConnectionError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var opErr *net.OpError
	return errors.As(err, &opErr)
}
