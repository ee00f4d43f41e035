//go:build !unix && !windows

package platform

import "utimes-go/internal/stamp"

func classifyErrno(error) stamp.ErrorKind { return 0 }
