package config

import (
	"fmt"
	"strings"
)

const (
	BackendExec = "exec"
	BackendMock = "mock"
)

func NormalizeBackend(raw string) (string, error) {
	backend := strings.ToLower(strings.TrimSpace(raw))
	if backend == "" {
		backend = BackendExec
	}
	switch backend {
	case BackendExec, BackendMock:
		return backend, nil
	case "subprocess":
		return BackendExec, nil
	default:
		return "", fmt.Errorf(
			"invalid backend %q (expected %s|%s|subprocess)",
			raw,
			BackendExec,
			BackendMock,
		)
	}
}
