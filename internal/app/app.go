package app

import (
	"context"
	"time"

	"github.com/tldr-it-stepankutaj/hardenkit/pkg/logger"
)

// Context carries app-wide dependencies and metadata.
type Context struct {
	Ctx       context.Context
	Config    Config
	Workspace WorkspaceHandle
	Services  *Services
	Logger    *logger.Logger
	Now       time.Time
}

// WorkspaceHandle is a minimal contract the workspace package provides.
type WorkspaceHandle interface {
	Path(parts ...string) string
	WritePackage(fileName string, data []byte) (string, error)
}
