// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package version carries the build identity reported by -version and the
// health endpoint.
package version

import "fmt"

// Info identifies a build. The fields are injected via ldflags.
type Info struct {
	Version   string
	GitCommit string
	BuildTime string
}

// String formats the build identity for the command line.
func (i Info) String() string {
	return fmt.Sprintf("restro %s (commit: %s, built: %s)", orUnknown(i.Version), orUnknown(i.GitCommit), orUnknown(i.BuildTime))
}

// Short returns the version alone, "dev" for local builds.
func (i Info) Short() string {
	if i.Version == "" {
		return "dev"
	}
	return i.Version
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
