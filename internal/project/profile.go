// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package project

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Profile selects a build variant. It scopes the output directory.
type Profile string

const (
	Debug   Profile = "debug"
	Release Profile = "release"
)

var buildTypeCaser = cases.Title(language.English)

// ParseProfile accepts "debug" or "release" in any case.
func ParseProfile(s string) (Profile, error) {
	switch p := Profile(strings.ToLower(strings.TrimSpace(s))); p {
	case Debug, Release:
		return p, nil
	default:
		return "", fmt.Errorf("unknown build profile %q (expected debug or release)", s)
	}
}

// Opposite returns the other profile.
func (p Profile) Opposite() Profile {
	if p == Release {
		return Debug
	}
	return Release
}

// BuildType is the CMAKE_BUILD_TYPE spelling, e.g. "Debug".
func (p Profile) BuildType() string {
	return buildTypeCaser.String(string(p))
}

// Summary describes the optimization level for the finish line.
func (p Profile) Summary() string {
	if p == Release {
		return "[optimized]"
	}
	return "[unoptimized + debuginfo]"
}

func (p Profile) String() string {
	return string(p)
}
