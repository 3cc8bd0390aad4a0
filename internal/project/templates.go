// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// templates.go - Scaffold sources written into a fresh project.

package project

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/lithammer/dedent"
)

// Scaffold carries the values substituted into generated files.
type Scaffold struct {
	Name         string
	Description  string
	CMakeVersion string
	Std          int
}

var (
	cmakeListsTmpl = parse("CMakeLists.txt", `
		cmake_minimum_required(VERSION {{.CMakeVersion}})

		project({{.Name}} LANGUAGES C CXX)

		set(CMAKE_CXX_STANDARD {{.Std}})
		set(CMAKE_CXX_STANDARD_REQUIRED ON)
		set(CMAKE_CXX_EXTENSIONS OFF)

		string(TOLOWER "${CMAKE_BUILD_TYPE}" BUILD_TYPE_LOWER)
		set(TARGET_DIR "${CMAKE_SOURCE_DIR}/target/${BUILD_TYPE_LOWER}")

		set(CMAKE_RUNTIME_OUTPUT_DIRECTORY ${TARGET_DIR})
		set(CMAKE_LIBRARY_OUTPUT_DIRECTORY ${TARGET_DIR}/lib)
		set(CMAKE_ARCHIVE_OUTPUT_DIRECTORY ${TARGET_DIR}/lib)

		file(GLOB_RECURSE SRC_FILES CONFIGURE_DEPENDS
		    "${CMAKE_SOURCE_DIR}/src/*.cpp"
		    "${CMAKE_SOURCE_DIR}/src/*.c")

		add_executable(${PROJECT_NAME} ${SRC_FILES})
	`)

	mainCppTmpl = parse("main.cpp", `
		#include <iostream>

		int main() {
		    std::cout << "Hello, World!" << std::endl;
		    return 0;
		}
	`)

	readmeTmpl = parse("README.md", `
		# {{.Name}}

		{{.Description}}

		## Building

		    cmeow build            # debug profile
		    cmeow build --release  # optimized

		## Running

		    cmeow run
	`)
)

func parse(name, body string) *template.Template {
	body = strings.TrimPrefix(dedent.Dedent(body), "\n")
	return template.Must(template.New(name).Parse(body))
}

// render executes one of the scaffold templates.
func (s Scaffold) render(t *template.Template) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, s); err != nil {
		return nil, fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return buf.Bytes(), nil
}

// CMakeListsFile renders CMakeLists.txt.
func (s Scaffold) CMakeListsFile() ([]byte, error) { return s.render(cmakeListsTmpl) }

// MainFile renders src/main.cpp.
func (s Scaffold) MainFile() ([]byte, error) { return s.render(mainCppTmpl) }

// ReadmeFile renders the README.
func (s Scaffold) ReadmeFile() ([]byte, error) { return s.render(readmeTmpl) }

// Write lays the scaffold files into l. An existing README or main.cpp is
// left untouched so that re-initializing never clobbers user work.
// CMakeLists.txt is always regenerated.
func (s Scaffold) Write(l Layout, readme string) ([]string, error) {
	type output struct {
		path      string
		render    func() ([]byte, error)
		overwrite bool
	}
	outputs := []output{
		{l.CMakeLists(), s.CMakeListsFile, true},
		{l.MainSource(), s.MainFile, false},
		{l.Readme(readme), s.ReadmeFile, false},
	}

	var written []string
	for _, o := range outputs {
		if !o.overwrite {
			if _, err := os.Stat(o.path); err == nil {
				continue
			}
		}
		data, err := o.render()
		if err != nil {
			return written, err
		}
		if err := os.MkdirAll(filepath.Dir(o.path), 0o755); err != nil {
			return written, err
		}
		if err := os.WriteFile(o.path, data, 0o644); err != nil {
			return written, err
		}
		written = append(written, o.path)
	}
	return written, nil
}
