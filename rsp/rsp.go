// Package rsp parses compiler response files (csc.rsp) into defines, references
// and free-form compiler arguments.
package rsp

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lexandro/vscodesync/pathutil"
)

// Data holds the parsed content of one response file.
type Data struct {
	Defines            []string
	FullPathReferences []string
	Unsafe             bool
	OtherArguments     []string
	Errors             []string
}

// Parse reads the response file at path (relative paths resolve against projectDir)
// and parses its arguments. Problems are reported in Data.Errors, never as a Go error,
// so callers can still merge whatever was parsed.
func Parse(path string, projectDir string, systemReferenceDirs []string) Data {
	fullPath := pathutil.FullPath(path, projectDir)
	f, err := os.Open(fullPath)
	if err != nil {
		return Data{Errors: []string{fmt.Sprintf("response file %s not found: %v", path, err)}}
	}
	defer f.Close()

	var text strings.Builder
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		text.WriteString(scanner.Text())
		text.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return Data{Errors: []string{fmt.Sprintf("reading response file %s: %v", path, err)}}
	}

	return ParseText(text.String(), projectDir, systemReferenceDirs, fileExists)
}

// ParseText parses response file content. exists decides whether a candidate
// reference path is present.
func ParseText(text string, projectDir string, systemReferenceDirs []string, exists func(string) bool) Data {
	var data Data
	defines := make([]string, 0)
	refs := make([]string, 0)

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		for _, token := range pathutil.SplitCommandLine(line) {
			name, value, isOption := splitOption(token)
			if !isOption {
				data.OtherArguments = append(data.OtherArguments, token)
				continue
			}

			switch strings.ToLower(name) {
			case "d", "define":
				defines = append(defines, splitList(value)...)
			case "r", "reference":
				for _, ref := range splitList(value) {
					if _, after, ok := strings.Cut(ref, "="); ok {
						ref = after
					}
					resolved, ok := resolveReference(ref, projectDir, systemReferenceDirs, exists)
					if !ok {
						data.Errors = append(data.Errors, fmt.Sprintf("reference %q not found", ref))
						continue
					}
					refs = append(refs, resolved)
				}
			case "unsafe", "unsafe+":
				data.Unsafe = true
			case "unsafe-":
				data.Unsafe = false
			default:
				data.OtherArguments = append(data.OtherArguments, token)
			}
		}
	}

	data.Defines = pathutil.Distinct(defines)
	data.FullPathReferences = pathutil.Distinct(refs)
	return data
}

// splitOption splits "-name:value" or "/name:value" into its parts.
func splitOption(token string) (string, string, bool) {
	if len(token) < 2 || (token[0] != '-' && token[0] != '/') {
		return "", "", false
	}
	body := token[1:]
	if name, value, ok := strings.Cut(body, ":"); ok {
		return name, value, true
	}
	return body, "", true
}

func splitList(value string) []string {
	var result []string
	for _, part := range strings.FieldsFunc(value, func(r rune) bool { return r == ';' || r == ',' }) {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}

func resolveReference(ref string, projectDir string, systemReferenceDirs []string, exists func(string) bool) (string, bool) {
	ref = pathutil.NormalizePath(ref)
	if filepath.IsAbs(ref) {
		return ref, exists(ref)
	}
	candidate := filepath.Join(projectDir, ref)
	if exists(candidate) {
		return candidate, true
	}
	for _, dir := range systemReferenceDirs {
		candidate = filepath.Join(dir, ref)
		if exists(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
