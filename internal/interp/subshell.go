package interp

import (
	"runtime"
	"strings"

	"github.com/google/shlex"
)

// subshellNames are programs that open their own interactive interpreter
// inside the current child. Typing one pushes a tracker frame so the stack
// mirrors the user's logical depth.
var subshellNames = map[string]bool{
	"bash":       true,
	"zsh":        true,
	"sh":         true,
	"dash":       true,
	"fish":       true,
	"python":     true,
	"python3":    true,
	"node":       true,
	"sqlite3":    true,
	"irb":        true,
	"gdb":        true,
	"lldb":       true,
	"ftp":        true,
	"sftp":       true,
	"telnet":     true,
	"cmd":        true,
	"powershell": true,
	"pwsh":       true,
	"wsl":        true,
	"diskpart":   true,
}

// commandName extracts the lowercased first token of a line. On POSIX any
// directory prefix up to the last slash is stripped, so /usr/bin/python3
// tracks the same as python3.
func commandName(line string) string {
	parts, err := shlex.Split(line)
	if err != nil || len(parts) == 0 {
		return ""
	}
	name := strings.ToLower(parts[0])
	if runtime.GOOS != "windows" {
		if i := strings.LastIndex(name, "/"); i >= 0 {
			name = name[i+1:]
		}
	}
	return name
}

// isSubshell reports whether name (or its .exe variant) opens an
// interactive interpreter.
func isSubshell(name string) bool {
	if name == "" {
		return false
	}
	if subshellNames[name] {
		return true
	}
	return subshellNames[strings.TrimSuffix(name, ".exe")]
}
