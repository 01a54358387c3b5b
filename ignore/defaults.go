package ignore

// DefaultIgnorePatterns contains patterns that are never part of the asset tree.
// Entries without glob characters match any path component.
var DefaultIgnorePatterns = []string{
	// Version control
	".git",
	".svn",
	".hg",
	".plastic",

	// IDE / Editor
	".idea",
	".vscode",
	".vs",
	"*.swp",
	"*.swo",
	"*~",

	// OS files
	".DS_Store",
	"Thumbs.db",
	"desktop.ini",

	// Unity sidecar files
	"*.meta",

	// Our own outputs and temporaries
	"*.csproj",
	"*.sln",
	"*.code-workspace",
	".vscodesync-*.tmp",
}

// RootIgnoreDirs are Unity generated or per-user folders. They only match as the first
// component of a project relative path, so "Assets/Build" stays visible.
var RootIgnoreDirs = []string{
	"Library",
	"Temp",
	"Logs",
	"obj",
	"UserSettings",
	"MemoryCaptures",
	"Build",
	"Builds",
}
