package projectgen

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// CSharpLanguageGUID is the solution project type of C# projects.
const CSharpLanguageGUID = "FAE04EC0-301F-11D3-BF4B-00C04F79EFBC"

// GUIDGenerator derives the identifiers written into solution documents.
type GUIDGenerator interface {
	ProjectGUID(projectName string, moduleName string) string
	SolutionGUID(projectName string, sourceExtension string) string
}

// HashGUIDs derives project identifiers from an MD5 hash of the project and module
// names, so the same module keeps its identifier across passes.
type HashGUIDs struct{}

func (HashGUIDs) ProjectGUID(projectName string, moduleName string) string {
	return hashGUID(projectName + moduleName + "salt")
}

func (HashGUIDs) SolutionGUID(projectName string, sourceExtension string) string {
	return CSharpLanguageGUID
}

// hashGUID renders the MD5 of input as an uppercase 8-4-4-4-12 identifier.
func hashGUID(input string) string {
	sum := md5.Sum([]byte(input))
	h := strings.ToUpper(hex.EncodeToString(sum[:]))
	return h[0:8] + "-" + h[8:12] + "-" + h[12:16] + "-" + h[16:20] + "-" + h[20:32]
}
