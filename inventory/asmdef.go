package inventory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/lexandro/vscodesync/unity"
)

// definition is the content of one .asmdef file plus where it was found.
type definition struct {
	Name                  string          `json:"name"`
	References            []string        `json:"references"`
	IncludePlatforms      []string        `json:"includePlatforms"`
	AllowUnsafeCode       bool            `json:"allowUnsafeCode"`
	OverrideReferences    bool            `json:"overrideReferences"`
	PrecompiledReferences []string        `json:"precompiledReferences"`
	AutoReferenced        *bool           `json:"autoReferenced"`
	NoEngineReferences    bool            `json:"noEngineReferences"`
	VersionDefines        []versionDefine `json:"versionDefines"`

	assetPath string
	diskPath  string
	guid      string
}

type versionDefine struct {
	Name       string `json:"name"`
	Expression string `json:"expression"`
	Define     string `json:"define"`
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// readDefinition parses the module definition at diskPath. The GUID is taken from
// the sibling .meta file when present.
func readDefinition(diskPath string, assetPath string) (*definition, error) {
	data, err := os.ReadFile(diskPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", assetPath, err)
	}

	var def definition
	if err := json.Unmarshal(bytes.TrimPrefix(data, utf8BOM), &def); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", assetPath, err)
	}
	if strings.TrimSpace(def.Name) == "" {
		return nil, fmt.Errorf("%s has no name", assetPath)
	}

	def.assetPath = assetPath
	def.diskPath = diskPath
	if guid, err := unity.ReadMetaGUID(diskPath + ".meta"); err == nil {
		def.guid = strings.ToLower(guid)
	}
	return &def, nil
}

// dir returns the asset directory holding the definition.
func (d *definition) dir() string {
	return path.Dir(d.assetPath)
}

// editorOnly reports whether the module is only compiled for the editor.
func (d *definition) editorOnly() bool {
	return len(d.IncludePlatforms) == 1 && strings.EqualFold(d.IncludePlatforms[0], "Editor")
}

func (d *definition) autoReferenced() bool {
	return d.AutoReferenced == nil || *d.AutoReferenced
}

// allowsPrecompiled reports whether the precompiled assembly fileName is visible to the module.
func (d *definition) allowsPrecompiled(fileName string) bool {
	if !d.OverrideReferences {
		return true
	}
	for _, ref := range d.PrecompiledReferences {
		if strings.EqualFold(ref, fileName) {
			return true
		}
	}
	return false
}
