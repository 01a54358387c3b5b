package projectgen

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/lexandro/vscodesync/pathutil"
	"github.com/lexandro/vscodesync/unity"
)

// ErrUnknownCompatibilityLevel is returned when the active API compatibility level has
// no target framework. A pass cannot produce project documents without one.
var ErrUnknownCompatibilityLevel = errors.New("unknown API compatibility level")

const (
	frameworkNet48         = "net48"
	frameworkNetStandard21 = "netstandard2.1"
)

// TargetFramework maps an API compatibility level to the framework moniker written
// into project documents.
func TargetFramework(apiCompatibilityLevel string) (string, error) {
	switch apiCompatibilityLevel {
	case unity.Net20, unity.Net20Subset, unity.NetWeb, unity.NetMicro, unity.NetUnity48, unity.Net46:
		return frameworkNet48, nil
	case unity.NetStandard, unity.NetStandard20:
		return frameworkNetStandard21, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCompatibilityLevel, apiCompatibilityLevel)
	}
}

// facadeRewriteBefore is the first editor version shipping netstandard facades that
// resolve without rewriting.
var facadeRewriteBefore = [2]int{2023, 1}

// needsFacadeRewrite reports whether reference paths have to be moved to the
// netstandard shim folders. Unknown editor versions are treated as current.
func needsFacadeRewrite(framework string, unityVersion string) bool {
	if !strings.Contains(framework, "netstandard") {
		return false
	}
	major, minor, ok := unity.ParseEditorVersion(unityVersion)
	if !ok {
		return false
	}
	if major != facadeRewriteBefore[0] {
		return major < facadeRewriteBefore[0]
	}
	return minor < facadeRewriteBefore[1]
}

// netstandardShimFacades are the facade names that live in the netstandard shim folder.
var netstandardShimFacades = map[string]bool{
	"Microsoft.Win32.Primitives":                        true,
	"System.AppContext":                                 true,
	"System.Collections.Concurrent":                     true,
	"System.Collections.NonGeneric":                     true,
	"System.Collections.Specialized":                    true,
	"System.ComponentModel":                             true,
	"System.ComponentModel.EventBasedAsync":             true,
	"System.Diagnostics.Contracts":                      true,
	"System.Diagnostics.Debug":                          true,
	"System.Diagnostics.Tools":                          true,
	"System.Diagnostics.Tracing":                        true,
	"System.Globalization":                              true,
	"System.Globalization.Calendars":                    true,
	"System.IO":                                         true,
	"System.IO.Compression":                             true,
	"System.IO.Compression.ZipFile":                     true,
	"System.IO.FileSystem":                              true,
	"System.IO.FileSystem.Primitives":                   true,
	"System.Linq":                                       true,
	"System.Linq.Expressions":                           true,
	"System.Net.Http":                                   true,
	"System.Net.Primitives":                             true,
	"System.Net.Sockets":                                true,
	"System.ObjectModel":                                true,
	"System.Reflection":                                 true,
	"System.Reflection.Extensions":                      true,
	"System.Reflection.Primitives":                      true,
	"System.Resources.ResourceManager":                  true,
	"System.Runtime":                                    true,
	"System.Runtime.Extensions":                         true,
	"System.Runtime.Handles":                            true,
	"System.Runtime.InteropServices":                    true,
	"System.Runtime.InteropServices.RuntimeInformation": true,
	"System.Runtime.Numerics":                           true,
	"System.Security.Cryptography.Algorithms":           true,
	"System.Security.Cryptography.Encoding":             true,
	"System.Security.Cryptography.Primitives":           true,
	"System.Security.Cryptography.X509Certificates":     true,
	"System.Text.Encoding":                              true,
	"System.Text.Encoding.Extensions":                   true,
	"System.Text.RegularExpressions":                    true,
	"System.Threading":                                  true,
	"System.Threading.Tasks":                            true,
	"System.Threading.Tasks.Parallel":                   true,
	"System.Threading.Thread":                           true,
	"System.Threading.ThreadPool":                       true,
	"System.Threading.Timer":                            true,
	"System.ValueTuple":                                 true,
	"System.Xml.ReaderWriter":                           true,
	"System.Xml.XDocument":                              true,
	"System.Xml.XmlDocument":                            true,
	"System.Xml.XmlSerializer":                          true,
	"System.Xml.XPath":                                  true,
	"System.Xml.XPath.XDocument":                        true,
}

var facadesDir = []string{"UnityReferenceAssemblies", "unity-4.8-api", "Facades"}

// rewriteFacade moves a reference from the editor's 4.8 facade folder to the matching
// netstandard shim folder. Paths outside the facade folder are returned unchanged.
// The path is expected in OS separator form.
func rewriteFacade(referencePath string) string {
	sep := string(filepath.Separator)
	from := strings.Join(facadesDir, sep) + sep

	var to []string
	name := pathutil.FileNameWithoutExtension(referencePath)
	switch {
	case netstandardShimFacades[name]:
		to = []string{"NetStandard", "compat", "2.1.0", "shims", "netstandard"}
	case name == "System.Runtime.InteropServices.WindowsRuntime":
		to = []string{"NetStandard", "Extensions", "2.0.0"}
	case name == "netstandard":
		to = []string{"NetStandard", "2.1.0"}
	default:
		to = []string{"NetStandard", "compat", "2.1.0", "shims"}
	}
	return strings.ReplaceAll(referencePath, from, strings.Join(to, sep)+sep)
}
