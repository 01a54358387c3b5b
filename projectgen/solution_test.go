package projectgen

import (
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/lexandro/vscodesync/fileio"
	"github.com/lexandro/vscodesync/inventory"
	"github.com/lexandro/vscodesync/unity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var guidPattern = regexp.MustCompile(`^[0-9A-F]{8}-[0-9A-F]{4}-[0-9A-F]{4}-[0-9A-F]{4}-[0-9A-F]{12}$`)

func Test_HashGUIDs_ProjectGUID(t *testing.T) {
	guids := HashGUIDs{}

	core := guids.ProjectGUID("Game", "Core")

	assert.Equal(t, "C8B88D21-E741-7E44-31F4-DFD4A0A8A924", core)
	assert.Regexp(t, guidPattern, core)
	assert.Equal(t, core, guids.ProjectGUID("Game", "Core"))
	assert.NotEqual(t, core, guids.ProjectGUID("Game", "Utils"))
	assert.Equal(t, CSharpLanguageGUID, guids.SolutionGUID("Game", "cs"))
}

func Test_Generator_SolutionText(t *testing.T) {
	static := coreAndUtils()
	g := newTestGenerator(static, fileio.NewMemory(), Options{})
	coreGUID := HashGUIDs{}.ProjectGUID("Game", "Core")

	text := g.SolutionText(static.Modules)

	lines := strings.Split(text, "\r\n")
	require.Greater(t, len(lines), 4)
	assert.Equal(t, "", lines[0])
	assert.Equal(t, "Microsoft Visual Studio Solution File, Format Version 11.00", lines[1])
	assert.Equal(t, "# Visual Studio 2020", lines[2])
	assert.Equal(t, `Project("{FAE04EC0-301F-11D3-BF4B-00C04F79EFBC}") = "Core", "Core.csproj", "{`+coreGUID+`}"`, lines[3])
	assert.Equal(t, "EndProject", lines[4])
	assert.Contains(t, text, "\t\t{"+coreGUID+"}.Debug|Any CPU.ActiveCfg = Debug|Any CPU\r\n")
	assert.Contains(t, text, "\t\t{"+coreGUID+"}.Debug|Any CPU.Build.0 = Debug|Any CPU\r\n")
	assert.Contains(t, text, "\tGlobalSection(SolutionProperties) = preSolution\r\n\t\tHideSolutionNode = FALSE\r\n")
	assert.True(t, strings.HasSuffix(text, "EndGlobal\r\n"))
	assert.Less(t, strings.Index(text, `"Core"`), strings.Index(text, `"Utils"`))
	assert.NotContains(t, text, "\n\n")
}

func Test_Generator_SolutionTextSkipsNonCSharpModules(t *testing.T) {
	g := newTestGenerator(coreAndUtils(), fileio.NewMemory(), Options{})
	modules := []*inventory.Module{
		{Name: "Shaders", SourceFiles: []string{"Assets/Shaders/Water.shader", "Assets/Shaders/A.cs"}},
		{Name: "Empty"},
		{Name: "Core", SourceFiles: []string{"Assets/Core/Foo.cs"}},
	}

	text := g.SolutionText(modules)

	assert.Contains(t, text, `"Core.csproj"`)
	assert.NotContains(t, text, "Shaders")
	assert.NotContains(t, text, "Empty")
}

func Test_TargetFramework(t *testing.T) {
	cases := map[string]string{
		unity.Net20:         "net48",
		unity.Net20Subset:   "net48",
		unity.NetWeb:        "net48",
		unity.NetMicro:      "net48",
		unity.NetUnity48:    "net48",
		unity.Net46:         "net48",
		unity.NetStandard:   "netstandard2.1",
		unity.NetStandard20: "netstandard2.1",
	}
	for level, expected := range cases {
		framework, err := TargetFramework(level)
		require.NoError(t, err, level)
		assert.Equal(t, expected, framework, level)
	}

	_, err := TargetFramework("")
	assert.ErrorIs(t, err, ErrUnknownCompatibilityLevel)
}

func Test_NeedsFacadeRewrite(t *testing.T) {
	assert.True(t, needsFacadeRewrite("netstandard2.1", "2021.3.5f1"))
	assert.True(t, needsFacadeRewrite("netstandard2.1", "2022.3.0f1"))
	assert.False(t, needsFacadeRewrite("netstandard2.1", "2023.1.0a1"))
	assert.False(t, needsFacadeRewrite("netstandard2.1", "6000.0.1f1"))
	assert.False(t, needsFacadeRewrite("net48", "2021.3.5f1"))
	assert.False(t, needsFacadeRewrite("netstandard2.1", ""))
}

func Test_RewriteFacade(t *testing.T) {
	base := filepath.Join("/opt", "Unity", "Editor", "Data", "UnityReferenceAssemblies", "unity-4.8-api", "Facades")
	data := filepath.Join("/opt", "Unity", "Editor", "Data")

	assert.Equal(t,
		filepath.Join(data, "NetStandard", "compat", "2.1.0", "shims", "netstandard", "System.Runtime.dll"),
		rewriteFacade(filepath.Join(base, "System.Runtime.dll")))
	assert.Equal(t,
		filepath.Join(data, "NetStandard", "2.1.0", "netstandard.dll"),
		rewriteFacade(filepath.Join(base, "netstandard.dll")))
	assert.Equal(t,
		filepath.Join(data, "NetStandard", "Extensions", "2.0.0", "System.Runtime.InteropServices.WindowsRuntime.dll"),
		rewriteFacade(filepath.Join(base, "System.Runtime.InteropServices.WindowsRuntime.dll")))
	assert.Equal(t,
		filepath.Join(data, "NetStandard", "compat", "2.1.0", "shims", "System.Drawing.dll"),
		rewriteFacade(filepath.Join(base, "System.Drawing.dll")))

	other := filepath.Join("/work", "Game", "Assets", "Plugins", "System.Runtime.dll")
	assert.Equal(t, other, rewriteFacade(other))
}

func Test_Generator_FacadeRewriteInDocument(t *testing.T) {
	facade := filepath.Join("/opt", "Unity", "Editor", "Data", "UnityReferenceAssemblies", "unity-4.8-api", "Facades", "System.Runtime.dll")
	module := &inventory.Module{
		Name:               "Core",
		SourceFiles:        []string{"Assets/Core/Foo.cs"},
		CompiledReferences: []string{facade},
	}
	g := newTestGenerator(&inventory.Static{Modules: []*inventory.Module{module}}, fileio.NewMemory(), Options{
		ApiCompatibilityLevel: unity.NetStandard,
		UnityVersion:          "2021.3.5f1",
	})

	content, err := g.ProjectText(module, nil, nil)
	require.NoError(t, err)
	project := parseDocument(t, content)

	assert.Equal(t, "netstandard2.1", project.FindElement("./PropertyGroup/TargetFramework").Text())
	ref := project.FindElement("./ItemGroup/Reference")
	require.NotNil(t, ref)
	assert.Equal(t, "System.Runtime", ref.SelectAttrValue("Include", ""))
	assert.Contains(t, ref.FindElement("HintPath").Text(), filepath.Join("shims", "netstandard", "System.Runtime.dll"))
}

func Test_CSharpBool(t *testing.T) {
	assert.Equal(t, "True", csharpBool(true))
	assert.Equal(t, "False", csharpBool(false))
}
