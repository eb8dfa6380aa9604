package lang

import (
	"context"
	"encoding/xml"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/selwyntheo/fund-services-architect/schema"
)

// C# source heuristics thresholds, matching the Java ones.
const (
	csLargeClassLines = 500
	csGodClassLines   = 1000
	csGodClassMethods = 50
)

// DotNetProfiler analyzes .NET projects: project files, target
// frameworks, dependency injection usage, architecture conventions,
// tests and a sampled security scan.
type DotNetProfiler struct{}

// NewDotNetProfiler creates a .NET profiler.
func NewDotNetProfiler() *DotNetProfiler {
	return &DotNetProfiler{}
}

// Language implements the Profiler interface.
func (p *DotNetProfiler) Language() schema.Language {
	return schema.LangCSharp
}

var (
	csNamespaceRe    = regexp.MustCompile(`namespace\s+([\w.]+)`)
	csUsingRe        = regexp.MustCompile(`using\s+([\w.]+);`)
	csClassRe        = regexp.MustCompile(`\b(?:public|internal|private)?\s*(?:abstract\s+|sealed\s+|static\s+|partial\s+)*class\s+\w+`)
	csPublicMethodRe = regexp.MustCompile(`\bpublic\s+(?:async\s+)?\w+.*\(`)
	csTestAttrRe     = regexp.MustCompile(`\[(Fact|Theory|Test|TestMethod)\]`)
	csDIRe           = regexp.MustCompile(`Add(Transient|Scoped|Singleton)\s*<|IServiceCollection`)

	csHardcodedPasswordRe = regexp.MustCompile(`(?i)password\s*=\s*"[^"]{3,}"`)
	csSQLConcatRe         = regexp.MustCompile(`SqlCommand\s*\(\s*".*\+`)
	csWeakHashRe          = regexp.MustCompile(`\b(MD5|SHA1)\.Create\s*\(`)

	slnProjectRe = regexp.MustCompile(`(?m)^Project\(`)
)

// csharpProject is the subset of a .csproj the profiler cares about.
// SDK-style project files carry no namespace, so local-name matching
// covers both styles.
type csharpProject struct {
	TargetFramework   string   `xml:"PropertyGroup>TargetFramework"`
	TargetFrameworks  string   `xml:"PropertyGroup>TargetFrameworks"`
	PackageReferences []csRef  `xml:"ItemGroup>PackageReference"`
	ProjectReferences []string `xml:"ItemGroup>ProjectReference"`
}

type csRef struct {
	Include string `xml:"Include,attr"`
}

// Analyze implements the Profiler interface.
func (p *DotNetProfiler) Analyze(ctx context.Context, root string) (schema.MetricsMap, error) {
	csFiles := collectFiles(root, ".cs")
	metrics := schema.MetricsMap{}

	metrics.Merge(p.analyzeProjects(root))
	metrics.Merge(p.analyzeStructure(csFiles))
	metrics.Merge(p.analyzeDependencyInjection(csFiles))
	metrics.Merge(p.analyzeArchitecture(root, csFiles))
	metrics.Merge(p.analyzeCodePatterns(csFiles))
	metrics.Merge(p.analyzeTesting(csFiles))
	metrics.Merge(p.analyzeSecurity(csFiles))

	return metrics, nil
}

// analyzeProjects parses the .csproj and .sln files under root.
func (p *DotNetProfiler) analyzeProjects(root string) schema.MetricsMap {
	csprojFiles := collectFiles(root, ".csproj")
	slnFiles := collectFiles(root, ".sln")

	metrics := schema.MetricsMap{
		"dotnet_project_count":  len(csprojFiles),
		"dotnet_solution_count": len(slnFiles),
		"dotnet_has_solution":   len(slnFiles) > 0,
	}

	slnProjects := 0
	for _, slnFile := range slnFiles {
		content, ok := readFileText(slnFile)
		if !ok {
			continue
		}
		slnProjects += len(slnProjectRe.FindAllString(content, -1))
	}
	metrics["dotnet_solution_projects"] = slnProjects

	var frameworks []string
	packageRefs, projectRefs := 0, 0
	packages := make(map[string]bool)

	for _, csprojFile := range csprojFiles {
		data, err := os.ReadFile(csprojFile)
		if err != nil {
			continue
		}
		var project csharpProject
		if err := xml.Unmarshal(data, &project); err != nil {
			continue
		}

		if project.TargetFramework != "" {
			frameworks = append(frameworks, project.TargetFramework)
		}
		for _, tf := range strings.Split(project.TargetFrameworks, ";") {
			if tf = strings.TrimSpace(tf); tf != "" {
				frameworks = append(frameworks, tf)
			}
		}
		packageRefs += len(project.PackageReferences)
		projectRefs += len(project.ProjectReferences)
		for _, ref := range project.PackageReferences {
			packages[ref.Include] = true
		}
	}

	metrics["dotnet_target_frameworks"] = dedupeStrings(frameworks)
	metrics["dotnet_package_reference_count"] = packageRefs
	metrics["dotnet_project_reference_count"] = projectRefs
	metrics["dotnet_uses_modern_framework"] = usesModernFramework(frameworks)
	metrics["dotnet_uses_legacy_framework"] = usesLegacyFramework(frameworks)

	hasPackage := func(substr string) bool {
		for pkg := range packages {
			if strings.Contains(pkg, substr) {
				return true
			}
		}
		return false
	}
	metrics["uses_aspnet_core"] = hasPackage("Microsoft.AspNetCore")
	metrics["uses_entity_framework"] = hasPackage("EntityFramework") || hasPackage("Microsoft.EntityFrameworkCore")
	metrics["uses_xunit"] = hasPackage("xunit")
	metrics["uses_nunit"] = hasPackage("NUnit")
	metrics["uses_moq"] = hasPackage("Moq")
	metrics["uses_serilog"] = hasPackage("Serilog")

	return metrics
}

// usesModernFramework reports a net5+ or netcore/netstandard target.
func usesModernFramework(frameworks []string) bool {
	for _, tf := range frameworks {
		lower := strings.ToLower(tf)
		if strings.HasPrefix(lower, "netcoreapp") || strings.HasPrefix(lower, "netstandard") {
			return true
		}
		// net5.0 and later use the bare "netX.Y" form.
		if strings.HasPrefix(lower, "net") && strings.Contains(lower, ".") &&
			!strings.HasPrefix(lower, "net4") {
			return true
		}
	}
	return false
}

// usesLegacyFramework reports a .NET Framework 4.x target (net45, net472).
func usesLegacyFramework(frameworks []string) bool {
	for _, tf := range frameworks {
		lower := strings.ToLower(tf)
		if strings.HasPrefix(lower, "net4") || strings.HasPrefix(lower, "v4.") {
			return true
		}
	}
	return false
}

// analyzeStructure counts namespaces, classes and common using targets.
func (p *DotNetProfiler) analyzeStructure(csFiles []string) schema.MetricsMap {
	namespaces := make(map[string]bool)
	usingCounts := make(map[string]int)
	mainClasses, testClasses, interfaces := 0, 0, 0

	for _, csFile := range csFiles {
		content, ok := readFileText(csFile)
		if !ok {
			continue
		}

		if m := csNamespaceRe.FindStringSubmatch(content); m != nil {
			namespaces[m[1]] = true
		}
		for _, m := range csUsingRe.FindAllStringSubmatch(content, -1) {
			usingCounts[strings.SplitN(m[1], ".", 2)[0]]++
		}
		if csClassRe.MatchString(content) {
			if isDotNetTestPath(csFile) {
				testClasses++
			} else {
				mainClasses++
			}
		}
		if strings.Contains(content, "interface I") {
			interfaces++
		}
	}

	return schema.MetricsMap{
		"dotnet_total_namespaces":   len(namespaces),
		"dotnet_main_classes":       mainClasses,
		"dotnet_test_classes":       testClasses,
		"dotnet_interfaces":         interfaces,
		"dotnet_test_to_main_ratio": float64(testClasses) / maxFloat(float64(mainClasses), 1),
		"dotnet_top_usings":         topCounts(usingCounts, 10),
	}
}

// analyzeDependencyInjection samples source files for container
// registration calls.
func (p *DotNetProfiler) analyzeDependencyInjection(csFiles []string) schema.MetricsMap {
	diFiles := 0
	for _, csFile := range sample(csFiles, diSampleLimit) {
		content, ok := readFileText(csFile)
		if !ok {
			continue
		}
		if csDIRe.MatchString(content) {
			diFiles++
		}
	}
	return schema.MetricsMap{
		"dotnet_uses_dependency_injection": diFiles > 0,
		"dotnet_di_files":                  diFiles,
	}
}

// analyzeArchitecture looks for clean-architecture and layered project
// naming conventions in the directory layout and namespaces.
func (p *DotNetProfiler) analyzeArchitecture(root string, csFiles []string) schema.MetricsMap {
	dirNames := make(map[string]bool)
	for _, csFile := range csFiles {
		rel, err := filepath.Rel(root, csFile)
		if err != nil {
			continue
		}
		for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
			dirNames[strings.ToLower(part)] = true
		}
	}

	hasAny := func(names ...string) bool {
		for _, name := range names {
			if dirNames[name] {
				return true
			}
		}
		return false
	}

	hasDomain := hasAny("domain", "core")
	hasApplication := hasAny("application", "usecases")
	hasInfrastructure := hasAny("infrastructure", "persistence")
	hasPresentation := hasAny("api", "web", "presentation")

	cleanArch := hasDomain && hasApplication && hasInfrastructure
	layered := hasAny("controllers") && hasAny("services") && hasAny("models", "repositories")

	return schema.MetricsMap{
		"dotnet_has_clean_architecture":   cleanArch,
		"dotnet_has_layered_architecture": layered,
		"dotnet_has_presentation_layer":   hasPresentation,
	}
}

// analyzeCodePatterns applies the size-based anti-pattern checks.
func (p *DotNetProfiler) analyzeCodePatterns(csFiles []string) schema.MetricsMap {
	largeClasses, godClasses := 0, 0

	for _, csFile := range csFiles {
		content, ok := readFileText(csFile)
		if !ok {
			continue
		}
		lines := strings.Count(content, "\n") + 1
		if lines > csLargeClassLines {
			largeClasses++
		}
		methodCount := len(csPublicMethodRe.FindAllString(content, -1))
		if methodCount > csGodClassMethods || lines > csGodClassLines {
			godClasses++
		}
	}

	total := len(csFiles)
	return schema.MetricsMap{
		"dotnet_large_classes":     largeClasses,
		"dotnet_god_classes":       godClasses,
		"dotnet_large_class_ratio": float64(largeClasses) / maxFloat(float64(total), 1),
		"dotnet_god_class_ratio":   float64(godClasses) / maxFloat(float64(total), 1),
	}
}

// analyzeTesting counts test files and attribute-marked test methods.
func (p *DotNetProfiler) analyzeTesting(csFiles []string) schema.MetricsMap {
	var testFiles []string
	mainCount := 0
	for _, csFile := range csFiles {
		if isDotNetTestPath(csFile) {
			testFiles = append(testFiles, csFile)
		} else {
			mainCount++
		}
	}

	testMethods := 0
	for _, testFile := range testFiles {
		content, ok := readFileText(testFile)
		if !ok {
			continue
		}
		testMethods += len(csTestAttrRe.FindAllString(content, -1))
	}

	return schema.MetricsMap{
		"dotnet_test_files":         len(testFiles),
		"dotnet_test_methods":       testMethods,
		"dotnet_test_file_ratio":    float64(len(testFiles)) / maxFloat(float64(mainCount), 1),
		"dotnet_avg_tests_per_file": float64(testMethods) / maxFloat(float64(len(testFiles)), 1),
	}
}

// analyzeSecurity runs the sampled credential/SQL/weak-hash scan.
func (p *DotNetProfiler) analyzeSecurity(csFiles []string) schema.MetricsMap {
	hardcodedCredentials, sqlInjectionRisks, weakHashUsage := 0, 0, 0

	for _, csFile := range sample(csFiles, securitySampleLimit) {
		content, ok := readFileText(csFile)
		if !ok {
			continue
		}
		if csHardcodedPasswordRe.MatchString(content) {
			hardcodedCredentials++
		}
		if csSQLConcatRe.MatchString(content) {
			sqlInjectionRisks++
		}
		if csWeakHashRe.MatchString(content) {
			weakHashUsage++
		}
	}

	return schema.MetricsMap{
		"dotnet_hardcoded_credentials": hardcodedCredentials,
		"dotnet_sql_injection_risks":   sqlInjectionRisks,
		"dotnet_weak_hash_usage":       weakHashUsage,
	}
}

// isDotNetTestPath reports whether a C# file lives in a test project or
// follows the *Tests.cs suffix convention.
func isDotNetTestPath(path string) bool {
	normalized := strings.ToLower(filepath.ToSlash(path))
	return strings.Contains(normalized, "test") &&
		(strings.Contains(normalized, "/test") || strings.HasSuffix(normalized, "tests.cs") ||
			strings.HasSuffix(normalized, "test.cs"))
}

// dedupeStrings returns the unique values in order of first appearance.
func dedupeStrings(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
